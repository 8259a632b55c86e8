package config

import (
	"log"
	"os"
	"strings"

	"github.com/spf13/viper"
)

type HTTP struct {
	Host            string
	Port            int
	ReadTimeoutSec  int
	WriteTimeoutSec int
	IdleTimeoutSec  int
}

type AdminHTTP struct {
	Host string
	Port int
}

type App struct {
	Name  string
	Env   string
	HTTP  HTTP
	Admin AdminHTTP
}

type Log struct {
	Level string
	JSON  bool

	// File 非空时启用滚动文件输出
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

type JWT struct {
	Secret            string
	Issuer            string
	AccessTokenTTLMin int
}

type Redis struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type DB struct {
	Driver             string
	DSN                string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeMin int
	AutoMigrate        bool
	LogLevel           string
}

type Mongo struct {
	URI      string
	Database string
}

// Store 记录槽位后端："file" | "redis" | "gorm" | "mongo"
type Store struct {
	Backend string
	Dir     string // file 后端的数据目录
}

// Upstream 远端 admin API；BaseURL 为空时退回本地开发地址
type Upstream struct {
	BaseURL    string
	TimeoutSec int
}

// Auth Mode："remote"（走上游 /auth/web/login）| "local"（本地 bcrypt+JWT）
type Auth struct {
	Mode string
}

type Config struct {
	App      App
	Log      Log
	JWT      JWT
	Redis    Redis `mapstructure:"redis"`
	DB       DB
	Mongo    Mongo
	Store    Store
	Upstream Upstream
	Auth     Auth
}

func Load(path string) *Config {
	v := viper.New()
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
		if path == "" {
			path = "./configs/config.local.yaml"
		}
	}
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("APP")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// 配置文件缺失时按默认值 + 环境变量跑，读出错才算致命
	if err := v.ReadInConfig(); err != nil {
		if _, statErr := os.Stat(path); statErr == nil {
			log.Fatalf("read config: %v", err)
		}
	}
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		log.Fatalf("unmarshal config: %v", err)
	}
	applyDefaults(&c)
	return &c
}

func applyDefaults(c *Config) {
	if c.App.Name == "" {
		c.App.Name = "hospitalink-admin"
	}
	if c.App.HTTP.Port == 0 {
		c.App.HTTP.Port = 8080
	}
	if c.App.HTTP.ReadTimeoutSec == 0 {
		c.App.HTTP.ReadTimeoutSec = 10
	}
	if c.App.HTTP.WriteTimeoutSec == 0 {
		c.App.HTTP.WriteTimeoutSec = 10
	}
	if c.App.HTTP.IdleTimeoutSec == 0 {
		c.App.HTTP.IdleTimeoutSec = 60
	}
	if c.App.Admin.Port == 0 {
		c.App.Admin.Port = 9090
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.File != "" {
		if c.Log.MaxSizeMB <= 0 {
			c.Log.MaxSizeMB = 100
		}
		if c.Log.MaxBackups <= 0 {
			c.Log.MaxBackups = 7
		}
		if c.Log.MaxAgeDays <= 0 {
			c.Log.MaxAgeDays = 30
		}
	}
	if c.JWT.Issuer == "" {
		c.JWT.Issuer = c.App.Name
	}
	if c.JWT.AccessTokenTTLMin <= 0 {
		c.JWT.AccessTokenTTLMin = 120
	}
	if c.Store.Backend == "" {
		c.Store.Backend = "file"
	}
	if c.Store.Dir == "" {
		c.Store.Dir = "./data"
	}
	if c.Upstream.TimeoutSec <= 0 {
		c.Upstream.TimeoutSec = 10
	}
	if c.Auth.Mode == "" {
		c.Auth.Mode = "remote"
	}
}
