package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "go.uber.org/automaxprocs"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	coreauth "hospitalink-admin/internal/core/auth"
	"hospitalink-admin/internal/core/cache"
	"hospitalink-admin/internal/core/config"
	"hospitalink-admin/internal/core/database"
	"hospitalink-admin/internal/core/logger"
	"hospitalink-admin/internal/core/server"
	"hospitalink-admin/internal/core/session"
	"hospitalink-admin/internal/feature/auth"
	"hospitalink-admin/internal/feature/patient"
	"hospitalink-admin/internal/feature/user"
	"hospitalink-admin/internal/kvstore"
	"hospitalink-admin/internal/transport/http/router"
	"hospitalink-admin/internal/upstream"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load(os.Getenv("CONFIG_PATH"))
	log, cleanup := newLogger(cfg)
	defer cleanup()

	slots, c := openStore(cfg, log)

	// 会话先落盘再用，重启后登录态还在
	sess := session.New(slots.session)
	if err := sess.Load(context.Background()); err != nil {
		log.Warn("session load", zap.Error(err))
	}

	api := upstream.New(cfg.Upstream.BaseURL, time.Duration(cfg.Upstream.TimeoutSec)*time.Second, sess, log)
	api.SetUnauthorizedHook(func() {
		log.Warn("upstream rejected token, session cleared")
	})

	var jwter *coreauth.JWTer
	if cfg.Auth.Mode == auth.ModeLocal {
		jwter = &coreauth.JWTer{
			Secret: []byte(cfg.JWT.Secret),
			Issuer: cfg.JWT.Issuer,
			TTL:    time.Duration(cfg.JWT.AccessTokenTTLMin) * time.Minute,
		}
	}

	deps := router.Deps{
		Log:      log,
		Sess:     sess,
		Patients: patient.NewService(slots.patients, log),
		Users:    user.NewService(api, log),
		Auth:     auth.NewService(cfg.Auth.Mode, api, sess, slots.users, jwter, log),
		Jwter:    jwter,
		Cache:    c,
	}

	r := router.NewAPIEngine(deps)

	addr := server.Addr(cfg.App.HTTP.Host, cfg.App.HTTP.Port)
	srv := server.BuildServer(
		addr, r,
		time.Duration(cfg.App.HTTP.ReadTimeoutSec)*time.Second,
		time.Duration(cfg.App.HTTP.WriteTimeoutSec)*time.Second,
		time.Duration(cfg.App.HTTP.IdleTimeoutSec)*time.Second,
	)

	// 运维端口独立于业务端口
	opsSrv := server.BuildServer(
		server.Addr(cfg.App.Admin.Host, cfg.App.Admin.Port),
		server.NewOpsEngine(log),
		5*time.Second, 5*time.Second, 30*time.Second,
	)

	host4human := cfg.App.HTTP.Host
	if host4human == "" || host4human == "0.0.0.0" {
		host4human = "127.0.0.1"
	}
	baseURL := "http://" + host4human + ":" + fmt.Sprint(cfg.App.HTTP.Port)
	log.Info("admin api starting",
		zap.String("addr", addr),
		zap.String("open", baseURL),
		zap.String("health", baseURL+"/health"),
		zap.String("api_v1", baseURL+"/api/v1"),
		zap.String("store", cfg.Store.Backend),
		zap.String("auth_mode", cfg.Auth.Mode),
	)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("admin api start FAILED", zap.Error(err))
		}
	}()
	go func() {
		if err := server.StartHTTP(opsSrv, log); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("ops server stopped", zap.Error(err))
		}
	}()
	log.Info("admin api started SUCCESS")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
	_ = opsSrv.Shutdown(ctx)
	log.Info("admin api stopped gracefully")
}

// storeSlots 三个业务槽位共享同一后端
type storeSlots struct {
	patients kvstore.Slot
	session  kvstore.Slot
	users    kvstore.Slot
}

// openStore 按配置选槽位后端；redis 后端顺带把缓存也建起来
func openStore(cfg *config.Config, log *zap.Logger) (storeSlots, *cache.Cache) {
	switch cfg.Store.Backend {
	case "redis":
		rdb := kvstore.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		return storeSlots{
			patients: kvstore.NewRedisSlot(rdb, kvstore.SlotPatients),
			session:  kvstore.NewRedisSlot(rdb, kvstore.SlotSession),
			users:    kvstore.NewRedisSlot(rdb, kvstore.SlotUsers),
		}, cache.New(rdb)

	case "gorm":
		db, err := database.NewGorm(database.Opts{
			Driver:             cfg.DB.Driver,
			DSN:                cfg.DB.DSN,
			MaxOpenConns:       cfg.DB.MaxOpenConns,
			MaxIdleConns:       cfg.DB.MaxIdleConns,
			ConnMaxLifetimeMin: cfg.DB.ConnMaxLifetimeMin,
			LogLevel:           cfg.DB.LogLevel,
		})
		if err != nil {
			log.Fatal("db open", zap.Error(err))
		}
		if cfg.DB.AutoMigrate {
			if err := kvstore.AutoMigrate(db); err != nil {
				log.Fatal("automigrate failed", zap.Error(err))
			}
		}
		return storeSlots{
			patients: kvstore.NewGormSlot(db, kvstore.SlotPatients),
			session:  kvstore.NewGormSlot(db, kvstore.SlotSession),
			users:    kvstore.NewGormSlot(db, kvstore.SlotUsers),
		}, nil

	case "mongo":
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		cli, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.Mongo.URI))
		if err != nil {
			log.Fatal("mongo connect", zap.Error(err))
		}
		db := cli.Database(cfg.Mongo.Database)
		return storeSlots{
			patients: kvstore.NewMongoSlot(db, kvstore.SlotPatients),
			session:  kvstore.NewMongoSlot(db, kvstore.SlotSession),
			users:    kvstore.NewMongoSlot(db, kvstore.SlotUsers),
		}, nil

	default: // file
		return storeSlots{
			patients: mustFileSlot(cfg.Store.Dir, kvstore.SlotPatients, log),
			session:  mustFileSlot(cfg.Store.Dir, kvstore.SlotSession, log),
			users:    mustFileSlot(cfg.Store.Dir, kvstore.SlotUsers, log),
		}, nil
	}
}

func newLogger(cfg *config.Config) (*zap.Logger, func()) {
	if cfg.Log.File != "" {
		return logger.NewWithRotate(cfg.Log.Level, cfg.Log.JSON, cfg.Log.File,
			cfg.Log.MaxSizeMB, cfg.Log.MaxBackups, cfg.Log.MaxAgeDays, cfg.Log.Compress)
	}
	return logger.New(cfg.Log.Level, cfg.Log.JSON)
}

func mustFileSlot(dir, name string, log *zap.Logger) kvstore.Slot {
	s, err := kvstore.NewFileSlot(dir, name)
	if err != nil {
		log.Fatal("file slot", zap.String("name", name), zap.Error(err))
	}
	return s
}
