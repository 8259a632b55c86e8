// seed 数据工具：往病人槽位写入种子数据、清空或打印当前内容。
// 用法：seed [-config path] seed|clear|show
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"hospitalink-admin/internal/core/config"
	"hospitalink-admin/internal/core/database"
	"hospitalink-admin/internal/core/logger"
	"hospitalink-admin/internal/feature/patient"
	"hospitalink-admin/internal/kvstore"
)

func main() {
	cfgPath := flag.String("config", "", "config file path")
	flag.Parse()

	_ = godotenv.Load()
	cfg := config.Load(*cfgPath)
	log, cleanup := logger.New(cfg.Log.Level, false)
	defer cleanup()

	slot := openPatientSlot(cfg, log)
	svc := patient.NewService(slot, log)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	switch flag.Arg(0) {
	case "seed":
		res := svc.Seed(ctx)
		if !res.Success {
			log.Fatal("seed failed", zap.String("error", res.Error))
		}
		fmt.Printf("%s: %d patients\n", res.Message, len(res.Data))

	case "clear":
		res := svc.ClearAll(ctx)
		if !res.Success {
			log.Fatal("clear failed", zap.String("error", res.Error))
		}
		fmt.Println(res.Message)

	case "show":
		res := svc.GetAll(ctx)
		if !res.Success {
			log.Fatal("load failed", zap.String("error", res.Error))
		}
		for _, p := range res.Data {
			fmt.Printf("%s  %-20s %s  %s\n", p.ID, p.Name, p.Gender, p.NIK)
		}
		fmt.Printf("total: %d\n", len(res.Data))

	default:
		fmt.Fprintln(os.Stderr, "usage: seed [-config path] seed|clear|show")
		os.Exit(2)
	}
}

func openPatientSlot(cfg *config.Config, log *zap.Logger) kvstore.Slot {
	switch cfg.Store.Backend {
	case "redis":
		rdb := kvstore.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		return kvstore.NewRedisSlot(rdb, kvstore.SlotPatients)

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
		if err := kvstore.AutoMigrate(db); err != nil {
			log.Fatal("automigrate failed", zap.Error(err))
		}
		return kvstore.NewGormSlot(db, kvstore.SlotPatients)

	case "mongo":
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		cli, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.Mongo.URI))
		if err != nil {
			log.Fatal("mongo connect", zap.Error(err))
		}
		return kvstore.NewMongoSlot(cli.Database(cfg.Mongo.Database), kvstore.SlotPatients)

	default:
		s, err := kvstore.NewFileSlot(cfg.Store.Dir, kvstore.SlotPatients)
		if err != nil {
			log.Fatal("file slot", zap.Error(err))
		}
		return s
	}
}
