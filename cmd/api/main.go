package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pos/internal/config"
	"pos/internal/infra/db"
	"pos/internal/infra/event"
	"pos/internal/logger"
	"pos/internal/metrics"
	"pos/internal/server"
	"pos/internal/usecase"

	"github.com/joho/godotenv"
)

type purchasePublisher interface {
	usecase.PurchaseEventPublisher
	Close() error
}

func main() {
	//.envはあれば読む（本番は環境変数で渡す）
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	log := logger.New(cfg.LogLevel, cfg.LogFormat)
	if envErr != nil {
		log.Debug().Err(envErr).Msg(".env not loaded")
	}

	//DB接続
	gormDB, err := db.Connect(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.DBDriver).Msg("db connect failed")
	}
	if err := db.Migrate(gormDB); err != nil {
		log.Fatal().Err(err).Msg("migrate failed")
	}
	if cfg.SeedDemoProducts {
		n, err := db.SeedDemoProducts(context.Background(), gormDB)
		if err != nil {
			log.Fatal().Err(err).Msg("seed failed")
		}
		log.Info().Int("inserted", n).Msg("demo products seeded")
	}

	//購入イベント（ブローカー未設定なら送らない）
	var pub purchasePublisher = event.NopPublisher{}
	if len(cfg.KafkaBrokers) > 0 {
		pub = event.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaPurchaseTopic)
		log.Info().Strs("brokers", cfg.KafkaBrokers).Str("topic", cfg.KafkaPurchaseTopic).Msg("kafka publisher enabled")
	}
	defer func() {
		if err := pub.Close(); err != nil {
			log.Warn().Err(err).Msg("publisher close failed")
		}
	}()

	m := metrics.NewServerMetrics()

	handlers, err := server.NewHandlers(cfg, gormDB, m, pub)
	if err != nil {
		log.Fatal().Err(err).Msg("wiring failed")
	}

	e := server.New(server.Deps{
		Config:   cfg,
		Logger:   log,
		Metrics:  m,
		Handlers: handlers,
	})

	//Server起動
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info().Str("addr", cfg.Addr()).Msg("server starting")
	if err := server.Start(ctx, e, cfg.Addr(), 10*time.Second); err != nil {
		log.Error().Err(err).Msg("server stopped")
		return
	}
	log.Info().Msg("server stopped")
}
