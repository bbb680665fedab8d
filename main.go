package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"restaurant-orders/bot"
	"restaurant-orders/config"
	"restaurant-orders/db"
	"restaurant-orders/services"

	"github.com/op/go-logging"
)

var log = logging.MustGetLogger("main")

// InitLogger installs the stdout backend at the given level (DEBUG, INFO, WARNING, ERROR).
func InitLogger(logLevel string) error {
	baseBackend := logging.NewLogBackend(os.Stdout, "", 0)
	format := logging.MustStringFormatter(
		`%{time:2006-01-02 15:04:05} %{level:.5s} %{module:-8s} %{message}`,
	)
	backendFormatter := logging.NewBackendFormatter(baseBackend, format)

	backendLeveled := logging.AddModuleLevel(backendFormatter)
	logLevelCode, err := logging.LogLevel(logLevel)
	if err != nil {
		return err
	}
	backendLeveled.SetLevel(logLevelCode, "")
	logging.SetBackend(backendLeveled)
	return nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if err := InitLogger(cfg.LogLevel); err != nil {
		log.Fatalf("log level: %v", err)
	}

	if len(os.Args) > 1 && os.Args[1] == "migrate" {
		runMigrate(cfg)
		return
	}

	if cfg.Telegram.Token == "" {
		log.Critical("TOKEN not set")
		os.Exit(1)
	}

	if err := db.Init(cfg.DB); err != nil {
		log.Fatalf("db: %v", err)
	}
	defer db.Close()

	if cfg.AutoMigrate {
		if err := applyMigrations(context.Background(), false); err != nil {
			log.Fatalf("migrate: %v", err)
		}
	}

	engine := services.NewEngine(services.NewPostgresStore(db.Pool), cfg.Report.Location)
	b, err := bot.New(cfg, engine)
	if err != nil {
		log.Fatalf("bot: %v", err)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)
	go func() {
		sig := <-sigChan
		log.Infof("received signal: %v, stopping bot", sig)
		b.Stop()
	}()

	log.Infof("bot started (reports in %s)", cfg.Report.Location)
	b.Start()
	log.Info("bot stopped")
}

func runMigrate(cfg *config.Config) {
	if err := db.Init(cfg.DB); err != nil {
		log.Fatalf("db: %v", err)
	}
	defer db.Close()

	if err := applyMigrations(context.Background(), true); err != nil {
		log.Fatalf("migrate: %v", err)
	}
}
