package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cutform/cutform-engine/internal/api"
	"github.com/cutform/cutform-engine/internal/config"
	"github.com/cutform/cutform-engine/internal/db"
	"github.com/cutform/cutform-engine/internal/logging"
	"github.com/cutform/cutform-engine/internal/media"
	"github.com/cutform/cutform-engine/internal/mediaserve"
	"github.com/cutform/cutform-engine/internal/probe"
	"github.com/cutform/cutform-engine/internal/session"
	"github.com/cutform/cutform-engine/internal/ui"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("fatal error: %v", err)
	}
}

func run() error {
	startTime := time.Now()

	cfg, err := config.New()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := os.MkdirAll(cfg.DataDir(), 0755); err != nil {
		return fmt.Errorf("failed to create data dir: %w", err)
	}

	logger := logging.NewLogger(cfg.LogLevel())
	logger.Info("starting cutform engine", "version", config.Version, "data_dir", cfg.DataDir())

	database, err := db.New(cfg.DBPath(), logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer database.Close()

	repo := media.NewRepository(database.Conn())

	deviceID, err := ensureDeviceID(repo)
	if err != nil {
		return fmt.Errorf("failed to ensure device ID: %w", err)
	}

	authToken, err := ensureAuthToken(repo)
	if err != nil {
		return fmt.Errorf("failed to ensure auth token: %w", err)
	}

	fmt.Println()
	fmt.Println("╔═══════════════════════════════════════════════════════════╗")
	fmt.Printf("║                  CUTFORM ENGINE v%-7s                  ║\n", config.Version)
	fmt.Println("╠═══════════════════════════════════════════════════════════╣")
	fmt.Printf("║  API URL:    http://127.0.0.1:%-27d ║\n", cfg.Port())
	fmt.Printf("║  Auth Token: %-45s ║\n", authToken)
	fmt.Printf("║  Device ID:  %-45s ║\n", deviceID[:16]+"...")
	fmt.Println("╚═══════════════════════════════════════════════════════════╝")
	fmt.Println()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	registry, err := media.NewRegistry(ctx, repo, logger)
	if err != nil {
		return fmt.Errorf("failed to load media registry: %w", err)
	}

	prober := probe.NewFFprobe(cfg.FFprobePath(), logger)
	runner := media.NewRunner(registry, repo, prober, cfg.ProbeTimeout(), logger)
	go runner.Start(ctx)

	sess := session.New(session.Config{
		Registry:     registry,
		Logger:       logging.WithComponent(logger, "session"),
		TickInterval: cfg.TickInterval(),
	})
	go sess.Run(ctx)

	apiServer := api.NewServer(api.ServerConfig{
		Port:        cfg.Port(),
		Session:     sess,
		Registry:    registry,
		Repository:  repo,
		Runner:      runner,
		MediaServer: mediaserve.NewServer(logger),
		Logger:      logger,
		StartTime:   startTime,
		DeviceID:    deviceID,
	})

	go func() {
		if err := apiServer.Start(); err != nil {
			logger.Error("HTTP server error", "error", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	quitCh := make(chan struct{})

	go func() {
		select {
		case sig := <-sigCh:
			logger.Info("received shutdown signal", "signal", sig)
			close(quitCh)
		case <-quitCh:
		}
	}()

	if cfg.Headless() {
		logger.Info("running in headless mode (no system tray)")
	} else {
		tray := ui.NewTray(ui.TrayConfig{
			Registry: registry,
			Runner:   runner,
			Logger:   logger,
			OnQuit: func() {
				close(quitCh)
			},
		})
		go tray.Run()
	}

	<-quitCh

	logger.Info("initiating graceful shutdown")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := apiServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("failed to shutdown HTTP server", "error", err)
	}

	logger.Info("shutdown complete")
	return nil
}

func ensureDeviceID(repo media.Repository) (string, error) {
	ctx := context.Background()

	existing, err := repo.GetConfig(ctx, "device_id")
	if err == nil && existing != "" {
		return existing, nil
	}

	idBytes := make([]byte, 16)
	if _, err := rand.Read(idBytes); err != nil {
		return "", err
	}
	deviceID := hex.EncodeToString(idBytes)

	if err := repo.SetConfig(ctx, "device_id", deviceID); err != nil {
		return "", err
	}

	return deviceID, nil
}

func ensureAuthToken(repo media.Repository) (string, error) {
	ctx := context.Background()

	existing, err := repo.GetConfig(ctx, "auth_token")
	if err == nil && existing != "" {
		return existing, nil
	}

	tokenBytes := make([]byte, 32)
	if _, err := rand.Read(tokenBytes); err != nil {
		return "", err
	}
	token := hex.EncodeToString(tokenBytes)

	if err := repo.SetConfig(ctx, "auth_token", token); err != nil {
		return "", err
	}

	return token, nil
}
