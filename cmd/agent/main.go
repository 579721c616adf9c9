package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/reelsmith/reelsmith-agent/internal/api"
	"github.com/reelsmith/reelsmith-agent/internal/assets"
	"github.com/reelsmith/reelsmith-agent/internal/config"
	"github.com/reelsmith/reelsmith-agent/internal/db"
	"github.com/reelsmith/reelsmith-agent/internal/export"
	"github.com/reelsmith/reelsmith-agent/internal/logging"
	"github.com/reelsmith/reelsmith-agent/internal/player"
	"github.com/reelsmith/reelsmith-agent/internal/probe"
	"github.com/reelsmith/reelsmith-agent/internal/render"
	"github.com/reelsmith/reelsmith-agent/internal/share"
	"github.com/reelsmith/reelsmith-agent/internal/stream"
	"github.com/reelsmith/reelsmith-agent/internal/timeline"
	"github.com/reelsmith/reelsmith-agent/internal/tui"
	"github.com/reelsmith/reelsmith-agent/internal/ui"
	"github.com/reelsmith/reelsmith-agent/internal/watcher"
)

var Version = "0.1.0"

const probeTimeout = 15 * time.Second

func main() {
	if err := run(); err != nil {
		log.Fatalf("fatal error: %v", err)
	}
}

func run() error {
	startTime := time.Now()

	// A .env next to the binary is optional.
	_ = godotenv.Load()

	cfg, err := config.New()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := os.MkdirAll(cfg.DataDir(), 0755); err != nil {
		return fmt.Errorf("failed to create data dir: %w", err)
	}
	if err := os.MkdirAll(cfg.ExportDir(), 0755); err != nil {
		return fmt.Errorf("failed to create export dir: %w", err)
	}

	logger := logging.NewLogger(cfg.LogLevel())
	logger.Info("starting reelsmith agent", "version", Version, "data_dir", cfg.DataDir())

	database, err := db.New(cfg.DBPath(), logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer database.Close()

	repo := assets.NewRepository(database.Conn())

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
	fmt.Println("║                   REELSMITH AGENT v0.1.0                  ║")
	fmt.Println("╠═══════════════════════════════════════════════════════════╣")
	fmt.Printf("║  API URL:    http://127.0.0.1:%-27d ║\n", cfg.Port())
	fmt.Printf("║  Auth Token: %-45s ║\n", authToken)
	fmt.Printf("║  Device ID:  %-45s ║\n", deviceID[:16]+"...")
	fmt.Println("╚═══════════════════════════════════════════════════════════╝")
	fmt.Println()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	binSvc := assets.NewService(repo, logger)

	for _, dir := range cfg.MediaDirs() {
		if _, err := binSvc.RegisterLocal(ctx, dir); err != nil {
			logger.Warn("failed to register media folder", "dir", dir, "error", err)
		}
	}
	if cfg.S3Enabled() {
		if _, err := binSvc.RegisterS3(ctx, cfg.S3Bucket(), cfg.S3Prefix(), cfg.S3Region(), cfg.PresignTTL()); err != nil {
			logger.Warn("failed to register s3 media source",
				"bucket", cfg.S3Bucket(), "error", err)
		} else {
			logger.Info("s3 media source registered",
				"bucket", cfg.S3Bucket(), "prefix", cfg.S3Prefix(), "region", cfg.S3Region())
		}
	}

	doctor := probe.NewDoctor(logger)
	prober := probe.NewFFmpegProber(probeTimeout, logger)
	if avail := doctor.Get(); avail.Available {
		logger.Info("ffprobe detected", "path", avail.Path)
	} else {
		logger.Warn("ffprobe not found, media metadata disabled", "error", avail.Error)
	}

	runner := assets.NewRunner(binSvc, repo, prober, doctor, cfg.RefreshInterval(), logger)
	go runner.Start(ctx)

	fsWatcher := watcher.NewStubWatcher(logger)
	fsWatcher.OnChange(func(path string, event watcher.EventType) {
		if err := binSvc.Refresh(ctx); err != nil {
			logger.Warn("refresh after folder change failed", "path", path, "error", err)
		}
	})
	for _, dir := range cfg.MediaDirs() {
		if err := fsWatcher.Watch(ctx, dir); err != nil {
			logger.Warn("failed to watch media folder", "dir", dir, "error", err)
		}
	}
	defer fsWatcher.Stop()

	store := timeline.NewStore(timeline.Config{
		HistoryDepth: cfg.HistoryDepth(),
		MediaSeconds: cfg.MediaClipSeconds(),
		TextSeconds:  cfg.TextClipSeconds(),
		Logger:       logger,
	})

	clock := render.NewClock()
	controller := player.NewController(store, clock, player.Config{
		FPS:          cfg.FPS(),
		PollInterval: cfg.PollInterval(),
		Width:        cfg.CompositionWidth(),
		Height:       cfg.CompositionHeight(),
		Logger:       logger,
	})
	controller.Start()
	defer controller.Close()

	exporter := export.NewExporter(cfg.ExportDir(), float64(cfg.FPS()), logger)

	var shareClient share.Client
	if cfg.ShareURL() != "" && cfg.ShareToken() != "" {
		httpClient := share.NewHTTPClient(cfg.ShareURL(), cfg.ShareToken(), logger)
		httpClient.SetDeviceID(deviceID)
		shareClient = httpClient
		logger.Info("share endpoint enabled", "base_url", cfg.ShareURL())
	} else {
		shareClient = share.NewStubClient(logger)
	}

	apiServer := api.NewServer(api.ServerConfig{
		Port:       cfg.Port(),
		Assets:     binSvc,
		Repository: repo,
		Runner:     runner,
		Doctor:     doctor,
		Store:      store,
		Exporter:   exporter,
		Share:      shareClient,
		Stream:     stream.NewServer(binSvc, logger),
		Logger:     logger,
		StartTime:  startTime,
		DeviceID:   deviceID,
		Version:    Version,
	})

	go func() {
		if err := apiServer.Start(); err != nil {
			logger.Error("HTTP server error", "error", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	quitCh := make(chan struct{})
	var quitOnce sync.Once
	quit := func() { quitOnce.Do(func() { close(quitCh) }) }

	go func() {
		select {
		case sig := <-sigCh:
			logger.Info("received shutdown signal", "signal", sig)
			quit()
		case <-quitCh:
		}
	}()

	if cfg.Headless() {
		logger.Info("running in headless mode (no editor, no system tray)")
	} else {
		tray := ui.NewTray(ui.TrayConfig{
			Runner: runner,
			Logger: logger,
			OnRefresh: func() error {
				return binSvc.Refresh(ctx)
			},
			OnQuit: quit,
		})
		go tray.Run()
		defer tray.Quit()

		go func() {
			if err := tui.Run(tui.Config{
				Store:       store,
				Assets:      binSvc,
				Exporter:    exporter,
				ProjectName: "untitled",
				FrameRate:   float64(cfg.FPS()),
				Logger:      logger,
			}); err != nil {
				logger.Error("editor error", "error", err)
			}
			quit()
		}()
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

func ensureDeviceID(repo assets.Repository) (string, error) {
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

func ensureAuthToken(repo assets.Repository) (string, error) {
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
