package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/DoyleJ11/checkers-server/internal/archive"
	"github.com/DoyleJ11/checkers-server/internal/config"
	"github.com/DoyleJ11/checkers-server/internal/httpapi"
	"github.com/DoyleJ11/checkers-server/internal/hub"
	"github.com/DoyleJ11/checkers-server/internal/lobby"
	"github.com/DoyleJ11/checkers-server/internal/msgcat"
	"github.com/DoyleJ11/checkers-server/internal/obslog"
	"github.com/DoyleJ11/checkers-server/internal/roomcode"
	"github.com/DoyleJ11/checkers-server/internal/ws"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	logger := obslog.Init(obslog.Options{Level: cfg.LogLevel, Format: cfg.LogFormat, Caller: cfg.LogCaller})
	defer func() { _ = logger.Sync() }()

	if err := run(cfg); err != nil {
		logger.Fatal("server_exit", zap.Error(err))
	}
}

func run(cfg *config.AppConfig) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cat, err := msgcat.New(cfg.MessagesDir)
	if err != nil {
		return err
	}

	var store archive.Store = archive.NopStore{}
	if cfg.DatabaseURL != "" {
		gs, err := archive.OpenGormStore(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		store = gs
	} else {
		obslog.L().Info("archive_disabled")
	}
	defer store.Close()
	writer := archive.NewWriter(store, 64)

	sb := ws.NewSwitchboard(cfg.ClientOutboxSize)
	reg := lobby.NewRegistry(roomcode.Generator(cfg.RoomCodeLength))
	h := hub.NewHub(ctx, hub.NewCoordinator(reg, sb, writer, cat), cfg.HubInboxSize)

	// Build the router *with* the hub injected
	handler := httpapi.SetupRoutes(h, sb, ws.Options{OriginPatterns: cfg.AllowedOrigins})
	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	// Stopped only after the hub, so every recorded match gets drained.
	writerCtx, stopWriter := context.WithCancel(context.Background())

	g.Go(func() error {
		obslog.L().Info("http_listen", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		err := srv.Shutdown(shutdownCtx)
		h.Shutdown()
		sb.CloseAll()
		stopWriter()
		return err
	})

	g.Go(func() error {
		return writer.Run(writerCtx)
	})

	return g.Wait()
}
