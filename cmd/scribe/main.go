package main

import (
	"context"
	"errors"
	"log"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/mkern/scribe/internal/config"
	"github.com/mkern/scribe/internal/ipc"
	"github.com/mkern/scribe/internal/prefs"
	"github.com/mkern/scribe/internal/protocol"
	"github.com/mkern/scribe/internal/router"
	"github.com/mkern/scribe/internal/ui"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := buildLogger(cfg.Log)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dialCtx, cancel := context.WithTimeout(ctx, time.Duration(cfg.Host.DialTimeout)*time.Second)
	conn, err := ipc.Dial(dialCtx, cfg.Host.URL)
	cancel()
	if err != nil {
		logger.Fatal("host connection failed", zap.String("url", cfg.Host.URL), zap.Error(err))
	}
	defer conn.Close()

	logger.Info("connected to host", zap.String("url", cfg.Host.URL))

	r := router.New(hostSender{ctx: ctx, conn: conn}, ui.Noop(), logger)
	if saved, err := prefs.LoadSession(); err == nil {
		r.RestoreSession(saved)
	} else {
		logger.Warn("previous session not restored", zap.Error(err))
	}
	defer func() {
		if err := prefs.SaveSession(r.SnapshotSession()); err != nil {
			logger.Warn("session not saved", zap.Error(err))
		}
	}()
	r.Bootstrap()

	// The message loop: one inbound envelope at a time, each handler run
	// to completion before the next read. This loop is the concurrency
	// model of the whole control layer.
	for {
		env, err := conn.Receive(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				logger.Info("shutting down")
				return
			}
			logger.Error("connection lost", zap.Error(err))
			return
		}
		r.Dispatch(env)
	}
}

// hostSender adapts the connection to the router's fire-and-forget
// outbound interface.
type hostSender struct {
	ctx  context.Context
	conn *ipc.Conn
}

func (s hostSender) Send(env protocol.Envelope) error {
	return s.conn.Send(s.ctx, env)
}

func buildLogger(cfg config.LogConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zc zap.Config
	if cfg.Format == "console" {
		zc = zap.NewDevelopmentConfig()
	} else {
		zc = zap.NewProductionConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	return zc.Build()
}
