// Package bridge assembles the relay daemon: one RCON session, one log
// tailer, the HTTP API, and the outbound webhook, with a single startup and
// shutdown sequence.
package bridge

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/minebridge/minebridge/internal/api"
	"github.com/minebridge/minebridge/internal/core"
	"github.com/minebridge/minebridge/internal/notify"
	"github.com/minebridge/minebridge/internal/rcon"
	"github.com/minebridge/minebridge/internal/watcher"
)

const shutdownTimeout = 10 * time.Second

// Bridge owns the collaborating pieces for one daemon run
type Bridge struct {
	cfg     *core.Configuration
	session *rcon.Session
	tailer  *watcher.Tailer
	webhook *notify.Webhook
	server  *http.Server
}

// New builds a bridge from the validated configuration
func New(cfg *core.Configuration) (*Bridge, error) {
	classifier, err := watcher.NewClassifier(cfg.Log.ExtraPatterns...)
	if err != nil {
		return nil, err
	}

	b := &Bridge{
		cfg:     cfg,
		session: rcon.NewSession(cfg.RCONAddress(), cfg.RCON.Password, cfg.RCON.Timeout),
		webhook: notify.NewWebhook(cfg.Webhook.URL),
	}

	// Announce every connect attempt, including mid-command recovery. The
	// goroutine keeps webhook I/O off the session lock.
	b.session.SetConnectListener(func(err error) {
		message := "✅ Connected to Minecraft server RCON"
		if err != nil {
			message = "❌ RCON connection error: " + err.Error()
		}
		go b.announce(message)
	})

	b.tailer = watcher.NewTailer(cfg.Log.Path, classifier, watcher.NotifierFunc(func(line string) {
		if err := b.webhook.SendLogLine(line); err != nil {
			slog.Error("Failed to push log line to webhook", "error", err)
		}
	}))

	apiServer := api.NewServer(cfg.SecretToken, cfg.Log.Path, b.session)
	b.server = &http.Server{
		Addr:    cfg.Listen,
		Handler: apiServer.Router(),
	}

	return b, nil
}

// Run starts all components and blocks until the context is canceled or the
// API listener fails. RCON connect failures and a missing log file degrade
// their feature and are announced; only a listener failure is fatal.
func (b *Bridge) Run(ctx context.Context) error {
	// The connect listener registered in New handles the webhook
	// announcements for this and every later attempt.
	if err := b.session.Connect(); err != nil {
		slog.Error("RCON connection failed", "address", b.cfg.RCONAddress(), "error", err)
	} else {
		slog.Info("Connected to Minecraft RCON", "address", b.cfg.RCONAddress())
	}

	watcherActive := true
	if err := b.tailer.Start(ctx); err != nil {
		watcherActive = false
		slog.Error("Log watcher failed to start", "error", err, "path", b.cfg.Log.Path)
		b.announce("❌ Log file not found: " + b.cfg.Log.Path)
	}

	listenErr := make(chan error, 1)
	go func() {
		slog.Info("API server listening", "address", b.cfg.Listen)
		if err := b.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			listenErr <- err
		}
	}()

	if b.webhook.Enabled() {
		embed := notify.StatusEmbed(b.session.Connected(), watcherActive && b.logFileExists())
		if err := b.webhook.SendEmbed("🚀 Minecraft server bridge is now online", embed); err != nil {
			slog.Error("Failed to send startup banner", "error", err)
		}
	}

	select {
	case <-ctx.Done():
	case err := <-listenErr:
		b.shutdown()
		return fmt.Errorf("api server: %w", err)
	}

	b.shutdown()
	return nil
}

// shutdown stops accepting requests, lets in-flight requests finish within
// the timeout, stops the watcher, and disconnects RCON best-effort.
func (b *Bridge) shutdown() {
	slog.Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := b.server.Shutdown(shutdownCtx); err != nil {
		slog.Error("API server shutdown", "error", err)
	}

	b.tailer.Close()
	b.session.Disconnect()

	b.announce("⚠️ Minecraft server bridge is shutting down")
	slog.Info("Bridge stopped")
}

func (b *Bridge) announce(message string) {
	if err := b.webhook.Send(message); err != nil {
		slog.Error("Failed to send webhook message", "error", err)
	}
}

func (b *Bridge) logFileExists() bool {
	_, err := os.Stat(b.cfg.Log.Path)
	return err == nil
}
