package bridge

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/minebridge/minebridge/internal/core"
)

func testConfig(t *testing.T) *core.Configuration {
	t.Helper()

	logPath := filepath.Join(t.TempDir(), "latest.log")
	if err := os.WriteFile(logPath, []byte(""), 0o644); err != nil {
		t.Fatalf("Failed to create log file: %v", err)
	}

	cfg := core.GetDefaultConfig()
	cfg.Listen = "127.0.0.1:0"
	cfg.SecretToken = "token"
	cfg.RCON.Password = "password"
	cfg.RCON.Timeout = 100 * time.Millisecond
	cfg.Log.Path = logPath
	return cfg
}

func TestNewRejectsInvalidPatterns(t *testing.T) {
	cfg := testConfig(t)
	cfg.Log.ExtraPatterns = []string{`[unclosed`}

	if _, err := New(cfg); err == nil {
		t.Fatal("Expected error for invalid extra pattern")
	}
}

func TestRunShutsDownOnContextCancel(t *testing.T) {
	// No RCON server and no webhook configured: the bridge must still come
	// up with both features degraded and shut down cleanly.
	b, err := New(testConfig(t))
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- b.Run(ctx)
	}()

	// Give the components a moment to start before canceling
	time.Sleep(300 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run() error: %v", err)
		}
	case <-time.After(15 * time.Second):
		t.Fatal("Timed out waiting for shutdown")
	}

	if b.session.Connected() {
		t.Error("Expected RCON session disconnected after shutdown")
	}
}

func TestRunAnnouncesConnectFailure(t *testing.T) {
	var mu sync.Mutex
	var contents []string
	hook := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload struct {
			Content string `json:"content"`
		}
		json.NewDecoder(r.Body).Decode(&payload)
		mu.Lock()
		contents = append(contents, payload.Content)
		mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	}))
	defer hook.Close()

	// No RCON server is listening, so the initial connect attempt fails and
	// must be announced over the webhook.
	cfg := testConfig(t)
	cfg.Webhook.URL = hook.URL

	b, err := New(cfg)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- b.Run(ctx)
	}()

	time.Sleep(500 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run() error: %v", err)
		}
	case <-time.After(15 * time.Second):
		t.Fatal("Timed out waiting for shutdown")
	}

	mu.Lock()
	defer mu.Unlock()
	found := false
	for _, content := range contents {
		if strings.HasPrefix(content, "❌ RCON connection error:") {
			found = true
		}
	}
	if !found {
		t.Errorf("Expected an RCON connection error announcement, got %v", contents)
	}
}

func TestRunFailsWhenListenerCannotBind(t *testing.T) {
	cfg := testConfig(t)
	cfg.Listen = "256.256.256.256:99999" // unbindable

	b, err := New(cfg)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := b.Run(ctx); err == nil {
		t.Fatal("Expected error when the API listener cannot bind")
	}
}
