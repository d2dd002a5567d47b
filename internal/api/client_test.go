package api

import (
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func newClientServerPair(t *testing.T) (*Client, *fakeExecutor) {
	t.Helper()

	executor := &fakeExecutor{connected: true, response: "pong"}
	logPath := filepath.Join(t.TempDir(), "latest.log")
	if err := os.WriteFile(logPath, []byte("line 1\nline 2\nline 3\n"), 0o644); err != nil {
		t.Fatalf("Failed to write log file: %v", err)
	}

	server := httptest.NewServer(NewServer(testToken, logPath, executor).Router())
	t.Cleanup(server.Close)

	return NewClient(server.URL, testToken), executor
}

func TestClientCommand(t *testing.T) {
	client, executor := newClientServerPair(t)

	result, err := client.Command("ping")
	if err != nil {
		t.Fatalf("Command() error: %v", err)
	}
	if result != "pong" {
		t.Errorf("Result = %q, want pong", result)
	}
	if len(executor.executed) != 1 || executor.executed[0] != "ping" {
		t.Errorf("Executed = %v", executor.executed)
	}
}

func TestClientLogs(t *testing.T) {
	client, _ := newClientServerPair(t)

	logs, err := client.Logs(2)
	if err != nil {
		t.Fatalf("Logs() error: %v", err)
	}
	if logs != "line 2\nline 3" {
		t.Errorf("Logs = %q", logs)
	}
}

func TestClientStatus(t *testing.T) {
	client, _ := newClientServerPair(t)

	status, err := client.Status()
	if err != nil {
		t.Fatalf("Status() error: %v", err)
	}
	if !status.RconConnected || !status.LogWatcherActive {
		t.Errorf("Status = %+v", status)
	}
}

func TestClientWrongToken(t *testing.T) {
	client, executor := newClientServerPair(t)
	client.token = "wrong"

	_, err := client.Command("list")
	if err == nil {
		t.Fatal("Expected error for wrong token")
	}
	if !strings.Contains(err.Error(), "Unauthorized") {
		t.Errorf("Error = %v, want Unauthorized mention", err)
	}
	if len(executor.executed) != 0 {
		t.Errorf("Executor called despite bad token: %v", executor.executed)
	}
}

func TestClientValidationError(t *testing.T) {
	client, _ := newClientServerPair(t)

	if _, err := client.Logs(500); err == nil {
		t.Fatal("Expected error for out-of-range line count")
	}
}

func TestClientHealth(t *testing.T) {
	client, _ := newClientServerPair(t)
	client.token = "" // health needs no token

	health, err := client.Health()
	if err != nil {
		t.Fatalf("Health() error: %v", err)
	}
	if health.Status != "ok" {
		t.Errorf("Status = %q", health.Status)
	}
}
