package notify

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

func captureWebhook(t *testing.T) (*Webhook, *[]webhookPayload) {
	t.Helper()

	var payloads []webhookPayload
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			t.Errorf("Failed to read webhook body: %v", err)
		}
		var payload webhookPayload
		if err := json.Unmarshal(body, &payload); err != nil {
			t.Errorf("Webhook body is not valid JSON: %v", err)
		}
		payloads = append(payloads, payload)
		w.WriteHeader(http.StatusNoContent)
	}))
	t.Cleanup(server.Close)

	return NewWebhook(server.URL), &payloads
}

func TestSend(t *testing.T) {
	webhook, payloads := captureWebhook(t)

	if err := webhook.Send("🚀 bridge is now online"); err != nil {
		t.Fatalf("Send() error: %v", err)
	}

	if len(*payloads) != 1 {
		t.Fatalf("Expected 1 webhook call, got %d", len(*payloads))
	}
	got := (*payloads)[0]
	if got.Content != "🚀 bridge is now online" {
		t.Errorf("Content = %q", got.Content)
	}
	if got.Username != webhookUsername {
		t.Errorf("Username = %q, want %q", got.Username, webhookUsername)
	}
	if len(got.Embeds) != 0 {
		t.Errorf("Expected no embeds, got %v", got.Embeds)
	}
}

func TestSendLogLine(t *testing.T) {
	webhook, payloads := captureWebhook(t)

	if err := webhook.SendLogLine("[INFO] Player1 joined the game"); err != nil {
		t.Fatalf("SendLogLine() error: %v", err)
	}

	got := (*payloads)[0]
	if got.Content != "```[INFO] Player1 joined the game```" {
		t.Errorf("Content = %q, want code block wrapping", got.Content)
	}
}

func TestSendEmbed(t *testing.T) {
	webhook, payloads := captureWebhook(t)

	embed := StatusEmbed(true, false)
	if err := webhook.SendEmbed("status", embed); err != nil {
		t.Fatalf("SendEmbed() error: %v", err)
	}

	got := (*payloads)[0]
	if len(got.Embeds) != 1 {
		t.Fatalf("Expected 1 embed, got %d", len(got.Embeds))
	}
	if got.Embeds[0].Title != "Minecraft Server Status" {
		t.Errorf("Embed title = %q", got.Embeds[0].Title)
	}
	if got.Embeds[0].Color != colorGreen {
		t.Errorf("Embed color = %d, want green when connected", got.Embeds[0].Color)
	}
	if len(got.Embeds[0].Fields) != 2 {
		t.Fatalf("Expected 2 embed fields, got %d", len(got.Embeds[0].Fields))
	}
	if got.Embeds[0].Fields[1].Value != "❌ Inactive" {
		t.Errorf("Log watcher field = %q", got.Embeds[0].Fields[1].Value)
	}
}

func TestStatusEmbedDisconnectedIsRed(t *testing.T) {
	embed := StatusEmbed(false, true)
	if embed.Color != colorRed {
		t.Errorf("Color = %d, want red when disconnected", embed.Color)
	}
	if embed.Fields[0].Value != "❌ Disconnected" {
		t.Errorf("RCON field = %q", embed.Fields[0].Value)
	}
}

func TestSendErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer server.Close()

	webhook := NewWebhook(server.URL)
	if err := webhook.Send("hello"); err == nil {
		t.Fatal("Expected error for non-2xx webhook response")
	}
}

func TestDisabledWebhookIsNoop(t *testing.T) {
	webhook := NewWebhook("")

	if webhook.Enabled() {
		t.Error("Expected Enabled() = false for empty URL")
	}
	if err := webhook.Send("dropped"); err != nil {
		t.Errorf("Send() on disabled webhook should be a no-op, got %v", err)
	}
}
