// Package notify pushes messages to a Discord-compatible webhook. Delivery
// is best-effort: failures are reported to the caller for logging, never
// retried here.
package notify

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const (
	webhookUsername  = "Minecraft Server Terminal"
	webhookAvatarURL = "https://www.minecraft.net/etc.clientlibs/minecraft/clientlibs/main/resources/img/minecraft-logo.png"

	// Discord embed colors
	colorGreen = 0x2ECC71
	colorRed   = 0xE74C3C
)

// Embed is a structured message summary
type Embed struct {
	Title  string       `json:"title,omitempty"`
	Color  int          `json:"color,omitempty"`
	Fields []EmbedField `json:"fields,omitempty"`
}

// EmbedField is a named value inside an embed
type EmbedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline,omitempty"`
}

type webhookPayload struct {
	Username  string  `json:"username,omitempty"`
	AvatarURL string  `json:"avatar_url,omitempty"`
	Content   string  `json:"content,omitempty"`
	Embeds    []Embed `json:"embeds,omitempty"`
}

// Webhook sends messages to a single webhook URL. An empty URL disables
// sending; every method becomes a no-op.
type Webhook struct {
	url    string
	client *http.Client
}

// NewWebhook creates a webhook sender with a bounded request timeout
func NewWebhook(url string) *Webhook {
	return &Webhook{
		url:    url,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

// Enabled reports whether a webhook URL is configured
func (w *Webhook) Enabled() bool {
	return w.url != ""
}

// Send posts a plain text message
func (w *Webhook) Send(content string) error {
	return w.post(webhookPayload{
		Username:  webhookUsername,
		AvatarURL: webhookAvatarURL,
		Content:   content,
	})
}

// SendEmbed posts a text message with an attached structured summary
func (w *Webhook) SendEmbed(content string, embed Embed) error {
	return w.post(webhookPayload{
		Username:  webhookUsername,
		AvatarURL: webhookAvatarURL,
		Content:   content,
		Embeds:    []Embed{embed},
	})
}

// SendLogLine posts a single noteworthy log line wrapped as a code block
func (w *Webhook) SendLogLine(line string) error {
	return w.Send("```" + line + "```")
}

func (w *Webhook) post(payload webhookPayload) error {
	if w.url == "" {
		return nil
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode webhook payload: %w", err)
	}

	resp, err := w.client.Post(w.url, "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to send webhook message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}

// StatusEmbed builds the server status summary: green when the RCON
// connection is up, red otherwise.
func StatusEmbed(rconConnected, logWatcherActive bool) Embed {
	color := colorGreen
	if !rconConnected {
		color = colorRed
	}

	return Embed{
		Title: "Minecraft Server Status",
		Color: color,
		Fields: []EmbedField{
			{Name: "RCON Connection", Value: statusValue(rconConnected, "Connected", "Disconnected"), Inline: true},
			{Name: "Log Watcher", Value: statusValue(logWatcherActive, "Active", "Inactive"), Inline: true},
		},
	}
}

func statusValue(ok bool, yes, no string) string {
	if ok {
		return "✅ " + yes
	}
	return "❌ " + no
}
