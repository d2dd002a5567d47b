package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"
)

// Client is the thin HTTP client used by the minebridge subcommands to talk
// to a running bridge daemon. The chat bot front end speaks the same API.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// NewClient creates a client for the given base URL (e.g.
// http://127.0.0.1:3000)
func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// Command executes a server command through the bridge and returns the
// result text
func (c *Client) Command(command string) (string, error) {
	body, err := json.Marshal(CommandRequest{Command: command})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequest(http.MethodPost, c.baseURL+"/command", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	var resp CommandResponse
	if err := c.do(req, &resp); err != nil {
		return "", err
	}
	return resp.Result, nil
}

// Logs fetches the last n lines of the server log
func (c *Client) Logs(lines int) (string, error) {
	req, err := http.NewRequest(http.MethodGet, c.baseURL+"/logs?lines="+strconv.Itoa(lines), nil)
	if err != nil {
		return "", err
	}

	var resp LogsResponse
	if err := c.do(req, &resp); err != nil {
		return "", err
	}
	return resp.Logs, nil
}

// Status fetches the current status snapshot
func (c *Client) Status() (*StatusSnapshot, error) {
	req, err := http.NewRequest(http.MethodGet, c.baseURL+"/status", nil)
	if err != nil {
		return nil, err
	}

	var resp StatusResponse
	if err := c.do(req, &resp); err != nil {
		return nil, err
	}
	return &resp.Status, nil
}

// Health fetches the unauthenticated liveness payload
func (c *Client) Health() (*HealthResponse, error) {
	req, err := http.NewRequest(http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return nil, err
	}

	var resp HealthResponse
	if err := c.do(req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) do(req *http.Request, out interface{}) error {
	req.Header.Set(TokenHeader, c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach bridge daemon: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var apiErr ErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil && apiErr.Error != "" {
			return fmt.Errorf("bridge daemon: %s (status %d)", apiErr.Error, resp.StatusCode)
		}
		return fmt.Errorf("bridge daemon returned status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}
