// Package api exposes the authenticated HTTP interface consumed by the chat
// bot front end and the minebridge client commands: command execution, recent
// log retrieval, and a status snapshot.
package api

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/shirou/gopsutil/v3/process"

	"github.com/minebridge/minebridge/internal/core"
	"github.com/minebridge/minebridge/internal/rcon"
)

// TokenHeader carries the shared secret on every authenticated request
const TokenHeader = "X-Secret-Token"

// CommandExecutor is the slice of the RCON session the API needs
type CommandExecutor interface {
	Execute(command string) (string, error)
	Connected() bool
}

// Server handles the HTTP API. It holds no mutable state of its own; the
// RCON session serializes command execution internally and the log file is
// read fresh on every request.
type Server struct {
	token   string
	logPath string
	rcon    CommandExecutor
	started time.Time
	proc    *process.Process
}

// NewServer creates the API server. The token must be non-empty; requests
// without a matching X-Secret-Token header are rejected.
func NewServer(token, logPath string, executor CommandExecutor) *Server {
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		slog.Debug("Failed to attach process stats", "error", err)
	}

	return &Server{
		token:   token,
		logPath: logPath,
		rcon:    executor,
		started: time.Now(),
		proc:    proc,
	}
}

// Router builds the HTTP routing table
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)
	r.Use(logRequests)

	// Health (no auth)
	r.Get("/health", s.handleHealth)

	r.Group(func(r chi.Router) {
		r.Use(s.requireToken)

		r.Post("/command", s.handleCommand)
		r.Get("/logs", s.handleLogs)
		r.Get("/status", s.handleStatus)
	})

	return r
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		slog.Debug("API request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"remote", r.RemoteAddr,
			"duration", time.Since(start).Round(time.Microsecond),
		)
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// requireToken rejects requests whose shared secret header does not match.
// Comparison is constant-time.
func (s *Server) requireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := r.Header.Get(TokenHeader)
		if subtle.ConstantTimeCompare([]byte(token), []byte(s.token)) != 1 {
			slog.Warn("Rejected unauthorized API request", "path", r.URL.Path, "remote", r.RemoteAddr)
			writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok", Version: core.Version})
}

// handleCommand always answers 200 for authorized, well-formed requests;
// RCON-layer failures travel in the result payload so the front end can
// render them as chat text without special-casing HTTP status.
func (s *Server) handleCommand(w http.ResponseWriter, r *http.Request) {
	var req CommandRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Command) == "" {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Command is required"})
		return
	}

	result, err := s.rcon.Execute(req.Command)
	switch {
	case errors.Is(err, rcon.ErrNotConnected):
		result = "Not connected to Minecraft server"
	case err != nil:
		slog.Error("Command execution failed", "command", req.Command, "error", err)
		result = "Error: " + err.Error()
	case result == "":
		result = "Command executed (no response)"
	}

	writeJSON(w, http.StatusOK, CommandResponse{Success: true, Result: result})
}

// handleLogs reads the last N lines fresh from disk, independent of the
// tailer's cursor.
func (s *Server) handleLogs(w http.ResponseWriter, r *http.Request) {
	lines := 10
	if raw := r.URL.Query().Get("lines"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Invalid lines parameter"})
			return
		}
		lines = n
	}
	if lines < 1 || lines > 100 {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Please request between 1 and 100 lines"})
		return
	}

	logs, err := readLastLines(s.logPath, lines)
	if err != nil {
		if os.IsNotExist(err) {
			logs = "Log file not found: " + s.logPath
		} else {
			slog.Error("Failed to read log file", "error", err, "path", s.logPath)
			logs = "Error reading logs: " + err.Error()
		}
	}

	writeJSON(w, http.StatusOK, LogsResponse{Success: true, Logs: logs})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	_, statErr := os.Stat(s.logPath)

	writeJSON(w, http.StatusOK, StatusResponse{
		Success: true,
		Status: StatusSnapshot{
			RconConnected:    s.rcon.Connected(),
			LogWatcherActive: statErr == nil,
			Bridge:           s.bridgeStats(),
		},
	})
}

// bridgeStats reports the bridge process itself: pid, uptime, and resource
// usage when available.
func (s *Server) bridgeStats() BridgeStats {
	stats := BridgeStats{
		PID:    os.Getpid(),
		Uptime: time.Since(s.started).Round(time.Second).String(),
	}

	if s.proc == nil {
		return stats
	}
	if mem, err := s.proc.MemoryInfo(); err == nil && mem != nil {
		stats.MemoryBytes = mem.RSS
	}
	if cpu, err := s.proc.CPUPercent(); err == nil {
		stats.CPUPercent = cpu
	}
	return stats
}

// readLastLines returns the last n lines of the file joined by newlines, or
// every line when the file has fewer than n.
func readLastLines(path string, n int) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}

	lines := strings.Split(string(data), "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, "\n"), nil
}
