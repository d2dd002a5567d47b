// Package rcon maintains a single logical remote-console connection to the
// game server. The wire protocol is handled by github.com/gorcon/rcon; this
// package owns the connect/disconnect/execute lifecycle, the serialization of
// command/response pairs, and the one-shot reconnect recovery.
package rcon

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gorcon/rcon"
)

// ErrNotConnected is returned by Execute when there is no live connection.
// No network I/O is attempted in that case.
var ErrNotConnected = errors.New("not connected to the game server")

// Connect failure classifications
const (
	FailureRefused = "refused"
	FailureAuth    = "auth"
	FailureOther   = "other"
)

// ConnectError is a classified connection failure
type ConnectError struct {
	Kind string
	Err  error
}

func (e *ConnectError) Error() string {
	return fmt.Sprintf("rcon connect (%s): %v", e.Kind, e.Err)
}

func (e *ConnectError) Unwrap() error {
	return e.Err
}

// transport is the subset of *rcon.Conn the session uses. Tests substitute
// their own implementation through the dial hook.
type transport interface {
	Execute(command string) (string, error)
	Close() error
}

type dialFunc func(address, password string, timeout time.Duration) (transport, error)

func defaultDial(address, password string, timeout time.Duration) (transport, error) {
	return rcon.Dial(address, password,
		rcon.SetDialTimeout(timeout),
		rcon.SetDeadline(timeout),
	)
}

// Session owns the RCON connection. The transport handle is guarded by mu,
// which also serializes Execute so that concurrent API requests cannot
// interleave command/response pairs on one transport. The connectivity flag
// is kept separately in an atomic so status reads never wait on an in-flight
// command.
type Session struct {
	address  string
	password string
	timeout  time.Duration

	mu        sync.Mutex
	conn      transport
	dial      dialFunc
	onConnect func(err error)

	connected atomic.Bool
}

// NewSession creates a session for the given address. No connection is
// attempted until Connect is called.
func NewSession(address, password string, timeout time.Duration) *Session {
	return &Session{
		address:  address,
		password: password,
		timeout:  timeout,
		dial:     defaultDial,
	}
}

// SetConnectListener registers fn to be called after every connect attempt,
// including the mid-command recovery dial, with nil on success and the
// classified error on failure. The listener runs with the session lock held:
// it must return quickly and must not call back into the session. Set it
// before the session is shared between goroutines.
func (s *Session) SetConnectListener(fn func(err error)) {
	s.onConnect = fn
}

// Connect dials and authenticates the RCON connection. On failure the session
// holds no partial handle and the error is classified as a ConnectError.
func (s *Session) Connect() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.connectLocked()
}

func (s *Session) connectLocked() error {
	conn, err := s.dial(s.address, s.password, s.timeout)
	if err != nil {
		s.conn = nil
		s.connected.Store(false)
		cerr := &ConnectError{Kind: classifyDialError(err), Err: err}
		if s.onConnect != nil {
			s.onConnect(cerr)
		}
		return cerr
	}

	s.conn = conn
	s.connected.Store(true)
	if s.onConnect != nil {
		s.onConnect(nil)
	}
	return nil
}

func classifyDialError(err error) string {
	switch {
	case errors.Is(err, rcon.ErrAuthFailed):
		return FailureAuth
	case errors.Is(err, syscall.ECONNREFUSED):
		return FailureRefused
	default:
		return FailureOther
	}
}

// Disconnect closes the connection if one is open. It never fails observably
// and is safe to call repeatedly.
func (s *Session) Disconnect() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closeLocked()
}

func (s *Session) closeLocked() {
	if s.conn != nil {
		if err := s.conn.Close(); err != nil {
			slog.Debug("RCON close", "error", err)
		}
		s.conn = nil
	}
	s.connected.Store(false)
}

// Connected reports whether the session currently holds a live connection.
// It reads the atomic flag and never takes the transport lock, so status
// requests do not queue behind a slow command.
func (s *Session) Connected() bool {
	return s.connected.Load()
}

// Execute sends a command and returns the raw textual response. When the
// session is not connected it returns ErrNotConnected without touching the
// network. A transport failure triggers exactly one recovery attempt:
// disconnect, reconnect, and retry the original command once. Failures beyond
// that are returned to the caller; there is never more than one retry per
// call.
func (s *Session) Execute(command string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.connected.Load() {
		return "", ErrNotConnected
	}

	response, err := s.conn.Execute(command)
	if err == nil {
		return response, nil
	}

	slog.Warn("RCON command failed, reconnecting", "error", err)
	s.closeLocked()

	if cerr := s.connectLocked(); cerr != nil {
		return "", fmt.Errorf("command failed (%v) and reconnect failed: %w", err, cerr)
	}
	slog.Info("RCON reconnected, retrying command")

	response, err = s.conn.Execute(command)
	if err != nil {
		return "", fmt.Errorf("command failed after reconnect: %w", err)
	}
	return response, nil
}
