// Package watcher tails the game server log file and forwards noteworthy
// lines to the notifier. It tracks a byte-offset cursor into the file,
// detects rotation (observed size smaller than the cursor), and reacts to
// filesystem change notifications from fsnotify.
package watcher

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounceDelay coalesces rapid successive write events into one scan
const debounceDelay = 100 * time.Millisecond

// Notifier receives noteworthy log lines, one call per line
type Notifier interface {
	NotifyLine(line string)
}

// NotifierFunc adapts a function to the Notifier interface
type NotifierFunc func(line string)

func (f NotifierFunc) NotifyLine(line string) { f(line) }

// Tailer watches a single log file. The cursor offset is only ever touched
// by the watch goroutine, so it needs no lock.
type Tailer struct {
	path       string
	classifier *Classifier
	notifier   Notifier

	offset  int64
	watcher *fsnotify.Watcher

	stopOnce sync.Once
	done     chan struct{}
}

// NewTailer creates a tailer for the given file. Watching starts with Start.
func NewTailer(path string, classifier *Classifier, notifier Notifier) *Tailer {
	return &Tailer{
		path:       path,
		classifier: classifier,
		notifier:   notifier,
		done:       make(chan struct{}),
	}
}

// Start initializes the cursor at the current file size and begins watching.
// A missing file is an initialization failure: the watcher feature stays
// idle, the process keeps running.
func (t *Tailer) Start(ctx context.Context) error {
	info, err := os.Stat(t.path)
	if err != nil {
		return fmt.Errorf("log file not found: %w", err)
	}
	t.offset = info.Size()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create filesystem watcher: %w", err)
	}

	// Watch the directory instead of the file itself so that rotation
	// (remove + recreate) keeps delivering events without a re-add dance.
	if err := watcher.Add(filepath.Dir(t.path)); err != nil {
		watcher.Close()
		return fmt.Errorf("failed to watch log directory: %w", err)
	}
	t.watcher = watcher

	slog.Info("Log watcher started", "path", t.path, "offset", t.offset)
	go t.loop(ctx)
	return nil
}

// Close stops the watch goroutine and releases the fsnotify watcher
func (t *Tailer) Close() {
	t.stopOnce.Do(func() {
		close(t.done)
		if t.watcher != nil {
			t.watcher.Close()
		}
	})
}

// loop is the single consumer of filesystem events. Events are debounced so
// a burst of appends results in one scan; within a scan, lines are forwarded
// in file order.
func (t *Tailer) loop(ctx context.Context) {
	var timer *time.Timer
	var scanCh <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			t.Close()
			return
		case <-t.done:
			return
		case event, ok := <-t.watcher.Events:
			if !ok {
				return
			}
			if event.Name != t.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(debounceDelay)
			} else {
				timer.Reset(debounceDelay)
			}
			scanCh = timer.C
		case <-scanCh:
			scanCh = nil
			t.scan()
		case err, ok := <-t.watcher.Errors:
			if !ok {
				return
			}
			slog.Error("Filesystem watcher error", "error", err)
		}
	}
}

// scan reads newly appended bytes and forwards noteworthy lines. On any I/O
// error the cursor is left untouched so the next notification retries from
// the last known-good offset.
func (t *Tailer) scan() {
	info, err := os.Stat(t.path)
	if err != nil {
		slog.Error("Failed to stat log file", "error", err, "path", t.path)
		return
	}
	size := info.Size()

	if size < t.offset {
		// Rotation. Re-scan the replacement file from the start; if it is
		// already non-empty this may re-emit lines, which is the accepted
		// tradeoff over inode tracking.
		slog.Info("Log file rotated, resetting position", "path", t.path)
		t.offset = 0
	}

	if size == t.offset {
		return
	}

	file, err := os.Open(t.path)
	if err != nil {
		slog.Error("Failed to open log file", "error", err, "path", t.path)
		return
	}
	defer file.Close()

	if _, err := file.Seek(t.offset, io.SeekStart); err != nil {
		slog.Error("Failed to seek log file", "error", err, "offset", t.offset)
		return
	}

	chunk := make([]byte, size-t.offset)
	if _, err := io.ReadFull(file, chunk); err != nil {
		slog.Error("Failed to read log file", "error", err, "offset", t.offset)
		return
	}
	t.offset = size

	// A trailing partial line (no newline yet) is treated as complete and
	// will not be re-read on the next scan.
	for _, line := range strings.Split(string(chunk), "\n") {
		line = strings.TrimRight(line, "\r")
		if line == "" {
			continue
		}
		if t.classifier.IsNoteworthy(line) {
			slog.Debug("Noteworthy log line", "line", line)
			t.notifier.NotifyLine(line)
		}
	}
}
