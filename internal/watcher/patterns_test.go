package watcher

import "testing"

func TestIsNoteworthyBuiltins(t *testing.T) {
	c, err := NewClassifier()
	if err != nil {
		t.Fatalf("NewClassifier() error: %v", err)
	}

	tests := []struct {
		line string
		want bool
	}{
		{"[12:00:01] [Server thread/INFO]: Player1 joined the game", true},
		{"[12:05:33] [Server thread/INFO]: Player1 left the game", true},
		{"[11:59:58] [Server thread/INFO]: Starting minecraft server version 1.21", true},
		{"[23:59:59] [Server thread/INFO]: Stopping server", true},
		{"[12:10:00] [Server thread/ERROR]: Exception in tick loop", true},
		{"[12:10:00] SEVERE something went very wrong", true},
		{"Player1 was slain by Zombie", true},
		{"Player2 was killed by Player1 using magic", true},
		{"[12:11:02] [Server thread/WARN]: Can't keep up! Is the server overloaded?", true},
		{"[12:12:00] [Server thread/INFO]: Player1 issued server command: /gamemode creative", true},
		{"[12:00:02] [Server thread/INFO]: tick", false},
		{"[12:00:03] [Server thread/INFO]: Saving chunks", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := c.IsNoteworthy(tt.line); got != tt.want {
			t.Errorf("IsNoteworthy(%q) = %v, want %v", tt.line, got, tt.want)
		}
	}
}

func TestIsNoteworthyCaseInsensitive(t *testing.T) {
	c, err := NewClassifier()
	if err != nil {
		t.Fatalf("NewClassifier() error: %v", err)
	}

	if !c.IsNoteworthy("player1 JOINED THE GAME") {
		t.Error("Expected case-insensitive match for join message")
	}
	if !c.IsNoteworthy("stopping SERVER") {
		t.Error("Expected case-insensitive match for stop message")
	}
}

func TestNewClassifierExtraPatterns(t *testing.T) {
	c, err := NewClassifier(`lost connection`)
	if err != nil {
		t.Fatalf("NewClassifier() error: %v", err)
	}

	if !c.IsNoteworthy("Player1 lost connection: Timed out") {
		t.Error("Expected extra pattern to match")
	}
	if !c.IsNoteworthy("Player1 joined the game") {
		t.Error("Expected built-in patterns to still match")
	}
}

func TestNewClassifierInvalidPattern(t *testing.T) {
	if _, err := NewClassifier(`[unclosed`); err == nil {
		t.Fatal("Expected error for invalid extra pattern")
	}
}
