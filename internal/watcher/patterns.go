package watcher

import (
	"fmt"
	"regexp"
)

// Built-in noteworthy patterns, matched case-insensitively. Order is only a
// matching shortcut; the classification result does not depend on it.
var defaultPatterns = []string{
	`joined the game`,
	`left the game`,
	`Starting minecraft server`,
	`Stopping server`,
	`\[ERROR\]`,
	`SEVERE`,
	`was slain by`,
	`was killed by`,
	`Can't keep up!`,
	`issued server command`,
}

// Classifier decides whether a log line is noteworthy. The matcher set is
// fixed at construction time.
type Classifier struct {
	patterns []*regexp.Regexp
}

// NewClassifier compiles the built-in pattern set plus any extra patterns
// from the configuration.
func NewClassifier(extra ...string) (*Classifier, error) {
	all := make([]string, 0, len(defaultPatterns)+len(extra))
	all = append(all, defaultPatterns...)
	all = append(all, extra...)

	compiled := make([]*regexp.Regexp, 0, len(all))
	for _, pattern := range all {
		re, err := regexp.Compile(`(?i)` + pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid log pattern %q: %w", pattern, err)
		}
		compiled = append(compiled, re)
	}

	return &Classifier{patterns: compiled}, nil
}

// IsNoteworthy reports whether the line matches any configured pattern.
// The first match short-circuits.
func (c *Classifier) IsNoteworthy(line string) bool {
	for _, re := range c.patterns {
		if re.MatchString(line) {
			return true
		}
	}
	return false
}
