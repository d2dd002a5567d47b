package keyring

import (
	"fmt"
	"os"

	"golang.org/x/term"
)

// PromptSecret prompts the user to enter a secret securely (no echo)
func PromptSecret(name string) (string, error) {
	fmt.Fprintf(os.Stderr, "Enter value for '%s': ", name)

	// Try to open /dev/tty directly for terminal input
	// Fall back to stdin if tty is not available
	fd := int(os.Stdin.Fd())
	tty, err := os.Open("/dev/tty")
	if err == nil {
		defer tty.Close()
		fd = int(tty.Fd())
	}

	secretBytes, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr) // Print newline after input

	if err != nil {
		return "", fmt.Errorf("failed to read secret: %w", err)
	}

	return string(secretBytes), nil
}

// PromptAndConfirmSecret prompts for a secret twice and confirms they match
func PromptAndConfirmSecret(name string) (string, error) {
	value1, err := PromptSecret(name)
	if err != nil {
		return "", err
	}

	fmt.Fprintf(os.Stderr, "Confirm value for '%s': ", name)

	fd := int(os.Stdin.Fd())
	tty, err := os.Open("/dev/tty")
	if err == nil {
		defer tty.Close()
		fd = int(tty.Fd())
	}

	secretBytes, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)

	if err != nil {
		return "", fmt.Errorf("failed to read confirmation: %w", err)
	}

	if value1 != string(secretBytes) {
		return "", fmt.Errorf("values do not match")
	}

	return value1, nil
}
