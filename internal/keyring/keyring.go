// Package keyring stores bridge secrets in the operating system keyring.
// Two names are in use: "rcon-password" and "secret-token"; either fills in
// for a value the config file and environment leave empty.
package keyring

import (
	"fmt"
	"sync"

	"github.com/99designs/keyring"
)

const serviceName = "minebridge"

// Secret names understood by the bridge
const (
	RCONPasswordKey = "rcon-password"
	SecretTokenKey  = "secret-token"
)

// KnownSecrets lists the secret names the bridge looks up
var KnownSecrets = []string{RCONPasswordKey, SecretTokenKey}

var (
	ring     keyring.Keyring
	ringOnce sync.Once
	ringErr  error
)

// initKeyring initializes the keyring with fallback options
func initKeyring() (keyring.Keyring, error) {
	ringOnce.Do(func() {
		ring, ringErr = keyring.Open(keyring.Config{
			ServiceName: serviceName,
			// Allow multiple backends with priority order
			AllowedBackends: []keyring.BackendType{
				keyring.KeychainBackend,      // macOS Keychain
				keyring.SecretServiceBackend, // Linux Secret Service (GNOME Keyring, KWallet)
				keyring.WinCredBackend,       // Windows Credential Manager
				keyring.PassBackend,          // Pass (password-store.org)
			},
		})
	})
	return ring, ringErr
}

// SetSecret stores a secret under the given name
func SetSecret(name, value string) error {
	kr, err := initKeyring()
	if err != nil {
		return fmt.Errorf("failed to open keyring: %w", err)
	}

	return kr.Set(keyring.Item{
		Key:  name,
		Data: []byte(value),
	})
}

// GetSecret retrieves a secret by name. Returns empty string if nothing is
// stored under that name.
func GetSecret(name string) (string, error) {
	kr, err := initKeyring()
	if err != nil {
		return "", fmt.Errorf("failed to open keyring: %w", err)
	}

	item, err := kr.Get(name)
	if err == keyring.ErrKeyNotFound {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to retrieve secret: %w", err)
	}
	return string(item.Data), nil
}

// DeleteSecret removes a stored secret
func DeleteSecret(name string) error {
	kr, err := initKeyring()
	if err != nil {
		return fmt.Errorf("failed to open keyring: %w", err)
	}

	err = kr.Remove(name)
	if err == keyring.ErrKeyNotFound {
		return fmt.Errorf("no secret stored for '%s'", name)
	}
	return err
}

// HasSecret checks if a secret is stored under the given name
func HasSecret(name string) bool {
	kr, err := initKeyring()
	if err != nil {
		return false
	}

	_, err = kr.Get(name)
	return err == nil
}
