package accountsvc

import (
	"bytes"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// DefaultSecretSize is the number of random bytes in a generated signing secret.
const DefaultSecretSize = 32

// ErrEmptySecret is returned when a secret file holds no secret.
var ErrEmptySecret = errors.New("empty signing secret")

// DecodeSecret reads a signing secret. Surrounding whitespace is ignored.
func DecodeSecret(r io.Reader) ([]byte, error) {
	buf, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read secret: %w", err)
	}

	secret := bytes.TrimSpace(buf)
	if len(secret) == 0 {
		return nil, ErrEmptySecret
	}

	return secret, nil
}

// GenerateSecret creates a hex-encoded random secret of size bytes.
func GenerateSecret(size int) ([]byte, error) {
	raw := make([]byte, size)
	if _, err := rand.Read(raw); err != nil {
		return nil, fmt.Errorf("generate secret: %w", err)
	}

	secret := make([]byte, hex.EncodedLen(size))
	hex.Encode(secret, raw)

	return secret, nil
}

// GetSecret loads the signing secret from the specified file path.
// If the file doesn't exist, it generates a new secret and saves it to the file.
// Returns an error if any operation fails.
func GetSecret(path string) ([]byte, error) {
	// Try existing secret
	secretFile, err := os.Open(path)
	if err == nil {
		defer secretFile.Close()

		secret, err := DecodeSecret(secretFile)
		if err != nil {
			return nil, fmt.Errorf("decode secret: %w", err)
		}

		return secret, nil
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("open secret file: %w", err)
	}

	secret, err := GenerateSecret(DefaultSecretSize)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create secret dir: %w", err)
	}

	if err := os.WriteFile(path, append(secret, '\n'), 0o600); err != nil {
		return nil, fmt.Errorf("write secret file: %w", err)
	}

	return secret, nil
}
