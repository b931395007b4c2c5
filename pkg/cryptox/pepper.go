package cryptox

import (
	"crypto/rand"
	"encoding/base64"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

// Configuration for Argon2id hashing.
const (
	memory      = 19 * 1024 // Memory usage in KiB (19 MiB)
	iterations  = 2         // Iteration count
	parallelism = 1         // Number of threads
	keyLength   = 32        // Length of the generated hash
	saltLength  = 16        // Length of the salt
)

var (
	// Pepper is lazily loaded from a file, generated on first use if absent.
	// The Once guards concurrent first hashes so only one goroutine touches
	// the filesystem.
	pepperMu   sync.Mutex
	pepperOnce *sync.Once = new(sync.Once)
	pepper     string
	pepperFile string
)

// SetPepperPath changes the pepper file location and discards any pepper
// already loaded, forcing a reload on the next GetPepper.
func SetPepperPath(file string) {
	pepperMu.Lock()
	defer pepperMu.Unlock()
	pepperFile = file
	pepper = ""
	pepperOnce = new(sync.Once)
}

func GetPepper() string {
	pepperMu.Lock()
	once := pepperOnce
	pepperMu.Unlock()

	once.Do(func() {
		loaded, err := loadOrGeneratePepper()
		if err != nil {
			slog.Error("failed to load or generate pepper", slog.Any("err", err))
			os.Exit(1)
		}
		pepperMu.Lock()
		pepper = loaded
		pepperMu.Unlock()
	})

	pepperMu.Lock()
	defer pepperMu.Unlock()
	return pepper
}

// loadOrGeneratePepper loads the pepper from a file or generates one if not
// found, so a fresh deployment works without manual key material.
func loadOrGeneratePepper() (string, error) {
	pepperMu.Lock()
	file := filepath.Clean(pepperFile)
	pepperMu.Unlock()

	pepperDir := filepath.Dir(file)
	if err := os.MkdirAll(pepperDir, 0750); err != nil {
		return "", err
	}

	if _, err := os.Stat(file); os.IsNotExist(err) {
		pepperBytes := make([]byte, keyLength)
		if _, err := rand.Read(pepperBytes); err != nil {
			return "", err
		}
		generated := base64.RawURLEncoding.EncodeToString(pepperBytes)

		if err := os.WriteFile(file, []byte(generated), 0600); err != nil {
			return "", err
		}
		return generated, nil
	}

	pepperBytes, err := os.ReadFile(file)
	if err != nil {
		return "", err
	}

	return string(pepperBytes), nil
}
