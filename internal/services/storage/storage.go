// Package storage gives read access to a data directory whose files may be
// age-encrypted with a scrypt passphrase.
package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"filippo.io/age"
)

const (
	// ageHeader is the prefix of age-encrypted files
	ageHeader = "age-encryption.org"

	// MarkerFile indicates the directory is encrypted
	MarkerFile = ".encrypted"

	// VerifyFile holds an encrypted magic string used to check the passphrase
	VerifyFile = ".encryption-verify"

	// VerifyMagic is the expected plaintext of VerifyFile
	VerifyMagic = `{"magic":"walletdash-encryption-verify","version":1}`
)

var (
	// ErrLocked is returned when reading an encrypted file before Unlock
	ErrLocked = errors.New("file is encrypted but storage is locked")

	// ErrBadPassphrase is returned by Unlock for a wrong passphrase
	ErrBadPassphrase = errors.New("incorrect passphrase")
)

// Storage provides transparent access to encrypted and plain files
type Storage struct {
	baseDir   string
	encrypted bool
	identity  *age.ScryptIdentity
	mu        sync.RWMutex
}

// New creates a new Storage instance for the given base directory
func New(baseDir string) (*Storage, error) {
	info, err := os.Stat(baseDir)
	if err != nil {
		return nil, fmt.Errorf("data directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("data directory: %s is not a directory", baseDir)
	}

	s := &Storage{baseDir: baseDir}
	if _, err := os.Stat(filepath.Join(baseDir, MarkerFile)); err == nil {
		s.encrypted = true
	}
	return s, nil
}

// BaseDir returns the base directory
func (s *Storage) BaseDir() string {
	return s.baseDir
}

// IsEncrypted returns true if the data directory is encrypted
func (s *Storage) IsEncrypted() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.encrypted
}

// IsUnlocked returns true if the directory is plain or has been unlocked
func (s *Storage) IsUnlocked() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return !s.encrypted || s.identity != nil
}

// Unlock checks the passphrase against the verification file and keeps
// the identity for later reads
func (s *Storage) Unlock(passphrase string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.encrypted {
		return nil
	}

	identity, err := age.NewScryptIdentity(passphrase)
	if err != nil {
		return fmt.Errorf("failed to create identity: %w", err)
	}

	encrypted, err := os.ReadFile(filepath.Join(s.baseDir, VerifyFile))
	if err != nil {
		return fmt.Errorf("failed to read verification file: %w", err)
	}

	decrypted, err := decryptData(encrypted, identity)
	if err != nil || string(decrypted) != VerifyMagic {
		return ErrBadPassphrase
	}

	s.identity = identity
	return nil
}

// Lock clears the key from memory
func (s *Storage) Lock() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.identity = nil
}

// ReadFile reads a file relative to the base directory, decrypting it
// when it carries the age header
func (s *Storage) ReadFile(name string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.path(name))
	if err != nil {
		return nil, err
	}

	if isAgeEncrypted(data) {
		if s.identity == nil {
			return nil, ErrLocked
		}
		return decryptData(data, s.identity)
	}
	return data, nil
}

// Exists reports whether name exists in the base directory
func (s *Storage) Exists(name string) bool {
	_, err := os.Stat(s.path(name))
	return err == nil
}

// Glob returns base-relative names matching pattern, in lexical order
func (s *Storage) Glob(pattern string) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(s.baseDir, pattern))
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(matches))
	for _, m := range matches {
		rel, err := filepath.Rel(s.baseDir, m)
		if err != nil {
			return nil, err
		}
		names = append(names, rel)
	}
	return names, nil
}

func (s *Storage) path(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(s.baseDir, name)
}

// isAgeEncrypted checks if data starts with the age header
func isAgeEncrypted(data []byte) bool {
	return len(data) > len(ageHeader) && string(data[:len(ageHeader)]) == ageHeader
}
