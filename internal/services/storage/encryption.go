package storage

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"filippo.io/age"
	"golang.org/x/term"
)

// decryptData decrypts age-encrypted data using the given identity
func decryptData(data []byte, identity age.Identity) ([]byte, error) {
	r, err := age.Decrypt(bytes.NewReader(data), identity)
	if err != nil {
		return nil, err
	}
	return io.ReadAll(r)
}

// Encrypt seals data for the given passphrase
func Encrypt(data []byte, passphrase string) ([]byte, error) {
	recipient, err := age.NewScryptRecipient(passphrase)
	if err != nil {
		return nil, fmt.Errorf("failed to create recipient: %w", err)
	}

	var buf bytes.Buffer
	w, err := age.Encrypt(&buf, recipient)
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Passphrase returns envValue when set, otherwise prompts on the terminal
// behind in. A non-terminal input with no env value is an error.
func Passphrase(envValue string, in *os.File, prompt io.Writer) (string, error) {
	if envValue != "" {
		return envValue, nil
	}

	fd := int(in.Fd())
	if !term.IsTerminal(fd) {
		return "", fmt.Errorf("data directory is encrypted: set WALLETDASH_PASSPHRASE or run from a terminal")
	}

	fmt.Fprint(prompt, "Passphrase: ")
	pass, err := term.ReadPassword(fd)
	fmt.Fprintln(prompt)
	if err != nil {
		return "", fmt.Errorf("failed to read passphrase: %w", err)
	}
	return strings.TrimSpace(string(pass)), nil
}
