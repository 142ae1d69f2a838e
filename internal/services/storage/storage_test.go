package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testPassphrase = "testpassword123"

// sealDir marks dir as encrypted and writes the verification file
func sealDir(t *testing.T, dir string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, MarkerFile), nil, 0644))
	verify, err := Encrypt([]byte(VerifyMagic), testPassphrase)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, VerifyFile), verify, 0644))
}

func TestPlainDirectory(t *testing.T) {
	dir := t.TempDir()
	original := []byte("Date,Description,Amount\n2024-01-01,Test,100.00\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "test.csv"), original, 0644))

	store, err := New(dir)
	require.NoError(t, err)

	assert.False(t, store.IsEncrypted())
	assert.True(t, store.IsUnlocked())
	assert.NoError(t, store.Unlock("anything"))

	read, err := store.ReadFile("test.csv")
	require.NoError(t, err)
	assert.Equal(t, original, read)
	assert.True(t, store.Exists("test.csv"))
	assert.False(t, store.Exists("missing.csv"))
}

func TestEncryptedDirectory(t *testing.T) {
	dir := t.TempDir()
	sealDir(t, dir)

	original := []byte("balance: \"$10.00\"\n")
	sealed, err := Encrypt(original, testPassphrase)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "dashboard.yaml"), sealed, 0644))
	require.True(t, isAgeEncrypted(sealed))

	store, err := New(dir)
	require.NoError(t, err)
	assert.True(t, store.IsEncrypted())
	assert.False(t, store.IsUnlocked())

	_, err = store.ReadFile("dashboard.yaml")
	assert.ErrorIs(t, err, ErrLocked)

	assert.ErrorIs(t, store.Unlock("wrong password"), ErrBadPassphrase)
	assert.False(t, store.IsUnlocked())

	require.NoError(t, store.Unlock(testPassphrase))
	assert.True(t, store.IsUnlocked())

	read, err := store.ReadFile("dashboard.yaml")
	require.NoError(t, err)
	assert.Equal(t, original, read)

	store.Lock()
	_, err = store.ReadFile("dashboard.yaml")
	assert.ErrorIs(t, err, ErrLocked)
}

func TestUnlockMissingVerifyFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, MarkerFile), nil, 0644))

	store, err := New(dir)
	require.NoError(t, err)
	assert.Error(t, store.Unlock(testPassphrase))
}

func TestNewRejectsMissingDirectory(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}

func TestGlobReturnsRelativeNames(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.csv", "a.csv", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644))
	}
	store, err := New(dir)
	require.NoError(t, err)

	names, err := store.Glob("*.csv")
	require.NoError(t, err)
	assert.Equal(t, []string{"a.csv", "b.csv"}, names)
}

func TestPassphrasePrefersEnv(t *testing.T) {
	pass, err := Passphrase("from-env", os.Stdin, nil)
	require.NoError(t, err)
	assert.Equal(t, "from-env", pass)
}

func TestPassphraseWithoutTerminal(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "stdin")
	require.NoError(t, err)
	defer f.Close()

	_, err = Passphrase("", f, nil)
	assert.Error(t, err)
}
