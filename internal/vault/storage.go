// Package vault is the file store documents and media are read from: a
// directory tree whose paths are always given relative to its root.
package vault

//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -destination=mocks/mock_storage.go -package=mocks github.com/aschmelyun/vnote/internal/vault Storage

import "errors"

var (
	ErrExists       = errors.New("vault: file already exists")
	ErrNotExist     = errors.New("vault: file does not exist")
	ErrOutsideVault = errors.New("vault: path escapes vault root")
)

// Storage is the file access the rest of the program needs. Paths are
// slash-separated and relative to the vault root.
type Storage interface {
	// Create writes a new file and fails with ErrExists if path is taken.
	Create(path string, content []byte) error
	// Read returns the file content; ErrNotExist if there is none.
	Read(path string) ([]byte, error)
	// Modify replaces the content of an existing file.
	Modify(path string, content []byte) error
	Exists(path string) bool
	// ListFiles returns every file in the vault, sorted.
	ListFiles() ([]string, error)
	// Abs resolves path to an absolute file system path.
	Abs(path string) (string, error)
}
