package attachment

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ErrInvalidFilename is returned for names that would escape the content root.
var ErrInvalidFilename = errors.New("invalid attachment filename")

// LocalFile describes a file in the content root.
type LocalFile struct {
	Name    string
	ModTime time.Time
}

// LocalStore keeps attachments as files directly under a content root.
type LocalStore struct {
	root string
}

// NewLocalStore creates the content root if needed.
func NewLocalStore(root string) (*LocalStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create content root: %w", err)
	}
	return &LocalStore{root: root}, nil
}

func (s *LocalStore) Root() string {
	return s.root
}

func (s *LocalStore) Save(ctx context.Context, name string, data []byte) error {
	if err := checkFilename(name); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(s.root, name), data, 0o644); err != nil {
		return fmt.Errorf("write attachment: %w", err)
	}
	return nil
}

func (s *LocalStore) Remove(ctx context.Context, name string) error {
	if err := checkFilename(name); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.Remove(filepath.Join(s.root, name)); err != nil {
		return fmt.Errorf("remove attachment: %w", err)
	}
	return nil
}

// List returns the regular files in the content root.
func (s *LocalStore) List(ctx context.Context) ([]LocalFile, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, fmt.Errorf("read content root: %w", err)
	}

	var files []LocalFile
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !entry.Type().IsRegular() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue // removed since ReadDir
		}
		files = append(files, LocalFile{Name: entry.Name(), ModTime: info.ModTime()})
	}
	return files, nil
}

func checkFilename(name string) error {
	if name == "" || name == "." || name == ".." ||
		strings.ContainsAny(name, `/\`) || filepath.Base(name) != name {
		return fmt.Errorf("%w: %q", ErrInvalidFilename, name)
	}
	return nil
}
