// Package attachment stores item images and releases them by locator.
package attachment

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/msomdec/item-flow/internal/domain"
)

const MaxImageSize = 10 * 1024 * 1024 // 10MB

var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
}

// RemoteStore is an image CDN addressed by public id.
type RemoteStore interface {
	Upload(ctx context.Context, name string, data []byte) (string, error)
	Destroy(ctx context.Context, publicID string) error
}

// Manager implements domain.AttachmentStore. Uploads go to the remote
// store when one is configured and to the local content root otherwise;
// releases dispatch on the locator shape.
type Manager struct {
	local  *LocalStore
	remote RemoteStore
}

// NewManager creates a Manager. remote may be nil.
func NewManager(local *LocalStore, remote RemoteStore) *Manager {
	return &Manager{local: local, remote: remote}
}

func (m *Manager) Store(ctx context.Context, upload domain.ImageUpload) (string, error) {
	ext, ok := imageExtensions[upload.ContentType]
	if !ok {
		return "", fmt.Errorf("%w: only JPEG and PNG images are accepted", domain.ErrInvalidInput)
	}
	if len(upload.Data) == 0 {
		return "", fmt.Errorf("%w: image is empty", domain.ErrInvalidInput)
	}
	if len(upload.Data) > MaxImageSize {
		return "", fmt.Errorf("%w: image exceeds 10MB limit", domain.ErrInvalidInput)
	}

	key, err := generateKey()
	if err != nil {
		return "", fmt.Errorf("generate attachment key: %w", err)
	}

	if m.remote != nil {
		locator, err := m.remote.Upload(ctx, key, upload.Data)
		if err != nil {
			return "", fmt.Errorf("upload image: %w", err)
		}
		return locator, nil
	}

	name := key + ext
	if err := m.local.Save(ctx, name, upload.Data); err != nil {
		return "", fmt.Errorf("save image: %w", err)
	}
	return name, nil
}

func (m *Manager) Release(ctx context.Context, locator string) error {
	if locator == "" {
		return nil
	}
	if !IsRemote(locator) {
		return m.local.Remove(ctx, locator)
	}
	if m.remote == nil {
		return errors.New("no remote store configured for " + locator)
	}
	publicID, err := PublicID(locator)
	if err != nil {
		return err
	}
	return m.remote.Destroy(ctx, publicID)
}

func generateKey() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
