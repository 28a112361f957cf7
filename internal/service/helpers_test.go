package service_test

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/msomdec/item-flow/internal/attachment"
	"github.com/msomdec/item-flow/internal/domain"
	"github.com/msomdec/item-flow/internal/repository/sqlite"
	"github.com/msomdec/item-flow/internal/service"
)

func newTestDB(t *testing.T) *sqlite.DB {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := sqlite.New(dbPath)
	if err != nil {
		t.Fatalf("New DB: %v", err)
	}
	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// fakeAttachments hands out sequential locators and records releases.
type fakeAttachments struct {
	mu         sync.Mutex
	next       int
	stored     []string
	released   []string
	storeErr   error
	releaseErr error
}

func (f *fakeAttachments) Store(_ context.Context, upload domain.ImageUpload) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.storeErr != nil {
		return "", f.storeErr
	}
	f.next++
	locator := fmt.Sprintf("img-%d.png", f.next)
	f.stored = append(f.stored, locator)
	return locator, nil
}

func (f *fakeAttachments) Release(_ context.Context, locator string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.released = append(f.released, locator)
	return f.releaseErr
}

func (f *fakeAttachments) Released() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := slices.Clone(f.released)
	slices.Sort(out)
	return out
}

type itemFixture struct {
	db          *sqlite.DB
	items       *service.ItemService
	categories  *service.CategoryService
	attachments *fakeAttachments
	releaser    *attachment.Releaser
}

func newItemFixture(t *testing.T, strict bool) *itemFixture {
	t.Helper()
	db := newTestDB(t)
	attachments := &fakeAttachments{}
	releaser := attachment.NewReleaser(attachments, 2, time.Second, slog.New(slog.DiscardHandler))
	return &itemFixture{
		db:          db,
		items:       service.NewItemService(db.Items(), db.Categories(), attachments, releaser, strict),
		categories:  service.NewCategoryService(db.Categories()),
		attachments: attachments,
		releaser:    releaser,
	}
}

func (f *itemFixture) category(t *testing.T, name string) string {
	t.Helper()
	c, err := f.categories.Create(context.Background(), name)
	if err != nil {
		t.Fatalf("create category %s: %v", name, err)
	}
	return c.ID
}

func pngUpload() *domain.ImageUpload {
	return &domain.ImageUpload{Filename: "photo.png", ContentType: "image/png", Data: []byte("png")}
}

var errStoreDown = errors.New("store down")

func waitReleases(t *testing.T, r *attachment.Releaser) {
	t.Helper()
	done := make(chan struct{})
	go func() {
		r.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for attachment releases")
	}
}
