package domain

import "context"

// ImageUpload is an image received from a client, not yet stored.
type ImageUpload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// AttachmentStore persists uploaded images and releases them by locator.
// A locator is either a bare filename in the local content directory or
// a fully-qualified remote URL.
type AttachmentStore interface {
	Store(ctx context.Context, upload ImageUpload) (string, error)
	Release(ctx context.Context, locator string) error
}

// ReleaseJob describes a best-effort attachment release.
type ReleaseJob struct {
	ItemID  string
	Locator string
	Op      string // "create", "update" or "delete"
}

// AttachmentReleaser schedules releases whose outcome never affects the
// mutation that triggered them.
type AttachmentReleaser interface {
	Enqueue(ctx context.Context, job ReleaseJob)
}
