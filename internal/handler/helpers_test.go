package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/tmc/langchaingo/llms"

	"github.com/msomdec/item-flow/internal/attachment"
	"github.com/msomdec/item-flow/internal/handler"
	"github.com/msomdec/item-flow/internal/repository/sqlite"
	"github.com/msomdec/item-flow/internal/service"
)

// pngBytes is a minimal PNG header, enough for http.DetectContentType.
var pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

type testEnv struct {
	srv      *httptest.Server
	db       *sqlite.DB
	releaser *attachment.Releaser
	uploads  string
}

type envOptions struct {
	model      llms.Model
	resettable bool
}

func newTestEnv(t *testing.T, opts envOptions) *testEnv {
	t.Helper()
	dir := t.TempDir()
	db, err := sqlite.New(filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatalf("New DB: %v", err)
	}
	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	uploads := filepath.Join(dir, "uploads")
	local, err := attachment.NewLocalStore(uploads)
	if err != nil {
		t.Fatalf("NewLocalStore: %v", err)
	}
	logger := slog.New(slog.DiscardHandler)
	manager := attachment.NewManager(local, nil)
	releaser := attachment.NewReleaser(manager, 2, time.Second, logger)

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux, handler.Handlers{
		Items:       handler.NewItemHandler(service.NewItemService(db.Items(), db.Categories(), manager, releaser, true)),
		Categories:  handler.NewCategoryHandler(service.NewCategoryService(db.Categories())),
		Suggestions: handler.NewSuggestHandler(service.NewSuggestionService(opts.model)),
		Reset:       handler.NewResetHandler(db, opts.resettable),
		UploadsDir:  uploads,
	})

	srv := httptest.NewServer(handler.Wrap(mux, handler.MiddlewareConfig{Logger: logger}))
	t.Cleanup(srv.Close)
	t.Cleanup(releaser.Wait)

	return &testEnv{srv: srv, db: db, releaser: releaser, uploads: uploads}
}

func (e *testEnv) do(t *testing.T, method, path string, body any) *http.Response {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		r = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, e.srv.URL+path, r)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

// doMultipart sends an item form; a nil image omits the file part.
func (e *testEnv) doMultipart(t *testing.T, method, path string, fields map[string]string, image []byte) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}
	if image != nil {
		fw, err := mw.CreateFormFile("image", "photo.png")
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		fw.Write(image)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart: %v", err)
	}

	req, err := http.NewRequest(method, e.srv.URL+path, &buf)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func expectStatus(t *testing.T, resp *http.Response, want int) {
	t.Helper()
	if resp.StatusCode != want {
		body, _ := io.ReadAll(resp.Body)
		t.Fatalf("%s %s: expected status %d, got %d: %s",
			resp.Request.Method, resp.Request.URL.Path, want, resp.StatusCode, body)
	}
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	return v
}

// stubModel answers every prompt with a fixed reply.
type stubModel struct {
	content string
	err     error
}

func (m stubModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, m, prompt, options...)
}

func (m stubModel) GenerateContent(context.Context, []llms.MessageContent, ...llms.CallOption) (*llms.ContentResponse, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &llms.ContentResponse{Choices: []*llms.ContentChoice{{Content: m.content}}}, nil
}
