package app

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"huntermarket/pkg/domain"
	"huntermarket/pkg/store"
)

// fakeObjectStore records calls so tests can assert that rejected uploads
// never reach the provider.
type fakeObjectStore struct {
	ensureCalls int
	putCalls    int
	deleteCalls int
	lastKey     string
	lastType    string
	lastSize    int64
	lastBody    []byte
	putErr      error
	ensureErr   error
}

func (f *fakeObjectStore) EnsureBucket(_ context.Context) error {
	f.ensureCalls++
	return f.ensureErr
}

func (f *fakeObjectStore) Put(_ context.Context, key string, r io.Reader, size int64, contentType string) error {
	f.putCalls++
	f.lastKey = key
	f.lastType = contentType
	f.lastSize = size
	f.lastBody, _ = io.ReadAll(r)
	return f.putErr
}

func (f *fakeObjectStore) Delete(_ context.Context, key string) error {
	f.deleteCalls++
	f.lastKey = key
	return nil
}

func (f *fakeObjectStore) PublicURL(key string) string {
	return "http://blobs.test/images/" + key
}

func newUploadApp(t *testing.T, objects *fakeObjectStore) *App {
	t.Helper()
	cfg := Config{
		Store:    store.NewMemoryStore(),
		Sessions: store.NewJWTSessionStore("test-secret", time.Hour),
	}
	if objects != nil {
		cfg.Objects = objects
	}
	a, err := New(cfg)
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	return a
}

func TestUploadImageSuccess(t *testing.T) {
	objects := &fakeObjectStore{}
	a := newUploadApp(t, objects)

	payload := bytes.Repeat([]byte{0xAB}, 64)
	res, err := a.UploadImage(context.Background(), domain.FileBlob{
		ContentType: "image/png",
		Size:        4 << 20,
		Data:        bytes.NewReader(payload),
	})
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if objects.ensureCalls != 1 || objects.putCalls != 1 {
		t.Fatalf("expected one ensure and one put, got %d/%d", objects.ensureCalls, objects.putCalls)
	}
	if !strings.HasSuffix(res.Name, ".png") {
		t.Fatalf("object name should carry the png extension, got %q", res.Name)
	}
	if res.URL != "http://blobs.test/images/"+res.Name {
		t.Fatalf("unexpected public URL %q", res.URL)
	}
	if res.ContentType != "image/png" || res.Size != 4<<20 {
		t.Fatalf("descriptor mismatch: %+v", res)
	}
	if objects.lastType != "image/png" || objects.lastSize != 4<<20 {
		t.Fatalf("provider call mismatch: type=%q size=%d", objects.lastType, objects.lastSize)
	}
	if !bytes.Equal(objects.lastBody, payload) {
		t.Fatalf("payload bytes were not relayed intact")
	}
}

func TestUploadImageObjectNamesAreUnique(t *testing.T) {
	objects := &fakeObjectStore{}
	a := newUploadApp(t, objects)

	seen := make(map[string]struct{})
	for i := 0; i < 10; i++ {
		res, err := a.UploadImage(context.Background(), domain.FileBlob{
			ContentType: "image/jpeg",
			Size:        10,
			Data:        strings.NewReader("0123456789"),
		})
		if err != nil {
			t.Fatalf("upload %d: %v", i, err)
		}
		if _, dup := seen[res.Name]; dup {
			t.Fatalf("duplicate object name %q", res.Name)
		}
		seen[res.Name] = struct{}{}
	}
}

func TestUploadImageRejectsOversizeWithoutProviderCall(t *testing.T) {
	objects := &fakeObjectStore{}
	a := newUploadApp(t, objects)

	_, err := a.UploadImage(context.Background(), domain.FileBlob{
		ContentType: "image/png",
		Size:        6 << 20,
		Data:        strings.NewReader("x"),
	})
	if !errors.Is(err, ErrFileTooLarge) {
		t.Fatalf("expected ErrFileTooLarge, got %v", err)
	}
	if objects.ensureCalls != 0 || objects.putCalls != 0 {
		t.Fatalf("rejected upload must not touch the provider, got %d/%d calls", objects.ensureCalls, objects.putCalls)
	}
}

func TestUploadImageRejectsUnsupportedTypeBeforeSizeCheck(t *testing.T) {
	objects := &fakeObjectStore{}
	a := newUploadApp(t, objects)

	// Oversize AND wrong type: the type check must win.
	_, err := a.UploadImage(context.Background(), domain.FileBlob{
		ContentType: "application/pdf",
		Size:        6 << 20,
		Data:        strings.NewReader("x"),
	})
	if !errors.Is(err, ErrUnsupportedType) {
		t.Fatalf("expected ErrUnsupportedType, got %v", err)
	}
	if objects.ensureCalls != 0 || objects.putCalls != 0 {
		t.Fatalf("rejected upload must not touch the provider")
	}
}

func TestUploadImageWithoutStorageIsMisconfigured(t *testing.T) {
	a := newUploadApp(t, nil)
	_, err := a.UploadImage(context.Background(), domain.FileBlob{
		ContentType: "image/gif",
		Size:        10,
		Data:        strings.NewReader("x"),
	})
	if !errors.Is(err, ErrStorageNotConfigured) {
		t.Fatalf("expected ErrStorageNotConfigured, got %v", err)
	}
}

func TestUploadImageSurfacesProviderFailure(t *testing.T) {
	objects := &fakeObjectStore{putErr: errors.New("blob service unavailable")}
	a := newUploadApp(t, objects)

	_, err := a.UploadImage(context.Background(), domain.FileBlob{
		ContentType: "image/webp",
		Size:        10,
		Data:        strings.NewReader("x"),
	})
	if err == nil || !strings.Contains(err.Error(), "blob service unavailable") {
		t.Fatalf("expected provider message in error, got %v", err)
	}
}

func TestImageExtensionFallback(t *testing.T) {
	if got := imageExtension("image/webp"); got != "webp" {
		t.Fatalf("expected webp, got %q", got)
	}
	if got := imageExtension("weird"); got != "bin" {
		t.Fatalf("expected bin fallback, got %q", got)
	}
}
