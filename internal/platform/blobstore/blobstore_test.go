package blobstore

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"
)

func TestMemoryStore_PutAndGet(t *testing.T) {
	s := NewMemoryStore()
	info, err := s.Put(context.Background(), "patients/p1/consent.pdf",
		strings.NewReader("pdf-bytes"), PutOptions{ContentType: "application/pdf"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if info.Size != int64(len("pdf-bytes")) {
		t.Errorf("unexpected size %d", info.Size)
	}

	rc, got, err := s.Get(context.Background(), "patients/p1/consent.pdf")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer rc.Close()
	data, _ := io.ReadAll(rc)
	if string(data) != "pdf-bytes" {
		t.Errorf("unexpected content %q", data)
	}
	if got.ContentType != "application/pdf" {
		t.Errorf("unexpected content type %q", got.ContentType)
	}
}

func TestMemoryStore_Put_RequiresKey(t *testing.T) {
	s := NewMemoryStore()
	_, err := s.Put(context.Background(), "", strings.NewReader("x"), PutOptions{})
	if !errors.Is(err, ErrMissingKey) {
		t.Errorf("expected ErrMissingKey, got %v", err)
	}
}

func TestMemoryStore_Put_NoUpsertConflict(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	if _, err := s.Put(ctx, "k", strings.NewReader("a"), PutOptions{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, err := s.Put(ctx, "k", strings.NewReader("b"), PutOptions{})
	if !errors.Is(err, ErrObjectExists) {
		t.Errorf("expected ErrObjectExists, got %v", err)
	}
	// Upsert overwrites.
	if _, err := s.Put(ctx, "k", strings.NewReader("b"), PutOptions{Upsert: true}); err != nil {
		t.Errorf("unexpected error on upsert: %v", err)
	}
	rc, _, _ := s.Get(ctx, "k")
	data, _ := io.ReadAll(rc)
	rc.Close()
	if string(data) != "b" {
		t.Errorf("expected overwritten content, got %q", data)
	}
}

func TestMemoryStore_Get_NotFound(t *testing.T) {
	s := NewMemoryStore()
	_, _, err := s.Get(context.Background(), "missing")
	if !errors.Is(err, ErrObjectNotFound) {
		t.Errorf("expected ErrObjectNotFound, got %v", err)
	}
}

func TestMemoryStore_Delete(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	s.Put(ctx, "k", strings.NewReader("a"), PutOptions{})
	if err := s.Delete(ctx, "k"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.Delete(ctx, "k"); !errors.Is(err, ErrObjectNotFound) {
		t.Errorf("expected ErrObjectNotFound on second delete, got %v", err)
	}
}

func TestMemoryStore_List_PrefixFilter(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	s.Put(ctx, "patients/p1/a.pdf", strings.NewReader("1"), PutOptions{})
	s.Put(ctx, "patients/p1/b.pdf", strings.NewReader("2"), PutOptions{})
	s.Put(ctx, "templates/t.docx", strings.NewReader("3"), PutOptions{})

	items, err := s.List(ctx, "patients/p1/")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[0].Key != "patients/p1/a.pdf" {
		t.Errorf("expected sorted keys, got %s first", items[0].Key)
	}
}

func TestMemoryStore_SignedURL(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	s.Put(ctx, "k", strings.NewReader("a"), PutOptions{})

	u, err := s.SignedURL(ctx, "k", SignOptions{Expiry: 5 * time.Minute, DownloadName: "report.pdf"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(u, "expires=300") {
		t.Errorf("expected expiry in url, got %s", u)
	}
	if !strings.Contains(u, "download=report.pdf") {
		t.Errorf("expected download name in url, got %s", u)
	}

	if _, err := s.SignedURL(ctx, "missing", SignOptions{}); !errors.Is(err, ErrObjectNotFound) {
		t.Errorf("expected ErrObjectNotFound, got %v", err)
	}
}

func TestMemoryStore_FileTooLarge(t *testing.T) {
	s := NewMemoryStore()
	big := io.LimitReader(neverEnding('x'), MaxFileSize+10)
	_, err := s.Put(context.Background(), "big", big, PutOptions{})
	if !errors.Is(err, ErrFileTooLarge) {
		t.Errorf("expected ErrFileTooLarge, got %v", err)
	}
}

type neverEnding byte

func (b neverEnding) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = byte(b)
	}
	return len(p), nil
}
