// Package blobstore provides object storage for patient documents and
// department templates. It defines the Store interface, an in-memory
// implementation for tests and development, and an S3-compatible
// implementation used against the hosted storage service in production.
package blobstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"
)

var (
	ErrObjectNotFound = errors.New("object not found")
	ErrObjectExists   = errors.New("object already exists")
	ErrFileTooLarge   = errors.New("file exceeds maximum allowed size")
	ErrMissingKey     = errors.New("object key is required")
)

// MaxFileSize is the maximum allowed object size in bytes (50 MB).
const MaxFileSize = 50 * 1024 * 1024

// PutOptions controls upload behavior.
type PutOptions struct {
	ContentType string
	// Upsert allows overwriting an existing object. When false, uploading to
	// an existing key fails with ErrObjectExists.
	Upsert bool
}

// SignOptions controls signed-URL generation.
type SignOptions struct {
	// Expiry of the generated URL. Zero means the store default.
	Expiry time.Duration
	// DownloadName, when set, forces a Content-Disposition attachment with
	// this filename.
	DownloadName string
}

// ObjectInfo describes a stored object.
type ObjectInfo struct {
	Key         string    `json:"key"`
	ContentType string    `json:"content_type"`
	Size        int64     `json:"size"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Store is the contract for object storage backends.
type Store interface {
	Put(ctx context.Context, key string, content io.Reader, opts PutOptions) (*ObjectInfo, error)
	Get(ctx context.Context, key string) (io.ReadCloser, *ObjectInfo, error)
	Delete(ctx context.Context, key string) error
	List(ctx context.Context, prefix string) ([]*ObjectInfo, error)
	// SignedURL returns a time-limited URL granting read access to the object.
	SignedURL(ctx context.Context, key string, opts SignOptions) (string, error)
}

// ---------------------------------------------------------------------------
// In-memory implementation
// ---------------------------------------------------------------------------

type storedObject struct {
	info    ObjectInfo
	content []byte
}

// MemoryStore is a thread-safe, in-memory Store for tests and development.
type MemoryStore struct {
	mu      sync.RWMutex
	objects map[string]*storedObject

	// DefaultExpiry is used when SignOptions.Expiry is zero.
	DefaultExpiry time.Duration
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		objects:       make(map[string]*storedObject),
		DefaultExpiry: 10 * time.Minute,
	}
}

func (s *MemoryStore) Put(_ context.Context, key string, content io.Reader, opts PutOptions) (*ObjectInfo, error) {
	if key == "" {
		return nil, ErrMissingKey
	}

	data, err := io.ReadAll(io.LimitReader(content, MaxFileSize+1))
	if err != nil {
		return nil, fmt.Errorf("reading content: %w", err)
	}
	if int64(len(data)) > MaxFileSize {
		return nil, ErrFileTooLarge
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.objects[key]; ok && !opts.Upsert {
		return nil, ErrObjectExists
	}

	info := ObjectInfo{
		Key:         key,
		ContentType: opts.ContentType,
		Size:        int64(len(data)),
		UpdatedAt:   time.Now().UTC(),
	}
	s.objects[key] = &storedObject{info: info, content: data}

	out := info // copy
	return &out, nil
}

func (s *MemoryStore) Get(_ context.Context, key string) (io.ReadCloser, *ObjectInfo, error) {
	s.mu.RLock()
	obj, ok := s.objects[key]
	s.mu.RUnlock()

	if !ok {
		return nil, nil, ErrObjectNotFound
	}
	info := obj.info // copy
	return io.NopCloser(bytes.NewReader(obj.content)), &info, nil
}

func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.objects[key]; !ok {
		return ErrObjectNotFound
	}
	delete(s.objects, key)
	return nil
}

func (s *MemoryStore) List(_ context.Context, prefix string) ([]*ObjectInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*ObjectInfo
	for key, obj := range s.objects {
		if prefix != "" && !strings.HasPrefix(key, prefix) {
			continue
		}
		info := obj.info // copy
		out = append(out, &info)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

// SignedURL for the memory store fabricates a URL carrying the expiry and
// download name, so handler behavior is testable without a storage service.
func (s *MemoryStore) SignedURL(_ context.Context, key string, opts SignOptions) (string, error) {
	s.mu.RLock()
	_, ok := s.objects[key]
	s.mu.RUnlock()
	if !ok {
		return "", ErrObjectNotFound
	}

	expiry := opts.Expiry
	if expiry <= 0 {
		expiry = s.DefaultExpiry
	}
	u := fmt.Sprintf("memory://%s?expires=%d", key, int(expiry.Seconds()))
	if opts.DownloadName != "" {
		u += "&download=" + opts.DownloadName
	}
	return u, nil
}
