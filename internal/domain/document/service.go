package document

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"time"

	"github.com/google/uuid"

	"github.com/pallicare/pallicare/internal/platform/blobstore"
)

type Service struct {
	repo      Repository
	store     blobstore.Store
	signedTTL time.Duration
}

func NewService(repo Repository, store blobstore.Store, signedTTL time.Duration) *Service {
	return &Service{repo: repo, store: store, signedTTL: signedTTL}
}

// UploadInput describes one incoming file.
type UploadInput struct {
	PatientID   *uuid.UUID
	Scope       string
	TypeKey     string
	Filename    string
	ContentType string
	Upsert      bool
}

func (in *UploadInput) validate() error {
	switch in.Scope {
	case ScopePatient:
		if in.PatientID == nil || *in.PatientID == uuid.Nil {
			return fmt.Errorf("patient_id is required for patient documents")
		}
	case ScopeTemplate:
	default:
		return fmt.Errorf("invalid scope: %s", in.Scope)
	}
	if in.Filename == "" {
		return fmt.Errorf("filename is required")
	}
	if in.TypeKey == "" {
		return fmt.Errorf("type_key is required")
	}
	return nil
}

// objectKey lays out storage paths by scope so signed URLs and bucket
// listings group naturally.
func (in *UploadInput) objectKey() string {
	if in.Scope == ScopeTemplate {
		return path.Join("templates", in.TypeKey, in.Filename)
	}
	return path.Join("patients", in.PatientID.String(), in.TypeKey, in.Filename)
}

// Upload stores the file bytes and records the metadata row. With
// Upsert set, an existing document at the same key is replaced.
func (s *Service) Upload(ctx context.Context, in UploadInput, content io.Reader) (*Document, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	key := in.objectKey()
	info, err := s.store.Put(ctx, key, content, blobstore.PutOptions{
		ContentType: in.ContentType,
		Upsert:      in.Upsert,
	})
	if err != nil {
		return nil, fmt.Errorf("store object: %w", err)
	}

	if existing, err := s.repo.GetByKey(ctx, key); err == nil {
		existing.TypeKey = in.TypeKey
		existing.Filename = in.Filename
		existing.ContentType = info.ContentType
		existing.Size = info.Size
		if err := s.repo.Update(ctx, existing); err != nil {
			return nil, err
		}
		return existing, nil
	}

	d := &Document{
		PatientID:   in.PatientID,
		Scope:       in.Scope,
		TypeKey:     in.TypeKey,
		Filename:    in.Filename,
		Key:         key,
		ContentType: info.ContentType,
		Size:        info.Size,
	}
	if err := s.repo.Create(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Document, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*Document, error) {
	return s.repo.ListByPatient(ctx, patientID)
}

func (s *Service) ListTemplates(ctx context.Context) ([]*Document, error) {
	return s.repo.ListTemplates(ctx)
}

// SignedURL returns a time-limited download URL for the document. A
// non-empty downloadName forces a save-as with that filename.
func (s *Service) SignedURL(ctx context.Context, id uuid.UUID, downloadName string) (string, error) {
	d, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	return s.store.SignedURL(ctx, d.Key, blobstore.SignOptions{
		Expiry:       s.signedTTL,
		DownloadName: downloadName,
	})
}

// Delete removes both the stored object and the metadata row. A missing
// object is not an error; the row still goes.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	d, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.store.Delete(ctx, d.Key); err != nil && !errors.Is(err, blobstore.ErrObjectNotFound) {
		return fmt.Errorf("delete object: %w", err)
	}
	return s.repo.Delete(ctx, id)
}
