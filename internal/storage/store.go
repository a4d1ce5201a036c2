package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ElvisAhmetovic/compass-order-hub-sub002/internal/models"
)

// ErrTooLarge is returned when an upload exceeds MaxAttachmentSize.
var ErrTooLarge = errors.New("attachment exceeds size limit")

// MaxAttachmentSize caps a single upload at 10 MiB.
const MaxAttachmentSize = 10 << 20

// Store writes ticket attachments to local disk and records them in the
// database. Save returns only after the bytes are durably on disk and the
// row is committed, so a successful return IS the upload confirmation;
// callers never poll for a pending state.
type Store struct {
	dir string
	db  *gorm.DB
}

func New(dir string, db *gorm.DB) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("attachment dir: %w", err)
	}
	return &Store{dir: dir, db: db}, nil
}

// Save streams the upload to a uuid-keyed file, fsyncs it, then inserts
// the attachment row. On any failure the partial file is removed and no
// row exists.
func (s *Store) Save(ctx context.Context, ticketID uint, name, mimeType string, r io.Reader) (*models.Attachment, error) {
	key := uuid.NewString()
	path := filepath.Join(s.dir, key)

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return nil, fmt.Errorf("create attachment file: %w", err)
	}
	size, err := io.Copy(f, io.LimitReader(r, MaxAttachmentSize+1))
	if err == nil && size > MaxAttachmentSize {
		err = ErrTooLarge
	}
	if err == nil {
		err = f.Sync()
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(path)
		if errors.Is(err, ErrTooLarge) {
			return nil, ErrTooLarge
		}
		return nil, fmt.Errorf("write attachment: %w", err)
	}

	att := models.Attachment{
		TicketID: ticketID,
		Key:      key,
		Name:     name,
		Size:     size,
		MimeType: mimeType,
	}
	if err := s.db.WithContext(ctx).Create(&att).Error; err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("record attachment: %w", err)
	}
	return &att, nil
}

// Open returns the stored bytes for an attachment key.
func (s *Store) Open(key string) (io.ReadCloser, error) {
	// Keys are uuids we generated; reject anything path-like outright.
	if filepath.Base(key) != key {
		return nil, os.ErrNotExist
	}
	return os.Open(filepath.Join(s.dir, key))
}

// Delete removes the row first, then the file. A missing file is not an
// error; the row is the source of truth.
func (s *Store) Delete(ctx context.Context, id uint) error {
	var att models.Attachment
	if err := s.db.WithContext(ctx).First(&att, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return gorm.ErrRecordNotFound
		}
		return fmt.Errorf("find attachment: %w", err)
	}
	if err := s.db.WithContext(ctx).Delete(&att).Error; err != nil {
		return fmt.Errorf("delete attachment: %w", err)
	}
	if err := os.Remove(filepath.Join(s.dir, att.Key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove attachment file: %w", err)
	}
	return nil
}
