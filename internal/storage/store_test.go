package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/ElvisAhmetovic/compass-order-hub-sub002/internal/models"
)

func setupStore(t *testing.T) (*Store, *gorm.DB, string) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&models.TechTicket{}, &models.Attachment{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	dir := t.TempDir()
	store, err := New(dir, db)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	return store, db, dir
}

func TestSaveConfirmsDurably(t *testing.T) {
	store, db, dir := setupStore(t)
	content := []byte("screenshot bytes")

	att, err := store.Save(context.Background(), 1, "shot.png", "image/png", bytes.NewReader(content))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	// A returned attachment means both file and row exist, immediately.
	if att.Size != int64(len(content)) {
		t.Errorf("size = %d", att.Size)
	}
	if _, err := os.Stat(filepath.Join(dir, att.Key)); err != nil {
		t.Errorf("file missing after confirmed save: %v", err)
	}
	var count int64
	db.Model(&models.Attachment{}).Where("key = ?", att.Key).Count(&count)
	if count != 1 {
		t.Errorf("row missing after confirmed save")
	}

	rc, err := store.Open(att.Key)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer rc.Close()
	got, _ := io.ReadAll(rc)
	if !bytes.Equal(got, content) {
		t.Errorf("read back %q", got)
	}
}

func TestSaveRejectsOversized(t *testing.T) {
	store, db, dir := setupStore(t)

	big := strings.NewReader(strings.Repeat("x", MaxAttachmentSize+1))
	_, err := store.Save(context.Background(), 1, "huge.bin", "application/octet-stream", big)
	if !errors.Is(err, ErrTooLarge) {
		t.Fatalf("expected ErrTooLarge, got %v", err)
	}
	// No orphan file, no row.
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("partial file left behind")
	}
	var count int64
	db.Model(&models.Attachment{}).Count(&count)
	if count != 0 {
		t.Errorf("row created for failed upload")
	}
}

func TestOpenRejectsPathKeys(t *testing.T) {
	store, _, _ := setupStore(t)
	if _, err := store.Open("../etc/passwd"); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected os.ErrNotExist, got %v", err)
	}
}

func TestDeleteRemovesRowAndFile(t *testing.T) {
	store, db, dir := setupStore(t)
	att, err := store.Save(context.Background(), 1, "a.txt", "text/plain", strings.NewReader("hi"))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := store.Delete(context.Background(), att.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	var count int64
	db.Model(&models.Attachment{}).Count(&count)
	if count != 0 {
		t.Errorf("row still present")
	}
	if _, err := os.Stat(filepath.Join(dir, att.Key)); !os.IsNotExist(err) {
		t.Errorf("file still present")
	}
}
