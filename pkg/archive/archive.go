// Package archive writes export snapshots of the local store to a file or
// an S3 object and reads them back for import.
//
// A location is either a filesystem path or an s3://bucket/key URL.
package archive

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/forestline/eudrtrack/pkg/store/local"
)

// Target is where one snapshot lives.
type Target interface {
	Save(ctx context.Context, data []byte) error
	Load(ctx context.Context) ([]byte, error)
	String() string
}

// Open resolves a location. S3 locations are reached with cfg; its Bucket
// is taken from the URL.
func Open(ctx context.Context, location string, cfg S3Config) (Target, error) {
	if location == "" {
		return nil, errors.New("archive: empty location")
	}
	if !strings.HasPrefix(location, "s3://") {
		return File{Path: location}, nil
	}

	u, err := url.Parse(location)
	if err != nil {
		return nil, fmt.Errorf("archive: %w", err)
	}
	key := strings.TrimPrefix(u.Path, "/")
	if u.Host == "" || key == "" {
		return nil, fmt.Errorf("archive: %q must look like s3://bucket/key", location)
	}
	cfg.Bucket = u.Host
	return NewS3Object(ctx, cfg, key)
}

// Backup exports st to t.
func Backup(ctx context.Context, st *local.Store, t Target) error {
	data, err := st.Export(ctx)
	if err != nil {
		return err
	}
	if err := t.Save(ctx, data); err != nil {
		return fmt.Errorf("archive: saving %s: %w", t, err)
	}
	return nil
}

// Restore imports the snapshot at t into st. Nothing is written if any
// collection in the snapshot is invalid.
func Restore(ctx context.Context, st *local.Store, t Target) error {
	data, err := t.Load(ctx)
	if err != nil {
		return fmt.Errorf("archive: loading %s: %w", t, err)
	}
	return st.Restore(ctx, data)
}

// File is a snapshot on the local filesystem.
type File struct {
	Path string
}

func (f File) String() string { return f.Path }

// Save replaces the file atomically.
func (f File) Save(_ context.Context, data []byte) error {
	dir := filepath.Dir(f.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(f.Path)+".*")
	if err != nil {
		return err
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), f.Path)
}

func (f File) Load(_ context.Context) ([]byte, error) {
	return os.ReadFile(f.Path)
}
