package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"time"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
)

// localStorage keeps uploads as flat files on a billy filesystem.
type localStorage struct {
	fs  billy.Filesystem
	now func() time.Time
}

// NewLocal stores uploads under dir on the host disk.
func NewLocal(dir string) (Storage, error) {
	if dir == "" {
		return nil, fmt.Errorf("upload dir is required")
	}
	fsys := osfs.New(dir)
	if err := fsys.MkdirAll(".", 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return NewFilesystem(fsys), nil
}

// NewFilesystem wraps an existing billy filesystem, e.g. memfs in tests.
func NewFilesystem(fsys billy.Filesystem) Storage {
	return &localStorage{fs: fsys, now: time.Now}
}

func (l *localStorage) Put(_ context.Context, key string, r io.Reader, opt PutObjectOptions) (ObjectInfo, error) {
	if err := ValidateKey(key); err != nil {
		return ObjectInfo{}, err
	}
	f, err := l.fs.Create(key)
	if err != nil {
		return ObjectInfo{}, fmt.Errorf("create %s: %w", key, err)
	}
	n, err := io.Copy(f, r)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = l.fs.Remove(key)
		return ObjectInfo{}, fmt.Errorf("write %s: %w", key, err)
	}
	return ObjectInfo{
		Key:          key,
		Size:         n,
		ContentType:  opt.ContentType,
		LastModified: l.now(),
		Metadata:     opt.Metadata,
	}, nil
}

func (l *localStorage) Get(_ context.Context, key string) (io.ReadCloser, ObjectInfo, error) {
	if err := ValidateKey(key); err != nil {
		return nil, ObjectInfo{}, err
	}
	st, err := l.fs.Stat(key)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ObjectInfo{}, ErrNotFound
		}
		return nil, ObjectInfo{}, err
	}
	f, err := l.fs.Open(key)
	if err != nil {
		return nil, ObjectInfo{}, err
	}
	return f, ObjectInfo{Key: key, Size: st.Size(), LastModified: st.ModTime()}, nil
}

func (l *localStorage) Delete(_ context.Context, key string) error {
	if err := ValidateKey(key); err != nil {
		return err
	}
	if err := l.fs.Remove(key); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

func (l *localStorage) Sweep(ctx context.Context, maxAge time.Duration) (int, error) {
	entries, err := l.fs.ReadDir(".")
	if err != nil {
		return 0, fmt.Errorf("read upload dir: %w", err)
	}

	cutoff := l.now().Add(-maxAge)
	removed := 0
	var errs []error
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return removed, err
		}
		if e.IsDir() || !e.ModTime().Before(cutoff) {
			continue
		}
		if err := l.fs.Remove(e.Name()); err != nil {
			errs = append(errs, fmt.Errorf("remove %s: %w", e.Name(), err))
			continue
		}
		removed++
	}
	return removed, errors.Join(errs...)
}
