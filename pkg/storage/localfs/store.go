// Copyright © 2018 One Concern

package localfs

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/oneconcern/deduplab/pkg/storage"
	"github.com/oneconcern/deduplab/pkg/storage/status"
	"github.com/spf13/afero"
)

// New creates a new local file system backed storage model
func New(fs afero.Fs) storage.Store {
	if fs == nil {
		fs = afero.NewBasePathFs(afero.NewOsFs(), ".deduplab")
	}
	return &localFS{
		fs: fs,
	}
}

// NewAt creates a local file system store rooted at some directory of the OS file system
func NewAt(root string) storage.Store {
	return New(afero.NewBasePathFs(afero.NewOsFs(), root))
}

type localFS struct {
	fs afero.Fs
}

func cleanKey(key string) (string, error) {
	k := strings.TrimPrefix(path.Clean("/"+filepath.ToSlash(key)), "/")
	if k == "" || k == "." {
		return "", status.ErrInvalidKey.Wrapf("%q", key)
	}
	return k, nil
}

func (l *localFS) Has(ctx context.Context, key string) (bool, error) {
	k, err := cleanKey(key)
	if err != nil {
		return false, err
	}
	fi, err := l.fs.Stat(k)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}

	return !fi.IsDir(), nil
}

func (l *localFS) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	has, err := l.Has(ctx, key)
	if err != nil {
		return nil, err
	}
	if !has {
		return nil, status.ErrNotExists.Wrapf("%q", key)
	}
	k, _ := cleanKey(key)
	return l.fs.Open(k)
}

func (l *localFS) Put(ctx context.Context, key string, source io.Reader, exclusive bool) error {
	k, err := cleanKey(key)
	if err != nil {
		return err
	}
	if err = ctx.Err(); err != nil {
		return err
	}
	dir := path.Dir(k)
	if dir != "." {
		if err = l.fs.MkdirAll(dir, 0700); err != nil {
			return fmt.Errorf("ensuring directories for %q: %w", key, err)
		}
	}
	flag := os.O_CREATE | os.O_WRONLY | os.O_TRUNC
	if exclusive {
		flag |= os.O_EXCL
	}
	target, err := l.fs.OpenFile(k, flag, 0600)
	if err != nil {
		if os.IsExist(err) {
			return status.ErrExists.Wrapf("%q", key)
		}
		return fmt.Errorf("create record for %q: %w", key, err)
	}
	if _, err = io.Copy(target, source); err != nil {
		_ = target.Close()
		return fmt.Errorf("write record for %q: %w", key, err)
	}
	return target.Close()
}

func (l *localFS) Delete(ctx context.Context, key string) error {
	k, err := cleanKey(key)
	if err != nil {
		return err
	}
	if err := l.fs.Remove(k); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing %q: %w", key, err)
	}
	return nil
}

func (l *localFS) Keys(ctx context.Context) ([]string, error) {
	return l.walk(ctx, ".")
}

func (l *localFS) KeysPrefix(ctx context.Context, prefix string) ([]string, error) {
	root := strings.TrimSuffix(storage.CleanPrefix(prefix), "/")
	if root == "" {
		return l.walk(ctx, ".")
	}
	fi, err := l.fs.Stat(root)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, err
	}
	if !fi.IsDir() {
		return []string{root}, nil
	}
	return l.walk(ctx, root)
}

func (l *localFS) walk(ctx context.Context, root string) ([]string, error) {
	res := make([]string, 0)
	e := afero.Walk(l.fs, root, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if err = ctx.Err(); err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		res = append(res, strings.TrimPrefix(filepath.ToSlash(p), "/"))
		return nil
	})
	if e != nil {
		return nil, e
	}
	sort.Strings(res)
	return res, nil
}

func (l *localFS) String() string {
	const localfs = "localfs"
	switch fs := l.fs.(type) {
	case *afero.BasePathFs:
		pp, err := fs.RealPath("")
		if err != nil {
			return localfs
		}
		return localfs + "@" + pp
	default:
		return localfs
	}
}
