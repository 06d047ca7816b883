package cleanup

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"syscall"
	"time"

	"reclaim/internal/platform"
)

// Trasher moves an item into a recoverable holding area. This package has
// no permanent-delete implementation.
type Trasher interface {
	Move(path string) error
}

// NewTrasher returns the file-move trash backend for the platform.
func NewTrasher(info *platform.Info) Trasher {
	return &fileTrash{dir: info.TrashDir, infoDir: info.TrashInfoDir}
}

// fileTrash moves items into a trash directory with collision-proof names.
// When infoDir is set it also writes an XDG-style .trashinfo sidecar so
// desktop environments can restore the item to its original location.
type fileTrash struct {
	dir     string
	infoDir string
	now     func() time.Time // injectable for tests
}

func (t *fileTrash) Move(path string) error {
	if err := os.MkdirAll(t.dir, 0o700); err != nil {
		return fmt.Errorf("prepare trash dir: %w", err)
	}

	dest := t.uniqueDest(filepath.Base(path))

	if t.infoDir != "" {
		if err := t.writeTrashInfo(path, dest); err != nil {
			return err
		}
	}

	if err := os.Rename(path, dest); err != nil {
		var linkErr *os.LinkError
		if errors.As(err, &linkErr) && errors.Is(linkErr.Err, syscall.EXDEV) {
			// Trash lives on a different filesystem; fall back to copy+remove.
			if copyErr := crossDeviceMove(path, dest); copyErr != nil {
				t.removeTrashInfo(dest)
				return copyErr
			}
			return nil
		}
		// The sidecar was written ahead of the move; without the trashed
		// item it would describe nothing.
		t.removeTrashInfo(dest)
		return err
	}
	return nil
}

func (t *fileTrash) removeTrashInfo(dest string) {
	if t.infoDir == "" {
		return
	}
	os.Remove(filepath.Join(t.infoDir, filepath.Base(dest)+".trashinfo"))
}

// uniqueDest picks a destination name that does not collide with items
// already in the trash.
func (t *fileTrash) uniqueDest(base string) string {
	dest := filepath.Join(t.dir, base)
	if _, err := os.Lstat(dest); err != nil {
		return dest
	}
	for i := 1; ; i++ {
		candidate := filepath.Join(t.dir, fmt.Sprintf("%s.%d", base, i))
		if _, err := os.Lstat(candidate); err != nil {
			return candidate
		}
	}
}

func (t *fileTrash) writeTrashInfo(original, dest string) error {
	if err := os.MkdirAll(t.infoDir, 0o700); err != nil {
		return fmt.Errorf("prepare trash info dir: %w", err)
	}
	now := time.Now
	if t.now != nil {
		now = t.now
	}
	info := fmt.Sprintf("[Trash Info]\nPath=%s\nDeletionDate=%s\n",
		original, now().Format("2006-01-02T15:04:05"))
	infoPath := filepath.Join(t.infoDir, filepath.Base(dest)+".trashinfo")
	return os.WriteFile(infoPath, []byte(info), 0o600)
}

// crossDeviceMove copies a file or directory tree to dest and removes the
// source, for the case where rename across filesystems is impossible.
func crossDeviceMove(src, dest string) error {
	info, err := os.Lstat(src)
	if err != nil {
		return err
	}

	if info.IsDir() {
		err = copyTree(src, dest)
	} else {
		err = copyFile(src, dest, info.Mode().Perm())
	}
	if err != nil {
		os.RemoveAll(dest)
		return err
	}

	return os.RemoveAll(src)
}

func copyTree(src, dest string) error {
	return filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dest, rel)

		switch {
		case d.IsDir():
			return os.MkdirAll(target, 0o700)
		case d.Type()&fs.ModeSymlink != 0:
			link, err := os.Readlink(path)
			if err != nil {
				return err
			}
			return os.Symlink(link, target)
		default:
			info, err := d.Info()
			if err != nil {
				return err
			}
			return copyFile(path, target, info.Mode().Perm())
		}
	})
}

func copyFile(src, dest string, perm os.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dest, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, perm)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
