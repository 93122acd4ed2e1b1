package driver

import (
	"os"
	"path/filepath"
	"time"

	"github.com/hakanago/hakana/internal/config"
)

// FileFingerprint is one discovered file's hash and modification time, the
// unit spec §6's "file_hashes_and_times" collaborator interface returns.
type FileFingerprint struct {
	Hash  uint64
	MTime time.Time
}

// FileSystem is spec §6's "Consumed ... File system" collaborator: the
// driver never reads a directory or stats a file except through this
// interface, so a test can substitute an in-memory root.
type FileSystem interface {
	FindFiles(root string) ([]string, error)
	ReadFile(path string) ([]byte, error)
}

// OSFileSystem implements FileSystem over the real filesystem, walking
// every configured root and filtering to recognized source extensions
// (spec §6 "find_files_in_dir(root, existing_fs?)").
type OSFileSystem struct {
	IgnoredGlobs []string
}

func (fs OSFileSystem) FindFiles(root string) ([]string, error) {
	var out []string
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if !config.HasSourceExt(path) {
			return nil
		}
		if fs.ignored(path) {
			return nil
		}
		out = append(out, path)
		return nil
	})
	return out, err
}

func (fs OSFileSystem) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

func (fs OSFileSystem) ignored(path string) bool {
	for _, pattern := range fs.IgnoredGlobs {
		if ok, _ := filepath.Match(pattern, path); ok {
			return true
		}
	}
	return false
}

// Fingerprints builds the path->FileFingerprint map Pipeline.Scan diffs
// against the previous manifest (spec §6 "file_hashes_and_times").
func Fingerprints(fs FileSystem, roots []string) (map[string]FileFingerprint, error) {
	out := map[string]FileFingerprint{}
	for _, root := range roots {
		paths, err := fs.FindFiles(root)
		if err != nil {
			return nil, err
		}
		for _, p := range paths {
			contents, err := fs.ReadFile(p)
			if err != nil {
				return nil, err
			}
			info, statErr := os.Stat(p)
			mtime := time.Time{}
			if statErr == nil {
				mtime = info.ModTime()
			}
			out[p] = FileFingerprint{Hash: FileHash(contents), MTime: mtime}
		}
	}
	return out, nil
}
