package indexer

import (
	"io/fs"
	"os"
	"path/filepath"
)

// WalkedFile is a single file surfaced by Walk, ready for the indexing
// pipeline to read and dispatch.
type WalkedFile struct {
	AbsPath string
	RelPath string
}

// Walk traverses root applying filter, returning files in deterministic
// (lexical) order. Symlinks are skipped unless filter.cfg.FollowSymlinks
// is set. When recursive is false, only root's immediate children are
// considered — matching the index request's "recursive" flag (spec.md §6).
func Walk(root string, filter *Filter, recursive bool) ([]WalkedFile, error) {
	if !recursive {
		return walkShallow(root, filter)
	}

	var out []WalkedFile

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Per-file/dir access failure: skip the entry. It is left
			// out of the result, so the caller neither reads it nor
			// counts it as a failure — a directory we can't even stat
			// is not worth surfacing as a repository-level failure.
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if path == root {
			return nil
		}

		info, err := entryInfo(path, d, filter.cfg.FollowSymlinks)
		if err != nil {
			return nil
		}
		if info == nil {
			// Symlink not followed.
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		relPath, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return nil
		}
		relPath = filepath.ToSlash(relPath)

		if !filter.Allow(relPath, info.IsDir()) {
			if info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if info.IsDir() {
			return nil
		}

		out = append(out, WalkedFile{AbsPath: path, RelPath: relPath})
		return nil
	})

	return out, err
}

// walkShallow lists only root's immediate file children, ignoring
// subdirectories entirely.
func walkShallow(root string, filter *Filter) ([]WalkedFile, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, err
	}

	var out []WalkedFile
	for _, d := range entries {
		if d.IsDir() {
			continue
		}
		path := filepath.Join(root, d.Name())
		info, err := entryInfo(path, d, filter.cfg.FollowSymlinks)
		if err != nil || info == nil || info.IsDir() {
			continue
		}
		if !filter.Allow(d.Name(), false) {
			continue
		}
		out = append(out, WalkedFile{AbsPath: path, RelPath: d.Name()})
	}
	return out, nil
}

// entryInfo resolves d into a fs.FileInfo, following a symlink when
// followSymlinks is true. Returns (nil, nil) for an unfollowed symlink.
func entryInfo(path string, d fs.DirEntry, followSymlinks bool) (fs.FileInfo, error) {
	if d.Type()&fs.ModeSymlink != 0 {
		if !followSymlinks {
			return nil, nil
		}
		return os.Stat(path)
	}
	return d.Info()
}
