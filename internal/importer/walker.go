package importer

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
)

// DefaultMaxFileSize is the largest file considered (1 MB).
const DefaultMaxFileSize int64 = 1 << 20

// File is a candidate source file found by Find.
type File struct {
	Path        string // Absolute path on disk.
	RelPath     string // Path relative to the root, slash separated.
	Size        int64
	ContentHash string // SHA-256 hex digest of the content.
}

// FindConfig controls Find.
type FindConfig struct {
	RootDir     string
	Include     []string // Glob patterns; DefaultIncludes when empty.
	Exclude     []string // Glob patterns.
	MaxFileSize int64    // 0 means DefaultMaxFileSize.
}

// Find walks RootDir and returns the files matching the include and
// exclude patterns, sorted by relative path.
func Find(cfg FindConfig) ([]File, error) {
	root, err := filepath.Abs(cfg.RootDir)
	if err != nil {
		return nil, fmt.Errorf("importer: resolve root: %w", err)
	}
	include := cfg.Include
	if len(include) == 0 {
		include = DefaultIncludes
	}
	maxSize := cfg.MaxFileSize
	if maxSize <= 0 {
		maxSize = DefaultMaxFileSize
	}

	var files []File
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			// Skip entries we cannot read instead of aborting.
			return nil
		}
		if d.IsDir() {
			if path != root && shouldExcludeDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}

		relPath, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}
		if !MatchesInclude(relPath, include) || MatchesExclude(relPath, cfg.Exclude) {
			return nil
		}

		info, err := d.Info()
		if err != nil || info.Size() > maxSize {
			return nil
		}
		hash, err := hashFile(path)
		if err != nil {
			return nil
		}

		files = append(files, File{
			Path:        path,
			RelPath:     filepath.ToSlash(relPath),
			Size:        info.Size(),
			ContentHash: hash,
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("importer: traversal: %w", err)
	}

	sort.Slice(files, func(i, j int) bool { return files[i].RelPath < files[j].RelPath })
	return files, nil
}

// hashFile computes the SHA-256 digest of the given file.
func hashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
