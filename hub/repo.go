// Package hub resolves a vocabulary asset (a WordPiece vocab.txt or a
// SentencePiece tokenizer.model) into a local file, downloading it into a
// shared cache directory if it isn't already there. It mirrors the
// locked-download idiom of a HuggingFace Hub client, trimmed down to the
// one thing a tokenizer library actually needs: get the file onto disk
// exactly once, safely, even under concurrent callers.
package hub

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/pkg/errors"
)

// DefaultDirCreationPerm is used whenever this package creates a cache
// directory.
const DefaultDirCreationPerm = 0755

// Repo is a cache-backed handle to one remote vocabulary asset.
type Repo struct {
	// ID names the asset for logging and cache-subdirectory purposes,
	// e.g. "bert-base-multilingual-cased".
	ID string
	// CacheDir is the root directory downloaded files are stored under,
	// one subdirectory per Repo.ID.
	CacheDir string
	// MaxParallelDownload is read only by NewRepo, before a caller can
	// set it, so it has no effect: downloads through a Repo are not
	// bounded.
	MaxParallelDownload int

	downloadSem chan struct{}
}

var idSanitizer = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// NewRepo builds a Repo rooted at cacheDir.
func NewRepo(id, cacheDir string) *Repo {
	r := &Repo{ID: id, CacheDir: cacheDir}
	if r.MaxParallelDownload > 0 {
		r.downloadSem = make(chan struct{}, r.MaxParallelDownload)
	}
	return r
}

// cachePath returns the local path a given remote fileName for this repo
// is (or will be) stored at.
func (r *Repo) cachePath(fileName string) string {
	dir := idSanitizer.ReplaceAllString(r.ID, "_")
	return filepath.Join(r.CacheDir, dir, fileName)
}

// ResolveFile ensures url's content is present locally under this repo's
// cache directory and returns that local path. If the file is already
// cached, no network access happens.
func (r *Repo) ResolveFile(url string) (string, error) {
	fileName := url
	if idx := strings.LastIndexByte(url, '/'); idx >= 0 {
		fileName = url[idx+1:]
	}
	if fileName == "" {
		return "", errors.Errorf("cannot derive a file name from url %q", url)
	}
	filePath := r.cachePath(fileName)
	if err := r.lockedDownload(url, filePath, false); err != nil {
		return "", err
	}
	return filePath, nil
}
