// Package objstore is the content-addressed object store: it persists and
// loads blobs and commits by content digest, using the two-level fanout
// layout <root>/objects/<id[0:2]>/<id[2:40]>.
//
// Writes are write-if-absent, which gives content-addressed deduplication
// for free: identical content is written exactly once regardless of how
// many times PutBlob/PutCommit are called with it.
package objstore

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/cmccarthy-dev/gitlet/internal/gitletfs"
	"github.com/cmccarthy-dev/gitlet/internal/model"
)

// Digest maps a byte sequence to its 40-hex-character content id. Injected
// so the store never hardcodes a particular hash algorithm.
type Digest func([]byte) string

const minPartialIDLen = 6
const fullIDLen = 40

// Store is the object store, rooted at a repository's objects directory.
type Store struct {
	fs         *gitletfs.FS
	digest     Digest
	objectsDir string
}

// New returns a Store that reads and writes under objectsDir (relative to
// fs's root).
func New(fs *gitletfs.FS, digest Digest, objectsDir string) *Store {
	return &Store{fs: fs, digest: digest, objectsDir: objectsDir}
}

// Digest exposes the injected digest function, e.g. for staging code that
// needs to hash working-directory content before deciding whether to write
// it.
func (s *Store) Digest(b []byte) string {
	return s.digest(b)
}

// path returns the two-level fanout path for id.
func (s *Store) path(id string) string {
	return filepath.Join(s.objectsDir, id[:2], id[2:])
}

// PutBlob stores contents under its digest, if not already present, and
// returns that digest.
func (s *Store) PutBlob(contents []byte) (string, error) {
	id := s.digest(contents)
	exists, err := s.fs.Exists(s.path(id))
	if err != nil {
		return "", fmt.Errorf("objstore: PutBlob: %w", err)
	}
	if exists {
		return id, nil
	}
	if err := s.fs.WriteFile(s.path(id), contents); err != nil {
		return "", fmt.Errorf("objstore: PutBlob: %w", err)
	}
	return id, nil
}

// LoadBlob returns the raw bytes stored under id.
func (s *Store) LoadBlob(id string) ([]byte, error) {
	b, err := s.fs.ReadFile(s.path(id))
	if err != nil {
		return nil, fmt.Errorf("objstore: LoadBlob: %w", err)
	}
	return b, nil
}

// PutCommit serializes c canonically, stores it under its digest if not
// already present, and returns that digest.
func (s *Store) PutCommit(c *model.Commit) (string, error) {
	contents := c.Serialize()
	id := s.digest(contents)
	exists, err := s.fs.Exists(s.path(id))
	if err != nil {
		return "", fmt.Errorf("objstore: PutCommit: %w", err)
	}
	if exists {
		return id, nil
	}
	if err := s.fs.WriteFile(s.path(id), contents); err != nil {
		return "", fmt.Errorf("objstore: PutCommit: %w", err)
	}
	return id, nil
}

// LoadCommit loads and deserializes the commit stored under id.
func (s *Store) LoadCommit(id string) (*model.Commit, error) {
	exists, err := s.fs.Exists(s.path(id))
	if err != nil {
		return nil, fmt.Errorf("objstore: LoadCommit: %w", err)
	}
	if !exists {
		return nil, ErrNoSuchCommit
	}
	raw, err := s.fs.ReadFile(s.path(id))
	if err != nil {
		return nil, fmt.Errorf("objstore: LoadCommit: %w", err)
	}
	c, err := model.Deserialize(raw)
	if err != nil {
		return nil, fmt.Errorf("objstore: LoadCommit: %w", err)
	}
	return c, nil
}

// ErrNoSuchCommit is returned by LoadCommit and ResolvePartial when no
// object matches. Callers at the command layer translate this into
// gitleterr.ErrNoCommitWithID.
var ErrNoSuchCommit = errors.New("objstore: no commit with that id exists")

// ResolvePartial resolves a (possibly abbreviated) id to a full 40-character
// commit id.
//
// A 40-character input is returned unchanged. Inputs shorter than
// minPartialIDLen are rejected. Otherwise the two-level fanout directory for
// the prefix's first two characters is listed and matched against the
// remaining characters of the prefix; exactly one match is required, so an
// ambiguous prefix reports an error rather than silently picking the first
// match.
func (s *Store) ResolvePartial(prefix string) (string, error) {
	if len(prefix) == fullIDLen {
		return prefix, nil
	}
	if len(prefix) < minPartialIDLen {
		return "", ErrNoSuchCommit
	}
	dir := filepath.Join(s.objectsDir, prefix[:2])
	isDir, err := s.fs.IsDir(dir)
	if err != nil {
		return "", fmt.Errorf("objstore: ResolvePartial: %w", err)
	}
	if !isDir {
		return "", ErrNoSuchCommit
	}
	names, err := s.fs.ListFiles(dir)
	if err != nil {
		return "", fmt.Errorf("objstore: ResolvePartial: %w", err)
	}
	rest := prefix[2:]
	var matches []string
	for _, name := range names {
		if len(name) >= len(rest) && name[:len(rest)] == rest {
			matches = append(matches, prefix[:2]+name)
		}
	}
	if len(matches) != 1 {
		return "", ErrNoSuchCommit
	}
	return matches[0], nil
}
