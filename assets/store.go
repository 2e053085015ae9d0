// Package assets resolves image names used by directive operations to
// images stored in a directory.
package assets

import (
	"errors"
	"image"
	"log/slog"
	"path"
	"path/filepath"
	"sync"

	"github.com/voidshard/imgops"

	// extra formats for image.Decode
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

var defaultExtensions = []string{"", ".png", ".zst", ".png.zst"}

// Store is an imgops.Resolver backed by a directory. Each image is read on
// first use and kept for the life of the Store. Safe for concurrent use.
type Store struct {
	root   string
	exts   []string
	logger *slog.Logger

	entryLock *sync.Mutex
	entries   map[string]*entry
}

// New creates a Store. Without the Root option only images registered with
// Add can be resolved.
func New(opts ...Option) (*Store, error) {
	s := &Store{
		exts:      defaultExtensions,
		logger:    imgops.Logger(),
		entryLock: &sync.Mutex{},
		entries:   map[string]*entry{},
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Image implements imgops.Resolver.
func (s *Store) Image(name string) (*image.NRGBA, bool) {
	img, err := s.Load(name)
	if err != nil {
		s.logger.Warn("asset unavailable", slog.String("name", name), slog.Any("err", err))
		return nil, false
	}
	return img, true
}

// Load returns the named image, reading it on first use. Names are slash
// separated and relative to the root; they cannot reach outside it.
func (s *Store) Load(name string) (*image.NRGBA, error) {
	s.entryLock.Lock()
	e, ok := s.entries[name]
	if !ok {
		e = newEntry(name, s.paths(name))
		s.entries[name] = e
	}
	s.entryLock.Unlock()

	if !ok {
		s.logger.Debug("loading asset", slog.String("name", name))
	}
	return e.load()
}

// Add registers an image under name, replacing anything loaded before.
func (s *Store) Add(name string, img image.Image) {
	s.entryLock.Lock()
	e, ok := s.entries[name]
	if !ok {
		e = newEntry(name, nil)
		s.entries[name] = e
	}
	s.entryLock.Unlock()
	e.set(imgops.Clone(imgops.ToNRGBA(img)))
}

// Forget drops the named image so the next use reads it again.
func (s *Store) Forget(name string) {
	s.entryLock.Lock()
	defer s.entryLock.Unlock()
	delete(s.entries, name)
}

// Preload loads every image ops refer to and returns the errors of those
// that could not be loaded.
func (s *Store) Preload(ops []imgops.Operation) error {
	var errs []error
	for _, name := range imgops.References(ops) {
		if _, err := s.Load(name); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// paths lists the candidate files for name.
func (s *Store) paths(name string) []string {
	if s.root == "" {
		return nil
	}
	base := filepath.Join(s.root, filepath.FromSlash(path.Clean("/"+name)))
	out := make([]string, 0, len(s.exts))
	for _, ext := range s.exts {
		out = append(out, base+ext)
	}
	return out
}
