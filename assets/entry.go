package assets

import (
	"fmt"
	"image"
	"os"
	"strings"
	"sync"

	"github.com/fogleman/gg"
	"github.com/klauspost/compress/zstd"

	"github.com/voidshard/imgops"
)

// entry wraps a single named image and loads it on first use. Concurrent
// first users wait on loadLock so the file is decoded once.
type entry struct {
	name     string
	paths    []string
	loadLock *sync.Mutex

	loaded bool
	img    *image.NRGBA
	err    error
}

func newEntry(name string, paths []string) *entry {
	return &entry{name: name, paths: paths, loadLock: &sync.Mutex{}}
}

// load returns the image, reading it from disk if this is the first call.
// A failed load is remembered and returned again.
func (e *entry) load() (*image.NRGBA, error) {
	e.loadLock.Lock()
	defer e.loadLock.Unlock()

	if e.loaded {
		return e.img, e.err
	}
	e.loaded = true

	for _, path := range e.paths {
		img, err := decodeFile(path)
		if os.IsNotExist(err) {
			continue
		} else if err != nil {
			e.err = fmt.Errorf("asset %q: %w", e.name, err)
			return nil, e.err
		}
		e.img = imgops.ToNRGBA(img)
		return e.img, nil
	}

	e.err = fmt.Errorf("asset %q: %w", e.name, os.ErrNotExist)
	return nil, e.err
}

// set stores an already decoded image.
func (e *entry) set(img *image.NRGBA) {
	e.loadLock.Lock()
	defer e.loadLock.Unlock()
	e.loaded, e.img, e.err = true, img, nil
}

// decodeFile decodes an image file, decompressing it first when it ends in
// .zst.
func decodeFile(path string) (image.Image, error) {
	if !strings.HasSuffix(path, ".zst") {
		return gg.LoadImage(path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return nil, err
	}
	defer dec.Close()

	img, _, err := image.Decode(dec)
	return img, err
}
