package imgops

import (
	"fmt"
	"image"
)

// Resolver supplies the images that operations refer to by name. It must
// be safe to call repeatedly during one Apply; when used with ApplyAll it
// must also be safe for concurrent use.
type Resolver interface {
	// Image returns the named image, or false when there is none. The
	// returned image is only read.
	Image(name string) (*image.NRGBA, bool)
}

// ResolverFunc adapts a function to a Resolver.
type ResolverFunc func(name string) (*image.NRGBA, bool)

// Image calls f(name).
func (f ResolverFunc) Image(name string) (*image.NRGBA, bool) { return f(name) }

// MapResolver resolves names from a fixed map.
type MapResolver map[string]*image.NRGBA

// Image returns m[name].
func (m MapResolver) Image(name string) (*image.NRGBA, bool) {
	img, ok := m[name]
	return img, ok && img != nil
}

// resolve looks up a referenced image. A nil resolver resolves nothing.
func resolve(r Resolver, name string) (*image.NRGBA, error) {
	if r == nil {
		return nil, fmt.Errorf("%w: %q (no resolver)", ErrReferenceMissing, name)
	}
	img, ok := r.Image(name)
	if !ok || img == nil {
		return nil, fmt.Errorf("%w: %q", ErrReferenceMissing, name)
	}
	return img, nil
}

func resolveAll(r Resolver, names []string) ([]*image.NRGBA, error) {
	out := make([]*image.NRGBA, 0, len(names))
	for _, n := range names {
		img, err := resolve(r, n)
		if err != nil {
			return nil, err
		}
		out = append(out, img)
	}
	return out, nil
}
