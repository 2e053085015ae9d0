package imgops

import (
	"fmt"
	"image"
	"sync"
)

// ApplyAll runs the same operations over every image, several images at a
// time (see WithRoutines). Results keep the order of imgs; an image that
// failed has a nil result and its error is included in the returned error.
// r must be safe for concurrent use.
func ApplyAll(ops []Operation, imgs []*image.NRGBA, r Resolver, opts ...Option) ([]*image.NRGBA, error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return nil, err
	}
	out := make([]*image.NRGBA, len(imgs))

	work := make(chan int)
	go func() {
		for i := range imgs {
			work <- i
		}
		close(work)
	}()

	// standard fan out -> fan in, each worker owns the images it takes
	errs := make(chan error)
	wg := &sync.WaitGroup{}

	for i := 0; i < cfg.routines; i++ {
		wg.Add(1)

		go func() {
			defer wg.Done()

			for idx := range work {
				res, err := cfg.apply(ops, imgs[idx], r)
				if err != nil {
					errs <- fmt.Errorf("image %d: %w", idx, err)
					continue
				}
				out[idx] = res
			}
		}()
	}

	go func() {
		wg.Wait()
		close(errs)
	}()

	return out, checkErrors(errs)
}
