package imgops

import (
	"fmt"
)

// checkErrors rolls up an error channel into a single error.
func checkErrors(errs <-chan error) error {
	var ferr error

	for err := range errs {
		if err == nil {
			continue
		} else if ferr == nil {
			ferr = err
		} else {
			ferr = fmt.Errorf("%w; %v", ferr, err)
		}
	}

	return ferr
}

// clampInt clamps v to [lo, hi].
func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
