package assets

import (
	"fmt"
	"log/slog"
	"os"
)

// Option is something that can be configured on a Store.
type Option func(*Store) error

// Root sets the directory names are looked up in. It must exist.
func Root(dir string) Option {
	return func(s *Store) error {
		info, err := os.Stat(dir)
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return fmt.Errorf("given path %s is not a directory", dir)
		}
		s.root = dir
		return nil
	}
}

// Extensions sets the suffixes tried, in order, when mapping a name to a
// file. The default is "", ".png", ".zst" and ".png.zst".
func Extensions(exts ...string) Option {
	return func(s *Store) error {
		if len(exts) == 0 {
			return fmt.Errorf("at least one extension is required")
		}
		s.exts = append([]string(nil), exts...)
		return nil
	}
}

// Logger sets the logger used to report loads.
func Logger(l *slog.Logger) Option {
	return func(s *Store) error {
		if l != nil {
			s.logger = l
		}
		return nil
	}
}
