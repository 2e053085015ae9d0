// Command imgops applies a directive string to image files.
//
//	imgops -assets ./assets -d '?hueshift=90?scalenearest=2' -o out sprite.png
//
// With a single input -o names the output file; with several it names a
// directory. -print and -refs only inspect the directive.
package main

import (
	"flag"
	"fmt"
	"image"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/fogleman/gg"

	"github.com/voidshard/imgops"
	"github.com/voidshard/imgops/assets"
	"github.com/voidshard/imgops/config"
)

type Opts struct {
	assetDir   string
	directive  string
	configFile string
	out        string
	routines   int
	nearest    bool
	print      bool
	refs       bool
	verbose    bool
}

func main() {
	opts := &Opts{}
	flag.StringVar(&opts.assetDir, "assets", "", "directory referenced images are read from")
	flag.StringVar(&opts.directive, "d", "", "directive string")
	flag.StringVar(&opts.configFile, "config", "", "JSON or YAML colour directives list, appended to -d")
	flag.StringVar(&opts.out, "o", "out", "output file (one input) or directory")
	flag.IntVar(&opts.routines, "routines", 4, "images processed at once")
	flag.BoolVar(&opts.nearest, "round", false, "round resampling results instead of truncating")
	flag.BoolVar(&opts.print, "print", false, "print the normalised directive and exit")
	flag.BoolVar(&opts.refs, "refs", false, "print referenced image names and exit")
	flag.BoolVar(&opts.verbose, "v", false, "debug logging")
	flag.Parse()

	if err := opts.run(flag.Args()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func (opts *Opts) run(inputs []string) error {
	level := slog.LevelInfo
	if opts.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	imgops.SetLogger(logger)

	directive, err := opts.fullDirective()
	if err != nil {
		return err
	}
	ops := imgops.Parse(directive)

	if opts.print {
		fmt.Println(imgops.Print(ops))
		return nil
	}
	if opts.refs {
		for _, name := range imgops.References(ops) {
			fmt.Println(name)
		}
		return nil
	}
	if len(inputs) == 0 {
		return fmt.Errorf("no input images")
	}
	outs, err := opts.outPaths(inputs)
	if err != nil {
		return err
	}

	var storeOpts []assets.Option
	if opts.assetDir != "" {
		storeOpts = append(storeOpts, assets.Root(opts.assetDir))
	}
	store, err := assets.New(append(storeOpts, assets.Logger(logger))...)
	if err != nil {
		return err
	}
	if err := store.Preload(ops); err != nil {
		return err
	}

	imgs := make([]*image.NRGBA, len(inputs))
	for i, in := range inputs {
		img, err := gg.LoadImage(in)
		if err != nil {
			return err
		}
		imgs[i] = imgops.Clone(imgops.ToNRGBA(img))
	}

	rounding := imgops.RoundTruncate
	if opts.nearest {
		rounding = imgops.RoundNearest
	}
	results, applyErr := imgops.ApplyAll(ops, imgs, store,
		imgops.WithRoutines(opts.routines), imgops.WithRounding(rounding))

	for i, res := range results {
		if res == nil {
			continue
		}
		dst := outs[i]
		if err := gg.SavePNG(dst, res); err != nil {
			return err
		}
		logger.Debug("wrote image", slog.String("path", dst))
	}
	return applyErr
}

// fullDirective joins -d with the directives read from -config.
func (opts *Opts) fullDirective() (string, error) {
	if opts.configFile == "" {
		return opts.directive, nil
	}
	data, err := os.ReadFile(opts.configFile)
	if err != nil {
		return "", err
	}
	var list []string
	switch filepath.Ext(opts.configFile) {
	case ".yaml", ".yml":
		list, err = config.DecodeYAML(data)
	default:
		list, err = config.DecodeJSON(data)
	}
	if err != nil {
		return "", fmt.Errorf("%s: %w", opts.configFile, err)
	}
	d := opts.directive
	for _, s := range list {
		d += s
	}
	return d, nil
}

// outPaths returns the output file of each input. With several inputs the
// output directory is created and results keep their input base names,
// which must therefore be distinct.
func (opts *Opts) outPaths(inputs []string) ([]string, error) {
	if len(inputs) == 1 {
		return []string{opts.out}, nil
	}
	if err := os.MkdirAll(opts.out, 0750); err != nil {
		return nil, fmt.Errorf("output directory: %w", err)
	}
	outs := make([]string, len(inputs))
	seen := map[string]string{}
	for i, in := range inputs {
		base := filepath.Base(in)
		if prev, ok := seen[base]; ok {
			return nil, fmt.Errorf("inputs %s and %s would both be written to %s", prev, in, base)
		}
		seen[base] = in
		outs[i] = filepath.Join(opts.out, base)
	}
	return outs, nil
}
