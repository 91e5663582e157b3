package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/apex/log"

	"baksmali/internal/dex"
	"baksmali/internal/dexfmt"
	"baksmali/internal/smali"
)

func cmdDisasm(args []string) error {
	fs := flag.NewFlagSet("disasm", flag.ExitOnError)
	dexPath := fs.String("dex", "", "path to the DEX file")
	outDir := fs.String("out", "out", "output directory")
	jobs := fs.Int("jobs", 0, "worker count; 0 = number of CPUs")
	strict := fs.Bool("strict", false, "fail on first structural error")
	debugInfo := fs.Bool("debug-info", true, "interleave debug items")
	verbose := fs.Bool("verbose", false, "log each generated file")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if *dexPath == "" {
		return fmt.Errorf("--dex is required")
	}

	data, err := os.ReadFile(*dexPath)
	if err != nil {
		return fmt.Errorf("read: %w", err)
	}

	opts := dexfmt.Options{Mode: dexfmt.ModeBestEffort}
	if *strict {
		opts.Mode = dexfmt.ModeStrict
	}

	img, err := dex.NewImage(data, opts)
	if err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	for _, cerr := range img.ClassErrors {
		log.WithError(cerr).Warn("class skipped")
	}

	if err := os.MkdirAll(*outDir, 0755); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}

	log.WithField("classes", len(img.Classes)).Info("disassembling")

	writeOpts := smali.DefaultOptions()
	writeOpts.DebugInfo = *debugInfo

	workers := *jobs
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	mapper := smali.NewPathMapper()
	classes := make(chan *dex.Class)
	var failed atomic.Int64
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for cls := range classes {
				rel := mapper.Path(cls.Name)
				if err := writeClassFile(*outDir, rel, cls, writeOpts); err != nil {
					log.WithField("class", cls.Name).WithError(err).Error("write failed")
					failed.Add(1)
					continue
				}
				if *verbose {
					fmt.Fprintf(os.Stderr, "wrote %s\n", filepath.Join(*outDir, rel))
				}
			}
		}()
	}

	// The image is immutable once built; workers only read it.
	for _, cls := range img.Classes {
		classes <- cls
	}
	close(classes)
	wg.Wait()

	if diags := img.Diags(); len(diags) > 0 && *verbose {
		fmt.Fprintf(os.Stderr, "\ndiagnostics: %d issues\n", len(diags))
		for _, d := range diags {
			fmt.Fprintf(os.Stderr, "  %s\n", d)
		}
	}

	if n := failed.Load(); n > 0 {
		return fmt.Errorf("%d of %d classes failed", n, len(img.Classes))
	}
	if len(img.ClassErrors) > 0 {
		return fmt.Errorf("%d classes failed to decode", len(img.ClassErrors))
	}
	return nil
}

func writeClassFile(outDir, rel string, cls *dex.Class, opts smali.Options) error {
	path := filepath.Join(outDir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(smali.WriteClass(cls, opts)), 0644)
}
