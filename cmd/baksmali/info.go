package main

import (
	"flag"
	"fmt"
	"os"

	"baksmali/internal/dex"
	"baksmali/internal/dexfmt"
)

func cmdInfo(args []string) error {
	fs := flag.NewFlagSet("info", flag.ExitOnError)
	dexPath := fs.String("dex", "", "path to the DEX file")

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

	img, err := dex.NewImage(data, dexfmt.Options{Mode: dexfmt.ModeBestEffort})
	if err != nil {
		return fmt.Errorf("decode: %w", err)
	}

	h := img.Header
	fmt.Printf("version:    %s\n", h.Version())
	fmt.Printf("file size:  %d\n", h.FileSize)
	fmt.Printf("checksum:   0x%08x\n", h.Checksum)
	fmt.Printf("strings:    %d\n", h.StringIDsSize)
	fmt.Printf("types:      %d\n", h.TypeIDsSize)
	fmt.Printf("protos:     %d\n", h.ProtoIDsSize)
	fmt.Printf("fields:     %d\n", h.FieldIDsSize)
	fmt.Printf("methods:    %d\n", h.MethodIDsSize)
	fmt.Printf("class defs: %d\n", h.ClassDefsSize)
	fmt.Printf("classes decoded: %d (%d failed)\n", len(img.Classes), len(img.ClassErrors))

	return nil
}
