package main

import (
	"fmt"
	"os"

	"github.com/apex/log"
	"github.com/apex/log/handlers/cli"
)

func main() {
	log.SetHandler(cli.Default)

	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "disasm":
		err = cmdDisasm(os.Args[2:])
	case "info":
		err = cmdInfo(os.Args[2:])
	case "help", "-h", "--help":
		usage()
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", os.Args[1])
		usage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `baksmali — DEX disassembler

Usage:
  baksmali disasm --dex <file> --out <dir>    Disassemble every class to smali
  baksmali info   --dex <file>                Print header and pool summary

Flags:
  --dex <file>          Path to the DEX file
  --out <dir>           Output directory (default: out)
  --jobs <n>            Worker count; 0 = number of CPUs
  --debug-info=<bool>   Interleave debug items (default: true)
  --strict              Fail on first structural error
  --verbose             Log each generated file
`)
}
