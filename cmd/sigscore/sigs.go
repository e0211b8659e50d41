package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/sigtools/sigscore/internal/duckdb"
)

func runSigs(args []string) int {
	if len(args) < 1 {
		printSigsUsage()
		return ExitUsage
	}

	switch args[0] {
	case "list":
		return runSigsList(args[1:])
	case "info":
		return runSigsInfo(args[1:])
	case "help":
		printSigsUsage()
		return ExitSuccess
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown sigs command %q\n\n", args[0])
		printSigsUsage()
		return ExitUsage
	}
}

func printSigsUsage() {
	fmt.Fprintf(os.Stderr, `List and inspect imported signatures.

Usage:
  sigscore sigs <command> [options]

Commands:
  list        List stored signature keys
  info        Show genes and weights for one signature

Examples:
  sigscore sigs list
  sigscore sigs list --source msigdb
  sigscore sigs info --key GS_18297132
`)
}

func runSigsList(args []string) int {
	fs := flag.NewFlagSet("sigs list", flag.ExitOnError)

	var (
		source    string
		storePath string
	)

	fs.StringVar(&source, "source", "", "Only list signatures imported from this format (msigdb, genesigdb)")
	fs.StringVar(&storePath, "store", "", "Store path (default: config store.path or ~/.sigscore/sigscore.duckdb)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `List stored signature keys, sorted.

Usage:
  sigscore sigs list [options]

Options:
`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return ExitUsage
	}

	store, err := duckdb.Open(resolveStorePath(storePath))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitError
	}
	defer store.Close()

	keys, err := store.SignatureKeys(source)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitError
	}

	if len(keys) == 0 {
		fmt.Println("No signatures stored")
		return ExitSuccess
	}
	for _, key := range keys {
		fmt.Println(key)
	}
	return ExitSuccess
}

func runSigsInfo(args []string) int {
	fs := flag.NewFlagSet("sigs info", flag.ExitOnError)

	var (
		key       string
		storePath string
	)

	fs.StringVar(&key, "key", "", "Signature key to show")
	fs.StringVar(&storePath, "store", "", "Store path (default: config store.path or ~/.sigscore/sigscore.duckdb)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Show genes and weights for one signature.

Usage:
  sigscore sigs info [options]

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  sigscore sigs info --key GS_18297132
`)
	}

	if err := fs.Parse(args); err != nil {
		return ExitUsage
	}

	if key == "" {
		fmt.Fprintf(os.Stderr, "Error: --key is required\n\n")
		fs.Usage()
		return ExitUsage
	}

	store, err := duckdb.Open(resolveStorePath(storePath))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitError
	}
	defer store.Close()

	s, err := store.LoadSignature(key)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if errors.Is(err, duckdb.ErrSignatureNotFound) {
			fmt.Fprintf(os.Stderr, "Hint: List stored keys with: sigscore sigs list\n")
		}
		return ExitError
	}

	fmt.Printf("key\t%s\n", key)
	if s.Info() != "" {
		fmt.Printf("info\t%s\n", s.Info())
	}
	if s.Bias() != 0 {
		fmt.Printf("bias\t%s\n", strconv.FormatFloat(s.Bias(), 'g', -1, 64))
	}
	fmt.Printf("genes\t%d\n", s.Len())

	genes := s.Genes()
	weights := s.Weights()
	for i, g := range genes {
		fmt.Printf("  %s\t%s\n", g, strconv.FormatFloat(weights[i], 'g', -1, 64))
	}
	return ExitSuccess
}
