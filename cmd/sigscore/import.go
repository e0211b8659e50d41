package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/sigtools/sigscore/internal/duckdb"
	"github.com/sigtools/sigscore/internal/sigdb"
)

func runImport(args []string) int {
	fs := flag.NewFlagSet("import", flag.ExitOnError)

	var (
		format        string
		input         string
		annotVersion  string
		storePath     string
		listDiscarded bool
		verbose       bool
	)

	fs.StringVar(&format, "format", "", "Database format: msigdb, genesigdb")
	fs.StringVar(&input, "input", "", "Signature database file (.gz accepted for genesigdb)")
	fs.StringVar(&annotVersion, "annot-version", "", "Annotation version for symbol resolution (default: config annot.version)")
	fs.StringVar(&storePath, "store", "", "Store path (default: config store.path or ~/.sigscore/sigscore.duckdb)")
	fs.BoolVar(&listDiscarded, "list-discarded", false, "List the IDs of discarded entries after the summary")
	fs.BoolVar(&verbose, "verbose", false, "Log each discarded entry as it is hit")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Import a signature database into the store.

Entries the format rules reject are discarded with a count, never an
error; only an unreadable or unparsable file fails the import.

Usage:
  sigscore import [options]

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  sigscore import --format msigdb --input msigdb_v7.xml
  sigscore import --format genesigdb --input ALL_SIGSv4.gmt --annot-version 2026a
  sigscore import --format msigdb --input msigdb_v7.xml --list-discarded
`)
	}

	if err := fs.Parse(args); err != nil {
		return ExitUsage
	}

	if format == "" || input == "" {
		fmt.Fprintf(os.Stderr, "Error: --format and --input are required\n\n")
		fs.Usage()
		return ExitUsage
	}

	f, err := sigdb.ParseFormat(format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		fmt.Fprintf(os.Stderr, "Hint: Supported formats are msigdb and genesigdb\n")
		return ExitUsage
	}

	store, err := duckdb.Open(resolveStorePath(storePath))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitError
	}
	defer store.Close()

	im := sigdb.NewImporter(store)

	// GeneSigDB lists gene symbols, so resolving them to Entrez IDs needs a
	// stored annotation table. MSigDB already carries Entrez IDs.
	if f == sigdb.FormatGeneSigDB {
		version := resolveAnnotVersion(annotVersion)
		if version == "" {
			fmt.Fprintf(os.Stderr, "Error: genesigdb import needs an annotation version for symbol resolution\n")
			fmt.Fprintf(os.Stderr, "Hint: Pass --annot-version or set it with: sigscore config set annot.version <v>\n")
			return ExitUsage
		}
		table, err := store.LoadAnnotation(version)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			if errors.Is(err, duckdb.ErrVersionNotFound) {
				fmt.Fprintf(os.Stderr, "Hint: Build the table first with: sigscore annot build --input <file> --version %s\n", version)
			}
			return ExitError
		}
		im.SetAnnotation(table)
	}

	if verbose {
		logger, err := zap.NewDevelopment()
		if err == nil {
			defer logger.Sync()
			im.SetLogger(logger)
		}
	}

	stats, err := im.ImportFile(input, f)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitError
	}

	fmt.Printf("Imported %d signatures from %s (%d discarded)\n", stats.Imported, input, stats.Discarded)
	if listDiscarded && len(stats.DiscardedIDs) > 0 {
		fmt.Println("Discarded entries:")
		for _, id := range stats.DiscardedIDs {
			fmt.Printf("  %s\n", id)
		}
	}
	return ExitSuccess
}
