package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sigtools/sigscore/internal/annot"
	"github.com/sigtools/sigscore/internal/duckdb"
)

func runAnnot(args []string) int {
	if len(args) < 1 {
		printAnnotUsage()
		return ExitUsage
	}

	switch args[0] {
	case "build":
		return runAnnotBuild(args[1:])
	case "info":
		return runAnnotInfo(args[1:])
	case "list":
		return runAnnotList(args[1:])
	case "help":
		printAnnotUsage()
		return ExitSuccess
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown annot command %q\n\n", args[0])
		printAnnotUsage()
		return ExitUsage
	}
}

func printAnnotUsage() {
	fmt.Fprintf(os.Stderr, `Build and inspect gene annotation tables.

Usage:
  sigscore annot <command> [options]

Commands:
  build       Parse an annotation source file and store it under a version
  info        Show the stored record for one gene
  list        List stored annotation versions

Examples:
  sigscore annot build --input Homo_sapiens.gene_info.gz --version 2026a
  sigscore annot info --symbol BRCA1 --version 2026a
  sigscore annot list
`)
}

func runAnnotBuild(args []string) int {
	fs := flag.NewFlagSet("annot build", flag.ExitOnError)

	var (
		input     string
		version   string
		format    string
		storePath string
		force     bool
	)

	fs.StringVar(&input, "input", "", "Annotation source file (.gz accepted)")
	fs.StringVar(&version, "version", "", "Version label to store the table under")
	fs.StringVar(&format, "format", "", "Input format: table, geneinfo (auto-detected if not specified)")
	fs.StringVar(&storePath, "store", "", "Store path (default: config store.path or ~/.sigscore/sigscore.duckdb)")
	fs.BoolVar(&force, "force", false, "Rebuild even if the stored table already matches the input file")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Parse an annotation source file and store it under a version.

Usage:
  sigscore annot build [options]

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  sigscore annot build --input Homo_sapiens.gene_info.gz --version 2026a
  sigscore annot build --input annot.tsv --version 2011b --format table
`)
	}

	if err := fs.Parse(args); err != nil {
		return ExitUsage
	}

	if input == "" || version == "" {
		fmt.Fprintf(os.Stderr, "Error: --input and --version are required\n\n")
		fs.Usage()
		return ExitUsage
	}

	// The stored fingerprint compares paths, so record them absolute.
	if abs, err := filepath.Abs(input); err == nil {
		input = abs
	}

	src, err := duckdb.StatFile(input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if os.IsNotExist(err) {
			fmt.Fprintf(os.Stderr, "Hint: Check that the file path is correct\n")
		}
		return ExitError
	}

	store, err := duckdb.Open(resolveStorePath(storePath))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitError
	}
	defer store.Close()

	if !force {
		if meta, err := store.AnnotationMeta(version); err == nil &&
			meta.SourcePath == src.Path && meta.SourceSize == src.Size {
			fmt.Printf("Annotation table %q is up to date (%d genes), skipping\n", version, meta.RowCount)
			fmt.Printf("Use --force to rebuild\n")
			return ExitSuccess
		}
	}

	detected := format
	if detected == "" {
		detected = detectAnnotFormat(input)
	}

	var table *annot.Table
	switch detected {
	case "geneinfo":
		table, err = annot.ReadGeneInfo(input, version)
	case "table":
		table, err = annot.ReadTable(input, version)
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown annotation format %q\n", detected)
		fmt.Fprintf(os.Stderr, "Hint: Use --format to specify table or geneinfo\n")
		return ExitError
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if format == "" {
			fmt.Fprintf(os.Stderr, "Hint: Use --format to override the detected input format (%s)\n", detected)
		}
		return ExitError
	}

	if err := store.SaveAnnotation(table, src); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitError
	}

	fmt.Printf("Stored annotation table %q: %d genes\n", version, table.Len())
	return ExitSuccess
}

func runAnnotInfo(args []string) int {
	fs := flag.NewFlagSet("annot info", flag.ExitOnError)

	var (
		id        string
		symbol    string
		version   string
		storePath string
	)

	fs.StringVar(&id, "id", "", "Entrez gene ID to look up")
	fs.StringVar(&symbol, "symbol", "", "Gene symbol to look up")
	fs.StringVar(&version, "version", "", "Annotation version (default: config annot.version)")
	fs.StringVar(&storePath, "store", "", "Store path (default: config store.path or ~/.sigscore/sigscore.duckdb)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Show the stored record for one gene.

Usage:
  sigscore annot info [options]

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  sigscore annot info --symbol BRCA1 --version 2026a
  sigscore annot info --id 672
`)
	}

	if err := fs.Parse(args); err != nil {
		return ExitUsage
	}

	if (id == "") == (symbol == "") {
		fmt.Fprintf(os.Stderr, "Error: exactly one of --id or --symbol is required\n\n")
		fs.Usage()
		return ExitUsage
	}

	version = resolveAnnotVersion(version)
	if version == "" {
		fmt.Fprintf(os.Stderr, "Error: no annotation version given\n")
		fmt.Fprintf(os.Stderr, "Hint: Pass --version or set it with: sigscore config set annot.version <v>\n")
		return ExitUsage
	}

	store, err := duckdb.Open(resolveStorePath(storePath))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitError
	}
	defer store.Close()

	table, err := store.LoadAnnotation(version)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if errors.Is(err, duckdb.ErrVersionNotFound) {
			fmt.Fprintf(os.Stderr, "Hint: Build the table with: sigscore annot build --input <file> --version %s\n", version)
		}
		return ExitError
	}

	var rec annot.Record
	if id != "" {
		rec, err = table.InfoByID(id)
	} else {
		rec, err = table.InfoBySymbol(symbol)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitError
	}

	printRecord(rec)
	return ExitSuccess
}

// printRecord writes one annotation record as key/value lines, skipping
// fields the source left empty.
func printRecord(rec annot.Record) {
	fmt.Printf("entrez_id\t%s\n", rec.EntrezID)
	fmt.Printf("symbol\t%s\n", rec.Symbol)
	if rec.SymbolAlt != "" {
		fmt.Printf("symbol_alt\t%s\n", rec.SymbolAlt)
	}
	if rec.ChrPos != "" {
		fmt.Printf("chr_pos\t%s\n", rec.ChrPos)
	}
	if syn := rec.SynonymList(); len(syn) > 0 {
		fmt.Printf("synonyms\t%s\n", strings.Join(syn, "|"))
	}
	if rec.Title != "" {
		fmt.Printf("title\t%s\n", rec.Title)
	}
}

func runAnnotList(args []string) int {
	fs := flag.NewFlagSet("annot list", flag.ExitOnError)

	var storePath string
	fs.StringVar(&storePath, "store", "", "Store path (default: config store.path or ~/.sigscore/sigscore.duckdb)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `List stored annotation versions, newest first.

Usage:
  sigscore annot list [options]

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

	infos, err := store.Versions()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitError
	}

	if len(infos) == 0 {
		fmt.Println("No annotation tables stored")
		return ExitSuccess
	}

	for _, info := range infos {
		fmt.Printf("%s\t%d genes\t%s\t%s\n", info.Version, info.RowCount,
			info.CreatedAt.Format("2006-01-02 15:04"), info.SourcePath)
	}
	return ExitSuccess
}

// detectAnnotFormat detects the annotation source format from the file name
// or content.
func detectAnnotFormat(path string) string {
	lowerPath := strings.ToLower(path)

	// Handle gzipped files
	if strings.HasSuffix(lowerPath, ".gz") {
		lowerPath = lowerPath[:len(lowerPath)-3]
	}

	if strings.Contains(filepath.Base(lowerPath), "gene_info") {
		return "geneinfo"
	}

	// Peek at plain files for the gene_info header line.
	file, err := os.Open(path)
	if err != nil {
		return "table"
	}
	defer file.Close()

	buf := make([]byte, 512)
	n, err := file.Read(buf)
	if err != nil || n == 0 {
		return "table"
	}
	if strings.HasPrefix(string(buf[:n]), "#tax_id") {
		return "geneinfo"
	}

	return "table"
}
