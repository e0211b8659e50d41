package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/sigtools/sigscore/internal/duckdb"
	"github.com/sigtools/sigscore/internal/expr"
	"github.com/sigtools/sigscore/internal/output"
	"github.com/sigtools/sigscore/internal/score"
)

func runScore(args []string) int {
	fs := flag.NewFlagSet("score", flag.ExitOnError)

	var (
		sigKey       string
		exprPath     string
		weighted     bool
		binarize     bool
		mapSymbols   bool
		annotVersion string
		outputFile   string
		storePath    string
	)

	fs.StringVar(&sigKey, "sig", "", "Key of the stored signature to score with")
	fs.StringVar(&exprPath, "expr", "", "Expression matrix TSV, samples by genes (.gz accepted)")
	fs.BoolVar(&weighted, "weighted", false, "Use the signature weights instead of a plain mean")
	fs.BoolVar(&binarize, "binarize", false, "Add a call column from the score and the signature bias")
	fs.BoolVar(&mapSymbols, "map-symbols", false, "Map Entrez signature genes onto symbol expression columns")
	fs.StringVar(&annotVersion, "annot-version", "", "Annotation version for --map-symbols (default: config annot.version)")
	fs.StringVar(&outputFile, "o", "", "Output file (default: stdout)")
	fs.StringVar(&outputFile, "output", "", "Output file (default: stdout)")
	fs.StringVar(&storePath, "store", "", "Store path (default: config store.path or ~/.sigscore/sigscore.duckdb)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Score every sample of an expression matrix against a stored signature.

Usage:
  sigscore score [options]

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  sigscore score --sig GS_18297132 --expr expression.tsv
  sigscore score --sig C2_M1848 --expr expression.tsv --map-symbols --weighted
  sigscore score --sig GS_18297132 --expr expression.tsv --binarize -o scores.tsv
`)
	}

	if err := fs.Parse(args); err != nil {
		return ExitUsage
	}

	if sigKey == "" || exprPath == "" {
		fmt.Fprintf(os.Stderr, "Error: --sig and --expr are required\n\n")
		fs.Usage()
		return ExitUsage
	}

	store, err := duckdb.Open(resolveStorePath(storePath))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitError
	}
	defer store.Close()

	s, err := store.LoadSignature(sigKey)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if errors.Is(err, duckdb.ErrSignatureNotFound) {
			fmt.Fprintf(os.Stderr, "Hint: List stored keys with: sigscore sigs list\n")
		}
		return ExitError
	}

	if mapSymbols {
		version := resolveAnnotVersion(annotVersion)
		if version == "" {
			fmt.Fprintf(os.Stderr, "Error: --map-symbols needs an annotation version\n")
			fmt.Fprintf(os.Stderr, "Hint: Pass --annot-version or set it with: sigscore config set annot.version <v>\n")
			return ExitUsage
		}
		table, err := store.LoadAnnotation(version)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			if errors.Is(err, duckdb.ErrVersionNotFound) {
				fmt.Fprintf(os.Stderr, "Hint: Build the table with: sigscore annot build --input <file> --version %s\n", version)
			}
			return ExitError
		}
		if unmapped := s.Remap(table.IDToGeneMap()); len(unmapped) > 0 {
			fmt.Fprintf(os.Stderr, "Warning: %d signature genes have no symbol mapping and keep their IDs\n", len(unmapped))
		}
	}

	frame, err := expr.ReadTSV(exprPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if errors.Is(err, os.ErrNotExist) {
			fmt.Fprintf(os.Stderr, "Hint: Check that the file path is correct\n")
		}
		return ExitError
	}

	scores, err := score.AverageFrame(s, frame, weighted)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if errors.Is(err, expr.ErrLabelNotFound) {
			fmt.Fprintf(os.Stderr, "Hint: The signature and the matrix may use different gene identifiers; try --map-symbols\n")
		}
		return ExitError
	}

	var out *os.File
	if outputFile == "" {
		out = os.Stdout
	} else {
		out, err = os.Create(outputFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating output file: %v\n", err)
			return ExitError
		}
		defer out.Close()
	}

	w := output.NewScoreWriter(out, binarize)
	if err := w.WriteHeader(); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing header: %v\n", err)
		return ExitError
	}

	samples := scores.Labels()
	values := scores.Values()
	for i, sample := range samples {
		row := output.Row{Sample: sample, Score: values[i]}
		if binarize {
			row.Call = score.Call(s, values[i])
		}
		if err := w.Write(row); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing scores: %v\n", err)
			return ExitError
		}
	}
	if err := w.Flush(); err != nil {
		fmt.Fprintf(os.Stderr, "Error flushing output: %v\n", err)
		return ExitError
	}

	return ExitSuccess
}
