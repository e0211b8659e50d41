// Package main provides the sigscore command-line tool.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Exit codes
const (
	ExitSuccess = 0
	ExitError   = 1
	ExitUsage   = 2
)

// Version information (set at build time)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Global flags
	var showVersion bool
	flag.BoolVar(&showVersion, "version", false, "Show version information")

	// Parse global flags first
	flag.Parse()

	if showVersion {
		fmt.Printf("sigscore version %s (%s) built %s\n", version, commit, date)
		return ExitSuccess
	}

	initConfig()

	// Check for subcommand
	args := flag.Args()
	if len(args) < 1 {
		printUsage()
		return ExitUsage
	}

	switch args[0] {
	case "annot":
		return runAnnot(args[1:])
	case "import":
		return runImport(args[1:])
	case "sigs":
		return runSigs(args[1:])
	case "score":
		return runScore(args[1:])
	case "download":
		return runDownload(args[1:])
	case "config":
		return runConfig(args[1:])
	case "help":
		printUsage()
		return ExitSuccess
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown command %q\n\n", args[0])
		printUsage()
		return ExitUsage
	}
}

// initConfig loads ~/.sigscore.yaml when present. Flags always take
// precedence over config file values.
func initConfig() {
	home, err := os.UserHomeDir()
	if err != nil {
		return
	}
	viper.SetConfigName(".sigscore")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(home)
	// A missing config file is fine; flags and defaults cover everything.
	_ = viper.ReadInConfig()
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `sigscore - Gene signature scoring

Usage:
  sigscore [options] <command> [arguments]

Commands:
  annot       Build and inspect gene annotation tables
  import      Import a signature database (MSigDB or GeneSigDB)
  sigs        List and inspect imported signatures
  score       Score an expression matrix against a signature
  download    Download the NCBI gene annotation source file
  config      Manage sigscore configuration
  help        Show this help message

Global Options:
  --version   Show version information

Examples:
  # Download the NCBI gene_info source (one-time setup)
  sigscore download

  # Build an annotation table from it
  sigscore annot build --input ~/.sigscore/Homo_sapiens.gene_info.gz --version 2026a

  # Import MSigDB signatures
  sigscore import --format msigdb --input msigdb_v7.xml

  # Score an expression matrix
  sigscore score --sig GS_18297132 --expr expression.tsv

For more information on a command, use:
  sigscore <command> --help
`)
}

// resolveStorePath picks the store location: the flag when set, then the
// store.path config key, then ~/.sigscore/sigscore.duckdb.
func resolveStorePath(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if p := viper.GetString("store.path"); p != "" {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "sigscore.duckdb"
	}
	return filepath.Join(home, ".sigscore", "sigscore.duckdb")
}

// resolveAnnotVersion picks the annotation version: the flag when set, then
// the annot.version config key. Empty means no version is configured.
func resolveAnnotVersion(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	return viper.GetString("annot.version")
}
