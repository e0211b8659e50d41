// Package sigdb imports signature databases into the store.
package sigdb

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/sigtools/sigscore/internal/annot"
	"github.com/sigtools/sigscore/internal/duckdb"
	"github.com/sigtools/sigscore/internal/sig"
	"github.com/sigtools/sigscore/internal/sigdb/genesigdb"
	"github.com/sigtools/sigscore/internal/sigdb/msigdb"
)

// Format identifies a supported signature database format.
type Format string

const (
	FormatMSigDB    Format = "msigdb"
	FormatGeneSigDB Format = "genesigdb"
)

// ParseFormat maps a user-supplied format name onto a Format.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatMSigDB, FormatGeneSigDB:
		return f, nil
	}
	return "", fmt.Errorf("unknown signature database format %q", s)
}

// Stats summarizes one import run. DiscardedIDs keeps source order.
type Stats struct {
	Imported     int
	Discarded    int
	DiscardedIDs []string
}

// Importer loads signature database files and persists the accepted
// signatures under the format's source tag.
type Importer struct {
	store  *duckdb.Store
	table  *annot.Table
	logger *zap.Logger
}

// NewImporter creates an importer writing to the given store.
func NewImporter(store *duckdb.Store) *Importer {
	return &Importer{
		store:  store,
		logger: zap.NewNop(),
	}
}

// SetAnnotation supplies the annotation table used to resolve gene symbols.
// Required for the genesigdb format.
func (im *Importer) SetAnnotation(t *annot.Table) {
	im.table = t
}

// SetLogger sets the logger for discard warnings and the import summary.
func (im *Importer) SetLogger(l *zap.Logger) {
	im.logger = l
}

// ImportFile loads one database file, persists the accepted signatures and
// reports counts. Discarded entries are warnings, never errors; only an
// unreadable or unparsable file fails the import.
func (im *Importer) ImportFile(path string, format Format) (Stats, error) {
	var db map[string]*sig.Signature
	var discarded []string
	var err error

	switch format {
	case FormatMSigDB:
		db, discarded, err = msigdb.Load(path)
	case FormatGeneSigDB:
		if im.table == nil {
			return Stats{}, fmt.Errorf("genesigdb import needs an annotation table for symbol resolution")
		}
		db, discarded, err = genesigdb.Load(path, im.table)
	default:
		return Stats{}, fmt.Errorf("unknown signature database format %q", format)
	}
	if err != nil {
		return Stats{}, fmt.Errorf("load %s: %w", format, err)
	}

	for _, id := range discarded {
		im.logger.Warn("discarded signature",
			zap.String("id", id),
			zap.String("format", string(format)))
	}

	if err := im.store.SaveSignatures(string(format), db); err != nil {
		return Stats{}, fmt.Errorf("save signatures: %w", err)
	}

	im.logger.Info("signature database imported",
		zap.String("path", path),
		zap.String("format", string(format)),
		zap.Int("imported", len(db)),
		zap.Int("discarded", len(discarded)))

	return Stats{
		Imported:     len(db),
		Discarded:    len(discarded),
		DiscardedIDs: discarded,
	}, nil
}
