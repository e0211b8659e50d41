package duckdb

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"os"
	"time"

	goduckdb "github.com/marcboeker/go-duckdb"

	"github.com/sigtools/sigscore/internal/annot"
)

// Annotation tables are stored under "annot_" + version. The original tool
// wrote this spelling but read "annot-" + version; the underscore is the
// canonical convention here and the hyphen is still accepted on load so
// stores written by the old tool keep working.
const (
	annotKeyPrefix       = "annot_"
	legacyAnnotKeyPrefix = "annot-"
)

// ErrVersionNotFound is returned when no annotation table is stored under a
// version, in either key spelling.
var ErrVersionNotFound = errors.New("annotation version not found in store")

// AnnotKey returns the canonical store key for an annotation version.
func AnnotKey(version string) string {
	return annotKeyPrefix + version
}

// FileFingerprint holds stat-based identity for an imported source file.
type FileFingerprint struct {
	Path string
	Size int64
}

// StatFile creates a FileFingerprint from an on-disk file.
func StatFile(path string) (FileFingerprint, error) {
	info, err := os.Stat(path)
	if err != nil {
		return FileFingerprint{}, err
	}
	return FileFingerprint{Path: path, Size: info.Size()}, nil
}

// AnnotationInfo describes one stored annotation table.
type AnnotationInfo struct {
	Version    string
	RowCount   int64
	SourcePath string
	SourceSize int64
	CreatedAt  time.Time
}

// SaveAnnotation writes an annotation table under its version key,
// replacing any previous table stored for that version. Rows are written
// with the Appender and keep their source order through the seq column.
// The source fingerprint records provenance; a zero value is allowed.
func (s *Store) SaveAnnotation(t *annot.Table, src FileFingerprint) error {
	key := AnnotKey(t.Version())

	if _, err := s.db.Exec(`DELETE FROM annot_rows WHERE key=?`, key); err != nil {
		return fmt.Errorf("clear annotation rows: %w", err)
	}
	if _, err := s.db.Exec(`DELETE FROM annot_tables WHERE key=?`, key); err != nil {
		return fmt.Errorf("clear annotation meta: %w", err)
	}

	_, err := s.db.Exec(
		`INSERT INTO annot_tables (key, version, row_count, source_path, source_size, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		key, t.Version(), int64(t.Len()), src.Path, src.Size, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("insert annotation meta: %w", err)
	}

	conn, err := s.db.Conn(context.Background())
	if err != nil {
		return fmt.Errorf("get connection: %w", err)
	}
	defer conn.Close()

	var appender *goduckdb.Appender
	if err := conn.Raw(func(driverConn any) error {
		var err error
		appender, err = goduckdb.NewAppenderFromConn(driverConn.(driver.Conn), "", "annot_rows")
		return err
	}); err != nil {
		return fmt.Errorf("create appender: %w", err)
	}
	defer appender.Close()

	for i, rec := range t.Records() {
		if err := appender.AppendRow(
			key, int64(i),
			rec.EntrezID, rec.Symbol, rec.SymbolAlt,
			rec.ChrPos, rec.Synonyms, rec.Title,
		); err != nil {
			return fmt.Errorf("append annotation row: %w", err)
		}
	}

	return appender.Flush()
}

// LoadAnnotation reads an annotation table back by version, trying the
// canonical key first and the legacy hyphen spelling second. The reverse
// symbol index is rebuilt from the stored rows.
func (s *Store) LoadAnnotation(version string) (*annot.Table, error) {
	for _, key := range []string{annotKeyPrefix + version, legacyAnnotKeyPrefix + version} {
		var rowCount int64
		err := s.db.QueryRow(`SELECT row_count FROM annot_tables WHERE key=?`, key).Scan(&rowCount)
		if errors.Is(err, sql.ErrNoRows) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("query annotation meta: %w", err)
		}
		return s.loadAnnotRows(key, version, rowCount)
	}
	return nil, fmt.Errorf("version %q: %w", version, ErrVersionNotFound)
}

// loadAnnotRows reads the row set for a key in stored order.
func (s *Store) loadAnnotRows(key, version string, rowCount int64) (*annot.Table, error) {
	rows, err := s.db.Query(
		`SELECT entrez_id, symbol, symbol_alt, chr_pos, synonyms, title
		FROM annot_rows WHERE key=? ORDER BY seq`, key)
	if err != nil {
		return nil, fmt.Errorf("query annotation rows: %w", err)
	}
	defer rows.Close()

	recs := make([]annot.Record, 0, rowCount)
	for rows.Next() {
		var rec annot.Record
		if err := rows.Scan(
			&rec.EntrezID, &rec.Symbol, &rec.SymbolAlt,
			&rec.ChrPos, &rec.Synonyms, &rec.Title,
		); err != nil {
			return nil, fmt.Errorf("scan annotation row: %w", err)
		}
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate annotation rows: %w", err)
	}

	return annot.FromRecords(recs, version), nil
}

// AnnotationMeta returns the stored metadata for one version, trying the
// canonical key then the legacy spelling. Callers use it to skip rebuilds
// when the source file is unchanged.
func (s *Store) AnnotationMeta(version string) (AnnotationInfo, error) {
	for _, key := range []string{annotKeyPrefix + version, legacyAnnotKeyPrefix + version} {
		var info AnnotationInfo
		err := s.db.QueryRow(
			`SELECT version, row_count, source_path, source_size, created_at
			FROM annot_tables WHERE key=?`, key).
			Scan(&info.Version, &info.RowCount, &info.SourcePath, &info.SourceSize, &info.CreatedAt)
		if errors.Is(err, sql.ErrNoRows) {
			continue
		}
		if err != nil {
			return AnnotationInfo{}, fmt.Errorf("query annotation meta: %w", err)
		}
		return info, nil
	}
	return AnnotationInfo{}, fmt.Errorf("version %q: %w", version, ErrVersionNotFound)
}

// Versions lists the stored annotation tables, newest first.
func (s *Store) Versions() ([]AnnotationInfo, error) {
	rows, err := s.db.Query(
		`SELECT version, row_count, source_path, created_at
		FROM annot_tables ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("query annotation versions: %w", err)
	}
	defer rows.Close()

	var infos []AnnotationInfo
	for rows.Next() {
		var info AnnotationInfo
		if err := rows.Scan(&info.Version, &info.RowCount, &info.SourcePath, &info.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan annotation version: %w", err)
		}
		infos = append(infos, info)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate annotation versions: %w", err)
	}
	return infos, nil
}
