package duckdb

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"sort"
	"time"

	goduckdb "github.com/marcboeker/go-duckdb"

	"github.com/sigtools/sigscore/internal/sig"
)

// ErrSignatureNotFound is returned when no signature is stored under a key.
var ErrSignatureNotFound = errors.New("signature not found in store")

// SaveSignatures writes a signature collection under a source tag
// (e.g. "msigdb"), replacing any previous signature stored under the same
// key. Gene rows keep record order through the seq column.
func (s *Store) SaveSignatures(source string, sigs map[string]*sig.Signature) error {
	if len(sigs) == 0 {
		return nil
	}

	keys := make([]string, 0, len(sigs))
	for key := range sigs {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	now := time.Now().UTC()
	for _, key := range keys {
		if _, err := s.db.Exec(`DELETE FROM sig_genes WHERE key=?`, key); err != nil {
			return fmt.Errorf("clear signature genes: %w", err)
		}
		if _, err := s.db.Exec(`DELETE FROM sig_sets WHERE key=?`, key); err != nil {
			return fmt.Errorf("clear signature meta: %w", err)
		}
		sg := sigs[key]
		_, err := s.db.Exec(
			`INSERT INTO sig_sets (key, source, bias, info, gene_count, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
			key, source, sg.Bias(), sg.Info(), int64(sg.Len()), now,
		)
		if err != nil {
			return fmt.Errorf("insert signature meta: %w", err)
		}
	}

	conn, err := s.db.Conn(context.Background())
	if err != nil {
		return fmt.Errorf("get connection: %w", err)
	}
	defer conn.Close()

	var appender *goduckdb.Appender
	if err := conn.Raw(func(driverConn any) error {
		var err error
		appender, err = goduckdb.NewAppenderFromConn(driverConn.(driver.Conn), "", "sig_genes")
		return err
	}); err != nil {
		return fmt.Errorf("create appender: %w", err)
	}
	defer appender.Close()

	for _, key := range keys {
		sg := sigs[key]
		genes := sg.Genes()
		weights := sg.Weights()
		for i, gene := range genes {
			if err := appender.AppendRow(key, int64(i), gene, weights[i]); err != nil {
				return fmt.Errorf("append signature gene: %w", err)
			}
		}
	}

	return appender.Flush()
}

// LoadSignature reads one signature back by key, rebuilding genes and
// weights in stored order.
func (s *Store) LoadSignature(key string) (*sig.Signature, error) {
	var bias float64
	var info string
	err := s.db.QueryRow(`SELECT bias, info FROM sig_sets WHERE key=?`, key).Scan(&bias, &info)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("key %q: %w", key, ErrSignatureNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("query signature meta: %w", err)
	}

	rows, err := s.db.Query(`SELECT gene, weight FROM sig_genes WHERE key=? ORDER BY seq`, key)
	if err != nil {
		return nil, fmt.Errorf("query signature genes: %w", err)
	}
	defer rows.Close()

	var genes []string
	var weights []float64
	for rows.Next() {
		var gene string
		var weight float64
		if err := rows.Scan(&gene, &weight); err != nil {
			return nil, fmt.Errorf("scan signature gene: %w", err)
		}
		genes = append(genes, gene)
		weights = append(weights, weight)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate signature genes: %w", err)
	}

	loaded, err := sig.NewWeighted(genes, weights, bias, info)
	if err != nil {
		return nil, fmt.Errorf("rebuild signature %q: %w", key, err)
	}
	return loaded, nil
}

// SignatureKeys lists stored signature keys for a source tag, sorted.
// An empty source lists every stored signature.
func (s *Store) SignatureKeys(source string) ([]string, error) {
	query := `SELECT key FROM sig_sets ORDER BY key`
	args := []any{}
	if source != "" {
		query = `SELECT key FROM sig_sets WHERE source=? ORDER BY key`
		args = append(args, source)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query signature keys: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("scan signature key: %w", err)
		}
		keys = append(keys, key)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate signature keys: %w", err)
	}
	return keys, nil
}
