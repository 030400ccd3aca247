package storage

import (
	"context"
	"fmt"
	"strings"

	"cubeforge/internal/cube"
)

// ReplaceCatalog swaps the stored catalog snapshot for the given set of
// card records. The replacement is atomic: readers see either the old
// snapshot or the new one, never a mix.
func (db *DB) ReplaceCatalog(ctx context.Context, records []cube.CardRecord) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM catalog_cards`); err != nil {
		return fmt.Errorf("failed to clear catalog: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO catalog_cards (name, printing, display_name, tags) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare catalog insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, rec := range records {
		tags := make([]string, len(rec.Tags))
		for i, tag := range rec.Tags {
			tags[i] = string(tag)
		}
		if _, err := stmt.ExecContext(ctx,
			rec.Identity.Name, rec.Identity.Printing, rec.DisplayName,
			strings.Join(tags, ",")); err != nil {
			return fmt.Errorf("failed to insert catalog card %s: %w", rec.Identity, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit catalog: %w", err)
	}
	return nil
}

// LoadCatalog returns all stored catalog card records.
func (db *DB) LoadCatalog(ctx context.Context) ([]cube.CardRecord, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT name, printing, display_name, tags FROM catalog_cards ORDER BY name, printing`)
	if err != nil {
		return nil, fmt.Errorf("failed to query catalog: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []cube.CardRecord
	for rows.Next() {
		var rec cube.CardRecord
		var tags string
		if err := rows.Scan(&rec.Identity.Name, &rec.Identity.Printing, &rec.DisplayName, &tags); err != nil {
			return nil, fmt.Errorf("failed to scan catalog card: %w", err)
		}
		if tags != "" {
			for _, tag := range strings.Split(tags, ",") {
				rec.Tags = append(rec.Tags, cube.Tag(tag))
			}
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate catalog: %w", err)
	}

	return records, nil
}

// CatalogSize returns the number of stored catalog records.
func (db *DB) CatalogSize(ctx context.Context) (int, error) {
	var n int
	if err := db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM catalog_cards`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count catalog cards: %w", err)
	}
	return n, nil
}
