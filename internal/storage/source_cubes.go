package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"cubeforge/internal/cube"
)

// SaveSourceCube stores a fetched source cube, replacing any previous
// snapshot of the same cube id.
func (db *DB) SaveSourceCube(ctx context.Context, src *cube.SourceCube) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM source_cube_cards WHERE cube_id = ?`, src.ID); err != nil {
		return fmt.Errorf("failed to clear previous cards of %s: %w", src.ID, err)
	}
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM source_cubes WHERE id = ?`, src.ID); err != nil {
		return fmt.Errorf("failed to clear previous snapshot of %s: %w", src.ID, err)
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO source_cubes (id, category, last_modified, fetched_at) VALUES (?, ?, ?, ?)`,
		src.ID, src.Category, src.LastModified.UTC(), time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to insert source cube %s: %w", src.ID, err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO source_cube_cards (cube_id, position, card_name) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare card insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for i, name := range src.Cards {
		if _, err := stmt.ExecContext(ctx, src.ID, i, name); err != nil {
			return fmt.Errorf("failed to insert card %q of %s: %w", name, src.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit source cube %s: %w", src.ID, err)
	}
	return nil
}

// GetSourceCubes loads the stored source cubes with the given ids, in
// the order requested. Ids without a stored snapshot are skipped; the
// caller decides whether a missing source is fatal.
func (db *DB) GetSourceCubes(ctx context.Context, ids []string) ([]cube.SourceCube, error) {
	sources := make([]cube.SourceCube, 0, len(ids))
	for _, id := range ids {
		src, err := db.getSourceCube(ctx, id)
		if err != nil {
			return nil, err
		}
		if src != nil {
			sources = append(sources, *src)
		}
	}
	return sources, nil
}

func (db *DB) getSourceCube(ctx context.Context, id string) (*cube.SourceCube, error) {
	src := cube.SourceCube{ID: id}
	err := db.conn.QueryRowContext(ctx,
		`SELECT category, last_modified FROM source_cubes WHERE id = ?`, id).
		Scan(&src.Category, &src.LastModified)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query source cube %s: %w", id, err)
	}

	rows, err := db.conn.QueryContext(ctx,
		`SELECT card_name FROM source_cube_cards WHERE cube_id = ? ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query cards of %s: %w", id, err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan card of %s: %w", id, err)
		}
		src.Cards = append(src.Cards, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate cards of %s: %w", id, err)
	}

	return &src, nil
}

// ListSourceCubeIDs returns the ids of all stored source cubes.
func (db *DB) ListSourceCubeIDs(ctx context.Context) ([]string, error) {
	rows, err := db.conn.QueryContext(ctx, `SELECT id FROM source_cubes ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list source cubes: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan source cube id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate source cube ids: %w", err)
	}
	return ids, nil
}
