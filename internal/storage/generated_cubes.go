package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"cubeforge/internal/cube"
)

// ErrCubeExists is returned when saving a generated cube whose name is
// already taken and overwrite was not requested.
var ErrCubeExists = errors.New("generated cube already exists")

// SaveGeneratedCube persists a generated cube artifact with its
// per-card provenance. An existing artifact with the same name is only
// replaced when overwrite is true; otherwise the save fails with
// ErrCubeExists and the stored artifact is untouched.
func (db *DB) SaveGeneratedCube(ctx context.Context, gc *cube.GeneratedCube, overwrite bool) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var existing int
	if err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM generated_cubes WHERE name = ?`, gc.Name).Scan(&existing); err != nil {
		return fmt.Errorf("failed to check for existing cube %q: %w", gc.Name, err)
	}
	if existing > 0 {
		if !overwrite {
			return fmt.Errorf("%w: %q", ErrCubeExists, gc.Name)
		}
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM generated_cube_cards WHERE cube_name = ?`, gc.Name); err != nil {
			return fmt.Errorf("failed to delete cards of existing cube %q: %w", gc.Name, err)
		}
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM generated_cubes WHERE name = ?`, gc.Name); err != nil {
			return fmt.Errorf("failed to delete existing cube %q: %w", gc.Name, err)
		}
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO generated_cubes (name, category, seed, card_count, generated_at) VALUES (?, ?, ?, ?, ?)`,
		gc.Name, string(gc.Category), gc.Seed, len(gc.Cards), gc.GeneratedAt.UTC()); err != nil {
		return fmt.Errorf("failed to insert generated cube %q: %w", gc.Name, err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO generated_cube_cards
		 (cube_name, card_name, printing, weight, source_count, sources, last_seen)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare card insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, id := range gc.Cards {
		stat := gc.Provenance[id]
		if stat == nil {
			return fmt.Errorf("generated cube %q has no provenance for %s", gc.Name, id)
		}
		if _, err := stmt.ExecContext(ctx,
			gc.Name, id.Name, id.Printing,
			stat.Weight, stat.SourceCount, strings.Join(stat.Sources, ","),
			stat.LastSeen.UTC()); err != nil {
			return fmt.Errorf("failed to insert card %s of %q: %w", id, gc.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit generated cube %q: %w", gc.Name, err)
	}
	return nil
}

// GetGeneratedCube loads a stored generated cube artifact by name.
// Returns nil without error if no cube with that name exists.
func (db *DB) GetGeneratedCube(ctx context.Context, name string) (*cube.GeneratedCube, error) {
	gc := &cube.GeneratedCube{Name: name, Provenance: make(map[cube.CardIdentity]*cube.AggregatedCardStat)}

	var category string
	err := db.conn.QueryRowContext(ctx,
		`SELECT category, seed, generated_at FROM generated_cubes WHERE name = ?`, name).
		Scan(&category, &gc.Seed, &gc.GeneratedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query generated cube %q: %w", name, err)
	}
	gc.Category = cube.Category(category)

	rows, err := db.conn.QueryContext(ctx,
		`SELECT card_name, printing, weight, source_count, sources, last_seen
		 FROM generated_cube_cards WHERE cube_name = ? ORDER BY card_name, printing`, name)
	if err != nil {
		return nil, fmt.Errorf("failed to query cards of %q: %w", name, err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var id cube.CardIdentity
		stat := &cube.AggregatedCardStat{}
		var sources string
		if err := rows.Scan(&id.Name, &id.Printing, &stat.Weight, &stat.SourceCount, &sources, &stat.LastSeen); err != nil {
			return nil, fmt.Errorf("failed to scan card of %q: %w", name, err)
		}
		stat.Identity = id
		if sources != "" {
			stat.Sources = strings.Split(sources, ",")
		}
		gc.Cards = append(gc.Cards, id)
		gc.Provenance[id] = stat
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate cards of %q: %w", name, err)
	}

	return gc, nil
}
