package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// Tolerate "duplicate column name" errors from ALTER TABLE
			// since the migration system re-runs all statements.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	if err := migrateBackfillMenuRoots(db); err != nil {
		return fmt.Errorf("backfilling menu root ids: %w", err)
	}
	if err := migrateBackfillDynamicPages(db); err != nil {
		return fmt.Errorf("backfilling dynamic page flags: %w", err)
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS sites (
		id            TEXT PRIMARY KEY,
		name          TEXT NOT NULL UNIQUE,
		host          TEXT NOT NULL DEFAULT 'localhost',
		relative_path TEXT NOT NULL DEFAULT '',
		enabled       INTEGER NOT NULL DEFAULT 1,
		is_default    INTEGER NOT NULL DEFAULT 0,
		created_at    TEXT NOT NULL,
		updated_at    TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS pages (
		id           TEXT PRIMARY KEY,
		site_id      TEXT NOT NULL REFERENCES sites(id) ON DELETE CASCADE,
		parent_id    TEXT REFERENCES pages(id) ON DELETE CASCADE,
		name         TEXT NOT NULL,
		url          TEXT NOT NULL,
		route_name   TEXT NOT NULL DEFAULT '',
		redirect_url TEXT NOT NULL DEFAULT '',
		enabled      INTEGER NOT NULL DEFAULT 1,
		show_in_menu INTEGER NOT NULL DEFAULT 1,
		position     INTEGER NOT NULL DEFAULT 0,
		created_at   TEXT NOT NULL,
		updated_at   TEXT NOT NULL,
		UNIQUE (site_id, url)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_pages_site ON pages(site_id)`,
	`CREATE INDEX IF NOT EXISTS idx_pages_parent ON pages(parent_id)`,
	`CREATE INDEX IF NOT EXISTS idx_pages_route ON pages(site_id, route_name) WHERE route_name != ''`,

	// root_id carries no foreign key: a root row references itself and is
	// written in the same statement that creates it.
	`CREATE TABLE IF NOT EXISTS menus (
		id           TEXT PRIMARY KEY,
		site_id      TEXT NOT NULL REFERENCES sites(id) ON DELETE CASCADE,
		root_id      TEXT NOT NULL DEFAULT '',
		parent_id    TEXT REFERENCES menus(id) ON DELETE CASCADE,
		name         TEXT NOT NULL,
		lvl          INTEGER NOT NULL DEFAULT 0 CHECK(lvl >= 0),
		lft          INTEGER NOT NULL,
		rgt          INTEGER NOT NULL,
		enabled      INTEGER NOT NULL DEFAULT 1,
		deletable    INTEGER NOT NULL DEFAULT 1,
		external_url TEXT NOT NULL DEFAULT '',
		page_id      TEXT REFERENCES pages(id) ON DELETE SET NULL,
		header       TEXT NOT NULL DEFAULT '',
		class        TEXT NOT NULL DEFAULT '',
		created_at   TEXT NOT NULL,
		updated_at   TEXT NOT NULL,
		CHECK(lft < rgt)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_menus_tree ON menus(root_id, lft)`,
	`CREATE INDEX IF NOT EXISTS idx_menus_parent ON menus(parent_id)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_menus_root_name ON menus(site_id, name) WHERE parent_id IS NULL`,

	// Per-item template override for renderers.
	`ALTER TABLE menus ADD COLUMN template TEXT NOT NULL DEFAULT ''`,

	// Pages whose URL carries a placeholder segment, e.g. /blog/{slug}.
	`ALTER TABLE pages ADD COLUMN is_dynamic INTEGER NOT NULL DEFAULT 0`,

	// At most one default site. Databases written before the index may
	// flag several; the oldest keeps the flag, as GetDefault already chose it.
	`UPDATE sites SET is_default = 0
		WHERE is_default = 1
		  AND id != (SELECT id FROM sites WHERE is_default = 1 ORDER BY created_at, name LIMIT 1)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_sites_single_default ON sites(is_default) WHERE is_default = 1`,
}

// migrateBackfillMenuRoots points legacy root rows (root_id = '') at
// themselves, then copies root ids down one level per pass.
// Idempotent: a database without empty root ids is left untouched.
func migrateBackfillMenuRoots(db *sql.DB) error {
	ctx := context.Background()

	var count int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM menus WHERE root_id = ''`).Scan(&count); err != nil {
		return fmt.Errorf("checking menus root_id: %w", err)
	}
	if count == 0 {
		return nil
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting backfill transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `UPDATE menus SET root_id = id WHERE parent_id IS NULL AND root_id = ''`); err != nil {
		return fmt.Errorf("backfilling roots: %w", err)
	}
	for range maxBackfillDepth {
		res, err := tx.ExecContext(ctx,
			`UPDATE menus SET root_id = (SELECT p.root_id FROM menus p WHERE p.id = menus.parent_id)
			WHERE root_id = '' AND parent_id IS NOT NULL
			  AND (SELECT p.root_id FROM menus p WHERE p.id = menus.parent_id) != ''`)
		if err != nil {
			return fmt.Errorf("backfilling descendants: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("reading affected rows: %w", err)
		}
		if n == 0 {
			break
		}
	}
	return tx.Commit()
}

const maxBackfillDepth = 64

// migrateBackfillDynamicPages flags pages whose URL contains a placeholder.
func migrateBackfillDynamicPages(db *sql.DB) error {
	_, err := db.ExecContext(context.Background(),
		`UPDATE pages SET is_dynamic = 1 WHERE is_dynamic = 0 AND instr(url, '{') > 0`)
	if err != nil {
		return fmt.Errorf("updating pages: %w", err)
	}
	return nil
}
