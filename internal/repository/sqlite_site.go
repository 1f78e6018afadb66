package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/sitemenu/internal/db"
	"github.com/alexanderramin/sitemenu/internal/domain"
)

// siteColumns is the canonical SELECT column list for sites.
const siteColumns = `id, name, host, relative_path, enabled, is_default, created_at, updated_at`

// SQLiteSiteRepo implements SiteRepo using a SQLite database.
type SQLiteSiteRepo struct {
	db db.DBTX
}

// NewSQLiteSiteRepo creates a new SQLiteSiteRepo.
func NewSQLiteSiteRepo(conn db.DBTX) *SQLiteSiteRepo {
	return &SQLiteSiteRepo{db: conn}
}

func (r *SQLiteSiteRepo) Create(ctx context.Context, s *domain.Site) error {
	query := `INSERT INTO sites (` + siteColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		s.ID,
		s.Name,
		s.Host,
		s.RelativePath,
		boolToInt(s.Enabled),
		boolToInt(s.IsDefault),
		formatTime(s.CreatedAt),
		formatTime(s.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting site: %w", err)
	}
	return nil
}

func (r *SQLiteSiteRepo) GetByID(ctx context.Context, id string) (*domain.Site, error) {
	query := `SELECT ` + siteColumns + ` FROM sites WHERE id = ?`
	return r.scanSite(r.db.QueryRowContext(ctx, query, id))
}

func (r *SQLiteSiteRepo) GetByName(ctx context.Context, name string) (*domain.Site, error) {
	query := `SELECT ` + siteColumns + ` FROM sites WHERE name = ?`
	return r.scanSite(r.db.QueryRowContext(ctx, query, name))
}

// GetDefault returns the site flagged default, falling back to the oldest
// enabled site.
func (r *SQLiteSiteRepo) GetDefault(ctx context.Context) (*domain.Site, error) {
	query := `SELECT ` + siteColumns + ` FROM sites WHERE enabled = 1
		ORDER BY is_default DESC, created_at, name LIMIT 1`
	return r.scanSite(r.db.QueryRowContext(ctx, query))
}

func (r *SQLiteSiteRepo) List(ctx context.Context) ([]*domain.Site, error) {
	query := `SELECT ` + siteColumns + ` FROM sites ORDER BY name`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing sites: %w", err)
	}
	defer rows.Close()

	var sites []*domain.Site
	for rows.Next() {
		s, err := r.populateSite(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning site row: %w", err)
		}
		sites = append(sites, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating sites: %w", err)
	}
	return sites, nil
}

func (r *SQLiteSiteRepo) Update(ctx context.Context, s *domain.Site) error {
	query := `UPDATE sites SET name = ?, host = ?, relative_path = ?, enabled = ?,
		is_default = ?, updated_at = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		s.Name,
		s.Host,
		s.RelativePath,
		boolToInt(s.Enabled),
		boolToInt(s.IsDefault),
		nowUTC(),
		s.ID,
	)
	if err != nil {
		return fmt.Errorf("updating site: %w", err)
	}
	return requireAffected(res, "site")
}

// ClearDefault removes the default flag from every site except exceptID.
func (r *SQLiteSiteRepo) ClearDefault(ctx context.Context, exceptID string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE sites SET is_default = 0, updated_at = ? WHERE is_default = 1 AND id != ?`,
		nowUTC(), exceptID)
	if err != nil {
		return fmt.Errorf("clearing default site: %w", err)
	}
	return nil
}

func (r *SQLiteSiteRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM sites WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting site: %w", err)
	}
	return requireAffected(res, "site")
}

// scanSite scans a single site from a *sql.Row.
func (r *SQLiteSiteRepo) scanSite(row *sql.Row) (*domain.Site, error) {
	s, err := r.populateSite(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("site: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning site: %w", err)
	}
	return s, nil
}

func (r *SQLiteSiteRepo) populateSite(row rowScanner) (*domain.Site, error) {
	var s domain.Site
	var enabled, isDefault int
	var createdAtStr, updatedAtStr string
	if err := row.Scan(&s.ID, &s.Name, &s.Host, &s.RelativePath, &enabled, &isDefault,
		&createdAtStr, &updatedAtStr); err != nil {
		return nil, err
	}
	s.Enabled = intToBool(enabled)
	s.IsDefault = intToBool(isDefault)

	var err error
	s.CreatedAt, s.UpdatedAt, err = parseTimes(createdAtStr, updatedAtStr)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// requireAffected turns a zero-row write into ErrNotFound.
func requireAffected(res sql.Result, what string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return nil
}
