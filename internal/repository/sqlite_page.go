package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/sitemenu/internal/db"
	"github.com/alexanderramin/sitemenu/internal/domain"
)

// pageColumns is the canonical SELECT column list for pages.
const pageColumns = `id, site_id, parent_id, name, url, route_name, redirect_url,
		is_dynamic, enabled, show_in_menu, position, created_at, updated_at`

// SQLitePageRepo implements PageRepo using a SQLite database. Its
// navigation lookups treat an empty site id as "any site".
type SQLitePageRepo struct {
	db db.DBTX
}

// NewSQLitePageRepo creates a new SQLitePageRepo.
func NewSQLitePageRepo(conn db.DBTX) *SQLitePageRepo {
	return &SQLitePageRepo{db: conn}
}

func (r *SQLitePageRepo) Create(ctx context.Context, p *domain.Page) error {
	p.Normalize()
	query := `INSERT INTO pages (` + pageColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		p.ID,
		p.SiteID,
		nullableString(p.ParentID),
		p.Name,
		p.URL,
		p.RouteName,
		p.RedirectURL,
		boolToInt(p.IsDynamic),
		boolToInt(p.Enabled),
		boolToInt(p.ShowInMenu),
		p.Position,
		formatTime(p.CreatedAt),
		formatTime(p.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting page: %w", err)
	}
	return nil
}

func (r *SQLitePageRepo) GetByID(ctx context.Context, id string) (*domain.Page, error) {
	query := `SELECT ` + pageColumns + ` FROM pages WHERE id = ?`
	return r.scanPage(r.db.QueryRowContext(ctx, query, id))
}

func (r *SQLitePageRepo) ListBySite(ctx context.Context, siteID string) ([]*domain.Page, error) {
	query := `SELECT ` + pageColumns + ` FROM pages WHERE site_id = ? ORDER BY url`
	return r.queryPages(ctx, query, siteID)
}

func (r *SQLitePageRepo) ListChildren(ctx context.Context, parentID string, visibleOnly bool) ([]*domain.Page, error) {
	query := `SELECT ` + pageColumns + ` FROM pages WHERE parent_id = ?`
	if visibleOnly {
		query += ` AND enabled = 1 AND show_in_menu = 1`
	}
	query += ` ORDER BY position, name`
	return r.queryPages(ctx, query, parentID)
}

func (r *SQLitePageRepo) Update(ctx context.Context, p *domain.Page) error {
	p.Normalize()
	query := `UPDATE pages SET parent_id = ?, name = ?, url = ?, route_name = ?,
		redirect_url = ?, is_dynamic = ?, enabled = ?, show_in_menu = ?, position = ?,
		updated_at = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		nullableString(p.ParentID),
		p.Name,
		p.URL,
		p.RouteName,
		p.RedirectURL,
		boolToInt(p.IsDynamic),
		boolToInt(p.Enabled),
		boolToInt(p.ShowInMenu),
		p.Position,
		nowUTC(),
		p.ID,
	)
	if err != nil {
		return fmt.Errorf("updating page: %w", err)
	}
	return requireAffected(res, "page")
}

func (r *SQLitePageRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM pages WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting page: %w", err)
	}
	return requireAffected(res, "page")
}

func (r *SQLitePageRepo) PageByID(ctx context.Context, id string) (*domain.Page, error) {
	p, err := r.GetByID(ctx, id)
	return absentAsNil(p, err)
}

func (r *SQLitePageRepo) PageByURL(ctx context.Context, siteID, url string) (*domain.Page, error) {
	query := `SELECT ` + pageColumns + ` FROM pages
		WHERE url = ? AND (? = '' OR site_id = ?)
		ORDER BY created_at LIMIT 1`
	p, err := r.scanPage(r.db.QueryRowContext(ctx, query, url, siteID, siteID))
	return absentAsNil(p, err)
}

func (r *SQLitePageRepo) PageByRoute(ctx context.Context, siteID, route string) (*domain.Page, error) {
	query := `SELECT ` + pageColumns + ` FROM pages
		WHERE route_name = ? AND (? = '' OR site_id = ?)
		ORDER BY created_at LIMIT 1`
	p, err := r.scanPage(r.db.QueryRowContext(ctx, query, route, siteID, siteID))
	return absentAsNil(p, err)
}

func (r *SQLitePageRepo) Homepage(ctx context.Context, siteID string) (*domain.Page, error) {
	return r.PageByURL(ctx, siteID, domain.HomepageURL)
}

func (r *SQLitePageRepo) VisibleChildren(ctx context.Context, page *domain.Page) ([]*domain.Page, error) {
	return r.ListChildren(ctx, page.ID, true)
}

func (r *SQLitePageRepo) queryPages(ctx context.Context, query string, args ...any) ([]*domain.Page, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing pages: %w", err)
	}
	defer rows.Close()

	var pages []*domain.Page
	for rows.Next() {
		p, err := r.populatePage(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning page row: %w", err)
		}
		pages = append(pages, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating pages: %w", err)
	}
	return pages, nil
}

// scanPage scans a single page from a *sql.Row.
func (r *SQLitePageRepo) scanPage(row *sql.Row) (*domain.Page, error) {
	p, err := r.populatePage(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("page: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning page: %w", err)
	}
	return p, nil
}

func (r *SQLitePageRepo) populatePage(row rowScanner) (*domain.Page, error) {
	var p domain.Page
	var parentID sql.NullString
	var isDynamic, enabled, showInMenu int
	var createdAtStr, updatedAtStr string
	if err := row.Scan(&p.ID, &p.SiteID, &parentID, &p.Name, &p.URL, &p.RouteName, &p.RedirectURL,
		&isDynamic, &enabled, &showInMenu, &p.Position, &createdAtStr, &updatedAtStr); err != nil {
		return nil, err
	}
	p.ParentID = stringPtr(parentID)
	p.IsDynamic = intToBool(isDynamic)
	p.Enabled = intToBool(enabled)
	p.ShowInMenu = intToBool(showInMenu)

	var err error
	p.CreatedAt, p.UpdatedAt, err = parseTimes(createdAtStr, updatedAtStr)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// absentAsNil maps ErrNotFound to (nil, nil), the contract of the
// navigation sources.
func absentAsNil[T any](v *T, err error) (*T, error) {
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	return v, err
}
