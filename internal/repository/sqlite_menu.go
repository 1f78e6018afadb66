package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/sitemenu/internal/db"
	"github.com/alexanderramin/sitemenu/internal/domain"
)

// menuSelect reads menu rows together with the url of their linked page.
const menuSelect = `SELECT m.id, m.site_id, m.root_id, m.parent_id, m.name, m.lvl, m.lft, m.rgt,
		m.enabled, m.deletable, m.external_url, m.page_id, m.header, m.class, m.template,
		m.created_at, m.updated_at, COALESCE(p.url, '')
	FROM menus m LEFT JOIN pages p ON p.id = m.page_id`

// SQLiteMenuRepo implements MenuRepo using a SQLite database.
type SQLiteMenuRepo struct {
	db db.DBTX
}

// NewSQLiteMenuRepo creates a new SQLiteMenuRepo.
func NewSQLiteMenuRepo(conn db.DBTX) *SQLiteMenuRepo {
	return &SQLiteMenuRepo{db: conn}
}

func (r *SQLiteMenuRepo) Create(ctx context.Context, m *domain.MenuNode) error {
	m.PrepareURL()
	rootID := m.RootID
	if m.IsRoot() && rootID == "" {
		rootID = m.ID
		m.RootID = rootID
	}
	query := `INSERT INTO menus (id, site_id, root_id, parent_id, name, lvl, lft, rgt,
		enabled, deletable, external_url, page_id, header, class, template, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		m.ID,
		m.SiteID,
		rootID,
		nullableString(m.ParentID),
		m.Name,
		m.Level,
		m.Left,
		m.Right,
		boolToInt(m.Enabled),
		boolToInt(m.Deletable),
		m.ExternalURL,
		nullableString(m.PageID),
		m.Header,
		m.Class,
		m.Template,
		formatTime(m.CreatedAt),
		formatTime(m.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting menu node: %w", err)
	}
	return nil
}

func (r *SQLiteMenuRepo) GetByID(ctx context.Context, id string) (*domain.MenuNode, error) {
	return r.scanMenu(r.db.QueryRowContext(ctx, menuSelect+` WHERE m.id = ?`, id))
}

// RootByName finds the root named name. An empty siteID matches any site.
func (r *SQLiteMenuRepo) RootByName(ctx context.Context, name, siteID string) (*domain.MenuNode, error) {
	query := menuSelect + ` WHERE m.parent_id IS NULL AND m.name = ? AND (? = '' OR m.site_id = ?)
		ORDER BY m.created_at LIMIT 1`
	m, err := r.scanMenu(r.db.QueryRowContext(ctx, query, name, siteID, siteID))
	return absentAsNil(m, err)
}

func (r *SQLiteMenuRepo) Descendants(ctx context.Context, root *domain.MenuNode) ([]*domain.MenuNode, error) {
	query := menuSelect + ` WHERE m.root_id = ? AND m.lft > ? AND m.rgt < ? ORDER BY m.lft`
	return r.queryMenus(ctx, query, root.ID, root.Left, root.Right)
}

func (r *SQLiteMenuRepo) ListRoots(ctx context.Context, siteID string) ([]*domain.MenuNode, error) {
	query := menuSelect + ` WHERE m.parent_id IS NULL AND m.site_id = ? ORDER BY m.name`
	return r.queryMenus(ctx, query, siteID)
}

func (r *SQLiteMenuRepo) ListTree(ctx context.Context, rootID string) ([]*domain.MenuNode, error) {
	query := menuSelect + ` WHERE m.root_id = ? ORDER BY m.lft`
	return r.queryMenus(ctx, query, rootID)
}

// Update writes the administrator-editable fields. Bounds, level and
// parent only change through the tree operations.
func (r *SQLiteMenuRepo) Update(ctx context.Context, m *domain.MenuNode) error {
	m.PrepareURL()
	query := `UPDATE menus SET name = ?, enabled = ?, deletable = ?, external_url = ?,
		page_id = ?, header = ?, class = ?, template = ?, updated_at = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		m.Name,
		boolToInt(m.Enabled),
		boolToInt(m.Deletable),
		m.ExternalURL,
		nullableString(m.PageID),
		m.Header,
		m.Class,
		m.Template,
		nowUTC(),
		m.ID,
	)
	if err != nil {
		return fmt.Errorf("updating menu node: %w", err)
	}
	return requireAffected(res, "menu node")
}

func (r *SQLiteMenuRepo) SetEnabled(ctx context.Context, id string, enabled bool) error {
	res, err := r.db.ExecContext(ctx, `UPDATE menus SET enabled = ?, updated_at = ? WHERE id = ?`,
		boolToInt(enabled), nowUTC(), id)
	if err != nil {
		return fmt.Errorf("toggling menu node: %w", err)
	}
	return requireAffected(res, "menu node")
}

func (r *SQLiteMenuRepo) OpenGap(ctx context.Context, rootID string, at, width int) error {
	// Right bounds move first so lft < rgt holds after every statement.
	if _, err := r.db.ExecContext(ctx,
		`UPDATE menus SET rgt = rgt + ? WHERE root_id = ? AND rgt >= ?`, width, rootID, at); err != nil {
		return fmt.Errorf("shifting right bounds: %w", err)
	}
	if _, err := r.db.ExecContext(ctx,
		`UPDATE menus SET lft = lft + ? WHERE root_id = ? AND lft >= ?`, width, rootID, at); err != nil {
		return fmt.Errorf("shifting left bounds: %w", err)
	}
	return nil
}

func (r *SQLiteMenuRepo) CloseGap(ctx context.Context, rootID string, after, width int) error {
	if _, err := r.db.ExecContext(ctx,
		`UPDATE menus SET lft = lft - ? WHERE root_id = ? AND lft > ?`, width, rootID, after); err != nil {
		return fmt.Errorf("closing left bounds: %w", err)
	}
	if _, err := r.db.ExecContext(ctx,
		`UPDATE menus SET rgt = rgt - ? WHERE root_id = ? AND rgt > ?`, width, rootID, after); err != nil {
		return fmt.Errorf("closing right bounds: %w", err)
	}
	return nil
}

func (r *SQLiteMenuRepo) DeleteSubtree(ctx context.Context, m *domain.MenuNode) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM menus WHERE root_id = ? AND lft >= ? AND rgt <= ?`, m.RootID, m.Left, m.Right)
	if err != nil {
		return fmt.Errorf("deleting menu subtree: %w", err)
	}
	return requireAffected(res, "menu node")
}

func (r *SQLiteMenuRepo) queryMenus(ctx context.Context, query string, args ...any) ([]*domain.MenuNode, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing menu nodes: %w", err)
	}
	defer rows.Close()

	var nodes []*domain.MenuNode
	for rows.Next() {
		m, err := r.populateMenu(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning menu node row: %w", err)
		}
		nodes = append(nodes, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating menu nodes: %w", err)
	}
	return nodes, nil
}

// scanMenu scans a single menu node from a *sql.Row.
func (r *SQLiteMenuRepo) scanMenu(row *sql.Row) (*domain.MenuNode, error) {
	m, err := r.populateMenu(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("menu node: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning menu node: %w", err)
	}
	return m, nil
}

func (r *SQLiteMenuRepo) populateMenu(row rowScanner) (*domain.MenuNode, error) {
	var m domain.MenuNode
	var parentID, pageID sql.NullString
	var enabled, deletable int
	var createdAtStr, updatedAtStr string
	if err := row.Scan(&m.ID, &m.SiteID, &m.RootID, &parentID, &m.Name, &m.Level, &m.Left, &m.Right,
		&enabled, &deletable, &m.ExternalURL, &pageID, &m.Header, &m.Class, &m.Template,
		&createdAtStr, &updatedAtStr, &m.PageURL); err != nil {
		return nil, err
	}
	m.ParentID = stringPtr(parentID)
	m.PageID = stringPtr(pageID)
	m.Enabled = intToBool(enabled)
	m.Deletable = intToBool(deletable)

	var err error
	m.CreatedAt, m.UpdatedAt, err = parseTimes(createdAtStr, updatedAtStr)
	if err != nil {
		return nil, err
	}
	return &m, nil
}
