package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/sitemenu/internal/db"
	"github.com/alexanderramin/sitemenu/internal/domain"
	"github.com/alexanderramin/sitemenu/internal/repository"
	"github.com/google/uuid"
)

type menuService struct {
	menus    repository.MenuRepo
	uow      db.UnitOfWork
	observer UseCaseObserver
}

func NewMenuService(menus repository.MenuRepo, uow db.UnitOfWork, observers ...UseCaseObserver) MenuService {
	return &menuService{
		menus:    menus,
		uow:      uow,
		observer: useCaseObserverOrNoop(observers),
	}
}

// newMenuRoot builds the enabled, locked root of a menu position.
func newMenuRoot(siteID, name string, now time.Time) (*domain.MenuNode, error) {
	root := &domain.MenuNode{
		ID:        uuid.New().String(),
		SiteID:    siteID,
		Name:      strings.TrimSpace(name),
		Level:     0,
		Left:      1,
		Right:     2,
		Enabled:   true,
		Deletable: false,
		CreatedAt: now,
		UpdatedAt: now,
	}
	root.RootID = root.ID
	if err := root.Validate(); err != nil {
		return nil, err
	}
	return root, nil
}

// CreateRoot creates an enabled, locked root for a new menu position.
func (s *menuService) CreateRoot(ctx context.Context, site *domain.Site, name string) (*domain.MenuNode, error) {
	root, err := newMenuRoot(site.ID, name, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	name = root.Name

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txMenus := repository.NewSQLiteMenuRepo(tx)
		existing, err := txMenus.RootByName(ctx, name, site.ID)
		if err != nil {
			return err
		}
		if existing != nil {
			return fmt.Errorf("menu %q on site %s: %w", name, site.Name, ErrDuplicateRoot)
		}
		return txMenus.Create(ctx, root)
	})
	if err != nil {
		return nil, err
	}
	return root, nil
}

func (s *menuService) EnsureDefaultMenus(ctx context.Context, site *domain.Site, names ...string) (err error) {
	if len(names) == 0 {
		names = []string{domain.MenuMain, domain.MenuFooter}
	}
	startedAt := time.Now()
	created := 0
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "ensure-default-menus",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    map[string]any{"site": site.Name, "created": created},
		})
	}()

	for _, name := range names {
		existing, err := s.menus.RootByName(ctx, name, site.ID)
		if err != nil {
			return err
		}
		if existing != nil {
			continue
		}
		if _, err := s.CreateRoot(ctx, site, name); err != nil {
			return err
		}
		created++
	}
	return nil
}

// AppendChild inserts node as the last child of parentID, opening a
// two-slot gap at the parent's right bound.
func (s *menuService) AppendChild(ctx context.Context, parentID string, node *domain.MenuNode) error {
	if node.ID == "" {
		node.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	node.CreatedAt = now
	node.UpdatedAt = now

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txMenus := repository.NewSQLiteMenuRepo(tx)
		parent, err := txMenus.GetByID(ctx, parentID)
		if err != nil {
			return fmt.Errorf("parent menu node: %w", err)
		}

		pid := parent.ID
		node.SiteID = parent.SiteID
		node.RootID = parent.RootID
		node.ParentID = &pid
		node.Level = parent.Level + 1
		node.Left = parent.Right
		node.Right = parent.Right + 1
		if err := node.Validate(); err != nil {
			return err
		}

		if err := txMenus.OpenGap(ctx, parent.RootID, parent.Right, 2); err != nil {
			return err
		}
		return txMenus.Create(ctx, node)
	})
}

func (s *menuService) GetByID(ctx context.Context, id string) (*domain.MenuNode, error) {
	return s.menus.GetByID(ctx, id)
}

func (s *menuService) RootByName(ctx context.Context, siteID, name string) (*domain.MenuNode, error) {
	root, err := s.menus.RootByName(ctx, name, siteID)
	if err != nil {
		return nil, err
	}
	if root == nil {
		return nil, fmt.Errorf("menu %q: %w", name, repository.ErrNotFound)
	}
	return root, nil
}

func (s *menuService) Update(ctx context.Context, node *domain.MenuNode) error {
	node.PrepareURL()
	if err := node.Validate(); err != nil {
		return err
	}
	node.UpdatedAt = time.Now().UTC()
	return s.menus.Update(ctx, node)
}

func (s *menuService) SetEnabled(ctx context.Context, id string, enabled bool) error {
	return s.menus.SetEnabled(ctx, id, enabled)
}

// Delete removes the node and its subtree, then closes the gap it leaves.
// A locked node anywhere in the subtree blocks the whole delete.
func (s *menuService) Delete(ctx context.Context, id string) error {
	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txMenus := repository.NewSQLiteMenuRepo(tx)
		node, err := txMenus.GetByID(ctx, id)
		if err != nil {
			return err
		}
		tree, err := txMenus.ListTree(ctx, node.RootID)
		if err != nil {
			return err
		}
		for _, n := range tree {
			if (n.ID == node.ID || node.Contains(n)) && !n.Deletable {
				return fmt.Errorf("menu node %q: %w", n.Name, ErrNotDeletable)
			}
		}

		if err := txMenus.DeleteSubtree(ctx, node); err != nil {
			return err
		}
		return txMenus.CloseGap(ctx, node.RootID, node.Right, node.Width())
	})
}

func (s *menuService) ListRoots(ctx context.Context, siteID string) ([]*domain.MenuNode, error) {
	return s.menus.ListRoots(ctx, siteID)
}

func (s *menuService) Tree(ctx context.Context, rootID string) ([]*domain.MenuNode, error) {
	return s.menus.ListTree(ctx, rootID)
}
