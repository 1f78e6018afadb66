package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/sitemenu/internal/db"
	"github.com/alexanderramin/sitemenu/internal/domain"
	"github.com/alexanderramin/sitemenu/internal/repository"
	"github.com/google/uuid"
)

type siteService struct {
	sites repository.SiteRepo
	uow   db.UnitOfWork
}

func NewSiteService(sites repository.SiteRepo, uow db.UnitOfWork) SiteService {
	return &siteService{sites: sites, uow: uow}
}

// Create stores site together with a root for each named menu. A default
// site takes the flag over from the site that held it.
func (s *siteService) Create(ctx context.Context, site *domain.Site, menus ...string) error {
	if err := site.ValidateName(); err != nil {
		return err
	}
	if site.ID == "" {
		site.ID = uuid.New().String()
	}
	if site.Host == "" {
		site.Host = "localhost"
	}
	now := time.Now().UTC()
	site.CreatedAt = now
	site.UpdatedAt = now

	roots := make([]*domain.MenuNode, 0, len(menus))
	seen := make(map[string]bool, len(menus))
	for _, name := range menus {
		root, err := newMenuRoot(site.ID, name, now)
		if err != nil {
			return err
		}
		if seen[root.Name] {
			continue
		}
		seen[root.Name] = true
		roots = append(roots, root)
	}

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txSites := repository.NewSQLiteSiteRepo(tx)
		txMenus := repository.NewSQLiteMenuRepo(tx)
		if site.IsDefault {
			if err := txSites.ClearDefault(ctx, site.ID); err != nil {
				return err
			}
		}
		if err := txSites.Create(ctx, site); err != nil {
			return err
		}
		for _, root := range roots {
			if err := txMenus.Create(ctx, root); err != nil {
				return fmt.Errorf("creating menu %q: %w", root.Name, err)
			}
		}
		return nil
	})
}

// SetDefault moves the default flag to the named site.
func (s *siteService) SetDefault(ctx context.Context, name string) (*domain.Site, error) {
	var site *domain.Site
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txSites := repository.NewSQLiteSiteRepo(tx)
		found, err := txSites.GetByName(ctx, name)
		if err != nil {
			return err
		}
		if !found.Enabled {
			return fmt.Errorf("site %s is disabled and cannot be the default", found.Name)
		}
		if err := txSites.ClearDefault(ctx, found.ID); err != nil {
			return err
		}
		found.IsDefault = true
		if err := txSites.Update(ctx, found); err != nil {
			return err
		}
		site = found
		return nil
	})
	if err != nil {
		return nil, err
	}
	return site, nil
}

func (s *siteService) GetByName(ctx context.Context, name string) (*domain.Site, error) {
	return s.sites.GetByName(ctx, name)
}

func (s *siteService) Resolve(ctx context.Context, name string) (*domain.Site, error) {
	if name == "" {
		return s.sites.GetDefault(ctx)
	}
	return s.sites.GetByName(ctx, name)
}

func (s *siteService) List(ctx context.Context) ([]*domain.Site, error) {
	return s.sites.List(ctx)
}
