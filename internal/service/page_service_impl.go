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

type pageService struct {
	pages repository.PageRepo
	uow   db.UnitOfWork
}

func NewPageService(pages repository.PageRepo, uow db.UnitOfWork) PageService {
	return &pageService{pages: pages, uow: uow}
}

func (s *pageService) Create(ctx context.Context, p *domain.Page) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	p.Normalize()
	if err := p.Validate(); err != nil {
		return err
	}
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txPages := repository.NewSQLitePageRepo(tx)
		if p.ParentID != nil {
			parent, err := txPages.GetByID(ctx, *p.ParentID)
			if err != nil {
				return fmt.Errorf("parent of page %q: %w", p.Name, err)
			}
			if parent.SiteID != p.SiteID {
				return fmt.Errorf("page %q: parent %q belongs to another site", p.Name, parent.Name)
			}
		}
		return txPages.Create(ctx, p)
	})
}

func (s *pageService) Update(ctx context.Context, p *domain.Page) error {
	p.Normalize()
	if err := p.Validate(); err != nil {
		return err
	}

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txPages := repository.NewSQLitePageRepo(tx)
		if p.ParentID != nil {
			parent, err := txPages.GetByID(ctx, *p.ParentID)
			if err != nil {
				return fmt.Errorf("parent of page %q: %w", p.Name, err)
			}
			if parent.SiteID != p.SiteID {
				return fmt.Errorf("page %q: parent %q belongs to another site", p.Name, parent.Name)
			}
		}
		if err := txPages.Update(ctx, p); err != nil {
			return err
		}
		p.UpdatedAt = time.Now().UTC()
		return nil
	})
}

func (s *pageService) GetByURL(ctx context.Context, siteID, url string) (*domain.Page, error) {
	p, err := s.pages.PageByURL(ctx, siteID, url)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("page %s: %w", url, repository.ErrNotFound)
	}
	return p, nil
}

func (s *pageService) ListBySite(ctx context.Context, siteID string) ([]*domain.Page, error) {
	return s.pages.ListBySite(ctx, siteID)
}
