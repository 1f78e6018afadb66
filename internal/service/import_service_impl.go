package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/sitemenu/internal/db"
	"github.com/alexanderramin/sitemenu/internal/importer"
	"github.com/alexanderramin/sitemenu/internal/repository"
)

type importService struct {
	uow      db.UnitOfWork
	observer UseCaseObserver
}

func NewImportService(uow db.UnitOfWork, observers ...UseCaseObserver) ImportService {
	return &importService{
		uow:      uow,
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *importService) ImportSite(ctx context.Context, filePath string) (*ImportResult, error) {
	schema, err := importer.LoadImportSchema(filePath)
	if err != nil {
		return nil, fmt.Errorf("loading import file: %w", err)
	}
	return s.importSchema(ctx, schema)
}

func (s *importService) ImportSiteFromSchema(ctx context.Context, schema *importer.ImportSchema) (*ImportResult, error) {
	return s.importSchema(ctx, schema)
}

func (s *importService) importSchema(ctx context.Context, schema *importer.ImportSchema) (result *ImportResult, err error) {
	startedAt := time.Now()
	fields := map[string]any{"site": schema.Site.Name}
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "import-site",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    fields,
		})
	}()

	if errs := importer.ValidateImportSchema(schema); len(errs) > 0 {
		return nil, formatValidationErrors(errs)
	}

	generated, err := importer.Convert(schema)
	if err != nil {
		return nil, fmt.Errorf("converting import schema: %w", err)
	}

	result = &ImportResult{Site: generated.Site, PageCount: len(generated.Pages)}
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txSites := repository.NewSQLiteSiteRepo(tx)
		txPages := repository.NewSQLitePageRepo(tx)
		txMenus := repository.NewSQLiteMenuRepo(tx)

		if generated.Site.IsDefault {
			if err := txSites.ClearDefault(ctx, generated.Site.ID); err != nil {
				return err
			}
		}
		if err := txSites.Create(ctx, generated.Site); err != nil {
			return fmt.Errorf("creating site: %w", err)
		}
		for _, p := range generated.Pages {
			if err := txPages.Create(ctx, p); err != nil {
				return fmt.Errorf("creating page %q: %w", p.URL, err)
			}
		}
		for _, m := range generated.Menus {
			if err := txMenus.Create(ctx, m); err != nil {
				return fmt.Errorf("creating menu node %q: %w", m.Name, err)
			}
			if m.IsRoot() {
				result.MenuCount++
			} else {
				result.ItemCount++
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	fields["pages"] = result.PageCount
	fields["menus"] = result.MenuCount
	fields["items"] = result.ItemCount
	return result, nil
}

func formatValidationErrors(errs []error) error {
	msg := fmt.Sprintf("import validation failed (%d errors):", len(errs))
	for _, e := range errs {
		msg += "\n  - " + e.Error()
	}
	return fmt.Errorf("%s", msg)
}
