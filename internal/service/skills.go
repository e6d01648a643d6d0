package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/sakif/skill-log/internal/apperror"
	"github.com/sakif/skill-log/internal/catalog"
	"github.com/sakif/skill-log/internal/model"
	"github.com/sakif/skill-log/internal/progress"
	"github.com/sakif/skill-log/internal/repository"
)

// SkillService serves the server-side skill reports: the catalog, a public
// profile and the admin aggregate.
type SkillService struct {
	logs     repository.LogRepository
	accounts repository.AccountRepository
	catalog  *catalog.Catalog
	logger   *slog.Logger
}

func NewSkillService(logs repository.LogRepository, accounts repository.AccountRepository, cat *catalog.Catalog, logger *slog.Logger) *SkillService {
	return &SkillService{
		logs:     logs,
		accounts: accounts,
		catalog:  cat,
		logger:   logger,
	}
}

func (s *SkillService) Catalog() []model.Category {
	return s.catalog.Categories()
}

// Profile returns the progress of the named account on every catalog skill,
// in catalog order. The name is matched like GetUserByName.
func (s *SkillService) Profile(ctx context.Context, name string) ([]model.Skill, error) {
	name = lookupName(name)
	account, err := s.accounts.FindAccountByNameFold(ctx, name)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("looking up %q: %w", name, err)
	}

	logs, err := s.logs.ListLogs(ctx, repository.LogFilter{
		UserID: account.ID,
		Status: model.StatusApproved,
	})
	if err != nil {
		s.logger.Error("failed to list profile logs",
			slog.String("user_id", account.ID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("listing profile logs: %w", err)
	}

	return progress.Profile(s.catalog.Names(), logs), nil
}

// AdminOverview counts approved and pending logs per skill across everyone.
func (s *SkillService) AdminOverview(ctx context.Context) ([]model.Skill, error) {
	logs, err := s.logs.ListLogs(ctx, repository.LogFilter{})
	if err != nil {
		s.logger.Error("failed to list logs for overview", slog.String("error", err.Error()))
		return nil, fmt.Errorf("listing logs: %w", err)
	}
	return progress.Admin(s.catalog.Names(), logs), nil
}
