package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/skill-log/internal/apperror"
	"github.com/sakif/skill-log/internal/model"
	"github.com/sakif/skill-log/internal/repository"
	"github.com/sakif/skill-log/internal/validation"
)

// AdminService manages accounts on behalf of an admin. Callers are expected
// to have passed the admin guard already.
type AdminService struct {
	accounts  repository.AccountRepository
	validator *validation.Validator
	logger    *slog.Logger
}

func NewAdminService(accounts repository.AccountRepository, validator *validation.Validator, logger *slog.Logger) *AdminService {
	return &AdminService{
		accounts:  accounts,
		validator: validator,
		logger:    logger,
	}
}

// ListUsers returns full account rows, newest first.
func (s *AdminService) ListUsers(ctx context.Context) ([]model.Account, error) {
	accounts, err := s.accounts.ListAccountsByNewest(ctx)
	if err != nil {
		s.logger.Error("failed to list accounts", slog.String("error", err.Error()))
		return nil, fmt.Errorf("listing accounts: %w", err)
	}
	return accounts, nil
}

func (s *AdminService) CreateUser(ctx context.Context, input model.NewAccount) (*model.Account, error) {
	input.Name = strings.TrimSpace(input.Name)
	if input.Role == "" {
		input.Role = model.RoleUser
	}
	if err := s.validator.Struct(input, accountMessages); err != nil {
		return nil, err
	}
	if err := ensureNameFree(ctx, s.accounts, input.Name); err != nil {
		return nil, err
	}

	account := &model.Account{
		Name:     input.Name,
		Password: input.Password,
		Role:     input.Role,
	}
	if err := s.accounts.CreateAccount(ctx, account); err != nil {
		if errors.Is(err, apperror.ErrDuplicateName) {
			return nil, err
		}
		s.logger.Error("failed to create account",
			slog.String("name", input.Name),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating account: %w", err)
	}

	s.logger.Info("account created by admin",
		slog.String("id", account.ID),
		slog.String("role", string(account.Role)),
	)
	return account, nil
}

// UpdateUser applies the fields present in patch. An empty patch is NoUpdates.
func (s *AdminService) UpdateUser(ctx context.Context, id string, patch model.AccountPatch) (*model.Account, error) {
	if patch.Update().Empty() {
		return nil, apperror.NoUpdates()
	}
	if patch.Name != nil {
		trimmed := strings.TrimSpace(*patch.Name)
		patch.Name = &trimmed
	}
	if err := s.validator.Struct(patch, accountMessages); err != nil {
		return nil, err
	}

	account, err := s.accounts.UpdateAccount(ctx, id, patch.Update())
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) || errors.Is(err, apperror.ErrDuplicateName) || errors.Is(err, apperror.ErrNoUpdates) {
			return nil, err
		}
		s.logger.Error("failed to update account",
			slog.String("id", id),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("updating account: %w", err)
	}

	s.logger.Info("account updated", slog.String("id", id))
	return account, nil
}

// DeleteUser removes the account and leaves its practice logs in place.
func (s *AdminService) DeleteUser(ctx context.Context, id string) error {
	if err := s.accounts.DeleteAccount(ctx, id); err != nil {
		s.logger.Error("failed to delete account",
			slog.String("id", id),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("deleting account: %w", err)
	}

	s.logger.Info("account deleted", slog.String("id", id))
	return nil
}
