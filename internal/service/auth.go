package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/skill-log/internal/apperror"
	"github.com/sakif/skill-log/internal/model"
	"github.com/sakif/skill-log/internal/observability"
	"github.com/sakif/skill-log/internal/repository"
	"github.com/sakif/skill-log/internal/validation"
)

// accountMessages is the user-facing text for account field rules.
var accountMessages = validation.Messages{
	"name.required":   "Пожалуйста, введите имя.",
	"name.wizardname": "Имя может содержать только русские буквы и пробелы. Никаких цифр или спецсимволов.",
	"name.min":        "Пожалуйста, введите имя.",
	"password.min":    "Пароль должен быть не короче 6 символов",
	"role.oneof":      "Роль должна быть user или admin",
}

// AuthService handles sign-up, sign-in and the public account lookups.
type AuthService struct {
	accounts  repository.AccountRepository
	validator *validation.Validator
	logger    *slog.Logger
}

func NewAuthService(accounts repository.AccountRepository, validator *validation.Validator, logger *slog.Logger) *AuthService {
	return &AuthService{
		accounts:  accounts,
		validator: validator,
		logger:    logger,
	}
}

// SignUp registers a new account with role user.
//
// The name is trimmed before it is validated and stored. Only an exact
// (case-sensitive) duplicate is rejected; the store's UNIQUE index reports a
// racing insert with the same DuplicateName error as the lookup below.
func (s *AuthService) SignUp(ctx context.Context, creds model.Credentials) (*model.Account, error) {
	creds.Name = strings.TrimSpace(creds.Name)
	if err := s.validator.Struct(creds, accountMessages); err != nil {
		observability.SignUps().WithLabelValues("invalid").Inc()
		return nil, err
	}

	if err := ensureNameFree(ctx, s.accounts, creds.Name); err != nil {
		if errors.Is(err, apperror.ErrDuplicateName) {
			observability.SignUps().WithLabelValues("duplicate").Inc()
		}
		return nil, err
	}

	account := &model.Account{
		Name:     creds.Name,
		Password: creds.Password,
		Role:     model.RoleUser,
	}
	if err := s.accounts.CreateAccount(ctx, account); err != nil {
		if errors.Is(err, apperror.ErrDuplicateName) {
			observability.SignUps().WithLabelValues("duplicate").Inc()
			return nil, err
		}
		s.logger.Error("failed to create account",
			slog.String("name", creds.Name),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("signing up: %w", err)
	}

	observability.SignUps().WithLabelValues("created").Inc()
	s.logger.Info("account created",
		slog.String("id", account.ID),
		slog.String("name", account.Name),
	)
	return account, nil
}

// SignIn matches name (trimmed) and password exactly. Unknown name and wrong
// password produce the same InvalidCredentials error.
func (s *AuthService) SignIn(ctx context.Context, creds model.Credentials) (*model.Account, error) {
	name := strings.TrimSpace(creds.Name)

	account, err := s.accounts.FindAccountByCredentials(ctx, name, creds.Password)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.InvalidCredentials()
		}
		s.logger.Error("failed to check credentials", slog.String("error", err.Error()))
		return nil, fmt.Errorf("signing in: %w", err)
	}
	return account, nil
}

// GetUserByName looks an account up ignoring case, with underscores read as
// spaces. A missing account is (nil, nil), not an error.
func (s *AuthService) GetUserByName(ctx context.Context, name string) (*model.Account, error) {
	name = lookupName(name)
	if name == "" {
		return nil, nil
	}

	account, err := s.accounts.FindAccountByNameFold(ctx, name)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("looking up %q: %w", name, err)
	}
	return account, nil
}

// ListAllUsers returns the public directory: id, name and role, by name.
func (s *AuthService) ListAllUsers(ctx context.Context) ([]model.Account, error) {
	accounts, err := s.accounts.ListAccountsByName(ctx)
	if err != nil {
		s.logger.Error("failed to list accounts", slog.String("error", err.Error()))
		return nil, fmt.Errorf("listing accounts: %w", err)
	}

	directory := make([]model.Account, len(accounts))
	for i, a := range accounts {
		directory[i] = a.Directory()
	}
	return directory, nil
}

// GetAccount resolves a caller id, used by the admin guard.
func (s *AuthService) GetAccount(ctx context.Context, id string) (*model.Account, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperror.ValidationFailed("id", "account ID is required")
	}
	return s.accounts.GetAccountByID(ctx, id)
}

// ensureNameFree is the pre-insert duplicate check shared by sign-up and
// admin create.
func ensureNameFree(ctx context.Context, accounts repository.AccountRepository, name string) error {
	_, err := accounts.FindAccountByName(ctx, name)
	switch {
	case err == nil:
		return apperror.DuplicateName(name)
	case errors.Is(err, apperror.ErrNotFound):
		return nil
	default:
		return fmt.Errorf("checking name %q: %w", name, err)
	}
}
