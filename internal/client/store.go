package client

import (
	"context"
	"errors"

	"github.com/sakif/skill-log/internal/apperror"
	"github.com/sakif/skill-log/internal/model"
	"github.com/sakif/skill-log/internal/service"
)

// Store implements every port by calling the services in-process. Results
// are shaped like the HTTP API's so the two adapters are interchangeable.
type Store struct {
	services     *service.Set
	enforceAdmin bool
	caller       *Caller
}

var (
	_ AuthPort  = (*Store)(nil)
	_ LogPort   = (*Store)(nil)
	_ AdminPort = (*Store)(nil)
)

// requireAdmin applies the same rule as the HTTP admin guard.
func (s *Store) requireAdmin(ctx context.Context) error {
	if !s.enforceAdmin {
		return nil
	}
	id := s.caller.Get()
	if id == "" {
		return apperror.Forbidden("admin role required")
	}
	account, err := s.services.Auth.GetAccount(ctx, id)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return apperror.Forbidden("admin role required")
		}
		return err
	}
	if !account.IsAdmin() {
		return apperror.Forbidden("admin role required")
	}
	return nil
}

func (s *Store) SignUp(ctx context.Context, name, password string) (*model.Account, error) {
	account, err := s.services.Auth.SignUp(ctx, model.Credentials{Name: name, Password: password})
	if err != nil {
		return nil, err
	}
	public := account.Public()
	return &public, nil
}

func (s *Store) SignIn(ctx context.Context, name, password string) (*model.Account, error) {
	account, err := s.services.Auth.SignIn(ctx, model.Credentials{Name: name, Password: password})
	if err != nil {
		return nil, err
	}
	public := account.Public()
	return &public, nil
}

func (s *Store) GetUserByName(ctx context.Context, name string) (*model.Account, error) {
	account, err := s.services.Auth.GetUserByName(ctx, name)
	if err != nil || account == nil {
		return nil, err
	}
	return &model.Account{ID: account.ID, Name: account.Name}, nil
}

func (s *Store) ListAllUsers(ctx context.Context) ([]model.Account, error) {
	return s.services.Auth.ListAllUsers(ctx)
}

func (s *Store) List(ctx context.Context, userID, skillName string) ([]model.PracticeLog, error) {
	return s.services.Logs.List(ctx, userID, skillName)
}

func (s *Store) ListAll(ctx context.Context, skillName string, status model.LogStatus) ([]model.PracticeLog, error) {
	if err := s.requireAdmin(ctx); err != nil {
		return nil, err
	}
	return s.services.Logs.ListAll(ctx, skillName, status)
}

func (s *Store) Create(ctx context.Context, input model.NewPracticeLog) (*model.PracticeLog, error) {
	return s.services.Logs.Create(ctx, input)
}

func (s *Store) Delete(ctx context.Context, id, userID string) error {
	return s.services.Logs.Delete(ctx, id, userID)
}

func (s *Store) UpdateStatus(ctx context.Context, id string, status model.LogStatus) error {
	if err := s.requireAdmin(ctx); err != nil {
		return err
	}
	return s.services.Logs.UpdateStatus(ctx, id, status)
}

func (s *Store) ListUsers(ctx context.Context) ([]model.Account, error) {
	if err := s.requireAdmin(ctx); err != nil {
		return nil, err
	}
	return s.services.Admin.ListUsers(ctx)
}

func (s *Store) CreateUser(ctx context.Context, input model.NewAccount) (*model.Account, error) {
	if err := s.requireAdmin(ctx); err != nil {
		return nil, err
	}
	return s.services.Admin.CreateUser(ctx, input)
}

func (s *Store) UpdateUser(ctx context.Context, id string, patch model.AccountPatch) (*model.Account, error) {
	if err := s.requireAdmin(ctx); err != nil {
		return nil, err
	}
	return s.services.Admin.UpdateUser(ctx, id, patch)
}

func (s *Store) DeleteUser(ctx context.Context, id string) error {
	if err := s.requireAdmin(ctx); err != nil {
		return err
	}
	return s.services.Admin.DeleteUser(ctx, id)
}

func (s *Store) DeleteLog(ctx context.Context, id string) error {
	if err := s.requireAdmin(ctx); err != nil {
		return err
	}
	return s.services.Logs.AdminDelete(ctx, id)
}
