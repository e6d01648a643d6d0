package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/sakif/skill-log/internal/apperror"
	"github.com/sakif/skill-log/internal/model"
	"github.com/sakif/skill-log/internal/repository"
	"github.com/sakif/skill-log/internal/validation"
)

// memStore is an in-memory implementation of both repositories. Rows keep
// insertion order, which stands in for created_at.
type memStore struct {
	mu       sync.Mutex
	accounts []model.Account
	logs     []model.PracticeLog
	nextID   int

	// failWith, when set, is returned by every call.
	failWith error
}

var (
	_ repository.AccountRepository = (*memStore)(nil)
	_ repository.LogRepository     = (*memStore)(nil)
)

func newMemStore() *memStore {
	return &memStore{}
}

func (m *memStore) id(prefix string) string {
	m.nextID++
	return fmt.Sprintf("%s-%d", prefix, m.nextID)
}

func (m *memStore) CreateAccount(_ context.Context, account *model.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return m.failWith
	}
	for _, a := range m.accounts {
		if a.Name == account.Name {
			return apperror.DuplicateName(account.Name)
		}
	}
	account.ID = m.id("acc")
	account.CreatedAt = time.Now().UTC()
	if account.Role == "" {
		account.Role = model.RoleUser
	}
	m.accounts = append(m.accounts, *account)
	return nil
}

func (m *memStore) findAccount(match func(model.Account) bool, key string) (*model.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	for _, a := range m.accounts {
		if match(a) {
			found := a
			return &found, nil
		}
	}
	return nil, apperror.NotFound("account", key)
}

func (m *memStore) GetAccountByID(_ context.Context, id string) (*model.Account, error) {
	return m.findAccount(func(a model.Account) bool { return a.ID == id }, id)
}

func (m *memStore) FindAccountByName(_ context.Context, name string) (*model.Account, error) {
	return m.findAccount(func(a model.Account) bool { return a.Name == name }, name)
}

func (m *memStore) FindAccountByNameFold(_ context.Context, name string) (*model.Account, error) {
	return m.findAccount(func(a model.Account) bool { return strings.EqualFold(a.Name, name) }, name)
}

func (m *memStore) FindAccountByCredentials(_ context.Context, name, password string) (*model.Account, error) {
	return m.findAccount(func(a model.Account) bool { return a.Name == name && a.Password == password }, name)
}

func (m *memStore) ListAccountsByName(_ context.Context) ([]model.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	out := slices.Clone(m.accounts)
	slices.SortStableFunc(out, func(a, b model.Account) int { return strings.Compare(a.Name, b.Name) })
	return out, nil
}

func (m *memStore) ListAccountsByNewest(_ context.Context) ([]model.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	out := slices.Clone(m.accounts)
	slices.Reverse(out)
	return out, nil
}

func (m *memStore) UpdateAccount(_ context.Context, id string, update model.AccountUpdate) (*model.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	if update.Empty() {
		return nil, apperror.NoUpdates()
	}
	for i := range m.accounts {
		if m.accounts[i].ID != id {
			continue
		}
		if update.Name != nil {
			for _, other := range m.accounts {
				if other.ID != id && other.Name == *update.Name {
					return nil, apperror.DuplicateName(*update.Name)
				}
			}
			m.accounts[i].Name = *update.Name
		}
		if update.Password != nil {
			m.accounts[i].Password = *update.Password
		}
		if update.Role != nil {
			m.accounts[i].Role = *update.Role
		}
		updated := m.accounts[i]
		return &updated, nil
	}
	return nil, apperror.NotFound("account", id)
}

func (m *memStore) DeleteAccount(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return m.failWith
	}
	m.accounts = slices.DeleteFunc(m.accounts, func(a model.Account) bool { return a.ID == id })
	return nil
}

func (m *memStore) CreateLog(_ context.Context, log *model.PracticeLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return m.failWith
	}
	log.ID = m.id("log")
	log.Status = model.StatusPending
	log.CreatedAt = time.Now().UTC()
	m.logs = append(m.logs, *log)
	return nil
}

func (m *memStore) ListLogs(_ context.Context, filter repository.LogFilter) ([]model.PracticeLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	out := make([]model.PracticeLog, 0)
	for i := len(m.logs) - 1; i >= 0; i-- {
		l := m.logs[i]
		if filter.UserID != "" && l.UserID != filter.UserID {
			continue
		}
		if filter.SkillName != "" && l.SkillName != filter.SkillName {
			continue
		}
		if filter.Status != "" && l.Status != filter.Status {
			continue
		}
		if filter.WithUserName {
			for _, a := range m.accounts {
				if a.ID == l.UserID {
					l.UserName = a.Name
				}
			}
		}
		out = append(out, l)
	}
	return out, nil
}

func (m *memStore) DeleteOwnedLog(_ context.Context, id, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return m.failWith
	}
	before := len(m.logs)
	m.logs = slices.DeleteFunc(m.logs, func(l model.PracticeLog) bool { return l.ID == id && l.UserID == userID })
	if len(m.logs) == before {
		return apperror.NotAuthorizedOrNotFound()
	}
	return nil
}

func (m *memStore) DeleteLog(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return m.failWith
	}
	before := len(m.logs)
	m.logs = slices.DeleteFunc(m.logs, func(l model.PracticeLog) bool { return l.ID == id })
	if len(m.logs) == before {
		return apperror.NotFound("practice log", id)
	}
	return nil
}

func (m *memStore) UpdateLogStatus(_ context.Context, id string, status model.LogStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return m.failWith
	}
	for i := range m.logs {
		if m.logs[i].ID == id {
			m.logs[i].Status = status
			return nil
		}
	}
	return apperror.NotFound("practice log", id)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testValidator(t *testing.T) *validation.Validator {
	t.Helper()
	v, err := validation.New("")
	if err != nil {
		t.Fatalf("validation.New() error = %v", err)
	}
	return v
}
