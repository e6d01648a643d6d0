// Package repository declares the storage contracts the services depend on.
//
// The store only has to support exact-match, case-insensitive and ordered
// queries over two tables; sqlite is the one implementation shipped.
package repository

import (
	"context"

	"github.com/sakif/skill-log/internal/model"
)

// LogFilter narrows a practice log listing. Empty fields do not filter.
type LogFilter struct {
	UserID    string
	SkillName string
	Status    model.LogStatus

	// WithUserName joins the owning account's name onto every row.
	WithUserName bool
}

type AccountRepository interface {
	CreateAccount(ctx context.Context, account *model.Account) error
	GetAccountByID(ctx context.Context, id string) (*model.Account, error)
	// FindAccountByName matches the name exactly (case-sensitive).
	FindAccountByName(ctx context.Context, name string) (*model.Account, error)
	// FindAccountByNameFold matches the name ignoring case; the oldest
	// account wins when several differ only in case.
	FindAccountByNameFold(ctx context.Context, name string) (*model.Account, error)
	FindAccountByCredentials(ctx context.Context, name, password string) (*model.Account, error)
	ListAccountsByName(ctx context.Context) ([]model.Account, error)
	ListAccountsByNewest(ctx context.Context) ([]model.Account, error)
	UpdateAccount(ctx context.Context, id string, update model.AccountUpdate) (*model.Account, error)
	DeleteAccount(ctx context.Context, id string) error
}

type LogRepository interface {
	CreateLog(ctx context.Context, log *model.PracticeLog) error
	// ListLogs returns matching logs, newest first.
	ListLogs(ctx context.Context, filter LogFilter) ([]model.PracticeLog, error)
	// DeleteOwnedLog removes the log only when userID owns it.
	DeleteOwnedLog(ctx context.Context, id, userID string) error
	DeleteLog(ctx context.Context, id string) error
	UpdateLogStatus(ctx context.Context, id string, status model.LogStatus) error
}
