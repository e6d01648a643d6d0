// Package client is the data layer consumers (the CLI, the state store) use
// to reach the practice log. It exposes three ports with two adapters behind
// them: REST talks to the HTTP API, Store calls the services in-process over
// the same database. New picks one from configuration once at startup.
package client

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/sakif/skill-log/internal/catalog"
	"github.com/sakif/skill-log/internal/config"
	"github.com/sakif/skill-log/internal/model"
	sqliteRepo "github.com/sakif/skill-log/internal/repository/sqlite"
	"github.com/sakif/skill-log/internal/service"
	"github.com/sakif/skill-log/internal/validation"
)

// AuthPort covers sign-up, sign-in and the public lookups.
type AuthPort interface {
	SignUp(ctx context.Context, name, password string) (*model.Account, error)
	SignIn(ctx context.Context, name, password string) (*model.Account, error)
	// GetUserByName returns (nil, nil) when no account matches.
	GetUserByName(ctx context.Context, name string) (*model.Account, error)
	ListAllUsers(ctx context.Context) ([]model.Account, error)
}

// LogPort covers practice logs for owners and moderators.
type LogPort interface {
	List(ctx context.Context, userID, skillName string) ([]model.PracticeLog, error)
	ListAll(ctx context.Context, skillName string, status model.LogStatus) ([]model.PracticeLog, error)
	Create(ctx context.Context, log model.NewPracticeLog) (*model.PracticeLog, error)
	Delete(ctx context.Context, id, userID string) error
	UpdateStatus(ctx context.Context, id string, status model.LogStatus) error
}

// AdminPort covers account management and admin log removal.
type AdminPort interface {
	ListUsers(ctx context.Context) ([]model.Account, error)
	CreateUser(ctx context.Context, input model.NewAccount) (*model.Account, error)
	UpdateUser(ctx context.Context, id string, patch model.AccountPatch) (*model.Account, error)
	DeleteUser(ctx context.Context, id string) error
	DeleteLog(ctx context.Context, id string) error
}

// Client bundles the three ports of one adapter.
type Client struct {
	Auth  AuthPort
	Logs  LogPort
	Admin AdminPort

	caller *Caller
}

// SetCaller records the signed-in account id. Admin calls are made on its
// behalf; an empty id means nobody is signed in.
func (c *Client) SetCaller(accountID string) {
	c.caller.Set(accountID)
}

// Caller is the account id admin calls are made for, shared between a
// Client and its adapter.
type Caller struct {
	mu sync.RWMutex
	id string
}

func (c *Caller) Set(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.id = id
}

func (c *Caller) Get() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.id
}

// NewREST returns a Client backed by the HTTP API at baseURL (".../api").
func NewREST(baseURL string, opts ...RESTOption) *Client {
	caller := &Caller{}
	r := newREST(baseURL, caller, opts...)
	return &Client{Auth: r, Logs: r, Admin: r, caller: caller}
}

// NewStore returns a Client that calls services directly. With enforceAdmin
// set, admin operations require the caller to be an admin account.
func NewStore(services *service.Set, enforceAdmin bool) *Client {
	caller := &Caller{}
	s := &Store{services: services, enforceAdmin: enforceAdmin, caller: caller}
	return &Client{Auth: s, Logs: s, Admin: s, caller: caller}
}

// New builds the Client selected by cfg.ClientBackend. The closer releases
// whatever the adapter holds open (the database for the store backend).
func New(cfg config.Config, logger *slog.Logger) (*Client, io.Closer, error) {
	switch cfg.ClientBackend {
	case config.BackendREST:
		return NewREST(cfg.APIURL), nopCloser{}, nil

	case config.BackendStore:
		cat, err := catalog.Load(cfg.CatalogFile)
		if err != nil {
			return nil, nil, err
		}
		validator, err := validation.New(cfg.NameAlphabet)
		if err != nil {
			return nil, nil, err
		}
		db, err := sqliteRepo.New(cfg.DBPath)
		if err != nil {
			return nil, nil, fmt.Errorf("client: opening database: %w", err)
		}
		return NewStore(service.NewSet(db, db, validator, cat, logger), cfg.AdminEnforce), db, nil
	}

	return nil, nil, fmt.Errorf("client: unknown backend %q", cfg.ClientBackend)
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
