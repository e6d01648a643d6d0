package state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/redis/go-redis/v9"

	"github.com/sakif/skill-log/internal/model"
)

// SessionKey is the key the session record is persisted under.
const SessionKey = "hogwarts_wizard_session"

// Session is the persisted identity of the signed-in account.
type Session struct {
	ID   string     `json:"id"`
	Name string     `json:"name"`
	Role model.Role `json:"role"`
}

func sessionOf(a *model.Account) Session {
	return Session{ID: a.ID, Name: a.Name, Role: a.Role}
}

// Account returns the account view of the session.
func (s Session) Account() *model.Account {
	return &model.Account{ID: s.ID, Name: s.Name, Role: s.Role}
}

// SessionStore persists at most one session between runs.
type SessionStore interface {
	// Load returns (nil, nil) when no session is stored.
	Load(ctx context.Context) (*Session, error)
	Save(ctx context.Context, s Session) error
	Clear(ctx context.Context) error
}

// FileSessionStore keeps the session in a JSON file as
// {"hogwarts_wizard_session": {...}}.
type FileSessionStore struct {
	path string
}

func NewFileSessionStore(path string) *FileSessionStore {
	return &FileSessionStore{path: path}
}

func (f *FileSessionStore) Load(_ context.Context) (*Session, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("state: reading session file: %w", err)
	}

	var file map[string]*Session
	if err := json.Unmarshal(data, &file); err != nil {
		// an unreadable record counts as signed out
		return nil, nil
	}
	return file[SessionKey], nil
}

func (f *FileSessionStore) Save(_ context.Context, s Session) error {
	data, err := json.Marshal(map[string]Session{SessionKey: s})
	if err != nil {
		return fmt.Errorf("state: encoding session: %w", err)
	}
	if dir := filepath.Dir(f.path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("state: creating session dir: %w", err)
		}
	}
	if err := os.WriteFile(f.path, data, 0o600); err != nil {
		return fmt.Errorf("state: writing session file: %w", err)
	}
	return nil
}

func (f *FileSessionStore) Clear(_ context.Context) error {
	if err := os.Remove(f.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("state: removing session file: %w", err)
	}
	return nil
}

// RedisSessionStore keeps the session as a JSON string under SessionKey.
type RedisSessionStore struct {
	client redis.UniversalClient
}

func NewRedisSessionStore(client redis.UniversalClient) *RedisSessionStore {
	return &RedisSessionStore{client: client}
}

// OpenRedis connects to the server at a redis:// URL.
func OpenRedis(ctx context.Context, rawURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("state: parsing redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("state: connecting to redis: %w", err)
	}
	return client, nil
}

func (r *RedisSessionStore) Load(ctx context.Context) (*Session, error) {
	data, err := r.client.Get(ctx, SessionKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("state: loading session: %w", err)
	}

	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, nil
	}
	return &s, nil
}

func (r *RedisSessionStore) Save(ctx context.Context, s Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("state: encoding session: %w", err)
	}
	if err := r.client.Set(ctx, SessionKey, data, 0).Err(); err != nil {
		return fmt.Errorf("state: saving session: %w", err)
	}
	return nil
}

func (r *RedisSessionStore) Clear(ctx context.Context) error {
	if err := r.client.Del(ctx, SessionKey).Err(); err != nil {
		return fmt.Errorf("state: clearing session: %w", err)
	}
	return nil
}
