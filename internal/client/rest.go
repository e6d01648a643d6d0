package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sakif/skill-log/internal/apperror"
	"github.com/sakif/skill-log/internal/middleware"
	"github.com/sakif/skill-log/internal/model"
)

// RESTOption customizes the REST adapter.
type RESTOption func(*REST)

// WithHTTPClient replaces the default client (10s timeout).
func WithHTTPClient(c *http.Client) RESTOption {
	return func(r *REST) { r.http = c }
}

// REST implements every port against the HTTP API.
type REST struct {
	baseURL string
	http    *http.Client
	caller  *Caller
}

var (
	_ AuthPort  = (*REST)(nil)
	_ LogPort   = (*REST)(nil)
	_ AdminPort = (*REST)(nil)
)

func newREST(baseURL string, caller *Caller, opts ...RESTOption) *REST {
	r := &REST{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
		caller:  caller,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// do sends one request. Error responses are turned back into domain errors
// from their {"error","message"} body.
func (r *REST) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	target := r.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("client: encoding %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return fmt.Errorf("client: building %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if id := r.caller.Get(); id != "" {
		req.Header.Set(middleware.AccountHeader, id)
	}

	resp, err := r.http.Do(req)
	if err != nil {
		return fmt.Errorf("client: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		var eb errorBody
		if err := json.NewDecoder(resp.Body).Decode(&eb); err != nil || eb.Error == "" {
			return fmt.Errorf("client: %s %s: unexpected status %d", method, path, resp.StatusCode)
		}
		return apperror.FromCode(eb.Error, eb.Message)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("client: decoding %s %s: %w", method, path, err)
	}
	return nil
}

func (r *REST) SignUp(ctx context.Context, name, password string) (*model.Account, error) {
	var account model.Account
	if err := r.do(ctx, http.MethodPost, "/auth/signup", nil, model.Credentials{Name: name, Password: password}, &account); err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *REST) SignIn(ctx context.Context, name, password string) (*model.Account, error) {
	var account model.Account
	if err := r.do(ctx, http.MethodPost, "/auth/login", nil, model.Credentials{Name: name, Password: password}, &account); err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *REST) GetUserByName(ctx context.Context, name string) (*model.Account, error) {
	var account model.Account
	err := r.do(ctx, http.MethodGet, "/users/"+url.PathEscape(name), nil, nil, &account)
	if errors.Is(err, apperror.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *REST) ListAllUsers(ctx context.Context) ([]model.Account, error) {
	var users []model.Account
	if err := r.do(ctx, http.MethodGet, "/users", nil, nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (r *REST) List(ctx context.Context, userID, skillName string) ([]model.PracticeLog, error) {
	q := url.Values{"user_id": {userID}}
	if skillName != "" {
		q.Set("skill_name", skillName)
	}
	var logs []model.PracticeLog
	if err := r.do(ctx, http.MethodGet, "/logs", q, nil, &logs); err != nil {
		return nil, err
	}
	return logs, nil
}

func (r *REST) ListAll(ctx context.Context, skillName string, status model.LogStatus) ([]model.PracticeLog, error) {
	q := url.Values{}
	if skillName != "" {
		q.Set("skill_name", skillName)
	}
	if status != "" {
		q.Set("status", string(status))
	}
	var logs []model.PracticeLog
	if err := r.do(ctx, http.MethodGet, "/admin/logs", q, nil, &logs); err != nil {
		return nil, err
	}
	return logs, nil
}

func (r *REST) Create(ctx context.Context, input model.NewPracticeLog) (*model.PracticeLog, error) {
	var log model.PracticeLog
	if err := r.do(ctx, http.MethodPost, "/logs", nil, input, &log); err != nil {
		return nil, err
	}
	return &log, nil
}

func (r *REST) Delete(ctx context.Context, id, userID string) error {
	return r.do(ctx, http.MethodDelete, "/logs/"+url.PathEscape(id), nil, model.OwnerRef{UserID: userID}, nil)
}

func (r *REST) UpdateStatus(ctx context.Context, id string, status model.LogStatus) error {
	return r.do(ctx, http.MethodPatch, "/admin/logs/"+url.PathEscape(id)+"/status", nil, model.StatusChange{Status: status}, nil)
}

func (r *REST) ListUsers(ctx context.Context) ([]model.Account, error) {
	var users []model.Account
	if err := r.do(ctx, http.MethodGet, "/admin/users", nil, nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (r *REST) CreateUser(ctx context.Context, input model.NewAccount) (*model.Account, error) {
	var account model.Account
	if err := r.do(ctx, http.MethodPost, "/admin/users", nil, input, &account); err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *REST) UpdateUser(ctx context.Context, id string, patch model.AccountPatch) (*model.Account, error) {
	var account model.Account
	if err := r.do(ctx, http.MethodPatch, "/admin/users/"+url.PathEscape(id), nil, patch, &account); err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *REST) DeleteUser(ctx context.Context, id string) error {
	return r.do(ctx, http.MethodDelete, "/admin/users/"+url.PathEscape(id), nil, nil, nil)
}

func (r *REST) DeleteLog(ctx context.Context, id string) error {
	return r.do(ctx, http.MethodDelete, "/admin/logs/"+url.PathEscape(id), nil, nil, nil)
}
