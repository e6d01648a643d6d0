// Package state holds the client-side application state: the signed-in
// session and the skill list derived from practice logs.
//
// Nothing is updated incrementally. Every mutation goes through the client
// and then re-fetches the logs and re-derives the skills. Concurrent fetches
// are not sequenced; whichever response lands last wins.
package state

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/sakif/skill-log/internal/apperror"
	"github.com/sakif/skill-log/internal/catalog"
	"github.com/sakif/skill-log/internal/client"
	"github.com/sakif/skill-log/internal/model"
	"github.com/sakif/skill-log/internal/progress"
)

// MinSubmissionWords is the word count a practice text must reach.
const MinSubmissionWords = 200

// CountWords counts whitespace-delimited words.
func CountWords(content string) int {
	return len(strings.Fields(content))
}

// CheckSubmission is the gate a practice text must pass before it is sent.
func CheckSubmission(content, postLink string) error {
	if n := CountWords(content); n < MinSubmissionWords {
		return apperror.ValidationFailed("content",
			fmt.Sprintf("Минимум %d слов (сейчас %d)", MinSubmissionWords, n))
	}
	if strings.TrimSpace(postLink) == "" {
		return apperror.ValidationFailed("post_link", "Укажите ссылку на пост")
	}
	return nil
}

// Store is the application state. Create it with New; it is safe for
// concurrent use.
type Store struct {
	client   *client.Client
	sessions SessionStore
	catalog  *catalog.Catalog
	logger   *slog.Logger

	mu         sync.RWMutex
	user       *model.Account
	skills     []model.Skill
	loading    bool
	viewAsUser bool
}

// New restores a persisted session, if any, and derives the initial skills.
// A failed first fetch is logged, not returned: the store is still usable.
func New(ctx context.Context, c *client.Client, sessions SessionStore, cat *catalog.Catalog, logger *slog.Logger) (*Store, error) {
	s := &Store{
		client:   c,
		sessions: sessions,
		catalog:  cat,
		logger:   logger,
		skills:   progress.Zero(cat.Names()),
	}

	session, err := sessions.Load(ctx)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return s, nil
	}

	s.user = session.Account()
	c.SetCaller(session.ID)
	if err := s.FetchSkills(ctx, false); err != nil {
		logger.Warn("initial skill fetch failed", slog.String("error", err.Error()))
	}
	return s, nil
}

// User returns the signed-in account, or nil.
func (s *Store) User() *model.Account {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// Skills returns the current derived skill list.
func (s *Store) Skills() []model.Skill {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.Skill(nil), s.skills...)
}

// Loading reports whether a fetch is in flight.
func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// SetUser makes account the session (persisting it) or, when nil, clears it.
func (s *Store) SetUser(ctx context.Context, account *model.Account) error {
	if account == nil {
		return s.SignOut(ctx)
	}

	session := sessionOf(account)
	if err := s.sessions.Save(ctx, session); err != nil {
		return err
	}

	s.mu.Lock()
	s.user = session.Account()
	s.mu.Unlock()
	s.client.SetCaller(account.ID)
	return nil
}

// SignUp registers an account and signs it in.
func (s *Store) SignUp(ctx context.Context, name, password string) (*model.Account, error) {
	account, err := s.client.Auth.SignUp(ctx, name, password)
	if err != nil {
		return nil, err
	}
	return account, s.signedIn(ctx, account)
}

// SignIn checks credentials and signs the account in.
func (s *Store) SignIn(ctx context.Context, name, password string) (*model.Account, error) {
	account, err := s.client.Auth.SignIn(ctx, name, password)
	if err != nil {
		return nil, err
	}
	return account, s.signedIn(ctx, account)
}

func (s *Store) signedIn(ctx context.Context, account *model.Account) error {
	if err := s.SetUser(ctx, account); err != nil {
		return err
	}
	return s.FetchSkills(ctx, false)
}

// FetchSkills re-derives the skill list. An admin sees the approved/pending
// counts across everyone unless viewAsUser is set; everyone else sees their
// own progress. Without a session the list is left as is.
func (s *Store) FetchSkills(ctx context.Context, viewAsUser bool) error {
	user := s.User()
	if user == nil {
		return nil
	}

	s.mu.Lock()
	s.loading = true
	s.viewAsUser = viewAsUser
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.loading = false
		s.mu.Unlock()
	}()

	var skills []model.Skill
	if user.IsAdmin() && !viewAsUser {
		logs, err := s.client.Logs.ListAll(ctx, "", "")
		if err != nil {
			return fmt.Errorf("state: fetching all logs: %w", err)
		}
		skills = progress.Admin(s.catalog.Names(), logs)
	} else {
		logs, err := s.client.Logs.List(ctx, user.ID, "")
		if err != nil {
			return fmt.Errorf("state: fetching logs: %w", err)
		}
		skills = progress.Personal(s.catalog.Names(), logs)
	}

	s.mu.Lock()
	s.skills = skills
	s.mu.Unlock()
	return nil
}

// refetch repeats the last fetch mode after a mutation.
func (s *Store) refetch(ctx context.Context) error {
	s.mu.RLock()
	viewAsUser := s.viewAsUser
	s.mu.RUnlock()
	return s.FetchSkills(ctx, viewAsUser)
}

// AddPracticeLog submits content for skillName once it passes
// CheckSubmission. The stored word count is the one computed here.
func (s *Store) AddPracticeLog(ctx context.Context, skillName, content, postLink string) (*model.PracticeLog, error) {
	user := s.User()
	if user == nil {
		return nil, apperror.Forbidden("sign in first")
	}
	if err := CheckSubmission(content, postLink); err != nil {
		return nil, err
	}
	if !s.catalog.Contains(skillName) {
		s.logger.Warn("submitting for a skill outside the catalog, it will not count towards progress",
			slog.String("skill", skillName))
	}

	log, err := s.client.Logs.Create(ctx, model.NewPracticeLog{
		UserID:    user.ID,
		SkillName: skillName,
		Content:   content,
		WordCount: CountWords(content),
		PostLink:  strings.TrimSpace(postLink),
	})
	if err != nil {
		return nil, err
	}
	return log, s.refetch(ctx)
}

// MyLogs lists the signed-in account's logs, optionally for one skill.
func (s *Store) MyLogs(ctx context.Context, skillName string) ([]model.PracticeLog, error) {
	user := s.User()
	if user == nil {
		return nil, apperror.Forbidden("sign in first")
	}
	return s.client.Logs.List(ctx, user.ID, skillName)
}

// DeletePracticeLog removes one of the signed-in account's logs.
func (s *Store) DeletePracticeLog(ctx context.Context, id string) error {
	user := s.User()
	if user == nil {
		return nil
	}
	if err := s.client.Logs.Delete(ctx, id, user.ID); err != nil {
		return err
	}
	return s.refetch(ctx)
}

// UpdateLogStatus moderates a log. For anyone but an admin it does nothing.
func (s *Store) UpdateLogStatus(ctx context.Context, id string, status model.LogStatus) error {
	user := s.User()
	if user == nil || !user.IsAdmin() {
		return nil
	}
	if err := s.client.Logs.UpdateStatus(ctx, id, status); err != nil {
		return err
	}
	return s.refetch(ctx)
}

// SignOut forgets the session and resets the skills to zero progress.
func (s *Store) SignOut(ctx context.Context) error {
	if err := s.sessions.Clear(ctx); err != nil {
		return err
	}

	s.mu.Lock()
	s.user = nil
	s.viewAsUser = false
	s.skills = progress.Zero(s.catalog.Names())
	s.mu.Unlock()
	s.client.SetCaller("")
	return nil
}
