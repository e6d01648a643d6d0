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

// LogService handles practice log submission, listing and moderation.
type LogService struct {
	logs      repository.LogRepository
	validator *validation.Validator
	logger    *slog.Logger
}

func NewLogService(logs repository.LogRepository, validator *validation.Validator, logger *slog.Logger) *LogService {
	return &LogService{
		logs:      logs,
		validator: validator,
		logger:    logger,
	}
}

// List returns one account's logs, newest first, optionally for one skill.
func (s *LogService) List(ctx context.Context, userID, skillName string) ([]model.PracticeLog, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, apperror.ValidationFailed("user_id", "user_id is required")
	}

	logs, err := s.logs.ListLogs(ctx, repository.LogFilter{
		UserID:    userID,
		SkillName: skillName,
	})
	if err != nil {
		s.logger.Error("failed to list logs",
			slog.String("user_id", userID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("listing logs: %w", err)
	}
	return logs, nil
}

// ListAll returns logs across every account, each carrying its owner's name.
func (s *LogService) ListAll(ctx context.Context, skillName string, status model.LogStatus) ([]model.PracticeLog, error) {
	if status != "" && !status.Valid() {
		return nil, apperror.ValidationFailed("status",
			fmt.Sprintf("unknown status %q", status))
	}

	logs, err := s.logs.ListLogs(ctx, repository.LogFilter{
		SkillName:    skillName,
		Status:       status,
		WithUserName: true,
	})
	if err != nil {
		s.logger.Error("failed to list all logs", slog.String("error", err.Error()))
		return nil, fmt.Errorf("listing all logs: %w", err)
	}
	return logs, nil
}

// Create stores a submission as pending. The word count is stored as given.
func (s *LogService) Create(ctx context.Context, input model.NewPracticeLog) (*model.PracticeLog, error) {
	input.UserID = strings.TrimSpace(input.UserID)
	input.SkillName = strings.TrimSpace(input.SkillName)
	if err := s.validator.Struct(input, nil); err != nil {
		return nil, err
	}

	log := &model.PracticeLog{
		UserID:    input.UserID,
		SkillName: input.SkillName,
		Content:   input.Content,
		WordCount: input.WordCount,
		PostLink:  strings.TrimSpace(input.PostLink),
	}
	if err := s.logs.CreateLog(ctx, log); err != nil {
		s.logger.Error("failed to create log",
			slog.String("user_id", input.UserID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating log: %w", err)
	}

	observability.LogsSubmitted().WithLabelValues(log.SkillName).Inc()
	s.logger.Info("practice log submitted",
		slog.String("id", log.ID),
		slog.String("user_id", log.UserID),
		slog.String("skill", log.SkillName),
	)
	return log, nil
}

// Delete removes a log owned by userID. A missing log and someone else's log
// both yield NotAuthorizedOrNotFound.
func (s *LogService) Delete(ctx context.Context, id, userID string) error {
	if err := s.logs.DeleteOwnedLog(ctx, id, strings.TrimSpace(userID)); err != nil {
		if errors.Is(err, apperror.ErrNotAuthorizedOrNotFound) {
			return err
		}
		s.logger.Error("failed to delete log",
			slog.String("id", id),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("deleting log: %w", err)
	}
	return nil
}

// AdminDelete removes any log regardless of owner.
func (s *LogService) AdminDelete(ctx context.Context, id string) error {
	if err := s.logs.DeleteLog(ctx, id); err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return err
		}
		s.logger.Error("failed to delete log",
			slog.String("id", id),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("deleting log: %w", err)
	}

	s.logger.Info("practice log removed by admin", slog.String("id", id))
	return nil
}

// UpdateStatus records a moderation decision. Only approved and rejected are
// accepted; the current status is not checked.
func (s *LogService) UpdateStatus(ctx context.Context, id string, status model.LogStatus) error {
	if status != model.StatusApproved && status != model.StatusRejected {
		return apperror.ValidationFailed("status", "status must be approved or rejected")
	}

	if err := s.logs.UpdateLogStatus(ctx, id, status); err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return err
		}
		s.logger.Error("failed to update log status",
			slog.String("id", id),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("updating log status: %w", err)
	}

	observability.LogsModerated().WithLabelValues(string(status)).Inc()
	s.logger.Info("practice log moderated",
		slog.String("id", id),
		slog.String("status", string(status)),
	)
	return nil
}
