package sqlite

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/xid"

	"github.com/sakif/skill-log/internal/apperror"
	"github.com/sakif/skill-log/internal/model"
	"github.com/sakif/skill-log/internal/repository"
)

// compile-time check that *DB implements repository.LogRepository
var _ repository.LogRepository = (*DB)(nil)

// CreateLog inserts a practice log. Status is always stored as pending,
// whatever the caller put in log.Status.
func (db *DB) CreateLog(ctx context.Context, log *model.PracticeLog) error {
	log.ID = xid.New().String()
	log.Status = model.StatusPending
	log.CreatedAt = time.Now().UTC()

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO practice_logs (id, user_id, skill_name, content, word_count, post_link, status, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		log.ID,
		log.UserID,
		log.SkillName,
		log.Content,
		log.WordCount,
		log.PostLink,
		log.Status,
		log.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating practice log: %w", err)
	}

	return nil
}

// ListLogs builds one SELECT (one LEFT JOIN when user names are requested)
// from the filter. Only values are bound; the SQL shape comes from constants.
func (db *DB) ListLogs(ctx context.Context, filter repository.LogFilter) ([]model.PracticeLog, error) {
	query := `SELECT l.id, l.user_id, l.skill_name, l.content, l.word_count, l.post_link, l.status, l.created_at, `
	if filter.WithUserName {
		query += `COALESCE(a.name, '') FROM practice_logs l LEFT JOIN accounts a ON a.id = l.user_id`
	} else {
		query += `'' FROM practice_logs l`
	}

	var (
		where []string
		args  []any
	)
	if filter.UserID != "" {
		where = append(where, "l.user_id = ?")
		args = append(args, filter.UserID)
	}
	if filter.SkillName != "" {
		where = append(where, "l.skill_name = ?")
		args = append(args, filter.SkillName)
	}
	if filter.Status != "" {
		where = append(where, "l.status = ?")
		args = append(args, filter.Status)
	}
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY l.created_at DESC, l.rowid DESC`

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing practice logs: %w", err)
	}
	defer rows.Close()

	logs := make([]model.PracticeLog, 0)
	for rows.Next() {
		var l model.PracticeLog
		if err := rows.Scan(
			&l.ID, &l.UserID, &l.SkillName, &l.Content, &l.WordCount,
			&l.PostLink, &l.Status, &l.CreatedAt, &l.UserName,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scanning practice log row: %w", err)
		}
		logs = append(logs, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating practice logs: %w", err)
	}

	return logs, nil
}

// DeleteOwnedLog deletes in a single statement keyed on both id and owner, so
// "missing" and "owned by someone else" are indistinguishable to the caller.
func (db *DB) DeleteOwnedLog(ctx context.Context, id, userID string) error {
	result, err := db.conn.ExecContext(ctx,
		`DELETE FROM practice_logs WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("sqlite: deleting practice log %s: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotAuthorizedOrNotFound()
	}
	return nil
}

func (db *DB) DeleteLog(ctx context.Context, id string) error {
	result, err := db.conn.ExecContext(ctx, `DELETE FROM practice_logs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: deleting practice log %s: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("practice log", id)
	}
	return nil
}

// UpdateLogStatus overwrites the status. There is no transition check: an
// already approved or rejected log can be set again.
func (db *DB) UpdateLogStatus(ctx context.Context, id string, status model.LogStatus) error {
	result, err := db.conn.ExecContext(ctx,
		`UPDATE practice_logs SET status = ? WHERE id = ?`, status, id)
	if err != nil {
		return fmt.Errorf("sqlite: updating practice log %s status: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("practice log", id)
	}
	return nil
}
