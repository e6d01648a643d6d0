package model

import "time"

// LogStatus is the moderation state of a practice log.
type LogStatus string

const (
	StatusPending  LogStatus = "pending"
	StatusApproved LogStatus = "approved"
	StatusRejected LogStatus = "rejected"
)

// Valid reports whether s is a known status.
func (s LogStatus) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// PracticeLog is one submitted text entry against a named skill.
//
// SkillName is not checked against the catalog and WordCount is whatever the
// client computed; the store accepts both as-is.
type PracticeLog struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	SkillName string    `json:"skill_name"`
	Content   string    `json:"content"`
	WordCount int       `json:"word_count"`
	PostLink  string    `json:"post_link,omitempty"`
	Status    LogStatus `json:"status"`
	CreatedAt time.Time `json:"created_at"`

	// UserName is filled only by the admin-wide listing (joined from accounts).
	UserName string `json:"user_name,omitempty"`
}
