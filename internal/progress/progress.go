// Package progress derives per-skill views from practice logs.
//
// Nothing here is stored: every function is a pure grouping over the logs it
// is given, and every catalog skill is always present in the result (with zero
// counts when no log matches), keyed by its name.
package progress

import (
	"sort"

	"github.com/sakif/skill-log/internal/model"
)

// MaxProgress caps the number of approved logs that count towards a skill.
const MaxProgress = 100

// Personal computes one user's progress per catalog skill:
// min(MaxProgress, approved logs for that skill). Logs for skills outside
// the catalog are ignored. Result is sorted by progress, highest first; ties
// keep catalog order.
func Personal(names []string, logs []model.PracticeLog) []model.Skill {
	skills := Profile(names, logs)
	sort.SliceStable(skills, func(i, j int) bool {
		return skills[i].Progress > skills[j].Progress
	})
	return skills
}

// Profile is Personal without the sort: skills stay in catalog order, as the
// public profile page lists them by category.
func Profile(names []string, logs []model.PracticeLog) []model.Skill {
	approved := make(map[string]int)
	for _, log := range logs {
		if log.Status == model.StatusApproved {
			approved[log.SkillName]++
		}
	}

	skills := make([]model.Skill, 0, len(names))
	for _, name := range names {
		skills = append(skills, model.Skill{
			ID:       name,
			Name:     name,
			Progress: min(approved[name], MaxProgress),
		})
	}
	return skills
}

// Admin counts approved and pending logs per catalog skill across every user.
// Rejected logs are not counted and no progress percentage is computed.
func Admin(names []string, logs []model.PracticeLog) []model.Skill {
	approved := make(map[string]int)
	pending := make(map[string]int)
	for _, log := range logs {
		switch log.Status {
		case model.StatusApproved:
			approved[log.SkillName]++
		case model.StatusPending:
			pending[log.SkillName]++
		}
	}

	skills := make([]model.Skill, 0, len(names))
	for _, name := range names {
		a, p := approved[name], pending[name]
		skills = append(skills, model.Skill{
			ID:            name,
			Name:          name,
			ApprovedCount: &a,
			PendingCount:  &p,
		})
	}
	return skills
}

// Zero returns every catalog skill with no progress, the state shown before
// anything has been fetched and after sign-out.
func Zero(names []string) []model.Skill {
	return Profile(names, nil)
}
