package model

// Skill is a derived, never persisted view of one catalog skill.
//
// In personal mode only Progress is meaningful; in admin mode the two counts
// are set and Progress stays zero.
type Skill struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Progress      int    `json:"progress"`
	PendingCount  *int   `json:"pendingCount,omitempty"`
	ApprovedCount *int   `json:"approvedCount,omitempty"`
}

// Category groups catalog skill names under a heading.
type Category struct {
	Name   string   `json:"name"   mapstructure:"name"`
	Skills []string `json:"skills" mapstructure:"skills"`
}
