package model

// Credentials is the body of sign-up and sign-in.
type Credentials struct {
	Name     string `json:"name"     validate:"required,wizardname"`
	Password string `json:"password" validate:"min=6"`
}

// NewAccount is an admin-created account. An empty Role means RoleUser.
// The sign-up alphabet does not apply to names chosen by an admin.
type NewAccount struct {
	Name     string `json:"name"           validate:"required"`
	Password string `json:"password"       validate:"min=6"`
	Role     Role   `json:"role,omitempty" validate:"omitempty,oneof=user admin"`
}

// AccountPatch is the wire form of AccountUpdate. Absent fields are nil;
// anything other than these three fields is rejected when decoding.
type AccountPatch struct {
	Name     *string `json:"name,omitempty"     validate:"omitempty,min=1"`
	Password *string `json:"password,omitempty" validate:"omitempty,min=6"`
	Role     *Role   `json:"role,omitempty"     validate:"omitempty,oneof=user admin"`
}

// Update converts the patch into the store command.
func (p AccountPatch) Update() AccountUpdate {
	return AccountUpdate{Name: p.Name, Password: p.Password, Role: p.Role}
}

// NewPracticeLog carries the caller-supplied fields of a submission. Status,
// ID and CreatedAt are always assigned by the store.
type NewPracticeLog struct {
	UserID    string `json:"user_id"             validate:"required"`
	SkillName string `json:"skill_name"          validate:"required"`
	Content   string `json:"content"`
	WordCount int    `json:"word_count"`
	PostLink  string `json:"post_link,omitempty"`
}

// OwnerRef is the body of an owner-scoped delete.
type OwnerRef struct {
	UserID string `json:"user_id"`
}

// StatusChange is the body of a moderation decision.
type StatusChange struct {
	Status LogStatus `json:"status"`
}

// Success is the acknowledgement returned by deletes and status updates.
type Success struct {
	Success bool `json:"success"`
}
