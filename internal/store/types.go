package store

import (
	"time"

	"github.com/go-playground/validator/v10"
)

// MemberProfile is one member's registered profile within a guild. Skills and
// interests are free-text comma-separated term lists; matching treats them
// case-insensitively.
type MemberProfile struct {
	MemberID  string    `json:"member_id" validate:"required"`
	GuildID   string    `json:"guild_id" validate:"required"`
	Username  string    `json:"username" validate:"max=255"`
	JobTitle  string    `json:"job_title" validate:"required,max=100"`
	Skills    string    `json:"skills" validate:"required,max=500"`
	Interests string    `json:"interests" validate:"max=500"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

var validate = validator.New()

// Validate checks the profile against the registration form limits.
func (p *MemberProfile) Validate() error {
	return validate.Struct(p)
}
