package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Poll option bounds.
const (
	MinPollOptions = 2
	MaxPollOptions = 6
)

// Poll is a one-shot survey. TotalVotes equals the sum of its options' VoteCount.
type Poll struct {
	ID         string       `gorm:"type:varchar(36);primaryKey" json:"id"`
	UserID     string       `gorm:"type:varchar(36);not null;index" json:"userId"`
	User       *User        `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Question   string       `gorm:"type:text;not null" json:"question"`
	Category   Category     `gorm:"type:varchar(20);not null;index" json:"category"`
	TotalVotes int          `gorm:"not null;default:0" json:"totalVotes"`
	CreatedAt  time.Time    `gorm:"not null;index" json:"createdAt"`
	ExpiresAt  *time.Time   `json:"expiresAt"`
	Options    []PollOption `gorm:"foreignKey:PollID;constraint:OnDelete:CASCADE" json:"options"`
	Votes      []PollVote   `gorm:"foreignKey:PollID;constraint:OnDelete:CASCADE" json:"-"`
	// UserVotedOptionID is the option the requesting user picked (computed)
	UserVotedOptionID *string `gorm:"-" json:"userVotedOptionId"`
}

// BeforeCreate assigns a UUID when the caller did not.
func (p *Poll) BeforeCreate(*gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// PollOption is one answer of a poll. Position keeps the author's order.
type PollOption struct {
	ID         string     `gorm:"type:varchar(36);primaryKey" json:"id"`
	PollID     string     `gorm:"type:varchar(36);not null;index" json:"pollId"`
	OptionText string     `gorm:"type:text;not null" json:"optionText"`
	VoteCount  int        `gorm:"not null;default:0" json:"voteCount"`
	Position   int        `gorm:"not null;default:0" json:"-"`
	Votes      []PollVote `gorm:"foreignKey:OptionID;constraint:OnDelete:CASCADE" json:"-"`
}

// BeforeCreate assigns a UUID when the caller did not.
func (o *PollOption) BeforeCreate(*gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	return nil
}

// PollVote records a user's single, permanent choice in a poll.
type PollVote struct {
	ID        string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	PollID    string    `gorm:"type:varchar(36);not null;uniqueIndex:idx_poll_votes_poll_user" json:"pollId"`
	OptionID  string    `gorm:"type:varchar(36);not null;index" json:"optionId"`
	UserID    string    `gorm:"type:varchar(36);not null;uniqueIndex:idx_poll_votes_poll_user" json:"userId"`
	CreatedAt time.Time `gorm:"not null" json:"createdAt"`
}

// BeforeCreate assigns a UUID when the caller did not.
func (v *PollVote) BeforeCreate(*gorm.DB) error {
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	return nil
}
