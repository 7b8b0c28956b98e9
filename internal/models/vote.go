package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// VoteType is the sign of a vote.
type VoteType int

const (
	// VoteUp is an upvote.
	VoteUp VoteType = 1
	// VoteDown is a downvote.
	VoteDown VoteType = -1
)

// Valid reports whether v is +1 or -1.
func (v VoteType) Valid() bool {
	return v == VoteUp || v == VoteDown
}

// Vote is a user's vote on exactly one post or comment. The unique indexes
// guarantee at most one row per (user, post) and per (user, comment).
type Vote struct {
	ID        string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	UserID    string    `gorm:"type:varchar(36);not null;uniqueIndex:idx_votes_user_post;uniqueIndex:idx_votes_user_comment" json:"userId"`
	PostID    *string   `gorm:"type:varchar(36);uniqueIndex:idx_votes_user_post;index" json:"postId"`
	CommentID *string   `gorm:"type:varchar(36);uniqueIndex:idx_votes_user_comment;index" json:"commentId"`
	VoteType  VoteType  `gorm:"not null" json:"voteType"`
	CreatedAt time.Time `gorm:"not null" json:"createdAt"`
}

// BeforeCreate assigns a UUID when the caller did not.
func (v *Vote) BeforeCreate(*gorm.DB) error {
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	return nil
}

// Target returns the post or comment the vote applies to.
func (v *Vote) Target() VoteTarget {
	if v.PostID != nil {
		return PostTarget(*v.PostID)
	}
	if v.CommentID != nil {
		return CommentTarget(*v.CommentID)
	}
	return VoteTarget{}
}

// TargetKind tells which table a VoteTarget points into.
type TargetKind int

const (
	// TargetNone is the zero VoteTarget.
	TargetNone TargetKind = iota
	// TargetPost targets a post.
	TargetPost
	// TargetComment targets a comment.
	TargetComment
)

// ErrAmbiguousTarget is returned when a vote names both or neither of a post and a comment.
var ErrAmbiguousTarget = errors.New("exactly one of postId or commentId is required")

// VoteTarget is either a post or a comment, never both. Construct it with
// PostTarget, CommentTarget or ParseVoteTarget.
type VoteTarget struct {
	kind TargetKind
	id   string
}

// PostTarget targets the post with the given id.
func PostTarget(id string) VoteTarget {
	return VoteTarget{kind: TargetPost, id: id}
}

// CommentTarget targets the comment with the given id.
func CommentTarget(id string) VoteTarget {
	return VoteTarget{kind: TargetComment, id: id}
}

// ParseVoteTarget builds a target from the two optional ids of a request.
// Empty strings count as absent.
func ParseVoteTarget(postID, commentID *string) (VoteTarget, error) {
	hasPost := postID != nil && *postID != ""
	hasComment := commentID != nil && *commentID != ""
	switch {
	case hasPost && !hasComment:
		return PostTarget(*postID), nil
	case hasComment && !hasPost:
		return CommentTarget(*commentID), nil
	default:
		return VoteTarget{}, ErrAmbiguousTarget
	}
}

// Kind returns the target kind.
func (t VoteTarget) Kind() TargetKind { return t.kind }

// ID returns the id of the targeted row.
func (t VoteTarget) ID() string { return t.id }

// IsZero reports whether t targets nothing.
func (t VoteTarget) IsZero() bool { return t.kind == TargetNone || t.id == "" }

// Table returns the table holding the targeted row.
func (t VoteTarget) Table() string {
	if t.kind == TargetComment {
		return "comments"
	}
	return "posts"
}

// Column returns the votes column referencing the target.
func (t VoteTarget) Column() string {
	if t.kind == TargetComment {
		return "comment_id"
	}
	return "post_id"
}

func (t VoteTarget) String() string {
	switch t.kind {
	case TargetPost:
		return "post:" + t.id
	case TargetComment:
		return "comment:" + t.id
	default:
		return "none"
	}
}

// VoteCounts are the counters of a vote target after a vote.
type VoteCounts struct {
	Upvotes   int `json:"upvotes"`
	Downvotes int `json:"downvotes"`
}
