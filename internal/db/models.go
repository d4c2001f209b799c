package db

import (
	"gorm.io/datatypes"
)

// Pig is a submitted drawing. CreatedAt is kept as epoch milliseconds so the
// API serves the same timestamp format the gallery frontend always consumed.
// IP is retained only for rate limiting and is never serialized.
type Pig struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	Name      string `gorm:"size:80;not null" json:"name"`
	Image     string `gorm:"type:text;not null" json:"image"`
	Location  string `gorm:"size:120;not null" json:"location"`
	IP        string `gorm:"size:64;not null" json:"-"`
	Likes     int64  `gorm:"not null;default:0" json:"likes"`
	CreatedAt int64  `gorm:"autoCreateTime:milli;not null;index:idx_pigs_created_at,sort:desc" json:"created_at"`
}

// Comment belongs to a Pig. Comments are append-only and survive the removal
// of their pig.
type Comment struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	PigID     uint   `gorm:"not null;index:idx_comments_pig" json:"-"`
	Content   string `gorm:"size:800;not null" json:"content"`
	IP        string `gorm:"size:64;not null" json:"-"`
	CreatedAt int64  `gorm:"autoCreateTime:milli;not null;index:idx_comments_pig" json:"created_at"`
}

// SubmissionLog rows record pig submissions per address for the sliding
// window limiter. Rows older than the window are swept on every check.
type SubmissionLog struct {
	ID        uint   `gorm:"primaryKey"`
	IP        string `gorm:"size:64;not null;index:idx_submission_logs_ip"`
	Timestamp int64  `gorm:"not null;index:idx_submission_logs_ip"`
}

// CommentSubmissionLog is the same shape as SubmissionLog but tracks the
// independent comment window.
type CommentSubmissionLog struct {
	ID        uint   `gorm:"primaryKey"`
	IP        string `gorm:"size:64;not null;index:idx_comment_submission_logs_ip"`
	Timestamp int64  `gorm:"not null;index:idx_comment_submission_logs_ip"`
}

// Event is an append-only audit row for notable mutations.
type Event struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	PigID     *uint          `gorm:"index" json:"pig_id"`
	Type      string         `gorm:"size:64;not null" json:"type"`
	Payload   datatypes.JSON `gorm:"not null" json:"payload"`
	CreatedAt int64          `gorm:"autoCreateTime:milli;not null" json:"created_at"`
}
