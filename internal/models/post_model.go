package models

import "time"

type Post struct {
	ID             int64      `db:"id" json:"id"`
	UserID         int64      `db:"user_id" json:"user_id"`
	TopicID        int64      `db:"topic_id" json:"topic_id"`
	Platform       string     `db:"platform" json:"platform"`
	Content        string     `db:"content" json:"content"`
	Hashtags       string     `db:"hashtags" json:"hashtags"`
	Tone           string     `db:"tone" json:"tone"`
	Status         string     `db:"status" json:"status"` // draft, pending, posted, failed
	ScheduledTime  *time.Time `db:"scheduled_time" json:"scheduled_time"`
	PostedAt       *time.Time `db:"posted_at" json:"posted_at"`
	PlatformPostID *string    `db:"platform_post_id" json:"platform_post_id"`
	ImageURL       *string    `db:"image_url" json:"image_url"`
	RetryCount     int        `db:"retry_count" json:"retry_count"`
	LastError      *string    `db:"last_error" json:"last_error"`
	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at" json:"updated_at"`
}

type ErrorLog struct {
	ID            int64     `db:"id" json:"id"`
	PostID        int64     `db:"post_id" json:"post_id"`
	ErrorMessage  string    `db:"error_message" json:"error_message"`
	ErrorType     string    `db:"error_type" json:"error_type"`
	AttemptNumber int       `db:"attempt_number" json:"attempt_number"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}

const (
	PostStatusDraft   = "draft"
	PostStatusPending = "pending"
	// processing marks a post claimed by a publisher until its outcome is
	// written back. Stale rows are reset to pending on startup.
	PostStatusProcessing = "processing"
	PostStatusPosted     = "posted"
	PostStatusFailed     = "failed"
)

const (
	PlatformLinkedin  = "linkedin"
	PlatformInstagram = "instagram"
	PlatformFacebook  = "facebook"
)

const (
	ToneProfessional  = "professional"
	ToneCasual        = "casual"
	ToneEducational   = "educational"
	ToneInspirational = "inspirational"
)

func IsValidPlatform(platform string) bool {
	switch platform {
	case PlatformLinkedin, PlatformInstagram, PlatformFacebook:
		return true
	}
	return false
}

func IsValidTone(tone string) bool {
	switch tone {
	case ToneProfessional, ToneCasual, ToneEducational, ToneInspirational:
		return true
	}
	return false
}
