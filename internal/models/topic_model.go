package models

import "time"

type Topic struct {
	ID          int64     `db:"id" json:"id"`
	UserID      int64     `db:"user_id" json:"user_id"`
	Name        string    `db:"name" json:"name"`
	Description string    `db:"description" json:"description"`
	Tone        string    `db:"tone" json:"tone"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}
