package models

import "time"

// AdminLogEntry records admin console actions for auditing.
// Append-only; read back only as a recent-first scan for the dashboard.
type AdminLogEntry struct {
	LogID     string    `gorm:"primaryKey;size:36"`
	Message   string    `gorm:"size:1024"`
	CreatedAt time.Time `gorm:"index"`
}
