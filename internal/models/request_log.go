package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RequestStatus string

const (
	StatusSuccess RequestStatus = "SUCCESS"
	StatusError   RequestStatus = "ERROR"
)

// RequestLog is one audit row per proxied read request.
type RequestLog struct {
	ID         uuid.UUID `gorm:"type:uuid;primarykey"`
	Endpoint   string    `gorm:"index"`
	Method     string
	Mode       string
	Collection string
	Status     RequestStatus
	StatusCode int
	Summary    string
	Timestamp  time.Time `gorm:"index"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
	DeletedAt  gorm.DeletedAt `gorm:"index"`
}
