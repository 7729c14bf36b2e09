package models

import "time"

// UsageRecord tracks the cumulative read-unit cost attributed to one
// calendar day. Date is the record's identity key, formatted YYYY-MM-DD in
// the proxy's configured time zone.
type UsageRecord struct {
	Date      string `gorm:"primarykey;size:10"`
	ReadCount int    `gorm:"not null;default:0"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
