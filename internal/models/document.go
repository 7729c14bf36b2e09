package models

import "time"

// Document is one entry in the backing document store. The proxy only ever
// reads this table; seeding happens out-of-band.
type Document struct {
	ID         uint   `gorm:"primarykey"`
	Collection string `gorm:"size:128;not null;uniqueIndex:idx_documents_collection_doc_id"`
	DocID      string `gorm:"size:256;not null;uniqueIndex:idx_documents_collection_doc_id"`
	Data       JSON   `gorm:"type:jsonb"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
