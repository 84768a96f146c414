package models

import "time"

// Product represents a single catalog entry. The same struct is persisted by
// both the GORM and the Mongo repositories, hence the dual tagging.
//
// Image holds either an external URL (set on create) or the server-local path
// of an uploaded asset (set on update via multipart upload).
type Product struct {
	ID          string    `json:"id" gorm:"primaryKey;type:varchar(36)" bson:"_id,omitempty"`
	Name        string    `json:"name" bson:"name"`
	Description string    `json:"description,omitempty" bson:"description,omitempty"`
	Price       float64   `json:"price" bson:"price"`
	Category    string    `json:"category" bson:"category"`
	InStock     bool      `json:"inStock" bson:"inStock"`
	Image       string    `json:"image,omitempty" bson:"image,omitempty"`
	CreatedAt   time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt" bson:"updatedAt"`
}
