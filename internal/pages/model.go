package pages

import (
	"time"

	"github.com/dertobiunddasbo/bsp-media-sub001/internal/sections"
)

type Page struct {
	ID          string    `bson:"_id,omitempty" json:"id"`
	Slug        string    `bson:"slug" json:"slug"`
	Title       string    `bson:"title" json:"title"`
	Description string    `bson:"description,omitempty" json:"description,omitempty"`
	IsActive    bool      `bson:"is_active" json:"is_active"`
	SortOrder   int       `bson:"sort_order" json:"sort_order"`
	CreatedAt   time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time `bson:"updated_at" json:"updated_at"`
}

type PageSection struct {
	ID         string            `bson:"_id,omitempty" json:"id"`
	PageID     string            `bson:"page_id" json:"page_id"`
	SectionKey string            `bson:"section_key" json:"section_key"`
	Content    sections.Document `bson:"content" json:"content"`
	OrderIndex int               `bson:"order_index" json:"order_index"`
	CreatedAt  time.Time         `bson:"created_at" json:"created_at"`
	UpdatedAt  time.Time         `bson:"updated_at" json:"updated_at"`
}

// SectionInput is a nested section upsert carried on page create or update.
type SectionInput struct {
	SectionKey string            `json:"section_key" validate:"required,sectionkey"`
	Content    sections.Document `json:"content" validate:"required"`
	OrderIndex *int              `json:"order_index" validate:"omitempty,gte=0"`
}

type CreateRequest struct {
	Slug        string         `json:"slug"`
	Title       string         `json:"title" validate:"required"`
	Description string         `json:"description"`
	IsActive    *bool          `json:"is_active"`
	SortOrder   *int           `json:"sort_order" validate:"omitempty,gte=0"`
	Sections    []SectionInput `json:"sections" validate:"omitempty,dive"`
}

type UpdateRequest struct {
	Slug        *string        `json:"slug"`
	Title       *string        `json:"title"`
	Description *string        `json:"description"`
	IsActive    *bool          `json:"is_active"`
	SortOrder   *int           `json:"sort_order" validate:"omitempty,gte=0"`
	Sections    []SectionInput `json:"sections" validate:"omitempty,dive"`
}
