package cases

import "time"

type Case struct {
	ID          string    `bson:"_id,omitempty" json:"id"`
	Slug        string    `bson:"slug" json:"slug"`
	Title       string    `bson:"title" json:"title"`
	Description string    `bson:"description,omitempty" json:"description,omitempty"`
	Category    string    `bson:"category,omitempty" json:"category,omitempty"`
	ClientName  string    `bson:"client_name,omitempty" json:"client_name,omitempty"`
	ImageURL    string    `bson:"image_url,omitempty" json:"image_url,omitempty"`
	IsPublished bool      `bson:"is_published" json:"is_published"`
	SortOrder   int       `bson:"sort_order" json:"sort_order"`
	CreatedAt   time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time `bson:"updated_at" json:"updated_at"`
}

type CaseImage struct {
	ID         string `bson:"_id,omitempty" json:"id"`
	CaseID     string `bson:"case_id" json:"case_id"`
	ImageURL   string `bson:"image_url" json:"image_url"`
	OrderIndex int    `bson:"order_index" json:"order_index"`
}

type CaseVideo struct {
	ID         string `bson:"_id,omitempty" json:"id"`
	CaseID     string `bson:"case_id" json:"case_id"`
	VideoURL   string `bson:"video_url" json:"video_url"`
	VideoType  string `bson:"video_type" json:"video_type"`
	Title      string `bson:"title,omitempty" json:"title,omitempty"`
	OrderIndex int    `bson:"order_index" json:"order_index"`
}

type CreateRequest struct {
	Slug        string `json:"slug"`
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
	Category    string `json:"category"`
	ClientName  string `json:"client_name"`
	ImageURL    string `json:"image_url" validate:"omitempty,url"`
	IsPublished *bool  `json:"is_published"`
	SortOrder   *int   `json:"sort_order" validate:"omitempty,gte=0"`
}

// UpdateRequest carries only the fields the caller wants to change; nil
// pointers leave the stored value untouched.
type UpdateRequest struct {
	Slug        *string `json:"slug"`
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Category    *string `json:"category"`
	ClientName  *string `json:"client_name"`
	ImageURL    *string `json:"image_url" validate:"omitempty,url"`
	IsPublished *bool   `json:"is_published"`
	SortOrder   *int    `json:"sort_order" validate:"omitempty,gte=0"`
}

type AttachImageRequest struct {
	ImageURL   string `json:"image_url" validate:"required,url"`
	OrderIndex *int   `json:"order_index" validate:"omitempty,gte=0"`
}

type AttachVideoRequest struct {
	VideoURL   string `json:"video_url" validate:"required,url"`
	VideoType  string `json:"video_type" validate:"omitempty,oneof=youtube vimeo file"`
	Title      string `json:"title"`
	OrderIndex *int   `json:"order_index" validate:"omitempty,gte=0"`
}

type UpdateVideoRequest struct {
	VideoURL  *string `json:"video_url" validate:"omitempty,url"`
	VideoType *string `json:"video_type" validate:"omitempty,oneof=youtube vimeo file"`
	Title     *string `json:"title"`
}

type ReorderRequest struct {
	IDs []string `json:"ids" validate:"required,min=1,dive,required"`
}

type PublicListFilter struct {
	Category string
}

type AdminListFilter struct {
	Category string
}
