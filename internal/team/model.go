package team

import "time"

type Member struct {
	ID        string    `bson:"_id,omitempty" json:"id"`
	Name      string    `bson:"name" json:"name"`
	Position  string    `bson:"position" json:"position"`
	Email     string    `bson:"email,omitempty" json:"email,omitempty"`
	Phone     string    `bson:"phone,omitempty" json:"phone,omitempty"`
	Bio       string    `bson:"bio,omitempty" json:"bio,omitempty"`
	ImageURL  string    `bson:"image_url,omitempty" json:"image_url,omitempty"`
	SortOrder int       `bson:"sort_order" json:"sort_order"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

type CreateRequest struct {
	Name      string `json:"name" validate:"required"`
	Position  string `json:"position" validate:"required"`
	Email     string `json:"email" validate:"omitempty,email"`
	Phone     string `json:"phone" validate:"omitempty,phone"`
	Bio       string `json:"bio"`
	ImageURL  string `json:"image_url" validate:"omitempty,url"`
	SortOrder *int   `json:"sort_order" validate:"omitempty,gte=0"`
}

type UpdateRequest struct {
	Name      *string `json:"name"`
	Position  *string `json:"position"`
	Email     *string `json:"email" validate:"omitempty,email"`
	Phone     *string `json:"phone" validate:"omitempty,phone"`
	Bio       *string `json:"bio"`
	ImageURL  *string `json:"image_url" validate:"omitempty,url"`
	SortOrder *int    `json:"sort_order" validate:"omitempty,gte=0"`
}
