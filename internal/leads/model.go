package leads

import "time"

const (
	StatusNew       = "new"
	StatusContacted = "contacted"
	StatusClosed    = "closed"

	KindContact    = "contact"
	KindIdeenCheck = "ideen-check"
)

var validStatuses = map[string]struct{}{
	StatusNew:       {},
	StatusContacted: {},
	StatusClosed:    {},
}

func IsValidStatus(value string) bool {
	_, ok := validStatuses[value]
	return ok
}

type Lead struct {
	ID      string `bson:"_id,omitempty" json:"id"`
	Kind    string `bson:"kind" json:"kind"`
	Name    string `bson:"name" json:"name"`
	Email   string `bson:"email" json:"email"`
	Phone   string `bson:"phone,omitempty" json:"phone,omitempty"`
	Company string `bson:"company,omitempty" json:"company,omitempty"`
	Message string `bson:"message" json:"message"`

	// ideen-check only
	ProjectType string `bson:"project_type,omitempty" json:"project_type,omitempty"`
	Budget      string `bson:"budget,omitempty" json:"budget,omitempty"`
	Timeline    string `bson:"timeline,omitempty" json:"timeline,omitempty"`

	Status    string    `bson:"status" json:"status"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

type ContactRequest struct {
	Name      string `json:"name" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Phone     string `json:"phone" validate:"omitempty,phone"`
	Company   string `json:"company"`
	Message   string `json:"message" validate:"required"`
	SpamToken string `json:"spam_token"`
}

type IdeenCheckRequest struct {
	Name        string `json:"name" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	Phone       string `json:"phone" validate:"omitempty,phone"`
	Company     string `json:"company"`
	ProjectType string `json:"project_type" validate:"omitempty,oneof=imagefilm recruiting social event other"`
	Budget      string `json:"budget"`
	Timeline    string `json:"timeline"`
	Description string `json:"description" validate:"required"`
	SpamToken   string `json:"spam_token"`
}

type AdminStatusUpdateRequest struct {
	Status string `json:"status" validate:"required,oneof=new contacted closed"`
}

type ListFilter struct {
	Status string
	Kind   string
}
