package domain

import "time"

// Review is a shopper review of a product, owned by the review service.
type Review struct {
	ID        string    `json:"id"`
	ProductID string    `json:"productId"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	UserName  string    `json:"userName"`
	UserEmail string    `json:"userEmail,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewReview is the body for creating a review.
type NewReview struct {
	Rating    int    `json:"rating" validate:"min=1,max=5"`
	Comment   string `json:"comment" validate:"trimmed_required,max=2000"`
	UserName  string `json:"userName" validate:"trimmed_required,max=100"`
	UserEmail string `json:"userEmail,omitempty" validate:"omitempty,shopper_email"`
}

// ReviewUpdate is a partial update; nil fields are left unchanged.
type ReviewUpdate struct {
	Rating  *int    `json:"rating,omitempty" validate:"omitempty,min=1,max=5"`
	Comment *string `json:"comment,omitempty" validate:"omitempty,max=2000"`
}
