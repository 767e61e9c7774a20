package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/dukerupert/vortex/internal/domain"
)

// ListReviews returns the reviews of a product.
func (c *Client) ListReviews(ctx context.Context, productID string) ([]domain.Review, error) {
	var reviews []domain.Review
	path := "/products/" + url.PathEscape(productID) + "/reviews"
	if err := c.do(ctx, "reviews.list", http.MethodGet, path, nil, &reviews); err != nil {
		return nil, err
	}
	if reviews == nil {
		reviews = []domain.Review{}
	}
	return reviews, nil
}

// CreateReview posts a review for a product.
func (c *Client) CreateReview(ctx context.Context, productID string, review domain.NewReview) (*domain.Review, error) {
	var created domain.Review
	path := "/products/" + url.PathEscape(productID) + "/reviews"
	if err := c.do(ctx, "reviews.create", http.MethodPost, path, review, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateReview applies a partial update to a review.
func (c *Client) UpdateReview(ctx context.Context, id string, update domain.ReviewUpdate) (*domain.Review, error) {
	var updated domain.Review
	if err := c.do(ctx, "reviews.update", http.MethodPut, "/reviews/"+url.PathEscape(id), update, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteReview removes a review.
func (c *Client) DeleteReview(ctx context.Context, id string) error {
	return c.do(ctx, "reviews.delete", http.MethodDelete, "/reviews/"+url.PathEscape(id), nil, nil)
}
