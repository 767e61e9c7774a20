package api

import (
	"context"
	"net/http"

	"github.com/dukerupert/vortex/internal/domain"
)

// Subscribe adds an email address to the newsletter.
func (c *Client) Subscribe(ctx context.Context, email string) error {
	return c.do(ctx, "newsletter.subscribe", http.MethodPost, "/newsletter/subscribe",
		domain.NewsletterSubscription{Email: email}, nil)
}
