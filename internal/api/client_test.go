package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dukerupert/vortex/internal"
	"github.com/dukerupert/vortex/internal/domain"
	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memTokens is an in-memory TokenStore for a single session.
type memTokens struct {
	mu      sync.Mutex
	token   string
	cleared int
}

func (m *memTokens) Token(ctx context.Context) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token
}

func (m *memTokens) SetToken(ctx context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = token
	return nil
}

func (m *memTokens) ClearToken(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = ""
	m.cleared++
	return nil
}

func newTestClient(t *testing.T, handler http.Handler, tokens TokenStore) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := internal.APIConfig{
		BaseURL: srv.URL + "/api",
		Timeout: 2 * time.Second,
		Breaker: internal.BreakerConfig{ConsecutiveFailures: 3, Timeout: time.Minute},
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewClient(cfg, tokens, logger), srv
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestClient_SendsBearerToken(t *testing.T) {
	var gotAuth string
	tokens := &memTokens{token: "tok-123"}
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		writeJSON(w, http.StatusOK, []domain.Product{})
	}), tokens)

	_, err := client.ListProducts(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok-123", gotAuth)
}

func TestClient_NoTokenNoHeader(t *testing.T) {
	var gotAuth string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		writeJSON(w, http.StatusOK, []domain.Product{})
	}), &memTokens{})

	_, err := client.ListProducts(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, gotAuth)
}

func TestClient_UnauthorizedClearsToken(t *testing.T) {
	tokens := &memTokens{token: "expired"}
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "token expired"})
	}), tokens)

	_, err := client.ListReviews(context.Background(), "tee-1")
	require.Error(t, err)
	assert.True(t, IsUnauthorized(err))
	assert.Equal(t, "", tokens.Token(context.Background()))
	assert.Equal(t, 1, tokens.cleared)
}

func TestClient_ListProductsByCategory(t *testing.T) {
	var gotPath, gotQuery string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query().Get("category")
		writeJSON(w, http.StatusOK, []domain.Product{{ID: "p1", Name: "Dress", Price: 30000, Category: domain.CategoryWomen, Sizes: []string{"S"}}})
	}), nil)

	products, err := client.ListProducts(context.Background(), domain.CategoryWomen)
	require.NoError(t, err)
	assert.Equal(t, "/api/products", gotPath)
	assert.Equal(t, "women", gotQuery)
	require.Len(t, products, 1)
	assert.Equal(t, int64(30000), products[0].Price)
}

func TestClient_GetProductEscapesID(t *testing.T) {
	var gotPath string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		writeJSON(w, http.StatusOK, domain.Product{ID: "a/b"})
	}), nil)

	p, err := client.GetProduct(context.Background(), "a/b")
	require.NoError(t, err)
	assert.Equal(t, "/api/products/a%2Fb", gotPath)
	assert.Equal(t, "a/b", p.ID)
}

func TestClient_CreateOrder(t *testing.T) {
	var got domain.OrderPayload
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/orders/checkout", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		writeJSON(w, http.StatusCreated, map[string]string{"paymentUrl": "https://pay.example/x"})
	}), nil)

	payload := domain.OrderPayload{
		Items:         []domain.OrderItem{{ProductID: "p1", Size: "M", Quantity: 2, Price: 10000}},
		PaymentMethod: domain.PaymentMethodVerge,
		Subtotal:      20000,
		Shipping:      3000,
		Total:         23000,
	}
	resp, err := client.CreateOrder(context.Background(), payload)
	require.NoError(t, err)
	assert.Equal(t, "https://pay.example/x", resp.PaymentURL)
	assert.Empty(t, resp.OrderID)
	assert.Equal(t, payload, got)
}

func TestClient_ServerErrorMessage(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantMsg string
		code    string
	}{
		{name: "message field", status: 422, body: `{"message":"Out of stock"}`, wantMsg: "Out of stock", code: domain.EINVALID},
		{name: "error string", status: 409, body: `{"error":"Duplicate order"}`, wantMsg: "Duplicate order", code: domain.ECONFLICT},
		{name: "nested error", status: 500, body: `{"error":{"message":"db down"}}`, wantMsg: "db down", code: domain.EUNAVAILABLE},
		{name: "not json", status: 502, body: `<html>bad gateway</html>`, wantMsg: "", code: domain.EUNAVAILABLE},
		{name: "not found", status: 404, body: ``, wantMsg: "", code: domain.ENOTFOUND},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}), nil)

			_, err := client.CreateOrder(context.Background(), domain.OrderPayload{})
			var se *ServerError
			require.ErrorAs(t, err, &se)
			assert.Equal(t, tt.status, se.Status)
			assert.Equal(t, tt.wantMsg, se.Message)
			assert.Equal(t, tt.code, se.ErrorCode())
		})
	}
}

func TestClient_NetworkError(t *testing.T) {
	client, srv := newTestClient(t, http.NotFoundHandler(), nil)
	srv.Close()

	_, err := client.CreateOrder(context.Background(), domain.OrderPayload{})
	var ne *NetworkError
	require.ErrorAs(t, err, &ne)
	assert.Equal(t, domain.EUNAVAILABLE, ne.ErrorCode())
	assert.Equal(t, "orders.create", ne.Op)
}

func TestClient_TimeoutError(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(srv.Close)
	t.Cleanup(func() { close(release) })

	client := NewClient(internal.APIConfig{BaseURL: srv.URL, Timeout: 100 * time.Millisecond}, nil,
		slog.New(slog.NewTextHandler(io.Discard, nil)))

	_, err := client.CreateOrder(context.Background(), domain.OrderPayload{})
	var te *TimeoutError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, "The server is not responding. Please try again later.", te.ErrorMessage())
}

func TestClient_BreakerOpensOnServerFailures(t *testing.T) {
	var calls atomic.Int32
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}), nil)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := client.ListProducts(ctx, "")
		var se *ServerError
		require.ErrorAs(t, err, &se)
	}
	assert.Equal(t, gobreaker.StateOpen, client.BreakerState())

	_, err := client.ListProducts(ctx, "")
	var ne *NetworkError
	require.ErrorAs(t, err, &ne)
	assert.True(t, errors.Is(err, gobreaker.ErrOpenState))
	assert.Equal(t, int32(3), calls.Load(), "open breaker must not reach the server")
}

func TestClient_ClientErrorsDoNotTripBreaker(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "bad"})
	}), nil)

	for i := 0; i < 10; i++ {
		_, _ = client.ListProducts(context.Background(), "")
	}
	assert.Equal(t, gobreaker.StateClosed, client.BreakerState())
}

func TestClient_NoRetry(t *testing.T) {
	var calls atomic.Int32
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}), nil)

	_, err := client.CreateOrder(context.Background(), domain.OrderPayload{})
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestClient_SignupStoresToken(t *testing.T) {
	tokens := &memTokens{}
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/auth/signup", r.URL.Path)
		writeJSON(w, http.StatusOK, domain.AuthResponse{
			User:  domain.User{ID: "u1", Name: "Ada", Email: "ada@example.com"},
			Token: "fresh",
		})
	}), tokens)

	resp, err := client.Signup(context.Background(), domain.SignupRequest{Name: "Ada", Email: "ada@example.com", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, "u1", resp.User.ID)
	assert.Equal(t, "fresh", tokens.Token(context.Background()))
}

func TestClient_LoginWithoutTokenLeavesSessionSignedOut(t *testing.T) {
	tokens := &memTokens{}
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, domain.AuthResponse{User: domain.User{ID: "u1"}})
	}), tokens)

	_, err := client.Login(context.Background(), domain.Credentials{Email: "a@b.co", Password: "x"})
	require.NoError(t, err)
	assert.Equal(t, "", tokens.Token(context.Background()))
}

func TestClient_LogoutClearsTokenEvenOnFailure(t *testing.T) {
	tokens := &memTokens{token: "tok"}
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}), tokens)

	err := client.Logout(context.Background())
	assert.Error(t, err)
	assert.Equal(t, "", tokens.Token(context.Background()))
}

func TestClient_Reviews(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/products/{id}/reviews", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []domain.Review{{ID: "r1", ProductID: r.PathValue("id"), Rating: 5}})
	})
	mux.HandleFunc("POST /api/products/{id}/reviews", func(w http.ResponseWriter, r *http.Request) {
		var in domain.NewReview
		_ = json.NewDecoder(r.Body).Decode(&in)
		writeJSON(w, http.StatusCreated, domain.Review{ID: "r2", ProductID: r.PathValue("id"), Rating: in.Rating, Comment: in.Comment})
	})
	mux.HandleFunc("PUT /api/reviews/{id}", func(w http.ResponseWriter, r *http.Request) {
		var in domain.ReviewUpdate
		_ = json.NewDecoder(r.Body).Decode(&in)
		writeJSON(w, http.StatusOK, domain.Review{ID: r.PathValue("id"), Rating: *in.Rating})
	})
	mux.HandleFunc("DELETE /api/reviews/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("POST /api/newsletter/subscribe", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	client, _ := newTestClient(t, mux, nil)
	ctx := context.Background()

	reviews, err := client.ListReviews(ctx, "tee-1")
	require.NoError(t, err)
	require.Len(t, reviews, 1)
	assert.Equal(t, "tee-1", reviews[0].ProductID)

	created, err := client.CreateReview(ctx, "tee-1", domain.NewReview{Rating: 4, Comment: "Fits well", UserName: "Ada"})
	require.NoError(t, err)
	assert.Equal(t, 4, created.Rating)

	rating := 2
	updated, err := client.UpdateReview(ctx, "r2", domain.ReviewUpdate{Rating: &rating})
	require.NoError(t, err)
	assert.Equal(t, 2, updated.Rating)

	assert.NoError(t, client.DeleteReview(ctx, "r2"))
	assert.NoError(t, client.Subscribe(ctx, "ada@example.com"))
}

func TestErrorMessage(t *testing.T) {
	assert.Equal(t, "a", errorMessage([]byte(`{"message":"a"}`)))
	assert.Equal(t, "b", errorMessage([]byte(`{"error":"b"}`)))
	assert.Equal(t, "c", errorMessage([]byte(`{"error":{"message":"c"}}`)))
	assert.Equal(t, "", errorMessage([]byte(`nope`)))
	assert.Equal(t, "", errorMessage(nil))
}
