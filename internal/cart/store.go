// Package cart holds a shopper's cart lines and keeps them in session storage.
//
// A Store is the only way to mutate a cart. It is obtained through Load, which
// rehydrates any previously saved lines, so a write can never overwrite a
// saved cart with an empty one before the saved state has been read.
package cart

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/dukerupert/vortex/internal/domain"
	"github.com/dukerupert/vortex/internal/storage"
	"github.com/dukerupert/vortex/internal/telemetry"
)

// Key returns the session storage key holding the cart for sessionID.
func Key(sessionID string) string {
	return "cart:" + sessionID
}

// LoadResult reports how a cart was rehydrated.
type LoadResult string

const (
	// Restored means saved lines were read back.
	Restored LoadResult = "restored"
	// Empty means nothing was saved for the session.
	Empty LoadResult = "empty"
	// Corrupt means saved data could not be decoded; the cart starts empty.
	Corrupt LoadResult = "corrupt"
	// Unavailable means storage could not be read; the cart starts empty.
	Unavailable LoadResult = "unavailable"
)

// Degraded reports whether the load fell back to an empty cart.
func (r LoadResult) Degraded() bool {
	return r == Corrupt || r == Unavailable
}

// PersistResult is returned by every mutation. A non-nil Err means the
// mutation took effect in memory but was not saved.
type PersistResult struct {
	Err error
}

// Degraded reports whether the write to session storage failed.
func (r PersistResult) Degraded() bool {
	return r.Err != nil
}

// Store is one session's cart. It is safe for concurrent use.
type Store struct {
	mu      sync.Mutex
	lines   []domain.CartLine
	storage storage.Storage
	key     string
	logger  *slog.Logger
	metrics *telemetry.BusinessMetrics
}

// Option configures a Store.
type Option func(*Store)

// WithMetrics records cart activity on m.
func WithMetrics(m *telemetry.BusinessMetrics) Option {
	return func(s *Store) {
		s.metrics = m
	}
}

// Load reads the cart saved under key and returns a Store holding it.
// Missing, unreadable or corrupt data yields an empty cart; the returned
// LoadResult says which.
func Load(ctx context.Context, st storage.Storage, key string, logger *slog.Logger, opts ...Option) (*Store, LoadResult) {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Store{
		storage: st,
		key:     key,
		logger:  logger.With("cart_key", key),
	}
	for _, opt := range opts {
		opt(s)
	}

	result := s.restore(ctx)
	s.metrics.RecordCartLoad(string(result))
	return s, result
}

func (s *Store) restore(ctx context.Context) LoadResult {
	data, err := s.storage.Get(ctx, s.key)
	if err != nil {
		if storage.IsNotFound(err) {
			return Empty
		}
		s.logger.Warn("cart storage unavailable, starting empty", "error", err)
		return Unavailable
	}

	var saved []domain.CartLine
	if err := json.Unmarshal(data, &saved); err != nil {
		s.logger.Warn("saved cart is corrupt, starting empty", "error", err)
		return Corrupt
	}

	s.lines = normalize(saved)
	if len(s.lines) < len(saved) {
		s.logger.Warn("dropped invalid saved cart lines",
			"saved", len(saved),
			"kept", len(s.lines),
		)
	}
	if len(s.lines) == 0 {
		return Empty
	}
	return Restored
}

// normalize drops lines that break the cart invariants and merges repeated
// (product, size) keys so a hand-edited or older payload still loads.
// Quantities above domain.MaxLineQuantity are capped.
func normalize(saved []domain.CartLine) []domain.CartLine {
	var out []domain.CartLine
	index := make(map[domain.LineKey]int, len(saved))

	for _, l := range saved {
		if l.Product.ID == "" || l.Quantity <= 0 {
			continue
		}
		if l.Quantity > domain.MaxLineQuantity {
			l.Quantity = domain.MaxLineQuantity
		}
		if i, ok := index[l.Key()]; ok {
			out[i].Quantity = min(out[i].Quantity+l.Quantity, domain.MaxLineQuantity)
			continue
		}
		index[l.Key()] = len(out)
		out = append(out, l)
	}
	return out
}

// AddItem adds quantity units of product in size. An existing line for the
// same (product, size) is incremented rather than duplicated.
// A non-positive quantity, or one that would take the line past
// domain.MaxLineQuantity, is rejected and leaves the cart unchanged.
func (s *Store) AddItem(ctx context.Context, product domain.Product, size string, quantity int) (PersistResult, error) {
	if quantity <= 0 {
		return PersistResult{}, domain.ErrInvalidQuantity
	}
	if quantity > domain.MaxLineQuantity {
		return PersistResult{}, domain.ErrQuantityLimit
	}
	if product.ID == "" {
		return PersistResult{}, domain.ErrProductRequired
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.find(product.ID, size); i >= 0 {
		if s.lines[i].Quantity > domain.MaxLineQuantity-quantity {
			return PersistResult{}, domain.ErrQuantityLimit
		}
		s.lines[i].Quantity += quantity
	} else {
		s.lines = append(s.lines, domain.CartLine{
			Product:  product,
			Size:     size,
			Quantity: quantity,
		})
	}

	s.metrics.RecordCartMutation("add")
	s.metrics.RecordCartAdd(string(product.Category), quantity)
	return s.persist(ctx, "add"), nil
}

// RemoveItem deletes the line for (productID, size). Absent lines are a no-op.
func (s *Store) RemoveItem(ctx context.Context, productID, size string) PersistResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.remove(productID, size) {
		return PersistResult{}
	}

	s.metrics.RecordCartMutation("remove")
	return s.persist(ctx, "remove")
}

// UpdateQuantity sets the quantity of an existing line. A quantity of zero or
// less removes the line. Absent lines are a no-op. A quantity above
// domain.MaxLineQuantity is rejected and leaves the cart unchanged.
func (s *Store) UpdateQuantity(ctx context.Context, productID, size string, quantity int) (PersistResult, error) {
	if quantity > domain.MaxLineQuantity {
		return PersistResult{}, domain.ErrQuantityLimit
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if quantity <= 0 {
		if !s.remove(productID, size) {
			return PersistResult{}, nil
		}
		s.metrics.RecordCartMutation("remove")
		return s.persist(ctx, "update"), nil
	}

	i := s.find(productID, size)
	if i < 0 {
		return PersistResult{}, nil
	}
	s.lines[i].Quantity = quantity

	s.metrics.RecordCartMutation("update")
	return s.persist(ctx, "update"), nil
}

// Clear empties the cart.
func (s *Store) Clear(ctx context.Context) PersistResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lines = nil

	s.metrics.RecordCartMutation("clear")
	return s.persist(ctx, "clear")
}

// TotalItems is the sum of all line quantities.
func (s *Store) TotalItems() int {
	return s.Snapshot().TotalItems()
}

// TotalPrice is the sum of price times quantity over all lines.
func (s *Store) TotalPrice() int64 {
	return s.Snapshot().TotalPrice()
}

// IsEmpty reports whether the cart has no lines.
func (s *Store) IsEmpty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.lines) == 0
}

// Lines returns a copy of the cart lines in insertion order.
func (s *Store) Lines() []domain.CartLine {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.copyLines()
}

// Snapshot returns a copy of the cart that later mutations do not affect.
func (s *Store) Snapshot() domain.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.Cart{Lines: s.copyLines()}
}

func (s *Store) copyLines() []domain.CartLine {
	if len(s.lines) == 0 {
		return nil
	}
	out := make([]domain.CartLine, len(s.lines))
	copy(out, s.lines)
	return out
}

// find returns the index of the line for (productID, size), or -1.
// Callers must hold s.mu.
func (s *Store) find(productID, size string) int {
	for i, l := range s.lines {
		if l.Product.ID == productID && l.Size == size {
			return i
		}
	}
	return -1
}

// remove deletes a line, keeping the order of the rest.
// Callers must hold s.mu.
func (s *Store) remove(productID, size string) bool {
	i := s.find(productID, size)
	if i < 0 {
		return false
	}
	s.lines = append(s.lines[:i], s.lines[i+1:]...)
	return true
}

// persist writes the whole cart. The in-memory lines stay authoritative when
// the write fails. Callers must hold s.mu so writes land in mutation order.
func (s *Store) persist(ctx context.Context, op string) PersistResult {
	lines := s.lines
	if lines == nil {
		lines = []domain.CartLine{}
	}

	data, err := json.Marshal(lines)
	if err == nil {
		err = s.storage.Set(ctx, s.key, data)
	}
	if err != nil {
		err = domain.WrapError(err, domain.EUNAVAILABLE, "cart."+op, "cart could not be saved")
		s.logger.Warn("cart persist failed, keeping in-memory cart",
			"operation", op,
			"lines", len(s.lines),
			"error", err,
		)
		s.metrics.RecordCartPersistFailure(op)
		return PersistResult{Err: err}
	}

	return PersistResult{}
}
