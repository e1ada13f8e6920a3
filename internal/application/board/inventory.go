package board

import (
	"fmt"

	"github.com/aescanero/blockqueue/pkg/domain"
	"go.uber.org/zap"
)

// Inventory is the ordered pool of tokens not yet placed
type Inventory struct {
	tokens []*domain.Token
	logger *zap.Logger
}

// NewInventory creates an empty inventory
func NewInventory(logger *zap.Logger) *Inventory {
	return &Inventory{logger: logger}
}

// Reset discards held tokens and creates fresh ones from templates, in order
func (inv *Inventory) Reset(templates []domain.Kind) error {
	tokens := make([]*domain.Token, 0, len(templates))
	for i, k := range templates {
		if !k.Valid() {
			return fmt.Errorf("template %d: invalid kind %s", i, k)
		}
		tokens = append(tokens, domain.NewToken(k))
	}

	inv.tokens = tokens
	inv.logger.Debug("inventory reset", zap.Int("tokens", len(tokens)))
	return nil
}

// Rollback discards held tokens and adopts clones of list
func (inv *Inventory) Rollback(list []*domain.Token) {
	tokens := make([]*domain.Token, 0, len(list))
	for _, t := range list {
		if t == nil {
			continue
		}
		c := t.Clone()
		c.ClearPosition()
		tokens = append(tokens, c)
	}

	inv.tokens = tokens
	inv.logger.Debug("inventory rolled back", zap.Int("tokens", len(tokens)))
}

// Take removes a token by id and hands ownership to the caller
func (inv *Inventory) Take(id string) (*domain.Token, error) {
	for i, t := range inv.tokens {
		if t.ID == id {
			inv.tokens = append(inv.tokens[:i:i], inv.tokens[i+1:]...)
			return t, nil
		}
	}
	return nil, fmt.Errorf("take %s: %w", id, domain.ErrTokenNotFound)
}

// Put returns a token to the end of the pool
func (inv *Inventory) Put(token *domain.Token) {
	if token == nil {
		return
	}
	token.ClearPosition()
	inv.tokens = append(inv.tokens, token)
}

// Len returns the number of held tokens
func (inv *Inventory) Len() int {
	return len(inv.tokens)
}

// Snapshot returns clones of the held tokens
func (inv *Inventory) Snapshot() []*domain.Token {
	return domain.CloneTokens(inv.tokens)
}

// Find returns the held token with id without removing it
func (inv *Inventory) Find(id string) (*domain.Token, error) {
	for _, t := range inv.tokens {
		if t.ID == id {
			return t, nil
		}
	}
	return nil, fmt.Errorf("find %s: %w", id, domain.ErrTokenNotFound)
}
