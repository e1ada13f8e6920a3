package board

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/aescanero/blockqueue/pkg/domain"
)

func TestInventoryReset(t *testing.T) {
	inv := NewInventory(zaptest.NewLogger(t))
	templates := []domain.Kind{domain.KindForward, domain.KindLeft, domain.KindForward}

	require.NoError(t, inv.Reset(templates))
	first := inv.Snapshot()
	require.Len(t, first, 3)
	for i, tok := range first {
		assert.Equal(t, templates[i], tok.Kind)
		assert.False(t, tok.InGrid())
	}

	require.NoError(t, inv.Reset(templates))
	second := inv.Snapshot()
	assert.NotEqual(t, first[0].ID, second[0].ID)
	assert.Equal(t, 3, inv.Len())
}

func TestInventoryResetRejectsNone(t *testing.T) {
	inv := NewInventory(zaptest.NewLogger(t))
	require.NoError(t, inv.Reset([]domain.Kind{domain.KindLeft}))

	err := inv.Reset([]domain.Kind{domain.KindRight, domain.KindNone})
	assert.Error(t, err)
	assert.Equal(t, 1, inv.Len())
}

func TestInventoryTakeAndPut(t *testing.T) {
	inv := NewInventory(zaptest.NewLogger(t))
	require.NoError(t, inv.Reset([]domain.Kind{domain.KindForward, domain.KindLeft}))
	id := inv.Snapshot()[0].ID

	tok, err := inv.Take(id)
	require.NoError(t, err)
	assert.Equal(t, domain.KindForward, tok.Kind)
	assert.Equal(t, 1, inv.Len())

	_, err = inv.Take(id)
	assert.ErrorIs(t, err, domain.ErrTokenNotFound)

	tok.Column, tok.Row = 1, 0
	inv.Put(tok)
	held := inv.Snapshot()
	require.Len(t, held, 2)
	assert.Equal(t, id, held[1].ID)
	assert.False(t, held[1].InGrid())
}

func TestInventoryRollbackClones(t *testing.T) {
	inv := NewInventory(zaptest.NewLogger(t))
	saved := []*domain.Token{domain.NewToken(domain.KindRight), nil, domain.NewToken(domain.KindBackward)}

	inv.Rollback(saved)
	held := inv.Snapshot()
	require.Len(t, held, 2)
	assert.Equal(t, saved[0].ID, held[0].ID)

	tok, err := inv.Take(saved[0].ID)
	require.NoError(t, err)
	tok.Kind = domain.KindLeft
	assert.Equal(t, domain.KindRight, saved[0].Kind)
}

func TestInventoryFindKeepsToken(t *testing.T) {
	inv := NewInventory(zaptest.NewLogger(t))
	require.NoError(t, inv.Reset([]domain.Kind{domain.KindBackward}))
	id := inv.Snapshot()[0].ID

	tok, err := inv.Find(id)
	require.NoError(t, err)
	assert.Equal(t, domain.KindBackward, tok.Kind)
	assert.Equal(t, 1, inv.Len())

	_, err = inv.Find("missing")
	assert.ErrorIs(t, err, domain.ErrTokenNotFound)
}
