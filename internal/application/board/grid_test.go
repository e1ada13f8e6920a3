package board

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aescanero/blockqueue/pkg/domain"
)

func newTestGrid(t *testing.T, columns, rows int) *Grid {
	t.Helper()
	g, err := NewGrid(columns, rows)
	require.NoError(t, err)
	return g
}

func place(t *testing.T, g *Grid, column int, kind domain.Kind) *domain.Token {
	t.Helper()
	tok := domain.NewToken(kind)
	_, err := g.Place(column, tok)
	require.NoError(t, err)
	return tok
}

func TestNewGridRejectsEmptyDimensions(t *testing.T) {
	_, err := NewGrid(0, 3)
	assert.Error(t, err)
	_, err = NewGrid(4, 0)
	assert.Error(t, err)
}

func TestPlaceFirstFit(t *testing.T) {
	g := newTestGrid(t, 4, 3)

	for want := 0; want < 3; want++ {
		tok := domain.NewToken(domain.KindForward)
		row, err := g.Place(1, tok)
		require.NoError(t, err)
		assert.Equal(t, want, row)
		assert.Equal(t, 1, tok.Column)
		assert.Equal(t, want, tok.Row)
	}

	_, err := g.Place(1, domain.NewToken(domain.KindLeft))
	assert.ErrorIs(t, err, domain.ErrColumnFull)
}

func TestPlaceInvalidColumn(t *testing.T) {
	g := newTestGrid(t, 4, 3)

	for _, column := range []int{-1, 4, 100} {
		_, err := g.Place(column, domain.NewToken(domain.KindLeft))
		assert.ErrorIs(t, err, domain.ErrInvalidColumn)
	}
	assert.True(t, g.IsEmpty())
}

func TestPlaceNilToken(t *testing.T) {
	g := newTestGrid(t, 2, 2)

	_, err := g.Place(0, nil)
	assert.ErrorIs(t, err, domain.ErrNilToken)
	assert.True(t, g.IsEmpty())
	assert.True(t, g.Contiguous())

	// the column is still usable afterwards
	tok := place(t, g, 0, domain.KindForward)
	assert.Equal(t, 0, tok.Row)
}

func TestRemoveOutOfBounds(t *testing.T) {
	g := newTestGrid(t, 2, 2)

	_, err := g.Remove(2, 0)
	assert.ErrorIs(t, err, domain.ErrOutOfBounds)
	_, err = g.Remove(0, -1)
	assert.ErrorIs(t, err, domain.ErrOutOfBounds)
}

func TestRemoveCollapsesColumn(t *testing.T) {
	g := newTestGrid(t, 1, 4)
	a := place(t, g, 0, domain.KindForward)
	b := place(t, g, 0, domain.KindLeft)
	c := place(t, g, 0, domain.KindRight)

	removed, err := g.Remove(0, 0)
	require.NoError(t, err)
	assert.Same(t, a, removed)
	assert.False(t, removed.InGrid())

	assert.Same(t, b, g.At(0, 0))
	assert.Same(t, c, g.At(0, 1))
	assert.Nil(t, g.At(0, 2))
	assert.Equal(t, 0, b.Row)
	assert.Equal(t, 1, c.Row)
	assert.True(t, g.Contiguous())
}

func TestRemoveEmptyCell(t *testing.T) {
	g := newTestGrid(t, 2, 2)
	removed, err := g.Remove(1, 1)
	require.NoError(t, err)
	assert.Nil(t, removed)
}

func TestCollapseMultipleGaps(t *testing.T) {
	g := newTestGrid(t, 1, 5)
	a := domain.NewToken(domain.KindForward)
	b := domain.NewToken(domain.KindBackward)
	g.cells[0][1] = a
	g.cells[0][4] = b
	require.False(t, g.Contiguous())

	g.Collapse(0)

	assert.Same(t, a, g.At(0, 0))
	assert.Same(t, b, g.At(0, 1))
	assert.Equal(t, 0, a.Row)
	assert.Equal(t, 1, b.Row)
	assert.True(t, g.Contiguous())
}

func TestPlaceThenRemoveRestoresGrid(t *testing.T) {
	g := newTestGrid(t, 3, 3)
	place(t, g, 0, domain.KindForward)
	place(t, g, 0, domain.KindLeft)
	place(t, g, 2, domain.KindRight)
	before := g.Snapshot()

	tok := domain.NewToken(domain.KindBackward)
	row, err := g.Place(0, tok)
	require.NoError(t, err)

	removed, err := g.Remove(0, row)
	require.NoError(t, err)
	assert.Same(t, tok, removed)
	assert.Equal(t, before, g.Snapshot())
}

func TestDispatchBottomRow(t *testing.T) {
	g := newTestGrid(t, 4, 3)
	t0 := place(t, g, 0, domain.KindForward)
	t2 := place(t, g, 2, domain.KindLeft)
	t21 := place(t, g, 2, domain.KindRight)

	row := g.DispatchBottomRow()

	require.Len(t, row, 4)
	assert.Same(t, t0, row[0])
	assert.Nil(t, row[1])
	assert.Same(t, t2, row[2])
	assert.Nil(t, row[3])
	assert.False(t, t0.InGrid())

	assert.Same(t, t21, g.At(2, 0))
	assert.Equal(t, 0, t21.Row)
	assert.Nil(t, g.At(2, 1))
	assert.Nil(t, g.At(0, 0))
	assert.Equal(t, 1, g.Count())
	assert.True(t, g.Contiguous())
}

func TestDispatchEmptyGrid(t *testing.T) {
	g := newTestGrid(t, 3, 2)
	row := g.DispatchBottomRow()
	assert.Equal(t, []*domain.Token{nil, nil, nil}, row)
}

func TestContiguityHoldsAfterEveryOperation(t *testing.T) {
	g := newTestGrid(t, 3, 4)
	ops := []func(){
		func() { place(t, g, 0, domain.KindForward) },
		func() { place(t, g, 0, domain.KindLeft) },
		func() { place(t, g, 0, domain.KindRight) },
		func() { place(t, g, 1, domain.KindBackward) },
		func() { _, _ = g.Remove(0, 1) },
		func() { place(t, g, 2, domain.KindLeft) },
		func() { g.DispatchBottomRow() },
		func() { _, _ = g.Remove(0, 0) },
		func() { g.DispatchBottomRow() },
	}

	for i, op := range ops {
		op()
		assert.True(t, g.Contiguous(), "step %d", i)
	}
}

func TestSnapshotIsIndependent(t *testing.T) {
	g := newTestGrid(t, 2, 2)
	tok := place(t, g, 1, domain.KindForward)

	snap := g.Snapshot()
	tok.Kind = domain.KindRight
	_, err := g.Remove(1, 0)
	require.NoError(t, err)

	require.NotNil(t, snap[1][0])
	assert.Equal(t, domain.KindForward, snap[1][0].Kind)
	assert.Equal(t, 1, snap[1][0].Column)
	assert.Equal(t, 0, snap[1][0].Row)
}

func TestRestore(t *testing.T) {
	g := newTestGrid(t, 2, 2)
	tok := place(t, g, 0, domain.KindLeft)
	snap := g.Snapshot()

	g.Clear()
	require.NoError(t, g.Restore(snap))
	restored := g.At(0, 0)
	require.NotNil(t, restored)
	assert.Equal(t, tok.ID, restored.ID)
	assert.NotSame(t, snap[0][0], restored)

	restored.Kind = domain.KindRight
	assert.Equal(t, domain.KindLeft, snap[0][0].Kind)
}

func TestRestoreDimensionMismatch(t *testing.T) {
	g := newTestGrid(t, 2, 2)
	other := newTestGrid(t, 3, 2)
	assert.ErrorIs(t, g.Restore(other.Snapshot()), domain.ErrDimensionMismatch)

	taller := newTestGrid(t, 2, 3)
	assert.ErrorIs(t, g.Restore(taller.Snapshot()), domain.ErrDimensionMismatch)
}

func TestResolveColumn(t *testing.T) {
	width := Layout{CellWidth: 120}.Width(4)
	require.Equal(t, 480.0, width)

	tests := []struct {
		x      float64
		want   int
		wantOK bool
	}{
		{-240, 0, true},
		{-130, 0, true},
		{-1, 1, true},
		{0, 2, true},
		{119, 2, true},
		{240, 3, true},
		{-241, -1, false},
		{300, -1, false},
	}

	for _, tt := range tests {
		col, ok := ResolveColumn(tt.x, width, 4)
		assert.Equal(t, tt.wantOK, ok, "x=%v", tt.x)
		assert.Equal(t, tt.want, col, "x=%v", tt.x)
	}
}

func TestResolveColumnDegenerate(t *testing.T) {
	_, ok := ResolveColumn(0, 0, 4)
	assert.False(t, ok)
	_, ok = ResolveColumn(0, 100, 0)
	assert.False(t, ok)
}
