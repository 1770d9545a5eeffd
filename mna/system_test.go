package mna

import (
	"testing"

	"circuitcore/maths"

	"github.com/stretchr/testify/require"
)

func TestSystemClaims(t *testing.T) {
	sys := NewSystem(3)
	st := &Stamper{sys: sys, mark: 1}
	st.AddF(0, 1, 2)
	st.SetS(2, 7)
	st.Claim(TargetF, 2, 2)
	st.AddF(-1, 0, 5) // 参考点，忽略
	require.NoError(t, st.Err())

	require.Equal(t, 2.0, sys.F.Get(0, 1))
	require.Equal(t, 7.0, sys.S.Get(2, 0))
	require.Equal(t, []maths.Position{{Row: 0, Col: 1}, {Row: 2, Col: 2}}, sys.Positions(1, TargetF))
	require.Equal(t, []maths.Position{{Row: 2, Col: 0}}, sys.Positions(1, TargetS))
	require.Len(t, sys.Claims(1), 3)

	mark, ok := sys.Owner(Cell{TargetF, 2, 2})
	require.True(t, ok)
	require.Equal(t, 1, mark)

	other := &Stamper{sys: sys, mark: 2}
	other.AddF(0, 1, 1)
	require.ErrorIs(t, other.Err(), ErrStampConflict)
	// 出错后不再写入
	other.AddF(1, 1, 1)
	require.Zero(t, sys.F.Get(1, 1))
	require.Equal(t, 2.0, sys.F.Get(0, 1))

	bad := &Stamper{sys: sys, mark: 3}
	bad.AddF(3, 0, 1)
	require.ErrorIs(t, bad.Err(), ErrInvalidPin)
}

func TestScope(t *testing.T) {
	sys := NewSystem(2)
	st := &Stamper{sys: sys, mark: 1}
	st.AddF(0, 0, 1)
	st.Claim(TargetS, 0, 0)
	require.NoError(t, st.Err())
	sys.Clean()

	sc := sys.Scope(1)
	sc.Set(TargetS, maths.Position{Row: 0}, 3)
	require.False(t, sys.Dirty())
	require.Equal(t, 3.0, sys.S.Get(0, 0))

	// 写入相同值不置脏
	sc.Set(TargetF, maths.Position{Row: 0, Col: 0}, 1)
	require.False(t, sys.Dirty())
	sc.Set(TargetF, maths.Position{Row: 0, Col: 0}, 4)
	require.True(t, sys.Dirty())

	require.Panics(t, func() { sc.Set(TargetS, maths.Position{Row: 1}, 1) })
	require.Panics(t, func() { sys.Scope(2).Set(TargetF, maths.Position{}, 1) })
}

func TestSystemString(t *testing.T) {
	require.Equal(t, "F: []\nS: []\n", NewSystem(0).String())
	require.Contains(t, NewSystem(1).String(), "F:\n  0.0000 \nS:")
}
