package load

import (
	"os"
	"path/filepath"
	"testing"

	"circuitcore/mna"

	"github.com/stretchr/testify/require"
)

const rcNetlist = `* RC 充电
V1 in 0 5
R1 in out 1k ; 串联电阻
C1 out gnd 1u
.tran 10u 5m
.end
R9 ignored after end 1
`

func TestParseRC(t *testing.T) {
	deck, err := ParseString(rcNetlist)
	require.NoError(t, err)
	require.Equal(t, []string{"in", "0", "out"}, deck.Nodes)
	require.Equal(t, mna.Topology{
		{Type: "NODE", Name: "in"},
		{Type: "GND", Name: "0"},
		{Type: "NODE", Name: "out"},
		{Type: "V", Name: "V1", Params: []string{"5"}, Pins: []mna.Pin{{Component: 0}, {Component: 1}}},
		{Type: "R", Name: "R1", Params: []string{"1k"}, Pins: []mna.Pin{{Component: 0}, {Component: 2}}},
		{Type: "C", Name: "C1", Params: []string{"1u"}, Pins: []mna.Pin{{Component: 2}, {Component: 1}}},
	}, deck.Topology)
	require.NotNil(t, deck.Tran)
	require.InDelta(t, 10e-6, deck.Tran.Step, 1e-18)
	require.InDelta(t, 5e-3, deck.Tran.Stop, 1e-15)
	require.Zero(t, deck.Tran.Start)

	i, ok := deck.Component("r1")
	require.True(t, ok)
	require.Equal(t, 4, i)
	_, ok = deck.Component("R9")
	require.False(t, ok)

	_, err = mna.Assemble(deck.Topology)
	require.NoError(t, err)
}

func TestParseTypes(t *testing.T) {
	deck, err := ParseString("VAC1 a 0 10 1k\nVsq2 b 0\nXFMR1 a 0 b 0 2\nRload b 0 100\n")
	require.NoError(t, err)
	types := []string{}
	for _, c := range deck.Topology[len(deck.Nodes):] {
		types = append(types, c.Type)
	}
	require.Equal(t, []string{"VAC", "VSQ", "XFMR", "R"}, types)
	require.Equal(t, []string{"10", "1k"}, deck.Topology[len(deck.Nodes)].Params)
	require.Empty(t, deck.Topology[len(deck.Nodes)+1].Params)
	require.Nil(t, deck.Tran)
}

func TestParseControl(t *testing.T) {
	deck, err := ParseString("F1 out 0 Vsense 2\nVsense in 0 0\nR1 out 0 1k\n")
	require.NoError(t, err)
	require.Equal(t, []string{"out", "0", "in"}, deck.Nodes)
	f := deck.Topology[3]
	require.Equal(t, "F", f.Type)
	require.Equal(t, mna.Pin{Component: 4}, f.Pins[2])
	require.Equal(t, []string{"2"}, f.Params)

	_, err = ParseString("H1 out 0 Vnone 1k\n")
	require.ErrorIs(t, err, ErrUndefined)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  error
	}{
		{"bad token", "R1 a 0 1k = 2\n", ErrSyntax},
		{"leading number", "5 R1 a 0\n", ErrSyntax},
		{"unknown directive", ".ac dec 10 1 1k\n", ErrSyntax},
		{"tran args", ".tran 1m\n", ErrSyntax},
		{"tran unit", ".tran 1mV 1\n", nil},
		{"missing pins", "R1 a\n", ErrSyntax},
		{"unknown type", "Q1 a b c\n", mna.ErrUnknownComponentType},
		{"node card", "NODE1 a\n", mna.ErrUnknownComponentType},
		{"duplicate", "R1 a 0\nr1 b 0\n", ErrDuplicate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseString(tt.input)
			require.Error(t, err)
			if tt.want != nil {
				require.ErrorIs(t, err, tt.want)
			}
		})
	}
}

func TestParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rc.cir")
	require.NoError(t, os.WriteFile(path, []byte(rcNetlist), 0o644))
	deck, err := ParseFile(path)
	require.NoError(t, err)
	require.Len(t, deck.Topology, 6)

	_, err = ParseFile(filepath.Join(t.TempDir(), "missing.cir"))
	require.Error(t, err)
}

func TestParserRegistry(t *testing.T) {
	r := mna.NewRegistry()
	p, err := NewParser(WithRegistry(r))
	require.NoError(t, err)
	_, err = p.ParseString("R1 a 0 1k\n")
	require.ErrorIs(t, err, mna.ErrUnknownComponentType)
}
