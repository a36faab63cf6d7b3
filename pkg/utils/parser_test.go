package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const c17Bench = `
# c17 benchmark
INPUT(1)
INPUT(2)
INPUT(3)
INPUT(6)
INPUT(7)

OUTPUT(22)
OUTPUT(23)

10 = NAND(1, 3)
11 = NAND(3, 6)
16 = NAND(2, 11)
19 = NAND(11, 7)
22 = NAND(10, 16)
23 = NAND(16, 19)
`

func TestParseBenchC17(t *testing.T) {
	nw, err := ParseBench("c17", strings.NewReader(c17Bench))
	require.NoError(t, err)

	assert.Equal(t, "c17", nw.Name())
	assert.Equal(t, 5, nw.InputNum())
	assert.Equal(t, 2, nw.OutputNum())
	assert.Equal(t, 0, nw.DffNum())
	// 5 inputs + 6 gates + 2 output markers
	assert.Equal(t, 13, nw.NodeNum())

	g := nw.FindNode("16")
	require.NotNil(t, g)
	assert.Equal(t, 2, g.FaninNum())
	assert.Equal(t, 2, g.FanoutNum())
}

func TestParseBenchOutOfOrder(t *testing.T) {
	// gates referenced before their definitions
	src := `
INPUT(a)
OUTPUT(y)
y = AND(m, a)
m = NOT(a)
`
	nw, err := ParseBench("ooo", strings.NewReader(src))
	require.NoError(t, err)
	m := nw.FindNode("m")
	require.NotNil(t, m)
	y := nw.FindNode("y")
	require.NotNil(t, y)
	assert.Less(t, m.Level, y.Level)
}

func TestParseBenchDff(t *testing.T) {
	src := `
INPUT(d)
OUTPUT(y)
q = DFF(n)
n = NOT(q)
y = AND(q, d)
`
	nw, err := ParseBench("seq", strings.NewReader(src))
	require.NoError(t, err)
	assert.Equal(t, 1, nw.DffNum())
	q := nw.FindNode("q")
	require.NotNil(t, q)
	assert.True(t, q.IsDffOutput())
}

func TestParseBenchErrors(t *testing.T) {
	_, err := ParseBench("bad", strings.NewReader("INPUT(a)\nx = FOO(a)\nOUTPUT(x)\n"))
	assert.ErrorContains(t, err, "unknown gate type")

	_, err = ParseBench("bad", strings.NewReader("INPUT(a)\nOUTPUT(y)\n"))
	assert.ErrorContains(t, err, "no driver")

	_, err = ParseBench("bad", strings.NewReader("INPUT(a)\nx = AND(a, z)\nOUTPUT(x)\n"))
	assert.ErrorContains(t, err, "undefined signal")

	cyclic := "INPUT(a)\nu = AND(v, a)\nv = AND(u, a)\nOUTPUT(v)\n"
	_, err = ParseBench("bad", strings.NewReader(cyclic))
	assert.ErrorContains(t, err, "cyclic")

	_, err = ParseBench("bad", strings.NewReader("garbage line\n"))
	assert.Error(t, err)
}

func TestConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "ffr", cfg.Atpg.DtpgType)
	assert.Equal(t, "stuck-at", cfg.Atpg.FaultType)
	assert.Equal(t, "info", cfg.Framework.LogLevel)
	assert.True(t, cfg.Atpg.DropFault)
}
