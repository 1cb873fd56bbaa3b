package luck_test

import (
	"testing"

	"github.com/on-the-ground/geocoin/luck"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSample_Deterministic(t *testing.T) {
	a := luck.Sample(luck.SpawnSalt, 3, 4)
	b := luck.Sample(luck.SpawnSalt, 3, 4)
	assert.Equal(t, a, b)

	// inputs are joined as text, so the same digits in another numeric type draw the same value
	assert.Equal(t, a, luck.Sample(luck.SpawnSalt, int64(3), "4"))
}

func TestSample_SaltsAreIndependent(t *testing.T) {
	differ := 0
	for x := 0; x < 32; x++ {
		if luck.Sample(luck.SpawnSalt, x, 0) != luck.Sample(luck.CoinCountSalt, x, 0) {
			differ++
		}
	}
	assert.Equal(t, 32, differ)
}

func TestSample_UnitInterval(t *testing.T) {
	const n = 20000
	sum := 0.0
	below := 0
	for i := 0; i < n; i++ {
		v := luck.Sample("range", i, -i)
		require.GreaterOrEqual(t, v, 0.0)
		require.Less(t, v, 1.0)
		sum += v
		if v < 0.1 {
			below++
		}
	}
	assert.InDelta(t, 0.5, sum/n, 0.02)
	assert.InDelta(t, 0.1, float64(below)/n, 0.01)
}

func TestGenerator_MatchesPureSample(t *testing.T) {
	g, err := luck.NewGenerator(128)
	require.NoError(t, err)
	defer g.Close()

	for i := 0; i < 3; i++ {
		for x := -5; x <= 5; x++ {
			assert.Equal(t, luck.Sample(luck.SpawnSalt, x, 7), g.Sample(luck.SpawnSalt, x, 7))
		}
	}
}

func TestGenerator_WithoutMemo(t *testing.T) {
	g, err := luck.NewGenerator(0)
	require.NoError(t, err)
	defer g.Close()
	assert.Equal(t, luck.Sample("s", 1, 2), g.Sample("s", 1, 2))

	var nilGen *luck.Generator
	assert.Equal(t, luck.Sample("s", 1, 2), nilGen.Sample("s", 1, 2))
}
