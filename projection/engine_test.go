package projection

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProject_TenPerches(t *testing.T) {
	r, err := Project(10)
	require.NoError(t, err)

	assert.InDelta(t, 2722.5, r.AreaSqFt, 1e-9)
	assert.EqualValues(t, 6, r.PlantsPerSide)
	assert.EqualValues(t, 36, r.TotalPlants)
	assert.Equal(t, 180.0, r.TotalCompostKg)
	assert.Equal(t, 54000.0, r.PlantCost)
	assert.Equal(t, 9000.0, r.CompostCost)
	assert.Equal(t, 63000.0, r.TotalInvestment)
	assert.Equal(t, 1260.0, r.TotalYieldKg)
	assert.Equal(t, 40_950_000_000.0, r.MinReturn)
	assert.Equal(t, 327_600_000_000.0, r.MaxReturn)
}

func TestProject_PerfectSquare(t *testing.T) {
	for _, size := range []float64{0.5, 1, 2.5, 7, 10, 40, 80, 160, 333.3, 1000, 12345} {
		r, err := Project(size)
		require.NoError(t, err)

		want := int64(math.Floor(math.Sqrt(size*PerchSqFt) / PlantSpacingFt))
		assert.Equal(t, want*want, r.TotalPlants, "size %v", size)
		assert.GreaterOrEqual(t, r.PlantsPerSide, int64(0))
		assert.Equal(t, r.PlantsPerSide*r.PlantsPerSide, r.TotalPlants)
		assert.Equal(t, r.PlantCost+r.CompostCost, r.TotalInvestment)
		assert.LessOrEqual(t, r.MinReturn, r.MaxReturn)
	}
}

func TestProject_ZeroPlants(t *testing.T) {
	// 0.2 perch is 54.45 sq ft; sqrt is about 7.4, below one spacing.
	r, err := Project(0.2)
	require.NoError(t, err)
	assert.Zero(t, r.PlantsPerSide)
	assert.Zero(t, r.TotalPlants)
	assert.Zero(t, r.TotalCompostKg)
	assert.Zero(t, r.TotalInvestment)
	assert.Zero(t, r.TotalYieldKg)
	assert.Zero(t, r.MinReturn)
	assert.Zero(t, r.MaxReturn)
}

func TestProject_InvalidSize(t *testing.T) {
	for _, size := range []float64{0, -1, math.NaN(), math.Inf(1), math.Inf(-1), MaxLandSize * 1.0001, 1e12, 1e40} {
		_, err := Project(size)
		assert.ErrorIs(t, err, ErrInvalidLandSize, "size %v", size)
	}
}

func TestFormatter(t *testing.T) {
	f := NewFormatter("en")
	assert.Equal(t, "40,950,000,000", f.Amount(40_950_000_000))
	assert.Equal(t, "63,000", f.Amount(62_999.6))
	assert.Equal(t, "0", f.Amount(0.4))
	assert.Equal(t, "Rs. 54,000", f.Currency(54000))

	r, err := Project(10)
	require.NoError(t, err)
	lines := f.Lines(r)
	require.Len(t, lines, 9)
	assert.Equal(t, Line{"Total plants", "36"}, lines[1])
	assert.Equal(t, Line{"Maximum return", "Rs. 327,600,000,000"}, lines[8])

	assert.Equal(t, "1,000", NewFormatter("not a locale!").Amount(1000))

	d := f.Disclaimer()
	assert.Contains(t, d, "8 ft plant spacing")
	assert.Contains(t, d, "USD 100,000 to 800,000 per kg")
}

func TestProject_LargestParcel(t *testing.T) {
	r, err := Project(MaxLandSize)
	require.NoError(t, err)

	want := int64(math.Floor(math.Sqrt(MaxLandSize*PerchSqFt) / PlantSpacingFt))
	assert.Equal(t, want*want, r.TotalPlants)
	assert.Positive(t, r.TotalPlants)
	assert.Less(t, r.MaxReturn, float64(math.MaxInt64))

	f := NewFormatter("en")
	for _, l := range f.Lines(r) {
		assert.NotContains(t, l.Value, "-", "%s overflowed", l.Label)
	}
}
