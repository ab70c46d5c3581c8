package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"datapoint-pricing/core/catalog"
	"datapoint-pricing/core/types"
	"datapoint-pricing/internal/errors"
)

func tier(t *testing.T, id string) types.Tier {
	t.Helper()
	tr, ok := catalog.Default().Get(id)
	require.True(t, ok, "tier %s", id)
	return tr
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestPrice(t *testing.T) {
	tests := []struct {
		name  string
		tier  string
		usage int64
		want  string
	}{
		{"starter inside allowance", catalog.Starter, 50_000, "49"},
		{"starter at allowance", catalog.Starter, 100_000, "49"},
		{"starter zero usage", catalog.Starter, 0, "49"},
		{"starter one over", catalog.Starter, 100_001, "49.0005"},
		{"starter fractional thousand", catalog.Starter, 100_500, "49.25"},
		{"starter 5M", catalog.Starter, 5_000_000, "2499"},
		{"professional 1.5M", catalog.Professional, 1_500_000, "399"},
		{"professional 5M", catalog.Professional, 5_000_000, "1799"},
		{"enterprise 5M", catalog.Enterprise, 5_000_000, "999"},
		{"enterprise 50M", catalog.Enterprise, 50_000_000, "8999"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Price(tier(t, tt.tier), tt.usage)
			require.NoError(t, err)
			assert.True(t, got.Equal(dec(tt.want)), "got %s, want %s", got, tt.want)
		})
	}
}

func TestPriceRejectsNegativeUsage(t *testing.T) {
	_, err := Price(tier(t, catalog.Starter), -1)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.TypeInput))

	_, err = BreakdownOf(tier(t, catalog.Starter), -1)
	assert.True(t, errors.IsType(err, errors.TypeInput))

	assert.Panics(t, func() { MustPrice(tier(t, catalog.Starter), -10) })
}

func TestBreakdown(t *testing.T) {
	b, err := BreakdownOf(tier(t, catalog.Professional), 1_500_000)
	require.NoError(t, err)
	assert.True(t, b.Exceeded)
	assert.Equal(t, int64(500_000), b.OverageUnits)
	assert.True(t, b.Base.Equal(dec("199")))
	assert.True(t, b.Overage.Equal(dec("200")))
	assert.True(t, b.Total.Equal(dec("399")))

	inside, err := BreakdownOf(tier(t, catalog.Professional), 1_000_000)
	require.NoError(t, err)
	assert.False(t, inside.Exceeded)
	assert.True(t, inside.Overage.IsZero())
	assert.True(t, inside.Total.Equal(dec("199")))
}

func TestUnitPrice(t *testing.T) {
	tests := []struct {
		name  string
		tier  string
		usage int64
		want  string
	}{
		{"zero usage", catalog.Starter, 0, "0"},
		{"negative usage", catalog.Enterprise, -5, "0"},
		{"inside allowance spreads base over allowance", catalog.Starter, 50_000, "0.49"},
		{"at allowance", catalog.Professional, 1_000_000, "0.199"},
		{"beyond allowance blends total over usage", catalog.Professional, 1_500_000, "0.266"},
		{"starter 5M", catalog.Starter, 5_000_000, "0.4998"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := UnitPrice(tier(t, tt.tier), tt.usage)
			assert.True(t, got.Equal(dec(tt.want)), "got %s, want %s", got, tt.want)
		})
	}
}

func TestUnitPriceZeroForEveryTier(t *testing.T) {
	for _, tr := range catalog.Default().Tiers() {
		assert.True(t, UnitPrice(tr, 0).IsZero(), tr.ID)
	}
}

func TestStepSchedule(t *testing.T) {
	s := DefaultStepSchedule()

	tests := []struct {
		usage int64
		rate  string
		total string
	}{
		{0, "0.15", "0"},
		{100_000, "0.15", "15000"},
		{100_001, "0.1", "10000.1"},
		{300_000, "0.1", "30000"},
		{700_000, "0.1", "70000"},
		{2_000_000, "0.08", "160000"},
		{5_000_000, "0.06", "300000"},
		{6_000_000, "0.06", "360000"},
	}

	for _, tt := range tests {
		b := s.Match(tt.usage)
		assert.True(t, b.Rate.Equal(dec(tt.rate)), "usage %d: rate %s", tt.usage, b.Rate)

		total, err := s.Total(tt.usage)
		require.NoError(t, err)
		assert.True(t, total.Equal(dec(tt.total)), "usage %d: total %s", tt.usage, total)
	}

	_, err := s.Total(-1)
	assert.True(t, errors.IsType(err, errors.TypeInput))
}

func TestSteppedAndLinearModelsDiverge(t *testing.T) {
	stepped, err := DefaultStepSchedule().Total(300_000)
	require.NoError(t, err)
	linear := MustPrice(tier(t, catalog.Starter), 300_000)

	assert.True(t, linear.Equal(dec("149")))
	assert.True(t, stepped.GreaterThan(linear.Mul(decimal.NewFromInt(100))))
}

func TestNewStepScheduleValidation(t *testing.T) {
	_, err := NewStepSchedule(nil)
	assert.True(t, errors.IsType(err, errors.TypeConfig))

	_, err = NewStepSchedule([]Bracket{{UpTo: 10, Rate: dec("1")}, {UpTo: 10, Rate: dec("0.5")}})
	assert.True(t, errors.IsType(err, errors.TypeConfig))

	_, err = NewStepSchedule([]Bracket{{UpTo: 10, Rate: dec("-1")}})
	assert.True(t, errors.IsType(err, errors.TypeConfig))

	brackets := []Bracket{{UpTo: 10, Rate: dec("1")}}
	s, err := NewStepSchedule(brackets)
	require.NoError(t, err)
	brackets[0].Rate = dec("9")
	assert.True(t, s.Brackets()[0].Rate.Equal(dec("1")))
	assert.Equal(t, "<=10@1", s.String())
}

func TestNewModel(t *testing.T) {
	m, err := NewModel(ModelLinear, nil)
	require.NoError(t, err)
	assert.Equal(t, ModelLinear, m.Kind())
	p, err := m.Price(tier(t, catalog.Professional), 1_500_000)
	require.NoError(t, err)
	assert.True(t, p.Equal(dec("399")))

	m, err = NewModel(ModelStepped, nil)
	require.NoError(t, err)
	assert.Equal(t, ModelStepped, m.Kind())
	p, err = m.Price(tier(t, catalog.Enterprise), 300_000)
	require.NoError(t, err)
	assert.True(t, p.Equal(dec("30000")))

	m, err = NewModel("", nil)
	require.NoError(t, err)
	assert.Equal(t, ModelLinear, m.Kind())

	_, err = NewModel("quadratic", nil)
	assert.True(t, errors.IsType(err, errors.TypeConfig))
}
