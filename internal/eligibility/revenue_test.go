package eligibility

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func f(v float64) *float64 { return &v }

func TestParseRevenueRange(t *testing.T) {
	tests := []struct {
		input   string
		wantOK  bool
		wantMin *float64
		wantMax *float64
	}{
		{"10 000 - 50 000", true, f(10000), f(50000)},
		{"10000-50000", true, f(10000), f(50000)},
		{"10 000 € à 50 000 €", true, f(10000), f(50000)},
		{"10k - 50k", true, f(10000), f(50000)},
		{"1,5M – 3M", true, f(1500000), f(3000000)},
		{"50 000 - 10 000", true, f(10000), f(50000)},
		{"entre 10.000 et 20.000 euros", true, f(10000), f(20000)},
		{"30000", true, f(30000), f(30000)},
		{"> 50 000", true, f(50000), nil},
		{"50 000+", true, f(50000), nil},
		{"plus de 100k", true, f(100000), nil},
		{"< 10 000", true, nil, f(10000)},
		{"moins de 10 000 €", true, nil, f(10000)},
		{"", false, nil, nil},
		{"pas encore de chiffre", false, nil, nil},
		{"10 - 20 - 30", false, nil, nil},
		{"au moins 10 000", true, f(10000), nil},
		{"à partir de 20k €", true, f(20000), nil},
		{"jusqu’à 80 000 euros HT", true, nil, f(80000)},
		{"de 10 000 à 50 000 € par an", true, f(10000), f(50000)},
		{"1 250 000", true, f(1250000), f(1250000)},
		{"100 000 200 000", false, nil, nil},
		{"100 000 - 200 000", true, f(100000), f(200000)},
		{"10 000 50 000", false, nil, nil},
		{"100'000 200 000", false, nil, nil},
		{"CA 2023 : 45 000", false, nil, nil},
		{"environ 45 000 selon le bilan", false, nil, nil},
		{"> 10 000 - 50 000", false, nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParseRevenueRange(tt.input)
			require.Equal(t, tt.wantOK, ok)
			if !ok {
				return
			}
			assert.Equal(t, tt.wantMin, got.Min)
			assert.Equal(t, tt.wantMax, got.Max)
		})
	}
}

func TestParseRevenueRange_StrayNumberIsNoConstraint(t *testing.T) {
	declared, ok := ParseRevenueRange("CA 2023 : 45 000")
	require.False(t, ok)

	assert.True(t, RevenueWithinThresholds(declared, ok, nil, f(40000)))
}

func TestRevenueWithinThresholds_OverlapBoundary(t *testing.T) {
	declared := RevenueRange{Min: f(10000), Max: f(50000)}

	tests := []struct {
		name string
		min  *float64
		max  *float64
		want bool
	}{
		{"no thresholds", nil, nil, true},
		{"floor at declared max", f(50000), nil, true},
		{"floor above declared max", f(50000.01), nil, false},
		{"ceiling at declared min", nil, f(10000), true},
		{"ceiling below declared min", nil, f(9999.99), false},
		{"both overlapping", f(20000), f(30000), true},
		{"both, window above", f(60000), f(90000), false},
		{"both, window below", f(1000), f(5000), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RevenueWithinThresholds(declared, true, tt.min, tt.max))
		})
	}
}

func TestRevenueWithinThresholds_OpenAndUnparsed(t *testing.T) {
	openHigh := RevenueRange{Min: f(50000)}
	assert.True(t, RevenueWithinThresholds(openHigh, true, f(80000), nil))
	assert.False(t, RevenueWithinThresholds(openHigh, true, nil, f(40000)))

	openLow := RevenueRange{Max: f(10000)}
	assert.True(t, RevenueWithinThresholds(openLow, true, nil, f(5000)))
	assert.False(t, RevenueWithinThresholds(openLow, true, f(20000), nil))

	assert.True(t, RevenueWithinThresholds(RevenueRange{}, false, f(1e9), f(1e10)))
}
