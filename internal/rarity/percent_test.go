package rarity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/RewardEngine_Go/internal/domain"
)

func TestParsePercent(t *testing.T) {
	tests := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{"70", 700_000, false},
		{"4.5", 45_000, false},
		{"0.5", 5_000, false},
		{"0.0001", 1, false},
		{"0.00001", 0, true},
		{"-1", 0, true},
		{"abc", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParsePercent(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatPercent(t *testing.T) {
	assert.Equal(t, "70", FormatPercent(700_000))
	assert.Equal(t, "4.5", FormatPercent(45_000))
	assert.Equal(t, "0.0001", FormatPercent(1))
}

func TestParseTable_RejectsBadSum(t *testing.T) {
	_, err := ParseTable(map[domain.Rarity]string{
		domain.RarityCommon: "70",
		domain.RarityRare:   "25",
	})
	assert.ErrorIs(t, err, domain.ErrInternalConsistency)

	_, err = ParseTable(map[domain.Rarity]string{"mythic": "100"})
	assert.Error(t, err)
}

func TestRender(t *testing.T) {
	table, err := ParseTable(map[domain.Rarity]string{
		domain.RarityCommon:    "70",
		domain.RarityRare:      "25",
		domain.RarityEpic:      "4.5",
		domain.RarityLegendary: "0.5",
	})
	require.NoError(t, err)

	assert.Equal(t, map[domain.Rarity]string{
		domain.RarityCommon:    "70",
		domain.RarityRare:      "25",
		domain.RarityEpic:      "4.5",
		domain.RarityLegendary: "0.5",
	}, Render(table))
}
