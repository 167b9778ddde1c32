package utils

import (
	"core/models"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSetScores(t *testing.T) {
	sets, err := ParseSetScores("6-4, 6-2,3-6")
	require.NoError(t, err)
	assert.Equal(t, []models.SetScore{{A: 6, B: 4}, {A: 6, B: 2}, {A: 3, B: 6}}, sets)

	sets, err = ParseSetScores(" 7 - 6 ")
	require.NoError(t, err)
	assert.Equal(t, []models.SetScore{{A: 7, B: 6}}, sets)
}

func TestParseSetScoresRejectsMalformed(t *testing.T) {
	for _, input := range []string{
		"", "   ", "6-", "-4", "a-b", "6", "6-4,", "-1-3", "6-4,,6-2", "6-4-2",
		"100-0", "6-100",
		"4611686018427387904-4611686018427387904,4611686018427387904-4611686018427387904,5-5",
	} {
		_, err := ParseSetScores(input)
		assert.ErrorIs(t, err, models.ErrInvalidMatchInput, "input %q", input)
	}
}

func TestFormatSetScores(t *testing.T) {
	sets, err := ParseSetScores("6-4 , 6-2")
	require.NoError(t, err)
	assert.Equal(t, "6-4,6-2", FormatSetScores(sets))
}

func TestAggregateSetScores(t *testing.T) {
	share, err := AggregateSetScores([]models.SetScore{{A: 6, B: 4}, {A: 6, B: 2}})
	require.NoError(t, err)
	assert.InDelta(t, 10.0/14.0, share, 1e-12)
	assert.InDelta(t, 0.714, share, 1e-3)

	share, err = AggregateSetScores([]models.SetScore{{A: 6, B: 4}, {A: 4, B: 6}})
	require.NoError(t, err)
	assert.Equal(t, 0.5, share)

	share, err = AggregateSetScores([]models.SetScore{{A: 0, B: 6}})
	require.NoError(t, err)
	assert.Equal(t, 0.0, share)
}

func TestAggregateSetScoresZeroGames(t *testing.T) {
	_, err := AggregateSetScores([]models.SetScore{{A: 0, B: 0}})
	assert.ErrorIs(t, err, models.ErrInvalidMatchInput)

	_, err = AggregateSetScores(nil)
	assert.ErrorIs(t, err, models.ErrInvalidMatchInput)
}

func TestParseSetScoresUpperBound(t *testing.T) {
	sets, err := ParseSetScores("99-98")
	require.NoError(t, err)
	assert.Equal(t, []models.SetScore{{A: 99, B: 98}}, sets)
}

func TestAggregateSetScoresRejectsOutOfRangeSets(t *testing.T) {
	huge := math.MaxInt/2 + 1
	for _, sets := range [][]models.SetScore{
		{{A: huge, B: huge}, {A: huge, B: huge}, {A: 5, B: 5}},
		{{A: -6, B: 4}},
		{{A: 6, B: MaxGamesPerSet + 1}},
	} {
		_, err := AggregateSetScores(sets)
		assert.ErrorIs(t, err, models.ErrInvalidMatchInput, "sets %v", sets)
	}
}
