package utils

import (
	"core/models"
	"fmt"
	"math"
)

// DefaultKFactor is the K-factor used when none is configured.
const DefaultKFactor = 32.0

// ExpectedScore returns the probability that a side rated ratingA beats a
// side rated ratingB.
func ExpectedScore(ratingA, ratingB float64) float64 {
	return 1.0 / (1.0 + math.Pow(10, (ratingB-ratingA)/400))
}

// UpdateRatings returns both new ratings given side A's observed share of the
// result (1 = A won everything, 0.5 = even). Each side is rounded on its own,
// so the pair may drift by one point from zero-sum.
func UpdateRatings(ratingA, ratingB, observedA, k float64) (int, int) {
	expectedA := ExpectedScore(ratingA, ratingB)

	newA := roundHalfUp(ratingA + k*(observedA-expectedA))
	newB := roundHalfUp(ratingB + k*((1-observedA)-(1-expectedA)))

	return newA, newB
}

// TeamRating is the effective doubles rating of a pair.
func TeamRating(rating1, rating2 int) float64 {
	return float64(rating1+rating2) / 2.0
}

// ApplyMatch rates one match and returns a copy of players with the
// participants' ratings updated. players itself is left untouched.
func ApplyMatch(players []models.Player, input models.MatchInput, sets []models.SetScore, k float64) ([]models.Player, error) {
	observedA, err := AggregateSetScores(sets)
	if err != nil {
		return nil, err
	}

	updated := make([]models.Player, len(players))
	copy(updated, players)

	index := make(map[string]int, len(updated))
	for i, p := range updated {
		index[p.Name] = i
	}

	lookup := func(name string) (int, error) {
		i, ok := index[name]
		if !ok {
			return 0, fmt.Errorf("%w: %s", models.ErrUnknownPlayer, name)
		}
		return i, nil
	}

	switch in := input.(type) {
	case models.Singles:
		a, err := lookup(in.A)
		if err != nil {
			return nil, err
		}
		b, err := lookup(in.B)
		if err != nil {
			return nil, err
		}

		newA, newB := UpdateRatings(float64(updated[a].EloSingles), float64(updated[b].EloSingles), observedA, k)
		updated[a].EloSingles = newA
		updated[b].EloSingles = newB

	case models.Doubles:
		var idx [4]int
		for i, name := range in.Participants() {
			if idx[i], err = lookup(name); err != nil {
				return nil, err
			}
		}

		teamA := TeamRating(updated[idx[0]].EloDoubles, updated[idx[1]].EloDoubles)
		teamB := TeamRating(updated[idx[2]].EloDoubles, updated[idx[3]].EloDoubles)

		newA, newB := UpdateRatings(teamA, teamB, observedA, k)
		deltaA := roundHalfUp(float64(newA) - teamA)
		deltaB := roundHalfUp(float64(newB) - teamB)

		updated[idx[0]].EloDoubles += deltaA
		updated[idx[1]].EloDoubles += deltaA
		updated[idx[2]].EloDoubles += deltaB
		updated[idx[3]].EloDoubles += deltaB

	default:
		return nil, fmt.Errorf("%w: unsupported match input %T", models.ErrInvalidMatchInput, input)
	}

	return updated, nil
}

// roundHalfUp rounds .5 toward positive infinity, so -16.5 becomes -16.
func roundHalfUp(x float64) int {
	return int(math.Floor(x + 0.5))
}
