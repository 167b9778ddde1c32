package utils

import (
	"core/models"
	"fmt"
	"strconv"
	"strings"
)

// MaxGamesPerSet bounds a single set score; anything above is a typo.
const MaxGamesPerSet = 99

// ParseSetScores reads a freeform score line such as "6-4, 6-2,3-6".
func ParseSetScores(s string) ([]models.SetScore, error) {
	if strings.TrimSpace(s) == "" {
		return nil, fmt.Errorf("%w: no sets given", models.ErrInvalidMatchInput)
	}

	tokens := strings.Split(s, ",")
	sets := make([]models.SetScore, 0, len(tokens))
	for i, token := range tokens {
		a, b, ok := strings.Cut(strings.TrimSpace(token), "-")
		if !ok {
			return nil, fmt.Errorf("%w: set %d %q is not of the form games-games", models.ErrInvalidMatchInput, i+1, token)
		}

		gamesA, err := parseGames(a)
		if err != nil {
			return nil, fmt.Errorf("%w: set %d: %v", models.ErrInvalidMatchInput, i+1, err)
		}
		gamesB, err := parseGames(b)
		if err != nil {
			return nil, fmt.Errorf("%w: set %d: %v", models.ErrInvalidMatchInput, i+1, err)
		}

		sets = append(sets, models.SetScore{A: gamesA, B: gamesB})
	}

	return sets, nil
}

func parseGames(s string) (int, error) {
	s = strings.TrimSpace(s)
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("games %q is not a number", s)
	}
	if n < 0 {
		return 0, fmt.Errorf("games %d is negative", n)
	}
	if n > MaxGamesPerSet {
		return 0, fmt.Errorf("games %d is more than %d", n, MaxGamesPerSet)
	}
	return n, nil
}

// FormatSetScores is the inverse of ParseSetScores, without spaces.
func FormatSetScores(sets []models.SetScore) string {
	parts := make([]string, len(sets))
	for i, set := range sets {
		parts[i] = strconv.Itoa(set.A) + "-" + strconv.Itoa(set.B)
	}
	return strings.Join(parts, ",")
}

// SumGames totals the games won by each side.
func SumGames(sets []models.SetScore) (int, int) {
	var gamesA, gamesB int
	for _, set := range sets {
		gamesA += set.A
		gamesB += set.B
	}
	return gamesA, gamesB
}

// AggregateSetScores returns side A's share of all games played.
func AggregateSetScores(sets []models.SetScore) (float64, error) {
	for i, set := range sets {
		if set.A < 0 || set.B < 0 || set.A > MaxGamesPerSet || set.B > MaxGamesPerSet {
			return 0, fmt.Errorf("%w: set %d %d-%d is out of range", models.ErrInvalidMatchInput, i+1, set.A, set.B)
		}
	}

	gamesA, gamesB := SumGames(sets)
	if gamesA+gamesB <= 0 {
		return 0, fmt.Errorf("%w: total games must be positive", models.ErrInvalidMatchInput)
	}

	share := float64(gamesA) / float64(gamesA+gamesB)
	if share < 0 || share > 1 {
		return 0, fmt.Errorf("%w: game share %v is outside [0, 1]", models.ErrInvalidMatchInput, share)
	}
	return share, nil
}
