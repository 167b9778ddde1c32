package services

import (
	"context"
	"core/models"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterSinglesMatch(t *testing.T) {
	db := newTestDB(t)
	rankings := &recordingCache{}
	svc := NewMatchService(db, 32, rankings)
	ctx := context.Background()

	match, err := svc.RegisterMatch(ctx, singles("Robert", "Pepe", "6-0, 6-0"))
	require.NoError(t, err)

	assert.Equal(t, models.MatchTypeSingles, match.Type)
	assert.Equal(t, "6-0,6-0", match.Sets)
	assert.Equal(t, 12, match.GamesA)
	assert.Equal(t, 0, match.GamesB)
	assert.Equal(t, []string{"Robert", "Pepe"}, match.ParticipantNames())
	assert.Nil(t, match.PlayerA2ID)

	r := ratings(t, db)
	assert.Equal(t, 1016, r["Robert"].EloSingles)
	assert.Equal(t, 984, r["Pepe"].EloSingles)
	assert.Equal(t, 1000, r["Robert"].EloDoubles)
	assert.Equal(t, 1000, r["Jorge"].EloSingles)

	var history []models.EloHistory
	require.NoError(t, db.Order("id ASC").Find(&history).Error)
	require.Len(t, history, 2)
	assert.Equal(t, 1000, history[0].EloBefore)
	assert.Equal(t, 1016, history[0].EloAfter)
	assert.Equal(t, 16, history[0].EloChange)
	assert.Equal(t, -16, history[1].EloChange)
	assert.Equal(t, match.ID, history[0].MatchID)

	assert.Equal(t, 1, rankings.calls())
}

func TestRegisterDoublesMatch(t *testing.T) {
	db := newTestDB(t)
	svc := NewMatchService(db, 32, nil)

	match, err := svc.RegisterMatch(context.Background(), doubles("Robert", "Pepe", "Jorge", "Kike", "6-0,6-0"))
	require.NoError(t, err)
	require.NotNil(t, match.PlayerA2ID)
	require.NotNil(t, match.PlayerB2ID)
	assert.Equal(t, []string{"Robert", "Pepe", "Jorge", "Kike"}, match.ParticipantNames())

	r := ratings(t, db)
	assert.Equal(t, 1016, r["Robert"].EloDoubles)
	assert.Equal(t, 1016, r["Pepe"].EloDoubles)
	assert.Equal(t, 984, r["Jorge"].EloDoubles)
	assert.Equal(t, 984, r["Kike"].EloDoubles)
	assert.Equal(t, 1000, r["Robert"].EloSingles)
}

func TestRegisterMatchAcceptsLegacyType(t *testing.T) {
	db := newTestDB(t)
	svc := NewMatchService(db, 32, nil)

	match, err := svc.RegisterMatch(context.Background(), models.MatchRecord{Type: "2v2", Players: []string{"Robert", "Pepe", "Jorge", "Kike"}, Sets: "6-4"})
	require.NoError(t, err)
	assert.Equal(t, models.MatchTypeDoubles, match.Type)
}

func TestRegisterMatchRejectionsLeaveRatingsUntouched(t *testing.T) {
	tests := []struct {
		name   string
		record models.MatchRecord
		want   error
	}{
		{"unknown player", singles("Robert", "Nadal", "6-4"), models.ErrUnknownPlayer},
		{"unknown doubles partner", doubles("Robert", "Pepe", "Jorge", "Nadal", "6-4"), models.ErrUnknownPlayer},
		{"zero games", singles("Robert", "Pepe", "0-0"), models.ErrInvalidMatchInput},
		{"unparsable sets", singles("Robert", "Pepe", "6-4,x"), models.ErrInvalidMatchInput},
		{"games out of range", singles("Robert", "Pepe", "100-4"), models.ErrInvalidMatchInput},
		{"overflowing games", singles("Robert", "Pepe", "4611686018427387904-4611686018427387904,4611686018427387904-4611686018427387904,5-5"), models.ErrInvalidMatchInput},
		{"empty sets", singles("Robert", "Pepe", ""), models.ErrInvalidMatchInput},
		{"same player twice", singles("Robert", "Robert", "6-4"), models.ErrInvalidMatchInput},
		{"wrong player count", models.MatchRecord{Type: models.MatchTypeDoubles, Players: []string{"Robert", "Pepe"}, Sets: "6-4"}, models.ErrInvalidMatchInput},
		{"unknown type", models.MatchRecord{Type: "3v3", Players: []string{"Robert", "Pepe"}, Sets: "6-4"}, models.ErrInvalidMatchInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := newTestDB(t)
			rankings := &recordingCache{}
			svc := NewMatchService(db, 32, rankings)

			_, err := svc.RegisterMatch(context.Background(), tt.record)
			require.ErrorIs(t, err, tt.want)

			for _, p := range ratings(t, db) {
				assert.Equal(t, 1000, p.EloSingles, p.Name)
				assert.Equal(t, 1000, p.EloDoubles, p.Name)
			}

			var matches, history int64
			require.NoError(t, db.Model(&models.Match{}).Count(&matches).Error)
			require.NoError(t, db.Model(&models.EloHistory{}).Count(&history).Error)
			assert.Zero(t, matches)
			assert.Zero(t, history)
			assert.Zero(t, rankings.calls())
		})
	}
}

func TestRegisterSameMatchTwiceKeepsMovingRatings(t *testing.T) {
	db := newTestDB(t)
	svc := NewMatchService(db, 32, nil)
	ctx := context.Background()

	_, err := svc.RegisterMatch(ctx, singles("Robert", "Pepe", "6-4,6-2"))
	require.NoError(t, err)
	first := ratings(t, db)

	_, err = svc.RegisterMatch(ctx, singles("Robert", "Pepe", "6-4,6-2"))
	require.NoError(t, err)
	second := ratings(t, db)

	assert.Greater(t, second["Robert"].EloSingles, first["Robert"].EloSingles)
	assert.Less(t, second["Pepe"].EloSingles, first["Pepe"].EloSingles)

	entries, err := svc.GetMatches(ctx)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestEditMatchKeepsPositionAndAppliesOnTop(t *testing.T) {
	db := newTestDB(t)
	svc := NewMatchService(db, 32, nil)
	ctx := context.Background()

	_, err := svc.RegisterMatch(ctx, singles("Robert", "Pepe", "6-0"))
	require.NoError(t, err)
	_, err = svc.RegisterMatch(ctx, singles("Jorge", "Kike", "6-0"))
	require.NoError(t, err)
	_, err = svc.RegisterMatch(ctx, singles("Luis", "Joao", "6-0"))
	require.NoError(t, err)

	edited, err := svc.EditMatch(ctx, 1, doubles("Jorge", "Kike", "Oscar", "Alex", "6-0"))
	require.NoError(t, err)
	assert.Equal(t, models.MatchTypeDoubles, edited.Type)

	entries, err := svc.GetMatches(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, 1, entries[1].Index)
	assert.Equal(t, edited.ID, entries[1].Match.ID)
	assert.Equal(t, []string{"Jorge", "Kike", "Oscar", "Alex"}, entries[1].Match.ParticipantNames())
	assert.Equal(t, []string{"Robert", "Pepe"}, entries[0].Match.ParticipantNames())
	assert.Equal(t, []string{"Luis", "Joao"}, entries[2].Match.ParticipantNames())

	// the original singles result is not reverted
	r := ratings(t, db)
	assert.Equal(t, 1016, r["Jorge"].EloSingles)
	assert.Equal(t, 984, r["Kike"].EloSingles)
	assert.Equal(t, 1016, r["Jorge"].EloDoubles)
	assert.Equal(t, 984, r["Alex"].EloDoubles)
}

func TestEditAndDeleteOutOfRange(t *testing.T) {
	db := newTestDB(t)
	svc := NewMatchService(db, 32, nil)
	ctx := context.Background()

	_, err := svc.RegisterMatch(ctx, singles("Robert", "Pepe", "6-4"))
	require.NoError(t, err)
	before := ratings(t, db)

	_, err = svc.EditMatch(ctx, 1, singles("Robert", "Pepe", "6-4"))
	assert.ErrorIs(t, err, models.ErrMatchNotFound)
	_, err = svc.EditMatch(ctx, -1, singles("Robert", "Pepe", "6-4"))
	assert.ErrorIs(t, err, models.ErrMatchNotFound)
	assert.ErrorIs(t, svc.DeleteMatch(ctx, 5), models.ErrMatchNotFound)
	_, err = svc.GetMatchAt(ctx, 3)
	assert.ErrorIs(t, err, models.ErrMatchNotFound)

	assert.Equal(t, before, ratings(t, db))
}

func TestDeleteMatchKeepsRatings(t *testing.T) {
	db := newTestDB(t)
	svc := NewMatchService(db, 32, nil)
	ctx := context.Background()

	_, err := svc.RegisterMatch(ctx, singles("Robert", "Pepe", "6-0"))
	require.NoError(t, err)
	_, err = svc.RegisterMatch(ctx, singles("Jorge", "Kike", "6-0"))
	require.NoError(t, err)

	require.NoError(t, svc.DeleteMatch(ctx, 0))

	entries, err := svc.GetMatches(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 0, entries[0].Index)
	assert.Equal(t, []string{"Jorge", "Kike"}, entries[0].Match.ParticipantNames())

	r := ratings(t, db)
	assert.Equal(t, 1016, r["Robert"].EloSingles)
}

func TestRecomputeRatingsReplaysHistory(t *testing.T) {
	db := newTestDB(t)
	svc := NewMatchService(db, 32, nil)
	ctx := context.Background()

	_, err := svc.RegisterMatch(ctx, singles("Robert", "Pepe", "6-0"))
	require.NoError(t, err)
	_, err = svc.RegisterMatch(ctx, doubles("Robert", "Pepe", "Jorge", "Kike", "6-3,6-4"))
	require.NoError(t, err)
	_, err = svc.RegisterMatch(ctx, singles("Pepe", "Jorge", "2-6,6-7"))
	require.NoError(t, err)

	// a second database that only ever saw the surviving matches
	reference := newTestDB(t)
	refSvc := NewMatchService(reference, 32, nil)
	_, err = refSvc.RegisterMatch(ctx, doubles("Robert", "Pepe", "Jorge", "Kike", "6-3,6-4"))
	require.NoError(t, err)
	_, err = refSvc.RegisterMatch(ctx, singles("Pepe", "Jorge", "2-6,6-7"))
	require.NoError(t, err)

	require.NoError(t, svc.DeleteMatch(ctx, 0))
	players, err := svc.RecomputeRatings(ctx)
	require.NoError(t, err)
	assert.Len(t, players, len(seedNames))

	got := ratings(t, db)
	want := ratings(t, reference)
	for name, p := range want {
		assert.Equal(t, p.EloSingles, got[name].EloSingles, name)
		assert.Equal(t, p.EloDoubles, got[name].EloDoubles, name)
	}

	var history int64
	require.NoError(t, db.Model(&models.EloHistory{}).Count(&history).Error)
	assert.Equal(t, int64(6), history)
}

func TestRecomputeRatingsOnEmptyHistory(t *testing.T) {
	db := newTestDB(t)
	svc := NewMatchService(db, 32, nil)

	require.NoError(t, db.Model(&models.Player{}).Where("name = ?", "Robert").Update("elo_singles", 1234).Error)

	_, err := svc.RecomputeRatings(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1000, ratings(t, db)["Robert"].EloSingles)
}

func TestRankingCacheFailureDoesNotFailRegistration(t *testing.T) {
	db := newTestDB(t)
	rankings := &recordingCache{err: errors.New("redis down")}
	svc := NewMatchService(db, 32, rankings)

	_, err := svc.RegisterMatch(context.Background(), singles("Robert", "Pepe", "6-4"))
	require.NoError(t, err)
	assert.Equal(t, 1, rankings.calls())
}

func TestGetRecentMatches(t *testing.T) {
	db := newTestDB(t)
	svc := NewMatchService(db, 32, nil)
	ctx := context.Background()

	for _, opponent := range []string{"Pepe", "Jorge", "Kike"} {
		_, err := svc.RegisterMatch(ctx, singles("Robert", opponent, "6-4"))
		require.NoError(t, err)
	}

	recent, err := svc.GetRecentMatches(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "Kike", recent[0].PlayerB1.Name)
	assert.Equal(t, "Jorge", recent[1].PlayerB1.Name)
}
