package services

import (
	"context"
	"core/models"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreatePlayer(t *testing.T) {
	db := newTestDB(t)
	svc := NewPlayerService(db)
	ctx := context.Background()

	player, err := svc.CreatePlayer(ctx, "  Paquito ")
	require.NoError(t, err)
	assert.Equal(t, "Paquito", player.Name)
	assert.Equal(t, models.InitialRating, player.EloSingles)
	assert.Equal(t, models.InitialRating, player.EloDoubles)

	_, err = svc.CreatePlayer(ctx, "Paquito")
	assert.ErrorIs(t, err, models.ErrPlayerExists)

	_, err = svc.CreatePlayer(ctx, "   ")
	assert.ErrorIs(t, err, models.ErrInvalidPlayerName)

	found, err := svc.GetPlayerByName(ctx, "Paquito")
	require.NoError(t, err)
	assert.Equal(t, player.ID, found.ID)

	_, err = svc.GetPlayerByName(ctx, "Nadal")
	assert.ErrorIs(t, err, models.ErrUnknownPlayer)
}

func TestGetPlayerByID(t *testing.T) {
	db := newTestDB(t)
	svc := NewPlayerService(db)

	player, err := svc.GetPlayerByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Robert", player.Name)

	_, err = svc.GetPlayerByID(context.Background(), 999)
	assert.ErrorIs(t, err, models.ErrPlayerNotFound)
}

func TestGetRanking(t *testing.T) {
	db := newTestDB(t)
	players := NewPlayerService(db)
	matches := NewMatchService(db, 32, nil)
	ctx := context.Background()

	_, err := matches.RegisterMatch(ctx, singles("Alex", "Robert", "6-0"))
	require.NoError(t, err)
	_, err = matches.RegisterMatch(ctx, doubles("Oscar", "Pepe2", "Pepe", "Jorge", "6-0"))
	require.NoError(t, err)

	ranking, err := players.GetRanking(ctx, models.MatchTypeSingles)
	require.NoError(t, err)
	require.Len(t, ranking, len(seedNames))

	assert.Equal(t, models.RankingEntry{Position: 1, PlayerID: 9, Name: "Alex", Rating: 1016}, ranking[0])
	// ties keep roster order
	assert.Equal(t, "Pepe", ranking[1].Name)
	assert.Equal(t, "Jorge", ranking[2].Name)
	assert.Equal(t, "Robert", ranking[len(ranking)-1].Name)
	assert.Equal(t, 984, ranking[len(ranking)-1].Rating)

	ranking, err = players.GetRanking(ctx, models.MatchTypeDoubles)
	require.NoError(t, err)
	assert.Equal(t, "Pepe2", ranking[0].Name)
	assert.Equal(t, "Oscar", ranking[1].Name)
	assert.Equal(t, "Jorge", ranking[len(ranking)-1].Name)
	assert.Equal(t, "Pepe", ranking[len(ranking)-2].Name)
}

func TestGetAllPlayersPagination(t *testing.T) {
	db := newTestDB(t)
	svc := NewPlayerService(db)

	page, err := svc.GetAllPlayers(context.Background(), "name", "ASC", 1, 4)
	require.NoError(t, err)
	assert.Equal(t, int64(9), page.Total)
	assert.Equal(t, 3, page.TotalPages)
	require.Len(t, page.Data, 4)
	assert.Equal(t, "Alex", page.Data[0].Name)

	page, err = svc.GetAllPlayers(context.Background(), "name", "ASC", 3, 4)
	require.NoError(t, err)
	require.Len(t, page.Data, 1)
	assert.Equal(t, "Robert", page.Data[0].Name)

	// unknown ordering falls back to created_at
	page, err = svc.GetAllPlayers(context.Background(), "password; DROP TABLE players", "sideways", 1, 20)
	require.NoError(t, err)
	assert.Len(t, page.Data, 9)
}

func TestGetPlayerMatchesAndHistory(t *testing.T) {
	db := newTestDB(t)
	players := NewPlayerService(db)
	matches := NewMatchService(db, 32, nil)
	ctx := context.Background()

	_, err := matches.RegisterMatch(ctx, singles("Robert", "Pepe", "6-0"))
	require.NoError(t, err)
	_, err = matches.RegisterMatch(ctx, doubles("Jorge", "Kike", "Luis", "Robert", "6-0"))
	require.NoError(t, err)
	_, err = matches.RegisterMatch(ctx, singles("Oscar", "Alex", "6-0"))
	require.NoError(t, err)

	robert, err := players.GetPlayerByName(ctx, "Robert")
	require.NoError(t, err)

	page, err := players.GetPlayerMatches(ctx, robert.ID, "", 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Total)
	require.Len(t, page.Data, 2)
	assert.Equal(t, models.MatchTypeDoubles, page.Data[0].Type)

	page, err = players.GetPlayerMatches(ctx, robert.ID, "singles", 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)

	history, err := players.GetEloHistoryByPlayerID(ctx, robert.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, models.MatchTypeSingles, history[0].MatchType)
	assert.Equal(t, 16, history[0].EloChange)
	assert.Equal(t, models.MatchTypeDoubles, history[1].MatchType)
	assert.Equal(t, -16, history[1].EloChange)
}

func TestPaginationIsClamped(t *testing.T) {
	tests := []struct {
		page, pageSize             int
		wantPage, wantSize, offset int
	}{
		{1, 10, 1, 10, 0},
		{3, 4, 3, 4, 8},
		{0, 0, 1, 1, 0},
		{-5, 500, 1, MaxPageSize, 0},
		{math.MaxInt, MaxPageSize, MaxPage, MaxPageSize, (MaxPage - 1) * MaxPageSize},
	}

	for _, tt := range tests {
		page, size, offset := pageOffset(tt.page, tt.pageSize)
		assert.Equal(t, tt.wantPage, page)
		assert.Equal(t, tt.wantSize, size)
		assert.Equal(t, tt.offset, offset)
		assert.GreaterOrEqual(t, offset, 0)
	}

	db := newTestDB(t)
	svc := NewPlayerService(db)

	players, err := svc.GetAllPlayers(context.Background(), "name", "ASC", math.MaxInt, 10)
	require.NoError(t, err)
	assert.Empty(t, players.Data)
	assert.Equal(t, MaxPage, players.Page)

	matches, err := svc.GetPlayerMatches(context.Background(), 1, "", math.MaxInt, 10)
	require.NoError(t, err)
	assert.Empty(t, matches.Data)
}
