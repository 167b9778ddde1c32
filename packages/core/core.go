package core

import (
	"core/cache"
	"core/cron"
	"core/handlers"
	"core/services"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// Options tunes the module. Zero values fall back to the defaults.
type Options struct {
	KFactor        float64
	Rankings       cache.RankingCache
	BackupDir      string
	BackupSchedule string
}

type Module struct {
	PlayerHandler     *handlers.PlayerHandler
	PlayerService     *services.PlayerService
	MatchHandler      *handlers.MatchHandler
	MatchService      *services.MatchService
	HistoryHandler    *handlers.HistoryHandler
	HistoryService    *services.HistoryService
	EloHistoryHandler *handlers.EloHistoryHandler
	EloHistoryService *services.EloHistoryService
	StatsHandler      *handlers.StatsHandler
	StatsService      *services.StatsService
	Scheduler         *cron.Scheduler
}

func NewModule(db *gorm.DB, opts Options) *Module {
	playerService := services.NewPlayerService(db)
	playerHandler := handlers.NewPlayerHandler(playerService)

	matchService := services.NewMatchService(db, opts.KFactor, opts.Rankings)
	matchHandler := handlers.NewMatchHandler(matchService)

	historyService := services.NewHistoryService(db, matchService)
	historyHandler := handlers.NewHistoryHandler(historyService, matchService)

	eloHistoryService := services.NewEloHistoryService(db)
	eloHistoryHandler := handlers.NewEloHistoryHandler(eloHistoryService)

	statsService := services.NewStatsService(db)
	statsHandler := handlers.NewStatsHandler(statsService)

	scheduler := cron.NewScheduler(historyService, opts.BackupDir, opts.BackupSchedule)

	return &Module{
		PlayerHandler:     playerHandler,
		PlayerService:     playerService,
		MatchHandler:      matchHandler,
		MatchService:      matchService,
		HistoryHandler:    historyHandler,
		HistoryService:    historyService,
		EloHistoryHandler: eloHistoryHandler,
		EloHistoryService: eloHistoryService,
		StatsHandler:      statsHandler,
		StatsService:      statsService,
		Scheduler:         scheduler,
	}
}

func (m *Module) SetupRoutes(r gin.IRouter) {
	players := r.Group("/players")
	{
		players.GET("", m.PlayerHandler.GetAllPlayers)
		players.POST("", m.PlayerHandler.CreatePlayer)
		players.GET("/:id", m.PlayerHandler.GetPlayer)
		players.GET("/:id/elo-history", m.PlayerHandler.GetEloHistory)
		players.GET("/:id/matches", m.PlayerHandler.GetPlayerMatches)
	}

	r.GET("/rankings/:type", m.PlayerHandler.GetRanking)

	matches := r.Group("/matches")
	{
		matches.GET("", m.MatchHandler.GetMatches)
		matches.GET("/recent", m.MatchHandler.GetRecentMatches)
		matches.GET("/export", m.HistoryHandler.ExportHistory)
		matches.GET("/:index", m.MatchHandler.GetMatch)
		matches.POST("", m.MatchHandler.CreateMatch)
		matches.POST("/import", m.HistoryHandler.ImportHistory)
		matches.PUT("/:index", m.MatchHandler.UpdateMatch)
		matches.DELETE("/:index", m.MatchHandler.DeleteMatch)
	}

	r.POST("/ratings/recompute", m.HistoryHandler.RecomputeRatings)

	eloHistory := r.Group("/elo-history")
	{
		eloHistory.GET("/recent", m.EloHistoryHandler.GetRecentEloChanges)
	}

	r.GET("/stats", m.StatsHandler.GetStats)
}

// StartScheduler starts the history backup job.
func (m *Module) StartScheduler() error {
	log.Info().Msg("starting core module scheduler")
	return m.Scheduler.Start()
}

func (m *Module) StopScheduler() {
	m.Scheduler.Stop()
}

// RunBackupNow writes a history backup immediately.
func (m *Module) RunBackupNow() {
	m.Scheduler.RunNow()
}
