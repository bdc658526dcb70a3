package main

import (
	"database/sql"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordle/apps/solver/internal/config"
	"github.com/robalobadob/wordle/apps/solver/internal/daily"
	"github.com/robalobadob/wordle/apps/solver/internal/httpserver"
	"github.com/robalobadob/wordle/apps/solver/internal/runner"
	"github.com/robalobadob/wordle/apps/solver/internal/store"
	"github.com/robalobadob/wordle/apps/solver/internal/words"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	lists, err := words.Load(cfg.AnswersFile, cfg.AllowedFile, cfg.WordLength)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load word lists")
	}

	var (
		db     *sql.DB
		dailyS *daily.Store
	)
	st := store.NewMemoryStore()
	if cfg.DBPath != "" {
		db, err = store.Open(cfg.DBPath)
		if err != nil {
			log.Fatal().Err(err).Str("db", cfg.DBPath).Msg("failed to open database")
		}
		defer db.Close()
		st = store.NewSQLiteStore(db)
		dailyS = daily.NewStore(db)
	}

	oracle, err := runner.Oracle(cfg, db)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load frequency oracle")
	}

	factory := &runner.Factory{
		Lists:     lists,
		Oracle:    oracle,
		Opening:   cfg.OpeningWord,
		MaxRounds: cfg.MaxRounds,
		Logger:    log.Logger,
	}
	// Fail fast on a bad opening word or an incomplete frequency table.
	if _, err := factory.New(""); err != nil {
		log.Fatal().Err(err).Msg("invalid solver configuration")
	}

	srv := httpserver.New(httpserver.Deps{
		Factory:      factory,
		Store:        st,
		JWTSecret:    cfg.JWTSecret,
		AdminKeyHash: cfg.AdminKeyHash,
		ClientOrigin: cfg.ClientOrigin,
		Daily:        dailyS,
		DailySalt:    cfg.DailySalt,

		SessionTimeout: cfg.SessionTimeout,
	})
	log.Info().Str("port", cfg.Port).Str("opening", cfg.OpeningWord).Msg("starting solver service")
	if err := srv.Start(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}
