package cli

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"own-game-service/internal/app"
	"own-game-service/internal/config"
	"own-game-service/internal/infra/file"
	"own-game-service/internal/infra/memory"
	pgloader "own-game-service/internal/infra/postgres"
	redisstore "own-game-service/internal/infra/redis"
	transport "own-game-service/internal/transport/http"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the game server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := config.Load(configPath)
	if errors.Is(err, os.ErrNotExist) {
		log.Printf("config %s not found, using defaults", configPath)
	} else if err != nil {
		return err
	}

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()
	}
	redisTTL := config.Duration(cfg.Redis.TTL, 12*time.Hour)

	var pool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
		defer pool.Close()
	}

	defaultBoard := cfg.Board.DefaultID
	var loader memory.BoardLoader
	switch {
	case pool != nil:
		loader = pgloader.NewBoardLoader(pool)
	case cfg.Board.File != "":
		loader = file.NewBoardLoader(cfg.Board.File)
	default:
		sample := sampleBoard()
		loader = memory.NewStaticBoardLoader(sample)
		if defaultBoard == "" {
			defaultBoard = sample.ID
		}
	}

	boardTTL := config.Duration(cfg.Board.TTL, 10*time.Minute)
	var boards app.BoardRepository
	if redisClient != nil {
		boards = redisstore.NewBoardRepository(redisClient, loader, boardTTL)
	} else {
		boards = memory.NewBoardRepository(loader, boardTTL)
	}

	var games app.GameRepository
	if redisClient != nil {
		games = redisstore.NewGameStore(redisClient, redisTTL)
	} else {
		games = memory.NewGameStore()
	}

	service := app.NewGameService(games, boards, app.GameOptions{
		RevealDelay: config.Duration(cfg.Game.RevealDelay, app.DefaultRevealDelay),
		FinishDelay: config.Duration(cfg.Game.FinishDelay, app.DefaultFinishDelay),
	}, cfg.Game.Players)
	wsHandler := transport.NewWSHandler(service, defaultBoard)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("/ws/host", wsHandler.ServeHost)
	mux.HandleFunc("/ws/display", wsHandler.ServeDisplay)
	mux.Handle("/qr", transport.NewQRHandler(cfg.Server.PublicURL, defaultBoard))

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("starting own-game on :%s (default board %q)", finalPort, defaultBoard)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("failed to start server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Println("shutting down server...")
	case <-ctx.Done():
		log.Println("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err = server.Shutdown(shutdownCtx)
	service.CloseAll()
	return err
}
