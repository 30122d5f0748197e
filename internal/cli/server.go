package cli

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"classgroup-service/internal/app"
	"classgroup-service/internal/config"
	"classgroup-service/internal/domain"
	"classgroup-service/internal/infra/memory"
	pgloader "classgroup-service/internal/infra/postgres"
	redisstore "classgroup-service/internal/infra/redis"
	transport "classgroup-service/internal/transport/http"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the classroom server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
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
	}
	redisTTL := config.TTLDuration(cfg.Redis.TTL, 10*time.Minute)

	var pgPool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		pgPool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
	}

	var loader memory.PoolLoader = memory.NewStaticPoolLoader(samplePools())
	if pgPool != nil {
		loader = pgloader.NewPoolLoader(pgPool)
	}

	poolTTL := config.TTLDuration(cfg.Quiz.PoolTTL, 10*time.Minute)
	var poolRepo app.PoolRepository
	if redisClient != nil {
		poolRepo = redisstore.NewPoolRepository(redisClient, loader, poolTTL)
	} else {
		poolRepo = memory.NewPoolRepository(loader, poolTTL)
	}

	var prefs app.PreferenceStore
	if redisClient != nil {
		prefs = redisstore.NewPreferenceStore(redisClient, redisTTL)
	} else {
		prefs = memory.NewPreferenceStore()
	}

	settings := app.Settings{
		QuestionsPerGroup: cfg.Quiz.QuestionsPerGroup,
		TimeLimitSeconds:  cfg.Quiz.TimeLimitSeconds,
		DefaultTheme:      cfg.UI.DefaultTheme,
	}
	classrooms := memory.NewClassroomStore(settings)
	service := app.NewClassroomService(classrooms, poolRepo, prefs)
	wsHandler := transport.NewWSHandler(service)
	uploadHandler := transport.NewUploadHandler(service)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("/ws", wsHandler.ServeWS)
	mux.HandleFunc("/pool", uploadHandler.ServePoolUpload)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("starting classgroup service on :%s", finalPort)
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
	return server.Shutdown(shutdownCtx)
}

// samplePools provides named pools beyond the built-in default; swap the
// loader for the Postgres-backed one in production.
func samplePools() map[string]domain.QuestionPool {
	return map[string]domain.QuestionPool{
		"geography": {
			ID: "geography",
			Pairs: []domain.QAPair{
				{Question: "What is the capital of France?", Answer: "Paris"},
				{Question: "Which continent is Egypt in?", Answer: "Africa"},
				{Question: "What is the longest river in the world?", Answer: "The Nile"},
				{Question: "How many continents are there?", Answer: "Seven"},
				{Question: "Which ocean borders California?", Answer: "The Pacific"},
			},
		},
	}
}
