package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/you/teamboard/internal/auth"
	"github.com/you/teamboard/internal/infra"
	"github.com/you/teamboard/internal/repository"
	pgrepo "github.com/you/teamboard/internal/repository/pg"
	transport "github.com/you/teamboard/internal/transport/http"
	uc "github.com/you/teamboard/internal/usecase"
)

func main() {
	_ = godotenv.Load()
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL required")
	}
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		log.Fatal("JWT_SECRET required")
	}
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		cancel()
		log.Fatalf("db connect: %v", err)
	}
	defer cancel()
	defer pool.Close()

	repoImpl := pgrepo.NewPGRepo(pool)
	var repo repository.Repo = repoImpl

	logger := infra.NewZapLogger()
	tokens := auth.NewTokenManager(secret, 24*time.Hour)

	authUC := uc.NewAuthUsecase(repo)
	teamUC := uc.NewTeamUsecase(repo)
	taskUC := uc.NewTaskUsecase(repo)

	handlers := transport.NewHandlers(authUC, teamUC, taskUC, tokens, logger)
	router := transport.NewRouter(handlers, tokens)

	srv := &http.Server{
		Handler:      router,
		Addr:         ":" + port,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.Infof("starting server on :%s", port)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Errorf("server error: %v", err)
	}
}
