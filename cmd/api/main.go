package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/adiwidjaja/tokolens/internal/analytics"
	analyticsStore "github.com/adiwidjaja/tokolens/internal/analytics/store"
	"github.com/adiwidjaja/tokolens/internal/auth"
	"github.com/adiwidjaja/tokolens/internal/auth/oauth"
	authStore "github.com/adiwidjaja/tokolens/internal/auth/store"
	"github.com/adiwidjaja/tokolens/internal/config"
	"github.com/adiwidjaja/tokolens/internal/database"
	tokolensHttp "github.com/adiwidjaja/tokolens/internal/http"
	activityHandler "github.com/adiwidjaja/tokolens/internal/http/activity"
	analyticsHandler "github.com/adiwidjaja/tokolens/internal/http/analytics"
	authHandler "github.com/adiwidjaja/tokolens/internal/http/auth"
	newsHandler "github.com/adiwidjaja/tokolens/internal/http/news"
	txHandler "github.com/adiwidjaja/tokolens/internal/http/transaction"
	"github.com/adiwidjaja/tokolens/internal/news"
	"github.com/adiwidjaja/tokolens/internal/search"
	"github.com/adiwidjaja/tokolens/internal/session"
	"github.com/adiwidjaja/tokolens/internal/transaction"
	txStore "github.com/adiwidjaja/tokolens/internal/transaction/store"

	activityLog "github.com/adiwidjaja/tokolens/internal/activity/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := database.New(database.Config{
		DSN:             cfg.ConnectionString(),
		MaxOpenConns:    cfg.DB.MaxOpenConns,
		MaxIdleConns:    cfg.DB.MaxIdleConns,
		ConnMaxLifetime: cfg.DB.ConnMaxLifetime,
	})
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	searchClient, err := search.NewClient(search.Config{
		URL:        cfg.Search.URL,
		Timeout:    cfg.Search.Timeout,
		MaxRetries: cfg.Search.MaxRetries,
	})
	if err != nil {
		slog.Error("failed to build search client", "error", err)
		os.Exit(1)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer rdb.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.Mongo.URI))
	if err != nil {
		slog.Error("failed to connect to mongodb", "error", err)
		os.Exit(1)
	}
	defer mongoClient.Disconnect(context.Background())

	activityStore := activityLog.New(mongoClient.Database(cfg.Mongo.Database), slog.Default())

	var (
		analyticsService = analytics.NewService(analyticsStore.New(db), searchClient)
		newsService      = news.NewService(searchClient)

		transactionService = transaction.NewService(
			txStore.New(db),
			transaction.NewIndexLister(searchClient),
		)

		tokens      = auth.NewTokens(cfg.Auth.JWTSecret, cfg.Auth.AccessTTL, cfg.Auth.RefreshTTL)
		oauthClient = oauth.NewClient(oauth.Config{
			GoogleClientID:     cfg.OAuth.GoogleClientID,
			GoogleClientSecret: cfg.OAuth.GoogleClientSecret,
			GoogleRedirectURI:  cfg.OAuth.GoogleRedirectURI,
		})
		authService = auth.NewService(authStore.New(db), tokens, session.New(rdb), oauthClient, slog.Default())
	)

	var (
		analyticsH = analyticsHandler.NewHandler(analyticsService)
		newsH      = newsHandler.NewHandler(newsService)
		txH        = txHandler.NewHandler(transactionService)
		authH      = authHandler.NewHandler(authService, activityStore, cfg.Auth.AccessTTL, cfg.Auth.RefreshTTL, cfg.OAuth.FrontendCallback)
		activityH  = activityHandler.NewHandler(activityStore)
	)

	router := tokolensHttp.New(analyticsH, newsH, txH, authH, activityH)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	slog.Info("starting server", "port", port)

	if err := http.ListenAndServe(port, router); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
