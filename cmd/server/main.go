package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"blogcore/internal/config"
	"blogcore/internal/es"
	"blogcore/internal/handlers"
	"blogcore/internal/logging"
	authmw "blogcore/internal/middleware/auth"
	"blogcore/internal/mykafka"
	"blogcore/internal/service/identity"
	"blogcore/internal/service/moderation"
	"blogcore/internal/service/token"
	"blogcore/internal/store"
	httpserver "blogcore/internal/transport/http"
)

func main() {
	db, err := config.InitDB()
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}

	configuration, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger := logging.New(configuration.LOG_LEVEL)

	jwtSecret := []byte(configuration.JWT_SECRET)
	refreshSecret := []byte(configuration.REFRESH_SECRET)

	prod := mykafka.NewProducer([]string{configuration.KAFKA_ADDRESS})

	esClient, err := es.NewClient(configuration)
	if err != nil {
		log.Fatal(err)
	}

	tokenSvc := &token.TokenService{DB: db, JWTSecret: jwtSecret, RefreshSecret: refreshSecret}
	identitySvc := &identity.Resolver{DB: db}
	modSvc := &moderation.Service{
		Store:    store.NewGormStore(db),
		Identity: identitySvc,
		Producer: prod,
		ES:       esClient,
	}

	e := echo.New()
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID())
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := logging.IntoContext(c.Request().Context(), logger)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	})

	deps := httpserver.Deps{
		Auth:      &authmw.Middleware{Tokens: tokenSvc, Identity: identitySvc},
		AuthH:     &handlers.AuthHandler{DB: db, Tokens: tokenSvc, Producer: prod},
		BlogH:     &handlers.BlogHandler{Mod: modSvc},
		CategoryH: &handlers.CategoryHandler{Mod: modSvc},
		CommentH:  &handlers.CommentHandler{Mod: modSvc},
		LikeH:     &handlers.LikeHandler{DB: db},
		AdminH:    &handlers.AdminHandler{Mod: modSvc},
		SearchH:   &handlers.SearchHandler{ES: esClient},
		UserH:     &handlers.UserHandler{DB: db},
	}
	httpserver.Register(e, &deps)

	srv := &http.Server{
		Addr:         ":8080",
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("http server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("server shutdown error: %v", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Printf("db close error: %v", err)
		}
	} else {
		log.Printf("db() error: %v", err)
	}

	if err := prod.Close(); err != nil {
		log.Printf("kafka close error: %v", err)
	}

	log.Println("shutdown complete")
}
