package main

import (
	"context"
	"os"
	"os/signal"
	"strings"

	"github.com/apex/log"
	"github.com/apex/log/handlers/text"
	"github.com/benbeisheim/chessrules-backend/internal/config"
	"github.com/benbeisheim/chessrules-backend/internal/controller"
	"github.com/benbeisheim/chessrules-backend/internal/middleware"
	"github.com/benbeisheim/chessrules-backend/internal/service"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/websocket/v2"
)

func newApp(cfg config.Config, gameService *service.GameService) *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		Immutable:             true,
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowOrigins,
		AllowHeaders:     "Origin, Content-Type, Accept, X-Player-ID",
		AllowMethods:     "GET, POST, OPTIONS",
		AllowCredentials: cfg.AllowOrigins != "*",
	}))
	app.Use(middleware.RequestLogger())

	gameController := controller.NewGameController(gameService)
	wsController := controller.NewWebSocketController(gameService)

	app.Get("/ws/game/:gameId",
		middleware.EnsurePlayerID(),
		middleware.WebSocketUpgrade(),
		websocket.New(wsController.HandleConnection, websocket.Config{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			Origins:         strings.Split(cfg.AllowOrigins, ","),
		}),
	)

	api := app.Group("/api", middleware.EnsurePlayerID())
	gameController.Register(api.Group("/game"))

	return app
}

// waitShutdown stops the server on the first interrupt and closes done once
// in-flight requests have drained.
func waitShutdown(app *fiber.App, cancel context.CancelFunc, done chan<- struct{}) {
	defer close(done)

	sigint := make(chan os.Signal, 1)
	signal.Notify(sigint, os.Interrupt)
	defer signal.Stop(sigint)

	<-sigint
	log.Info("received shutdown signal")
	cancel()

	if err := app.Shutdown(); err != nil {
		log.WithError(err).Error("HTTP server shutdown")
	}
}

func main() {
	log.SetHandler(text.New(os.Stderr))

	cfg, err := config.FromOS()
	if err != nil {
		log.WithError(err).Fatal("load config")
	}
	log.SetLevelFromString(cfg.LogLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	gameManager := service.NewGameManager(cfg.FreePlay)
	go gameManager.Run(ctx, cfg.MatchmakingInterval)
	gameService := service.NewGameService(gameManager)

	app := newApp(cfg, gameService)
	done := make(chan struct{})
	go waitShutdown(app, cancel, done)

	log.WithFields(log.Fields{"addr": cfg.Addr, "freePlay": cfg.FreePlay}).Info("listening")
	if err := app.Listen(cfg.Addr); err != nil {
		log.WithError(err).Fatal("HTTP server end")
	}
	<-done
}
