package main

import (
	"context"
	"os"

	"github.com/cristianortiz/bidEngine/internal/bid/application"
	bidhttp "github.com/cristianortiz/bidEngine/internal/bid/infra/http"
	"github.com/cristianortiz/bidEngine/internal/bid/infra/repository/postgres"
	chatws "github.com/cristianortiz/bidEngine/internal/chat/infra/websocket"
	"github.com/cristianortiz/bidEngine/internal/shared/db"
	"github.com/cristianortiz/bidEngine/internal/shared/db/migrations"
	"github.com/cristianortiz/bidEngine/internal/shared/httpserver"
	"github.com/cristianortiz/bidEngine/internal/shared/logger"
	ws "github.com/cristianortiz/bidEngine/internal/shared/websocket"
	"go.uber.org/zap"
)

func main() {
	log := logger.GetLogger()
	defer logger.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := migrations.RunMigrations(); err != nil {
		log.Fatal("Failed to run migrations", zap.Error(err))
	}

	pool, err := db.GetPostgresDBPool(ctx)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer pool.Close()

	bidRepo := postgres.NewBidRepository(pool)
	profileRepo := postgres.NewProfileRepository(pool)

	// chat relay: connection registry plus the module handler that consumes it
	hub := ws.NewHub()
	go hub.Run(ctx)

	chatHandler := chatws.NewChatWSHandler(hub)
	go chatHandler.ListenForMessages(ctx)

	service := application.NewBidService(
		application.NewCreateBidUseCase(bidRepo),
		application.NewGetBidUseCase(bidRepo),
		application.NewListBidsUseCase(bidRepo, profileRepo),
		application.NewUpdateBidUseCase(bidRepo),
		application.NewAssignBidUseCase(bidRepo, profileRepo, chatHandler),
		application.NewQuoteUseCase(bidRepo),
	)

	server := httpserver.NewServer()
	bidhttp.NewBidHandler(service).RegisterRoutes(server.App())
	chatHandler.RegisterRoutes(ctx, server.App())

	addr := os.Getenv("SERVER_ADDR")
	if addr == "" {
		addr = ":9000"
	}
	if err := server.Start(addr); err != nil {
		log.Fatal("HTTP server stopped", zap.Error(err))
	}
}
