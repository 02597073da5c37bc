package main

import (
	"reservo/internal/spaces/handler"
	"reservo/internal/spaces/repository"
	"reservo/internal/spaces/service"
	"reservo/internal/spaces/validator"
	"reservo/pkg/app"
	"reservo/pkg/config"
)

const ServiceName = "spaces"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	cfg.Log.Info("Starting Spaces service")

	spaceService := initServices(cfg)
	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(handler.NewSpaceHandler(spaceService, cfg.Log))
	serverApp.Run()
}

func initServices(cfg *config.Config) service.SpaceService {
	spaceRepo := repository.NewMongoSpaceRepository(cfg)
	spaceValidator := validator.NewSpaceValidator()
	spaceService := service.NewSpaceService(spaceRepo, spaceValidator, cfg)

	cfg.Log.Info("Space service initialized", "database", cfg.MongoDatabaseName)
	return spaceService
}
