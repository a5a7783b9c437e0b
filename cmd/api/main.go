// @title        Items API
// @version      1.0
// @description  Adaptador HTTP sobre una base de datos de documentos (Cosmos DB, MongoDB o PostgreSQL).
// @BasePath     /
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/jhoicas/items-api/docs"
	"github.com/jhoicas/items-api/internal/application/usecase"
	"github.com/jhoicas/items-api/internal/domain/repository"
	"github.com/jhoicas/items-api/internal/infrastructure/cosmos"
	"github.com/jhoicas/items-api/internal/infrastructure/memory"
	infmongo "github.com/jhoicas/items-api/internal/infrastructure/mongo"
	"github.com/jhoicas/items-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/items-api/internal/interfaces/http"
	"github.com/jhoicas/items-api/pkg/config"
	"github.com/jhoicas/items-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("store", cfg.Store.Driver).
		Str("partition_key", cfg.Store.PartitionKeyField).
		Msg("iniciando aplicación")

	ctx := context.Background()
	itemRepo, closeStore, err := newItemRepository(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Str("store", cfg.Store.Driver).Msg("inicializar almacenamiento")
	}

	itemUC := usecase.NewItemUseCase(itemRepo, cfg.Store.PartitionKeyField)

	app := httpRouter.NewApp(cfg.App.Name, log.Zerolog())

	// Swagger UI: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath:    "/",
		FilePath:    "./docs/swagger.json",
		FileContent: []byte(docs.SwaggerInfo.ReadDoc()),
		Path:        "docs",
		Title:       "Items API",
	}))

	httpRouter.Router(app, httpRouter.RouterDeps{
		AppName: cfg.App.Name,
		ItemUC:  itemUC,
	})

	go func() {
		log.Info().Str("addr", cfg.HTTP.Addr()).Msg("servidor HTTP escuchando")
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}
	if err := closeStore(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("cierre del almacenamiento")
	}

	log.Info().Msg("aplicación detenida")
}

// newItemRepository construye el backend elegido por STORE_DRIVER. El cliente resultante
// se comparte entre todas las peticiones; la función de cierre libera la conexión al apagar.
func newItemRepository(ctx context.Context, cfg *config.Config) (repository.ItemRepository, func(context.Context) error, error) {
	pkField := cfg.Store.PartitionKeyField
	noop := func(context.Context) error { return nil }

	switch cfg.Store.Driver {
	case config.DriverCosmos:
		container, err := cosmos.NewContainer(cfg.Cosmos)
		if err != nil {
			return nil, nil, err
		}
		return cosmos.NewItemRepository(container, pkField), noop, nil

	case config.DriverMongo:
		client, err := infmongo.NewClient(ctx, cfg.Mongo)
		if err != nil {
			return nil, nil, err
		}
		repo := infmongo.NewItemRepository(client.Database(cfg.Mongo.Database).Collection(cfg.Mongo.Collection), pkField)
		if err := repo.EnsureIndexes(ctx); err != nil {
			_ = client.Disconnect(ctx)
			return nil, nil, err
		}
		return repo, client.Disconnect, nil

	case config.DriverPostgres:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			return nil, nil, err
		}
		if err := postgres.EnsureSchema(ctx, pool); err != nil {
			pool.Close()
			return nil, nil, err
		}
		closePool := func(context.Context) error {
			pool.Close()
			return nil
		}
		return postgres.NewItemRepository(pool, pkField), closePool, nil

	case config.DriverMemory:
		return memory.NewItemRepository(pkField), noop, nil
	}
	return nil, nil, fmt.Errorf("STORE_DRIVER desconocido: %q", cfg.Store.Driver)
}
