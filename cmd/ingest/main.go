// Command ingest re-embeds the whole place catalog in one pass. Run it
// after switching embedding models or importing a fresh dataset.
package main

import (
	"context"
	"log"

	"ai-places-be/internal/config"
	"ai-places-be/internal/pkg/logger"
	"ai-places-be/internal/repository/unitofwork"
	"ai-places-be/internal/service"
	"ai-places-be/pkg/database"
	"ai-places-be/pkg/embedding"
	"ai-places-be/pkg/embedding/jina"
)

func main() {
	cfg := config.Load()

	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Fatalf("Unable to connect to GORM DB: %v", err)
	}

	var embeddingProvider embedding.EmbeddingProvider
	if cfg.Ai.EmbeddingProvider == "ollama" {
		embeddingProvider = embedding.NewOllamaProvider(cfg.Ai.OllamaBaseURL, cfg.Ai.OllamaModel)
	} else {
		embeddingProvider = jina.NewJinaProvider(cfg.Keys.Jina)
	}

	uowFactory := unitofwork.NewRepositoryFactory(gormDB)
	ingestLogger := logger.NewIsolatedLogger("logs/ingestion.log")

	// No message bus here: the batch path embeds synchronously so the
	// process exits when the catalog is done.
	consumer := service.NewConsumerService(nil, "", uowFactory, embeddingProvider, nil, ingestLogger)

	ctx := context.Background()
	places, err := uowFactory.NewUnitOfWork(ctx).PlaceRepository().FindAll(ctx)
	if err != nil {
		log.Fatalf("Failed to list places: %v", err)
	}

	embedded, failed := 0, 0
	for _, place := range places {
		if err := consumer.EmbedPlace(ctx, place.Id); err != nil {
			log.Printf("Failed to embed place %s (%s): %v", place.Id, place.Name, err)
			failed++
			continue
		}
		embedded++
	}

	log.Printf("✅ Ingestion finished: %d embedded, %d failed, %d total", embedded, failed, len(places))
}
