package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"ai-places-be/internal/dto"
	"ai-places-be/internal/entity"
	"ai-places-be/internal/pkg/logger"
	"ai-places-be/internal/repository/specification"
	"ai-places-be/internal/repository/unitofwork"
	"ai-places-be/pkg/embedding"
	"ai-places-be/pkg/events"
	"ai-places-be/pkg/textutil"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

const (
	// Chunk sizing for place documents. Most places fit one chunk; only
	// long curated descriptions split.
	embedChunkSize    = 1500
	embedChunkOverlap = 200
)

// EventPublisher is the optional analytics sink for ingestion events.
type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

// ErrPlaceNotFound marks embed requests for places that no longer
// exist. Retrying cannot help.
var ErrPlaceNotFound = errors.New("place not found")

type IConsumerService interface {
	Consume(ctx context.Context) error

	// EmbedPlace chunks, embeds and stores one place synchronously.
	// Batch tooling calls it directly, bypassing the message bus.
	EmbedPlace(ctx context.Context, placeId uuid.UUID) error
}

type consumerService struct {
	pubSub            *gochannel.GoChannel
	topicName         string
	uowFactory        unitofwork.RepositoryFactory
	embeddingProvider embedding.EmbeddingProvider
	eventPublisher    EventPublisher
	log               logger.ILogger
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	embeddingProvider embedding.EmbeddingProvider,
	eventPublisher EventPublisher,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		pubSub:            pubSub,
		topicName:         topicName,
		uowFactory:        uowFactory,
		embeddingProvider: embeddingProvider,
		eventPublisher:    eventPublisher,
		log:               log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.PublishEmbedPlaceMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.log.Error("ingestion", "failed to unmarshal embed message", map[string]interface{}{"error": err.Error()})
		msg.Ack() // malformed payloads never become valid
		return
	}

	cs.log.Info("ingestion", "processing place embedding", map[string]interface{}{"placeId": payload.PlaceId.String()})

	if err := cs.EmbedPlace(ctx, payload.PlaceId); err != nil {
		if errors.Is(err, ErrPlaceNotFound) {
			cs.log.Warn("ingestion", "place not found, dropping message", map[string]interface{}{"placeId": payload.PlaceId.String()})
			msg.Ack()
			return
		}
		cs.log.Error("ingestion", "failed to embed place", map[string]interface{}{
			"placeId": payload.PlaceId.String(),
			"error":   err.Error(),
		})
		msg.Nack()
		return
	}

	msg.Ack()
}

func (cs *consumerService) EmbedPlace(ctx context.Context, placeId uuid.UUID) error {
	uow := cs.uowFactory.NewUnitOfWork(ctx)

	place, err := uow.PlaceRepository().FindOne(ctx, specification.ByID{ID: placeId})
	if err != nil {
		return fmt.Errorf("load place: %w", err)
	}
	if place == nil {
		return ErrPlaceNotFound
	}

	document := BuildEmbeddingDocument(place)
	chunks := textutil.SplitChunks(document, embedChunkSize, embedChunkOverlap)

	var newEmbeddings []*entity.PlaceEmbedding
	for i, chunk := range chunks {
		res, err := cs.embeddingProvider.Generate(chunk, "RETRIEVAL_DOCUMENT")
		if err != nil {
			return fmt.Errorf("generate embedding for chunk %d: %w", i, err)
		}

		newEmbeddings = append(newEmbeddings, &entity.PlaceEmbedding{
			Id:             uuid.New(),
			Document:       chunk,
			EmbeddingValue: res.Embedding.Values,
			PlaceId:        place.Id,
			ChunkIndex:     i,
			CreatedAt:      time.Now(),
		})
	}

	// Replace the place's embeddings atomically so a crash between delete
	// and insert never leaves the place unsearchable.
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer uow.Rollback()

	if err := uow.PlaceEmbeddingRepository().DeleteByPlaceId(ctx, place.Id); err != nil {
		return fmt.Errorf("delete old embeddings: %w", err)
	}
	if err := uow.PlaceEmbeddingRepository().CreateBulk(ctx, newEmbeddings); err != nil {
		return fmt.Errorf("create embeddings: %w", err)
	}
	if err := uow.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	cs.log.Info("ingestion", "place embedded", map[string]interface{}{
		"placeId": place.Id.String(),
		"chunks":  len(newEmbeddings),
	})

	if cs.eventPublisher != nil {
		dims := 0
		if len(newEmbeddings) > 0 {
			dims = len(newEmbeddings[0].EmbeddingValue)
		}
		if err := cs.eventPublisher.Publish(ctx, events.NewPlaceIngested(place.Id.String(), dims)); err != nil {
			cs.log.Warn("ingestion", "failed to publish ingest event", map[string]interface{}{"error": err.Error()})
		}
	}

	return nil
}

// BuildEmbeddingDocument renders the place fields into the text that
// gets embedded. Field labels are Vietnamese because queries are.
func BuildEmbeddingDocument(place *entity.Place) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Tên: %s\n", place.Name)
	fmt.Fprintf(&b, "Địa chỉ: %s\n", place.Address)
	if place.District != "" {
		fmt.Fprintf(&b, "Khu vực: %s\n", place.District)
	}
	if place.Category != "" {
		fmt.Fprintf(&b, "Phân loại: %s\n", place.Category)
	}
	if place.Price > 0 {
		fmt.Fprintf(&b, "Giá trung bình: %d VND\n", place.Price)
	}
	if place.Rating > 0 {
		fmt.Fprintf(&b, "Đánh giá: %.1f (%d lượt)\n", place.Rating, place.ReviewCount)
	}
	if len(place.AiTags) > 0 {
		fmt.Fprintf(&b, "Đặc điểm: %s\n", strings.Join(place.AiTags, ", "))
	}
	if place.Description != "" {
		b.WriteString("\n")
		b.WriteString(place.Description)
	}
	return b.String()
}
