package service

import (
	"context"
	"time"

	"ai-places-be/internal/dto"
	"ai-places-be/internal/entity"
	"ai-places-be/internal/pkg/logger"
	"ai-places-be/internal/repository/specification"
	"ai-places-be/internal/repository/unitofwork"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IPlaceService interface {
	Create(ctx context.Context, req *dto.CreatePlaceRequest) (*dto.PlaceDetailResponse, error)
	Update(ctx context.Context, req *dto.UpdatePlaceRequest) (*dto.PlaceDetailResponse, error)
	Show(ctx context.Context, id uuid.UUID) (*dto.PlaceDetailResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error

	// ReembedAll republishes an embed request for every live place.
	// Returns the number of places queued.
	ReembedAll(ctx context.Context) (int, error)
}

type placeService struct {
	uowFactory unitofwork.RepositoryFactory
	publisher  IPublisherService
	log        logger.ILogger
}

func NewPlaceService(uowFactory unitofwork.RepositoryFactory, publisher IPublisherService, log logger.ILogger) IPlaceService {
	return &placeService{
		uowFactory: uowFactory,
		publisher:  publisher,
		log:        log,
	}
}

func (s *placeService) Create(ctx context.Context, req *dto.CreatePlaceRequest) (*dto.PlaceDetailResponse, error) {
	place := &entity.Place{
		Id:          uuid.New(),
		Name:        req.Name,
		Description: req.Description,
		Address:     req.Address,
		District:    req.District,
		Category:    req.Category,
		Price:       req.Price,
		Rating:      req.Rating,
		ReviewCount: req.ReviewCount,
		ImageURL:    req.ImageURL,
		AiTags:      req.AiTags,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
		CreatedAt:   time.Now(),
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.PlaceRepository().Create(ctx, place); err != nil {
		return nil, err
	}

	s.queueEmbed(place.Id)
	return toPlaceDetail(place), nil
}

func (s *placeService) Update(ctx context.Context, req *dto.UpdatePlaceRequest) (*dto.PlaceDetailResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	place, err := uow.PlaceRepository().FindOne(ctx, specification.ByID{ID: req.Id})
	if err != nil {
		return nil, err
	}
	if place == nil {
		return nil, fiber.NewError(fiber.StatusNotFound, "place not found")
	}

	place.Name = req.Name
	place.Description = req.Description
	place.Address = req.Address
	place.District = req.District
	place.Category = req.Category
	place.Price = req.Price
	place.Rating = req.Rating
	place.ReviewCount = req.ReviewCount
	place.ImageURL = req.ImageURL
	place.AiTags = req.AiTags
	place.Latitude = req.Latitude
	place.Longitude = req.Longitude

	if err := uow.PlaceRepository().Update(ctx, place); err != nil {
		return nil, err
	}

	s.queueEmbed(place.Id)
	return toPlaceDetail(place), nil
}

func (s *placeService) Show(ctx context.Context, id uuid.UUID) (*dto.PlaceDetailResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	place, err := uow.PlaceRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if place == nil {
		return nil, fiber.NewError(fiber.StatusNotFound, "place not found")
	}
	return toPlaceDetail(place), nil
}

func (s *placeService) Delete(ctx context.Context, id uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.PlaceRepository().Delete(ctx, id)
}

func (s *placeService) ReembedAll(ctx context.Context) (int, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	places, err := uow.PlaceRepository().FindAll(ctx)
	if err != nil {
		return 0, err
	}

	queued := 0
	for _, place := range places {
		if err := s.publisher.PublishEmbedPlace(place.Id); err != nil {
			s.log.Warn("place", "failed to queue re-embed", map[string]interface{}{
				"placeId": place.Id.String(),
				"error":   err.Error(),
			})
			continue
		}
		queued++
	}
	return queued, nil
}

// queueEmbed is best-effort: a failed publish leaves the catalog row
// intact and a later re-embed pass picks it up.
func (s *placeService) queueEmbed(id uuid.UUID) {
	if err := s.publisher.PublishEmbedPlace(id); err != nil {
		s.log.Warn("place", "failed to queue embedding", map[string]interface{}{
			"placeId": id.String(),
			"error":   err.Error(),
		})
	}
}

func toPlaceDetail(place *entity.Place) *dto.PlaceDetailResponse {
	return &dto.PlaceDetailResponse{
		Id:          place.Id,
		Name:        place.Name,
		Description: place.Description,
		Address:     place.Address,
		District:    place.District,
		Category:    place.Category,
		Price:       place.Price,
		Rating:      place.Rating,
		ReviewCount: place.ReviewCount,
		ImageURL:    place.ImageURL,
		AiTags:      place.AiTags,
		Latitude:    place.Latitude,
		Longitude:   place.Longitude,
	}
}
