package service

import (
	"context"

	"ai-places-be/internal/dto"
	"ai-places-be/internal/pkg/logger"
	"ai-places-be/pkg/cache"
	"ai-places-be/pkg/conversation"
	"ai-places-be/pkg/events"
	"ai-places-be/pkg/llm"
	"ai-places-be/pkg/pipeline"
	"ai-places-be/pkg/ranking"
	"ai-places-be/pkg/retrieval"
)

type IChatService interface {
	Chat(ctx context.Context, req *dto.ChatRequest) (*dto.ChatResponse, error)
	ChatStream(ctx context.Context, req *dto.ChatRequest, emitter pipeline.StreamEmitter)
	CreateSession(userId string) *dto.SessionResponse
	ClearSession(sessionId string)
	Stats() *dto.StatsResponse
}

type chatService struct {
	orchestrator  *pipeline.Orchestrator
	conversations *conversation.Manager
	resilient     *llm.ResilientClient

	answerCache    cache.Store
	retrievalCache cache.Store
	sessionCap     int

	eventPublisher EventPublisher
	log            logger.ILogger
}

func NewChatService(
	orchestrator *pipeline.Orchestrator,
	conversations *conversation.Manager,
	resilient *llm.ResilientClient,
	answerCache, retrievalCache cache.Store,
	sessionCap int,
	eventPublisher EventPublisher,
	log logger.ILogger,
) IChatService {
	return &chatService{
		orchestrator:   orchestrator,
		conversations:  conversations,
		resilient:      resilient,
		answerCache:    answerCache,
		retrievalCache: retrievalCache,
		sessionCap:     sessionCap,
		eventPublisher: eventPublisher,
		log:            log,
	}
}

func (s *chatService) Chat(ctx context.Context, req *dto.ChatRequest) (*dto.ChatResponse, error) {
	resp, perr := s.orchestrator.Execute(ctx, toPipelineRequest(req))
	if perr != nil {
		s.publishFailure(ctx, perr)
		return nil, perr
	}

	s.publishCompletion(ctx, resp)
	return toChatResponse(resp), nil
}

func (s *chatService) ChatStream(ctx context.Context, req *dto.ChatRequest, emitter pipeline.StreamEmitter) {
	s.orchestrator.ExecuteStream(ctx, toPipelineRequest(req), &observedEmitter{
		inner:   emitter,
		ctx:     ctx,
		service: s,
	})
}

func (s *chatService) CreateSession(userId string) *dto.SessionResponse {
	return &dto.SessionResponse{SessionId: conversation.NewSessionID(userId)}
}

func (s *chatService) ClearSession(sessionId string) {
	s.conversations.Clear(sessionId)
}

func (s *chatService) Stats() *dto.StatsResponse {
	llmStats := s.resilient.Stats()
	return &dto.StatsResponse{
		AnswerCache:    toCacheStats(s.answerCache.Stats()),
		RetrievalCache: toCacheStats(s.retrievalCache.Stats()),
		LLM: dto.LLMStats{
			Breaker:   string(llmStats.Breaker),
			Calls:     llmStats.Calls,
			AverageMs: llmStats.Average.Milliseconds(),
			P95Ms:     llmStats.P95.Milliseconds(),
			P99Ms:     llmStats.P99.Milliseconds(),
			Successes: llmStats.Successes,
			Failures:  llmStats.Failures,
		},
		Conversations: dto.SessionStats{
			Active:   s.conversations.Len(),
			Capacity: s.sessionCap,
		},
	}
}

// publishCompletion emits the analytics event; failures only log.
func (s *chatService) publishCompletion(ctx context.Context, resp *pipeline.Response) {
	if s.eventPublisher == nil {
		return
	}
	event := events.NewChatCompleted(
		resp.Meta.CorrelationID,
		resp.SessionID,
		string(resp.Intent),
		string(resp.QueryIntent),
		resp.Meta.TotalMs,
		resp.Cached,
		resp.Meta.Degraded,
	)
	if err := s.eventPublisher.Publish(ctx, event); err != nil {
		s.log.Warn("chat", "failed to publish chat event", map[string]interface{}{"error": err.Error()})
	}
}

func (s *chatService) publishFailure(ctx context.Context, perr *pipeline.Error) {
	if s.eventPublisher == nil {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events.NewChatFailed(perr.CorrelationID, string(perr.Kind))); err != nil {
		s.log.Warn("chat", "failed to publish chat failure event", map[string]interface{}{"error": err.Error()})
	}
}

// observedEmitter wraps the transport emitter so completed streams also
// emit the analytics event.
type observedEmitter struct {
	inner   pipeline.StreamEmitter
	ctx     context.Context
	service *chatService
}

func (o *observedEmitter) Status(stage string) { o.inner.Status(stage) }

func (o *observedEmitter) Places(p []pipeline.Place) { o.inner.Places(p) }

func (o *observedEmitter) Delta(text string) error { return o.inner.Delta(text) }

func (o *observedEmitter) Done(resp *pipeline.Response) {
	o.service.publishCompletion(o.ctx, resp)
	o.inner.Done(resp)
}

func (o *observedEmitter) Error(err *pipeline.Error) {
	o.service.publishFailure(o.ctx, err)
	o.inner.Error(err)
}

func toPipelineRequest(req *dto.ChatRequest) pipeline.Request {
	out := pipeline.Request{
		Question:        req.Question,
		SessionID:       req.SessionId,
		UserID:          req.UserId,
		Realtime:        req.Realtime,
		UseLocation:     req.UseLocation,
		Personalization: req.Personalization,
	}
	if req.UseLocation && req.Latitude != nil && req.Longitude != nil {
		out.Location = &retrieval.Coordinates{Lat: *req.Latitude, Lng: *req.Longitude}
	}
	if req.Personalization && req.Preferences != nil {
		out.Preferences = &ranking.Preferences{
			FavoriteFoods: req.Preferences.FavoriteFoods,
			Styles:        req.Preferences.Styles,
			Atmosphere:    req.Preferences.Atmosphere,
			Activities:    req.Preferences.Activities,
			Dietary:       req.Preferences.Dietary,
		}
	}
	return out
}

func toChatResponse(resp *pipeline.Response) *dto.ChatResponse {
	places := make([]dto.PlaceResponse, len(resp.Places))
	for i, p := range resp.Places {
		places[i] = dto.PlaceResponse{
			Id:          p.ID,
			Name:        p.Name,
			Address:     p.Address,
			District:    p.District,
			Category:    p.Category,
			Price:       p.Price,
			Rating:      p.Rating,
			ReviewCount: p.ReviewCount,
			Image:       p.Image,
		}
	}
	return &dto.ChatResponse{
		Question:    resp.Question,
		Answer:      resp.Answer,
		Places:      places,
		Intent:      string(resp.Intent),
		QueryIntent: string(resp.QueryIntent),
		Reference:   resp.Reference,
		Structured:  resp.Structured,
		Cached:      resp.Cached,
		SessionId:   resp.SessionID,
		Meta: dto.ChatMeta{
			Model:          resp.Meta.Model,
			CorrelationId:  resp.Meta.CorrelationID,
			TotalMs:        resp.Meta.TotalMs,
			StageTimingsMs: resp.Meta.StageTimingsMs,
			Degraded:       resp.Meta.Degraded,
		},
	}
}

func toCacheStats(stats cache.Stats) dto.CacheStats {
	return dto.CacheStats{
		Hits:      stats.Hits,
		Misses:    stats.Misses,
		Evictions: stats.Evictions,
		Size:      stats.Size,
		HitRate:   stats.HitRate,
	}
}
