// Package pipeline orchestrates a chat request end to end: input guard,
// answer cache, query analysis, hybrid retrieval, ranking, prompt
// assembly, the resilient LLM call and response shaping.
package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"ai-places-be/pkg/cache"
	"ai-places-be/pkg/conversation"
	"ai-places-be/pkg/district"
	"ai-places-be/pkg/guard"
	"ai-places-be/pkg/intent"
	"ai-places-be/pkg/llm"
	"ai-places-be/pkg/prompt"
	"ai-places-be/pkg/ranking"
	"ai-places-be/pkg/retrieval"
	"ai-places-be/pkg/weather"
)

// Request is one chat turn.
type Request struct {
	Question  string
	SessionID string
	UserID    string

	// Realtime injects weather and local time into the prompt.
	Realtime bool
	// UseLocation activates near-me retrieval and distance sorting.
	UseLocation bool
	Location    *retrieval.Coordinates
	// Personalization applies saved preferences to ranking and prompts.
	Personalization bool
	Preferences     *ranking.Preferences
}

func (r Request) flags() cache.ContextFlags {
	return cache.ContextFlags{
		Realtime:        r.Realtime,
		Location:        r.UseLocation,
		Personalization: r.Personalization,
	}
}

// Response is the shaped chat answer.
type Response struct {
	Question    string          `json:"question"`
	Answer      string          `json:"answer"`
	Places      []Place         `json:"places"`
	Intent      ChatIntent      `json:"intent"`
	QueryIntent intent.Intent   `json:"queryIntent"`
	Reference   string          `json:"reference,omitempty"`
	Structured  json.RawMessage `json:"structuredData,omitempty"`
	Cached      bool            `json:"cached"`
	SessionID   string          `json:"sessionId,omitempty"`
	Meta        Meta            `json:"meta"`
}

// cachedAnswer is the answer-cache payload. Meta is request-specific
// and never cached.
type cachedAnswer struct {
	Answer      string          `json:"answer"`
	Places      []Place         `json:"places"`
	Intent      ChatIntent      `json:"intent"`
	QueryIntent intent.Intent   `json:"queryIntent"`
	Structured  json.RawMessage `json:"structuredData,omitempty"`
}

// Config tunes one orchestrator instance.
type Config struct {
	// ModelName is echoed in response metadata.
	ModelName string
	// RewriteEnabled turns on LLM query rewriting.
	RewriteEnabled bool
	// AnswerTTL bounds answer-cache entries. Zero means one hour.
	AnswerTTL time.Duration
	// HardTimeout caps one request end to end, streaming included. A
	// stalled model call cannot hold a connection past it. Zero means
	// 30 seconds.
	HardTimeout time.Duration
}

// Orchestrator wires the pipeline stages. All dependencies are
// constructor-injected so tests can run the full flow against fakes.
type Orchestrator struct {
	guard         *guard.InputGuard
	classifier    *intent.Classifier
	districts     *district.Extractor
	conversations *conversation.Manager
	retriever     *retrieval.Engine
	ranker        *ranking.Engine
	llm           llm.StreamingProvider
	weather       weather.Provider

	answerCache    cache.Store
	retrievalCache cache.Store

	modelName      string
	rewriteEnabled bool
	answerTTL      time.Duration
	hardTimeout    time.Duration
}

func NewOrchestrator(
	inputGuard *guard.InputGuard,
	classifier *intent.Classifier,
	districts *district.Extractor,
	conversations *conversation.Manager,
	retriever *retrieval.Engine,
	ranker *ranking.Engine,
	llmClient llm.StreamingProvider,
	weatherProvider weather.Provider,
	answerCache, retrievalCache cache.Store,
	cfg Config,
) *Orchestrator {
	if cfg.AnswerTTL <= 0 {
		cfg.AnswerTTL = time.Hour
	}
	if cfg.HardTimeout <= 0 {
		cfg.HardTimeout = 30 * time.Second
	}
	return &Orchestrator{
		guard:          inputGuard,
		classifier:     classifier,
		districts:      districts,
		conversations:  conversations,
		retriever:      retriever,
		ranker:         ranker,
		llm:            llmClient,
		weather:        weatherProvider,
		answerCache:    answerCache,
		retrievalCache: retrievalCache,
		modelName:      cfg.ModelName,
		rewriteEnabled: cfg.RewriteEnabled,
		answerTTL:      cfg.AnswerTTL,
		hardTimeout:    cfg.HardTimeout,
	}
}

// prepared carries the state shared by the blocking and streaming
// execution paths once every pre-LLM stage has run.
type prepared struct {
	correlationID string
	tel           *telemetry
	question      string
	analysis      analysis
	ranked        []retrieval.Document
	promptText    string
	reference     conversation.Reference
	cacheKey      string
	cacheable     bool
}

// Execute runs the blocking chat flow.
func (o *Orchestrator) Execute(ctx context.Context, req Request) (*Response, *Error) {
	ctx, cancel := context.WithTimeout(ctx, o.hardTimeout)
	defer cancel()

	p, cached, perr := o.prepare(ctx, req)
	if perr != nil {
		return nil, perr
	}
	if cached != nil {
		o.recordUserTurn(req, cached.Question)
		o.recordAnswer(req, cached)
		return cached, nil
	}

	// The user turn lands before the model call so a failed answer still
	// leaves the question in history.
	o.recordUserTurn(req, p.question)

	var answer string
	var err error
	p.tel.measure(StageLLM, func() {
		answer, err = o.llm.Chat(ctx, o.history(p), llm.WithTemperature(0.7))
	})
	if err != nil {
		return nil, classifyLLMError(p.correlationID, err)
	}

	resp := o.finish(p, req, answer)
	o.storeAnswer(ctx, p, resp)
	o.recordAnswer(req, resp)
	return resp, nil
}

// StreamEmitter receives streaming events in order: zero or more
// Status, one Places, one or more Delta, then Done. Errors abort the
// stream after an Error event.
type StreamEmitter interface {
	Status(stage string)
	Places(places []Place)
	Delta(text string) error
	Done(resp *Response)
	Error(err *Error)
}

// ExecuteStream runs the chat flow, emitting progress and answer deltas
// as they happen. The final Response matches what Execute would have
// returned.
func (o *Orchestrator) ExecuteStream(ctx context.Context, req Request, emit StreamEmitter) {
	ctx, cancel := context.WithTimeout(ctx, o.hardTimeout)
	defer cancel()

	emit.Status(StageAnalysis)

	p, cached, perr := o.prepare(ctx, req)
	if perr != nil {
		emit.Error(perr)
		return
	}
	if cached != nil {
		emit.Places(cached.Places)
		if err := emit.Delta(cached.Answer); err == nil {
			o.recordUserTurn(req, cached.Question)
			o.recordAnswer(req, cached)
			emit.Done(cached)
		}
		return
	}

	o.recordUserTurn(req, p.question)

	emit.Status(StageLLM)
	emit.Places(placesPreview(p.ranked))

	var answer string
	var err error
	p.tel.measure(StageLLM, func() {
		answer, err = o.llm.ChatStream(ctx, o.history(p), func(delta string) error {
			return emit.Delta(delta)
		}, llm.WithTemperature(0.7))
	})
	if err != nil {
		emit.Error(classifyLLMError(p.correlationID, err))
		return
	}

	resp := o.finish(p, req, answer)
	o.storeAnswer(ctx, p, resp)
	o.recordAnswer(req, resp)
	emit.Done(resp)
}

// prepare runs every stage before the LLM call. It returns either a
// prepared invocation, a complete cached response, or an error.
func (o *Orchestrator) prepare(ctx context.Context, req Request) (*prepared, *Response, *Error) {
	p := &prepared{
		correlationID: uuid.NewString(),
		tel:           newTelemetry(),
	}

	var verr error
	p.tel.measure(StageInputGuard, func() {
		p.question, verr = o.guard.Validate(req.Question)
	})
	if verr != nil {
		var ve *guard.ValidationError
		if errors.As(verr, &ve) {
			return nil, nil, validationError(p.correlationID, ve)
		}
		return nil, nil, newError(ErrKindInternal, p.correlationID, "input validation failed", verr)
	}

	// Reference resolution first: a follow-up about an already shown
	// place answers from session state without retrieval.
	if req.SessionID != "" {
		p.reference = o.conversations.AnalyzeReference(p.question, req.SessionID)
		if target := p.reference.TargetPlace; target != nil &&
			(p.reference.Type == conversation.ReferenceFollowUp || p.reference.Type == conversation.ReferenceOrdinal) {
			return o.prepareReference(p, req, target)
		}
	}

	// Answer cache. History-dependent turns (refinements) bypass it;
	// the same words can mean different places in different sessions.
	p.cacheable = p.reference.Type == "" || p.reference.Type == conversation.ReferenceNewQuery
	p.cacheKey = cache.Key("chat:", p.question, req.flags())
	if p.cacheable {
		var hit *Response
		p.tel.measure(StageCache, func() {
			hit = o.lookupAnswer(ctx, p, req)
		})
		if hit != nil {
			return nil, hit, nil
		}
	}

	p.tel.measure(StageAnalysis, func() {
		o.analyze(ctx, req, p)
	})

	var pool retrieval.Result
	p.tel.measure(StageRetrieval, func() {
		pool = o.retrieve(ctx, req, p)
	})
	p.tel.markDegraded(pool.Degraded...)

	p.tel.measure(StageRanking, func() {
		var degraded bool
		p.ranked, degraded = o.ranker.Rank(ctx, pool.Documents, ranking.Options{
			Query:          p.question,
			Classification: p.analysis.classification,
			District:       p.analysis.district,
			Dietary:        p.analysis.dietary,
			Preferences:    o.activePreferences(req),
			Location:       o.activeLocation(req),
		})
		if degraded {
			p.tel.markDegraded("rerank")
		}
	})

	p.tel.measure(StagePrompt, func() {
		p.promptText = o.buildPrompt(ctx, req, p)
	})
	return p, nil, nil
}

// prepareReference builds the prompt for a follow-up about an already
// shown place. Retrieval and ranking are skipped entirely.
func (o *Orchestrator) prepareReference(p *prepared, req Request, target *conversation.PlaceRef) (*prepared, *Response, *Error) {
	p.cacheable = false

	var history string
	if state := o.conversations.GetState(req.SessionID); state != nil {
		history = conversation.FormatHistory(state.History, 6)
	}

	p.ranked = []retrieval.Document{placeRefDocument(target)}
	p.analysis = analysis{
		query:      p.question,
		chatIntent: IntentChat,
	}

	p.tel.measure(StagePrompt, func() {
		ctxBlock := prompt.FormatContext(p.ranked, nil)
		question := p.question
		if history != "" {
			question = "Hội thoại trước:\n" + history + "\n\nCâu hỏi hiện tại: " + p.question
		}
		weatherLine, datetimeLine := prompt.RealtimeBlock(nil, time.Now())
		p.promptText = prompt.BuildChatPrompt(ctxBlock, question, weatherLine, datetimeLine, "")
	})
	return p, nil, nil
}

func placeRefDocument(ref *conversation.PlaceRef) retrieval.Document {
	snippet := fmt.Sprintf("%s. Khu vực: %s.", ref.Category, ref.District)
	if ref.OpeningHours != "" {
		snippet += " Giờ mở cửa: " + ref.OpeningHours + "."
	}
	if ref.PriceRange != "" {
		snippet += " Khoảng giá: " + ref.PriceRange + "."
	}
	return retrieval.Document{
		ID:      ref.ID,
		Snippet: snippet,
		Metadata: retrieval.Metadata{
			Name:     ref.Name,
			Address:  ref.Address,
			District: ref.District,
			Category: ref.Category,
			Rating:   ref.Rating,
		},
	}
}

func (o *Orchestrator) analyze(ctx context.Context, req Request, p *prepared) {
	p.analysis.query = p.question
	p.analysis.classification = o.classifier.Classify(p.question)
	p.analysis.district = o.districts.Detect(p.question)
	p.analysis.chatIntent, p.analysis.itineraryType = o.classifyChatIntent(ctx, p.question)

	if p.analysis.chatIntent == IntentItinerary {
		return
	}

	if req.Personalization && req.Preferences != nil {
		p.analysis.query, p.analysis.dietary = applyDietaryAugment(p.question, req.Preferences.Dietary)
	}
	if !p.analysis.dietary {
		p.analysis.query = o.rewriteQuery(ctx, p.question)
	}
}

func (o *Orchestrator) retrieve(ctx context.Context, req Request, p *prepared) retrieval.Result {
	if p.analysis.chatIntent == IntentItinerary {
		return o.retriever.RetrieveForItinerary(ctx, p.analysis.itineraryType)
	}

	key := cache.RetrievalKey(p.analysis.query)
	if o.retrievalCache != nil {
		if payload, ok := o.retrievalCache.Get(ctx, key); ok {
			var docs []retrieval.Document
			if err := json.Unmarshal(payload, &docs); err == nil {
				return retrieval.Result{Documents: docs}
			}
		}
	}

	result := o.retriever.Retrieve(ctx, retrieval.Request{
		Query:          p.analysis.query,
		Classification: p.analysis.classification,
		District:       p.analysis.district,
		NearMe:         req.UseLocation && req.Location != nil,
		Location:       req.Location,
	})

	if o.retrievalCache != nil && len(result.Degraded) == 0 {
		if payload, err := json.Marshal(result.Documents); err == nil {
			o.retrievalCache.Set(ctx, key, payload, cache.TieredTTL(len(result.Documents)))
		}
	}
	return result
}

func (o *Orchestrator) buildPrompt(ctx context.Context, req Request, p *prepared) string {
	var current *weather.Current
	if req.Realtime && o.weather != nil {
		current, _ = o.weather.CurrentWeather(ctx)
	}
	weatherLine, datetimeLine := prompt.RealtimeBlock(current, time.Now())
	if !req.Realtime {
		weatherLine, datetimeLine = prompt.RealtimeBlock(nil, time.Now())
	}

	var from *retrieval.Coordinates
	if req.UseLocation {
		from = req.Location
	}
	ctxBlock := prompt.FormatContext(p.ranked, from)
	preferences := ""
	if req.Personalization {
		preferences = prompt.FormatPreferences(req.Preferences)
	}

	if p.analysis.chatIntent == IntentItinerary {
		return prompt.BuildItineraryPrompt(p.analysis.itineraryType, ctxBlock, p.question, weatherLine, datetimeLine, preferences)
	}
	return prompt.BuildChatPrompt(ctxBlock, p.question, weatherLine, datetimeLine, preferences)
}

func (o *Orchestrator) history(p *prepared) []llm.Message {
	return []llm.Message{
		{Role: "system", Content: prompt.SystemPrompt},
		{Role: "user", Content: p.promptText},
	}
}

// finish shapes the final response from a raw model answer.
func (o *Orchestrator) finish(p *prepared, req Request, answer string) *Response {
	resp := &Response{
		Question:    p.question,
		Intent:      p.analysis.chatIntent,
		QueryIntent: p.analysis.classification.Intent,
		SessionID:   req.SessionID,
	}
	if p.reference.Type != "" && p.reference.Type != conversation.ReferenceNewQuery {
		resp.Reference = string(p.reference.Type)
	}

	p.tel.measure(StageFormat, func() {
		if p.analysis.chatIntent == IntentItinerary {
			resp.Structured = ExtractFirstJSON(answer)
		} else if len(p.ranked) > 0 {
			answer = appendMissingPlaces(answer, p.ranked)
		}
		resp.Answer = answer
		resp.Places = orderPlacesByMention(answer, p.ranked)
	})

	resp.Meta = p.tel.meta(o.modelName, p.correlationID)
	return resp
}

func placesPreview(docs []retrieval.Document) []Place {
	places := make([]Place, 0, len(docs))
	for _, doc := range docs {
		if len(places) >= maxResponsePlaces {
			break
		}
		places = append(places, toPlace(doc))
	}
	return places
}

func (o *Orchestrator) lookupAnswer(ctx context.Context, p *prepared, req Request) *Response {
	if o.answerCache == nil {
		return nil
	}
	payload, ok := o.answerCache.Get(ctx, p.cacheKey)
	if !ok {
		return nil
	}

	var entry cachedAnswer
	if err := json.Unmarshal(payload, &entry); err != nil {
		return nil
	}
	return &Response{
		Question:    p.question,
		Answer:      entry.Answer,
		Places:      entry.Places,
		Intent:      entry.Intent,
		QueryIntent: entry.QueryIntent,
		Structured:  entry.Structured,
		Cached:      true,
		SessionID:   req.SessionID,
		Meta:        p.tel.meta(o.modelName, p.correlationID),
	}
}

func (o *Orchestrator) storeAnswer(ctx context.Context, p *prepared, resp *Response) {
	if o.answerCache == nil || !p.cacheable || resp.Answer == "" {
		return
	}
	payload, err := json.Marshal(cachedAnswer{
		Answer:      resp.Answer,
		Places:      resp.Places,
		Intent:      resp.Intent,
		QueryIntent: resp.QueryIntent,
		Structured:  resp.Structured,
	})
	if err != nil {
		return
	}
	o.answerCache.Set(ctx, p.cacheKey, payload, o.answerTTL)
}

// recordUserTurn appends the validated question to the session history.
func (o *Orchestrator) recordUserTurn(req Request, question string) {
	if req.SessionID == "" {
		return
	}
	o.conversations.AppendTurn(req.SessionID, req.UserID, "user", question)
}

// recordAnswer appends the assistant turn and remembers the shown
// places so later ordinals ("quán thứ 2") resolve against this answer.
func (o *Orchestrator) recordAnswer(req Request, resp *Response) {
	if req.SessionID == "" {
		return
	}

	o.conversations.AppendTurn(req.SessionID, req.UserID, "assistant", resp.Answer)

	if len(resp.Places) == 0 || resp.Reference != "" {
		return
	}
	refs := make([]conversation.PlaceRef, 0, len(resp.Places))
	for _, place := range resp.Places {
		ref := conversation.PlaceRef{
			ID:       place.ID,
			Name:     place.Name,
			Address:  place.Address,
			District: place.District,
			Category: place.Category,
			Rating:   place.Rating,
		}
		if place.Price > 0 {
			ref.PriceRange = fmt.Sprintf("%d VND", place.Price)
		}
		refs = append(refs, ref)
	}
	o.conversations.UpdateLastPlaces(req.SessionID, refs, string(resp.QueryIntent))
}

func (o *Orchestrator) activePreferences(req Request) *ranking.Preferences {
	if !req.Personalization {
		return nil
	}
	return req.Preferences
}

func (o *Orchestrator) activeLocation(req Request) *retrieval.Coordinates {
	if !req.UseLocation {
		return nil
	}
	return req.Location
}
