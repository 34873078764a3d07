package pipeline

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"ai-places-be/pkg/cache"
	"ai-places-be/pkg/conversation"
	"ai-places-be/pkg/district"
	"ai-places-be/pkg/guard"
	"ai-places-be/pkg/intent"
	"ai-places-be/pkg/llm"
	"ai-places-be/pkg/ranking"
	"ai-places-be/pkg/rerank"
	"ai-places-be/pkg/retrieval"
	"ai-places-be/pkg/weather"
)

type scriptedLLM struct {
	mu      sync.Mutex
	answer  string
	err     error
	calls   int
	prompts []string
}

func (s *scriptedLLM) Chat(_ context.Context, history []llm.Message, _ ...llm.Option) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	for _, m := range history {
		s.prompts = append(s.prompts, m.Content)
	}
	return s.answer, s.err
}

func (s *scriptedLLM) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	return s.Chat(ctx, []llm.Message{{Role: "user", Content: prompt}}, opts...)
}

func (s *scriptedLLM) ChatStream(ctx context.Context, history []llm.Message, handler llm.StreamHandler, opts ...llm.Option) (string, error) {
	out, err := s.Chat(ctx, history, opts...)
	if err != nil {
		return "", err
	}
	// Split the canned answer into two deltas to exercise accumulation.
	half := len(out) / 2
	if err := handler(out[:half]); err != nil {
		return "", err
	}
	if err := handler(out[half:]); err != nil {
		return "", err
	}
	return out, nil
}

// stalledLLM blocks until the request context expires, standing in for
// an upstream that accepts the call and never answers.
type stalledLLM struct{}

func (stalledLLM) Chat(ctx context.Context, _ []llm.Message, _ ...llm.Option) (string, error) {
	<-ctx.Done()
	return "", ctx.Err()
}

func (s stalledLLM) Generate(ctx context.Context, _ string, _ ...llm.Option) (string, error) {
	return s.Chat(ctx, nil)
}

func (s stalledLLM) ChatStream(ctx context.Context, history []llm.Message, _ llm.StreamHandler, opts ...llm.Option) (string, error) {
	return s.Chat(ctx, history, opts...)
}

type staticStore struct {
	docs []retrieval.Document
}

func (s *staticStore) SearchByText(_ context.Context, _ string, _ int, _ retrieval.Filters) ([]retrieval.Document, error) {
	return s.docs, nil
}

func (s *staticStore) SearchByTags(_ context.Context, _ []string, _ int, _ retrieval.Filters) ([]retrieval.Document, error) {
	return s.docs, nil
}

func (s *staticStore) SearchNearby(_ context.Context, _, _, _ float64, _ int, _ retrieval.Filters) ([]retrieval.Document, error) {
	return s.docs, nil
}

func (s *staticStore) SearchByAddressPattern(_ context.Context, _ string, _ int, _ retrieval.Filters) ([]retrieval.Document, error) {
	return nil, nil
}

type staticVector struct {
	docs []retrieval.Document
}

func (s *staticVector) SemanticSearch(_ context.Context, _ string, _ int, _ retrieval.Filters) ([]retrieval.Document, error) {
	return s.docs, nil
}

type staticWeather struct {
	current *weather.Current
	err     error
}

func (s *staticWeather) CurrentWeather(context.Context) (*weather.Current, error) {
	return s.current, s.err
}

func testDocs() []retrieval.Document {
	return []retrieval.Document{
		{
			ID:      "p1",
			Score:   0.9,
			Snippet: "Quán phở bò nổi tiếng phố cổ.",
			Metadata: retrieval.Metadata{
				Name:     "Phở Thìn",
				Address:  "13 Lò Đúc",
				District: "Hai Bà Trưng",
				Category: "Ăn uống",
				Price:    60000,
				Rating:   4.5,
			},
		},
		{
			ID:      "p2",
			Score:   0.8,
			Snippet: "Phở gà ta thơm ngon phố cổ.",
			Metadata: retrieval.Metadata{
				Name:     "Phở Gà Châm",
				Address:  "65 Cầu Gỗ",
				District: "Hoàn Kiếm",
				Category: "Ăn uống",
				Price:    50000,
				Rating:   4.3,
			},
		},
	}
}

type orchestratorFixture struct {
	orch    *Orchestrator
	llm     *scriptedLLM
	answers *cache.MemoryStore
}

func newFixture(t *testing.T, docs []retrieval.Document) *orchestratorFixture {
	t.Helper()

	model := &scriptedLLM{answer: "Bạn nên thử Phở Thìn, sau đó ghé Phở Gà Châm."}
	answers := cache.NewMemoryStore(100, time.Hour, time.Hour)
	retrievals := cache.NewMemoryStore(100, time.Hour, time.Hour)
	conversations := conversation.NewManager(time.Hour, 100, time.Hour, zap.NewNop())

	orch := NewOrchestrator(
		guard.NewInputGuard(),
		intent.NewClassifier(),
		district.NewExtractor(),
		conversations,
		retrieval.NewEngine(&staticVector{docs: docs}, &staticStore{docs: docs}, time.Second),
		ranking.NewEngine(rerank.Disabled{}),
		model,
		&staticWeather{current: &weather.Current{Temp: 28, Condition: "Trời quang đãng", FullDescription: "Trời quang đãng, 28°C"}},
		answers,
		retrievals,
		Config{ModelName: "test-model"},
	)
	return &orchestratorFixture{orch: orch, llm: model, answers: answers}
}

func TestExecuteChatFlow(t *testing.T) {
	f := newFixture(t, testDocs())

	resp, perr := f.orch.Execute(context.Background(), Request{Question: "quán phở ngon ở Hà Nội"})
	if perr != nil {
		t.Fatalf("Execute returned error: %v", perr)
	}
	if resp.Intent != IntentChat {
		t.Fatalf("intent = %q, want CHAT", resp.Intent)
	}
	if resp.Cached {
		t.Fatal("first answer must not be cached")
	}
	if len(resp.Places) != 2 {
		t.Fatalf("expected 2 place cards, got %d", len(resp.Places))
	}
	if resp.Places[0].Name != "Phở Thìn" {
		t.Fatalf("first mentioned place should lead, got %q", resp.Places[0].Name)
	}
	if resp.Meta.Model != "test-model" || resp.Meta.CorrelationID == "" {
		t.Fatalf("metadata incomplete: %+v", resp.Meta)
	}
	if _, ok := resp.Meta.StageTimingsMs[StageRetrieval]; !ok {
		t.Fatalf("retrieval stage timing missing: %v", resp.Meta.StageTimingsMs)
	}
}

func TestExecuteAnswerCacheHit(t *testing.T) {
	f := newFixture(t, testDocs())
	req := Request{Question: "quán phở ngon ở Hà Nội"}

	if _, perr := f.orch.Execute(context.Background(), req); perr != nil {
		t.Fatalf("first call failed: %v", perr)
	}
	resp, perr := f.orch.Execute(context.Background(), req)
	if perr != nil {
		t.Fatalf("second call failed: %v", perr)
	}
	if !resp.Cached {
		t.Fatal("second identical question should hit the answer cache")
	}
	if f.llm.calls != 1 {
		t.Fatalf("LLM called %d times, want 1", f.llm.calls)
	}
}

func TestExecuteCacheKeyedByContextFlags(t *testing.T) {
	f := newFixture(t, testDocs())
	q := "quán phở ngon ở Hà Nội"

	if _, perr := f.orch.Execute(context.Background(), Request{Question: q}); perr != nil {
		t.Fatalf("first call failed: %v", perr)
	}
	resp, perr := f.orch.Execute(context.Background(), Request{Question: q, Realtime: true})
	if perr != nil {
		t.Fatalf("realtime call failed: %v", perr)
	}
	if resp.Cached {
		t.Fatal("different context flags must not share a cache entry")
	}
}

func TestExecuteValidationError(t *testing.T) {
	f := newFixture(t, testDocs())

	_, perr := f.orch.Execute(context.Background(), Request{Question: "  "})
	if perr == nil {
		t.Fatal("expected validation error")
	}
	if perr.Kind != ErrKindValidation {
		t.Fatalf("kind = %q, want VALIDATION", perr.Kind)
	}
	if perr.CorrelationID == "" {
		t.Fatal("validation error must carry a correlation id")
	}
	if f.llm.calls != 0 {
		t.Fatal("rejected input must never reach the model")
	}
}

func TestExecuteLLMFailure(t *testing.T) {
	f := newFixture(t, testDocs())
	f.llm.err = errors.New("upstream exploded")

	_, perr := f.orch.Execute(context.Background(), Request{Question: "quán phở ngon ở Hà Nội"})
	if perr == nil || perr.Kind != ErrKindLLM {
		t.Fatalf("expected LLM error, got %v", perr)
	}
}

func TestExecuteBreakerOpenMessage(t *testing.T) {
	f := newFixture(t, testDocs())
	f.llm.err = llm.ErrCircuitOpen

	_, perr := f.orch.Execute(context.Background(), Request{Question: "quán phở ngon ở Hà Nội"})
	if perr == nil || perr.Kind != ErrKindLLM {
		t.Fatalf("expected LLM error, got %v", perr)
	}
	if !strings.Contains(perr.Message, "temporarily unavailable") {
		t.Fatalf("breaker-open message not surfaced: %q", perr.Message)
	}
}

func TestExecuteLLMFailureKeepsUserTurn(t *testing.T) {
	f := newFixture(t, testDocs())
	f.llm.err = errors.New("upstream exploded")
	sessionID := conversation.NewSessionID("u1")

	_, perr := f.orch.Execute(context.Background(), Request{
		Question:  "quán phở ngon ở Hà Nội",
		SessionID: sessionID,
		UserID:    "u1",
	})
	if perr == nil {
		t.Fatal("expected LLM error")
	}

	state := f.orch.conversations.GetState(sessionID)
	if state == nil || len(state.History) != 1 {
		t.Fatalf("failed turn must keep the user question, state = %+v", state)
	}
	if state.History[0].Role != "user" || !strings.Contains(state.History[0].Content, "phở") {
		t.Fatalf("unexpected recorded turn: %+v", state.History[0])
	}
}

func newStalledFixture(t *testing.T, timeout time.Duration) *Orchestrator {
	t.Helper()

	docs := testDocs()
	answers := cache.NewMemoryStore(100, time.Hour, time.Hour)
	retrievals := cache.NewMemoryStore(100, time.Hour, time.Hour)
	conversations := conversation.NewManager(time.Hour, 100, time.Hour, zap.NewNop())

	return NewOrchestrator(
		guard.NewInputGuard(),
		intent.NewClassifier(),
		district.NewExtractor(),
		conversations,
		retrieval.NewEngine(&staticVector{docs: docs}, &staticStore{docs: docs}, time.Second),
		ranking.NewEngine(rerank.Disabled{}),
		stalledLLM{},
		&staticWeather{},
		answers,
		retrievals,
		Config{ModelName: "test-model", HardTimeout: timeout},
	)
}

func TestExecuteHardTimeout(t *testing.T) {
	orch := newStalledFixture(t, 50*time.Millisecond)

	start := time.Now()
	_, perr := orch.Execute(context.Background(), Request{Question: "quán phở ngon ở Hà Nội"})
	if perr == nil || perr.Kind != ErrKindTimeout {
		t.Fatalf("expected timeout error, got %v", perr)
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Fatalf("deadline not enforced, took %v", elapsed)
	}
}

func TestExecuteStreamHardTimeout(t *testing.T) {
	orch := newStalledFixture(t, 50*time.Millisecond)
	emitter := &collectingEmitter{}

	orch.ExecuteStream(context.Background(), Request{Question: "quán phở ngon ở Hà Nội"}, emitter)

	if emitter.failed == nil || emitter.failed.Kind != ErrKindTimeout {
		t.Fatalf("expected timeout error event, got %v", emitter.failed)
	}
	if emitter.done != nil {
		t.Fatal("timed-out stream must not emit done")
	}
}

func TestExecuteItineraryReturnsStructured(t *testing.T) {
	f := newFixture(t, testDocs())
	f.llm.answer = `Lịch trình đây: {"itinerary":[{"time":"08:00","placeName":"Phở Thìn","activity":"Ăn sáng","note":""}]}`

	resp, perr := f.orch.Execute(context.Background(), Request{Question: "lên lịch trình đi chơi Hà Nội một ngày"})
	if perr != nil {
		t.Fatalf("Execute returned error: %v", perr)
	}
	if resp.Intent != IntentItinerary {
		t.Fatalf("intent = %q, want ITINERARY", resp.Intent)
	}
	if resp.Structured == nil {
		t.Fatal("itinerary answer must carry structured data")
	}
}

func TestExecuteFollowUpSkipsRetrieval(t *testing.T) {
	f := newFixture(t, testDocs())
	sessionID := conversation.NewSessionID("u1")

	first, perr := f.orch.Execute(context.Background(), Request{
		Question:  "quán phở ngon ở Hà Nội",
		SessionID: sessionID,
		UserID:    "u1",
	})
	if perr != nil {
		t.Fatalf("seed turn failed: %v", perr)
	}
	if len(first.Places) == 0 {
		t.Fatal("seed turn produced no places")
	}

	f.llm.answer = "Phở Thìn nằm ở 13 Lò Đúc, quận Hai Bà Trưng."
	resp, perr := f.orch.Execute(context.Background(), Request{
		Question:  "quán đầu tiên địa chỉ ở đâu vậy",
		SessionID: sessionID,
		UserID:    "u1",
	})
	if perr != nil {
		t.Fatalf("follow-up failed: %v", perr)
	}
	if resp.Reference != string(conversation.ReferenceFollowUp) {
		t.Fatalf("reference = %q, want FOLLOW_UP", resp.Reference)
	}
	if resp.Cached {
		t.Fatal("follow-up answers are session-bound and must not be cached")
	}
	if len(resp.Places) != 1 || resp.Places[0].Name != "Phở Thìn" {
		t.Fatalf("follow-up should answer about the referenced place, got %v", resp.Places)
	}
	if _, ok := resp.Meta.StageTimingsMs[StageRetrieval]; ok {
		t.Fatal("follow-up must not run retrieval")
	}
}

func TestExecuteRecordsConversationTurns(t *testing.T) {
	f := newFixture(t, testDocs())
	sessionID := conversation.NewSessionID("u1")

	if _, perr := f.orch.Execute(context.Background(), Request{
		Question:  "quán phở ngon ở Hà Nội",
		SessionID: sessionID,
		UserID:    "u1",
	}); perr != nil {
		t.Fatalf("Execute failed: %v", perr)
	}

	ref := f.orch.conversations.AnalyzeReference("quán thứ 2 giá bao nhiêu", sessionID)
	if ref.Type != conversation.ReferenceFollowUp {
		t.Fatalf("session state not recorded, reference = %q", ref.Type)
	}
	if ref.TargetPlace == nil || ref.TargetPlace.Name != "Phở Gà Châm" {
		t.Fatalf("ordinal target wrong: %+v", ref.TargetPlace)
	}
}

type collectingEmitter struct {
	statuses []string
	places   []Place
	deltas   []string
	done     *Response
	failed   *Error
}

func (c *collectingEmitter) Status(stage string)   { c.statuses = append(c.statuses, stage) }
func (c *collectingEmitter) Places(places []Place) { c.places = places }
func (c *collectingEmitter) Delta(text string) error {
	c.deltas = append(c.deltas, text)
	return nil
}
func (c *collectingEmitter) Done(resp *Response) { c.done = resp }
func (c *collectingEmitter) Error(err *Error)    { c.failed = err }

func TestExecuteStreamEmitsDeltasAndDone(t *testing.T) {
	f := newFixture(t, testDocs())
	emitter := &collectingEmitter{}

	f.orch.ExecuteStream(context.Background(), Request{Question: "quán phở ngon ở Hà Nội"}, emitter)

	if emitter.failed != nil {
		t.Fatalf("stream errored: %v", emitter.failed)
	}
	if emitter.done == nil {
		t.Fatal("stream never completed")
	}
	if len(emitter.deltas) < 2 {
		t.Fatalf("expected multiple deltas, got %d", len(emitter.deltas))
	}
	joined := strings.Join(emitter.deltas, "")
	if !strings.Contains(emitter.done.Answer, joined[:10]) {
		t.Fatalf("final answer does not contain streamed text")
	}
	if len(emitter.places) == 0 {
		t.Fatal("stream must emit a places preview before the answer")
	}
}

func TestExecuteStreamValidationError(t *testing.T) {
	f := newFixture(t, testDocs())
	emitter := &collectingEmitter{}

	f.orch.ExecuteStream(context.Background(), Request{Question: "x"}, emitter)

	if emitter.failed == nil || emitter.failed.Kind != ErrKindValidation {
		t.Fatalf("expected validation error event, got %v", emitter.failed)
	}
	if emitter.done != nil {
		t.Fatal("failed stream must not emit done")
	}
}
