package dto

import "encoding/json"

// PreferencesRequest is the caller's saved personalization profile,
// sent with the request when the personalization toggle is on.
type PreferencesRequest struct {
	FavoriteFoods []string `json:"favoriteFoods"`
	Styles        []string `json:"styles"`
	Atmosphere    []string `json:"atmosphere"`
	Activities    []string `json:"activities"`
	Dietary       []string `json:"dietary"`
}

type ChatRequest struct {
	Question  string `json:"question" validate:"required,min=3,max=500"`
	SessionId string `json:"sessionId"`
	UserId    string `json:"userId"`

	Realtime        bool                `json:"realtime"`
	UseLocation     bool                `json:"useLocation"`
	Latitude        *float64            `json:"latitude"`
	Longitude       *float64            `json:"longitude"`
	Personalization bool                `json:"personalization"`
	Preferences     *PreferencesRequest `json:"preferences"`
}

type PlaceResponse struct {
	Id          string  `json:"id"`
	Name        string  `json:"name"`
	Address     string  `json:"address"`
	District    string  `json:"district,omitempty"`
	Category    string  `json:"category,omitempty"`
	Price       int     `json:"price,omitempty"`
	Rating      float64 `json:"rating,omitempty"`
	ReviewCount int     `json:"reviewCount,omitempty"`
	Image       string  `json:"image,omitempty"`
}

type ChatMeta struct {
	Model          string           `json:"model,omitempty"`
	CorrelationId  string           `json:"correlationId"`
	TotalMs        int64            `json:"totalMs"`
	StageTimingsMs map[string]int64 `json:"stageTimingsMs,omitempty"`
	Degraded       []string         `json:"degraded,omitempty"`
}

type ChatResponse struct {
	Question    string          `json:"question"`
	Answer      string          `json:"answer"`
	Places      []PlaceResponse `json:"places"`
	Intent      string          `json:"intent"`
	QueryIntent string          `json:"queryIntent"`
	Reference   string          `json:"reference,omitempty"`
	Structured  json.RawMessage `json:"structuredData,omitempty"`
	Cached      bool            `json:"cached"`
	SessionId   string          `json:"sessionId,omitempty"`
	Meta        ChatMeta        `json:"meta"`
}

type CreateSessionRequest struct {
	UserId string `json:"userId" validate:"required"`
}

type SessionResponse struct {
	SessionId string `json:"sessionId"`
}

// StatsResponse is the operational snapshot served by the health
// endpoint.
type StatsResponse struct {
	AnswerCache    CacheStats   `json:"answerCache"`
	RetrievalCache CacheStats   `json:"retrievalCache"`
	LLM            LLMStats     `json:"llm"`
	Conversations  SessionStats `json:"conversations"`
}

type CacheStats struct {
	Hits      uint64  `json:"hits"`
	Misses    uint64  `json:"misses"`
	Evictions uint64  `json:"evictions"`
	Size      int     `json:"size"`
	HitRate   float64 `json:"hitRate"`
}

type LLMStats struct {
	Breaker   string `json:"breaker"`
	Calls     int    `json:"calls"`
	AverageMs int64  `json:"averageMs"`
	P95Ms     int64  `json:"p95Ms"`
	P99Ms     int64  `json:"p99Ms"`
	Successes uint64 `json:"successes"`
	Failures  uint64 `json:"failures"`
}

type SessionStats struct {
	Active   int `json:"active"`
	Capacity int `json:"capacity"`
}
