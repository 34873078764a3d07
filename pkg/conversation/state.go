// Package conversation owns multi-turn session state: bounded history, the
// last shown places, and reference resolution over them. No other component
// mutates a session directly.
package conversation

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// Turn is one message in a session's history.
type Turn struct {
	Role      string    `json:"role"` // "user" or "assistant"
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// PlaceRef is the snapshot of a shown place a follow-up can reference
// without re-running retrieval.
type PlaceRef struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Address      string  `json:"address"`
	District     string  `json:"district"`
	Category     string  `json:"category"`
	PriceRange   string  `json:"priceRange"`
	Rating       float64 `json:"rating"`
	OpeningHours string  `json:"openingHours,omitempty"`
}

// LatLng is a coordinate pair in degrees.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Context carries slow-changing session facts that refine later turns.
type Context struct {
	Location *LatLng `json:"location,omitempty"`
	Budget   string  `json:"budget,omitempty"`
}

// State is one session's memory.
type State struct {
	SessionID  string     `json:"sessionId"`
	UserID     string     `json:"userId"`
	History    []Turn     `json:"history"`
	LastPlaces []PlaceRef `json:"lastPlaces"`
	LastIntent string     `json:"lastIntent"`
	Context    Context    `json:"context"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}

const (
	maxHistoryTurns = 10
	maxLastPlaces   = 10
)

// snapshot deep-copies the state so callers can read it after the
// manager lock is released.
func (s *State) snapshot() *State {
	c := *s
	c.History = append([]Turn(nil), s.History...)
	c.LastPlaces = append([]PlaceRef(nil), s.LastPlaces...)
	if s.Context.Location != nil {
		loc := *s.Context.Location
		c.Context.Location = &loc
	}
	return &c
}

// NewSessionID derives a fresh session id for a user.
func NewSessionID(userID string) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s-%d", userID, time.Now().UnixNano())))
	return hex.EncodeToString(sum[:])[:32]
}
