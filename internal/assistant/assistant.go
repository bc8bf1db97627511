// Package assistant is the client for the AI planning gateway. The
// gateway owns prompt construction and model selection; this package owns
// the transport and the strict decode boundary that turns loosely shaped
// AI responses into domain values.
package assistant

import (
	"os"
	"time"

	"github.com/trip-planner/backend/internal/itinerary"
)

// OptimizeScope selects how far an optimization may reshuffle the trip.
type OptimizeScope string

const (
	// ScopeDay reorders places within the active day only.
	ScopeDay OptimizeScope = "day"
	// ScopeTrip may redistribute places across days.
	ScopeTrip OptimizeScope = "trip"
)

// Valid reports whether the scope is one of the known values.
func (s OptimizeScope) Valid() bool {
	return s == ScopeDay || s == ScopeTrip
}

// ParsedTrip is the result of parsing free-form itinerary text.
type ParsedTrip struct {
	Destination string          `json:"destination"`
	StartDate   string          `json:"startDate"`
	EndDate     string          `json:"endDate"`
	Days        []itinerary.Day `json:"days"`
}

// Config holds the gateway connection settings.
type Config struct {
	// BaseURL is the AI gateway base URL.
	BaseURL string

	// Token is the bearer token for gateway authentication, if any.
	Token string

	// Timeout for gateway requests. AI calls are slow; the default is
	// generous.
	Timeout time.Duration
}

// DefaultConfig returns the default configuration, reading from
// environment variables.
func DefaultConfig() Config {
	return Config{
		BaseURL: getEnv("AI_GATEWAY_URL", "http://localhost:8090"),
		Token:   getEnv("AI_GATEWAY_TOKEN", ""),
		Timeout: 60 * time.Second,
	}
}

// getEnv returns an environment variable value or a default if not set.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
