// Package model defines shared data structures.
package model

import "time"

// Config defines analysis settings resolved from flags and the config file.
type Config struct {
	Refine      bool
	Output      string
	Graph       bool
	SaveHistory bool
}

// RefineConfig defines the external refinement service settings.
type RefineConfig struct {
	Endpoint  string
	Model     string
	APIKeyEnv string
	Timeout   time.Duration
}

// HistoryFilter defines filters and options for history output.
type HistoryFilter struct {
	Lang        string
	Method      string
	Since       *time.Time
	Last        int
	CurveWindow int
}

// AnalysisRecord captures one completed analysis.
type AnalysisRecord struct {
	ID           int64     `json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	Input        string    `json:"input"`
	Encrypted    bool      `json:"encrypted"`
	TotalLetters int       `json:"total_letters"`
	Method       string    `json:"method,omitempty"`
	Strategy     string    `json:"strategy"`
	Language     string    `json:"language"`
	Score        float64   `json:"score"`
	Shift        int       `json:"shift"`
	Mapping      string    `json:"mapping,omitempty"`
	Decoded      string    `json:"decoded,omitempty"`
	AltMethod    string    `json:"alt_method,omitempty"`
	AltScore     float64   `json:"alt_score"`
}

// LetterTotal aggregates a letter's count across analyses.
type LetterTotal struct {
	Letter string `json:"letter"`
	Count  int    `json:"count"`
}
