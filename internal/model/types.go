// Package model defines shared data structures.
package model

import "time"

// Config defines stopwatch settings.
type Config struct {
	Theme           string
	RefreshInterval time.Duration
	ChartWidth      int
	ChartHeight     int
	LogLevel        string
}

// LapRecord is a single recorded lap. Records are immutable once created.
type LapRecord struct {
	Number       int   `json:"number"`
	SplitMs      int64 `json:"time"`
	CumulativeMs int64 `json:"totalTime"`
}

// LapStats summarizes a non-empty lap sequence.
type LapStats struct {
	Count     int
	AverageMs float64
	Fastest   LapRecord
	Slowest   LapRecord
	TotalMs   int64
}
