package reconciler

import (
	"fmt"
	"time"

	"github.com/agentstation/assetmap/pkg/inventory"
)

// Result represents the outcome of a matching pass.
type Result struct {
	// Assets are annotated copies; the input slice is left untouched.
	Assets []inventory.Asset

	// Metadata
	Metadata ResultMetadata
}

// ResultMetadata contains metadata about the matching pass.
type ResultMetadata struct {
	// StartTime when matching started
	StartTime time.Time

	// EndTime when matching completed
	EndTime time.Time

	// Duration of the pass
	Duration time.Duration

	// Sources whose reports were supplied
	Sources []inventory.Source

	// Statistics about the pass
	Stats ResultStatistics
}

// ResultStatistics counts matches per source and method.
type ResultStatistics struct {
	AssetsProcessed int
	Matches         map[inventory.Source]map[inventory.MatchMethod]int
	BridgeMatches   int
	UserMatches     int
	TotalTimeMs     int64
}

// Matched returns the number of assets matched in source by any method.
func (s ResultStatistics) Matched(source inventory.Source) int {
	n := 0
	for _, c := range s.Matches[source] {
		n += c
	}
	return n
}

func (s *ResultStatistics) record(source inventory.Source, method inventory.MatchMethod) {
	if s.Matches == nil {
		s.Matches = make(map[inventory.Source]map[inventory.MatchMethod]int, 3)
	}
	if s.Matches[source] == nil {
		s.Matches[source] = make(map[inventory.MatchMethod]int, 4)
	}
	s.Matches[source][method]++
}

// Summary returns a human-readable summary of the result.
func (r *Result) Summary() string {
	s := r.Metadata.Stats
	return fmt.Sprintf("Matched %d assets: intune=%d jamf=%d defender=%d (bridge=%d, user=%d)",
		s.AssetsProcessed,
		s.Matched(inventory.SourceIntune),
		s.Matched(inventory.SourceJamf),
		s.Matched(inventory.SourceDefender),
		s.BridgeMatches, s.UserMatches)
}

// newResult creates a new result started at start.
func newResult(start time.Time, capacity int) *Result {
	return &Result{
		Assets: make([]inventory.Asset, 0, capacity),
		Metadata: ResultMetadata{
			StartTime: start,
			Sources:   []inventory.Source{},
			Stats: ResultStatistics{
				Matches: make(map[inventory.Source]map[inventory.MatchMethod]int, 3),
			},
		},
	}
}

// Finalize calculates duration and marks completion.
func (r *Result) Finalize(end time.Time) {
	r.Metadata.EndTime = end
	r.Metadata.Duration = r.Metadata.EndTime.Sub(r.Metadata.StartTime)
	r.Metadata.Stats.TotalTimeMs = r.Metadata.Duration.Milliseconds()
}
