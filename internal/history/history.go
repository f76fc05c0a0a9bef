// Package history holds detection records and the filter the history view
// applies to them.
package history

import (
	"context"
	"errors"
	"math"
	"strings"

	"github.com/raysh454/phishguard/internal/model"
)

// EmptyStateMessage is shown when a filter matches nothing.
const EmptyStateMessage = "No detection history found for the selected filters."

var ErrRecordNotFound = errors.New("detection record not found")

// Query selects records by URL substring and risk tier. Both predicates must
// hold; the zero value matches everything.
type Query struct {
	Search string           `json:"search"`
	Risk   model.RiskFilter `json:"risk"`
}

// Repository is the store behind the history and dashboard views. Records
// are returned in insertion order.
type Repository interface {
	List(ctx context.Context) ([]model.DetectionRecord, error)
	Filter(ctx context.Context, q Query) ([]model.DetectionRecord, error)
	Get(ctx context.Context, id string) (*model.DetectionRecord, error)
	Add(ctx context.Context, rec model.DetectionRecord) (*model.DetectionRecord, error)
}

// Filter returns the records whose URL contains q.Search (case-insensitive)
// and whose tier passes q.Risk. Order is preserved and records is not
// modified; the result is never nil.
func Filter(records []model.DetectionRecord, q Query) []model.DetectionRecord {
	search := strings.ToLower(q.Search)
	out := make([]model.DetectionRecord, 0, len(records))
	for _, r := range records {
		if !strings.Contains(strings.ToLower(r.URL), search) {
			continue
		}
		if !q.Risk.Matches(r.RiskLevel) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// Summarize derives the four summary counters from records.
func Summarize(records []model.DetectionRecord) model.HistorySummary {
	s := model.HistorySummary{TotalScans: len(records)}
	for _, r := range records {
		if r.Blocked {
			s.ThreatsBlocked++
		} else {
			s.SafeURLs++
		}
	}
	if s.TotalScans > 0 {
		s.DetectionRate = int(math.Round(float64(s.ThreatsBlocked) / float64(s.TotalScans) * 100))
	}
	return s
}

// RecordFromResult converts a completed scan into a history entry. Only
// HIGH results are blocked.
func RecordFromResult(r *model.ScanResult, source string) model.DetectionRecord {
	return model.DetectionRecord{
		URL:       r.URL,
		RiskScore: r.Score,
		RiskLevel: r.RiskLevel,
		Timestamp: r.Timestamp,
		Source:    source,
		Blocked:   r.RiskLevel == model.RiskHigh,
	}
}
