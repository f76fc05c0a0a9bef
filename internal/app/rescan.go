package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/raysh454/phishguard/internal/history"
	"github.com/raysh454/phishguard/internal/logging"
	"github.com/raysh454/phishguard/internal/model"
)

type DiffOp string

const (
	DiffEqual  DiffOp = "equal"
	DiffInsert DiffOp = "insert"
	DiffDelete DiffOp = "delete"
)

// DiffLine is one line of a rescan comparison.
type DiffLine struct {
	Op   DiffOp `json:"op"`
	Text string `json:"text"`
}

// RescanResult compares a stored detection with a fresh assessment of the
// same URL.
type RescanResult struct {
	Previous model.DetectionRecord  `json:"previous"`
	Current  *model.ScanResult      `json:"current"`
	Recorded *model.DetectionRecord `json:"recorded,omitempty"`
	Diff     []DiffLine             `json:"diff"`
	Changed  bool                   `json:"changed"`
}

// Rescan assesses the URL of a stored record again and reports what changed.
// It runs synchronously under ctx and does not count against any session.
func (o *Orchestrator) Rescan(ctx context.Context, recordID string) (*RescanResult, error) {
	prev, err := o.history.Get(ctx, recordID)
	if err != nil {
		return nil, err
	}
	if err := o.admitScan(); err != nil {
		return nil, err
	}

	cur, err := o.assessor.Assess(ctx, prev.URL, "")
	if err != nil {
		return nil, fmt.Errorf("rescan %s: %w", prev.URL, err)
	}

	diff := diffLines(recordSummary(prev.URL, prev.RiskScore, prev.RiskLevel), recordSummary(cur.URL, cur.Score, cur.RiskLevel))
	res := &RescanResult{
		Previous: *prev,
		Current:  cur,
		Diff:     diff,
		Changed:  prev.RiskLevel != cur.RiskLevel,
	}

	if o.cfg.RecordScans {
		rec, err := o.history.Add(ctx, history.RecordFromResult(cur, model.SourceManualScan))
		if err != nil {
			o.logger.Warn("failed to record rescan",
				logging.Field{Key: "record_id", Value: recordID},
				logging.Field{Key: "error", Value: err})
		} else {
			res.Recorded = rec
		}
	}
	return res, nil
}

func recordSummary(url string, score float64, level model.RiskLevel) string {
	return fmt.Sprintf("URL: %s\nRisk Score: %d%%\nRisk Level: %s\nBlocked: %t\n",
		url, model.Percent(score), level, level == model.RiskHigh)
}

// diffLines computes a line-level diff of a and b.
func diffLines(a, b string) []DiffLine {
	dmp := diffmatchpatch.New()
	ca, cb, lines := dmp.DiffLinesToChars(a, b)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(ca, cb, false), lines)

	out := make([]DiffLine, 0, len(diffs))
	for _, d := range diffs {
		var op DiffOp
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			op = DiffInsert
		case diffmatchpatch.DiffDelete:
			op = DiffDelete
		default:
			op = DiffEqual
		}
		for _, line := range strings.SplitAfter(d.Text, "\n") {
			if line == "" {
				continue
			}
			out = append(out, DiffLine{Op: op, Text: strings.TrimSuffix(line, "\n")})
		}
	}
	return out
}
