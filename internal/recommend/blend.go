package recommend

import (
	"math"
	"sort"
	"time"

	"github.com/khanglvm/calc-hub/internal/history"
)

const (
	// frequencyWeight is the weight for visit frequency in the usage score.
	frequencyWeight = 0.7

	// recencyWeight is the weight for the most recent visit in the usage score.
	recencyWeight = 0.3

	// recencyHalfLife is the half-life of the recency decay.
	recencyHalfLife = 24 * time.Hour

	// frequentVisits is how many retained visits make a tool "most used".
	frequentVisits = 3
)

// ToolScore is a tool with its usage score.
type ToolScore struct {
	ToolID string
	Score  float64
	Visits int
}

// Score rates toolID from the visitor's history, in [0,1].
// Formula: 0.7*frequency + 0.3*recency, where frequency is the tool's share
// of the history capacity and recency decays exponentially from the latest
// visit with a 24 hour half-life.
func Score(toolID string, events []history.UsageEvent, now time.Time) float64 {
	visits, latest := tally(toolID, events)
	if visits == 0 {
		return 0.0
	}
	return frequencyWeight*frequency(visits) + recencyWeight*recency(latest, now)
}

func tally(toolID string, events []history.UsageEvent) (int, time.Time) {
	visits := 0
	var latest time.Time
	for _, e := range events {
		if e.ToolID != toolID {
			continue
		}
		visits++
		if e.Timestamp.After(latest) {
			latest = e.Timestamp
		}
	}
	return visits, latest
}

func frequency(visits int) float64 {
	return math.Min(float64(visits)/float64(history.Capacity), 1.0)
}

// recency is 1.0 for a visit now, 0.5 after one half-life, and so on.
func recency(latest, now time.Time) float64 {
	hours := now.Sub(latest).Hours()
	if hours < 0 {
		hours = 0
	}
	return math.Exp(-math.Ln2 * hours / recencyHalfLife.Hours())
}

// RankHistory scores every distinct tool in events, highest first. Equal
// scores keep newest-first order.
func RankHistory(events []history.UsageEvent, now time.Time) []ToolScore {
	order := make([]string, 0)
	seen := make(map[string]bool)
	for _, e := range events {
		if !seen[e.ToolID] {
			seen[e.ToolID] = true
			order = append(order, e.ToolID)
		}
	}

	scores := make([]ToolScore, 0, len(order))
	for _, id := range order {
		visits, latest := tally(id, events)
		scores = append(scores, ToolScore{
			ToolID: id,
			Score:  frequencyWeight*frequency(visits) + recencyWeight*recency(latest, now),
			Visits: visits,
		})
	}

	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].Score > scores[j].Score
	})
	return scores
}

// Blend appends tools from the visitor's history to recs.
//
// Tools already recommended and the current tool are skipped. Added tools get
// low priority, ordered by RankHistory. At most maxAdded tools are added;
// zero or less adds every candidate. recs itself is not modified.
func Blend(recs []Recommendation, events []history.UsageEvent, currentToolID string, now time.Time, maxAdded int) []Recommendation {
	blended := append([]Recommendation(nil), recs...)
	present := make(map[string]bool, len(recs)+1)
	for _, r := range recs {
		present[r.ToolID] = true
	}
	present[currentToolID] = true

	added := 0
	for _, s := range RankHistory(events, now) {
		if maxAdded > 0 && added == maxAdded {
			break
		}
		if present[s.ToolID] {
			continue
		}
		present[s.ToolID] = true

		reason := "Recently used"
		if s.Visits >= frequentVisits {
			reason = "One of your most used tools"
		}
		blended = append(blended, Recommendation{ToolID: s.ToolID, Reason: reason, Priority: PriorityLow})
		added++
	}

	return blended
}
