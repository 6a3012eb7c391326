// Package trends turns raw engagement samples into ranked theme signals and
// tracks how those signals move from day to day.
//
// The package has three stages, each a pure function over in-memory data:
//   - Scorer: one engagement record to a scalar trend score
//   - AggregateThemes: scored records grouped into ranked theme entries
//   - ComputeTrends: today's themes against daily history (delta, 7-day average, momentum)
//
// Nothing here performs I/O or returns errors; missing inputs degrade to
// zero values or nil trend fields.
package trends

import (
	"math"

	"github.com/lueurxax/ytmusic-trends/internal/core/domain"
)

// ScoringPolicy holds the tunable constants of the trend score formula.
type ScoringPolicy struct {
	LikeWeight    float64
	CommentWeight float64
	MinAgeHours   float64
	LogBase       float64
}

// DefaultScoringPolicy returns the stock weights.
func DefaultScoringPolicy() ScoringPolicy {
	return ScoringPolicy{
		LikeWeight:    DefaultLikeWeight,
		CommentWeight: DefaultCommentWeight,
		MinAgeHours:   DefaultMinAgeHours,
		LogBase:       DefaultLogBase,
	}
}

// Scorer computes per-item trend scores under a fixed policy.
type Scorer struct {
	policy ScoringPolicy
}

// NewScorer creates a scorer. Non-positive policy fields fall back to defaults,
// except the weights which may legitimately be zero.
func NewScorer(policy ScoringPolicy) *Scorer {
	def := DefaultScoringPolicy()

	if policy.LikeWeight < 0 {
		policy.LikeWeight = def.LikeWeight
	}

	if policy.CommentWeight < 0 {
		policy.CommentWeight = def.CommentWeight
	}

	if policy.MinAgeHours <= 0 {
		policy.MinAgeHours = def.MinAgeHours
	}

	if policy.LogBase <= 1 {
		policy.LogBase = def.LogBase
	}

	return &Scorer{policy: policy}
}

// Policy returns the effective scoring policy.
func (s *Scorer) Policy() ScoringPolicy {
	return s.policy
}

// Score returns the trend score of a record:
//
//	log(views_per_hour + 1) * (1 + wl*like_ratio + wc*comment_ratio)
//
// Without both timestamps the raw view count is returned so the item still ranks.
func (s *Scorer) Score(r domain.EngagementRecord) float64 {
	views := float64(r.Views())
	likes := float64(r.Likes())
	comments := float64(r.Comments())

	if r.PublishedAt == nil || r.FetchedAt == nil {
		return views
	}

	ageHours := math.Max(r.FetchedAt.Sub(*r.PublishedAt).Hours(), s.policy.MinAgeHours)
	viewsPerHour := views / ageHours

	// Guard the ratios for videos without views.
	denom := math.Max(views, 1)
	likeRatio := likes / denom
	commentRatio := comments / denom

	base := s.log(viewsPerHour + 1)
	boost := 1 + s.policy.LikeWeight*likeRatio + s.policy.CommentWeight*commentRatio

	return base * boost
}

// ScoreAll scores records in input order.
func (s *Scorer) ScoreAll(records []domain.EngagementRecord) []domain.ScoredItem {
	items := make([]domain.ScoredItem, 0, len(records))

	for _, r := range records {
		items = append(items, domain.ScoredItem{Record: r, Score: s.Score(r)})
	}

	return items
}

func (s *Scorer) log(x float64) float64 {
	if s.policy.LogBase == DefaultLogBase {
		return math.Log10(x)
	}

	return math.Log(x) / math.Log(s.policy.LogBase)
}

func roundTo(v float64, digits int) float64 {
	p := math.Pow(10, float64(digits))

	return math.Round(v*p) / p
}
