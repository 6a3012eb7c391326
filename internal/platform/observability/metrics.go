package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	VideosCollected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "trendrec_videos_collected_total",
		Help: "The total number of video records collected",
	}, []string{"region"})

	QueriesRun = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "trendrec_queries_run_total",
		Help: "The total number of search queries run, by cache outcome",
	}, []string{"cache"})

	DuplicateVideosSkipped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "trendrec_duplicate_videos_skipped_total",
		Help: "Videos returned by more than one query in a run and counted once",
	})

	FeedbackQueries = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "trendrec_feedback_queries_total",
		Help: "Queries selected by the feedback loop, by source",
	}, []string{"source"})

	SourceRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "trendrec_source_requests_total",
		Help: "Requests made to the video source API",
	}, []string{"endpoint", "status"})

	SourceRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "trendrec_source_request_duration_seconds",
		Help:    "Duration of video source API requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"endpoint"})

	ThemesScored = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "trendrec_themes_scored",
		Help: "Number of themes produced by the latest scoring run",
	})

	TopThemeScore = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "trendrec_top_theme_score",
		Help: "Aggregate score of the leading theme in the latest scoring run",
	})

	LLMRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "trendrec_llm_request_duration_seconds",
		Help:    "Duration of text generation requests",
		Buckets: []float64{1, 2, 5, 10, 20, 30, 60, 120, 300},
	}, []string{"model"})

	PromptsGenerated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "trendrec_prompts_generated_total",
		Help: "The total number of generated prompts kept",
	})

	PublishTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "trendrec_publish_total",
		Help: "Publish attempts by target and status",
	}, []string{"target", "status"})

	StageDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "trendrec_stage_duration_seconds",
		Help:    "Duration in seconds of a pipeline stage",
		Buckets: []float64{1, 2, 5, 10, 20, 30, 60, 120, 300, 600},
	}, []string{"stage", "status"})
)
