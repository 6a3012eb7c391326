package trends

// Scoring policy defaults.
const (
	DefaultLikeWeight    = 2.0
	DefaultCommentWeight = 3.0
	DefaultMinAgeHours   = 1.0
	DefaultLogBase       = 10.0
)

const (
	// MaxThemeExamples caps the representative items kept per theme.
	MaxThemeExamples = 5

	// TrendTopN is how many of today's themes get a trend entry.
	TrendTopN = 25

	// RollingWindowDays is the trailing window used for the rolling average.
	RollingWindowDays = 7

	themeScoreDigits   = 6
	exampleScoreDigits = 4
)
