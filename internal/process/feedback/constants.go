package feedback

// Candidate sources, used as metric labels.
const (
	sourceHistory = "history"
	sourceTheme   = "theme"
	sourceSeed    = "seed"
)

const (
	logFieldRunDate = "run_date"
	logFieldRegion  = "region"
)
