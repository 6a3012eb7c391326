package collect

const (
	cacheHit  = "hit"
	cacheMiss = "miss"

	logFieldRunDate = "run_date"
	logFieldRegion  = "region"
	logFieldQuery   = "query"
	logFieldCount   = "count"

	hoursPerDay = 24
)
