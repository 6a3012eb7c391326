package app

import "time"

// Modes accepted by Run.
const (
	ModeCollect = "collect"
	ModeScore   = "score"
	ModePrompts = "prompts"
	ModePublish = "publish"
	ModeDaily   = "daily"
	ModeServe   = "serve"
)

const (
	dailyTaskName    = "daily"
	dailyTaskTimeout = 2 * time.Hour

	logFieldMode    = "mode"
	logFieldStage   = "stage"
	logFieldRunDate = "run_date"
	logFieldTarget  = "target"

	statusSuccess = "success"
	statusError   = "error"
)

// Modes lists every mode in the order the usage text shows them.
var Modes = []string{ModeCollect, ModeScore, ModePrompts, ModePublish, ModeDaily, ModeServe}
