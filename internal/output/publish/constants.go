package publish

import "time"

const (
	// TelegramMaxMessageSize is the Telegram message length limit.
	TelegramMaxMessageSize = 4096

	// DiscordMaxMessageSize keeps webhook posts under Discord's 2000 char limit.
	DiscordMaxMessageSize = 1900

	// SummaryThemes and SummaryPrompts bound the notification summary.
	SummaryThemes  = 10
	SummaryPrompts = 3

	// SheetThemes and SheetPrompts bound the spreadsheet rows.
	SheetThemes  = 10
	SheetPrompts = 12

	sheetDaily   = "Daily"
	sheetHistory = "History"

	sheetURLPrefix = "https://docs.google.com/spreadsheets/d/"

	sleepBetweenParts = 300 * time.Millisecond
	defaultTimeout    = 30 * time.Second

	targetTelegram = "telegram"
	targetDiscord  = "discord"
	targetSheets   = "sheets"

	statusSuccess = "success"
	statusError   = "error"
	statusDryRun  = "dry_run"
)
