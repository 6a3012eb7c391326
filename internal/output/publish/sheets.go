package publish

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/lueurxax/ytmusic-trends/internal/core/domain"
	coreerrors "github.com/lueurxax/ytmusic-trends/internal/core/errors"
)

// Sheets writes the daily summary and history rows to a spreadsheet.
type Sheets struct {
	svc           *sheets.Service
	spreadsheetID string
	now           func() time.Time
}

// NewSheets creates a spreadsheet writer. Authentication comes from opts,
// usually OAuthOption.
func NewSheets(ctx context.Context, spreadsheetID string, opts ...option.ClientOption) (*Sheets, error) {
	if spreadsheetID == "" {
		return nil, fmt.Errorf("sheets writer: %w", coreerrors.ErrClientDisabled)
	}

	svc, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	return &Sheets{svc: svc, spreadsheetID: spreadsheetID, now: time.Now}, nil
}

// URL returns the spreadsheet's browser link.
func (s *Sheets) URL() string { return SheetURL(s.spreadsheetID) }

// authorizedUser is the stored user token, as written by the consent bootstrap.
type authorizedUser struct {
	Token        string `json:"token"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	Expiry       string `json:"expiry"`
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
}

// OAuthOption builds a refreshing token source from the OAuth client file and
// a stored user token. The client file may be absent when the token carries
// its own client id and secret.
func OAuthOption(ctx context.Context, clientJSONPath, tokenJSONPath string) (option.ClientOption, error) {
	raw, err := os.ReadFile(tokenJSONPath) //nolint:gosec // path comes from configuration
	if err != nil {
		return nil, fmt.Errorf("read oauth token: %w", err)
	}

	var user authorizedUser
	if err := json.Unmarshal(raw, &user); err != nil {
		return nil, fmt.Errorf("parse oauth token: %w", err)
	}

	cfg, err := oauthConfig(clientJSONPath, user)
	if err != nil {
		return nil, err
	}

	return option.WithTokenSource(cfg.TokenSource(ctx, user.oauthToken())), nil
}

func oauthConfig(clientJSONPath string, user authorizedUser) (*oauth2.Config, error) {
	data, err := os.ReadFile(clientJSONPath) //nolint:gosec // path comes from configuration
	if err == nil {
		cfg, cfgErr := google.ConfigFromJSON(data, sheets.SpreadsheetsScope)
		if cfgErr != nil {
			return nil, fmt.Errorf("parse oauth client: %w", cfgErr)
		}

		return cfg, nil
	}

	if user.ClientID == "" {
		return nil, fmt.Errorf("read oauth client: %w", err)
	}

	return &oauth2.Config{
		ClientID:     user.ClientID,
		ClientSecret: user.ClientSecret,
		Endpoint:     google.Endpoint,
		Scopes:       []string{sheets.SpreadsheetsScope},
	}, nil
}

func (u authorizedUser) oauthToken() *oauth2.Token {
	tok := &oauth2.Token{
		AccessToken:  u.AccessToken,
		RefreshToken: u.RefreshToken,
		TokenType:    u.TokenType,
	}

	if tok.AccessToken == "" {
		tok.AccessToken = u.Token
	}

	if u.Expiry != "" {
		if t, err := dateparse.ParseAny(u.Expiry); err == nil {
			tok.Expiry = t
		}
	}

	return tok
}

// Write overwrites the Daily sheet and appends to History, creating both
// sheets when missing.
func (s *Sheets) Write(ctx context.Context, runDate time.Time, themes []domain.ThemeEntry, prompts []domain.Prompt) error {
	if err := s.ensureSheets(ctx, sheetDaily, sheetHistory); err != nil {
		return err
	}

	themes = capThemes(themes, SheetThemes)
	prompts = capPrompts(prompts, SheetPrompts)

	_, err := s.svc.Spreadsheets.Values.Update(s.spreadsheetID, sheetDaily+"!A1", &sheets.ValueRange{
		Values: DailyRows(runDate, themes, prompts),
	}).ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("update daily sheet: %w", err)
	}

	_, err = s.svc.Spreadsheets.Values.Append(s.spreadsheetID, sheetHistory+"!A1", &sheets.ValueRange{
		Values: HistoryRows(runDate, s.now().UTC(), themes, prompts),
	}).ValueInputOption("RAW").InsertDataOption("INSERT_ROWS").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("append history sheet: %w", err)
	}

	return nil
}

func (s *Sheets) ensureSheets(ctx context.Context, names ...string) error {
	meta, err := s.svc.Spreadsheets.Get(s.spreadsheetID).Fields("sheets.properties.title").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("get spreadsheet: %w", err)
	}

	existing := make(map[string]struct{}, len(meta.Sheets))

	for _, sh := range meta.Sheets {
		if sh.Properties != nil {
			existing[sh.Properties.Title] = struct{}{}
		}
	}

	var requests []*sheets.Request

	for _, name := range names {
		if _, ok := existing[name]; !ok {
			requests = append(requests, &sheets.Request{
				AddSheet: &sheets.AddSheetRequest{Properties: &sheets.SheetProperties{Title: name}},
			})
		}
	}

	if len(requests) == 0 {
		return nil
	}

	_, err = s.svc.Spreadsheets.BatchUpdate(s.spreadsheetID, &sheets.BatchUpdateSpreadsheetRequest{Requests: requests}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("add sheets: %w", err)
	}

	return nil
}

// DailyRows lays out the Daily sheet: date, themes table, prompts table.
func DailyRows(runDate time.Time, themes []domain.ThemeEntry, prompts []domain.Prompt) [][]interface{} {
	rows := [][]interface{}{
		{"Date", runDate.Format(domain.DateLayout)},
		{},
		{"Top Themes", "Score"},
	}

	for _, t := range themes {
		rows = append(rows, []interface{}{t.Theme, t.Score})
	}

	rows = append(rows, []interface{}{}, []interface{}{"Suno Prompts", "Theme", "Tags"})

	for _, p := range prompts {
		rows = append(rows, []interface{}{p.Prompt, p.Theme, strings.Join(p.Tags, ", ")})
	}

	return append(rows, []interface{}{})
}

// HistoryRows returns the rows appended to History for one publish.
func HistoryRows(runDate, now time.Time, themes []domain.ThemeEntry, prompts []domain.Prompt) [][]interface{} {
	day := runDate.Format(domain.DateLayout)
	stamp := now.Format("2006-01-02T15:04:05.000000") + "Z"

	rows := make([][]interface{}, 0, len(themes)+len(prompts))

	for _, t := range themes {
		rows = append(rows, []interface{}{day, stamp, "theme", t.Theme, t.Score})
	}

	for _, p := range prompts {
		rows = append(rows, []interface{}{day, stamp, p.Tool, p.Theme, p.Prompt})
	}

	return rows
}

func capThemes(themes []domain.ThemeEntry, n int) []domain.ThemeEntry {
	if len(themes) > n {
		return themes[:n]
	}

	return themes
}

func capPrompts(prompts []domain.Prompt, n int) []domain.Prompt {
	if len(prompts) > n {
		return prompts[:n]
	}

	return prompts
}
