package publish

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/lueurxax/ytmusic-trends/internal/core/domain"
	"github.com/lueurxax/ytmusic-trends/internal/core/ports/mocks"
)

var errWebhookDown = errors.New("webhook down")

type mockNotifier struct {
	mock.Mock
	name string
}

func (m *mockNotifier) Name() string { return m.name }

func (m *mockNotifier) Notify(ctx context.Context, msg Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

type mockSheet struct {
	mock.Mock
}

func (m *mockSheet) URL() string { return SheetURL("sid") }

func (m *mockSheet) Write(ctx context.Context, runDate time.Time, themes []domain.ThemeEntry, prompts []domain.Prompt) error {
	args := m.Called(ctx, runDate, themes, prompts)
	return args.Error(0)
}

func seedStore(t *testing.T, runDate time.Time) *mocks.Store {
	t.Helper()

	ctx := context.Background()
	store := mocks.NewStore()

	require.NoError(t, store.SaveThemesForDate(ctx, runDate, []domain.ThemeEntry{{Theme: "lofi", Score: 9}}))
	_, err := store.ReplacePromptsForDate(ctx, runDate, []domain.Prompt{{Tool: domain.PromptToolSuno, Prompt: "rainy jazz"}})
	require.NoError(t, err)

	return store
}

func TestService_Run(t *testing.T) {
	ctx := context.Background()
	logger := zerolog.Nop()
	runDate := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)
	store := seedStore(t, runDate)

	outDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(outDir, "2024-03-05_prompts.md"), []byte("# report"), 0o600))

	chat := &mockNotifier{name: "discord"}
	chat.On("Notify", mock.Anything, mock.MatchedBy(func(msg Message) bool {
		return msg.Attachment != nil && msg.Attachment.Name == "2024-03-05_prompts.md" &&
			string(msg.Attachment.Data) == "# report"
	})).Return(nil)

	sheet := &mockSheet{}
	sheet.On("Write", mock.Anything, runDate, mock.Anything, mock.Anything).Return(nil)

	svc := New(store, []Notifier{chat}, sheet, Options{OutputDir: outDir}, &logger)

	res, err := svc.Run(ctx, runDate)
	require.NoError(t, err)

	assert.Equal(t, []string{"discord", "sheets"}, res.Delivered)
	assert.Contains(t, res.Summary, "• lofi (score 9)")
	assert.Contains(t, res.Summary, "• rainy jazz")
	assert.Contains(t, res.Summary, "https://docs.google.com/spreadsheets/d/sid")

	chat.AssertExpectations(t)
	sheet.AssertExpectations(t)
}

func TestService_RunDryRun(t *testing.T) {
	logger := zerolog.Nop()
	runDate := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)

	chat := &mockNotifier{name: "telegram"}
	sheet := &mockSheet{}

	svc := New(seedStore(t, runDate), []Notifier{chat}, sheet, Options{DryRun: true}, &logger)

	res, err := svc.Run(context.Background(), runDate)
	require.NoError(t, err)

	assert.Equal(t, []string{"telegram", "sheets"}, res.Skipped)
	assert.Empty(t, res.Delivered)
	chat.AssertNotCalled(t, "Notify", mock.Anything, mock.Anything)
	sheet.AssertNotCalled(t, "Write", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestService_RunContinuesAfterFailure(t *testing.T) {
	logger := zerolog.Nop()
	runDate := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)

	failing := &mockNotifier{name: "discord"}
	failing.On("Notify", mock.Anything, mock.Anything).Return(errWebhookDown)

	ok := &mockNotifier{name: "telegram"}
	ok.On("Notify", mock.Anything, mock.MatchedBy(func(msg Message) bool { return msg.Attachment == nil })).Return(nil)

	svc := New(seedStore(t, runDate), []Notifier{failing, ok}, nil, Options{OutputDir: t.TempDir()}, &logger)

	res, err := svc.Run(context.Background(), runDate)
	require.ErrorIs(t, err, errWebhookDown)
	require.NotNil(t, res)

	assert.Equal(t, []string{"telegram"}, res.Delivered)
	assert.NotContains(t, res.Summary, "Google Sheet")
	ok.AssertExpectations(t)
}
