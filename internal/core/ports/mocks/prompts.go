package mocks

import (
	"context"
	"time"

	"github.com/lueurxax/ytmusic-trends/internal/core/domain"
)

// ReplacePromptsForDate replaces the date's prompts with the normalized input.
func (s *Store) ReplacePromptsForDate(ctx context.Context, runDate time.Time, prompts []domain.Prompt) (int, error) {
	if s.ReplacePromptsFn != nil {
		return s.ReplacePromptsFn(ctx, runDate, prompts)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rows := domain.NormalizePrompts(prompts)
	s.prompts[dateKey(runDate)] = rows

	return len(rows), nil
}

// PromptsForDate returns the stored prompts for the date.
func (s *Store) PromptsForDate(_ context.Context, runDate time.Time) ([]domain.Prompt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]domain.Prompt(nil), s.prompts[dateKey(runDate)]...), nil
}

// SavePromptHistory records prompt hashes, ignoring ones already recorded for the date.
func (s *Store) SavePromptHistory(_ context.Context, runDate time.Time, prompts []domain.Prompt) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	day := domain.Day(runDate)

	for _, p := range domain.NormalizePrompts(prompts) {
		entry := promptHistoryEntry{date: day, tool: p.Tool, hash: domain.PromptHash(p.Prompt)}
		if !s.hasHistory(entry) {
			s.history = append(s.history, entry)
		}
	}

	return nil
}

func (s *Store) hasHistory(e promptHistoryEntry) bool {
	for _, h := range s.history {
		if h.date.Equal(e.date) && h.tool == e.tool && h.hash == e.hash {
			return true
		}
	}

	return false
}

// RecentPromptHashes returns hashes recorded for the tool with date inside [since, until].
func (s *Store) RecentPromptHashes(_ context.Context, tool string, since, until time.Time) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	from, to := domain.Day(since), domain.Day(until)

	var out []string

	for _, h := range s.history {
		if h.tool == tool && !h.date.Before(from) && !h.date.After(to) {
			out = append(out, h.hash)
		}
	}

	return out, nil
}
