package prompts

import (
	"encoding/json"
	"strings"

	"github.com/lueurxax/ytmusic-trends/internal/core/domain"
	"github.com/lueurxax/ytmusic-trends/internal/core/llm"
)

type generatedPayload struct {
	SunoPrompts []json.RawMessage `json:"suno_prompts"`
}

type promptObject struct {
	Prompt string  `json:"prompt"`
	Tags   tagList `json:"tags"`
	Theme  string  `json:"theme"`
}

// tagList accepts either a list of strings or a single comma separated string.
type tagList []string

func (t *tagList) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*t = list
		return nil
	}

	var single string
	if err := json.Unmarshal(data, &single); err != nil {
		*t = nil
		return nil //nolint:nilerr // unusable tags are dropped, not fatal
	}

	*t = strings.Split(single, ",")

	return nil
}

// ParseSunoPrompts decodes the model reply. Items may be plain strings or
// objects with prompt, tags and theme; text around the JSON object is ignored.
// Items without prompt text are dropped.
func ParseSunoPrompts(text string) ([]domain.Prompt, error) {
	var payload generatedPayload
	if err := llm.DecodeJSONObject(text, &payload); err != nil {
		return nil, err
	}

	out := make([]domain.Prompt, 0, len(payload.SunoPrompts))

	for _, raw := range payload.SunoPrompts {
		p, ok := parseItem(raw)
		if !ok {
			continue
		}

		out = append(out, p)
	}

	return out, nil
}

func parseItem(raw json.RawMessage) (domain.Prompt, bool) {
	p := domain.Prompt{Tool: domain.PromptToolSuno}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		p.Prompt = strings.TrimSpace(s)
		return p, p.Prompt != ""
	}

	var obj promptObject
	if err := json.Unmarshal(raw, &obj); err != nil {
		return p, false
	}

	p.Prompt = strings.TrimSpace(obj.Prompt)
	p.Theme = strings.TrimSpace(obj.Theme)

	for _, tag := range obj.Tags {
		if tag = strings.TrimSpace(tag); tag != "" {
			p.Tags = append(p.Tags, tag)
		}
	}

	return p, p.Prompt != ""
}
