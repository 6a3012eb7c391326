package llm

import (
	"encoding/json"
	"fmt"
	"strings"

	coreerrors "github.com/lueurxax/ytmusic-trends/internal/core/errors"
)

// ExtractJSONObject returns the span from the first '{' to the last '}'.
func ExtractJSONObject(text string) (string, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")

	if start == -1 || end == -1 || end <= start {
		return "", coreerrors.ErrNoJSONObject
	}

	return text[start : end+1], nil
}

// DecodeJSONObject unmarshals text into v. When the text is not valid JSON on
// its own, the outermost object embedded in it is tried instead.
func DecodeJSONObject(text string, v any) error {
	text = strings.TrimSpace(text)

	if err := json.Unmarshal([]byte(text), v); err == nil {
		return nil
	}

	obj, err := ExtractJSONObject(text)
	if err != nil {
		return err
	}

	if err := json.Unmarshal([]byte(obj), v); err != nil {
		return fmt.Errorf("decode llm json: %w", err)
	}

	return nil
}
