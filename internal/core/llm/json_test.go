package llm

import (
	"errors"
	"testing"

	coreerrors "github.com/lueurxax/ytmusic-trends/internal/core/errors"
)

func TestExtractJSONObject(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "pure_object", input: `{"key":"value"}`, want: `{"key":"value"}`},
		{name: "object_with_preamble", input: `Here: {"key":"value"} done.`, want: `{"key":"value"}`},
		{name: "markdown_wrapped", input: "```json\n{\"a\":1}\n```", want: `{"a":1}`},
		{name: "nested", input: `x {"a":{"b":2}} y`, want: `{"a":{"b":2}}`},
		{name: "no_json", input: "just some text", wantErr: true},
		{name: "reversed_braces", input: "} then {", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractJSONObject(tt.input)
			if tt.wantErr {
				if !errors.Is(err, coreerrors.ErrNoJSONObject) {
					t.Errorf("ExtractJSONObject() error = %v, want ErrNoJSONObject", err)
				}

				return
			}

			if err != nil {
				t.Fatalf("ExtractJSONObject() error = %v", err)
			}

			if got != tt.want {
				t.Errorf("ExtractJSONObject() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDecodeJSONObject(t *testing.T) {
	var out struct {
		Items []string `json:"items"`
	}

	if err := DecodeJSONObject(`Sure! {"items":["a","b"]} Enjoy.`, &out); err != nil {
		t.Fatalf("DecodeJSONObject() error = %v", err)
	}

	if len(out.Items) != 2 || out.Items[1] != "b" {
		t.Errorf("DecodeJSONObject() = %+v", out)
	}

	if err := DecodeJSONObject(`{"items": [broken}`, &out); err == nil {
		t.Error("expected error for malformed json")
	}
}
