package jsonutil

import "testing"

type payload struct {
	PostText    string `json:"post_text"`
	ImagePrompt string `json:"image_prompt"`
}

func TestStripMarkdownFences(t *testing.T) {
	tests := []struct {
		name, in, want string
	}{
		{"no fence", `{"a":1}`, `{"a":1}`},
		{"json fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"bare fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"surrounding whitespace", "  ```json\n{\"a\":1}\n```  ", `{"a":1}`},
		{"multiline body", "```json\n{\n\"a\":1\n}\n```", "{\n\"a\":1\n}"},
		{"too short to be fenced", "```", "```"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripMarkdownFences(tt.in); got != tt.want {
				t.Errorf("StripMarkdownFences(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseJSON(t *testing.T) {
	got, err := ParseJSON[payload]("```json\n{\"post_text\":\"hello\",\"image_prompt\":\"art\"}\n```")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.PostText != "hello" || got.ImagePrompt != "art" {
		t.Errorf("unexpected result: %+v", got)
	}
}

func TestParseJSONInvalid(t *testing.T) {
	if _, err := ParseJSON[payload]("not json at all"); err == nil {
		t.Fatal("expected error for invalid JSON")
	}
}
