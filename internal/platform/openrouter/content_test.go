package openrouter

import (
	"encoding/json"
	"testing"
)

func TestMessageContentUnmarshal(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		wantKind ContentKind
		wantText string
	}{
		{
			name:     "bare string",
			raw:      `"{\"category\":\"Payroll\"}"`,
			wantKind: ContentString,
			wantText: `{"category":"Payroll"}`,
		},
		{
			name:     "fragment array",
			raw:      `[{"type":"text","text":"{\"category\":"},{"type":"text","text":"\"Payroll\"}"}]`,
			wantKind: ContentFragments,
			wantText: `{"category":"Payroll"}`,
		},
		{
			name:     "single fragment object",
			raw:      `{"type":"text","text":"hello"}`,
			wantKind: ContentFragment,
			wantText: "hello",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var mc MessageContent
			if err := json.Unmarshal([]byte(tt.raw), &mc); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if mc.Kind != tt.wantKind {
				t.Fatalf("kind = %d, want %d", mc.Kind, tt.wantKind)
			}
			if got := mc.PlainText(); got != tt.wantText {
				t.Fatalf("PlainText() = %q, want %q", got, tt.wantText)
			}
		})
	}
}

func TestMessageContentUnmarshalRejectsUnknownShapes(t *testing.T) {
	for _, raw := range []string{`42`, `true`, `null`} {
		var mc MessageContent
		if err := json.Unmarshal([]byte(raw), &mc); err == nil {
			t.Fatalf("unmarshal %q succeeded, want error", raw)
		}
	}
}

func TestMessageContentRoundTrip(t *testing.T) {
	mc := MessageContent{Kind: ContentFragments, Parts: []ContentPart{
		{Type: "text", Text: "a"},
		{Type: "text", Text: "b"},
	}}
	data, err := json.Marshal(mc)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var back MessageContent
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back.Kind != ContentFragments || back.PlainText() != "ab" {
		t.Fatalf("round trip lost shape: %+v", back)
	}
}
