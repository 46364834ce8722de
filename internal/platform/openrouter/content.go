package openrouter

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ContentKind discriminates the three response content shapes providers
// are known to return for message.content.
type ContentKind int

const (
	// ContentString is a bare JSON string.
	ContentString ContentKind = iota
	// ContentFragments is an ordered array of {type, text} parts.
	ContentFragments
	// ContentFragment is a single {type, text} object.
	ContentFragment
)

type ContentPart struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// MessageContent is a tagged union over the provider content shapes.
// Decoding is exhaustive: anything outside the three known shapes is a
// decode error rather than silently coerced.
type MessageContent struct {
	Kind  ContentKind
	Text  string
	Parts []ContentPart
}

func (mc *MessageContent) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	switch {
	case strings.HasPrefix(trimmed, `"`):
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		mc.Kind = ContentString
		mc.Text = s
		return nil
	case strings.HasPrefix(trimmed, "["):
		var parts []ContentPart
		if err := json.Unmarshal(data, &parts); err != nil {
			return err
		}
		mc.Kind = ContentFragments
		mc.Parts = parts
		return nil
	case strings.HasPrefix(trimmed, "{"):
		var part ContentPart
		if err := json.Unmarshal(data, &part); err != nil {
			return err
		}
		mc.Kind = ContentFragment
		mc.Parts = []ContentPart{part}
		return nil
	default:
		return fmt.Errorf("unsupported message content shape: %s", firstN(trimmed, 40))
	}
}

func (mc MessageContent) MarshalJSON() ([]byte, error) {
	switch mc.Kind {
	case ContentString:
		return json.Marshal(mc.Text)
	case ContentFragments:
		return json.Marshal(mc.Parts)
	case ContentFragment:
		if len(mc.Parts) == 0 {
			return json.Marshal(ContentPart{})
		}
		return json.Marshal(mc.Parts[0])
	default:
		return nil, fmt.Errorf("unknown content kind %d", mc.Kind)
	}
}

// PlainText flattens the union to text, concatenating array fragments
// in order.
func (mc MessageContent) PlainText() string {
	switch mc.Kind {
	case ContentString:
		return mc.Text
	case ContentFragments, ContentFragment:
		var sb strings.Builder
		for _, p := range mc.Parts {
			sb.WriteString(p.Text)
		}
		return sb.String()
	default:
		return ""
	}
}

func firstN(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
