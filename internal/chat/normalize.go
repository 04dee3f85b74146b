package chat

import "encoding/json"

// Reply is the three-part structured answer returned to the caller. All three
// keys are always present in the JSON output; an empty string means the field
// is unavailable, never that the key is missing.
type Reply struct {
	Technical string `json:"technical"`
	Realistic string `json:"realistic"`
	Emotional string `json:"emotional"`
}

// parseReply attempts the strict parse: a JSON object with all three keys
// present and non-empty.
func parseReply(text string) (*Reply, bool) {
	var r Reply
	if err := json.Unmarshal([]byte(text), &r); err != nil {
		return nil, false
	}
	if r.Technical == "" || r.Realistic == "" || r.Emotional == "" {
		return nil, false
	}
	return &r, true
}

// normalize coerces raw model output into a well-formed Reply. On parse
// failure it calls retry exactly once (a repeat completion with the strict
// JSON instruction) and parses that; if the retry errors or still does not
// parse, it falls back to putting the original raw text in the emotional
// slot so nothing is silently dropped.
func normalize(raw string, retry func() (string, error)) *Reply {
	if r, ok := parseReply(raw); ok {
		return r
	}

	text, err := retry()
	if err == nil {
		if r, ok := parseReply(text); ok {
			return r
		}
	}

	return &Reply{Emotional: raw}
}
