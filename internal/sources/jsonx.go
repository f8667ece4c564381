package sources

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// Models are asked for raw JSON but still wrap it in code fences or prose
// often enough that strict unmarshaling alone loses real results. These
// fallbacks recover the common cases; anything beyond them is a parse error.
var (
	codeFenceRegex  = regexp.MustCompile("(?s)```(?:json)?\\s*\\n?(.*?)\\n?```")
	jsonObjectRegex = regexp.MustCompile(`(?s)\{.*\}`)
)

// unmarshalModelJSON parses JSON out of model output, stripping code fences
// and surrounding prose when a direct parse fails.
func unmarshalModelJSON(text string, dest any) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return fmt.Errorf("empty response")
	}

	// Direct parse first
	if err := json.Unmarshal([]byte(text), dest); err == nil {
		return nil
	}

	// Inside a code fence
	if m := codeFenceRegex.FindStringSubmatch(text); m != nil {
		if err := json.Unmarshal([]byte(strings.TrimSpace(m[1])), dest); err == nil {
			return nil
		}
	}

	// Outermost object embedded in prose
	if m := jsonObjectRegex.FindString(text); m != "" {
		if err := json.Unmarshal([]byte(m), dest); err == nil {
			return nil
		}
	}

	return fmt.Errorf("no parseable JSON in response")
}
