// Tolerant structured-output extraction.
//
// Providers are instructed to emit pure JSON but routinely prepend prose or
// wrap output in markdown fences. Extraction tries, in order: the fenced
// block content, the trimmed text as-is, then balanced top-level arrays and
// objects located by a bracket-depth scan, earliest first. Only when every
// candidate fails does the caller get MalformedOutputError.
package llm

import (
	"encoding/json"
	"regexp"
	"sort"
	"strings"
)

var jsonFenceRe = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)\\s*```")

// ExtractStructured recovers a JSON value (object or array) from a raw
// completion. Returns *MalformedOutputError carrying the original text when
// nothing parseable can be found; an empty completion is malformed output.
func ExtractStructured(raw string) (any, error) {
	for _, candidate := range jsonCandidates(raw) {
		var v any
		if err := json.Unmarshal([]byte(candidate), &v); err != nil {
			continue
		}
		switch v.(type) {
		case map[string]any, []any:
			return v, nil
		}
		// scalar — keep scanning, a later candidate may hold the payload
	}
	return nil, &MalformedOutputError{RawText: raw}
}

// ExtractInto extracts the JSON value and decodes it into out. A value that
// extracts but does not decode into the target shape is skipped; when no
// candidate decodes, the completion is malformed output.
func ExtractInto(raw string, out any) error {
	for _, candidate := range jsonCandidates(raw) {
		if !json.Valid([]byte(candidate)) {
			continue
		}
		if err := json.Unmarshal([]byte(candidate), out); err == nil {
			return nil
		}
	}
	return &MalformedOutputError{RawText: raw}
}

// jsonCandidates collects deduplicated parse candidates in priority order:
// fenced blocks first (most specific), the trimmed raw text, then balanced
// bracket substrings ordered by where they start — so the outermost value
// wins over anything nested inside it, and prose brackets that fail to
// parse are simply skipped in favor of the next balanced span.
func jsonCandidates(raw string) []string {
	trimmed := strings.TrimSpace(raw)
	candidates := make([]string, 0, 8)
	for _, m := range jsonFenceRe.FindAllStringSubmatch(trimmed, -1) {
		if len(m) > 1 {
			candidates = appendCandidate(candidates, m[1])
		}
	}
	candidates = appendCandidate(candidates, trimmed)

	spans := balancedSpans(trimmed, '[', ']')
	spans = append(spans, balancedSpans(trimmed, '{', '}')...)
	sort.Slice(spans, func(i, j int) bool { return spans[i].start < spans[j].start })
	for _, sp := range spans {
		candidates = appendCandidate(candidates, sp.text)
	}
	return dedupe(candidates)
}

func appendCandidate(candidates []string, value string) []string {
	value = strings.TrimSpace(value)
	if value == "" {
		return candidates
	}
	return append(candidates, value)
}

type span struct {
	start int
	text  string
}

// balancedSpans returns every non-overlapping balanced open...close
// substring, counting bracket depth and skipping brackets inside JSON
// strings. This replaces the first-open/last-close heuristic, which
// mis-extracts when the surrounding prose itself contains brackets.
func balancedSpans(input string, open, close byte) []span {
	var spans []span
	offset := 0
	for offset < len(input) {
		rel := strings.IndexByte(input[offset:], open)
		if rel < 0 {
			break
		}
		start := offset + rel
		end := balanceEnd(input, start, open, close)
		if end < 0 {
			// unbalanced opener (likely prose) — step past it and keep looking
			offset = start + 1
			continue
		}
		spans = append(spans, span{start: start, text: input[start : end+1]})
		offset = end + 1
	}
	return spans
}

// balanceEnd scans from start (which must hold the open byte) and returns
// the index of the matching close byte, or -1 when the span never balances.
func balanceEnd(input string, start int, open, close byte) int {
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(input); i++ {
		ch := input[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

func dedupe(values []string) []string {
	seen := map[string]struct{}{}
	out := make([]string, 0, len(values))
	for _, value := range values {
		if _, ok := seen[value]; ok {
			continue
		}
		seen[value] = struct{}{}
		out = append(out, value)
	}
	return out
}
