package llm

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var (
	fenceRe  = regexp.MustCompile("```[A-Za-z0-9_+-]*[ \t]*\r?\n?")
	objectRe = regexp.MustCompile(`(?s)\{.*\}`)
)

// ParseStructured extracts one JSON object from a model response that may be
// wrapped in prose or code fences. It never returns a partial record.
func ParseStructured(text string) (map[string]any, error) {
	var record map[string]any
	if err := DecodeStructured(text, &record); err != nil {
		return nil, err
	}
	return record, nil
}

// DecodeStructured is ParseStructured decoding into v. The span from the
// first "{" to the last "}" is tried as is before any fence is removed, so
// fences inside string values survive.
func DecodeStructured(text string, v any) error {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end <= start {
		return &MalformedResponseError{Raw: text, Err: errors.New("no JSON object found")}
	}
	firstErr := decodeObject(text[start:end+1], v)
	if firstErr == nil {
		return nil
	}

	candidate := fenceRe.ReplaceAllString(text, "")
	if span := objectRe.FindString(candidate); span != "" {
		candidate = span
	}
	if err := decodeObject(candidate, v); err != nil {
		return &MalformedResponseError{Raw: text, Err: firstErr}
	}
	return nil
}

func decodeObject(s string, v any) error {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "{") {
		return errors.New("no JSON object found")
	}
	dec := json.NewDecoder(bytes.NewReader([]byte(s)))
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	if dec.More() {
		return errors.New("trailing data after JSON object")
	}
	return nil
}
