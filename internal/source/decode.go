package source

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	appLog "activitylog/internal/log"
	"activitylog/internal/model"
)

// ErrShape is returned when the document is valid JSON but neither an
// array nor an object with an "events" array.
var ErrShape = errors.New("source: expected {\"events\": [...]} or a bare array")

// Decode parses an events document. Both {"events": [...]} and a bare
// array are accepted. Individual records never fail decoding: an element
// that is not an object becomes a zero record in its position, so it
// still gets a positional id and default images.
func Decode(body []byte) ([]model.RawEvent, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return nil, errors.New("source: empty document")
	}

	switch body[0] {
	case '[':
		list, err := decodeList(body)
		if err != nil {
			return nil, fmt.Errorf("source: decode array: %w", err)
		}
		return list, nil
	case '{':
		var doc struct {
			Events json.RawMessage `json:"events"`
		}
		if err := json.Unmarshal(body, &doc); err != nil {
			return nil, fmt.Errorf("source: decode object: %w", err)
		}
		events := bytes.TrimSpace(doc.Events)
		if len(events) == 0 || events[0] != '[' {
			return nil, ErrShape
		}
		list, err := decodeList(events)
		if err != nil {
			return nil, fmt.Errorf("source: decode events: %w", err)
		}
		return list, nil
	default:
		return nil, ErrShape
	}
}

func decodeList(b []byte) ([]model.RawEvent, error) {
	var elems []json.RawMessage
	if err := json.Unmarshal(b, &elems); err != nil {
		return nil, err
	}
	list := make([]model.RawEvent, len(elems))
	for i, el := range elems {
		if err := json.Unmarshal(el, &list[i]); err != nil {
			appLog.Debug("events: element is not an object, using defaults", "index", i, "err", err.Error())
			list[i] = model.RawEvent{}
		}
	}
	return list, nil
}
