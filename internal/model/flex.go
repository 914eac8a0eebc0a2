package model

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Text decodes a JSON string or number into a trimmed string. Other JSON
// shapes decode to "".
type Text string

func (t *Text) UnmarshalJSON(b []byte) error {
	*t = Text(scalarString(b))
	return nil
}

func (t Text) String() string { return strings.TrimSpace(string(t)) }

// TextList decodes an array of strings and numbers. Elements of other
// shapes are skipped; a non-array decodes to nil.
type TextList []string

func (l *TextList) UnmarshalJSON(b []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		*l = nil
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, r := range raw {
		if s := scalarString(r); s != "" {
			out = append(out, s)
		}
	}
	*l = out
	return nil
}

// MaxImageCount caps imageCount. Larger values are clamped to it.
const MaxImageCount = 1000

// Count decodes a JSON number or numeric string. Anything else, including
// negative, NaN and infinite values, is 0.
type Count int

func (c *Count) UnmarshalJSON(b []byte) error {
	s := scalarString(b)
	if s == "" {
		*c = 0
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		*c = 0
		return nil
	}
	*c = Count(math.Min(f, MaxImageCount))
	return nil
}

// VideoRef is one entry of videoLinks: either a bare string or an
// object with optional id and url.
type VideoRef struct {
	Raw string
	ID  string
	URL string
}

func (v *VideoRef) UnmarshalJSON(b []byte) error {
	*v = VideoRef{}
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '{' {
		var obj struct {
			ID  Text `json:"id"`
			URL Text `json:"url"`
		}
		if err := json.Unmarshal(b, &obj); err == nil {
			v.ID = obj.ID.String()
			v.URL = obj.URL.String()
		}
		return nil
	}
	v.Raw = scalarString(b)
	return nil
}

// IsObject reports whether the reference came from an {id,url} object.
func (v VideoRef) IsObject() bool {
	return v.Raw == "" && (v.ID != "" || v.URL != "")
}

// VideoRefList tolerates a non-array value by decoding it to nil.
type VideoRefList []VideoRef

func (l *VideoRefList) UnmarshalJSON(b []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		*l = nil
		return nil
	}
	out := make([]VideoRef, 0, len(raw))
	for _, r := range raw {
		var ref VideoRef
		_ = ref.UnmarshalJSON(r)
		out = append(out, ref)
	}
	*l = out
	return nil
}

func scalarString(b []byte) string {
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		return ""
	}
	switch b[0] {
	case '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return ""
		}
		return strings.TrimSpace(s)
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		var n json.Number
		if err := json.Unmarshal(b, &n); err != nil {
			return ""
		}
		return n.String()
	default:
		return ""
	}
}
