// Package transform normalizes raw board payloads into the canonical record.
// Every mapper is total: unknown or missing input falls back to a documented
// default instead of failing, so one odd listing never aborts a run.
package transform

import (
	"bytes"
	"encoding/json"
	"strings"
)

// ExperienceFromYears buckets a years-of-experience figure into the
// canonical experience labels.
func ExperienceFromYears(years float64) string {
	switch {
	case years <= 2:
		return "1-3 Tahun"
	case years <= 5:
		return "3-5 Tahun"
	case years <= 10:
		return "5-10 Tahun"
	default:
		return "Lebih dari 10 Tahun"
	}
}

// joinTags builds the comma-joined tags column, skipping empty items.
func joinTags(items ...string) string {
	kept := items[:0:0]
	for _, it := range items {
		if it != "" {
			kept = append(kept, it)
		}
	}
	return strings.Join(kept, ", ")
}

// flexID decodes an identifier that boards serve either as a JSON number
// or as a JSON string.
type flexID string

func (f *flexID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = flexID(n.String())
	return nil
}

func (f flexID) String() string { return string(f) }
