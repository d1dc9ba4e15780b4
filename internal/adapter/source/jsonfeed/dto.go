package jsonfeed

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// ArticleDTO is a single entry of the JSON article feed.
// Numeric fields are served as either numbers or strings depending on the host.
type ArticleDTO struct {
	ID            FlexInt64   `json:"id"`
	Title         string      `json:"title"`
	Author        string      `json:"author"`
	Body          string      `json:"body"`
	Thumb         string      `json:"thumb"`
	Photo         string      `json:"photo"`
	AspectRatio   FlexFloat64 `json:"aspect_ratio"`
	PublishedDate string      `json:"published_date"`
}

// FlexInt64 decodes from a JSON number or a quoted number.
// Anything else decodes to 0 so the entry is dropped, not the whole feed.
type FlexInt64 int64

func (f *FlexInt64) UnmarshalJSON(data []byte) error {
	*f = 0
	s, err := unquoteNumber(data)
	if err != nil || s == "" {
		return nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return nil
	}
	*f = FlexInt64(n)
	return nil
}

// FlexFloat64 decodes from a JSON number or a quoted number.
// Anything else decodes to 0, which articles treat as unknown.
type FlexFloat64 float64

func (f *FlexFloat64) UnmarshalJSON(data []byte) error {
	*f = 0
	s, err := unquoteNumber(data)
	if err != nil || s == "" {
		return nil
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	*f = FlexFloat64(n)
	return nil
}

// unquoteNumber returns the textual number in data, or "" for null and "".
func unquoteNumber(data []byte) (string, error) {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return "", nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return "", err
		}
		return strings.TrimSpace(s), nil
	}
	return string(data), nil
}
