package models

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Source is a reference document attached to a chat answer
type Source struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Confidence is shown verbatim; the backend sends either a label or a number
type Confidence string

func (c *Confidence) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*c = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*c = Confidence(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*c = Confidence(n.String())
	return nil
}

// ChatReply is the POST /chat response body
type ChatReply struct {
	Response   string     `json:"response"`
	Sources    []Source   `json:"sources"`
	Confidence Confidence `json:"confidence"`
	Emergency  bool       `json:"emergency"`
}
