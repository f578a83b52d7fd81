package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChatReplyConfidenceForms(t *testing.T) {
	tests := []struct {
		name string
		body string
		want Confidence
	}{
		{"label", `{"response":"ok","confidence":"High"}`, "High"},
		{"number", `{"response":"ok","confidence":0.87}`, "0.87"},
		{"missing", `{"response":"ok"}`, ""},
		{"null", `{"response":"ok","confidence":null}`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var reply ChatReply
			require.NoError(t, json.Unmarshal([]byte(tt.body), &reply))
			assert.Equal(t, tt.want, reply.Confidence)
		})
	}
}

func TestChatReplySourcesAndEmergency(t *testing.T) {
	body := `{"response":"Call 999","sources":[{"title":"NHS","content":"Chest pain advice"}],"emergency":true}`

	var reply ChatReply
	require.NoError(t, json.Unmarshal([]byte(body), &reply))
	assert.True(t, reply.Emergency)
	require.Len(t, reply.Sources, 1)
	assert.Equal(t, "NHS", reply.Sources[0].Title)
}
