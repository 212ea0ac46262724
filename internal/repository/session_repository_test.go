package repository

import (
	"testing"

	"arogya_backend/internal/model"

	"github.com/stretchr/testify/assert"
)

func msgSeq(contents ...string) []model.ChatMessage {
	msgs := make([]model.ChatMessage, 0, len(contents))
	for _, c := range contents {
		msgs = append(msgs, model.ChatMessage{Content: c})
	}
	return msgs
}

func TestOldestFirst(t *testing.T) {
	cases := []struct {
		name string
		in   []string
		want []string
	}{
		{"empty", nil, []string{}},
		{"single", []string{"a"}, []string{"a"}},
		{"even", []string{"d", "c", "b", "a"}, []string{"a", "b", "c", "d"}},
		{"odd", []string{"c", "b", "a"}, []string{"a", "b", "c"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out := oldestFirst(msgSeq(tc.in...))
			got := make([]string, 0, len(out))
			for _, m := range out {
				got = append(got, m.Content)
			}
			assert.Equal(t, tc.want, got)
		})
	}
}
