package llmutils_test

import (
	"testing"

	"github.com/effective-security/odoomcp/llmutils"
	"github.com/stretchr/testify/assert"
)

func Test_CleanJSON(t *testing.T) {
	tcases := []struct {
		name string
		in   string
		exp  string
	}{
		{"plain object", `{"model":"res.partner"}`, `{"model":"res.partner"}`},
		{"plain array", `[1,2,3]`, `[1,2,3]`},
		{"prose prefix", `Sure, here you go: {"model":"res.partner"}`, `{"model":"res.partner"}`},
		{"prose suffix", `{"limit":10} hope that helps!`, `{"limit":10}`},
		{"fenced", "```json\n{\"ids\":[1]}\n```", `{"ids":[1]}`},
		{"no json", `just text`, `just text`},
		{"array inside object", `x {"domain":[["id","=",1]]} y`, `{"domain":[["id","=",1]]}`},
	}
	for _, tc := range tcases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.exp, string(llmutils.CleanJSON([]byte(tc.in))))
		})
	}
}

func Test_ToJSON(t *testing.T) {
	val := map[string]any{"a": 1}
	assert.Equal(t, `{"a":1}`, llmutils.ToJSON(val))
	assert.Equal(t, "{\n\t\"a\": 1\n}", llmutils.ToJSONIndent(val))
	assert.Equal(t, "\n```json\n{\"a\":1}\n```\n", llmutils.BackticksJSON(llmutils.ToJSON(val)))
}
