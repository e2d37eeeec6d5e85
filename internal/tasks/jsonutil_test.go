package tasks

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeJSONText(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"bare object", `{"a":1}`, `{"a":1}`},
		{"fenced with language hint", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"fenced without hint", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"prose around object", `Here is the plan: {"a":1} hope that helps`, `{"a":1}`},
		{"nested braces", `result: {"a":{"b":2}} done`, `{"a":{"b":2}}`},
		{"array with prose", `sure: [1,2,3] enjoy`, `[1,2,3]`},
		{"no json at all", "just words", "just words"},
		{"whitespace padding", "  \n{\"a\":1}\n ", `{"a":1}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, normalizeJSONText(tc.in))
		})
	}
}
