package jsonrepair

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want interface{}
	}{
		{
			name: "direct object",
			raw:  `{"code":"x","explanation":"y"}`,
			want: map[string]interface{}{"code": "x", "explanation": "y"},
		},
		{
			name: "surrounding whitespace",
			raw:  "\n  {\"a\":1}\n",
			want: map[string]interface{}{"a": json.Number("1")},
		},
		{
			name: "prefix and suffix prose",
			raw:  `prefix {"a":1} suffix`,
			want: map[string]interface{}{"a": json.Number("1")},
		},
		{
			name: "markdown fenced",
			raw:  "```json\n{\"code\":\"export default function App(){}\"}\n```",
			want: map[string]interface{}{"code": "export default function App(){}"},
		},
		{
			name: "nested braces kept",
			raw:  `Here: {"plan":{"goal":"g"},"code":"function(){ return {}; }"} done`,
			want: map[string]interface{}{
				"plan": map[string]interface{}{"goal": "g"},
				"code": "function(){ return {}; }",
			},
		},
		{
			name: "bare JSON string passes through",
			raw:  `"{\"code\":\"x\"}"`,
			want: `{"code":"x"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Extract(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtract_Unparsable(t *testing.T) {
	cases := map[string]string{
		"empty":              "",
		"no braces":          "I cannot help with that.",
		"only opening brace": "here it comes { nope",
		"null":               "null",
		"broken span":        `a {"a":1} b {not json} c`,
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			v, err := Extract(raw)
			assert.ErrorIs(t, err, ErrUnparsable)
			assert.Nil(t, v)
		})
	}
}

func TestSpan_IsGreedy(t *testing.T) {
	assert.Equal(t, `{"a":1} and {"b":2}`, Span(`x {"a":1} and {"b":2} y`))
	assert.Equal(t, "", Span("no braces"))
}
