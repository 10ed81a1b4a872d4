package jsonutil

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFlexibleStringValue(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"string", `"tanaka"`, "tanaka"},
		{"integer", `42`, "42"},
		{"float", `0.85`, "0.85"},
		{"bool", `true`, "true"},
		{"null", `null`, ""},
		{"empty", ``, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FlexibleStringValue(json.RawMessage(tt.raw)))
		})
	}
}

func TestFlexibleFloatValue(t *testing.T) {
	f, ok := FlexibleFloatValue(json.RawMessage(`0.7`))
	assert.True(t, ok)
	assert.Equal(t, 0.7, f)

	f, ok = FlexibleFloatValue(json.RawMessage(`"0.85"`))
	assert.True(t, ok)
	assert.Equal(t, 0.85, f)

	_, ok = FlexibleFloatValue(json.RawMessage(`null`))
	assert.False(t, ok)

	_, ok = FlexibleFloatValue(json.RawMessage(`"high"`))
	assert.False(t, ok)
}

func TestFlexibleInt64Value(t *testing.T) {
	n, ok := FlexibleInt64Value(json.RawMessage(`10`))
	assert.True(t, ok)
	assert.Equal(t, int64(10), n)

	n, ok = FlexibleInt64Value(json.RawMessage(`"12"`))
	assert.True(t, ok)
	assert.Equal(t, int64(12), n)

	_, ok = FlexibleInt64Value(json.RawMessage(`0.5`))
	assert.False(t, ok)
}
