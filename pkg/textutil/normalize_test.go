package textutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "田中太郎", "田中太郎"},
		{"interior space", "田中 太郎", "田中太郎"},
		{"ideographic space", "田中　太郎", "田中太郎"},
		{"surrounding whitespace", "  田中太郎\n", "田中太郎"},
		{"full-width latin", "Ｔａｎａｋａ", "Tanaka"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeName(tt.input))
		})
	}
}

func TestStripHonorific(t *testing.T) {
	assert.Equal(t, "田中太郎", StripHonorific("田中太郎君"))
	assert.Equal(t, "田中太郎", StripHonorific("田中太郎議員"))
	assert.Equal(t, "田中太郎", StripHonorific("田中太郎"))
	// A bare honorific is a (strange) name, not a suffix.
	assert.Equal(t, "君", StripHonorific("君"))
}

func TestSpeakerKeyCollapsesVariants(t *testing.T) {
	variants := []string{"田中太郎", "田中 太郎", "田中　太郎君", "田中太郎議員"}
	for _, v := range variants {
		assert.Equal(t, "田中太郎", SpeakerKey(v), "variant %q", v)
	}
}
