package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"Graduación", "graduacion"},
		{"ACERO QUIRÚRGICO", "acero quirurgico"},
		{"Ñandú", "nandu"},
		{"precio 5€", "precio 5"},
		{"Oro 18K $85", "oro 18k $85"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Normalize(tt.in), "input %q", tt.in)
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	once := Normalize("Corazón de Plata 925")
	assert.Equal(t, once, Normalize(once))
}
