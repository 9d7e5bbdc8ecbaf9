package term

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNonInteractive(t *testing.T) {
	var out bytes.Buffer
	tm := New(strings.NewReader(""), &out)

	assert.False(t, tm.IsTerminal())
	assert.Equal(t, DefaultWidth, tm.Width())
}

func TestConfirm(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"y\n", true},
		{"Yes\n", true},
		{"да\n", true},
		{"n\n", false},
		{"\n", false},
		{"", false},
		{"y", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			var out bytes.Buffer
			tm := New(strings.NewReader(tt.input), &out)

			got, err := tm.Confirm("Overwrite out.json?")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, "Overwrite out.json? [y/N]: ", out.String())
		})
	}
}
