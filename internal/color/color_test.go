package color

import (
	"github.com/stretchr/testify/assert"
	"testing"
)

func TestStrip(t *testing.T) {
	tests := map[string]struct {
		input    string
		expected string
	}{
		"red":              {input: Red("failed"), expected: "failed"},
		"nested":           {input: Yellow("a" + Blue("b")), expected: "ab"},
		"plain unchanged":  {input: "Copying files", expected: "Copying files"},
		"formatted values": {input: Green(100, "%"), expected: "100%"},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Strip(tc.input))
		})
	}
}
