package styles

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"

	"github.com/mmcdole/xyzreader/internal/domain"
)

func TestContrastForeground(t *testing.T) {
	assert.Equal(t, White, ContrastForeground(domain.DefaultThemeColor))
	assert.Equal(t, White, ContrastForeground(domain.RGB{R: 0x10, G: 0x20, B: 0x80}))
	assert.Equal(t, Black, ContrastForeground(domain.RGB{R: 0xFF, G: 0xEE, B: 0x58}))
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"hello", 10, "hello"},
		{"hello world", 8, "hello..."},
		{"hello", 2, "he"},
		{"héllo wörld", 7, "héll..."},
		{"anything", 0, ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Truncate(tt.in, tt.width), tt.in)
	}
}

func TestPad(t *testing.T) {
	assert.Equal(t, "ab   ", Pad("ab", 5))
	assert.Equal(t, 5, lipgloss.Width(Pad("abcdefgh", 5)))
}

func TestSwatch(t *testing.T) {
	assert.Equal(t, "", Swatch(domain.RGB{}, 0, 2))
	s := Swatch(domain.RGB{R: 1}, 4, 2)
	assert.Equal(t, 4, lipgloss.Width(s))
	assert.Equal(t, 2, lipgloss.Height(s))
}
