package genre

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		text   string
		want   string
		wantOK bool
	}{
		{"make me a boom bap beat", "boomBap", true},
		{"Neo-Soul chords please", "rnb", true},
		{"dark Hip-Hop", "hiphop", true},
		{"lo-fi study vibes", "lofi", true},
		{"latin trap banger", "reggaeton", true},
		{"perreo all night", "reggaeton", true},
		{"amapiano log drum", "amapiano", true},
		{"afro beat groove", "afrobeats", true},
		{"smooth R&B", "rnb", true},
		{"deep house", "house", true},
		{"soulful gospel", "gospel", true},
		{"uk drill", "drill", true},
		{"trap", "trap", true},
		{"afro fusion", "afrobeats", true},
		{"a string quartet", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got, ok := Detect(tt.text)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
