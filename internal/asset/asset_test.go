package asset

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestImageURL(t *testing.T) {
	tests := []struct {
		name, base, code, ext, want string
	}{
		{"default ext", "https://cdn.example.edu/buildings", "ERIE", "", "https://cdn.example.edu/buildings/ERIE.png"},
		{"trailing slash", "https://cdn.example.edu/buildings/", "LBJ", ".jpg", "https://cdn.example.edu/buildings/LBJ.jpg"},
		{"ext without dot", "https://cdn.example.edu", "DH", "webp", "https://cdn.example.edu/DH.webp"},
		{"numeric code", "https://cdn.example.edu", "401", ".png", "https://cdn.example.edu/401.png"},
		{"no base", "", "ERIE", ".png", ""},
		{"blank base", "   ", "ERIE", ".png", ""},
		{"no code", "https://cdn.example.edu", "", ".png", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ImageURL(tt.base, tt.code, tt.ext))
		})
	}
}
