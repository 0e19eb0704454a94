package upload

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAllowedFile(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"report.pdf", true},
		{"essay.DOCX", true},
		{"diagram.png", true},
		{"notes.txt", true},
		{"virus.exe", false},
		{"script.sh", false},
		{"noextension", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, AllowedFile(tt.name), tt.name)
	}
}
