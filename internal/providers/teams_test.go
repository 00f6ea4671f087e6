package providers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTeamCode(t *testing.T) {
	code, ok := TeamCode("Los Angeles Rams")
	assert.True(t, ok)
	assert.Equal(t, "LA", code)

	code, ok = TeamCode("Washington Commanders")
	assert.True(t, ok)
	assert.Equal(t, "WAS", code)

	_, ok = TeamCode("Springfield Atoms")
	assert.False(t, ok)

	assert.Len(t, teamCodes, 32)
}

func TestNormalizeTeam(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"kc", "KC", true},
		{" LAR ", "LA", true},
		{"WSH", "WAS", true},
		{"JAC", "JAX", true},
		{"LAC", "LAC", true},
		{"XYZ", "XYZ", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := NormalizeTeam(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.ok, ok)
		})
	}
}
