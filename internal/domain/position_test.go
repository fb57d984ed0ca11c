package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSelectBestPosition(t *testing.T) {
	tests := []struct {
		name       string
		candidates []Position
		expectedID *int64
	}{
		{
			name:       "empty list",
			candidates: nil,
			expectedID: nil,
		},
		{
			name: "location type preferred",
			candidates: []Position{
				{ID: 1, Name: "Paris Gare de Lyon", Type: "station"},
				{ID: 2, Name: "Paris", Type: "location"},
			},
			expectedID: int64Ptr(2),
		},
		{
			name: "falls back to first candidate",
			candidates: []Position{
				{ID: 7, Name: "Berlin Hbf", Type: "station"},
				{ID: 8, Name: "Berlin Tegel", Type: "airport"},
			},
			expectedID: int64Ptr(7),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			best := SelectBestPosition(tt.candidates)
			if tt.expectedID == nil {
				assert.Nil(t, best)
				return
			}
			if assert.NotNil(t, best) {
				assert.Equal(t, *tt.expectedID, best.ID)
			}
		})
	}
}

func TestSelectBestPosition_ReturnsCopy(t *testing.T) {
	candidates := []Position{{ID: 1, Name: "Paris", Type: "location"}}

	best := SelectBestPosition(candidates)
	best.Name = "changed"

	assert.Equal(t, "Paris", candidates[0].Name)
}

func int64Ptr(v int64) *int64 {
	return &v
}
