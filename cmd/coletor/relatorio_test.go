package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMesRelatorio_DefaultsToPreviousMonth(t *testing.T) {
	tests := []struct {
		agora string
		want  string
	}{
		{"2024-03-31", "2024-02"},
		{"2024-05-31", "2024-04"},
		{"2024-03-01", "2024-02"},
		{"2024-01-15", "2023-12"},
	}
	for _, tc := range tests {
		t.Run(tc.agora, func(t *testing.T) {
			agora, err := time.Parse(time.DateOnly, tc.agora)
			require.NoError(t, err)
			mes, err := mesRelatorio("", agora)
			require.NoError(t, err)
			assert.Equal(t, tc.want, mes.Rotulo())
		})
	}
}

func TestMesRelatorio_Flag(t *testing.T) {
	agora := time.Date(2024, 3, 31, 12, 0, 0, 0, time.UTC)

	mes, err := mesRelatorio("2023-11", agora)
	require.NoError(t, err)
	assert.Equal(t, "2023-11", mes.Rotulo())

	_, err = mesRelatorio("11/2023", agora)
	assert.Error(t, err)
}
