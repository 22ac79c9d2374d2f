package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func TestParseRateLimit(t *testing.T) {
	tests := []struct {
		raw     string
		want    rate.Limit
		wantNil bool
		wantErr bool
	}{
		{raw: "", wantNil: true},
		{raw: "0", wantNil: true},
		{raw: "0/m", wantNil: true},
		{raw: "5", want: 5},
		{raw: "5/s", want: 5},
		{raw: "60/m", want: 1},
		{raw: "3600/h", want: 1},
		{raw: "abc", wantErr: true},
		{raw: "-1", wantErr: true},
		{raw: "5/d", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			l, err := ParseRateLimit(tt.raw)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			if tt.wantNil {
				assert.Nil(t, l)
				return
			}
			require.NotNil(t, l)
			assert.InDelta(t, float64(tt.want), float64(l.Limit()), 1e-9)
			assert.Equal(t, 1, l.Burst())
		})
	}
}
