package provider

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyStatus(t *testing.T) {
	tests := []struct {
		code int
		want error
	}{
		{200, nil},
		{201, nil},
		{204, nil},
		{400, ErrNotFound},
		{404, ErrNotFound},
		{429, ErrRateLimited},
		{500, ErrUnavailable},
		{502, ErrUnavailable},
		{503, ErrUnavailable},
		{504, ErrUnavailable},
		{301, ErrUnavailable},
		{403, ErrUnavailable},
		{418, ErrUnavailable},
	}
	for _, tt := range tests {
		got := ClassifyStatus(tt.code)
		if tt.want == nil {
			assert.NoError(t, got, "status %d", tt.code)
			continue
		}
		assert.ErrorIs(t, got, tt.want, "status %d", tt.code)
	}
}
