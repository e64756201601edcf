package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSetArg(t *testing.T) {
	tests := []struct {
		arg      string
		value    float64
		relative bool
		wantErr  bool
	}{
		{"60", 60, false, false},
		{"60%", 60, false, false},
		{" 42.5 ", 42.5, false, false},
		{"+10", 10, true, false},
		{"-15", -15, true, false},
		{"+0", 0, true, false},
		{"", 0, false, true},
		{"abc", 0, false, true},
		{"+", 0, false, true},
		{"--5", 0, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.arg, func(t *testing.T) {
			req, err := parseSetArg(tt.arg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.value, req.value)
			assert.Equal(t, tt.relative, req.relative)
		})
	}
}

func TestSetRequestTarget(t *testing.T) {
	tests := []struct {
		name    string
		req     setRequest
		current float64
		want    float64
	}{
		{"absolute", setRequest{value: 60}, 80, 60},
		{"absolute clamped low", setRequest{value: 0}, 80, 10},
		{"absolute clamped high", setRequest{value: 150}, 80, 100},
		{"relative up", setRequest{value: 10, relative: true}, 80, 90},
		{"relative down", setRequest{value: -15, relative: true}, 80, 65},
		{"relative clamped", setRequest{value: -50, relative: true}, 30, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.req.target(tt.current))
		})
	}
}
