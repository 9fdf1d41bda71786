package responser

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusFromCode(t *testing.T) {
	tests := []struct {
		code int
		want Status
	}{
		{-1, StatusError},
		{0, StatusError},
		{99, StatusError},
		{100, StatusInformation},
		{199, StatusInformation},
		{200, StatusSuccess},
		{204, StatusSuccess},
		{299, StatusSuccess},
		{300, StatusRedirection},
		{399, StatusRedirection},
		{400, StatusFailure},
		{404, StatusFailure},
		{499, StatusFailure},
		{500, StatusError},
		{599, StatusError},
		{600, StatusError},
		{999, StatusError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, StatusFromCode(tt.code), "code %d", tt.code)
	}
}

func TestStatusFromCode_EveryCode(t *testing.T) {
	for code := 0; code < 1000; code++ {
		got := StatusFromCode(code)
		switch {
		case code >= 100 && code <= 199:
			assert.Equal(t, StatusInformation, got)
		case code >= 200 && code <= 299:
			assert.Equal(t, StatusSuccess, got)
		case code >= 300 && code <= 399:
			assert.Equal(t, StatusRedirection, got)
		case code >= 400 && code <= 499:
			assert.Equal(t, StatusFailure, got)
		default:
			assert.Equal(t, StatusError, got)
		}
	}
}

func TestStatus_JSON(t *testing.T) {
	for _, st := range []Status{StatusInformation, StatusSuccess, StatusRedirection, StatusFailure, StatusError} {
		b, err := json.Marshal(st)
		require.NoError(t, err)
		assert.Equal(t, `"`+string(st)+`"`, string(b))

		var decoded Status
		require.NoError(t, json.Unmarshal(b, &decoded))
		assert.Equal(t, st, decoded)
	}
}

func TestStatus_RejectsUnknownNames(t *testing.T) {
	var st Status
	assert.Error(t, json.Unmarshal([]byte(`"ok"`), &st))
	assert.Error(t, json.Unmarshal([]byte(`"Success"`), &st))

	_, err := json.Marshal(Status("teapot"))
	assert.Error(t, err)

	_, err = ParseStatus("")
	assert.Error(t, err)
}
