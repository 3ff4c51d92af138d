package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadHTTPResponse(t *testing.T) {
	data, err := ReadHTTPResponse(strings.NewReader("hello"), 0)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))

	data, err = ReadHTTPResponse(strings.NewReader("hello"), 5)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))

	_, err = ReadHTTPResponse(strings.NewReader("hello!"), 5)
	assert.Error(t, err)

	assert.Equal(t, "hel", Snippet(strings.NewReader("hello"), 3))
}
