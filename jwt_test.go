package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionToken(t *testing.T) {
	tok, err := signSessionToken("s3cret", "session-1", time.Hour)
	require.NoError(t, err)

	sid, err := parseSessionToken("s3cret", tok)
	require.NoError(t, err)
	assert.Equal(t, "session-1", sid)

	_, err = parseSessionToken("other", tok)
	assert.Error(t, err)

	expired, err := signSessionToken("s3cret", "session-1", -time.Minute)
	require.NoError(t, err)
	_, err = parseSessionToken("s3cret", expired)
	assert.Error(t, err)

	_, err = parseSessionToken("s3cret", "not-a-token")
	assert.Error(t, err)
}
