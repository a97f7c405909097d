package identifier

import (
	"net/url"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUUIDIssuer_RandomVersion(t *testing.T) {
	id := UUIDIssuer{}.Issue()

	parsed, err := uuid.Parse(id)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(4), parsed.Version())
}

func TestUUIDIssuer_Uniqueness(t *testing.T) {
	const iterations = 1000
	seen := make(map[string]bool, iterations)

	for i := 0; i < iterations; i++ {
		id := UUIDIssuer{}.Issue()
		require.False(t, seen[id], "identifier %s issued twice", id)
		seen[id] = true
	}
}

func TestUUIDIssuer_URLSafe(t *testing.T) {
	id := UUIDIssuer{}.Issue()

	assert.Equal(t, id, url.QueryEscape(id))
}

func TestFixedIssuer_InOrder(t *testing.T) {
	issuer := NewFixedIssuer("a", "b")

	assert.Equal(t, "a", issuer.Issue())
	assert.Equal(t, "b", issuer.Issue())
	assert.Panics(t, func() { issuer.Issue() })
}
