package credential

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLookup_PrefersEnvironment(t *testing.T) {
	t.Setenv("IBOITE_BACKEND_TOKEN", "  s3cret ")
	assert.Equal(t, "s3cret", Lookup(KeyBackendToken))

	t.Setenv("IBOITE_IMAP_PASSWORD", "imap-pass")
	assert.Equal(t, "imap-pass", Lookup(KeyIMAPPassword))
}
