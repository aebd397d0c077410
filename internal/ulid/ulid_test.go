package ulid

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	id := Generate()

	assert.Empty(t, id.Prefix())
	assert.WithinDuration(t, time.Now(), id.Time(), time.Second)
}

func TestPrefixedIDs(t *testing.T) {
	tests := []struct {
		name   string
		gen    func() string
		prefix string
	}{
		{"sync", SyncID, PrefixSync},
		{"request", RequestID, PrefixRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id := tt.gen()
			assert.True(t, strings.HasPrefix(id, tt.prefix+PrefixSeparator))

			parsed, err := Parse(id)
			require.NoError(t, err)
			assert.Equal(t, tt.prefix, parsed.Prefix())
			assert.Equal(t, id, parsed.String())
		})
	}
}

func TestParse(t *testing.T) {
	raw := Generate()
	parsed, err := Parse(raw.String())
	require.NoError(t, err)
	assert.Equal(t, raw, parsed)

	_, err = Parse("invalid-ulid")
	assert.Error(t, err)
	assert.False(t, Validate("sync-nope"))
	assert.True(t, Validate(SyncID()))
}

func TestMonotonic(t *testing.T) {
	now := time.Now()
	a := NewWithTime(now)
	b := NewWithTime(now)
	assert.Equal(t, -1, a.ULID.Compare(b.ULID), "ids generated in the same millisecond stay ordered")
}
