package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAddress(t *testing.T) {
	t.Run("canonicalizes to lower case", func(t *testing.T) {
		addr, err := ParseAddress("0xAbCdEf0123456789aBcDeF0123456789AbCdEf01")
		require.NoError(t, err)
		assert.Equal(t, Address("0xabcdef0123456789abcdef0123456789abcdef01"), addr)
	})

	t.Run("trims surrounding whitespace", func(t *testing.T) {
		addr, err := ParseAddress("  0xabcdef0123456789abcdef0123456789abcdef01\n")
		require.NoError(t, err)
		assert.False(t, addr.IsZero())
	})

	t.Run("rejects malformed input", func(t *testing.T) {
		for _, bad := range []string{
			"",
			"0x",
			"abcdef0123456789abcdef0123456789abcdef01",    // missing prefix
			"0xabcdef0123456789abcdef0123456789abcdef0",   // 39 hex chars
			"0xabcdef0123456789abcdef0123456789abcdef012", // 41 hex chars
			"0xabcdef0123456789abcdef0123456789abcdefgg",  // non-hex
		} {
			_, err := ParseAddress(bad)
			assert.Error(t, err, "input %q", bad)
		}
	})
}

func TestMustAddressPanicsOnInvalid(t *testing.T) {
	assert.Panics(t, func() { MustAddress("not-an-address") })
}

func TestParseKYCLevel(t *testing.T) {
	for raw, want := range map[uint8]KYCLevel{
		0: LevelNone,
		1: LevelBasic,
		2: LevelEnhanced,
		3: LevelInstitutional,
	} {
		level, err := ParseKYCLevel(raw)
		require.NoError(t, err)
		assert.Equal(t, want, level)
	}

	_, err := ParseKYCLevel(4)
	assert.Error(t, err)
}

func TestKYCLevelOrdering(t *testing.T) {
	assert.True(t, LevelNone < LevelBasic)
	assert.True(t, LevelBasic < LevelEnhanced)
	assert.True(t, LevelEnhanced < LevelInstitutional)
}
