package ticket

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	gen := NewGenerator("UCB")

	t.Run("Format", func(t *testing.T) {
		code, err := gen.New(42)
		require.NoError(t, err)

		assert.True(t, strings.HasPrefix(code, "UCB-T42-"))
		// prefix + "-T42-" + 8 random + 1 check
		assert.Len(t, code, len("UCB-T42-")+randomLen+1)

		body := code[len("UCB-T42-") : len(code)-1]
		for _, ch := range body {
			assert.Contains(t, alphabet, string(ch))
		}
	})

	t.Run("No Ambiguous Characters", func(t *testing.T) {
		for i := 0; i < 50; i++ {
			code, err := gen.New(7)
			require.NoError(t, err)

			body := code[len("UCB-T7-"):]
			assert.NotContainsf(t, body, "0", "code %s", code)
			assert.NotContainsf(t, body, "O", "code %s", code)
			assert.NotContainsf(t, body, "1", "code %s", code)
			assert.NotContainsf(t, body, "I", "code %s", code)
		}
	})

	t.Run("Uniqueness", func(t *testing.T) {
		seen := make(map[string]bool)
		for i := 0; i < 1000; i++ {
			code, err := gen.New(1)
			require.NoError(t, err)
			assert.Falsef(t, seen[code], "duplicate code %s after %d draws", code, i)
			seen[code] = true
		}
	})

	t.Run("Trip ID Embedded", func(t *testing.T) {
		code, err := gen.New(123456)
		require.NoError(t, err)
		assert.Contains(t, code, "-T123456-")
	})
}

func TestVerify(t *testing.T) {
	gen := NewGenerator("UCB")

	t.Run("Generated Codes Verify", func(t *testing.T) {
		for _, tripID := range []int64{1, 42, 999} {
			code, err := gen.New(tripID)
			require.NoError(t, err)
			assert.Truef(t, Verify(code), "code %s", code)
		}
	})

	t.Run("Corrupted Check Character", func(t *testing.T) {
		code, err := gen.New(42)
		require.NoError(t, err)

		// every other alphabet character in the check position must fail
		for i := 0; i < len(alphabet); i++ {
			if alphabet[i] == code[len(code)-1] {
				continue
			}
			corrupted := code[:len(code)-1] + string(alphabet[i])
			assert.Falsef(t, Verify(corrupted), "corrupted %s passed", corrupted)
		}
	})

	t.Run("Too Short", func(t *testing.T) {
		assert.False(t, Verify(""))
		assert.False(t, Verify("A"))
	})
}

func TestCheckCharDeterministic(t *testing.T) {
	code := fmt.Sprintf("UCB-T9-%s", "ABCDEFGH")
	assert.Equal(t, checkChar(code), checkChar(code))
}
