package qrpayload

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncode(t *testing.T) {
	p := Payload{
		ReservationID: 17,
		StudentID:     204,
		TripID:        9,
		TicketCode:    "UCB-T9-HK3PQX7WM",
	}

	assert.Equal(t, "UCB|RESERVATION|17|204|9|UCB-T9-HK3PQX7WM", p.Encode())
}

func TestDecode(t *testing.T) {
	t.Run("Round Trip", func(t *testing.T) {
		original := Payload{
			ReservationID: 17,
			StudentID:     204,
			TripID:        9,
			TicketCode:    "UCB-T9-HK3PQX7WM",
		}

		decoded, err := Decode(original.Encode())
		require.NoError(t, err)
		assert.Equal(t, original, decoded)
	})

	t.Run("Malformed Payloads", func(t *testing.T) {
		cases := map[string]string{
			"empty":            "",
			"wrong tag":        "XYZ|RESERVATION|17|204|9|UCB-T9-HK3PQX7WM",
			"wrong kind":       "UCB|TICKET|17|204|9|UCB-T9-HK3PQX7WM",
			"too few fields":   "UCB|RESERVATION|17|204|9",
			"too many fields":  "UCB|RESERVATION|17|204|9|CODE|extra",
			"bad reservation":  "UCB|RESERVATION|abc|204|9|UCB-T9-HK3PQX7WM",
			"bad student":      "UCB|RESERVATION|17|abc|9|UCB-T9-HK3PQX7WM",
			"bad trip":         "UCB|RESERVATION|17|204|abc|UCB-T9-HK3PQX7WM",
			"empty ticket":     "UCB|RESERVATION|17|204|9|",
			"arbitrary string": "hello world",
		}

		for name, raw := range cases {
			t.Run(name, func(t *testing.T) {
				_, err := Decode(raw)
				assert.ErrorIs(t, err, ErrMalformedPayload)
			})
		}
	})
}
