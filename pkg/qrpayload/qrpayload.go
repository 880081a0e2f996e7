// Package qrpayload encodes and decodes the text embedded in
// reservation QR codes. The wire format is fixed for compatibility
// with deployed scanners:
//
//	UCB|RESERVATION|<reservationID>|<studentID>|<tripID>|<ticketCode>
//
// Internal code works with the typed Payload and never manipulates
// the raw delimited string directly.
package qrpayload

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const (
	tag       = "UCB"
	kind      = "RESERVATION"
	separator = "|"
	numFields = 6
)

// ErrMalformedPayload means the scanned text is not a reservation
// payload this system produced
var ErrMalformedPayload = errors.New("malformed QR payload")

// Payload is the decoded content of a reservation QR code
type Payload struct {
	ReservationID int64
	StudentID     int64
	TripID        int64
	TicketCode    string
}

// Encode renders the payload in the wire format
func (p Payload) Encode() string {
	return strings.Join([]string{
		tag,
		kind,
		strconv.FormatInt(p.ReservationID, 10),
		strconv.FormatInt(p.StudentID, 10),
		strconv.FormatInt(p.TripID, 10),
		p.TicketCode,
	}, separator)
}

// Decode parses scanned text back into a Payload
func Decode(s string) (Payload, error) {
	parts := strings.Split(s, separator)
	if len(parts) != numFields || parts[0] != tag || parts[1] != kind {
		return Payload{}, ErrMalformedPayload
	}

	resID, err := strconv.ParseInt(parts[2], 10, 64)
	if err != nil {
		return Payload{}, fmt.Errorf("%w: bad reservation id", ErrMalformedPayload)
	}
	studentID, err := strconv.ParseInt(parts[3], 10, 64)
	if err != nil {
		return Payload{}, fmt.Errorf("%w: bad student id", ErrMalformedPayload)
	}
	tripID, err := strconv.ParseInt(parts[4], 10, 64)
	if err != nil {
		return Payload{}, fmt.Errorf("%w: bad trip id", ErrMalformedPayload)
	}
	if parts[5] == "" {
		return Payload{}, fmt.Errorf("%w: empty ticket code", ErrMalformedPayload)
	}

	return Payload{
		ReservationID: resID,
		StudentID:     studentID,
		TripID:        tripID,
		TicketCode:    parts[5],
	}, nil
}
