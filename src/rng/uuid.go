package rng

import (
	"io"

	"github.com/google/uuid"
)

// NewRequestID generates a UUID v4 from the same entropy stream that produced
// the outcome. Call it only after the outcome is computed so ids never shift
// a draw.
func NewRequestID(r io.Reader) (string, error) {
	id, err := uuid.NewRandomFromReader(r)
	if err != nil {
		return "", err
	}
	return id.String(), nil
}
