package rng

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/lost-woods/kingdom/src/errs"
)

var ErrSampleTooLarge = errors.New("sample larger than population")

// UniformInt32 returns a uniform integer in [min, max] inclusive.
// Integer-only rejection sampling (no floats). This is unbiased assuming the uint32 stream is uniform.
func UniformInt32(r io.Reader, h *Health, min int, max int) (int32, error) {
	if min < -1000000000 || max > 1000000000 {
		return 0, errors.New("bounds must stay within ±1,000,000,000")
	}
	if min > max {
		return 0, errors.New("the minimum value should be smaller than or equal to the maximum value")
	}

	rangeSize := uint32(max - min + 1)

	// limit = floor(2^32 / rangeSize) * rangeSize
	limit := (uint64(1)<<32)/uint64(rangeSize) * uint64(rangeSize)

	var buf [4]byte
	for {
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			if h != nil {
				h.Set(false, "error fetching random bytes: "+err.Error())
			}
			return 0, errs.Wrap(errs.CodeEntropy, "error fetching random bytes", err)
		}

		x := binary.BigEndian.Uint32(buf[:])
		if uint64(x) < limit {
			return int32(x%rangeSize) + int32(min), nil
		}
	}
}

// Sampler draws uniform indexes and subsets from an entropy stream.
// A Sampler is as safe for concurrent use as its reader.
type Sampler struct {
	r      io.Reader
	health *Health
}

func NewSampler(r io.Reader, h *Health) *Sampler {
	return &Sampler{r: r, health: h}
}

// Reader exposes the underlying stream, e.g. for request ids.
func (s *Sampler) Reader() io.Reader { return s.r }

// Intn returns a uniform integer in [0, n).
func (s *Sampler) Intn(n int) (int, error) {
	if n <= 0 {
		return 0, fmt.Errorf("intn: n must be positive, got %d", n)
	}
	if n == 1 {
		return 0, nil
	}
	v, err := UniformInt32(s.r, s.health, 0, n-1)
	if err != nil {
		return 0, err
	}
	return int(v), nil
}

// Sample returns k distinct elements of items in draw order, using a partial
// Fisher-Yates shuffle over a copy. items is never modified.
func Sample[T any](s *Sampler, items []T, k int) ([]T, error) {
	if k < 0 || k > len(items) {
		return nil, fmt.Errorf("%w: want %d of %d", ErrSampleTooLarge, k, len(items))
	}
	pool := make([]T, len(items))
	copy(pool, items)

	for i := 0; i < k; i++ {
		j, err := s.Intn(len(pool) - i)
		if err != nil {
			return nil, err
		}
		pool[i], pool[i+j] = pool[i+j], pool[i]
	}
	return pool[:k], nil
}

// Pick returns one element of items chosen uniformly.
func Pick[T any](s *Sampler, items []T) (T, error) {
	var zero T
	picked, err := Sample(s, items, 1)
	if err != nil {
		return zero, err
	}
	return picked[0], nil
}
