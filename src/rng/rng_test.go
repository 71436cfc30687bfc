package rng_test

import (
	"encoding/binary"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lost-woods/kingdom/src/errs"
	"github.com/lost-woods/kingdom/src/rng"
)

// uint32CounterReader emits an infinite stream of big-endian uint32 values: 0,1,2,3,...
type uint32CounterReader struct {
	next uint32
	buf  [4]byte
	off  int
}

func (r *uint32CounterReader) Read(p []byte) (int, error) {
	n := 0
	for n < len(p) {
		if r.off == 0 {
			binary.BigEndian.PutUint32(r.buf[:], r.next)
			r.next++
		}
		copied := copy(p[n:], r.buf[r.off:])
		n += copied
		r.off = (r.off + copied) % 4
	}
	return n, nil
}

type scriptedReader struct {
	chunks [][]byte
	i      int
	off    int
}

func (r *scriptedReader) Read(p []byte) (int, error) {
	n := 0
	for n < len(p) && r.i < len(r.chunks) {
		c := r.chunks[r.i]
		if r.off >= len(c) {
			r.i++
			r.off = 0
			continue
		}
		copied := copy(p[n:], c[r.off:])
		n += copied
		r.off += copied
	}
	if n == 0 {
		return 0, io.EOF
	}
	return n, nil
}

func TestUniformInt32_PerfectUniformWhenRangeDivides2Pow32(t *testing.T) {
	// Range size 256 divides 2^32, so no rejection is needed and distribution is perfect over 65536 draws.
	r := &uint32CounterReader{next: 0}
	counts := make([]int, 256)

	for i := 0; i < 65536; i++ {
		v, err := rng.UniformInt32(r, nil, 0, 255)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		counts[int(v)]++
	}

	for i := 0; i < 256; i++ {
		if counts[i] != 256 {
			t.Fatalf("value %d count=%d want=256", i, counts[i])
		}
	}
}

func TestUniformInt32_RetriesOnRejectedValues(t *testing.T) {
	// For range size 10: limit = 4294967290, so 0xFFFFFFFA..0xFFFFFFFF are rejected.
	rejected := []byte{0xFF, 0xFF, 0xFF, 0xFA}
	accepted := []byte{0x00, 0x00, 0x00, 0x00}
	r := &scriptedReader{chunks: [][]byte{rejected, accepted}}

	v, err := rng.UniformInt32(r, nil, 0, 9)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != 0 {
		t.Fatalf("got %d want 0", v)
	}
}

func TestUniformInt32_ExhaustedStreamMarksUnhealthy(t *testing.T) {
	h := rng.NewHealth()
	h.Set(true, "")

	_, err := rng.UniformInt32(&scriptedReader{}, h, 0, 9)
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrEntropy)

	ok, msg, _ := h.Snapshot()
	assert.False(t, ok)
	assert.Contains(t, msg, "error fetching random bytes")
}

func TestUniformInt32_Invariants(t *testing.T) {
	r := &uint32CounterReader{next: 0}
	cases := []struct {
		min int
		max int
	}{
		{0, 0},
		{-5, -5},
		{-10, 10},
		{1, 2},
		{100, 1000},
	}

	for _, tc := range cases {
		for i := 0; i < 1000; i++ {
			v, err := rng.UniformInt32(r, nil, tc.min, tc.max)
			if err != nil {
				t.Fatalf("min=%d max=%d unexpected error: %v", tc.min, tc.max, err)
			}
			if v < int32(tc.min) || v > int32(tc.max) {
				t.Fatalf("min=%d max=%d got out-of-range %d", tc.min, tc.max, v)
			}
		}
	}
}

func TestUniformInt32_RejectsInvertedBounds(t *testing.T) {
	_, err := rng.UniformInt32(&uint32CounterReader{}, nil, 5, 1)
	require.Error(t, err)
}

func TestSample_DistinctAndInDrawOrder(t *testing.T) {
	s := rng.NewSampler(&uint32CounterReader{next: 0}, nil)
	items := []string{"a", "b", "c", "d", "e"}

	// Counter stream 0,1,2: swap i with i+(x mod remaining).
	got, err := rng.Sample(s, items, 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "c", "e"}, got)
	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, items, "input must not be reordered")
}

func TestSample_TooLarge(t *testing.T) {
	s := rng.NewSampler(&uint32CounterReader{}, nil)

	_, err := rng.Sample(s, []int{1, 2}, 3)
	assert.ErrorIs(t, err, rng.ErrSampleTooLarge)

	_, err = rng.Pick(s, []int{})
	assert.ErrorIs(t, err, rng.ErrSampleTooLarge)
}

func TestSample_WholePopulationIsPermutation(t *testing.T) {
	s := rng.NewSampler(rng.NewSeededReader(7), nil)
	items := []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}

	got, err := rng.Sample(s, items, len(items))
	require.NoError(t, err)
	assert.ElementsMatch(t, items, got)
}

func TestSeededReader_Deterministic(t *testing.T) {
	draw := func(seed uint64) []int {
		s := rng.NewSampler(rng.NewSeededReader(seed), nil)
		out, err := rng.Sample(s, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11}, 6)
		require.NoError(t, err)
		return out
	}

	assert.Equal(t, draw(42), draw(42))
	assert.NotEqual(t, draw(42), draw(43))
}

// Chi-square smoke test (seeded pseudo RNG) to catch gross skews.
type xorshift32 struct {
	x uint32
}

func (r *xorshift32) Read(p []byte) (int, error) {
	for i := 0; i < len(p); i++ {
		r.x ^= r.x << 13
		r.x ^= r.x >> 17
		r.x ^= r.x << 5
		p[i] = byte(r.x >> 24)
	}
	return len(p), nil
}

func TestSampler_IntnChiSquareSmoke(t *testing.T) {
	const k, draws = 10, 500000
	s := rng.NewSampler(&xorshift32{x: 0x12345678}, nil)
	counts := make([]int, k)
	for i := 0; i < draws; i++ {
		v, err := s.Intn(k)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		counts[v]++
	}

	exp := float64(draws) / k
	var chi float64
	for _, c := range counts {
		diff := float64(c) - exp
		chi += diff * diff / exp
	}
	if chi > 60 {
		t.Fatalf("chi-square too large: %.2f", chi)
	}
}
