package rng

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"
)

// Health tracks whether the entropy source currently looks usable.
type Health struct {
	mu            sync.RWMutex
	ok            bool
	lastErr       string
	lastCheckedAt time.Time
	lastSample32  uint32
	repeatCount32 int
}

func NewHealth() *Health { return &Health{ok: false} }

func (h *Health) Set(ok bool, errMsg string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.ok = ok
	h.lastErr = errMsg
	h.lastCheckedAt = time.Now()
}

func (h *Health) Snapshot() (ok bool, errMsg string, t time.Time) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.ok, h.lastErr, h.lastCheckedAt
}

// CheckSource performs a lightweight sanity check on an entropy source.
// It cannot prove randomness, but detects disconnection, stuck output and
// other common failures.
func CheckSource(r io.Reader, h *Health) error {
	const sampleBytes = 256
	buf := make([]byte, sampleBytes)

	if _, err := io.ReadFull(r, buf); err != nil {
		return fmt.Errorf("entropy read failed: %w", err)
	}

	allSame := true
	for i := 1; i < len(buf); i++ {
		if buf[i] != buf[0] {
			allSame = false
			break
		}
	}
	if allSame {
		return errors.New("entropy source appears stuck (all sampled bytes identical)")
	}

	var prev uint32
	repeats, words := 0, 0
	for i := 0; i+4 <= len(buf); i += 4 {
		w := binary.BigEndian.Uint32(buf[i : i+4])
		if words > 0 && w == prev {
			repeats++
		}
		prev = w
		words++
	}
	if words > 1 && repeats > (words-1)*3/4 {
		return errors.New("entropy source appears stuck (32-bit words repeating excessively)")
	}
	if h != nil {
		h.mu.Lock()
		h.lastSample32 = prev
		h.repeatCount32 = 0
		h.mu.Unlock()
	}

	distinct := make(map[byte]struct{}, 256)
	for _, b := range buf {
		distinct[b] = struct{}{}
	}
	if len(distinct) < 8 {
		return fmt.Errorf("entropy sample has too few distinct byte values (%d); suspicious", len(distinct))
	}

	return nil
}

// observe records one periodic 32-bit sample.
func (h *Health) observe(w uint32) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if w == h.lastSample32 {
		h.repeatCount32++
	} else {
		h.repeatCount32 = 0
	}
	h.lastSample32 = w
	h.lastCheckedAt = time.Now()

	// 20 identical 32-bit values in a row is astronomically unlikely for a healthy source.
	if h.repeatCount32 >= 20 {
		h.ok = false
		h.lastErr = "entropy source appears stuck (repeating identical 32-bit outputs)"
		return
	}
	h.ok = true
	h.lastErr = ""
}

// PeriodicHealthCheck samples r every interval until ctx is done.
func PeriodicHealthCheck(ctx context.Context, r io.Reader, h *Health, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	var buf [4]byte
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		if _, err := io.ReadFull(r, buf[:]); err != nil {
			h.Set(false, "entropy read failed: "+err.Error())
			continue
		}
		h.observe(binary.BigEndian.Uint32(buf[:]))
	}
}
