package rng

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/tarm/serial"
)

// SerialConfig describes a hardware TRNG attached over USB serial.
type SerialConfig struct {
	Device      string
	Baud        int
	ReadTimeout time.Duration
}

// OpenSerial opens the serial TRNG and performs an initial health check.
func OpenSerial(cfg SerialConfig) (io.Reader, *Health, error) {
	if cfg.Device == "" {
		return nil, nil, errors.New("SERIAL_DEVICE_NAME is required")
	}
	if cfg.Baud <= 0 {
		return nil, nil, fmt.Errorf("invalid SERIAL_BAUD_RATE: %d", cfg.Baud)
	}
	if cfg.ReadTimeout < 0 {
		return nil, nil, fmt.Errorf("invalid SERIAL_READ_TIMEOUT: %s", cfg.ReadTimeout)
	}

	p, err := serial.OpenPort(&serial.Config{
		Name:        cfg.Device,
		Baud:        cfg.Baud,
		Size:        8,
		ReadTimeout: cfg.ReadTimeout,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", cfg.Device, err)
	}

	return checked(p)
}

// OpenCrypto returns the operating system CSPRNG as an entropy source.
func OpenCrypto() (io.Reader, *Health, error) {
	return checked(rand.Reader)
}

func checked(r io.Reader) (io.Reader, *Health, error) {
	h := NewHealth()
	if err := CheckSource(r, h); err != nil {
		h.Set(false, err.Error())
		return nil, h, err
	}
	h.Set(true, "")
	return r, h, nil
}
