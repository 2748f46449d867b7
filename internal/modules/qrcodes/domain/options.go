package domain

import (
	"errors"
	"fmt"
	"strings"
)

const (
	MinSize     = 200
	MaxSize     = 500
	DefaultSize = 256
)

var (
	ErrInvalidSize  = fmt.Errorf("qr size must be between %d and %d pixels", MinSize, MaxSize)
	ErrInvalidLevel = errors.New("qr error correction level must be one of L, M, Q, H")
	ErrEmptyContent = errors.New("qr content is empty")
)

// Level is the error correction level of a QR code.
type Level string

const (
	LevelLow      Level = "L"
	LevelMedium   Level = "M"
	LevelQuartile Level = "Q"
	LevelHigh     Level = "H"
)

// ParseLevel accepts any casing; an empty value selects M.
func ParseLevel(raw string) (Level, error) {
	switch level := Level(strings.ToUpper(strings.TrimSpace(raw))); level {
	case "":
		return LevelMedium, nil
	case LevelLow, LevelMedium, LevelQuartile, LevelHigh:
		return level, nil
	default:
		return "", ErrInvalidLevel
	}
}

// Options controls a rendered PNG.
type Options struct {
	Size  int
	Level Level
}

func DefaultOptions() Options {
	return Options{Size: DefaultSize, Level: LevelMedium}
}

// Normalize fills zero values with defaults and validates the rest.
func (o Options) Normalize() (Options, error) {
	if o.Size == 0 {
		o.Size = DefaultSize
	}
	if o.Size < MinSize || o.Size > MaxSize {
		return Options{}, ErrInvalidSize
	}
	level, err := ParseLevel(string(o.Level))
	if err != nil {
		return Options{}, err
	}
	o.Level = level
	return o, nil
}
