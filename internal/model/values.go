package model

import (
	"errors"
	"fmt"
	"math"
)

// ErrNegativeValue is returned when a Price would be negative.
var ErrNegativeValue = errors.New("value must not be negative")

// Price is a non-negative amount stored with two decimals.
type Price struct {
	cents int64
}

// NewPrice rounds amount to two decimals.
func NewPrice(amount float64) (Price, error) {
	if amount < 0 || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return Price{}, fmt.Errorf("price %v: %w", amount, ErrNegativeValue)
	}
	return Price{cents: int64(math.Round(amount * 100))}, nil
}

// Amount returns the price as a float with two decimals.
func (p Price) Amount() float64 {
	return float64(p.cents) / 100
}

// Cents returns the price in hundredths.
func (p Price) Cents() int64 {
	return p.cents
}

// IsZero reports whether the price is 0.00.
func (p Price) IsZero() bool {
	return p.cents == 0
}

func (p Price) String() string {
	return fmt.Sprintf("%d.%02d", p.cents/100, p.cents%100)
}

// Time is a non-negative duration in whole seconds.
type Time struct {
	seconds int64
}

// NewTime rounds seconds to the nearest whole second. Negative and NaN
// inputs become zero.
func NewTime(seconds float64) Time {
	if seconds <= 0 || math.IsNaN(seconds) {
		return Time{}
	}
	if math.IsInf(seconds, 1) {
		return Time{seconds: math.MaxInt64}
	}
	return Time{seconds: int64(math.Round(seconds))}
}

// Seconds returns the total number of seconds.
func (t Time) Seconds() int64 {
	return t.seconds
}

// Add returns the sum of t and other.
func (t Time) Add(other Time) Time {
	return Time{seconds: t.seconds + other.seconds}
}

// String renders mm:ss, or hh:mm:ss from one hour up.
func (t Time) String() string {
	h := t.seconds / 3600
	m := (t.seconds % 3600) / 60
	s := t.seconds % 60
	if h > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}

// DownloadType classifies how a release can be obtained.
type DownloadType int

const (
	// DownloadUnavailable means the release cannot be downloaded.
	DownloadUnavailable DownloadType = iota

	// DownloadFree means the release can be downloaded at no cost.
	DownloadFree

	// DownloadNameYourPrice means the buyer chooses the amount, zero included.
	DownloadNameYourPrice

	// DownloadPaid means a minimum price applies.
	DownloadPaid
)

func (d DownloadType) String() string {
	switch d {
	case DownloadFree:
		return "free"
	case DownloadNameYourPrice:
		return "name your price"
	case DownloadPaid:
		return "paid"
	default:
		return "unavailable"
	}
}
