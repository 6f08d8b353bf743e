package model

import (
	"fmt"
	"math"
)

// Score is a finite float constrained to [0,1]. The zero value is a valid
// Score of 0.
type Score struct {
	value float32
}

// NewScore validates and constructs a Score. Construction fails on
// NaN/Inf or values outside [0,1].
func NewScore(value float32) (Score, error) {
	if math.IsNaN(float64(value)) || math.IsInf(float64(value), 0) {
		return Score{}, fmt.Errorf("score must be finite, got %v", value)
	}
	if value < 0 || value > 1 {
		return Score{}, fmt.Errorf("score must be between 0.0 and 1.0, got %v", value)
	}
	return Score{value: value}, nil
}

// ZeroScore is the additive identity / default Score.
func ZeroScore() Score { return Score{value: 0} }

// OneScore is the maximal Score.
func OneScore() Score { return Score{value: 1} }

// Value returns the underlying float32.
func (s Score) Value() float32 { return s.value }

// Percentage rounds the score to an integer 0-100 percentage.
func (s Score) Percentage() uint8 {
	return uint8(math.Round(float64(s.value) * 100))
}

// String renders the score to three decimal places.
func (s Score) String() string {
	return fmt.Sprintf("%.3f", s.value)
}
