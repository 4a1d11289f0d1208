package model

import "time"

// PivotType marks a pivot as a swing high or a swing low.
type PivotType string

const (
	PivotHigh PivotType = "H"
	PivotLow  PivotType = "L"
)

// Pivot is a confirmed (or, for the last element, provisional) price extremum.
type Pivot struct {
	Index int
	Time  time.Time
	Price float64
	Type  PivotType
}
