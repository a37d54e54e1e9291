package domain

import (
	"time"

	"github.com/google/uuid"
)

// RangeOp is a numeric comparison operator accepted in list filters
type RangeOp string

const (
	OpGTE RangeOp = "gte"
	OpGT  RangeOp = "gt"
	OpLTE RangeOp = "lte"
	OpLT  RangeOp = "lt"
)

// NumericFilter compares one filterable field against a value
type NumericFilter struct {
	Field string
	Op    RangeOp
	Value float64
}

// SortField is one entry of the caller's sort list
type SortField struct {
	Field string
	Desc  bool
}

// ListQuery is the planned, already validated view over the bid collection.
// Scope fields are filled from the caller identity, never from raw input.
type ListQuery struct {
	RequesterID *uuid.UUID // requester scope: only own bids
	Categories  []string   // vendor scope: bids visible through the category set
	Category    string     // explicit exact-match filter
	Status      string
	Search      string // case-insensitive substring on requestDetails
	MinStart    *time.Time
	MaxStart    *time.Time
	Filters     []NumericFilter
	Sort        []SortField
	Page        int
	Limit       int
}

func (q ListQuery) Offset() int {
	return (q.Page - 1) * q.Limit
}
