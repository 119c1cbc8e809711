package tradevolume

import (
	"errors"
	"fmt"
)

// ErrUnknownWorld is returned when the home world is not a member of the data center.
var ErrUnknownWorld = errors.New("unknown world")

// LookupInvariantError means an entry that reduction guarantees was absent.
// It points at a bug in the engine rather than bad input.
type LookupInvariantError struct {
	Stage  string
	ItemID int64
	Detail string
}

func (e *LookupInvariantError) Error() string {
	return fmt.Sprintf("%s: lookup invariant violated for item %d: %s", e.Stage, e.ItemID, e.Detail)
}

// ArithmeticError is returned when a score would divide by zero.
type ArithmeticError struct {
	ItemID          int64
	HomeWorld       string
	CheapestWorldID int64
	Detail          string
}

func (e *ArithmeticError) Error() string {
	return fmt.Sprintf("score item %d on %s (cheapest world %d): %s",
		e.ItemID, e.HomeWorld, e.CheapestWorldID, e.Detail)
}
