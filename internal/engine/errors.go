package engine

import "errors"

// Configuration errors indicate caller misuse and are the only error
// class surfaced from the evaluator; they are rejected before any data
// fetch is attempted. Data absence, insufficient history and
// no-signal outcomes all degrade to empty results instead.
var (
	ErrUnknownInstrument = errors.New("unknown instrument")
	ErrInvalidStrikeStep = errors.New("invalid strike step")
	ErrInvalidExpiry     = errors.New("invalid expiry date")
	ErrInvalidStrikeType = errors.New("invalid strike type")
	ErrUnknownStrategy   = errors.New("unknown strategy")
)
