package ornament

import "errors"

var (
	// ErrConfiguration covers bad assignments: accidental names, mark
	// counts, accidentals on fixed-interval kinds, unknown kind names.
	ErrConfiguration = errors.New("invalid ornament configuration")
	// ErrUnrealizable is returned when a base kind lacks a direction or size.
	ErrUnrealizable = errors.New("ornament cannot be realized")
	ErrUntimed      = errors.New("cannot steal time from an object with no duration")
	ErrTooShort     = errors.New("the note is not long enough to realize the ornament")
	ErrUnpitched    = errors.New("ornament requires a pitched note")
)
