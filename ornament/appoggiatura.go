package ornament

import (
	"fmt"

	"github.com/jsphweid/ornamentum/duration"
	"github.com/jsphweid/ornamentum/interval"
	"github.com/jsphweid/ornamentum/key"
	"github.com/jsphweid/ornamentum/note"
)

// appoggiaturaInterval moves from the written note to the grace note. A
// "down" appoggiatura falls onto the note, so it starts above it.
func appoggiaturaInterval(o *Ornament) (interval.Interval, error) {
	info := o.info()
	if info.direction == "" {
		return interval.Interval{}, fmt.Errorf("%w: cannot realize an appoggiatura if I do not know its direction", ErrUnrealizable)
	}
	if info.size == nil {
		return interval.Interval{}, fmt.Errorf("%w: cannot realize an appoggiatura if there is no size given", ErrUnrealizable)
	}
	if info.direction == Down {
		return *info.size, nil
	}
	return info.size.Reverse(), nil
}

func appoggiaturaSize(o *Ornament, _ *note.Note, _ *key.Signature, _ Which) (interval.Interval, error) {
	return appoggiaturaInterval(o)
}

func realizeAppoggiatura(o *Ornament, n *note.Note, _ *key.Signature, inPlace bool) (Realization, error) {
	size, err := appoggiaturaInterval(o)
	if err != nil {
		return Realization{}, err
	}
	if err := checkTimed(n); err != nil {
		return Realization{}, err
	}
	if !n.IsPitched() {
		return Realization{}, fmt.Errorf("%w: cannot realize an appoggiatura", ErrUnpitched)
	}

	half := duration.Fraction(n.Duration, 2)
	grace := subNote(n, half)
	grace.Transpose(size)
	return Realization{Pre: []*note.Note{grace}, Main: o.remainderOf(n, half, inPlace)}, nil
}
