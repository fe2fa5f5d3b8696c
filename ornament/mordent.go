package ornament

import (
	"fmt"

	"github.com/jsphweid/ornamentum/duration"
	"github.com/jsphweid/ornamentum/interval"
	"github.com/jsphweid/ornamentum/key"
	"github.com/jsphweid/ornamentum/note"
)

func mordentSize(o *Ornament, n *note.Note, ks *key.Signature, _ Which) (interval.Interval, error) {
	info := o.info()
	if info.direction == "" {
		return interval.Interval{}, fmt.Errorf("%w: cannot compute mordent size if I do not know its direction", ErrUnrealizable)
	}
	if info.size != nil {
		return *info.size, nil
	}
	if !n.IsPitched() {
		return interval.Interval{}, fmt.Errorf("%w: cannot compute mordent size", ErrUnpitched)
	}
	return secondFromKey(n, resolveKeySignature(n, ks), info.direction == Up, o.accidentalName), nil
}

// realizeMordent plays the written note, its neighbour, then the rest of
// the written note.
func realizeMordent(o *Ornament, n *note.Note, ks *key.Signature, inPlace bool) (Realization, error) {
	if o.info().direction == "" {
		return Realization{}, fmt.Errorf("%w: cannot realize a mordent if I do not know its direction", ErrUnrealizable)
	}
	if err := checkTimed(n); err != nil {
		return Realization{}, err
	}
	if !n.IsPitched() {
		return Realization{}, fmt.Errorf("%w: cannot realize a mordent", ErrUnpitched)
	}

	useQL := duration.Copy(o.quarterLength)
	if duration.LessEq(n.Duration, duration.Scale(o.quarterLength, 2)) {
		if !o.AutoScale {
			return Realization{}, fmt.Errorf("%w: mordent needs more than %s", ErrTooShort, duration.String(duration.Scale(o.quarterLength, 2)))
		}
		useQL = duration.Fraction(n.Duration, 4)
	}

	ks = resolveKeySignature(n, ks)
	size, err := o.GetSize(n, ks, "")
	if err != nil {
		return Realization{}, err
	}
	notes := fillListOfRealizedNotes(n, size, useQL)
	if second := notes[1]; second.Pitch.Accidental == nil {
		second.Pitch.Accidental = ks.AccidentalByStep(second.Pitch.Step)
	}

	rem := o.remainderOf(n, duration.Sub(n.Duration, duration.Scale(useQL, 2)), inPlace)
	return Realization{Pre: notes, Main: rem}, nil
}
