package ornament

import (
	"fmt"

	"github.com/jsphweid/ornamentum/duration"
	"github.com/jsphweid/ornamentum/interval"
	"github.com/jsphweid/ornamentum/key"
	"github.com/jsphweid/ornamentum/note"
)

func trillSize(o *Ornament, n *note.Note, ks *key.Signature, _ Which) (interval.Interval, error) {
	if size := o.info().size; size != nil {
		return *size, nil
	}
	if !n.IsPitched() {
		return interval.Interval{}, fmt.Errorf("%w: cannot compute trill's size", ErrUnpitched)
	}
	return secondFromKey(n, resolveKeySignature(n, ks), true, o.accidentalName), nil
}

// realizeTrill consumes the whole note. With a nachschlag the last two
// slots become the written note and its lower neighbour, returned as Post.
func realizeTrill(o *Ornament, n *note.Note, ks *key.Signature, inPlace bool) (Realization, error) {
	if !n.IsPitched() {
		return Realization{}, fmt.Errorf("%w: cannot realize trill", ErrUnpitched)
	}
	if err := checkTimed(n); err != nil {
		return Realization{}, err
	}

	useQL := duration.Copy(o.quarterLength)
	if duration.Less(n.Duration, duration.Scale(o.quarterLength, 2)) {
		if !o.AutoScale {
			return Realization{}, fmt.Errorf("%w: a trill needs at least %s", ErrTooShort, duration.String(duration.Scale(o.quarterLength, 2)))
		}
		useQL = duration.Fraction(n.Duration, 2)
	}
	if o.Nachschlag && duration.Less(n.Duration, duration.Scale(o.quarterLength, 4)) {
		if !o.AutoScale {
			return Realization{}, fmt.Errorf("%w: a nachschlag needs at least %s", ErrTooShort, duration.String(duration.Scale(o.quarterLength, 4)))
		}
		useQL = duration.Fraction(n.Duration, 4)
	}

	ks = resolveKeySignature(n, ks)
	size, err := o.GetSize(n, ks, "")
	if err != nil {
		return Realization{}, err
	}

	count := duration.Floor(n.Duration, useQL)
	if o.Nachschlag {
		count -= 2
	}
	var notes []*note.Note
	for i := int64(0); i < count/2; i++ {
		notes = append(notes, fillListOfRealizedNotes(n, size, useQL)...)
	}

	// Notes already carrying an accidental, and the written pitch itself,
	// are left alone. This can yield augmented seconds against the key.
	correct := o.info().keySigCorrection
	if correct {
		written := n.Pitch.NameWithOctave()
		for _, x := range notes {
			if x.Pitch.NameWithOctave() != written && x.Pitch.Accidental == nil {
				x.Pitch.Accidental = ks.AccidentalByStep(x.Pitch.Step)
			}
		}
	}

	if inPlace {
		n.RemoveExpression(o)
	}

	if !o.Nachschlag {
		return Realization{Pre: notes}, nil
	}
	first := subNote(n, useQL)
	second := subNote(n, useQL)
	second.Transpose(size.Reverse())
	if correct {
		first.Pitch.Accidental = ks.AccidentalByStep(first.Pitch.Step)
		second.Pitch.Accidental = ks.AccidentalByStep(second.Pitch.Step)
	}
	return Realization{Pre: notes, Post: []*note.Note{first, second}}, nil
}
