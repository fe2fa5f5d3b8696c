// Package stream lays notes end to end inside a measure and runs the
// measure-wide passes: ornament realization and accidental placement.
package stream

import (
	"math/big"

	"github.com/jsphweid/ornamentum/duration"
	"github.com/jsphweid/ornamentum/key"
	"github.com/jsphweid/ornamentum/note"
	"github.com/jsphweid/ornamentum/ornament"
	"github.com/jsphweid/ornamentum/pitch"
)

type Measure struct {
	Number int
	Key    *key.Signature
	Notes  []*note.Note
}

func NewMeasure(number int, ks *key.Signature) *Measure {
	return &Measure{Number: number, Key: ks}
}

// KeySignature makes a Measure the context its notes search.
func (m *Measure) KeySignature() *key.Signature {
	return m.Key
}

// Append places n right after the current last note and makes m its context.
func (m *Measure) Append(n *note.Note) {
	n.Offset = m.Duration()
	n.Context = m
	m.Notes = append(m.Notes, n)
}

// Duration is the end of the latest note.
func (m *Measure) Duration() *big.Rat {
	end := duration.Zero()
	for _, n := range m.Notes {
		if e := duration.Add(duration.Copy(n.Offset), n.Duration); end.Cmp(e) < 0 {
			end = e
		}
	}
	return end
}

func (m *Measure) Pitches() []*pitch.Pitch {
	var res []*pitch.Pitch
	for _, n := range m.Notes {
		if n.IsPitched() {
			res = append(res, n.Pitch)
		}
	}
	return res
}

// RealizeOrnaments returns a new measure with every ornamented note
// replaced by the notes it is played as. m is not modified.
func (m *Measure) RealizeOrnaments() (*Measure, error) {
	out := NewMeasure(m.Number, m.Key)
	for _, n := range m.Notes {
		played, err := ornament.RealizeOrnaments(n, nil)
		if err != nil {
			return nil, err
		}
		for _, p := range played {
			if p == n {
				p = n.Clone()
			}
			out.Append(p)
		}
	}
	return out, nil
}

type ornamented interface {
	ResolveOrnamentalPitches(n *note.Note, ks *key.Signature) error
	UpdateAccidentalDisplay(opts pitch.DisplayOptions)
	OrnamentalPitches() []*pitch.Pitch
}

// MakeAccidentals decides which accidentals are printed, for the notes and
// for the pitches their ornaments introduce. prev, when given, is the
// measure before, whose alterations earn courtesy naturals. Pitches are
// updated in place.
func (m *Measure) MakeAccidentals(prev *Measure) error {
	opts := pitch.DefaultDisplayOptions()
	if prev != nil {
		opts.PitchPastMeasure = prev.Pitches()
	}
	if m.Key != nil {
		opts.AlteredPitches = m.Key.AlteredPitches()
	}

	var past []*pitch.Pitch
	for _, n := range m.Notes {
		if !n.IsPitched() {
			continue
		}
		opts.PitchPast = past
		n.Pitch.UpdateAccidentalDisplay(opts)
		past = append(past, n.Pitch)

		for _, e := range n.Expressions {
			o, ok := e.(ornamented)
			if !ok {
				continue
			}
			if err := o.ResolveOrnamentalPitches(n, m.Key); err != nil {
				return err
			}
			opts.PitchPast = past
			o.UpdateAccidentalDisplay(opts)
			past = append(past, o.OrnamentalPitches()...)
		}
	}
	return nil
}
