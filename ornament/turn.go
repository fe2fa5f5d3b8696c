package ornament

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/jsphweid/ornamentum/duration"
	"github.com/jsphweid/ornamentum/interval"
	"github.com/jsphweid/ornamentum/key"
	"github.com/jsphweid/ornamentum/note"
	"github.com/jsphweid/ornamentum/pitch"
)

type delayKind int

const (
	noDelay delayKind = iota
	defaultDelay
	explicitDelay
)

// Delay is how much of a turn's host note sounds before the turn starts.
// The zero value is NoDelay.
type Delay struct {
	kind delayKind
	ql   *big.Rat
}

var (
	NoDelay = Delay{}
	// DefaultDelay waits half the note.
	DefaultDelay = Delay{kind: defaultDelay}
)

// DelayOf waits ql quarter lengths; ql <= 0 means no delay.
func DelayOf(ql *big.Rat) Delay {
	if ql == nil || ql.Sign() <= 0 {
		return NoDelay
	}
	return Delay{kind: explicitDelay, ql: duration.Copy(ql)}
}

// ParseDelay accepts "", "none", "default" or a quarter length.
func ParseDelay(s string) (Delay, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none", "no":
		return NoDelay, nil
	case "default":
		return DefaultDelay, nil
	}
	ql, err := duration.Parse(s)
	if err != nil {
		return NoDelay, fmt.Errorf("%w: bad delay %q", ErrConfiguration, s)
	}
	return DelayOf(ql), nil
}

func (d Delay) IsDefault() bool  { return d.kind == defaultDelay }
func (d Delay) IsExplicit() bool { return d.kind == explicitDelay }

// QuarterLength is nil unless the delay is explicit.
func (d Delay) QuarterLength() *big.Rat {
	if d.kind != explicitDelay {
		return nil
	}
	return duration.Copy(d.ql)
}

func (d Delay) String() string {
	switch d.kind {
	case defaultDelay:
		return "default"
	case explicitDelay:
		return duration.String(d.ql)
	}
	return "none"
}

// remainder is how long the written note sounds before the turn.
func (d Delay) remainder(total *big.Rat) *big.Rat {
	switch d.kind {
	case defaultDelay:
		return duration.Fraction(total, 2)
	case explicitDelay:
		return duration.Copy(d.ql)
	}
	return duration.Zero()
}

func (o *Ornament) Delay() Delay {
	return o.delay
}

func (o *Ornament) SetDelay(d Delay) error {
	if o.info().family != turnFamily {
		return fmt.Errorf("%w: only turns can be delayed", ErrConfiguration)
	}
	if d.kind == explicitDelay {
		d = DelayOf(d.ql)
	}
	o.delay = d
	return nil
}

func (o *Ornament) IsDelayed() bool {
	return o.delay.kind != noDelay
}

func turnSize(o *Ornament, n *note.Note, ks *key.Signature, which Which) (interval.Interval, error) {
	if which != Upper && which != Lower {
		return interval.Interval{}, fmt.Errorf("%w: turn size needs which to be upper or lower", ErrConfiguration)
	}
	if !n.IsPitched() {
		return interval.Interval{}, fmt.Errorf("%w: cannot compute turn size", ErrUnpitched)
	}
	override := o.upperAccidentalName
	if which == Lower {
		override = o.lowerAccidentalName
	}
	return secondFromKey(n, resolveKeySignature(n, ks), which == Upper, override), nil
}

func resolveTurn(o *Ornament, n *note.Note, ks *key.Signature) error {
	if !n.IsPitched() {
		return fmt.Errorf("%w: cannot resolve turn's ornamental pitches", ErrUnpitched)
	}
	up, err := o.GetSize(n, ks, Upper)
	if err != nil {
		return err
	}
	down, err := o.GetSize(n, ks, Lower)
	if err != nil {
		return err
	}
	o.ornamentalPitches = []*pitch.Pitch{
		resolvePitch(n, up, o.upperAccidentalName != ""),
		resolvePitch(n, down, o.lowerAccidentalName != ""),
	}
	return nil
}

// realizeTurn returns the four turn notes as Post, after whatever part of
// the written note the delay keeps.
func realizeTurn(o *Ornament, n *note.Note, ks *key.Signature, inPlace bool) (Realization, error) {
	if !n.IsPitched() {
		return Realization{}, fmt.Errorf("%w: cannot realize turn", ErrUnpitched)
	}
	if err := checkTimed(n); err != nil {
		return Realization{}, err
	}

	remainder := o.delay.remainder(n.Duration)
	turnQL := duration.Sub(n.Duration, remainder)
	if turnQL.Sign() <= 0 {
		return Realization{}, fmt.Errorf("%w: delay %s leaves no room for a turn in %s", ErrTooShort, o.delay, duration.String(n.Duration))
	}

	useQL := duration.Copy(o.quarterLength)
	var fourthQL *big.Rat
	four := duration.Scale(o.quarterLength, 4)
	switch turnQL.Cmp(four) {
	case -1:
		if !o.AutoScale {
			return Realization{}, fmt.Errorf("%w: a turn needs at least %s", ErrTooShort, duration.String(four))
		}
		useQL = duration.Fraction(turnQL, 4)
	case 1:
		fourthQL = duration.Sub(turnQL, duration.Scale(useQL, 3))
	}
	if fourthQL == nil {
		fourthQL = useQL
	}

	// Correction below uses this same key, so an explicit ks corrects even
	// a note with no context. A natural override comes back from
	// transposition with no accidental and is corrected too.
	ks = resolveKeySignature(n, ks)
	first, second := Upper, Lower
	if o.info().inverted {
		first, second = Lower, Upper
	}
	firstSize, err := o.GetSize(n, ks, first)
	if err != nil {
		return Realization{}, err
	}
	secondSize, err := o.GetSize(n, ks, second)
	if err != nil {
		return Realization{}, err
	}

	notes := []*note.Note{subNote(n, useQL), subNote(n, useQL), subNote(n, useQL), subNote(n, fourthQL)}
	notes[0].Transpose(firstSize)
	notes[2].Transpose(secondSize)
	for _, i := range []int{0, 2} {
		if p := notes[i].Pitch; p.Accidental == nil {
			p.Accidental = ks.AccidentalByStep(p.Step)
		}
	}

	if remainder.Sign() == 0 {
		if inPlace {
			n.RemoveExpression(o)
		}
		return Realization{Post: notes}, nil
	}
	return Realization{Main: o.remainderOf(n, remainder, inPlace), Post: notes}, nil
}
