// Package ornament realizes mordents, trills, turns, appoggiaturas and
// tremolos into the notes a performer actually plays.
//
// Every kind is the same Ornament value tagged with a Kind. Behaviour that
// differs between kinds lives in a per-family table of functions, and the
// few per-kind facts (direction, fixed interval, sub-note length, inversion)
// live in the kinds table below.
package ornament

import (
	"fmt"
	"math/big"
	"sort"
	"strings"

	"github.com/jsphweid/ornamentum/duration"
	"github.com/jsphweid/ornamentum/interval"
	"github.com/jsphweid/ornamentum/key"
	"github.com/jsphweid/ornamentum/note"
	"github.com/jsphweid/ornamentum/pitch"
	"github.com/jsphweid/ornamentum/util"
)

type Kind int

const (
	GeneralMordent Kind = iota + 1
	Mordent
	HalfStepMordent
	WholeStepMordent
	InvertedMordent
	HalfStepInvertedMordent
	WholeStepInvertedMordent
	Trill
	HalfStepTrill
	WholeStepTrill
	Shake
	Turn
	InvertedTurn
	GeneralAppoggiatura
	Appoggiatura
	HalfStepAppoggiatura
	WholeStepAppoggiatura
	InvertedAppoggiatura
	HalfStepInvertedAppoggiatura
	WholeStepInvertedAppoggiatura
	Tremolo
	Schleifer
)

type family int

const (
	mordentFamily family = iota
	trillFamily
	turnFamily
	appoggiaturaFamily
	tremoloFamily
	schleiferFamily
)

type Direction string

const (
	Up   Direction = "up"
	Down Direction = "down"
)

// Which picks the upper or lower neighbour of a turn.
type Which string

const (
	Upper Which = "upper"
	Lower Which = "lower"
)

var (
	minorSecondUp   = interval.MustParse("m2")
	majorSecondUp   = interval.MustParse("M2")
	minorSecondDown = interval.MustParse("m-2")
	majorSecondDown = interval.MustParse("M-2")
)

type kindInfo struct {
	name      string
	family    family
	direction Direction
	// fixed distance for HalfStep/WholeStep kinds and appoggiaturas
	size *interval.Interval
	// default sub-note length
	ql       func() *big.Rat
	inverted bool
	// trills only: correct alternation notes from the key signature
	keySigCorrection bool
}

func ptr(i interval.Interval) *interval.Interval { return &i }

var kinds = map[Kind]kindInfo{
	GeneralMordent:           {name: "general mordent", family: mordentFamily, ql: duration.ThirtySecond},
	Mordent:                  {name: "mordent", family: mordentFamily, direction: Down, ql: duration.ThirtySecond},
	HalfStepMordent:          {name: "half step mordent", family: mordentFamily, direction: Down, size: ptr(minorSecondDown), ql: duration.ThirtySecond},
	WholeStepMordent:         {name: "whole step mordent", family: mordentFamily, direction: Down, size: ptr(majorSecondDown), ql: duration.ThirtySecond},
	InvertedMordent:          {name: "inverted mordent", family: mordentFamily, direction: Up, ql: duration.ThirtySecond},
	HalfStepInvertedMordent:  {name: "half step inverted mordent", family: mordentFamily, direction: Up, size: ptr(minorSecondUp), ql: duration.ThirtySecond},
	WholeStepInvertedMordent: {name: "whole step inverted mordent", family: mordentFamily, direction: Up, size: ptr(majorSecondUp), ql: duration.ThirtySecond},

	Trill:          {name: "trill", family: trillFamily, direction: Up, ql: duration.ThirtySecond, keySigCorrection: true},
	HalfStepTrill:  {name: "half step trill", family: trillFamily, direction: Up, size: ptr(minorSecondUp), ql: duration.ThirtySecond},
	WholeStepTrill: {name: "whole step trill", family: trillFamily, direction: Up, size: ptr(majorSecondUp), ql: duration.ThirtySecond},
	Shake:          {name: "shake", family: trillFamily, direction: Up, ql: duration.Sixteenth, keySigCorrection: true},

	Turn:         {name: "turn", family: turnFamily, ql: duration.Sixteenth},
	InvertedTurn: {name: "inverted turn", family: turnFamily, ql: duration.Sixteenth, inverted: true},

	GeneralAppoggiatura:           {name: "general appoggiatura", family: appoggiaturaFamily, size: ptr(majorSecondUp)},
	Appoggiatura:                  {name: "appoggiatura", family: appoggiaturaFamily, direction: Down, size: ptr(majorSecondUp)},
	HalfStepAppoggiatura:          {name: "half step appoggiatura", family: appoggiaturaFamily, direction: Down, size: ptr(minorSecondUp)},
	WholeStepAppoggiatura:         {name: "whole step appoggiatura", family: appoggiaturaFamily, direction: Down, size: ptr(majorSecondUp)},
	InvertedAppoggiatura:          {name: "inverted appoggiatura", family: appoggiaturaFamily, direction: Up, size: ptr(majorSecondUp)},
	HalfStepInvertedAppoggiatura:  {name: "half step inverted appoggiatura", family: appoggiaturaFamily, direction: Up, size: ptr(minorSecondUp)},
	WholeStepInvertedAppoggiatura: {name: "whole step inverted appoggiatura", family: appoggiaturaFamily, direction: Up, size: ptr(majorSecondUp)},

	Tremolo:   {name: "tremolo", family: tremoloFamily},
	Schleifer: {name: "schleifer", family: schleiferFamily, ql: duration.Sixteenth},
}

func (k Kind) String() string {
	if info, ok := kinds[k]; ok {
		return info.name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

func normalizeKindName(s string) string {
	return strings.NewReplacer(" ", "", "-", "", "_", "").Replace(strings.ToLower(s))
}

// ParseKind accepts "half step trill", "half-step-trill" or "HalfStepTrill".
func ParseKind(s string) (Kind, error) {
	want := normalizeKindName(s)
	for k, info := range kinds {
		if normalizeKindName(info.name) == want {
			return k, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown ornament %q", ErrConfiguration, s)
}

// Kinds lists every kind in declaration order.
func Kinds() []Kind {
	res := util.GetKeys(kinds)
	sort.Slice(res, func(i, j int) bool { return res[i] < res[j] })
	return res
}

type Realization struct {
	Pre  []*note.Note
	Main *note.Note
	Post []*note.Note
}

// Notes flattens the realization in playing order.
func (r Realization) Notes() []*note.Note {
	res := make([]*note.Note, 0, len(r.Pre)+len(r.Post)+1)
	res = append(res, r.Pre...)
	if r.Main != nil {
		res = append(res, r.Main)
	}
	return append(res, r.Post...)
}

type ops struct {
	getSize func(o *Ornament, n *note.Note, ks *key.Signature, which Which) (interval.Interval, error)
	// nil when the family has no ornamental pitches
	resolve func(o *Ornament, n *note.Note, ks *key.Signature) error
	// nil when the family cannot be realized
	realize func(o *Ornament, n *note.Note, ks *key.Signature, inPlace bool) (Realization, error)
}

var dispatch map[family]ops

func init() {
	dispatch = map[family]ops{
		mordentFamily:      {getSize: mordentSize, resolve: resolveSingle, realize: realizeMordent},
		trillFamily:        {getSize: trillSize, resolve: resolveSingle, realize: realizeTrill},
		turnFamily:         {getSize: turnSize, resolve: resolveTurn, realize: realizeTurn},
		appoggiaturaFamily: {getSize: appoggiaturaSize, realize: realizeAppoggiatura},
		tremoloFamily:      {getSize: tremoloSize, realize: realizeTremolo},
		schleiferFamily:    {getSize: schleiferSize},
	}
}

type Ornament struct {
	kind Kind

	// AutoScale shrinks sub-notes when the host note is too short instead
	// of failing with ErrTooShort.
	AutoScale           bool
	ConnectedToPrevious bool
	Placement           string
	TieAttach           string
	Nachschlag          bool
	Measured            bool

	// length of each sub-note; never nil for kinds that use it
	quarterLength *big.Rat

	accidentalName      string
	upperAccidentalName string
	lowerAccidentalName string
	delay               Delay
	numberOfMarks       int

	ornamentalPitches []*pitch.Pitch
}

type Option func(*Ornament) error

func New(kind Kind, opts ...Option) (*Ornament, error) {
	info, ok := kinds[kind]
	if !ok {
		return nil, fmt.Errorf("%w: unknown ornament kind %d", ErrConfiguration, int(kind))
	}
	o := &Ornament{
		kind:                kind,
		AutoScale:           true,
		ConnectedToPrevious: true,
		Measured:            true,
		numberOfMarks:       3,
	}
	if info.ql != nil {
		o.quarterLength = info.ql()
	}
	switch info.family {
	case mordentFamily:
		o.Placement = "above"
	case trillFamily, turnFamily:
		o.Placement = "above"
		o.TieAttach = "all"
	}
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	return o, nil
}

func MustNew(kind Kind, opts ...Option) *Ornament {
	o, err := New(kind, opts...)
	if err != nil {
		panic(err)
	}
	return o
}

func WithAccidental(name string) Option {
	return func(o *Ornament) error { return o.SetAccidentalName(name) }
}

func WithUpperAccidental(name string) Option {
	return func(o *Ornament) error { return o.SetUpperAccidentalName(name) }
}

func WithLowerAccidental(name string) Option {
	return func(o *Ornament) error { return o.SetLowerAccidentalName(name) }
}

func WithDelay(d Delay) Option {
	return func(o *Ornament) error { return o.SetDelay(d) }
}

func WithMarks(n int) Option {
	return func(o *Ornament) error { return o.SetNumberOfMarks(n) }
}

func WithNachschlag(on bool) Option {
	return func(o *Ornament) error {
		if o.info().family != trillFamily {
			return fmt.Errorf("%w: %s has no nachschlag", ErrConfiguration, o.kind)
		}
		o.Nachschlag = on
		return nil
	}
}

func WithAutoScale(on bool) Option {
	return func(o *Ornament) error {
		o.AutoScale = on
		return nil
	}
}

func WithQuarterLength(ql *big.Rat) Option {
	return func(o *Ornament) error { return o.SetQuarterLength(ql) }
}

// QuarterLength is the length of each sub-note, nil for kinds that split
// the note instead (appoggiaturas, tremolo).
func (o *Ornament) QuarterLength() *big.Rat {
	if o.quarterLength == nil {
		return nil
	}
	return duration.Copy(o.quarterLength)
}

func (o *Ornament) SetQuarterLength(ql *big.Rat) error {
	if o.info().ql == nil {
		return fmt.Errorf("%w: %s has no sub-note length", ErrConfiguration, o.kind)
	}
	if ql == nil || ql.Sign() <= 0 {
		return fmt.Errorf("%w: sub-note length must be positive", ErrConfiguration)
	}
	o.quarterLength = duration.Copy(ql)
	return nil
}

// HasDefaultQuarterLength reports whether the sub-note length is the kind's own.
func (o *Ornament) HasDefaultQuarterLength() bool {
	info := o.info()
	if info.ql == nil {
		return true
	}
	return duration.Equal(o.quarterLength, info.ql())
}

func (o *Ornament) info() kindInfo {
	return kinds[o.kind]
}

func (o *Ornament) Kind() Kind {
	return o.kind
}

func (o *Ornament) Direction() Direction {
	return o.info().direction
}

// Size is the fixed interval of HalfStep/WholeStep kinds and appoggiaturas.
func (o *Ornament) Size() (interval.Interval, bool) {
	if s := o.info().size; s != nil {
		return *s, true
	}
	return interval.Interval{}, false
}

func (o *Ornament) Realizable() bool {
	return dispatch[o.info().family].realize != nil
}

func standardizeOverride(name string) (string, error) {
	if name == "" {
		return "", nil
	}
	std, ok := pitch.StandardizeAccidentalName(name)
	if !ok {
		return "", fmt.Errorf("%w: %q is not an accidental", ErrConfiguration, name)
	}
	return std, nil
}

func (o *Ornament) AccidentalName() string {
	return o.accidentalName
}

// SetAccidentalName sets the accidental written with a mordent or trill;
// "" clears it. Fixed-interval kinds refuse one.
func (o *Ornament) SetAccidentalName(name string) error {
	info := o.info()
	if info.family != mordentFamily && info.family != trillFamily {
		return fmt.Errorf("%w: %s takes upper/lower accidentals or none", ErrConfiguration, o.kind)
	}
	if info.size != nil {
		return fmt.Errorf("%w: cannot set accidentalName of %s", ErrConfiguration, o.kind)
	}
	std, err := standardizeOverride(name)
	if err != nil {
		return err
	}
	o.accidentalName = std
	return nil
}

func (o *Ornament) UpperAccidentalName() string {
	return o.upperAccidentalName
}

func (o *Ornament) LowerAccidentalName() string {
	return o.lowerAccidentalName
}

func (o *Ornament) SetUpperAccidentalName(name string) error {
	if o.info().family != turnFamily {
		return fmt.Errorf("%w: only turns have an upper accidental", ErrConfiguration)
	}
	std, err := standardizeOverride(name)
	if err != nil {
		return err
	}
	o.upperAccidentalName = std
	return nil
}

func (o *Ornament) SetLowerAccidentalName(name string) error {
	if o.info().family != turnFamily {
		return fmt.Errorf("%w: only turns have a lower accidental", ErrConfiguration)
	}
	std, err := standardizeOverride(name)
	if err != nil {
		return err
	}
	o.lowerAccidentalName = std
	return nil
}

func (o *Ornament) NumberOfMarks() int {
	return o.numberOfMarks
}

func (o *Ornament) SetNumberOfMarks(n int) error {
	if o.info().family != tremoloFamily {
		return fmt.Errorf("%w: only tremolos have marks", ErrConfiguration)
	}
	if n < 0 || n > 8 {
		return fmt.Errorf("%w: number of marks must be a number from 0 to 8, got %d", ErrConfiguration, n)
	}
	o.numberOfMarks = n
	return nil
}

// Name is the kind name plus any written accidentals and turn delay, e.g.
// "delayed inverted turn (upper=sharp, lower=natural)".
func (o *Ornament) Name() string {
	info := o.info()
	name := info.name
	switch info.family {
	case mordentFamily, trillFamily:
		if o.accidentalName != "" {
			name += " (" + o.accidentalName + ")"
		}
	case turnFamily:
		switch {
		case o.delay.IsDefault():
			name = "delayed " + name
		case o.delay.IsExplicit():
			name = fmt.Sprintf("delayed(delayQL=%s) %s", duration.String(o.delay.ql), name)
		}
		var acc []string
		if o.upperAccidentalName != "" {
			acc = append(acc, "upper="+o.upperAccidentalName)
		}
		if o.lowerAccidentalName != "" {
			acc = append(acc, "lower="+o.lowerAccidentalName)
		}
		if len(acc) > 0 {
			name += " (" + strings.Join(acc, ", ") + ")"
		}
	}
	return name
}

func (o *Ornament) String() string {
	return "<" + o.Name() + ">"
}

// GetSize is the interval from the note's pitch to the ornamental pitch.
// ks may be nil, in which case the note's context is searched and an empty
// key signature is the fallback. which matters only for turns.
func (o *Ornament) GetSize(n *note.Note, ks *key.Signature, which Which) (interval.Interval, error) {
	return dispatch[o.info().family].getSize(o, n, ks, which)
}

// ResolveOrnamentalPitches computes and caches the pitches the ornament
// introduces; turns store the upper pitch first.
func (o *Ornament) ResolveOrnamentalPitches(n *note.Note, ks *key.Signature) error {
	resolve := dispatch[o.info().family].resolve
	if resolve == nil {
		o.ornamentalPitches = nil
		return nil
	}
	return resolve(o, n, ks)
}

func (o *Ornament) OrnamentalPitches() []*pitch.Pitch {
	return append([]*pitch.Pitch(nil), o.ornamentalPitches...)
}

func (o *Ornament) OrnamentalPitch() *pitch.Pitch {
	if len(o.ornamentalPitches) == 0 {
		return nil
	}
	return o.ornamentalPitches[0]
}

func (o *Ornament) UpperOrnamentalPitch() *pitch.Pitch {
	if o.info().family != turnFamily {
		return nil
	}
	return o.OrnamentalPitch()
}

func (o *Ornament) LowerOrnamentalPitch() *pitch.Pitch {
	if o.info().family != turnFamily || len(o.ornamentalPitches) < 2 {
		return nil
	}
	return o.ornamentalPitches[1]
}

func (o *Ornament) forcedAt(slot int) bool {
	if o.info().family == turnFamily {
		if slot == 0 {
			return o.upperAccidentalName != ""
		}
		return o.lowerAccidentalName != ""
	}
	return o.accidentalName != ""
}

func forceVisible(p *pitch.Pitch) {
	if p.Accidental == nil {
		p.Accidental = pitch.Natural()
	}
	p.Accidental.Display = pitch.Shown
}

// UpdateAccidentalDisplay runs the pitch display algorithm over each
// ornamental pitch. Ornamental notes are never tied, and pitches with a
// written accidental stay visible whatever the history says.
func (o *Ornament) UpdateAccidentalDisplay(opts pitch.DisplayOptions) {
	opts.LastNoteWasTied = false
	for i, p := range o.ornamentalPitches {
		if p == nil {
			continue
		}
		if o.forcedAt(i) {
			forceVisible(p)
			continue
		}
		p.UpdateAccidentalDisplay(opts)
	}
}

// Realize works on a copy of n; n and its expression list are untouched.
func (o *Ornament) Realize(n *note.Note, ks *key.Signature) (Realization, error) {
	return o.realize(n, ks, false)
}

// RealizeInPlace may shorten n and remove the ornament from it. The caller
// must not share n while this runs.
func (o *Ornament) RealizeInPlace(n *note.Note, ks *key.Signature) (Realization, error) {
	return o.realize(n, ks, true)
}

func (o *Ornament) realize(n *note.Note, ks *key.Signature, inPlace bool) (Realization, error) {
	realize := dispatch[o.info().family].realize
	if realize == nil {
		return Realization{}, fmt.Errorf("%w: %s has no realization", ErrUnrealizable, o.kind)
	}
	return realize(o, n, ks, inPlace)
}

func resolveKeySignature(n *note.Note, ks *key.Signature) *key.Signature {
	if ks != nil {
		return ks
	}
	if found := n.KeySignature(); found != nil {
		return found
	}
	return key.New(0)
}

func subNote(src *note.Note, ql *big.Rat) *note.Note {
	c := src.Clone()
	c.Expressions = nil
	c.Duration = duration.Copy(ql)
	return c
}

// fillListOfRealizedNotes returns the original pitch followed by the
// transposed one, both useQL long. Trills and mordents build from it.
func fillListOfRealizedNotes(src *note.Note, t interval.Transposer, useQL *big.Rat) []*note.Note {
	first := subNote(src, useQL)
	second := subNote(src, useQL)
	second.Transpose(t)
	return []*note.Note{first, second}
}

// remainderOf is what is left of src after the ornament took its time.
func (o *Ornament) remainderOf(src *note.Note, ql *big.Rat, inPlace bool) *note.Note {
	rem := src
	if !inPlace {
		rem = src.Clone()
	}
	rem.Duration = duration.Copy(ql)
	rem.RemoveExpression(o)
	return rem
}

// secondFromKey spells the diatonic neighbour of n's pitch, taking its
// accidental from override if given, else from the key signature.
func secondFromKey(n *note.Note, ks *key.Signature, up bool, override string) interval.Interval {
	src := n.Pitch
	neighbour := src.Clone()
	neighbour.Accidental = nil
	step := interval.Generic(2)
	if !up {
		step = -2
	}
	neighbour = step.TransposePitch(neighbour)
	if override != "" {
		neighbour.Accidental = pitch.MustAccidental(override)
	} else {
		neighbour.Accidental = ks.AccidentalByStep(neighbour.Step)
	}
	return interval.Between(src, neighbour)
}

func resolvePitch(n *note.Note, size interval.Interval, forced bool) *pitch.Pitch {
	p := size.TransposePitch(n.Pitch)
	if forced {
		forceVisible(p)
	}
	return p
}

// resolveSingle serves mordents and trills, which have one ornamental pitch.
func resolveSingle(o *Ornament, n *note.Note, ks *key.Signature) error {
	if !n.IsPitched() {
		return fmt.Errorf("%w: cannot resolve %s's ornamental pitches", ErrUnpitched, o.kind)
	}
	size, err := o.GetSize(n, ks, "")
	if err != nil {
		return err
	}
	o.ornamentalPitches = []*pitch.Pitch{resolvePitch(n, size, o.accidentalName != "")}
	return nil
}

func checkTimed(n *note.Note) error {
	if duration.IsZero(n.Duration) {
		return ErrUntimed
	}
	return nil
}
