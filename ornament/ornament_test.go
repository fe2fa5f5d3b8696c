package ornament

import (
	"math/big"
	"testing"

	"github.com/jsphweid/ornamentum/duration"
	"github.com/jsphweid/ornamentum/key"
	"github.com/jsphweid/ornamentum/note"
	"github.com/jsphweid/ornamentum/pitch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func names(notes []*note.Note) []string {
	res := make([]string, len(notes))
	for i, n := range notes {
		res[i] = n.Pitch.NameWithOctave()
	}
	return res
}

func lengths(notes []*note.Note) []string {
	res := make([]string, len(notes))
	for i, n := range notes {
		res[i] = duration.String(n.Duration)
	}
	return res
}

func c4(ql *big.Rat) *note.Note {
	return note.MustParse("C4", ql)
}

type fixedContext struct {
	ks *key.Signature
}

func (f fixedContext) KeySignature() *key.Signature { return f.ks }

func TestNames(t *testing.T) {
	cases := []struct {
		orn  *Ornament
		want string
	}{
		{MustNew(Mordent), "mordent"},
		{MustNew(InvertedMordent, WithAccidental("#")), "inverted mordent (sharp)"},
		{MustNew(HalfStepTrill), "half step trill"},
		{MustNew(Trill, WithAccidental("flat")), "trill (flat)"},
		{MustNew(Turn), "turn"},
		{MustNew(InvertedTurn, WithDelay(DefaultDelay), WithUpperAccidental("sharp"), WithLowerAccidental("natural")),
			"delayed inverted turn (upper=sharp, lower=natural)"},
		{MustNew(Turn, WithDelay(DelayOf(duration.Quarter())), WithLowerAccidental("--")),
			"delayed(delayQL=1.0) turn (lower=double-flat)"},
		{MustNew(Tremolo), "tremolo"},
		{MustNew(Schleifer), "schleifer"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, c.orn.Name())
	}
}

func TestParseKind(t *testing.T) {
	for _, in := range []string{"half step trill", "half-step-trill", "HalfStepTrill"} {
		k, err := ParseKind(in)
		require.NoError(t, err, in)
		assert.Equal(t, HalfStepTrill, k)
	}
	_, err := ParseKind("pralltriller")
	assert.ErrorIs(t, err, ErrConfiguration)

	for _, k := range Kinds() {
		back, err := ParseKind(k.String())
		require.NoError(t, err)
		assert.Equal(t, k, back)
	}
}

func TestDefaults(t *testing.T) {
	assert := assert.New(t)

	m := MustNew(Mordent)
	assert.True(m.AutoScale)
	assert.True(m.ConnectedToPrevious)
	assert.Equal("0.125", duration.String(m.QuarterLength()))
	assert.Equal(Down, m.Direction())
	assert.Equal("above", m.Placement)

	assert.Equal("0.25", duration.String(MustNew(Shake).QuarterLength()))
	assert.Equal("0.25", duration.String(MustNew(Turn).QuarterLength()))
	assert.Equal(Up, MustNew(Trill).Direction())
	assert.Equal(Direction(""), MustNew(GeneralMordent).Direction())

	trem := MustNew(Tremolo)
	assert.Equal(3, trem.NumberOfMarks())
	assert.True(trem.Measured)

	assert.True(MustNew(Trill).Realizable())
	assert.False(MustNew(Schleifer).Realizable())
}

func TestAccidentalAssignment(t *testing.T) {
	t.Run("fixed interval kinds refuse", func(t *testing.T) {
		for _, k := range []Kind{HalfStepMordent, WholeStepMordent, HalfStepInvertedMordent,
			WholeStepInvertedMordent, HalfStepTrill, WholeStepTrill} {
			o := MustNew(k)
			assert.ErrorIs(t, o.SetAccidentalName("sharp"), ErrConfiguration, k.String())
			_, err := New(k, WithAccidental("flat"))
			assert.ErrorIs(t, err, ErrConfiguration, k.String())
		}
	})

	t.Run("invalid names fail", func(t *testing.T) {
		o := MustNew(Trill)
		assert.ErrorIs(t, o.SetAccidentalName("sharpish"), ErrConfiguration)
		assert.Equal(t, "", o.AccidentalName())
	})

	t.Run("aliases are standardized", func(t *testing.T) {
		o := MustNew(Mordent)
		require.NoError(t, o.SetAccidentalName("-"))
		assert.Equal(t, "flat", o.AccidentalName())
		require.NoError(t, o.SetAccidentalName(""))
		assert.Equal(t, "", o.AccidentalName())
	})

	t.Run("turns take upper and lower only", func(t *testing.T) {
		o := MustNew(Turn)
		assert.ErrorIs(t, o.SetAccidentalName("sharp"), ErrConfiguration)
		assert.ErrorIs(t, MustNew(Trill).SetUpperAccidentalName("sharp"), ErrConfiguration)
	})
}

func TestNumberOfMarks(t *testing.T) {
	trem := MustNew(Tremolo)
	for _, bad := range []int{-1, 9} {
		assert.ErrorIs(t, trem.SetNumberOfMarks(bad), ErrConfiguration)
	}
	assert.Equal(t, 3, trem.NumberOfMarks())
	require.NoError(t, trem.SetNumberOfMarks(0))
	require.NoError(t, trem.SetNumberOfMarks(8))
	assert.Equal(t, 8, trem.NumberOfMarks())
}

func TestDelay(t *testing.T) {
	assert := assert.New(t)

	turn := MustNew(Turn, WithDelay(DelayOf(duration.Zero())))
	assert.False(turn.IsDelayed())
	assert.Equal("turn", turn.Name())

	turn = MustNew(Turn, WithDelay(DelayOf(duration.QL(-1, 2))))
	assert.False(turn.IsDelayed())

	require.NoError(t, turn.SetDelay(DefaultDelay))
	assert.True(turn.IsDelayed())
	assert.True(turn.Delay().IsDefault())

	d, err := ParseDelay("0.5")
	require.NoError(t, err)
	assert.Equal("0.5", duration.String(d.QuarterLength()))
	d, err = ParseDelay("default")
	require.NoError(t, err)
	assert.True(d.IsDefault())
	_, err = ParseDelay("soon")
	assert.ErrorIs(err, ErrConfiguration)

	assert.ErrorIs(MustNew(Trill).SetDelay(DefaultDelay), ErrConfiguration)
}

func TestGetSize(t *testing.T) {
	none := key.New(0)

	t.Run("mordent follows the key", func(t *testing.T) {
		m := MustNew(Mordent)
		size, err := m.GetSize(c4(duration.Quarter()), none, "")
		require.NoError(t, err)
		assert.Equal(t, "m-2", size.Name())

		size, err = m.GetSize(note.MustParse("B3", duration.Quarter()), none, "")
		require.NoError(t, err)
		assert.Equal(t, "M-2", size.Name())
	})

	t.Run("accidental override wins", func(t *testing.T) {
		m := MustNew(Mordent, WithAccidental("flat"))
		size, err := m.GetSize(c4(duration.Quarter()), none, "")
		require.NoError(t, err)
		assert.Equal(t, "M-2", size.Name())
	})

	t.Run("context key signature is used", func(t *testing.T) {
		n := note.MustParse("E4", duration.Quarter())
		n.Context = fixedContext{key.New(1)}
		size, err := MustNew(InvertedMordent).GetSize(n, nil, "")
		require.NoError(t, err)
		assert.Equal(t, "M2", size.Name())

		size, err = MustNew(InvertedMordent).GetSize(n, none, "")
		require.NoError(t, err)
		assert.Equal(t, "m2", size.Name())
	})

	t.Run("fixed kinds ignore the key", func(t *testing.T) {
		n := note.MustParse("E4", duration.Quarter())
		cases := map[Kind]string{
			HalfStepMordent:          "m-2",
			WholeStepMordent:         "M-2",
			HalfStepInvertedMordent:  "m2",
			WholeStepInvertedMordent: "M2",
			HalfStepTrill:            "m2",
			WholeStepTrill:           "M2",
		}
		for k, want := range cases {
			size, err := MustNew(k).GetSize(n, key.New(4), "")
			require.NoError(t, err)
			assert.Equal(t, want, size.Name(), k.String())
		}
	})

	t.Run("general mordent has no direction", func(t *testing.T) {
		_, err := MustNew(GeneralMordent).GetSize(c4(duration.Quarter()), none, "")
		assert.ErrorIs(t, err, ErrUnrealizable)
	})

	t.Run("unpitched", func(t *testing.T) {
		_, err := MustNew(Trill).GetSize(note.Unpitched(duration.Quarter()), none, "")
		assert.ErrorIs(t, err, ErrUnpitched)
	})

	t.Run("turn needs which", func(t *testing.T) {
		turn := MustNew(Turn)
		_, err := turn.GetSize(c4(duration.Quarter()), none, "")
		assert.ErrorIs(t, err, ErrConfiguration)

		up, err := turn.GetSize(c4(duration.Quarter()), none, Upper)
		require.NoError(t, err)
		assert.Equal(t, "M2", up.Name())
		down, err := turn.GetSize(c4(duration.Quarter()), none, Lower)
		require.NoError(t, err)
		assert.Equal(t, "m-2", down.Name())
	})
}

func TestResolveOrnamentalPitches(t *testing.T) {
	none := key.New(0)
	d4 := note.MustParse("D4", duration.Quarter())

	trill := MustNew(Trill)
	assert.Empty(t, trill.OrnamentalPitches())
	require.NoError(t, trill.ResolveOrnamentalPitches(d4, none))
	require.Len(t, trill.OrnamentalPitches(), 1)
	assert.Equal(t, "E4", trill.OrnamentalPitch().NameWithOctave())
	assert.Nil(t, trill.UpperOrnamentalPitch())

	turn := MustNew(Turn)
	require.NoError(t, turn.ResolveOrnamentalPitches(d4, key.New(-2)))
	assert.Equal(t, "E-4", turn.UpperOrnamentalPitch().NameWithOctave())
	assert.Equal(t, "C4", turn.LowerOrnamentalPitch().NameWithOctave())
	assert.Equal(t, pitch.Undetermined, turn.UpperOrnamentalPitch().Accidental.Display)

	forced := MustNew(Turn, WithUpperAccidental("sharp"), WithLowerAccidental("flat"))
	require.NoError(t, forced.ResolveOrnamentalPitches(c4(duration.Quarter()), none))
	assert.Equal(t, "D#4", forced.UpperOrnamentalPitch().NameWithOctave())
	assert.Equal(t, "B-3", forced.LowerOrnamentalPitch().NameWithOctave())
	assert.Equal(t, pitch.Shown, forced.UpperOrnamentalPitch().Accidental.Display)
	assert.Equal(t, pitch.Shown, forced.LowerOrnamentalPitch().Accidental.Display)

	natural := MustNew(Mordent, WithAccidental("natural"))
	require.NoError(t, natural.ResolveOrnamentalPitches(note.MustParse("G4", duration.Quarter()), key.New(1)))
	p := natural.OrnamentalPitch()
	assert.Equal(t, "F4", p.NameWithOctave())
	require.NotNil(t, p.Accidental)
	assert.Equal(t, "natural", p.Accidental.Name)
	assert.Equal(t, pitch.Shown, p.Accidental.Display)

	trem := MustNew(Tremolo)
	require.NoError(t, trem.ResolveOrnamentalPitches(c4(duration.Quarter()), none))
	assert.Empty(t, trem.OrnamentalPitches())

	assert.ErrorIs(t, MustNew(Turn).ResolveOrnamentalPitches(note.Unpitched(duration.Quarter()), none), ErrUnpitched)
}

func TestUpdateAccidentalDisplay(t *testing.T) {
	none := key.New(0)
	g4 := note.MustParse("G4", duration.Quarter())
	past := func() []*pitch.Pitch {
		return []*pitch.Pitch{pitch.MustParse("A#4"), pitch.MustParse("C#4"), pitch.MustParse("C4")}
	}

	t.Run("cautionary all", func(t *testing.T) {
		trill := MustNew(Trill)
		require.NoError(t, trill.ResolveOrnamentalPitches(g4, none))
		assert.Nil(t, trill.OrnamentalPitch().Accidental)

		opts := pitch.DefaultDisplayOptions()
		opts.PitchPast = past()
		opts.CautionaryAll = true
		trill.UpdateAccidentalDisplay(opts)
		require.NotNil(t, trill.OrnamentalPitch().Accidental)
		assert.Equal(t, "natural", trill.OrnamentalPitch().Accidental.Name)
		assert.Equal(t, pitch.Shown, trill.OrnamentalPitch().Accidental.Display)
	})

	t.Run("earlier sharp", func(t *testing.T) {
		trill := MustNew(Trill)
		require.NoError(t, trill.ResolveOrnamentalPitches(g4, none))
		opts := pitch.DefaultDisplayOptions()
		opts.PitchPast = past()
		trill.UpdateAccidentalDisplay(opts)
		require.NotNil(t, trill.OrnamentalPitch().Accidental)
		assert.Equal(t, "natural", trill.OrnamentalPitch().Accidental.Name)
		assert.Equal(t, pitch.Shown, trill.OrnamentalPitch().Accidental.Display)
	})

	t.Run("other octave in pitch space", func(t *testing.T) {
		trill := MustNew(Trill)
		require.NoError(t, trill.ResolveOrnamentalPitches(g4, none))
		opts := pitch.DefaultDisplayOptions()
		opts.PitchPast = []*pitch.Pitch{pitch.MustParse("A#3"), pitch.MustParse("C#"), pitch.MustParse("C")}
		opts.CautionaryPitchClass = false
		trill.UpdateAccidentalDisplay(opts)
		assert.Nil(t, trill.OrnamentalPitch().Accidental)
	})

	t.Run("written accidental stays visible", func(t *testing.T) {
		trill := MustNew(Trill, WithAccidental("sharp"))
		require.NoError(t, trill.ResolveOrnamentalPitches(g4, none))
		opts := pitch.DefaultDisplayOptions()
		opts.PitchPast = []*pitch.Pitch{pitch.MustParse("A#4")}
		trill.UpdateAccidentalDisplay(opts)
		assert.Equal(t, "A#4", trill.OrnamentalPitch().NameWithOctave())
		assert.Equal(t, pitch.Shown, trill.OrnamentalPitch().Accidental.Display)
	})

	t.Run("ties are ignored", func(t *testing.T) {
		trill := MustNew(Trill)
		require.NoError(t, trill.ResolveOrnamentalPitches(note.MustParse("E4", duration.Quarter()), none))
		assert.Equal(t, "F4", trill.OrnamentalPitch().NameWithOctave())
		opts := pitch.DefaultDisplayOptions()
		opts.PitchPast = []*pitch.Pitch{pitch.MustParse("F#4")}
		opts.LastNoteWasTied = true
		trill.UpdateAccidentalDisplay(opts)
		require.NotNil(t, trill.OrnamentalPitch().Accidental)
		assert.Equal(t, "natural", trill.OrnamentalPitch().Accidental.Name)
		assert.Equal(t, pitch.Shown, trill.OrnamentalPitch().Accidental.Display)
	})
}

func TestSetQuarterLength(t *testing.T) {
	assert := assert.New(t)

	m := MustNew(Mordent)
	assert.True(m.HasDefaultQuarterLength())
	assert.ErrorIs(m.SetQuarterLength(nil), ErrConfiguration)
	assert.ErrorIs(m.SetQuarterLength(duration.Zero()), ErrConfiguration)
	assert.ErrorIs(m.SetQuarterLength(duration.QL(-1, 8)), ErrConfiguration)
	assert.Equal("0.125", duration.String(m.QuarterLength()))

	// a rejected length leaves the ornament realizable
	r, err := m.Realize(c4(duration.Quarter()), nil)
	require.NoError(t, err)
	assert.Equal([]string{"0.125", "0.125", "0.75"}, lengths(r.Notes()))

	require.NoError(t, m.SetQuarterLength(duration.QL(1, 16)))
	assert.False(m.HasDefaultQuarterLength())

	// the getter hands out a copy
	m.QuarterLength().SetInt64(4)
	assert.Equal("0.0625", duration.String(m.QuarterLength()))

	trem := MustNew(Tremolo)
	assert.Nil(trem.QuarterLength())
	assert.True(trem.HasDefaultQuarterLength())
	assert.ErrorIs(trem.SetQuarterLength(duration.Eighth()), ErrConfiguration)
	_, err = New(Appoggiatura, WithQuarterLength(duration.Eighth()))
	assert.ErrorIs(err, ErrConfiguration)
}
