package ornament

import (
	"math/big"
	"testing"

	"github.com/jsphweid/ornamentum/duration"
	"github.com/jsphweid/ornamentum/key"
	"github.com/jsphweid/ornamentum/note"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRealizeMordent(t *testing.T) {
	t.Run("basic", func(t *testing.T) {
		n := c4(duration.Eighth())
		m := MustNew(Mordent)
		text := &note.TextExpression{Content: "dolce"}
		n.Expressions = []note.Expression{m, text}

		r, err := m.Realize(n, nil)
		require.NoError(t, err)
		assert.Equal(t, []string{"C4", "B3"}, names(r.Pre))
		assert.Equal(t, []string{"0.125", "0.125"}, lengths(r.Pre))
		require.NotNil(t, r.Main)
		assert.Equal(t, "C4(0.25)", r.Main.String())
		assert.Equal(t, []note.Expression{text}, r.Main.Expressions)
		assert.Empty(t, r.Post)
		for _, x := range r.Pre {
			assert.Empty(t, x.Expressions)
		}

		// the source is untouched
		assert.Equal(t, "C4(0.5)", n.String())
		assert.Len(t, n.Expressions, 2)
	})

	t.Run("whole step", func(t *testing.T) {
		r, err := MustNew(WholeStepMordent).Realize(note.MustParse("D5", duration.Quarter()), nil)
		require.NoError(t, err)
		assert.Equal(t, []string{"D5", "C5"}, names(r.Pre))
		assert.Equal(t, "D5(0.75)", r.Main.String())
	})

	t.Run("key signature", func(t *testing.T) {
		r, err := MustNew(InvertedMordent).Realize(note.MustParse("E4", duration.Quarter()), key.New(1))
		require.NoError(t, err)
		assert.Equal(t, []string{"E4", "F#4"}, names(r.Pre))
	})

	t.Run("auto scale", func(t *testing.T) {
		r, err := MustNew(Mordent).Realize(c4(duration.Sixteenth()), nil)
		require.NoError(t, err)
		assert.Equal(t, []string{"0.0625", "0.0625"}, lengths(r.Pre))
		assert.Equal(t, "0.125", duration.String(r.Main.Duration))
	})

	t.Run("too short", func(t *testing.T) {
		_, err := MustNew(Mordent, WithAutoScale(false)).Realize(c4(duration.Sixteenth()), nil)
		assert.ErrorIs(t, err, ErrTooShort)
	})

	t.Run("general mordent", func(t *testing.T) {
		_, err := MustNew(GeneralMordent).Realize(c4(duration.ThirtySecond()), nil)
		assert.ErrorIs(t, err, ErrUnrealizable)
	})

	t.Run("in place", func(t *testing.T) {
		n := c4(duration.Quarter())
		m := MustNew(Mordent)
		n.Expressions = []note.Expression{m}
		r, err := m.RealizeInPlace(n, nil)
		require.NoError(t, err)
		assert.Same(t, n, r.Main)
		assert.Equal(t, "0.75", duration.String(n.Duration))
		assert.Empty(t, n.Expressions)
	})
}

func TestRealizeTrill(t *testing.T) {
	t.Run("fills the note", func(t *testing.T) {
		r, err := MustNew(Trill).Realize(c4(duration.Sixteenth()), nil)
		require.NoError(t, err)
		assert.Equal(t, []string{"C4", "D4"}, names(r.Pre))
		assert.Nil(t, r.Main)
		assert.Empty(t, r.Post)

		r, err = MustNew(Trill).Realize(c4(duration.Eighth()), nil)
		require.NoError(t, err)
		assert.Equal(t, []string{"C4", "D4", "C4", "D4"}, names(r.Pre))
		assert.Equal(t, "0.5", duration.String(duration.Sum(durations(r.Pre)...)))
	})

	t.Run("key signatures", func(t *testing.T) {
		cases := map[int][]string{
			-5: {"C4", "D-4", "C4", "D-4"},
			3:  {"C4", "D4", "C4", "D4"},
			// augmented second, kept as written
			4: {"C4", "D#4", "C4", "D#4"},
		}
		for sharps, want := range cases {
			n := c4(duration.Eighth())
			n.Context = fixedContext{key.New(sharps)}
			r, err := MustNew(Trill).Realize(n, nil)
			require.NoError(t, err)
			assert.Equal(t, want, names(r.Pre), "sharps=%d", sharps)
		}
	})

	t.Run("correction overrides a natural written on the trill", func(t *testing.T) {
		e4 := note.MustParse("E4", duration.Sixteenth())
		r, err := MustNew(Trill, WithAccidental("natural")).Realize(e4, key.New(1))
		require.NoError(t, err)
		assert.Equal(t, []string{"E4", "F#4"}, names(r.Pre))

		r, err = MustNew(HalfStepTrill).Realize(e4, key.New(1))
		require.NoError(t, err)
		assert.Equal(t, []string{"E4", "F4"}, names(r.Pre))
	})

	t.Run("nachschlag", func(t *testing.T) {
		n := c4(duration.Quarter())
		n.Context = fixedContext{key.New(-5)}
		r, err := MustNew(Trill, WithNachschlag(true)).Realize(n, nil)
		require.NoError(t, err)
		assert.Equal(t, []string{"C4", "D-4", "C4", "D-4", "C4", "D-4"}, names(r.Pre))
		assert.Nil(t, r.Main)
		assert.Equal(t, []string{"C4", "B-3"}, names(r.Post))
		assert.Equal(t, []string{"0.125", "0.125"}, lengths(r.Post))
	})

	t.Run("nachschlag scales", func(t *testing.T) {
		r, err := MustNew(Trill, WithNachschlag(true)).Realize(c4(duration.Sixteenth()), nil)
		require.NoError(t, err)
		assert.Equal(t, []string{"C4", "D4"}, names(r.Pre))
		assert.Equal(t, []string{"0.0625", "0.0625"}, lengths(r.Pre))
		assert.Equal(t, []string{"C4", "B3"}, names(r.Post))

		_, err = MustNew(Trill, WithNachschlag(true), WithAutoScale(false)).Realize(c4(duration.Sixteenth()), nil)
		assert.ErrorIs(t, err, ErrTooShort)
	})

	t.Run("too short", func(t *testing.T) {
		d4 := note.MustParse("D4", duration.ThirtySecond())
		trill := MustNew(Trill, WithAutoScale(false))
		_, err := trill.Realize(d4, nil)
		assert.ErrorIs(t, err, ErrTooShort)

		require.NoError(t, trill.SetQuarterLength(duration.QL(1, 16)))
		r, err := trill.Realize(d4, nil)
		require.NoError(t, err)
		assert.Equal(t, []string{"D4", "E4"}, names(r.Pre))

		_, err = MustNew(HalfStepTrill, WithAutoScale(false)).Realize(c4(duration.QL(1, 32)), nil)
		assert.ErrorIs(t, err, ErrTooShort)
	})

	t.Run("shake uses sixteenths", func(t *testing.T) {
		r, err := MustNew(Shake).Realize(c4(duration.Quarter()), nil)
		require.NoError(t, err)
		assert.Len(t, r.Pre, 4)
	})

	t.Run("in place drops the trill", func(t *testing.T) {
		n := c4(duration.Quarter())
		trill := MustNew(Trill)
		n.Expressions = []note.Expression{trill}
		_, err := trill.RealizeInPlace(n, nil)
		require.NoError(t, err)
		assert.Empty(t, n.Expressions)
	})
}

func durations(notes []*note.Note) []*big.Rat {
	res := make([]*big.Rat, len(notes))
	for i, n := range notes {
		res[i] = n.Duration
	}
	return res
}

func TestRealizeTurn(t *testing.T) {
	t.Run("no delay", func(t *testing.T) {
		r, err := MustNew(Turn).Realize(c4(duration.Quarter()), nil)
		require.NoError(t, err)
		assert.Empty(t, r.Pre)
		assert.Nil(t, r.Main)
		assert.Equal(t, []string{"D4", "C4", "B3", "C4"}, names(r.Post))
		assert.Equal(t, []string{"0.25", "0.25", "0.25", "0.25"}, lengths(r.Post))
	})

	t.Run("delayed inverted in five sharps", func(t *testing.T) {
		r, err := MustNew(InvertedTurn, WithDelay(DefaultDelay)).Realize(note.MustParse("B4", duration.Quarter()), key.New(5))
		require.NoError(t, err)
		require.NotNil(t, r.Main)
		assert.Equal(t, "B4(0.5)", r.Main.String())
		assert.Equal(t, []string{"A#4", "B4", "C#5", "B4"}, names(r.Post))
		assert.Equal(t, []string{"0.125", "0.125", "0.125", "0.125"}, lengths(r.Post))
	})

	t.Run("long turn stretches the last note", func(t *testing.T) {
		n := c4(duration.QL(3, 4))
		turn := MustNew(Turn, WithDelay(DelayOf(duration.Sixteenth())), WithQuarterLength(duration.QL(1, 12)))
		n.Expressions = []note.Expression{turn}
		r, err := turn.RealizeInPlace(n, nil)
		require.NoError(t, err)
		assert.Same(t, n, r.Main)
		assert.Equal(t, "C4(0.25)", n.String())
		assert.Empty(t, n.Expressions)
		assert.Equal(t, []string{"D4", "C4", "B3", "C4"}, names(r.Post))
		assert.Equal(t, []string{"1/12", "1/12", "1/12", "0.25"}, lengths(r.Post))
	})

	t.Run("key from context", func(t *testing.T) {
		n := note.MustParse("D4", duration.Quarter())
		n.Context = fixedContext{key.New(-2)}
		r, err := MustNew(Turn).Realize(n, nil)
		require.NoError(t, err)
		assert.Equal(t, []string{"E-4", "D4", "C4", "D4"}, names(r.Post))
	})

	t.Run("explicit key corrects without context", func(t *testing.T) {
		b4 := note.MustParse("B4", duration.Quarter())
		r, err := MustNew(Turn, WithUpperAccidental("natural")).Realize(b4, key.New(5))
		require.NoError(t, err)
		assert.Equal(t, []string{"C#5", "B4", "A#4", "B4"}, names(r.Post))

		// with no key at all the natural stands
		r, err = MustNew(Turn, WithUpperAccidental("natural")).Realize(note.MustParse("B4", duration.Quarter()), nil)
		require.NoError(t, err)
		assert.Equal(t, []string{"C5", "B4", "A4", "B4"}, names(r.Post))
	})

	t.Run("written accidentals", func(t *testing.T) {
		r, err := MustNew(Turn, WithUpperAccidental("sharp"), WithLowerAccidental("flat")).Realize(c4(duration.Quarter()), nil)
		require.NoError(t, err)
		assert.Equal(t, []string{"D#4", "C4", "B-3", "C4"}, names(r.Post))
	})

	t.Run("too short", func(t *testing.T) {
		_, err := MustNew(Turn, WithAutoScale(false)).Realize(c4(duration.ThirtySecond()), nil)
		assert.ErrorIs(t, err, ErrTooShort)

		_, err = MustNew(Turn, WithDelay(DelayOf(duration.Quarter()))).Realize(c4(duration.Quarter()), nil)
		assert.ErrorIs(t, err, ErrTooShort)
	})

	t.Run("auto scale", func(t *testing.T) {
		r, err := MustNew(Turn).Realize(c4(duration.Eighth()), nil)
		require.NoError(t, err)
		assert.Equal(t, []string{"0.125", "0.125", "0.125", "0.125"}, lengths(r.Post))
	})
}

func TestRealizeAppoggiatura(t *testing.T) {
	r, err := MustNew(Appoggiatura).Realize(c4(duration.Eighth()), nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"D4"}, names(r.Pre))
	assert.Equal(t, []string{"0.25"}, lengths(r.Pre))
	assert.Equal(t, "C4(0.25)", r.Main.String())
	assert.Empty(t, r.Post)

	r, err = MustNew(HalfStepInvertedAppoggiatura).Realize(c4(duration.Quarter()), nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"B3"}, names(r.Pre))
	assert.Equal(t, "C4(0.5)", r.Main.String())

	r, err = MustNew(HalfStepAppoggiatura).Realize(c4(duration.Quarter()), nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"D-4"}, names(r.Pre))

	_, err = MustNew(GeneralAppoggiatura).Realize(c4(duration.Quarter()), nil)
	assert.ErrorIs(t, err, ErrUnrealizable)
}

func TestRealizeTremolo(t *testing.T) {
	t.Run("three marks", func(t *testing.T) {
		n := c4(duration.Quarter())
		trem := MustNew(Tremolo)
		text := &note.TextExpression{Content: "sul pont."}
		n.Expressions = []note.Expression{trem, text}

		r, err := trem.Realize(n, nil)
		require.NoError(t, err)
		require.Len(t, r.Pre, 8)
		assert.Nil(t, r.Main)
		assert.Empty(t, r.Post)
		for i, x := range r.Pre {
			assert.Equal(t, "C4(0.125)", x.String())
			assert.Equal(t, []note.Expression{text}, x.Expressions)
			assert.Equal(t, duration.String(duration.Scale(duration.ThirtySecond(), int64(i))), duration.String(x.Offset))
		}
		assert.Len(t, n.Expressions, 2)
	})

	t.Run("one mark", func(t *testing.T) {
		r, err := MustNew(Tremolo, WithMarks(1)).Realize(c4(duration.Quarter()), nil)
		require.NoError(t, err)
		assert.Equal(t, []string{"0.5", "0.5"}, lengths(r.Pre))
	})

	t.Run("uneven tail", func(t *testing.T) {
		r, err := MustNew(Tremolo, WithMarks(2)).Realize(c4(duration.QL(3, 10)), nil)
		require.NoError(t, err)
		assert.Equal(t, []string{"0.25", "0.05"}, lengths(r.Pre))
	})

	t.Run("unpitched", func(t *testing.T) {
		r, err := MustNew(Tremolo).Realize(note.Unpitched(duration.Eighth()), nil)
		require.NoError(t, err)
		assert.Len(t, r.Pre, 4)
	})
}

func TestRealizeRequiresDuration(t *testing.T) {
	for _, k := range Kinds() {
		o := MustNew(k)
		if !o.Realizable() || (o.Direction() == "" && o.info().family != turnFamily && o.info().family != tremoloFamily) {
			continue
		}
		_, err := o.Realize(c4(duration.Zero()), nil)
		assert.ErrorIs(t, err, ErrUntimed, k.String())
	}
}

func TestRealizeUnpitched(t *testing.T) {
	for _, k := range []Kind{Mordent, Trill, Turn, Appoggiatura} {
		_, err := MustNew(k).Realize(note.Unpitched(duration.Quarter()), nil)
		assert.ErrorIs(t, err, ErrUnpitched, k.String())
	}
}

func TestSchleiferIsNotRealized(t *testing.T) {
	_, err := MustNew(Schleifer).Realize(c4(duration.Quarter()), nil)
	assert.ErrorIs(t, err, ErrUnrealizable)
}

func TestRealizationNotes(t *testing.T) {
	r, err := MustNew(InvertedTurn, WithDelay(DefaultDelay)).Realize(c4(duration.Quarter()), nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"C4", "B3", "C4", "D4", "C4"}, names(r.Notes()))
}

func sweep() []*big.Rat {
	var res []*big.Rat
	for _, den := range []int64{1, 2, 3, 4, 5, 6, 8, 12, 16, 32} {
		for num := int64(1); num <= 12; num++ {
			res = append(res, duration.QL(num, den))
		}
	}
	return res
}

func total(r Realization) *big.Rat {
	return duration.Sum(durations(r.Notes())...)
}

func TestRealizedLengthsAddUp(t *testing.T) {
	exact := map[string]func() *Ornament{
		"mordent":          func() *Ornament { return MustNew(Mordent) },
		"inverted mordent": func() *Ornament { return MustNew(InvertedMordent) },
		"turn":             func() *Ornament { return MustNew(Turn) },
		"delayed turn":     func() *Ornament { return MustNew(InvertedTurn, WithDelay(DefaultDelay)) },
		"turn after 1/32":  func() *Ornament { return MustNew(Turn, WithDelay(DelayOf(duration.QL(1, 32)))) },
		"tremolo":          func() *Ornament { return MustNew(Tremolo) },
		"tremolo 1 mark":   func() *Ornament { return MustNew(Tremolo, WithMarks(1)) },
	}
	for name, mk := range exact {
		t.Run(name, func(t *testing.T) {
			for _, ql := range sweep() {
				o := mk()
				if o.IsDelayed() && o.Delay().IsExplicit() && !duration.Less(o.Delay().QuarterLength(), ql) {
					continue
				}
				r, err := o.Realize(c4(ql), nil)
				require.NoError(t, err, duration.String(ql))
				assert.True(t, duration.Equal(ql, total(r)), "%s: %s != %s", name, duration.String(total(r)), duration.String(ql))
			}
		})
	}

	t.Run("turn notes", func(t *testing.T) {
		for _, ql := range sweep() {
			r, err := MustNew(Turn, WithDelay(DefaultDelay)).Realize(c4(ql), nil)
			require.NoError(t, err)
			require.Len(t, r.Post, 4)
			turnQL := duration.Sum(durations(r.Post)...)
			assert.True(t, duration.Equal(duration.Fraction(ql, 2), turnQL), duration.String(ql))
			// only the last note can differ
			assert.True(t, duration.Equal(r.Post[0].Duration, r.Post[1].Duration))
			assert.True(t, duration.Equal(r.Post[1].Duration, r.Post[2].Duration))
		}
	})

	t.Run("trill with nachschlag", func(t *testing.T) {
		for _, ql := range sweep() {
			r, err := MustNew(Trill, WithNachschlag(true)).Realize(c4(ql), nil)
			require.NoError(t, err)
			require.Len(t, r.Post, 2)

			useQL := duration.ThirtySecond()
			if duration.Less(ql, duration.Scale(useQL, 4)) {
				useQL = duration.Fraction(ql, 4)
			}
			for _, n := range r.Notes() {
				assert.True(t, duration.Equal(useQL, n.Duration))
			}
			played := duration.Scale(useQL, int64(len(r.Pre)+2))
			assert.True(t, duration.Equal(played, total(r)))
			assert.True(t, duration.LessEq(played, ql))
			assert.True(t, duration.Less(duration.Sub(ql, played), duration.Scale(useQL, 2)), duration.String(ql))
			if duration.Floor(ql, useQL)%2 == 0 {
				assert.True(t, duration.Equal(played, ql), duration.String(ql))
			}
		}
	})

	t.Run("trill", func(t *testing.T) {
		for _, ql := range sweep() {
			r, err := MustNew(Trill).Realize(c4(ql), nil)
			require.NoError(t, err)
			useQL := r.Pre[0].Duration
			played := duration.Scale(useQL, int64(len(r.Pre)))
			assert.True(t, duration.LessEq(played, ql))
			if duration.Floor(ql, useQL)%2 == 0 {
				assert.True(t, duration.Equal(played, ql), duration.String(ql))
			}
		}
	})
}
