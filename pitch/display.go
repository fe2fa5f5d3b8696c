package pitch

// DisplayOptions carries the history and policy for UpdateAccidentalDisplay.
// PitchPastMeasure holds the previous measure, PitchPast the current one up
// to (not including) this pitch.
type DisplayOptions struct {
	PitchPast                    []*Pitch
	PitchPastMeasure             []*Pitch
	AlteredPitches               []*Pitch
	CautionaryPitchClass         bool
	CautionaryAll                bool
	OverrideStatus               bool
	CautionaryNotImmediateRepeat bool
	LastNoteWasTied              bool
}

func DefaultDisplayOptions() DisplayOptions {
	return DisplayOptions{
		CautionaryPitchClass:         true,
		CautionaryNotImmediateRepeat: true,
	}
}

// UpdateAccidentalDisplay decides whether this pitch's accidental is printed,
// adding a natural when one is needed to cancel an earlier alteration or the
// key signature. A decided status is left alone unless OverrideStatus is set.
func (p *Pitch) UpdateAccidentalDisplay(opts DisplayOptions) {
	if p.Accidental != nil && p.Accidental.Display != Undetermined && !opts.OverrideStatus {
		return
	}
	set := func(show bool) {
		if opts.OverrideStatus || p.Accidental.Display == Undetermined {
			p.Accidental.SetDisplay(show)
		}
	}

	if opts.LastNoteWasTied {
		if p.Accidental != nil {
			p.Accidental.SetDisplay(p.Accidental.DisplayType == DisplayEvenTied)
		}
		return
	}

	if opts.CautionaryAll {
		if p.Accidental == nil {
			p.Accidental = Natural()
		}
		p.Accidental.Display = Shown
		return
	}

	past := make([]*Pitch, 0, len(opts.PitchPastMeasure)+len(opts.PitchPast))
	past = append(past, opts.PitchPastMeasure...)
	past = append(past, opts.PitchPast...)
	if len(past) == 0 {
		p.displayAgainstKey(opts.AlteredPitches, set)
		return
	}

	if p.Accidental != nil &&
		(p.Accidental.DisplayType == DisplayAlways || p.Accidental.DisplayType == DisplayEvenTied) {
		set(true)
		return
	}

	continuous := true
	for i := len(past) - 1; i >= 0; i-- {
		prev := past[i]
		if prev.Step != p.Step || (!opts.CautionaryPitchClass && prev.Octave != p.Octave) {
			continuous = false
			continue
		}

		if i < len(opts.PitchPastMeasure) {
			// last seen in the previous measure: the barline cancelled it,
			// only a courtesy natural is owed
			if p.Alter() == 0 && prev.Alter() != 0 {
				if p.Accidental == nil {
					p.Accidental = Natural()
				}
				set(true)
				return
			}
			p.displayAgainstKey(opts.AlteredPitches, set)
			return
		}

		if prev.Alter() == p.Alter() {
			if p.Accidental == nil {
				return
			}
			set(continuous && !opts.CautionaryNotImmediateRepeat && p.Accidental.Name != "natural")
			return
		}

		if p.Accidental == nil {
			p.Accidental = Natural()
		}
		set(true)
		return
	}

	p.displayAgainstKey(opts.AlteredPitches, set)
}

func (p *Pitch) displayAgainstKey(altered []*Pitch, set func(bool)) {
	stepAltered := false
	nameAltered := false
	for _, a := range altered {
		if a.Step == p.Step {
			stepAltered = true
		}
		if a.Name() == p.Name() {
			nameAltered = true
		}
	}

	if p.Accidental == nil {
		if stepAltered {
			p.Accidental = Natural()
			p.Accidental.Display = Shown
		}
		return
	}
	switch {
	case p.Accidental.Name == "natural":
		set(stepAltered)
	case nameAltered:
		set(false)
	default:
		set(true)
	}
}
