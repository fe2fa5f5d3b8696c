// Package midi turns realized notes into an in-memory performance: a
// NoteOn/NoteOff track with exact tick deltas. Nothing is read from or
// written to disk.
package midi

import (
	"errors"
	"fmt"
	"math"
	"math/big"
	"sort"

	"github.com/jsphweid/ornamentum/duration"
	"github.com/jsphweid/ornamentum/note"
	"github.com/jsphweid/ornamentum/stream"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

var ErrOutOfRange = errors.New("pitch outside the MIDI key range")

type Options struct {
	Channel  uint8
	Velocity uint8
	// ticks per quarter note
	Resolution smf.MetricTicks
	BPM        float64
}

func DefaultOptions() Options {
	return Options{Channel: 0, Velocity: 80, Resolution: 960, BPM: 120}
}

type event struct {
	tick uint64
	on   bool
	key  uint8
}

// Ticks rounds a quarter-length offset to the nearest tick.
func Ticks(ql *big.Rat, res smf.MetricTicks) uint64 {
	r := duration.Scale(ql, int64(res))
	q, m := new(big.Int).QuoRem(r.Num(), r.Denom(), new(big.Int))
	if new(big.Int).Mul(m, big.NewInt(2)).Cmp(r.Denom()) >= 0 {
		q.Add(q, big.NewInt(1))
	}
	return q.Uint64()
}

func keyOf(n *note.Note) (uint8, error) {
	ps := math.Round(n.Pitch.PS())
	if ps < 0 || ps > 127 {
		return 0, fmt.Errorf("%w: %s", ErrOutOfRange, n.Pitch)
	}
	return uint8(ps), nil
}

// Track lays out notes at their own offsets. Unpitched notes take time but
// make no sound.
func Track(notes []*note.Note, opts Options) (smf.Track, error) {
	var events []event
	for _, n := range notes {
		if !n.IsPitched() {
			continue
		}
		k, err := keyOf(n)
		if err != nil {
			return nil, err
		}
		start := Ticks(n.Offset, opts.Resolution)
		end := Ticks(duration.Add(duration.Copy(n.Offset), n.Duration), opts.Resolution)
		events = append(events, event{tick: start, on: true, key: k}, event{tick: end, key: k})
	}
	// at equal ticks releases come first so repeated keys re-strike
	sort.SliceStable(events, func(i, j int) bool {
		if events[i].tick != events[j].tick {
			return events[i].tick < events[j].tick
		}
		return !events[i].on && events[j].on
	})

	var tr smf.Track
	tr.Add(0, smf.MetaTempo(opts.BPM))
	var last uint64
	for _, e := range events {
		delta := uint32(e.tick - last)
		last = e.tick
		if e.on {
			tr.Add(delta, midi.NoteOn(opts.Channel, e.key, opts.Velocity))
		} else {
			tr.Add(delta, midi.NoteOff(opts.Channel, e.key))
		}
	}
	tr.Close(0)
	return tr, nil
}

// Performance places measures end to end and renders them as one track.
func Performance(measures []*stream.Measure, opts Options) (*smf.SMF, error) {
	var notes []*note.Note
	start := duration.Zero()
	for _, m := range measures {
		for _, n := range m.Notes {
			c := n.Clone()
			c.Offset = duration.Add(start, c.Offset)
			notes = append(notes, c)
		}
		start = duration.Add(start, m.Duration())
	}
	tr, err := Track(notes, opts)
	if err != nil {
		return nil, err
	}
	s := smf.New()
	s.TimeFormat = opts.Resolution
	if err := s.Add(tr); err != nil {
		return nil, err
	}
	return s, nil
}

// Describe prints one line per note event with its absolute tick.
func Describe(tr smf.Track) []string {
	var res []string
	var abs uint64
	for _, ev := range tr {
		abs += uint64(ev.Delta)
		var ch, key, vel uint8
		switch {
		case midi.Message(ev.Message).GetNoteStart(&ch, &key, &vel):
			res = append(res, fmt.Sprintf("%d on %d %d", abs, key, vel))
		case midi.Message(ev.Message).GetNoteEnd(&ch, &key):
			res = append(res, fmt.Sprintf("%d off %d", abs, key))
		}
	}
	return res
}
