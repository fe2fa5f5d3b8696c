// Package sample cuts a short excerpt out of a rendered performance.
package sample

import (
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

type noteKey struct {
	channel, key uint8
}

// Window keeps the notes that start at or after fromTick, at most maxNotes
// of them (0 means no limit), each with its note-off. Note-offs of notes
// struck before fromTick are dropped. Meta events from before the window
// move to its start.
func Window(track smf.Track, fromTick uint64, maxNotes int) smf.Track {
	var res smf.Track
	var absTicks uint64
	last := fromTick
	open := map[noteKey]int{}
	var numNotes int

	keep := func(evt smf.Event) {
		evt.Delta = uint32(absTicks - last)
		last = absTicks
		res = append(res, evt)
	}
	full := func() bool {
		return maxNotes > 0 && numNotes >= maxNotes
	}

TrackEventLoop:
	for _, evt := range track {
		absTicks += uint64(evt.Delta)
		var ch, key, vel uint8
		msg := midi.Message(evt.Message)
		switch {
		case msg.GetNoteStart(&ch, &key, &vel):
			if absTicks < fromTick || full() {
				continue
			}
			keep(evt)
			open[noteKey{ch, key}]++
			numNotes++
		case msg.GetNoteEnd(&ch, &key):
			k := noteKey{ch, key}
			if open[k] == 0 {
				continue
			}
			keep(evt)
			if open[k]--; open[k] == 0 {
				delete(open, k)
			}
			if full() && len(open) == 0 {
				break TrackEventLoop
			}
		case evt.Message.Is(smf.MetaEndOfTrackMsg):
			// Close adds our own
		case absTicks < fromTick:
			evt.Delta = 0
			res = append(res, evt)
		default:
			keep(evt)
		}
	}
	res.Close(0)
	return res
}
