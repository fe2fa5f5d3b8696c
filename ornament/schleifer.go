package ornament

import (
	"fmt"

	"github.com/jsphweid/ornamentum/interval"
	"github.com/jsphweid/ornamentum/key"
	"github.com/jsphweid/ornamentum/note"
)

// A schleifer is notated but never realized; RealizeOrnaments drops it.
func schleiferSize(_ *Ornament, n *note.Note, ks *key.Signature, _ Which) (interval.Interval, error) {
	if !n.IsPitched() {
		return interval.Interval{}, fmt.Errorf("%w: cannot compute schleifer size", ErrUnpitched)
	}
	return secondFromKey(n, resolveKeySignature(n, ks), true, ""), nil
}
