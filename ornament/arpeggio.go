package ornament

import (
	"fmt"

	"github.com/jsphweid/ornamentum/note"
)

// ArpeggioMark is the wavy line before a chord. It is notation only: the
// driver never realizes it.
type ArpeggioMark struct {
	// "normal", "up", "down" or "non-arpeggio"
	Type string
}

var _ note.Expression = (*ArpeggioMark)(nil)

// NewArpeggioMark defaults an empty type to "normal".
func NewArpeggioMark(typ string) (*ArpeggioMark, error) {
	switch typ {
	case "":
		typ = "normal"
	case "normal", "up", "down", "non-arpeggio":
	default:
		return nil, fmt.Errorf(`%w: arpeggio type must be "normal", "up", "down" or "non-arpeggio", not %q`, ErrConfiguration, typ)
	}
	return &ArpeggioMark{Type: typ}, nil
}

func (a *ArpeggioMark) Name() string {
	return "arpeggio mark"
}
