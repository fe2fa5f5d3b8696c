package key

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jsphweid/ornamentum/pitch"
)

var sharpOrder = []pitch.Step{pitch.F, pitch.C, pitch.G, pitch.D, pitch.A, pitch.E, pitch.B}

var flatOrder = []pitch.Step{pitch.B, pitch.E, pitch.A, pitch.D, pitch.G, pitch.C, pitch.F}

// Signature counts sharps; negative values are flats. Counts beyond seven
// wrap around the circle again and double the earliest accidentals.
type Signature struct {
	Sharps int
}

func New(sharps int) *Signature {
	return &Signature{Sharps: sharps}
}

// Parse accepts "2", "-3", "2#" or "3b".
func Parse(s string) (*Signature, error) {
	s = strings.TrimSpace(s)
	sign := 1
	switch {
	case strings.HasSuffix(s, "#"):
		s = strings.TrimSuffix(s, "#")
	case strings.HasSuffix(s, "b"):
		s = strings.TrimSuffix(s, "b")
		sign = -1
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil, fmt.Errorf("invalid key signature %q", s)
	}
	return New(sign * n), nil
}

func (k *Signature) alterFor(step pitch.Step) int {
	order, n, unit := sharpOrder, k.Sharps, 1
	if k.Sharps < 0 {
		order, n, unit = flatOrder, -k.Sharps, -1
	}
	count := 0
	for i := 0; i < n; i++ {
		if order[i%len(order)] == step {
			count++
		}
	}
	return count * unit
}

// AccidentalByStep returns a fresh accidental, or nil when the key leaves
// the step natural.
func (k *Signature) AccidentalByStep(step pitch.Step) *pitch.Accidental {
	alter := k.alterFor(step)
	if alter == 0 {
		return nil
	}
	return pitch.AccidentalFromAlter(float64(alter))
}

// AlteredPitches lists the pitch classes the signature alters, in the order
// they are written.
func (k *Signature) AlteredPitches() []*pitch.Pitch {
	order, n := sharpOrder, k.Sharps
	if k.Sharps < 0 {
		order, n = flatOrder, -k.Sharps
	}
	if n > len(order) {
		n = len(order)
	}
	res := make([]*pitch.Pitch, 0, n)
	for _, step := range order[:n] {
		res = append(res, &pitch.Pitch{Step: step, Octave: 4, Accidental: k.AccidentalByStep(step)})
	}
	return res
}

func (k *Signature) String() string {
	switch {
	case k.Sharps > 0:
		return fmt.Sprintf("%d sharps", k.Sharps)
	case k.Sharps < 0:
		return fmt.Sprintf("%d flats", -k.Sharps)
	}
	return "no sharps or flats"
}
