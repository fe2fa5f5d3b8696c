// Package interval transposes pitches by generic (diatonic) or specific
// (diatonic plus semitone) intervals.
package interval

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/jsphweid/ornamentum/pitch"
)

type Transposer interface {
	TransposePitch(p *pitch.Pitch) *pitch.Pitch
}

// Generic is a signed diatonic size: 2 is a second up, -2 a second down.
// Quality is left to whoever sets the accidental afterwards.
type Generic int

func (g Generic) staffSteps() int {
	switch {
	case g > 0:
		return int(g) - 1
	case g < 0:
		return int(g) + 1
	}
	return 0
}

// TransposePitch moves the step and keeps the accidental as it was.
func (g Generic) TransposePitch(p *pitch.Pitch) *pitch.Pitch {
	c := p.Clone()
	c.SetDiatonicNumber(p.DiatonicNumber() + g.staffSteps())
	return c
}

func (g Generic) Reverse() Generic {
	if g == 1 || g == -1 {
		return g
	}
	return -g
}

func (g Generic) String() string {
	return strconv.Itoa(int(g))
}

type Interval struct {
	Generic   Generic
	Semitones float64
}

func New(generic Generic, semitones float64) Interval {
	return Interval{Generic: generic, Semitones: semitones}
}

// Between measures from p1 to p2.
func Between(p1, p2 *pitch.Pitch) Interval {
	d := p2.DiatonicNumber() - p1.DiatonicNumber()
	g := d + 1
	if d < 0 {
		g = d - 1
	}
	return Interval{Generic: Generic(g), Semitones: p2.PS() - p1.PS()}
}

// TransposePitch spells the result on the target step; the accidental is
// nil when the result is natural.
func (i Interval) TransposePitch(p *pitch.Pitch) *pitch.Pitch {
	c := p.Clone()
	c.Accidental = nil
	c.SetDiatonicNumber(p.DiatonicNumber() + i.Generic.staffSteps())
	alter := p.PS() + i.Semitones - c.NaturalPS()
	if alter != 0 {
		c.Accidental = pitch.AccidentalFromAlter(alter)
		if c.Accidental == nil {
			c.Accidental = &pitch.Accidental{
				Name:        fmt.Sprintf("alter%+g", alter),
				Alter:       alter,
				DisplayType: pitch.DisplayNormal,
			}
		}
	}
	return c
}

func (i Interval) Reverse() Interval {
	return Interval{Generic: i.Generic.Reverse(), Semitones: -i.Semitones}
}

func (i Interval) IsDescending() bool {
	if i.Generic == 1 || i.Generic == -1 {
		return i.Semitones < 0
	}
	return i.Generic < 0
}

var perfectSizes = map[int]bool{0: true, 3: true, 4: true}

var majorSemitones = []int{0, 2, 4, 5, 7, 9, 11}

func baseSemitones(size int) (int, bool) {
	simple := (size - 1) % 7
	return majorSemitones[simple] + 12*((size-1)/7), perfectSizes[simple]
}

// Name gives the conventional label, descending intervals carry a minus:
// "m-2", "M2", "A-2", "P5".
func (i Interval) Name() string {
	size := int(i.Generic)
	if size < 0 {
		size = -size
	}
	if size == 0 {
		size = 1
	}
	semis := math.Abs(i.Semitones)
	sign := ""
	if i.IsDescending() {
		sign = "-"
	}
	return quality(size, semis) + sign + strconv.Itoa(size)
}

func (i Interval) String() string {
	return i.Name()
}

func quality(size int, semis float64) string {
	base, perfect := baseSemitones(size)
	diff := semis - float64(base)
	if diff != math.Trunc(diff) {
		return "~"
	}
	d := int(diff)
	if perfect {
		switch {
		case d == 0:
			return "P"
		case d > 0:
			return strings.Repeat("A", d)
		default:
			return strings.Repeat("d", -d)
		}
	}
	switch {
	case d == 0:
		return "M"
	case d == -1:
		return "m"
	case d > 0:
		return strings.Repeat("A", d)
	default:
		return strings.Repeat("d", -d-1)
	}
}

var namePattern = regexp.MustCompile(`^(P|M|m|A+|d+)(-?)(\d+)$`)

// Parse reads names produced by Name.
func Parse(name string) (Interval, error) {
	m := namePattern.FindStringSubmatch(strings.TrimSpace(name))
	if m == nil {
		return Interval{}, fmt.Errorf("invalid interval %q", name)
	}
	size, _ := strconv.Atoi(m[3])
	if size == 0 {
		return Interval{}, fmt.Errorf("invalid interval %q", name)
	}
	base, perfect := baseSemitones(size)
	q := m[1]
	var semis int
	switch {
	case q == "P" && perfect:
		semis = base
	case q == "M" && !perfect:
		semis = base
	case q == "m" && !perfect:
		semis = base - 1
	case q[0] == 'A':
		semis = base + len(q)
	case q[0] == 'd' && perfect:
		semis = base - len(q)
	case q[0] == 'd':
		semis = base - len(q) - 1
	default:
		return Interval{}, fmt.Errorf("invalid quality in interval %q", name)
	}
	g := Generic(size)
	if m[2] == "-" {
		semis = -semis
		if size != 1 {
			g = -g
		}
	}
	return Interval{Generic: g, Semitones: float64(semis)}, nil
}

func MustParse(name string) Interval {
	i, err := Parse(name)
	if err != nil {
		panic(err)
	}
	return i
}
