package pitch

import (
	"fmt"
	"strconv"
	"strings"
)

type Step int

const (
	C Step = iota
	D
	E
	F
	G
	A
	B
)

var stepNames = []string{"C", "D", "E", "F", "G", "A", "B"}

var naturalSemitones = []int{0, 2, 4, 5, 7, 9, 11}

func (s Step) String() string {
	return stepNames[s]
}

func ParseStep(s string) (Step, error) {
	for i, name := range stepNames {
		if strings.EqualFold(name, s) {
			return Step(i), nil
		}
	}
	return 0, fmt.Errorf("invalid step %q", s)
}

type Pitch struct {
	Step       Step
	Octave     int
	Accidental *Accidental
}

func New(step Step, octave int, acc *Accidental) *Pitch {
	return &Pitch{Step: step, Octave: octave, Accidental: acc}
}

// Parse reads names such as "C4", "f#5", "B-3" or "E--". The octave
// defaults to 4.
func Parse(s string) (*Pitch, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("empty pitch name")
	}
	step, err := ParseStep(s[:1])
	if err != nil {
		return nil, err
	}
	rest := s[1:]
	i := len(rest)
	for i > 0 && (rest[i-1] >= '0' && rest[i-1] <= '9') {
		i--
	}
	// '-' is always a flat, so "C-1" is C flat in octave 1
	modifier, digits := rest[:i], rest[i:]
	octave := 4
	if digits != "" {
		octave, err = strconv.Atoi(digits)
		if err != nil {
			return nil, fmt.Errorf("invalid octave in %q", s)
		}
	}
	p := &Pitch{Step: step, Octave: octave}
	if modifier != "" {
		acc, err := NewAccidental(modifier)
		if err != nil {
			return nil, fmt.Errorf("invalid pitch %q: %w", s, err)
		}
		p.Accidental = acc
	}
	return p, nil
}

func MustParse(s string) *Pitch {
	p, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return p
}

func (p *Pitch) Alter() float64 {
	if p.Accidental == nil {
		return 0
	}
	return p.Accidental.Alter
}

// PS is the pitch-space value, C4 = 60.
func (p *Pitch) PS() float64 {
	return float64((p.Octave+1)*12+naturalSemitones[p.Step]) + p.Alter()
}

// DiatonicNumber counts steps from C0.
func (p *Pitch) DiatonicNumber() int {
	return p.Octave*7 + int(p.Step)
}

// SetDiatonicNumber moves the pitch to another step without touching the
// accidental.
func (p *Pitch) SetDiatonicNumber(n int) {
	octave := n / 7
	step := n % 7
	if step < 0 {
		step += 7
		octave--
	}
	p.Step = Step(step)
	p.Octave = octave
}

func (p *Pitch) NaturalPS() float64 {
	return float64((p.Octave+1)*12 + naturalSemitones[p.Step])
}

func (p *Pitch) Name() string {
	if p.Accidental == nil {
		return p.Step.String()
	}
	return p.Step.String() + p.Accidental.Modifier()
}

func (p *Pitch) NameWithOctave() string {
	return p.Name() + strconv.Itoa(p.Octave)
}

func (p *Pitch) String() string {
	return p.NameWithOctave()
}

func (p *Pitch) Clone() *Pitch {
	if p == nil {
		return nil
	}
	c := *p
	c.Accidental = p.Accidental.Clone()
	return &c
}
