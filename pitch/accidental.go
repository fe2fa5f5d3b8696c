package pitch

import (
	"errors"
	"fmt"
	"strings"
)

var ErrInvalidAccidental = errors.New("invalid accidental name")

// DisplayStatus is whether notation should print an accidental. Undetermined
// means no placement pass has decided yet.
type DisplayStatus int

const (
	Undetermined DisplayStatus = iota
	Shown
	Hidden
)

func (d DisplayStatus) String() string {
	switch d {
	case Shown:
		return "shown"
	case Hidden:
		return "hidden"
	default:
		return "undetermined"
	}
}

type DisplayType string

const (
	DisplayNormal   DisplayType = "normal"
	DisplayAlways   DisplayType = "always"
	DisplayNever    DisplayType = "never"
	DisplayEvenTied DisplayType = "even-tied"
)

type Accidental struct {
	Name        string
	Alter       float64
	Display     DisplayStatus
	DisplayType DisplayType
}

var accidentalAlters = map[string]float64{
	"natural":              0,
	"sharp":                1,
	"double-sharp":         2,
	"triple-sharp":         3,
	"quadruple-sharp":      4,
	"flat":                 -1,
	"double-flat":          -2,
	"triple-flat":          -3,
	"quadruple-flat":       -4,
	"half-sharp":           0.5,
	"one-and-a-half-sharp": 1.5,
	"half-flat":            -0.5,
	"one-and-a-half-flat":  -1.5,
}

// modifiers are the spellings used inside pitch names.
var modifiers = map[string]string{
	"natural":              "",
	"sharp":                "#",
	"double-sharp":         "##",
	"triple-sharp":         "###",
	"quadruple-sharp":      "####",
	"flat":                 "-",
	"double-flat":          "--",
	"triple-flat":          "---",
	"quadruple-flat":       "----",
	"half-sharp":           "~",
	"one-and-a-half-sharp": "#~",
	"half-flat":            "`",
	"one-and-a-half-flat":  "-`",
}

var aliases = map[string]string{
	"n":    "natural",
	"#":    "sharp",
	"##":   "double-sharp",
	"###":  "triple-sharp",
	"####": "quadruple-sharp",
	"-":    "flat",
	"--":   "double-flat",
	"---":  "triple-flat",
	"----": "quadruple-flat",
	"~":    "half-sharp",
	"#~":   "one-and-a-half-sharp",
	"`":    "half-flat",
	"-`":   "one-and-a-half-flat",
	"is":   "sharp",
	"isis": "double-sharp",
	"es":   "flat",
	"eses": "double-flat",
	"ih":   "half-sharp",
	"eh":   "half-flat",
}

// StandardizeAccidentalName maps an alias to its canonical name; ok is
// false for names that are not accidentals.
func StandardizeAccidentalName(name string) (string, bool) {
	key := strings.ToLower(strings.TrimSpace(name))
	if _, ok := accidentalAlters[key]; ok {
		return key, true
	}
	if std, ok := aliases[key]; ok {
		return std, true
	}
	return "", false
}

func IsValidAccidentalName(name string) bool {
	_, ok := StandardizeAccidentalName(name)
	return ok
}

func NewAccidental(name string) (*Accidental, error) {
	std, ok := StandardizeAccidentalName(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAccidental, name)
	}
	return &Accidental{Name: std, Alter: accidentalAlters[std], DisplayType: DisplayNormal}, nil
}

func MustAccidental(name string) *Accidental {
	a, err := NewAccidental(name)
	if err != nil {
		panic(err)
	}
	return a
}

func Natural() *Accidental {
	return MustAccidental("natural")
}

// AccidentalFromAlter returns nil for an unknown alteration.
func AccidentalFromAlter(alter float64) *Accidental {
	for name, a := range accidentalAlters {
		if a == alter {
			return MustAccidental(name)
		}
	}
	return nil
}

func (a *Accidental) Modifier() string {
	return modifiers[a.Name]
}

func (a *Accidental) Clone() *Accidental {
	if a == nil {
		return nil
	}
	c := *a
	return &c
}

// SetDisplay records a placement decision.
func (a *Accidental) SetDisplay(show bool) {
	if show {
		a.Display = Shown
	} else {
		a.Display = Hidden
	}
}

func (a *Accidental) String() string {
	return a.Name
}
