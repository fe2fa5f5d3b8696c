// Package note is the notated event that ornaments attach to.
package note

import (
	"fmt"
	"math/big"

	"github.com/jsphweid/ornamentum/duration"
	"github.com/jsphweid/ornamentum/interval"
	"github.com/jsphweid/ornamentum/key"
	"github.com/jsphweid/ornamentum/pitch"
)

// Expression is anything attached to a note: ornaments, fermatas, text.
type Expression interface {
	Name() string
}

// Context is whatever encloses a note and can answer for its key signature.
type Context interface {
	KeySignature() *key.Signature
}

type Note struct {
	// nil for unpitched events
	Pitch       *pitch.Pitch
	Duration    *big.Rat
	Offset      *big.Rat
	Expressions []Expression
	Context     Context
}

func New(p *pitch.Pitch, ql *big.Rat) *Note {
	return &Note{Pitch: p, Duration: duration.Copy(ql), Offset: duration.Zero()}
}

func Parse(name string, ql *big.Rat) (*Note, error) {
	p, err := pitch.Parse(name)
	if err != nil {
		return nil, err
	}
	return New(p, ql), nil
}

func MustParse(name string, ql *big.Rat) *Note {
	n, err := Parse(name, ql)
	if err != nil {
		panic(err)
	}
	return n
}

func Unpitched(ql *big.Rat) *Note {
	return New(nil, ql)
}

func (n *Note) IsPitched() bool {
	return n.Pitch != nil
}

// Clone copies pitch and timing. Expressions keep their identity so an
// ornament can still find itself in the copy's list.
func (n *Note) Clone() *Note {
	c := &Note{
		Pitch:    n.Pitch.Clone(),
		Duration: duration.Copy(n.Duration),
		Offset:   duration.Copy(n.Offset),
		Context:  n.Context,
	}
	if n.Expressions != nil {
		c.Expressions = append([]Expression(nil), n.Expressions...)
	}
	return c
}

func (n *Note) Transpose(t interval.Transposer) {
	if n.Pitch == nil {
		return
	}
	n.Pitch = t.TransposePitch(n.Pitch)
}

// KeySignature searches the enclosing context; nil when there is none.
func (n *Note) KeySignature() *key.Signature {
	if n.Context == nil {
		return nil
	}
	return n.Context.KeySignature()
}

func (n *Note) IndexOfExpression(e Expression) int {
	for i, x := range n.Expressions {
		if x == e {
			return i
		}
	}
	return -1
}

// RemoveExpression drops the first occurrence of e.
func (n *Note) RemoveExpression(e Expression) bool {
	i := n.IndexOfExpression(e)
	if i == -1 {
		return false
	}
	n.Expressions = append(n.Expressions[:i:i], n.Expressions[i+1:]...)
	return true
}

func (n *Note) String() string {
	name := "unpitched"
	if n.Pitch != nil {
		name = n.Pitch.NameWithOctave()
	}
	return fmt.Sprintf("%s(%s)", name, duration.String(n.Duration))
}
