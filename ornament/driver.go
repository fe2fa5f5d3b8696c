package ornament

import (
	"fmt"

	"github.com/jsphweid/ornamentum/key"
	"github.com/jsphweid/ornamentum/note"
)

// Realizer is an expression that can turn its host note into performed
// notes. RealizeInPlace may consume the note it is given.
type Realizer interface {
	note.Expression
	Realizable() bool
	RealizeInPlace(n *note.Note, ks *key.Signature) (Realization, error)
}

var _ Realizer = (*Ornament)(nil)

// RealizeOrnaments expands every ornament on n, first to last, and returns
// the notes actually played. Expressions that cannot be realized are
// dropped. n itself is never modified.
func RealizeOrnaments(n *note.Note, ks *key.Signature) ([]*note.Note, error) {
	if len(n.Expressions) == 0 {
		return []*note.Note{n}, nil
	}

	cur := n.Clone()
	var pre, post []*note.Note
	for cur != nil && len(cur.Expressions) > 0 {
		before := len(cur.Expressions)
		rest := append([]note.Expression(nil), cur.Expressions[1:]...)

		r, ok := cur.Expressions[0].(Realizer)
		if !ok || !r.Realizable() {
			cur.Expressions = rest
			mustShrink(before, cur)
			continue
		}

		res, err := r.RealizeInPlace(cur, ks)
		if err != nil {
			return nil, fmt.Errorf("realize %s on %s: %w", r.Name(), cur, err)
		}
		pre = append(pre, res.Pre...)
		post = append(post, res.Post...)
		if res.Main == nil {
			cur = nil
			break
		}
		res.Main.Expressions = rest
		cur = res.Main
		mustShrink(before, cur)
	}

	out := make([]*note.Note, 0, len(pre)+len(post)+1)
	out = append(out, pre...)
	if cur != nil {
		out = append(out, cur)
	}
	return append(out, post...), nil
}

func mustShrink(before int, cur *note.Note) {
	if len(cur.Expressions) >= before {
		panic(fmt.Sprintf("ornament: expression list on %s did not shrink (%d -> %d)", cur, before, len(cur.Expressions)))
	}
}
