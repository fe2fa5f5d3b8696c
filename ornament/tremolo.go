package ornament

import (
	"github.com/jsphweid/ornamentum/duration"
	"github.com/jsphweid/ornamentum/interval"
	"github.com/jsphweid/ornamentum/key"
	"github.com/jsphweid/ornamentum/note"
)

func tremoloSize(*Ornament, *note.Note, *key.Signature, Which) (interval.Interval, error) {
	return interval.New(1, 0), nil
}

// realizeTremolo cuts the note into repeated strokes of 2^-marks quarter
// lengths. The last stroke takes whatever is left.
func realizeTremolo(o *Ornament, n *note.Note, _ *key.Signature, inPlace bool) (Realization, error) {
	if err := checkTimed(n); err != nil {
		return Realization{}, err
	}
	each := duration.Pow2(o.numberOfMarks)

	rest := n
	if !inPlace {
		rest = n.Clone()
	}
	rest.RemoveExpression(o)

	var strokes []*note.Note
	for duration.Less(each, rest.Duration) {
		stroke := rest.Clone()
		stroke.Duration = duration.Copy(each)
		strokes = append(strokes, stroke)
		rest.Duration = duration.Sub(rest.Duration, each)
		rest.Offset = duration.Add(duration.Copy(rest.Offset), each)
	}
	return Realization{Pre: append(strokes, rest)}, nil
}
