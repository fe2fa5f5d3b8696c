package note

// TextExpression is a plain written direction ("dolce", "rit.").
type TextExpression struct {
	Content string
}

func (t *TextExpression) Name() string {
	return "text expression"
}

type Fermata struct {
	// "upright" or "inverted"
	Type  string
	Shape string
}

func NewFermata() *Fermata {
	return &Fermata{Type: "inverted", Shape: "normal"}
}

func (f *Fermata) Name() string {
	return "fermata"
}
