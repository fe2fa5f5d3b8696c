// Package score reads and writes ornamented scores as YAML (or JSON, which
// the YAML decoder also accepts).
//
//	title: Minuet
//	key: "1"
//	measures:
//	  - notes:
//	      - pitch: G4
//	        ql: 1
//	        ornaments:
//	          - kind: trill
//	            nachschlag: true
//	      - pitch: F#4
//	        ql: 1/2
package score

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/jsphweid/ornamentum/duration"
	"github.com/jsphweid/ornamentum/key"
	"github.com/jsphweid/ornamentum/note"
	"github.com/jsphweid/ornamentum/ornament"
	"github.com/jsphweid/ornamentum/stream"
	"gopkg.in/yaml.v3"
)

type Note struct {
	// empty for an unpitched event
	Pitch     string           `yaml:"pitch,omitempty" json:"pitch,omitempty"`
	QL        string           `yaml:"ql" json:"ql"`
	Ornaments []map[string]any `yaml:"ornaments,omitempty" json:"ornaments,omitempty"`
	Text      string           `yaml:"text,omitempty" json:"text,omitempty"`
	Fermata   bool             `yaml:"fermata,omitempty" json:"fermata,omitempty"`
	// normal, up, down or non-arpeggio
	Arpeggio string `yaml:"arpeggio,omitempty" json:"arpeggio,omitempty"`
}

type Measure struct {
	// overrides the score key for this measure
	Key   string `yaml:"key,omitempty" json:"key,omitempty"`
	Notes []Note `yaml:"notes" json:"notes"`
}

type File struct {
	Title    string    `yaml:"title,omitempty" json:"title,omitempty"`
	Key      string    `yaml:"key,omitempty" json:"key,omitempty"`
	Measures []Measure `yaml:"measures" json:"measures"`
}

func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read score: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse score: %w", err)
	}
	return &f, nil
}

func (f *File) Marshal() ([]byte, error) {
	return yaml.Marshal(f)
}

func parseKey(s string, fallback *key.Signature) (*key.Signature, error) {
	if strings.TrimSpace(s) == "" {
		return fallback, nil
	}
	return key.Parse(s)
}

// Build turns the file into measures. defaultKey applies when neither the
// file nor the measure names a key; it may be nil.
func (f *File) Build(defaultKey *key.Signature) ([]*stream.Measure, error) {
	fileKey, err := parseKey(f.Key, defaultKey)
	if err != nil {
		return nil, err
	}
	res := make([]*stream.Measure, 0, len(f.Measures))
	for i, ms := range f.Measures {
		ks, err := parseKey(ms.Key, fileKey)
		if err != nil {
			return nil, fmt.Errorf("measure %d: %w", i+1, err)
		}
		m := stream.NewMeasure(i+1, ks)
		for j, ns := range ms.Notes {
			n, err := ns.build()
			if err != nil {
				return nil, fmt.Errorf("measure %d note %d: %w", i+1, j+1, err)
			}
			m.Append(n)
		}
		res = append(res, m)
	}
	return res, nil
}

func (ns Note) build() (*note.Note, error) {
	ql := duration.Quarter()
	if ns.QL != "" {
		var err error
		if ql, err = duration.Parse(ns.QL); err != nil {
			return nil, err
		}
	}

	var n *note.Note
	if ns.Pitch == "" {
		n = note.Unpitched(ql)
	} else {
		var err error
		if n, err = note.Parse(ns.Pitch, ql); err != nil {
			return nil, err
		}
	}

	for _, raw := range ns.Ornaments {
		o, err := DecodeOrnament(raw)
		if err != nil {
			return nil, err
		}
		n.Expressions = append(n.Expressions, o)
	}
	if ns.Text != "" {
		n.Expressions = append(n.Expressions, &note.TextExpression{Content: ns.Text})
	}
	if ns.Fermata {
		n.Expressions = append(n.Expressions, note.NewFermata())
	}
	if ns.Arpeggio != "" {
		a, err := ornament.NewArpeggioMark(ns.Arpeggio)
		if err != nil {
			return nil, err
		}
		n.Expressions = append(n.Expressions, a)
	}
	return n, nil
}

// FromMeasures writes measures back out, keeping ornaments that survive on
// the notes (normally none, after realization).
func FromMeasures(title string, measures []*stream.Measure) *File {
	f := &File{Title: title}
	for _, m := range measures {
		var ms Measure
		if m.Key != nil {
			ms.Key = strconv.Itoa(m.Key.Sharps)
		}
		for _, n := range m.Notes {
			ns := Note{QL: duration.String(n.Duration)}
			if n.IsPitched() {
				ns.Pitch = n.Pitch.NameWithOctave()
			}
			for _, e := range n.Expressions {
				switch x := e.(type) {
				case *ornament.Ornament:
					ns.Ornaments = append(ns.Ornaments, EncodeOrnament(x))
				case *note.TextExpression:
					ns.Text = x.Content
				case *note.Fermata:
					ns.Fermata = true
				case *ornament.ArpeggioMark:
					ns.Arpeggio = x.Type
				}
			}
			ms.Notes = append(ms.Notes, ns)
		}
		f.Measures = append(f.Measures, ms)
	}
	return f
}
