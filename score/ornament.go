package score

import (
	"fmt"

	"github.com/jsphweid/ornamentum/duration"
	"github.com/jsphweid/ornamentum/ornament"
	"github.com/mitchellh/mapstructure"
)

// OrnamentSpec is the option map written under a note's "ornaments" key.
type OrnamentSpec struct {
	Kind       string `mapstructure:"kind"`
	Accidental string `mapstructure:"accidental"`
	Upper      string `mapstructure:"upper"`
	Lower      string `mapstructure:"lower"`
	Delay      string `mapstructure:"delay"`
	Nachschlag bool   `mapstructure:"nachschlag"`
	AutoScale  *bool  `mapstructure:"auto_scale"`
	QL         string `mapstructure:"ql"`
	Marks      *int   `mapstructure:"marks"`
	Measured   *bool  `mapstructure:"measured"`
}

// DecodeOrnament builds an ornament from a loosely typed option map, as it
// comes out of YAML or a JSON request body. Unknown keys are an error.
func DecodeOrnament(raw map[string]any) (*ornament.Ornament, error) {
	var spec OrnamentSpec
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &spec,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ornament.ErrConfiguration, err)
	}
	return spec.Build()
}

func (s OrnamentSpec) Build() (*ornament.Ornament, error) {
	kind, err := ornament.ParseKind(s.Kind)
	if err != nil {
		return nil, err
	}

	var opts []ornament.Option
	if s.Accidental != "" {
		opts = append(opts, ornament.WithAccidental(s.Accidental))
	}
	if s.Upper != "" {
		opts = append(opts, ornament.WithUpperAccidental(s.Upper))
	}
	if s.Lower != "" {
		opts = append(opts, ornament.WithLowerAccidental(s.Lower))
	}
	if s.Delay != "" {
		d, err := ornament.ParseDelay(s.Delay)
		if err != nil {
			return nil, err
		}
		opts = append(opts, ornament.WithDelay(d))
	}
	if s.Nachschlag {
		opts = append(opts, ornament.WithNachschlag(true))
	}
	if s.AutoScale != nil {
		opts = append(opts, ornament.WithAutoScale(*s.AutoScale))
	}
	if s.QL != "" {
		ql, err := duration.Parse(s.QL)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ornament.ErrConfiguration, err)
		}
		opts = append(opts, ornament.WithQuarterLength(ql))
	}
	if s.Marks != nil {
		opts = append(opts, ornament.WithMarks(*s.Marks))
	}
	o, err := ornament.New(kind, opts...)
	if err != nil {
		return nil, err
	}
	if s.Measured != nil {
		o.Measured = *s.Measured
	}
	return o, nil
}

// EncodeOrnament is the inverse of DecodeOrnament for the options that
// differ from the kind's defaults.
func EncodeOrnament(o *ornament.Ornament) map[string]any {
	res := map[string]any{"kind": o.Kind().String()}
	if o.AccidentalName() != "" {
		res["accidental"] = o.AccidentalName()
	}
	if o.UpperAccidentalName() != "" {
		res["upper"] = o.UpperAccidentalName()
	}
	if o.LowerAccidentalName() != "" {
		res["lower"] = o.LowerAccidentalName()
	}
	if o.IsDelayed() {
		res["delay"] = o.Delay().String()
	}
	if o.Nachschlag {
		res["nachschlag"] = true
	}
	if !o.AutoScale {
		res["auto_scale"] = false
	}
	if !o.HasDefaultQuarterLength() {
		res["ql"] = duration.String(o.QuarterLength())
	}
	if !o.Measured {
		res["measured"] = false
	}
	if o.Kind() == ornament.Tremolo {
		res["marks"] = o.NumberOfMarks()
	}
	return res
}
