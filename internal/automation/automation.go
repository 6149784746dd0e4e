package automation

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/gridfx/internal/config"
	"github.com/san-kum/gridfx/internal/engine"
	"github.com/san-kum/gridfx/internal/sim"
	"github.com/san-kum/gridfx/internal/surface"
)

// Scenario is a scripted headless run: a starting configuration and a
// timeline of option changes.
type Scenario struct {
	Name        string        `yaml:"name"`
	Description string        `yaml:"description"`
	Variant     string        `yaml:"variant"`
	Preset      string        `yaml:"preset"`
	Options     yaml.Node     `yaml:"options"`
	Duration    time.Duration `yaml:"duration"`
	HostHz      float64       `yaml:"host_hz"`
	Width       float64       `yaml:"width"`
	Height      float64       `yaml:"height"`
	DPR         float64       `yaml:"dpr"`
	Cues        []Cue         `yaml:"cues"`
}

// Cue sets option keys once the run reaches At.
type Cue struct {
	At  time.Duration `yaml:"at"`
	Set yaml.Node     `yaml:"set"`
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseScenario(data)
}

func ParseScenario(data []byte) (*Scenario, error) {
	sc := Scenario{HostHz: 60, Width: 480, Height: 270, DPR: 1}
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, err
	}
	if sc.Duration <= 0 {
		return nil, fmt.Errorf("scenario %q: duration must be positive", sc.Name)
	}
	opts, err := sc.Initial()
	if err != nil {
		return nil, err
	}
	for i, c := range sc.Cues {
		trial := *opts
		if err := overlay(&c.Set, &trial); err != nil {
			return nil, fmt.Errorf("cue %d: %w", i+1, err)
		}
	}
	return &sc, nil
}

// Initial is the option set the run starts from: variant defaults, then
// the preset, then the scenario's own options.
func (sc *Scenario) Initial() (*config.Options, error) {
	if _, err := engine.LookupVariant(sc.Variant); err != nil {
		return nil, err
	}
	opts := config.DefaultOptions(sc.Variant)
	if sc.Preset != "" {
		if opts = config.GetPreset(sc.Variant, sc.Preset); opts == nil {
			return nil, fmt.Errorf("unknown %s preset: %s", sc.Variant, sc.Preset)
		}
	}
	if err := overlay(&sc.Options, opts); err != nil {
		return nil, fmt.Errorf("options: %w", err)
	}
	opts.Variant = sc.Variant
	return opts, opts.Validate()
}

func (sc *Scenario) Config() sim.Config {
	return sim.Config{
		HostHz:   sc.HostHz,
		Duration: sc.Duration,
		Box:      surface.Size{Width: sc.Width, Height: sc.Height, DPR: sc.DPR},
		Start:    time.Unix(0, 0),
	}
}

// RunScenario executes the scenario on s. Extra observers see every frame.
func RunScenario(ctx context.Context, sc *Scenario, s surface.Surface, observers ...engine.Observer) (*sim.Result, error) {
	opts, err := sc.Initial()
	if err != nil {
		return nil, err
	}
	if opts.Seed == 0 {
		opts.Seed = time.Now().UnixNano()
	}

	run := sim.New(s, *opts)
	for _, o := range observers {
		run.AddObserver(o)
	}
	for _, c := range sc.Cues {
		set := c.Set
		run.AddCue(c.At, func(o *config.Options) {
			variant := o.Variant
			// keys were checked at parse time
			_ = overlay(&set, o)
			o.Variant = variant
		})
	}
	engine.Logger().Info("scenario", "name", sc.Name, "cues", len(sc.Cues), "duration", sc.Duration)
	return run.Run(ctx, sc.Config())
}

// overlay decodes a yaml mapping over opts, rejecting unknown keys.
func overlay(n *yaml.Node, opts *config.Options) error {
	if n.IsZero() {
		return nil
	}
	data, err := yaml.Marshal(n)
	if err != nil {
		return err
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	return dec.Decode(opts)
}
