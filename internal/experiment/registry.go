package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/gridfx/internal/config"
)

// Param sets one numeric option for a sweep point.
type Param func(o *config.Options, v float64)

type Registry struct {
	params map[string]map[string]Param
}

func NewRegistry() *Registry {
	r := &Registry{params: make(map[string]map[string]Param)}

	r.Register(config.VariantEmber, "cooling", func(o *config.Options, v float64) { o.Cooling = v })
	r.Register(config.VariantEmber, "wind", func(o *config.Options, v float64) { o.Wind = v })
	r.Register(config.VariantEmber, "ignition", func(o *config.Options, v float64) { o.Ignition = v })
	r.Register(config.VariantFlicker, "flicker_chance", func(o *config.Options, v float64) { o.FlickerChance = v })
	r.Register(config.VariantFlicker, "max_opacity", func(o *config.Options, v float64) { o.MaxOpacity = v })
	for _, variant := range []string{config.VariantEmber, config.VariantFlicker} {
		r.Register(variant, "target_fps", func(o *config.Options, v float64) { o.TargetFPS = v })
	}

	return r
}

func (r *Registry) Register(variant, name string, p Param) {
	if r.params[variant] == nil {
		r.params[variant] = make(map[string]Param)
	}
	r.params[variant][name] = p
}

func (r *Registry) GetParam(variant, name string) (Param, error) {
	p, ok := r.params[variant][name]
	if !ok {
		return nil, fmt.Errorf("unknown %s parameter: %s", variant, name)
	}
	return p, nil
}

func (r *Registry) ListParams(variant string) []string {
	names := make([]string, 0, len(r.params[variant]))
	for name := range r.params[variant] {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
