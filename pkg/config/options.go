package config

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"time"
)

var (
	ErrUnknownOption = errors.New("unknown option")
	ErrInvalidOption = errors.New("invalid option value")
)

type Kind string

const (
	KindBool     Kind = "bool"
	KindString   Kind = "string"
	KindDuration Kind = "duration"
)

// Definition declares an option with its value kind and default.
type Definition struct {
	Name    string
	Kind    Kind
	Default any
}

const (
	OptionPrettyXML = "prettyxml"
	OptionRetXML    = "retxml"
	OptionTimeout   = "timeout"
	OptionLocation  = "location"
	OptionCache     = "cache"
	OptionFaults    = "faults"
)

var Definitions = []Definition{
	{Name: OptionPrettyXML, Kind: KindBool, Default: false},
	{Name: OptionRetXML, Kind: KindBool, Default: false},
	{Name: OptionTimeout, Kind: KindDuration, Default: 90 * time.Second},
	{Name: OptionLocation, Kind: KindString, Default: ""},
	{Name: OptionCache, Kind: KindDuration, Default: 24 * time.Hour},
	{Name: OptionFaults, Kind: KindBool, Default: true},
}

// Options holds validated option values, primed with their defaults.
type Options struct {
	definitions map[string]Definition
	values      map[string]any
}

func NewOptions(values map[string]any) (*Options, error) {
	o := &Options{
		definitions: map[string]Definition{},
		values:      map[string]any{},
	}

	for _, d := range Definitions {
		o.definitions[d.Name] = d
		o.values[d.Name] = d.Default
	}

	for _, name := range slices.Sorted(maps.Keys(values)) {
		if err := o.Set(name, values[name]); err != nil {
			return nil, err
		}
	}

	return o, nil
}

// Set validates and stores a value. A nil value restores the default.
func (o *Options) Set(name string, value any) error {
	d, ok := o.definitions[name]

	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownOption, name)
	}

	if value == nil {
		o.values[name] = d.Default
		return nil
	}

	v, err := coerce(d.Kind, value)

	if err != nil {
		return fmt.Errorf("%w: %q must be %s: %v", ErrInvalidOption, name, d.Kind, err)
	}

	o.values[name] = v
	return nil
}

// Get returns the value of name. When the value still equals the default and
// a fallback is given, the fallback is returned instead.
func (o *Options) Get(name string, fallback ...any) any {
	d, ok := o.definitions[name]

	if !ok {
		return nil
	}

	v := o.values[name]

	if v == d.Default && len(fallback) > 0 {
		return fallback[0]
	}

	return v
}

func (o *Options) Bool(name string) bool {
	v, _ := o.Get(name).(bool)
	return v
}

func (o *Options) String(name string) string {
	v, _ := o.Get(name).(string)
	return v
}

func (o *Options) Duration(name string) time.Duration {
	v, _ := o.Get(name).(time.Duration)
	return v
}

func coerce(kind Kind, value any) (any, error) {
	switch kind {
	case KindBool:
		if v, ok := value.(bool); ok {
			return v, nil
		}

	case KindString:
		if v, ok := value.(string); ok {
			return v, nil
		}

	case KindDuration:
		switch v := value.(type) {
		case time.Duration:
			return v, nil
		case string:
			return time.ParseDuration(v)
		case int:
			return time.Duration(v) * time.Second, nil
		case float64:
			return time.Duration(v * float64(time.Second)), nil
		}
	}

	return nil, fmt.Errorf("got %T", value)
}
