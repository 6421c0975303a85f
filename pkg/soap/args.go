package soap

import (
	"maps"
	"slices"
)

type noValue struct{}

func (noValue) String() string {
	return "<no value>"
}

// NoValue marks a part as explicitly omitted. It has the same effect as
// leaving the part out of the call.
var NoValue any = noValue{}

// IsAbsent reports whether v is nil or NoValue.
func IsAbsent(v any) bool {
	if v == nil {
		return true
	}

	_, ok := v.(noValue)
	return ok
}

type Args struct {
	Positional []any
	Keywords   map[string]any
}

func Positional(values ...any) Args {
	return Args{
		Positional: values,
	}
}

func Keywords(kv map[string]any) Args {
	return Args{
		Keywords: kv,
	}
}

func (a Args) HasPositional() bool {
	return len(a.Positional) > 0
}

func (a Args) HasKeywords() bool {
	return len(a.Keywords) > 0
}

func (a Args) Empty() bool {
	return !a.HasPositional() && !a.HasKeywords()
}

func (a Args) keys() []string {
	return slices.Sorted(maps.Keys(a.Keywords))
}
