package soap

import (
	"slices"
	"strings"
)

type Style string

const (
	StyleDocument Style = "document"
	StyleRPC      Style = "rpc"
)

// Operation is one concrete signature of a (possibly overloaded) operation.
type Operation struct {
	Name string

	Input  []string
	Output []string

	Accepts string
	Returns string

	Action    string
	Namespace string
	Style     Style

	// Element is the body wrapper element name, Name when empty.
	Element string
}

func (o *Operation) Wrapper() string {
	if o.Element != "" {
		return o.Element
	}

	return o.Name
}

func (o *Operation) HasInput(name string) bool {
	return slices.Contains(o.Input, name)
}

// Key is the order-insensitive identity of the input part set.
func (o *Operation) Key() string {
	names := slices.Clone(o.Input)
	slices.Sort(names)

	return strings.Join(names, "\x00")
}

func (o *Operation) String() string {
	return o.Name + "(" + strings.Join(o.Input, ", ") + ") -> (" + strings.Join(o.Output, ", ") + ")"
}

func sameParts(o *Operation, names []string) bool {
	if len(o.Input) != len(names) {
		return false
	}

	for _, n := range names {
		if !o.HasInput(n) {
			return false
		}
	}

	return true
}
