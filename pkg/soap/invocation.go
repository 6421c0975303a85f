package soap

import (
	"slices"
)

// Invocation is the call-site view over an overload set. Narrowing
// returns a new Invocation; the receiver stays usable.
type Invocation struct {
	name       string
	candidates []*Operation
}

// Call is a resolved operation with its bound input parts.
type Call struct {
	Operation *Operation
	Args      Bound
}

func (i *Invocation) Name() string {
	return i.name
}

func (i *Invocation) Candidates() []*Operation {
	return slices.Clone(i.candidates)
}

func (i *Invocation) Resolved() bool {
	return len(i.candidates) == 1
}

// Method returns the pinned operation, or nil while unresolved.
func (i *Invocation) Method() *Operation {
	if !i.Resolved() {
		return nil
	}

	return i.candidates[0]
}

func (i *Invocation) ByIndex(index int) (*Invocation, error) {
	if index < 0 || index >= len(i.candidates) {
		return nil, newError(i.name, ErrIndexOutOfRange, "index %d, %d candidates", index, len(i.candidates))
	}

	return i.narrow(i.candidates[index : index+1]), nil
}

func (i *Invocation) AcceptingMessage(message string) (*Invocation, error) {
	return i.single("accepting message "+message, func(o *Operation) bool {
		return o.Accepts == message
	})
}

func (i *Invocation) ReturningMessage(message string) (*Invocation, error) {
	return i.single("returning message "+message, func(o *Operation) bool {
		return o.Returns == message
	})
}

// AcceptingArgs keeps the candidates whose input parts include every name.
func (i *Invocation) AcceptingArgs(names ...string) (*Invocation, error) {
	var result []*Operation

	for _, c := range i.candidates {
		ok := true

		for _, n := range names {
			if !c.HasInput(n) {
				ok = false
				break
			}
		}

		if ok {
			result = append(result, c)
		}
	}

	if len(result) == 0 {
		return nil, newError(i.name, ErrMethodNotFound, "no candidate accepts %v", names)
	}

	return i.narrow(result), nil
}

// Resolve picks the operation the arguments address and binds them.
func (i *Invocation) Resolve(args Args) (*Call, error) {
	op, err := Resolve(i.name, i.candidates, args)

	if err != nil {
		return nil, err
	}

	bound, err := Bind(op, args)

	if err != nil {
		return nil, err
	}

	return &Call{
		Operation: op,
		Args:      bound,
	}, nil
}

func (i *Invocation) single(what string, match func(*Operation) bool) (*Invocation, error) {
	var result []*Operation

	for _, c := range i.candidates {
		if match(c) {
			result = append(result, c)
		}
	}

	switch len(result) {
	case 0:
		return nil, newError(i.name, ErrMethodNotFound, "no candidate %s", what)
	case 1:
		return i.narrow(result), nil
	default:
		return nil, newError(i.name, ErrAmbiguousSchema, "%d candidates %s", len(result), what)
	}
}

func (i *Invocation) narrow(candidates []*Operation) *Invocation {
	return &Invocation{
		name:       i.name,
		candidates: slices.Clip(candidates),
	}
}
