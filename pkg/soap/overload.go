package soap

import (
	"slices"
)

// OverloadSet groups every signature declared under one operation name,
// in declaration order. It is read-only once built.
type OverloadSet struct {
	name    string
	members []*Operation
}

func NewOverloadSet(name string, members ...*Operation) *OverloadSet {
	return &OverloadSet{
		name:    name,
		members: slices.Clone(members),
	}
}

func (s *OverloadSet) Name() string {
	return s.name
}

func (s *OverloadSet) Len() int {
	return len(s.members)
}

func (s *OverloadSet) Overloaded() bool {
	return len(s.members) > 1
}

func (s *OverloadSet) Members() []*Operation {
	return slices.Clone(s.members)
}

// Validate reports members that cannot be told apart by keyword.
func (s *OverloadSet) Validate() error {
	seen := map[string]int{}

	for i, m := range s.members {
		key := m.Key()

		if j, ok := seen[key]; ok {
			return newError(s.name, ErrAmbiguousSchema, "members %d and %d accept the same parts", j, i)
		}

		seen[key] = i
	}

	return nil
}

func (s *OverloadSet) Invocation() *Invocation {
	return &Invocation{
		name:       s.name,
		candidates: s.members,
	}
}

func (s *OverloadSet) ByIndex(i int) (*Invocation, error) {
	return s.Invocation().ByIndex(i)
}

func (s *OverloadSet) AcceptingMessage(message string) (*Invocation, error) {
	return s.Invocation().AcceptingMessage(message)
}

func (s *OverloadSet) ReturningMessage(message string) (*Invocation, error) {
	return s.Invocation().ReturningMessage(message)
}

func (s *OverloadSet) AcceptingArgs(names ...string) (*Invocation, error) {
	return s.Invocation().AcceptingArgs(names...)
}
