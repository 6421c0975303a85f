package soap

type Part struct {
	Name  string
	Value any
}

// Bound holds the input parts of a call in declaration order. Parts
// without a value are not present.
type Bound []Part

func (b Bound) Get(name string) (any, bool) {
	for _, p := range b {
		if p.Name == name {
			return p.Value, true
		}
	}

	return nil, false
}

func (b Bound) Has(name string) bool {
	_, ok := b.Get(name)
	return ok
}

func (b Bound) Names() []string {
	var result []string

	for _, p := range b {
		result = append(result, p.Name)
	}

	return result
}

func (b Bound) Map() map[string]any {
	result := make(map[string]any, len(b))

	for _, p := range b {
		result[p.Name] = p.Value
	}

	return result
}

// Bind maps positional and keyword arguments onto the input parts of op.
// Sequence values bind as a single part and keep their order.
func Bind(op *Operation, args Args) (Bound, error) {
	if len(args.Positional) > len(op.Input) {
		return nil, newError(op.Name, ErrTooManyArguments, "takes %d arguments, %d given", len(op.Input), len(args.Positional))
	}

	values := make(map[string]any, len(op.Input))

	for i, v := range args.Positional {
		values[op.Input[i]] = v
	}

	for _, k := range args.keys() {
		if !op.HasInput(k) {
			return nil, newError(op.Name, ErrMethodNotFound, "unexpected argument %q", k)
		}

		if _, ok := values[k]; ok {
			return nil, newError(op.Name, ErrTooManyArguments, "argument %q given by position and keyword", k)
		}

		values[k] = args.Keywords[k]
	}

	var result Bound

	for _, name := range op.Input {
		v, ok := values[name]

		if !ok || IsAbsent(v) {
			continue
		}

		result = append(result, Part{
			Name:  name,
			Value: v,
		})
	}

	return result, nil
}
