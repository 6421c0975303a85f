package soap

// Resolve narrows candidates to the single operation a call addresses.
//
// A lone candidate is used as is. Among several, only keyword arguments
// can disambiguate, and their names must equal one candidate's input
// parts exactly: a subset or superset match is rejected rather than
// guessed.
func Resolve(name string, candidates []*Operation, args Args) (*Operation, error) {
	if len(candidates) == 1 {
		return candidates[0], nil
	}

	if len(candidates) == 0 {
		return nil, newError(name, ErrOverloadedNotMatching, "no candidates")
	}

	if args.HasPositional() {
		return nil, newError(name, ErrOverloadedWithPositionalArguments, "%d candidates, pin one before passing positional arguments", len(candidates))
	}

	if !args.HasKeywords() {
		return nil, newError(name, ErrOverloadedNotMatching, "%d candidates, no arguments to select one", len(candidates))
	}

	keys := args.keys()

	var match []*Operation

	for _, c := range candidates {
		if sameParts(c, keys) {
			match = append(match, c)
		}
	}

	switch len(match) {
	case 0:
		return nil, newError(name, ErrMethodNotFound, "no candidate accepts exactly %v", keys)
	case 1:
		return match[0], nil
	default:
		return nil, newError(name, ErrAmbiguousSchema, "%d candidates accept %v", len(match), keys)
	}
}
