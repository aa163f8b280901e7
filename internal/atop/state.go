package atop

// State is the mutable bookkeeping of one multi-file run. It is created when
// the run starts, accumulates across every file of the run and is discarded
// with it; counters never reset at a file boundary.
type State struct {
	// SampleN increments at every RESET and SEP boundary, and once when a
	// file starts since the leading boundary of each file is discarded.
	SampleN int64
	// BootN increments only at a RESET boundary.
	BootN int64

	// kinds caches inferred field kinds per type tag.
	kinds map[string][]Kind
}

// NewState returns the state for a fresh run. SampleN starts at -1 so the
// first file's records land in sample 0.
func NewState() *State {
	return &State{SampleN: -1, kinds: map[string][]Kind{}}
}

func (s *State) beginFile() { s.SampleN++ }

func (s *State) reset() {
	s.BootN++
	s.SampleN++
}

func (s *State) sep() { s.SampleN++ }

// Kinds returns the cached kinds of the type-specific fields for tag.
func (s *State) Kinds(tag string) ([]Kind, bool) {
	k, ok := s.kinds[tag]
	return k, ok
}

// kindsFor returns the cached kinds for tag, inferring them from fields on
// first sight. Later samples never change a cached entry.
func (s *State) kindsFor(tag string, fields []string) []Kind {
	if k, ok := s.kinds[tag]; ok {
		return k
	}
	k := inferKinds(fields)
	s.kinds[tag] = k
	return k
}
