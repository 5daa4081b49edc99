package term

// Store is the content-addressed DAG of terms for a single run. It is owned
// exclusively by the runtime's single cooperative thread of control, so it
// carries no mutex: there is never a second goroutine to race against.
type Store struct {
	content map[string]ID // contentKey -> ID, for hash-consing lookups
	terms   map[ID]Term
	order   []ID // insertion order, preserved for deterministic snapshot replay

	maxTerms           int // 0 = unlimited
	termLimitExhausted bool

	validator Validator
}

// New creates an empty Store. maxTerms of 0 means unbounded.
func New(maxTerms int) *Store {
	return &Store{
		content:   make(map[string]ID),
		terms:     make(map[ID]Term),
		maxTerms:  maxTerms,
		validator: nil,
	}
}

// SetValidator attaches (or clears, with nil) the signature validator
// consulted on every future insertion.
func (s *Store) SetValidator(v Validator) {
	s.validator = v
}

func contentKey(symbol string, scale int, children []ID) string {
	return string(computeID(symbol, scale, children))
}

// Insert returns the canonical ID for (symbol, scale, children), inserting
// the term on first sight. Re-inserting identical content is idempotent and
// always succeeds, even once the term cap has been reached, because no new
// store entry is created.
func (s *Store) Insert(symbol string, scale int, children []ID) (ID, error) {
	if scale < 0 {
		return "", ErrNegativeScale
	}
	key := contentKey(symbol, scale, children)
	if id, ok := s.content[key]; ok {
		return id, nil
	}

	if s.validator != nil {
		if err := s.validator.Validate(symbol, scale, len(children)); err != nil {
			return "", err
		}
	}

	if s.maxTerms > 0 && len(s.terms) >= s.maxTerms {
		s.termLimitExhausted = true
		return "", ErrTermLimitExceeded
	}

	id := ID(key)
	term := Term{Symbol: symbol, Scale: scale, Children: append([]ID(nil), children...)}
	s.terms[id] = term
	s.content[key] = id
	s.order = append(s.order, id)
	return id, nil
}

// InsertRaw re-inserts a term with a previously computed ID, used when
// restoring a store from a snapshot in insertion order. It recomputes the
// content ID and rejects the record if it does not match id, guarding
// against a tampered or corrupted snapshot file.
func (s *Store) InsertRaw(id ID, t Term) error {
	want := computeID(t.Symbol, t.Scale, t.Children)
	if want != id {
		return &ErrCorruptRecord{Want: want, Got: id}
	}
	if _, ok := s.terms[id]; ok {
		return nil
	}
	key := string(id)
	s.terms[id] = t
	s.content[key] = id
	s.order = append(s.order, id)
	return nil
}

// ErrCorruptRecord is returned by InsertRaw when a snapshot record's declared
// ID does not match the hash of its own content.
type ErrCorruptRecord struct {
	Want ID
	Got  ID
}

func (e *ErrCorruptRecord) Error() string {
	return "term: corrupt snapshot record: content hashes to " + string(e.Want) + " but record claims " + string(e.Got)
}

// Lookup returns the term for id, if present.
func (s *Store) Lookup(id ID) (Term, bool) {
	t, ok := s.terms[id]
	return t, ok
}

// Len returns the number of unique terms currently in the store.
func (s *Store) Len() int {
	return len(s.terms)
}

// Order returns all term IDs in insertion order. The returned slice must not
// be mutated by callers.
func (s *Store) Order() []ID {
	return s.order
}

// TermLimitExhausted reports whether an insertion was ever refused because
// MaxTerms was reached.
func (s *Store) TermLimitExhausted() bool {
	return s.termLimitExhausted
}

// MaxTerms returns the configured term cap (0 = unlimited).
func (s *Store) MaxTerms() int {
	return s.maxTerms
}
