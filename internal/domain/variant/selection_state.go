// internal/domain/variant/selection_state.go
package variant

// Phase is the per-interaction state of a SelectionState.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseResolving
	PhaseResolved
	PhaseNoMatch
	PhaseOutOfStock
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseResolving:
		return "resolving"
	case PhaseResolved:
		return "resolved"
	case PhaseNoMatch:
		return "no_match"
	case PhaseOutOfStock:
		return "out_of_stock"
	case PhaseFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Ticket identifies one in-flight resolution. Only the ticket carrying the latest
// sequence number may change displayed state.
type Ticket struct {
	Seq       uint64
	Axis      Axis
	Selection Selection
}

// SelectionState owns the selected axis values of one product-detail session and keeps
// them consistent with the displayed variant.
//
// Policy when a selection has no matching variant: the selection keeps the shopper's
// value, the displayed variant stays on screen flagged stale, and a recovery variant is
// offered. Nothing is cleared implicitly.
//
// Not safe for concurrent use; the owner serializes access.
type SelectionState struct {
	matrix    *Matrix
	selection Selection
	displayed Variant
	phase     Phase
	seq       uint64
	stale     bool
	recovery  *Variant
	lastErr   error
}

// NewSelectionState creates the state for matrix, seeded from displayed.
func NewSelectionState(m *Matrix, displayed Variant) (*SelectionState, error) {
	s := &SelectionState{}
	if err := s.Reset(m, displayed); err != nil {
		return nil, err
	}
	return s, nil
}

// Reset switches to a new product matrix. In-flight tickets become stale.
func (s *SelectionState) Reset(m *Matrix, displayed Variant) error {
	if m == nil {
		return ErrProductIDRequired
	}
	v, ok := m.FindVariationByID(displayed.ID)
	if !ok || v.ProductID != displayed.ProductID {
		return ErrVariantNotInMatrix
	}
	s.matrix = m
	s.seq++
	s.show(displayed, PhaseIdle)
	return nil
}

// SeedFromVariant sets every axis to v's own value (empty where v has none).
func (s *SelectionState) SeedFromVariant(v Variant) {
	var axes []Axis
	if s.matrix != nil {
		axes = s.matrix.Axes()
	}
	s.selection = SeedFromVariant(v, axes)
}

// Begin records the shopper's new value for axis and opens a resolution.
// Any earlier ticket is superseded.
func (s *SelectionState) Begin(axis Axis, value AxisValue) Ticket {
	if s.selection == nil {
		s.selection = Selection{}
	}
	s.selection[axis] = value
	s.seq++
	s.phase = PhaseResolving
	s.recovery = nil
	s.lastErr = nil
	return Ticket{Seq: s.seq, Axis: axis, Selection: s.selection.Clone()}
}

// IsCurrent reports whether t is still the latest ticket.
func (s *SelectionState) IsCurrent(t Ticket) bool { return t.Seq == s.seq }

// Complete applies res for t. It returns false, changing nothing, when t was superseded.
func (s *SelectionState) Complete(t Ticket, res Resolution) bool {
	if !s.IsCurrent(t) {
		return false
	}
	switch res.Outcome {
	case OutcomeResolved:
		s.show(res.Variant, PhaseResolved)
	case OutcomeOutOfStock:
		s.show(res.Variant, PhaseOutOfStock)
	case OutcomeNoMatchingCombination:
		s.phase = PhaseNoMatch
		s.stale = true
		s.recovery = res.Recovery
	}
	return true
}

// Settle closes t without a lookup (e.g. every axis was cleared).
func (s *SelectionState) Settle(t Ticket) bool {
	if !s.IsCurrent(t) {
		return false
	}
	s.phase = PhaseIdle
	s.stale = !s.selection.IsEmpty() && !s.selection.Matches(s.displayed)
	return true
}

// Fail records a failed lookup for t without touching the displayed variant.
func (s *SelectionState) Fail(t Ticket, err error) bool {
	if !s.IsCurrent(t) {
		return false
	}
	s.phase = PhaseFailed
	s.lastErr = err
	return true
}

// Navigate displays v directly (variant tile, URL, recovery) and reseeds.
func (s *SelectionState) Navigate(v Variant) error {
	if s.matrix == nil {
		return ErrVariantNotInMatrix
	}
	if _, ok := s.matrix.FindVariationByID(v.ID); !ok || v.ProductID != s.matrix.ProductID() {
		return ErrVariantNotInMatrix
	}
	s.seq++
	s.show(v, PhaseIdle)
	return nil
}

// AcceptRecovery moves to the recovery variant offered by the last NoMatch outcome.
func (s *SelectionState) AcceptRecovery() (Variant, error) {
	if s.recovery == nil {
		return Variant{}, ErrNoRecovery
	}
	v := *s.recovery
	if err := s.Navigate(v); err != nil {
		return Variant{}, err
	}
	return v, nil
}

func (s *SelectionState) show(v Variant, p Phase) {
	s.displayed = v
	s.SeedFromVariant(v)
	s.phase = p
	s.stale = false
	s.recovery = nil
	s.lastErr = nil
}

// ==========================
// Accessors
// ==========================

func (s *SelectionState) Matrix() *Matrix      { return s.matrix }
func (s *SelectionState) Phase() Phase         { return s.phase }
func (s *SelectionState) Seq() uint64          { return s.seq }
func (s *SelectionState) Displayed() Variant   { return s.displayed }
func (s *SelectionState) DisplayStale() bool   { return s.stale }
func (s *SelectionState) Err() error           { return s.lastErr }
func (s *SelectionState) Selection() Selection { return s.selection.Clone() }

func (s *SelectionState) Recovery() (Variant, bool) {
	if s.recovery == nil {
		return Variant{}, false
	}
	return *s.recovery, true
}

// Options lists the values of axis with flags relative to the current selection.
func (s *SelectionState) Options(axis Axis) []ValueAvailability {
	if s.matrix == nil {
		return nil
	}
	return s.matrix.AvailableValuesForAxis(axis, s.selection)
}
