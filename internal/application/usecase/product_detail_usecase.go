// internal/application/usecase/product_detail_usecase.go
package usecase

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"storefront/internal/infra/logging"
	"storefront/internal/infra/metrics"

	scdom "storefront/internal/domain/storecontext"
	vdom "storefront/internal/domain/variant"
)

var (
	ErrDetailInvalidArgument = errors.New("product_detail_usecase: invalid argument")
	ErrDetailNotOpen         = errors.New("product_detail_usecase: product detail is not open")
	ErrUnknownAxis           = errors.New("product_detail_usecase: unknown axis")
)

// otherVariantsLimit caps the "other variants" strip under the buy box.
const otherVariantsLimit = 5

// AxisView is one axis picker: its definition, the selected value and every value
// flagged with existence/stock relative to the other selected axes.
type AxisView struct {
	Definition vdom.AxisDefinition
	Selected   vdom.AxisValue
	Options    []vdom.ValueAvailability
}

// ProductDetailView is a consistent snapshot of one product detail page.
type ProductDetailView struct {
	ProductID     string
	Seq           uint64
	Phase         vdom.Phase
	Displayed     vdom.Variant
	DisplayStale  bool
	Selection     vdom.Selection
	Axes          []AxisView
	Recovery      *vdom.Variant
	OtherVariants []vdom.Variant
	Context       scdom.Context
	CanAddToCart  bool
	Err           error

	// Superseded is set on the response of a resolution that lost to a newer one.
	// The snapshot still reflects the newest applied state.
	Superseded bool
}

type detailEntry struct {
	mu       sync.Mutex
	sc       scdom.Context
	state    *vdom.SelectionState
	lastUsed time.Time
}

// ProductDetailUsecase holds one SelectionState per (session, product) and resolves
// attribute changes against the remote catalog.
//
// Remote lookups run outside the entry lock; only the newest ticket may apply its
// result, older responses are dropped and counted.
type ProductDetailUsecase struct {
	catalog vdom.CatalogPort
	clock   Clock
	log     *logrus.Entry

	mu      sync.Mutex
	entries map[string]*detailEntry
}

func NewProductDetailUsecase(catalog vdom.CatalogPort, log logrus.FieldLogger) *ProductDetailUsecase {
	return NewProductDetailUsecaseWithClock(catalog, log, nil)
}

// NewProductDetailUsecaseWithClock is useful for tests.
func NewProductDetailUsecaseWithClock(catalog vdom.CatalogPort, log logrus.FieldLogger, clock Clock) *ProductDetailUsecase {
	if clock == nil {
		clock = systemClock{}
	}
	if log == nil {
		log = logging.Discard()
	}
	return &ProductDetailUsecase{
		catalog: catalog,
		clock:   clock,
		log:     log.WithField("component", "product_detail"),
		entries: map[string]*detailEntry{},
	}
}

func entryKey(sessionID, productID string) string {
	return sessionID + "/" + productID
}

// Open loads the product's variant matrix in sc and displays variantID,
// or the first variant when variantID is empty or unknown.
func (uc *ProductDetailUsecase) Open(ctx context.Context, sessionID string, sc scdom.Context, productID, variantID string) (ProductDetailView, error) {
	sid, pid := strings.TrimSpace(sessionID), strings.TrimSpace(productID)
	if sid == "" || pid == "" {
		return ProductDetailView{}, ErrDetailInvalidArgument
	}

	m, err := uc.catalog.LookupVariantMatrix(ctx, sc, pid)
	if err != nil {
		return ProductDetailView{}, err
	}
	if m.Len() == 0 {
		return ProductDetailView{}, vdom.ErrNotFound
	}
	displayed, ok := m.FindVariationByID(strings.TrimSpace(variantID))
	if !ok {
		displayed = m.Variants()[0]
	}
	st, err := vdom.NewSelectionState(m, displayed)
	if err != nil {
		return ProductDetailView{}, err
	}

	e := &detailEntry{sc: sc, state: st, lastUsed: uc.clock.Now()}
	uc.mu.Lock()
	uc.entries[entryKey(sid, pid)] = e
	uc.mu.Unlock()

	e.mu.Lock()
	defer e.mu.Unlock()
	return e.view(), nil
}

// View returns the current snapshot.
func (uc *ProductDetailUsecase) View(sessionID, productID string) (ProductDetailView, error) {
	e, err := uc.entry(sessionID, productID)
	if err != nil {
		return ProductDetailView{}, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.view(), nil
}

// SelectAttribute records the shopper's value for axis and resolves the new selection
// against the catalog in the entry's store context.
func (uc *ProductDetailUsecase) SelectAttribute(ctx context.Context, sessionID, productID string, axis vdom.Axis, raw string) (ProductDetailView, error) {
	e, err := uc.entry(sessionID, productID)
	if err != nil {
		return ProductDetailView{}, err
	}

	e.mu.Lock()
	m := e.state.Matrix()
	if _, ok := m.Definition(axis); !ok && len(m.Values(axis)) == 0 {
		e.mu.Unlock()
		return ProductDetailView{}, ErrUnknownAxis
	}
	tk := e.state.Begin(axis, m.ValueFor(axis, raw))
	sc := e.sc
	e.lastUsed = uc.clock.Now()

	if tk.Selection.IsEmpty() {
		e.state.Settle(tk)
		defer e.mu.Unlock()
		return e.view(), nil
	}
	e.mu.Unlock()

	// remote lookup: fresh price/stock, never cached
	v, lookupErr := uc.catalog.LookupVariant(ctx, sc, vdom.Criteria{ProductID: m.ProductID(), Axes: tk.Selection})

	e.mu.Lock()
	defer e.mu.Unlock()

	log := uc.log.WithFields(logrus.Fields{
		"product": m.ProductID(),
		"axis":    axis.String(),
		"seq":     tk.Seq,
	})

	var applied bool
	var outcome string
	switch {
	case lookupErr == nil:
		res := vdom.Resolution{Selection: tk.Selection, Variant: v, Outcome: vdom.OutcomeResolved}
		if !v.InStock() {
			res.Outcome = vdom.OutcomeOutOfStock
		}
		applied = e.state.Complete(tk, res)
		outcome = res.Outcome.String()
	case errors.Is(lookupErr, vdom.ErrNotFound):
		res := m.NoMatch(tk.Selection, axis)
		applied = e.state.Complete(tk, res)
		outcome = res.Outcome.String()
	case errors.Is(lookupErr, vdom.ErrAmbiguousMatch):
		log.WithError(lookupErr).Error("[product_detail] malformed variant matrix")
		applied = e.state.Fail(tk, lookupErr)
		outcome = "ambiguous"
	default:
		applied = e.state.Fail(tk, lookupErr)
		outcome = "failed"
	}

	if !applied {
		metrics.RecordStaleResponse()
		log.WithField("current", e.state.Seq()).Debug("[product_detail] dropped superseded resolution")
		view := e.view()
		view.Superseded = true
		return view, nil
	}
	metrics.RecordResolution(outcome)
	log.WithField("outcome", outcome).Debug("[product_detail] resolved")
	return e.view(), nil
}

// Navigate displays variantID directly (variant tile, deep link).
// The matrix is reloaded so price and stock are current; in-flight resolutions lose.
func (uc *ProductDetailUsecase) Navigate(ctx context.Context, sessionID, productID, variantID string) (ProductDetailView, error) {
	e, err := uc.entry(sessionID, productID)
	if err != nil {
		return ProductDetailView{}, err
	}
	vid := strings.TrimSpace(variantID)
	if vid == "" {
		return ProductDetailView{}, ErrDetailInvalidArgument
	}

	e.mu.Lock()
	sc, pid := e.sc, e.state.Matrix().ProductID()
	e.mu.Unlock()

	m, err := uc.catalog.LookupVariantMatrix(ctx, sc, pid)
	if err != nil {
		return ProductDetailView{}, err
	}
	v, ok := m.FindVariationByID(vid)
	if !ok {
		return ProductDetailView{}, vdom.ErrVariantNotInMatrix
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.state.Reset(m, v); err != nil {
		return ProductDetailView{}, err
	}
	e.lastUsed = uc.clock.Now()
	return e.view(), nil
}

// AcceptRecovery moves to the variant offered by the last no-match outcome.
func (uc *ProductDetailUsecase) AcceptRecovery(sessionID, productID string) (ProductDetailView, error) {
	e, err := uc.entry(sessionID, productID)
	if err != nil {
		return ProductDetailView{}, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, err := e.state.AcceptRecovery(); err != nil {
		return ProductDetailView{}, err
	}
	e.lastUsed = uc.clock.Now()
	return e.view(), nil
}

// Close forgets every page of a session (context change, logout).
func (uc *ProductDetailUsecase) Close(sessionID string) {
	prefix := strings.TrimSpace(sessionID) + "/"
	uc.mu.Lock()
	defer uc.mu.Unlock()
	for k := range uc.entries {
		if strings.HasPrefix(k, prefix) {
			delete(uc.entries, k)
		}
	}
}

// Evict drops pages untouched since before cutoff. Returns how many were dropped.
func (uc *ProductDetailUsecase) Evict(cutoff time.Time) int {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	n := 0
	for k, e := range uc.entries {
		e.mu.Lock()
		old := e.lastUsed.Before(cutoff)
		e.mu.Unlock()
		if old {
			delete(uc.entries, k)
			n++
		}
	}
	return n
}

func (uc *ProductDetailUsecase) entry(sessionID, productID string) (*detailEntry, error) {
	sid, pid := strings.TrimSpace(sessionID), strings.TrimSpace(productID)
	if sid == "" || pid == "" {
		return nil, ErrDetailInvalidArgument
	}
	uc.mu.Lock()
	defer uc.mu.Unlock()
	e, ok := uc.entries[entryKey(sid, pid)]
	if !ok {
		return nil, ErrDetailNotOpen
	}
	return e, nil
}

// view builds the snapshot. Caller holds e.mu.
func (e *detailEntry) view() ProductDetailView {
	st := e.state
	m := st.Matrix()
	displayed := st.Displayed()
	sel := st.Selection()

	out := ProductDetailView{
		ProductID:    m.ProductID(),
		Seq:          st.Seq(),
		Phase:        st.Phase(),
		Displayed:    displayed,
		DisplayStale: st.DisplayStale(),
		Selection:    sel,
		Context:      e.sc,
		Err:          st.Err(),
	}
	out.CanAddToCart = e.sc.CanAddToCart() && !out.DisplayStale && displayed.InStock() && st.Phase() != vdom.PhaseResolving

	for _, axis := range m.Axes() {
		def, ok := m.Definition(axis)
		if !ok {
			def = vdom.AxisDefinition{Name: axis}
		}
		out.Axes = append(out.Axes, AxisView{
			Definition: def,
			Selected:   sel[axis],
			Options:    st.Options(axis),
		})
	}
	if r, ok := st.Recovery(); ok {
		out.Recovery = &r
	}
	for _, v := range m.Variants() {
		if len(out.OtherVariants) == otherVariantsLimit {
			break
		}
		if !v.SameAs(displayed) {
			out.OtherVariants = append(out.OtherVariants, v)
		}
	}
	return out
}
