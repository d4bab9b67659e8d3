package usecase

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	scdom "storefront/internal/domain/storecontext"
	vdom "storefront/internal/domain/variant"
)

var eur = scdom.Context{Currency: "EUR", Country: "DE"}

func openShirt(t *testing.T, variantID string) (*ProductDetailUsecase, *fakeCatalog, ProductDetailView) {
	t.Helper()
	cat := &fakeCatalog{m: shirtMatrix(t)}
	uc := NewProductDetailUsecase(cat, nil)
	v, err := uc.Open(t.Context(), "s1", eur, "p1", variantID)
	require.NoError(t, err)
	return uc, cat, v
}

func TestProductDetail_Open(t *testing.T) {
	_, _, v := openShirt(t, "")
	assert.Equal(t, "1", v.Displayed.ID, "first variant by default")
	assert.Equal(t, vdom.PhaseIdle, v.Phase)
	assert.Equal(t, "red", v.Selection[vdom.AxisColor].Identity())
	assert.Equal(t, "8", v.Selection[vdom.AxisSize].Identity())
	assert.False(t, v.CanAddToCart, "variant 1 is sold out")
	require.Len(t, v.OtherVariants, 2)
	assert.Equal(t, "2", v.OtherVariants[0].ID)
	require.Len(t, v.Axes, 2)
	assert.Equal(t, vdom.AxisSize, v.Axes[0].Definition.Name)

	_, _, v = openShirt(t, "3")
	assert.Equal(t, "3", v.Displayed.ID)
	assert.True(t, v.CanAddToCart)

	_, _, v = openShirt(t, "nope")
	assert.Equal(t, "1", v.Displayed.ID, "unknown variant falls back to the first")
}

func TestProductDetail_OpenErrors(t *testing.T) {
	uc := NewProductDetailUsecase(&fakeCatalog{m: shirtMatrix(t)}, nil)

	_, err := uc.Open(t.Context(), "", eur, "p1", "")
	assert.ErrorIs(t, err, ErrDetailInvalidArgument)

	_, err = uc.Open(t.Context(), "s1", eur, "p404", "")
	assert.ErrorIs(t, err, vdom.ErrNotFound)

	_, err = uc.View("s1", "p1")
	assert.ErrorIs(t, err, ErrDetailNotOpen)
}

func TestProductDetail_SelectResolves(t *testing.T) {
	uc, cat, _ := openShirt(t, "2")

	v, err := uc.SelectAttribute(t.Context(), "s1", "p1", vdom.AxisColor, "blue")
	require.NoError(t, err)
	// blue/9 does not exist
	assert.Equal(t, vdom.PhaseNoMatch, v.Phase)
	assert.Equal(t, "2", v.Displayed.ID, "displayed variant is kept")
	assert.True(t, v.DisplayStale)
	assert.False(t, v.CanAddToCart)
	assert.Equal(t, "blue", v.Selection[vdom.AxisColor].Identity(), "selection keeps the shopper's value")
	require.NotNil(t, v.Recovery)
	assert.Equal(t, "3", v.Recovery.ID)

	v, err = uc.SelectAttribute(t.Context(), "s1", "p1", vdom.AxisSize, "8")
	require.NoError(t, err)
	assert.Equal(t, vdom.PhaseResolved, v.Phase)
	assert.Equal(t, "3", v.Displayed.ID)
	assert.False(t, v.DisplayStale)
	assert.Nil(t, v.Recovery)

	v, err = uc.SelectAttribute(t.Context(), "s1", "p1", vdom.AxisColor, "red")
	require.NoError(t, err)
	assert.Equal(t, vdom.PhaseOutOfStock, v.Phase)
	assert.Equal(t, "1", v.Displayed.ID)
	assert.False(t, v.CanAddToCart)

	assert.Equal(t, 3, cat.lookups, "every change goes to the catalog")
	for _, sc := range cat.contexts {
		assert.Equal(t, eur, sc)
	}
}

func TestProductDetail_AcceptRecovery(t *testing.T) {
	uc, _, _ := openShirt(t, "2")

	_, err := uc.AcceptRecovery("s1", "p1")
	assert.ErrorIs(t, err, vdom.ErrNoRecovery)

	_, err = uc.SelectAttribute(t.Context(), "s1", "p1", vdom.AxisColor, "blue")
	require.NoError(t, err)

	v, err := uc.AcceptRecovery("s1", "p1")
	require.NoError(t, err)
	assert.Equal(t, "3", v.Displayed.ID)
	assert.Equal(t, "8", v.Selection[vdom.AxisSize].Identity())
	assert.False(t, v.DisplayStale)
}

func TestProductDetail_SupersededResponseIsDropped(t *testing.T) {
	uc, cat, _ := openShirt(t, "2")

	started := make(chan struct{})
	release := make(chan struct{})
	cat.gate = func(n int, _ vdom.Criteria) {
		if n == 1 {
			close(started)
			<-release
		}
	}

	var first ProductDetailView
	var firstErr error
	done := make(chan struct{})
	go func() {
		defer close(done)
		first, firstErr = uc.SelectAttribute(t.Context(), "s1", "p1", vdom.AxisColor, "blue")
	}()
	<-started

	second, err := uc.SelectAttribute(t.Context(), "s1", "p1", vdom.AxisSize, "8")
	require.NoError(t, err)
	assert.False(t, second.Superseded)
	assert.Equal(t, "3", second.Displayed.ID)

	close(release)
	<-done
	require.NoError(t, firstErr)
	assert.True(t, first.Superseded)
	assert.Equal(t, "3", first.Displayed.ID, "late response does not overwrite")

	v, err := uc.View("s1", "p1")
	require.NoError(t, err)
	assert.Equal(t, vdom.PhaseResolved, v.Phase)
	assert.Equal(t, "3", v.Displayed.ID)
	assert.Nil(t, v.Recovery)
}

func TestProductDetail_LookupFailureKeepsDisplay(t *testing.T) {
	uc, cat, _ := openShirt(t, "2")
	boom := errors.New("remote down")
	cat.err = boom

	v, err := uc.SelectAttribute(t.Context(), "s1", "p1", vdom.AxisColor, "blue")
	require.NoError(t, err)
	assert.Equal(t, vdom.PhaseFailed, v.Phase)
	assert.ErrorIs(t, v.Err, boom)
	assert.Equal(t, "2", v.Displayed.ID)

	cat.err = &vdom.AmbiguousMatchError{ProductID: "p1", VariantIDs: []string{"a", "b"}}
	v, err = uc.SelectAttribute(t.Context(), "s1", "p1", vdom.AxisSize, "8")
	require.NoError(t, err)
	assert.Equal(t, vdom.PhaseFailed, v.Phase)
	assert.ErrorIs(t, v.Err, vdom.ErrAmbiguousMatch)
}

func TestProductDetail_UnknownAxis(t *testing.T) {
	uc, _, _ := openShirt(t, "2")
	_, err := uc.SelectAttribute(t.Context(), "s1", "p1", vdom.Axis("material"), "cotton")
	assert.ErrorIs(t, err, ErrUnknownAxis)
}

func TestProductDetail_Navigate(t *testing.T) {
	uc, _, _ := openShirt(t, "2")
	_, err := uc.SelectAttribute(t.Context(), "s1", "p1", vdom.AxisColor, "blue")
	require.NoError(t, err)

	v, err := uc.Navigate(t.Context(), "s1", "p1", "1")
	require.NoError(t, err)
	assert.Equal(t, "1", v.Displayed.ID)
	assert.Equal(t, vdom.PhaseIdle, v.Phase)
	assert.Equal(t, "red", v.Selection[vdom.AxisColor].Identity())
	assert.Nil(t, v.Recovery)

	_, err = uc.Navigate(t.Context(), "s1", "p1", "99")
	assert.ErrorIs(t, err, vdom.ErrVariantNotInMatrix)
}

func TestProductDetail_EvictAndClose(t *testing.T) {
	clock := &fixedClock{t: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	uc := NewProductDetailUsecaseWithClock(&fakeCatalog{m: shirtMatrix(t)}, nil, clock)

	_, err := uc.Open(t.Context(), "s1", eur, "p1", "")
	require.NoError(t, err)
	clock.t = clock.t.Add(time.Hour)
	_, err = uc.Open(t.Context(), "s2", eur, "p1", "")
	require.NoError(t, err)

	assert.Equal(t, 1, uc.Evict(clock.t.Add(-time.Minute)))
	_, err = uc.View("s1", "p1")
	assert.ErrorIs(t, err, ErrDetailNotOpen)

	uc.Close("s2")
	_, err = uc.View("s2", "p1")
	assert.ErrorIs(t, err, ErrDetailNotOpen)
}
