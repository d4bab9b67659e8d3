package mallHandler

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	ct "storefront/internal/adapters/out/commercetools"
	usecase "storefront/internal/application/usecase"
	"storefront/internal/infra/logging"

	cartdom "storefront/internal/domain/cart"
	orderdom "storefront/internal/domain/order"
	vdom "storefront/internal/domain/variant"
)

func TestStatusFor(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{nil, http.StatusOK},
		{fmt.Errorf("wrap: %w", vdom.ErrNotFound), http.StatusNotFound},
		{usecase.ErrDetailNotOpen, http.StatusNotFound},
		{orderdom.ErrNoCart, http.StatusNotFound},
		{usecase.ErrUnknownAxis, http.StatusBadRequest},
		{cartdom.ErrInvalidQuantity, http.StatusBadRequest},
		{vdom.ErrNoRecovery, http.StatusConflict},
		{fmt.Errorf("place: %w", orderdom.ErrConflict), http.StatusConflict},
		{cartdom.ErrCurrencyRequired, http.StatusUnprocessableEntity},
		{orderdom.ErrCartEmpty, http.StatusUnprocessableEntity},
		{&ct.AuthError{}, http.StatusBadGateway},
		{&ct.RemoteQueryError{Endpoint: "carts", Status: http.StatusConflict}, http.StatusConflict},
		{&ct.RemoteQueryError{Endpoint: "product-projections", Status: http.StatusServiceUnavailable}, http.StatusBadGateway},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, statusFor(tc.err), "%v", tc.err)
	}
}

func TestWriteError_HidesInternalMessage(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(rec, logging.Discard(), errors.New("dial tcp 10.0.0.1: refused"))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "internal_error")
	assert.NotContains(t, rec.Body.String(), "10.0.0.1")
}

func TestPathTail(t *testing.T) {
	assert.Nil(t, pathTail("/mall/me/cart", "/mall/me/cart"))
	assert.Nil(t, pathTail("/mall/me/cart/", "/mall/me/cart"))
	assert.Equal(t, []string{"items", "li-1"}, pathTail("/mall/me/cart/items//li-1/", "/mall/me/cart"))
}

func TestDecodeJSON(t *testing.T) {
	var v struct {
		Delta int64 `json:"delta"`
	}
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(""))
	assert.NoError(t, decodeJSON(r, &v))

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"delta":-1}`))
	assert.NoError(t, decodeJSON(r, &v))
	assert.Equal(t, int64(-1), v.Delta)

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"delta":1,"extra":true}`))
	assert.Error(t, decodeJSON(r, &v))
}
