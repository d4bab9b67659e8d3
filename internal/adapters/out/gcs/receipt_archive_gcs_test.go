package gcs

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/googleapi"

	orderdom "storefront/internal/domain/order"
)

func TestReceiptObjectName(t *testing.T) {
	at := time.Date(2026, 10, 19, 23, 30, 0, 0, time.FixedZone("JST", 9*3600))

	name, err := receiptObjectName("o-1", at)
	require.NoError(t, err)
	assert.Equal(t, "receipts/2026/10/19/o-1.json", name)

	name, err = receiptObjectName(" ../a/b ", at)
	require.NoError(t, err)
	assert.Equal(t, "receipts/2026/10/19/_a_b.json", name)

	_, err = receiptObjectName("  ", at)
	assert.Error(t, err)
}

func TestIsPreconditionFailed(t *testing.T) {
	assert.True(t, isPreconditionFailed(fmt.Errorf("close: %w", &googleapi.Error{Code: http.StatusPreconditionFailed})))
	assert.False(t, isPreconditionFailed(&googleapi.Error{Code: http.StatusForbidden}))
	assert.False(t, isPreconditionFailed(nil))
}

func TestReceiptArchiveGCS_NotConfigured(t *testing.T) {
	var r *ReceiptArchiveGCS
	assert.Error(t, r.OrderPlaced(t.Context(), &orderdom.Order{ID: "o-1"}, ""))
	assert.Error(t, NewReceiptArchiveGCS(nil, "b").OrderPlaced(t.Context(), &orderdom.Order{ID: "o-1"}, ""))
}
