// internal/adapters/out/gcs/receipt_archive_gcs.go
package gcs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/googleapi"

	orderdom "storefront/internal/domain/order"
)

// ReceiptArchiveGCS writes every placed order as a JSON receipt.
//
// Layout:
// - bucket: ORDER_RECEIPT_BUCKET
// - objectPath: receipts/{yyyy}/{mm}/{dd}/{orderId}.json
//
// Objects are write-once (DoesNotExist precondition); a second write of the same
// order is treated as already archived. Buyer emails are never stored.
type ReceiptArchiveGCS struct {
	Client *storage.Client
	Bucket string

	now func() time.Time
}

var _ orderdom.PlacedListener = (*ReceiptArchiveGCS)(nil)

func NewReceiptArchiveGCS(client *storage.Client, bucket string) *ReceiptArchiveGCS {
	return &ReceiptArchiveGCS{Client: client, Bucket: strings.TrimSpace(bucket), now: time.Now}
}

type receiptDoc struct {
	ArchivedAt time.Time       `json:"archivedAt"`
	Order      *orderdom.Order `json:"order"`
}

func (r *ReceiptArchiveGCS) OrderPlaced(ctx context.Context, o *orderdom.Order, _ string) error {
	if r == nil || r.Client == nil {
		return errors.New("receipt_archive_gcs: storage client is nil")
	}
	if r.Bucket == "" {
		return errors.New("receipt_archive_gcs: bucket is empty")
	}
	if o == nil {
		return nil
	}
	name, err := receiptObjectName(o.ID, r.now())
	if err != nil {
		return err
	}

	w := r.Client.Bucket(r.Bucket).Object(name).If(storage.Conditions{DoesNotExist: true}).NewWriter(ctx)
	w.ContentType = "application/json; charset=utf-8"
	w.Metadata = map[string]string{
		"orderId":  o.ID,
		"currency": o.Currency,
	}

	if err := json.NewEncoder(w).Encode(receiptDoc{ArchivedAt: r.now().UTC(), Order: o}); err != nil {
		_ = w.Close()
		return fmt.Errorf("receipt_archive_gcs: encode %s: %w", name, err)
	}
	if err := w.Close(); err != nil {
		if isPreconditionFailed(err) {
			return nil
		}
		return fmt.Errorf("receipt_archive_gcs: write %s: %w", name, err)
	}
	return nil
}

func receiptObjectName(orderID string, at time.Time) (string, error) {
	id := sanitizePathSegment(orderID)
	if id == "" {
		return "", errors.New("receipt_archive_gcs: order id is empty")
	}
	return fmt.Sprintf("receipts/%s/%s.json", at.UTC().Format("2006/01/02"), id), nil
}

func isPreconditionFailed(err error) bool {
	var gerr *googleapi.Error
	return errors.As(err, &gerr) && gerr.Code == http.StatusPreconditionFailed
}
