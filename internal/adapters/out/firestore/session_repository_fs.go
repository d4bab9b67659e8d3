// internal/adapters/out/firestore/session_repository_fs.go
package firestore

import (
	"context"
	"errors"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	sessiondom "storefront/internal/domain/session"
	scdom "storefront/internal/domain/storecontext"
)

const sessionCollection = "storefront_sessions"

// expired-session sweep batch
const sweepBatch = 200

// SessionRepositoryFS implements session.Repository using Firestore.
//
// Collection design:
// - collection: storefront_sessions
// - docId: session id (docId is the source of truth)
// - fields: uid, cartId, orderId, context(map), createdAt, updatedAt, expiresAt
//
// TTL:
// - Configure Firestore TTL on "expiresAt". DeleteExpired covers projects without a TTL policy.
type SessionRepositoryFS struct {
	Client *firestore.Client
}

var _ sessiondom.Repository = (*SessionRepositoryFS)(nil)

func NewSessionRepositoryFS(client *firestore.Client) *SessionRepositoryFS {
	return &SessionRepositoryFS{Client: client}
}

func (r *SessionRepositoryFS) col() *firestore.CollectionRef {
	return r.Client.Collection(sessionCollection)
}

// GetByID returns (nil, nil) if not found (nil policy).
func (r *SessionRepositoryFS) GetByID(ctx context.Context, id string) (*sessiondom.ShopperSession, error) {
	if r == nil || r.Client == nil {
		return nil, errors.New("session_repository_fs: firestore client is nil")
	}
	sid := strings.TrimSpace(id)
	if sid == "" {
		return nil, errors.New("session_repository_fs: id is empty")
	}

	snap, err := r.col().Doc(sid).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, nil
		}
		return nil, err
	}

	// schema drift で DataTo が失敗しないよう snap.Data() から自前で読む
	s := sessionFromData(snap.Data())
	s.ID = sid
	return s, nil
}

// Upsert overwrites the full doc (simple & predictable).
func (r *SessionRepositoryFS) Upsert(ctx context.Context, s *sessiondom.ShopperSession) error {
	if r == nil || r.Client == nil {
		return errors.New("session_repository_fs: firestore client is nil")
	}
	if s == nil {
		return errors.New("session_repository_fs: session is nil")
	}
	sid := strings.TrimSpace(s.ID)
	if sid == "" {
		return errors.New("session_repository_fs: Upsert requires session.ID as docId")
	}
	_, err := r.col().Doc(sid).Set(ctx, sessionDocFromDomain(s))
	return err
}

func (r *SessionRepositoryFS) Delete(ctx context.Context, id string) error {
	if r == nil || r.Client == nil {
		return errors.New("session_repository_fs: firestore client is nil")
	}
	sid := strings.TrimSpace(id)
	if sid == "" {
		return errors.New("session_repository_fs: id is empty")
	}
	_, err := r.col().Doc(sid).Delete(ctx)
	if status.Code(err) == codes.NotFound {
		return nil
	}
	return err
}

// DeleteExpired removes sessions with expiresAt < now, one batch per query.
func (r *SessionRepositoryFS) DeleteExpired(ctx context.Context, now time.Time) (int, error) {
	if r == nil || r.Client == nil {
		return 0, errors.New("session_repository_fs: firestore client is nil")
	}

	deleted := 0
	for {
		it := r.col().Where("expiresAt", "<", now).Limit(sweepBatch).Documents(ctx)
		bw := r.Client.BulkWriter(ctx)
		n := 0
		for {
			doc, err := it.Next()
			if errors.Is(err, iterator.Done) {
				break
			}
			if err != nil {
				it.Stop()
				bw.End()
				return deleted, err
			}
			if _, err := bw.Delete(doc.Ref); err != nil {
				it.Stop()
				bw.End()
				return deleted, err
			}
			n++
		}
		it.Stop()
		bw.End()

		deleted += n
		if n < sweepBatch {
			return deleted, nil
		}
	}
}

// -----------------------------------------
// Firestore DTO
// -----------------------------------------

type sessionDoc struct {
	UID       string        `firestore:"uid"`
	CartID    string        `firestore:"cartId"`
	OrderID   string        `firestore:"orderId"`
	Context   scdom.Context `firestore:"context"`
	CreatedAt time.Time     `firestore:"createdAt"`
	UpdatedAt time.Time     `firestore:"updatedAt"`
	ExpiresAt time.Time     `firestore:"expiresAt"`
}

func sessionDocFromDomain(s *sessiondom.ShopperSession) sessionDoc {
	return sessionDoc{
		UID:       strings.TrimSpace(s.UID),
		CartID:    strings.TrimSpace(s.CartID),
		OrderID:   strings.TrimSpace(s.OrderID),
		Context:   s.Context,
		CreatedAt: s.CreatedAt.UTC(),
		UpdatedAt: s.UpdatedAt.UTC(),
		ExpiresAt: s.ExpiresAt.UTC(),
	}
}

// sessionFromData reads a raw document. Missing or mistyped fields stay zero.
func sessionFromData(raw map[string]any) *sessiondom.ShopperSession {
	s := &sessiondom.ShopperSession{}
	if raw == nil {
		return s
	}
	s.UID = asString(raw["uid"])
	s.CartID = asString(raw["cartId"])
	s.OrderID = asString(raw["orderId"])
	s.CreatedAt, _ = asTime(raw["createdAt"])
	s.UpdatedAt, _ = asTime(raw["updatedAt"])
	s.ExpiresAt, _ = asTime(raw["expiresAt"])

	if m, ok := raw["context"].(map[string]any); ok {
		s.Context = scdom.Context{
			Currency:          asString(m["currency"]),
			Country:           asString(m["country"]),
			ChannelID:         asString(m["channelId"]),
			ChannelName:       asString(m["channelName"]),
			StoreKey:          asString(m["storeKey"]),
			StoreName:         asString(m["storeName"]),
			CustomerGroupID:   asString(m["customerGroupId"]),
			CustomerGroupName: asString(m["customerGroupName"]),
		}
	}
	return s
}
