package api

import (
	"time"

	"github.com/SherClockHolmes/webpush-go"

	"campus-laundry-backend/internal/identity"
	"campus-laundry-backend/internal/notification"
	"campus-laundry-backend/internal/store"
)

// Handler holds shared dependencies for API handlers.
type Handler struct {
	store    store.Store
	resolver *identity.StoreResolver
	pool     *notification.WorkerPool
	webpush  *webpush.Options
	loc      *time.Location
}

// NewHandler creates a new API handler. pool may be nil when push
// notifications are not configured.
func NewHandler(s store.Store, resolver *identity.StoreResolver, pool *notification.WorkerPool, webpushOptions *webpush.Options, loc *time.Location) *Handler {
	if loc == nil {
		loc = time.Local
	}
	return &Handler{
		store:    s,
		resolver: resolver,
		pool:     pool,
		webpush:  webpushOptions,
		loc:      loc,
	}
}
