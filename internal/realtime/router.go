package realtime

import (
	"github.com/Gaurav220900/Social/pkg/log"
)

// Router pushes events to live connections. Delivery is fire-and-forget: a
// push failure on one handle is logged and swallowed, never retried, never
// buffered and never surfaced to the caller. Durable records are the only
// recovery path for missed pushes.
type Router struct {
	registry *Registry
}

// NewRouter creates a router over the given registry.
func NewRouter(registry *Registry) *Router {
	return &Router{registry: registry}
}

// DeliverToUser pushes (event, payload) to every live connection of userID.
// It reports whether the connection set was non-empty at push time.
func (r *Router) DeliverToUser(userID, event string, payload interface{}) bool {
	conns := r.registry.ConnectionsFor(userID)
	if len(conns) == 0 {
		return false
	}

	data, err := Encode(event, payload)
	if err != nil {
		l := log.L()
		l.Error().Err(err).Str(log.FieldEvent, event).Str(log.FieldUserID, userID).Msg("failed to encode event")
		return false
	}

	for _, c := range conns {
		if err := c.Send(data); err != nil {
			l := log.L()
			l.Warn().Err(err).Str(log.FieldEvent, event).Str(log.FieldUserID, userID).Str(log.FieldConnID, c.ID()).Msg("push failed, connection will be reaped")
		}
	}
	return true
}

// Broadcast pushes (event, payload) to every live connection.
func (r *Router) Broadcast(event string, payload interface{}) {
	data, err := Encode(event, payload)
	if err != nil {
		l := log.L()
		l.Error().Err(err).Str(log.FieldEvent, event).Msg("failed to encode event")
		return
	}

	for _, c := range r.registry.All() {
		if err := c.Send(data); err != nil {
			l := log.L()
			l.Warn().Err(err).Str(log.FieldEvent, event).Str(log.FieldConnID, c.ID()).Msg("broadcast push failed")
		}
	}
}
