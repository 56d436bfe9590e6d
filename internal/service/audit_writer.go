package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"flavoradmin/internal/model"
	"flavoradmin/internal/repository"
	ws "flavoradmin/internal/websocket"
)

// auditWriter appends one audit row per mutation and pushes the event to
// the live activity feed. Callers invoke record inside the same transaction
// as the mutation so the row and the change commit or roll back together.
type auditWriter struct {
	repo repository.AuditRepository
	hub  *ws.Hub
}

func newAuditWriter(repo repository.AuditRepository, hub *ws.Hub) auditWriter {
	return auditWriter{repo: repo, hub: hub}
}

// record writes the audit row. details is marshalled to JSON; pass only the
// fields actually supplied by the caller so the row reads as a diff.
func (w auditWriter) record(ctx context.Context, userID *uint, entity string, entityID uint, action string, details interface{}) error {
	payload, err := json.Marshal(details)
	if err != nil {
		return fmt.Errorf("failed to marshal audit details: %w", err)
	}

	entry := &model.AuditLog{
		UserID:   userID,
		Entity:   entity,
		EntityID: entityID,
		Action:   action,
		Details:  string(payload),
	}
	if err := w.repo.Log(ctx, entry); err != nil {
		return fmt.Errorf("failed to write audit log: %w", err)
	}

	// Feed push is best-effort and informational only
	if w.hub != nil {
		w.hub.Publish(ws.ActivityEvent{
			Entity:    entity,
			EntityID:  entityID,
			Action:    action,
			UserID:    userID,
			Timestamp: time.Now(),
		})
	}
	return nil
}
