package services

import (
	"strings"
	"time"

	"alxtravel/internal/models/db_models"
	"alxtravel/pkg/taskqueue"
)

// Decision is the outcome of reconciling a gateway status against a stored
// payment. Updates is only set when Changed is true. MissingDetails marks a
// completion the gateway reported without a reference or method.
type Decision struct {
	Changed        bool
	Stale          bool
	MissingDetails bool
	Target       db_models.PaymentStatus
	Updates      map[string]interface{}
	Notification taskqueue.Kind
}

// Reconcile maps a gateway-reported status onto the payment state machine.
// Terminal states are absorbing: a report that disagrees with an already
// terminal payment is ignored and marked Stale.
func Reconcile(current db_models.Payment, gatewayStatus, reference, method string, now time.Time) Decision {
	var d Decision

	switch strings.ToLower(strings.TrimSpace(gatewayStatus)) {
	case "success":
		d.Target = db_models.PaymentStatusCompleted
		d.Notification = taskqueue.KindPaymentConfirmation
	case "failed":
		d.Target = db_models.PaymentStatusFailed
		d.Notification = taskqueue.KindPaymentFailed
	case "cancelled":
		d.Target = db_models.PaymentStatusCancelled
		d.Notification = taskqueue.KindPaymentFailed
	default:
		return Decision{}
	}

	if current.Status == d.Target {
		return Decision{Target: d.Target}
	}
	if current.Status.Terminal() {
		return Decision{Target: d.Target, Stale: true}
	}

	d.Changed = true
	d.Updates = map[string]interface{}{"status": d.Target}
	if d.Target == db_models.PaymentStatusCompleted {
		d.Updates["completed_at"] = now
		d.Updates["chapa_reference"] = optionalString(reference)
		d.Updates["payment_method"] = optionalString(method)
		d.MissingDetails = strings.TrimSpace(reference) == "" || strings.TrimSpace(method) == ""
	}
	return d
}

// Apply copies the decision onto an in-memory payment after it was persisted.
func (d Decision) Apply(p *db_models.Payment) {
	if !d.Changed {
		return
	}
	p.Status = d.Target
	if t, ok := d.Updates["completed_at"].(time.Time); ok {
		p.CompletedAt = &t
	}
	if ref, ok := d.Updates["chapa_reference"].(*string); ok {
		p.ChapaReference = ref
	}
	if m, ok := d.Updates["payment_method"].(*string); ok {
		p.PaymentMethod = m
	}
}

func optionalString(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
