package order

// Decide maps an event onto the current status.
//
// A paid event always yields Paid. An expired event voids the order unless it
// is already Paid. Anything else leaves the status alone. changed is false
// when the target equals the current status so replays are no-ops.
func Decide(current PaymentStatus, ev PaymentEvent) (target PaymentStatus, changed bool) {
	switch {
	case ev.IsPaid:
		target = PaymentStatusPaid
	case ev.IsExpired && current != PaymentStatusPaid:
		target = PaymentStatusVoided
	default:
		return current, false
	}
	return target, target != current
}

// NoteText is the history entry recorded for a status change.
func NoteText(status PaymentStatus) string {
	return "PaymentStatus: " + status.String()
}
