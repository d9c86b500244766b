package enum

// ── Item statuses (set by the kitchen backend, one per ordered unit) ──

const (
	ItemStatusPending   = "pending"
	ItemStatusPreparing = "preparing"
	ItemStatusReady     = "ready"
	ItemStatusRejected  = "rejected"
)

// ── Round statuses (derived) ──

const (
	RoundStatusPending   = "pending"
	RoundStatusConfirmed = "confirmed"
	RoundStatusPreparing = "preparing"
	RoundStatusReady     = "ready"
	RoundStatusRejected  = "rejected"
	RoundStatusCompleted = "completed"
)

// ── Global labels (derived, shown at the top of an order) ──

const (
	GlobalStatusNoRounds   = "No rounds"
	GlobalStatusCancelled  = "Cancelled"
	GlobalStatusAllReady   = "All Ready"
	GlobalStatusInProgress = "In Progress"
)

// ── Order session statuses (CHECK constrained in DB) ──

const (
	OrderStatusOpen   = "open"
	OrderStatusClosed = "closed"
)
