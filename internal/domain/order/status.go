package order

// Status is the order lifecycle state.
type Status string

const (
	StatusPending         Status = "pending"
	StatusConfirmed       Status = "confirmed"
	StatusPreparing       Status = "preparing"
	StatusReady           Status = "ready"
	StatusOutForDelivery  Status = "out_for_delivery"
	StatusDelivered       Status = "delivered"
	StatusCancelled       Status = "cancelled"
	StatusAwaitingPayment Status = "awaiting_payment"
)

// Valid reports whether s is a known status value.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusPreparing, StatusReady,
		StatusOutForDelivery, StatusDelivered, StatusCancelled, StatusAwaitingPayment:
		return true
	}
	return false
}

// Terminal reports whether no further transitions leave s.
func (s Status) Terminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// autoNext drives the one-click "advance" button in the admin UI.
// Statuses absent from the map have no quick-advance target.
var autoNext = map[Status]Status{
	StatusPending:   StatusConfirmed,
	StatusConfirmed: StatusReady,
	StatusPreparing: StatusReady,
}

// AutoNext returns the quick-advance target for s, or false when s has
// none (ready and the terminal statuses).
func AutoNext(s Status) (Status, bool) {
	next, ok := autoNext[s]
	return next, ok
}

// allowed is the explicit transition allow-list checked before every
// status change, including manual admin selection.
var allowed = map[Status]map[Status]bool{
	StatusAwaitingPayment: {StatusPending: true, StatusConfirmed: true, StatusCancelled: true},
	StatusPending:         {StatusConfirmed: true, StatusPreparing: true, StatusCancelled: true},
	StatusConfirmed:       {StatusPreparing: true, StatusReady: true, StatusCancelled: true},
	StatusPreparing:       {StatusReady: true, StatusCancelled: true},
	StatusReady:           {StatusOutForDelivery: true, StatusDelivered: true},
	StatusOutForDelivery:  {StatusDelivered: true},
	StatusDelivered:       {},
	StatusCancelled:       {},
}

// CanTransition reports whether the move from one status to another is
// legal. Self-transitions are rejected, so a double-applied action is a
// no-op failure rather than a silent repeat.
func CanTransition(from, to Status) bool {
	return allowed[from][to]
}
