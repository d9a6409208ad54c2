package enum

// ── State machines ──

// Order lifecycle. Transitions are one-way: open → pending_payment → paid.
const (
	OrderStatusOpen           = "open"
	OrderStatusPendingPayment = "pending_payment"
	OrderStatusPaid           = "paid"
)

// Table occupancy. Cyclic: free → active → pending → free.
const (
	TableStatusFree    = "free"
	TableStatusActive  = "active"
	TableStatusPending = "pending"
)

// ── Labels ──

const (
	PaymentMethodPix    = "pix"
	PaymentMethodCredit = "credit"
	PaymentMethodDebit  = "debit"
)

const (
	UserRoleAdmin  = "admin"
	UserRoleWaiter = "waiter"
)
