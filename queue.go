package insight

import "context"

// Transaction states reported over a subscription, in order of
// occurrence. Done, Cancelled and Failed are terminal.
const (
	TransactionQueued    = "Queued"
	TransactionRunning   = "Running"
	TransactionDone      = "Done"
	TransactionCancelled = "Cancelled"
	TransactionFailed    = "Failed"
)

// Transaction represents a unit of background work pushed on the work
// queue, e.g. a dataset refresh. The ID is populated by Publish.
type Transaction struct {
	ID   string          `json:"id"`
	Data interface{}     `json:"data"`
	Ctx  context.Context `json:"-"`
}

// TransactionStatus is one progress update for a transaction.
type TransactionStatus struct {
	ID       string  `json:"id"`
	State    string  `json:"state"`
	Progress float64 `json:"progress"`
	Message  string  `json:"message,omitempty"`
}

// Subscription feeds status updates for a single transaction. The channel
// is closed after a terminal status has been delivered.
type Subscription interface {
	C() <-chan TransactionStatus
	Close() error
}

// WorkQueue represents a queue of background transactions with progress
// subscriptions.
type WorkQueue interface {
	// Publish schedules the transaction and populates its ID. The
	// publish call is race safe and produces unique ids.
	Publish(t *Transaction) error

	// Subscribe opens a subscription to the transaction with the given
	// id. Returns ENOTFOUND if the transaction isnt known.
	Subscribe(ctx context.Context, id string) (Subscription, error)

	// Close stops the queue and closes all subscriptions.
	Close() error
}

// RefreshDataset is the work-queue payload requesting a synthetic dataset
// regeneration.
type RefreshDataset struct {
	// NumStudents to generate. Zero means keep the generator default.
	NumStudents int `json:"num_students"`

	// Seed for the generator. Runs with equal seeds and sizes produce
	// identical datasets.
	Seed int64 `json:"seed"`
}
