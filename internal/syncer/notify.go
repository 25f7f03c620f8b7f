package syncer

// Notifier receives the single transient notification each
// user-initiated action produces: either a success message or the
// failure's message, never both and never more than one.
type Notifier interface {
	Success(msg string)
	Error(msg string)
}

// NopNotifier discards all notifications.
type NopNotifier struct{}

func (NopNotifier) Success(string) {}
func (NopNotifier) Error(string)   {}

// Confirm asks the user to approve an irreversible action. It returns
// true to proceed. A nil Confirm on the syncer refuses everything.
type Confirm func(prompt string) bool
