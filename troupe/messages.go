package troupe

// --- System messages ---

// Started is delivered once, after the actor goroutine starts.
type Started struct{}

// Stopping is delivered when the actor should clean up. No user messages
// follow it.
type Stopping struct{}

// Stopped is the final message an actor receives before its goroutine exits.
type Stopped struct{}

type envelope struct {
	Sender  *PID
	Message interface{}
}
