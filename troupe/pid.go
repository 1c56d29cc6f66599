package troupe

// PID is a unique reference to a running actor.
type PID struct {
	ID string
}

func (pid *PID) String() string {
	return pid.ID
}
