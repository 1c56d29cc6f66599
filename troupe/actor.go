package troupe

// Actor processes messages sequentially from its mailbox.
type Actor interface {
	Receive(ctx Context)
}

// Producer creates a fresh actor instance for Spawn.
type Producer func() Actor

// Props configures actor creation.
type Props struct {
	producer Producer
}

func NewProps(producer Producer) *Props {
	if producer == nil {
		panic("troupe: producer cannot be nil")
	}
	return &Props{producer: producer}
}

func (p *Props) Produce() Actor {
	return p.producer()
}
