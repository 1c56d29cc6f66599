package troupe

// Context gives an actor access to the runtime while it handles a message.
type Context interface {
	Engine() *Engine
	Self() *PID
	Sender() *PID
	Message() interface{}
}

type msgContext struct {
	engine  *Engine
	self    *PID
	sender  *PID
	message interface{}
}

func (c *msgContext) Engine() *Engine      { return c.engine }
func (c *msgContext) Self() *PID           { return c.self }
func (c *msgContext) Sender() *PID         { return c.sender }
func (c *msgContext) Message() interface{} { return c.message }
