package troupe

import (
	"fmt"
	"runtime/debug"
	"sync/atomic"
)

const defaultMailboxSize = 1024

// process is the running instance of an actor: its mailbox and goroutine.
type process struct {
	engine  *Engine
	pid     *PID
	actor   Actor
	mailbox chan *envelope
	props   *Props
	stopCh  chan struct{}
	stopped atomic.Bool
}

func newProcess(engine *Engine, pid *PID, props *Props) *process {
	return &process{
		engine:  engine,
		pid:     pid,
		props:   props,
		mailbox: make(chan *envelope, defaultMailboxSize),
		stopCh:  make(chan struct{}),
	}
}

func (p *process) sendMessage(message interface{}, sender *PID) {
	if p.stopped.Load() && !isSystemMessage(message) {
		return
	}

	select {
	case p.mailbox <- &envelope{Sender: sender, Message: message}:
	default:
		fmt.Printf("Actor %s mailbox full, dropping message type %T\n", p.pid.ID, message)
	}
}

func (p *process) run() {
	defer func() {
		p.stopped.Store(true)
		if p.actor != nil {
			func() {
				defer func() {
					if r := recover(); r != nil {
						fmt.Printf("Actor %s panicked during Stopped processing: %v\n", p.pid.ID, r)
					}
				}()
				p.invokeReceive(Stopped{}, nil)
			}()
		}
		p.engine.remove(p.pid)
	}()

	defer func() {
		if r := recover(); r != nil {
			fmt.Printf("Actor %s panicked: %v\nStack trace:\n%s\n", p.pid.ID, r, string(debug.Stack()))
			p.stopped.Store(true)
			select {
			case <-p.stopCh:
			default:
				close(p.stopCh)
			}
		}
	}()

	p.actor = p.props.Produce()
	if p.actor == nil {
		panic(fmt.Sprintf("Actor %s producer returned nil actor", p.pid.ID))
	}

	for {
		select {
		case <-p.stopCh:
			if p.stopped.CompareAndSwap(false, true) {
				p.invokeReceive(Stopping{}, nil)
			}
			return

		case env := <-p.mailbox:
			if p.stopped.Load() && !isSystemMessage(env.Message) {
				continue
			}

			switch msg := env.Message.(type) {
			case Stopping:
				if p.stopped.CompareAndSwap(false, true) {
					p.invokeReceive(msg, env.Sender)
					select {
					case <-p.stopCh:
					default:
						close(p.stopCh)
					}
				}
			default:
				p.invokeReceive(env.Message, env.Sender)
			}
		}
	}
}

// invokeReceive calls the actor's Receive, recovering from panics so one bad
// message cannot kill the mailbox loop.
func (p *process) invokeReceive(msg interface{}, sender *PID) {
	ctx := &msgContext{
		engine:  p.engine,
		self:    p.pid,
		sender:  sender,
		message: msg,
	}

	func() {
		defer func() {
			if r := recover(); r != nil {
				fmt.Printf("Actor %s panicked during Receive(%T): %v\nStack trace:\n%s\n", p.pid.ID, msg, r, string(debug.Stack()))
			}
		}()
		p.actor.Receive(ctx)
	}()
}
