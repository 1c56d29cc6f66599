package troupe

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

// ErrTimeout is returned by Ask when the target does not reply in time.
var ErrTimeout = errors.New("troupe: ask timed out")

// ErrNotFound is returned by Ask when the target actor does not exist.
var ErrNotFound = errors.New("troupe: actor not found")

// Engine manages actor lifecycles and message dispatch.
type Engine struct {
	pidCounter uint64
	actors     map[string]*process
	mu         sync.RWMutex
	stopping   atomic.Bool
}

func NewEngine() *Engine {
	return &Engine{actors: make(map[string]*process)}
}

func (e *Engine) nextPID() *PID {
	id := atomic.AddUint64(&e.pidCounter, 1)
	return &PID{ID: fmt.Sprintf("actor-%d", id)}
}

// Spawn creates and starts a new actor from props, returning its PID.
func (e *Engine) Spawn(props *Props) *PID {
	if e.stopping.Load() {
		fmt.Println("troupe: engine is stopping, cannot spawn new actors")
		return nil
	}

	pid := e.nextPID()
	proc := newProcess(e, pid, props)

	e.mu.Lock()
	e.actors[pid.ID] = proc
	e.mu.Unlock()

	go proc.run()
	e.Send(pid, Started{}, nil)
	return pid
}

// Send delivers a message to the actor identified by pid. Unknown PIDs drop
// the message silently.
func (e *Engine) Send(pid *PID, message interface{}, sender *PID) {
	if pid == nil {
		return
	}
	if e.stopping.Load() && !isSystemMessage(message) {
		return
	}

	e.mu.RLock()
	proc, ok := e.actors[pid.ID]
	e.mu.RUnlock()

	if ok {
		proc.sendMessage(message, sender)
	}
}

// Ask sends a message and waits for a single reply, delivered by the target
// calling Respond on the ask context's sender.
func (e *Engine) Ask(pid *PID, message interface{}, timeout time.Duration) (interface{}, error) {
	if pid == nil {
		return nil, ErrNotFound
	}
	e.mu.RLock()
	proc, ok := e.actors[pid.ID]
	e.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}

	replyPID, replyCh := e.spawnReplyCollector()
	defer e.removeReplyCollector(replyPID)

	proc.sendMessage(message, replyPID)

	select {
	case reply := <-replyCh:
		return reply, nil
	case <-time.After(timeout):
		return nil, ErrTimeout
	}
}

// Stop requests an actor to shut down, signalling its stop channel directly
// so it terminates even with a full mailbox.
func (e *Engine) Stop(pid *PID) {
	if pid == nil {
		return
	}
	e.mu.RLock()
	proc, ok := e.actors[pid.ID]
	e.mu.RUnlock()

	if ok {
		e.Send(pid, Stopping{}, nil)
		select {
		case <-proc.stopCh:
		default:
			close(proc.stopCh)
		}
	}
}

func (e *Engine) remove(pid *PID) {
	e.mu.Lock()
	delete(e.actors, pid.ID)
	e.mu.Unlock()
}

// Shutdown stops all actors and waits up to timeout for them to terminate.
func (e *Engine) Shutdown(timeout time.Duration) {
	if !e.stopping.CompareAndSwap(false, true) {
		return
	}

	e.mu.RLock()
	pidsToStop := make([]*PID, 0, len(e.actors))
	for _, proc := range e.actors {
		pidsToStop = append(pidsToStop, proc.pid)
	}
	e.mu.RUnlock()

	for _, pid := range pidsToStop {
		e.Stop(pid)
	}

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		e.mu.RLock()
		remaining := len(e.actors)
		e.mu.RUnlock()
		if remaining == 0 {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}

	e.mu.Lock()
	if len(e.actors) > 0 {
		fmt.Printf("troupe: shutdown timeout, %d actors did not stop gracefully\n", len(e.actors))
		e.actors = make(map[string]*process)
	}
	e.mu.Unlock()
}

func isSystemMessage(message interface{}) bool {
	switch message.(type) {
	case Started, Stopping, Stopped:
		return true
	}
	return false
}

// --- Ask support ---

// replyCollector is a minimal actor whose only job is forwarding the first
// reply it receives to a channel.
type replyCollector struct {
	ch chan interface{}
}

func (r *replyCollector) Receive(ctx Context) {
	switch msg := ctx.Message().(type) {
	case Started, Stopping, Stopped:
	default:
		select {
		case r.ch <- msg:
		default:
		}
	}
}

func (e *Engine) spawnReplyCollector() (*PID, chan interface{}) {
	ch := make(chan interface{}, 1)
	pid := e.nextPID()
	proc := newProcess(e, pid, NewProps(func() Actor { return &replyCollector{ch: ch} }))

	e.mu.Lock()
	e.actors[pid.ID] = proc
	e.mu.Unlock()

	go proc.run()
	return pid, ch
}

func (e *Engine) removeReplyCollector(pid *PID) {
	e.mu.RLock()
	proc, ok := e.actors[pid.ID]
	e.mu.RUnlock()
	if ok {
		select {
		case <-proc.stopCh:
		default:
			close(proc.stopCh)
		}
	}
}
