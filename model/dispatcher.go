package model

import "github.com/tessera-orm/tessera/diagnostics"

// Dispatcher sequences convention callbacks for one model. Builders raise
// change events through it; while a batch is open the events queue in
// arrival order, and closing the outermost batch drains them. A convention
// running during a drain may open a fresh batch, whose events drain at that
// batch's own close, before the outer drain proceeds; the drain order is
// depth-first, so later conventions observe the fully settled graph.
type Dispatcher struct {
	conventions *ConventionSet
	logger      *diagnostics.Logger

	// scope is the open batch scope; nil means Idle, i.e. events dispatch
	// immediately as degenerate one-event batches.
	scope *batchScope
}

type batchScope struct {
	depth int
	nodes []eventNode
}

func newDispatcher(set *ConventionSet, logger *diagnostics.Logger) *Dispatcher {
	if set == nil {
		set = NewConventionSet()
	}
	return &Dispatcher{conventions: set, logger: logger}
}

// Conventions returns the convention set the dispatcher runs.
func (d *Dispatcher) Conventions() *ConventionSet {
	return d.conventions
}

// InBatch reports whether event propagation is currently deferred.
func (d *Dispatcher) InBatch() bool {
	return d.scope != nil
}

// StartBatch defers event propagation until the returned batch closes.
// Batches nest: events queue on the outermost open scope and drain when it
// closes. Callers must close on every exit path, typically:
//
//	batch := dispatcher.StartBatch()
//	defer batch.Close()
func (d *Dispatcher) StartBatch() *Batch {
	if d.scope == nil {
		d.scope = &batchScope{}
	}
	d.scope.depth++
	return &Batch{dispatcher: d, scope: d.scope}
}

// Batch is a scoped deferral of event propagation.
type Batch struct {
	dispatcher *Dispatcher
	scope      *batchScope
	closed     bool
}

// Close ends the batch. Closing the outermost batch drains the queued
// events in arrival order. Close is idempotent so it is safe to both defer
// it and call it on the success path.
func (b *Batch) Close() {
	if b.closed {
		return
	}
	b.closed = true
	b.scope.depth--
	if b.scope.depth > 0 {
		return
	}
	// Leaving Batching: detach the scope first so conventions run Idle and
	// their own batches drain depth-first.
	b.dispatcher.scope = nil
	for _, node := range b.scope.nodes {
		node.dispatch(b.dispatcher)
	}
}

// raise queues the event while a batch is open, otherwise dispatches it
// immediately and synchronously.
func (d *Dispatcher) raise(n eventNode) {
	if d.scope != nil {
		d.scope.nodes = append(d.scope.nodes, n)
		return
	}
	n.dispatch(d)
}

// Context is handed to every convention callback. A convention may stop the
// remaining conventions registered for the same event; other queued events
// are unaffected.
type Context struct {
	dispatcher *Dispatcher
	stopped    bool
}

// StopProcessing short-circuits the remaining conventions for the current
// event.
func (c *Context) StopProcessing() {
	c.stopped = true
}

// ShouldStopProcessing reports whether a convention has short-circuited the
// current event.
func (c *Context) ShouldStopProcessing() bool {
	return c.stopped
}

// Dispatcher returns the dispatcher running the current event, letting a
// convention open nested batches around its own mutations.
func (c *Context) Dispatcher() *Dispatcher {
	return c.dispatcher
}
