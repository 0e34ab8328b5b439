// Package request implements the process-wide outstanding-request tracker
// described in spec.md §4.5: request-id allocation, per-session FIFO
// windowing, retransmission timers, and the responder-side at-most-once
// response cache. spec.md's single-threaded cooperative event loop becomes,
// in idiomatic Go, a goroutine-safe Tracker whose completions are delivered
// through a Future channel a caller can poll or block on — the Design
// Notes' "future-like handle" rendered the Go way.
package request

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"sync"
	"time"
)

// Result is the outcome delivered to a Future when a request completes.
type Result struct {
	Data []byte // raw response bytes, nil on error
	Err  error  // non-nil for noResponse or session teardown
}

// ErrNoResponse is delivered when retries are exhausted without a reply.
var ErrNoResponse = fmt.Errorf("request: noResponse")

// ErrSessionClosed is delivered to outstanding requests on a destroyed session.
var ErrSessionClosed = fmt.Errorf("request: session closed")

// Future is a single-completion handle for one outstanding request. It can
// be polled (Poll) from a host event loop or blocked on (Wait) from a
// synchronous call.
type Future struct {
	ch   chan Result
	once sync.Once
	done bool
	res  Result
}

func newFuture() *Future { return &Future{ch: make(chan Result, 1)} }

func (f *Future) deliver(r Result) {
	f.once.Do(func() { f.ch <- r })
}

// Wait blocks until the request completes or ctx is done.
func (f *Future) Wait(ctx context.Context) (Result, error) {
	select {
	case r := <-f.ch:
		f.done, f.res = true, r
		return r, nil
	case <-ctx.Done():
		return Result{}, ctx.Err()
	}
}

// Poll returns the result without blocking if the request has already
// completed, mirroring the host loop's poll-style use of a future handle.
func (f *Future) Poll() (Result, bool) {
	if f.done {
		return f.res, true
	}
	select {
	case r := <-f.ch:
		f.done, f.res = true, r
		return r, true
	default:
		return Result{}, false
	}
}

// SendFunc transmits the bytes for one attempt of an outstanding request.
// The tracker calls it once on first dispatch and again on every
// retransmission (the caller is expected to re-apply USM authentication
// for v3 sessions before each call, per spec.md §4.4).
type SendFunc func(attempt int) ([]byte, error)

// outstanding is one entry in the tracker's process-wide list (spec.md §4.5).
type outstanding struct {
	requestID  int32
	sessionKey any
	send       SendFunc
	maxRetries int
	perAttempt time.Duration
	attempt    int
	timer      *time.Timer
	future     *Future
	onComplete func(Result)
}

// Tracker is the process-wide (per-Engine, in this module's design) list of
// outstanding requests, id allocation, and per-session windowing.
type Tracker struct {
	mu sync.Mutex

	active  map[int32]*outstanding
	waiting map[any][]*outstanding // FIFO per session, blocked on window
	inFlt   map[any]int            // active count per session
	window  map[any]int            // configured window per session
}

// NewTracker returns an empty, ready-to-use Tracker.
func NewTracker() *Tracker {
	return &Tracker{
		active:  make(map[int32]*outstanding),
		waiting: make(map[any][]*outstanding),
		inFlt:   make(map[any]int),
		window:  make(map[any]int),
	}
}

// SetWindow configures the maximum number of concurrently outstanding
// requests for sessionKey (spec.md §3 Session.window). Window <= 0 means 1.
func (t *Tracker) SetWindow(sessionKey any, window int) {
	if window <= 0 {
		window = 1
	}
	t.mu.Lock()
	t.window[sessionKey] = window
	t.mu.Unlock()
}

// AllocateRequestID draws a uniform random id not already outstanding,
// per spec.md §4.5. Collisions are rejected and redrawn.
func (t *Tracker) AllocateRequestID() int32 {
	t.mu.Lock()
	defer t.mu.Unlock()
	for {
		var b [4]byte
		_, _ = rand.Read(b[:])
		id := int32(binary.BigEndian.Uint32(b[:]) &^ 0x80000000)
		if _, used := t.active[id]; !used {
			return id
		}
	}
}

// Submit registers a new outstanding request for sessionKey. If the
// session's window has room and this request is at the head of its FIFO,
// it is sent immediately (attempt 1); otherwise it waits for an earlier
// request on the same session to complete.
func (t *Tracker) Submit(sessionKey any, requestID int32, maxRetries int, perAttempt time.Duration, send SendFunc) *Future {
	fut := newFuture()
	o := &outstanding{
		requestID:  requestID,
		sessionKey: sessionKey,
		send:       send,
		maxRetries: maxRetries,
		perAttempt: perAttempt,
		future:     fut,
	}
	t.mu.Lock()
	t.active[requestID] = o
	if t.canSendLocked(sessionKey) {
		t.inFlt[sessionKey]++
		t.mu.Unlock()
		t.dispatch(o)
		return fut
	}
	t.waiting[sessionKey] = append(t.waiting[sessionKey], o)
	t.mu.Unlock()
	return fut
}

func (t *Tracker) canSendLocked(sessionKey any) bool {
	w := t.window[sessionKey]
	if w <= 0 {
		w = 1
	}
	return t.inFlt[sessionKey] < w && len(t.waiting[sessionKey]) == 0
}

// dispatch performs one send attempt and arms the retransmission timer.
func (t *Tracker) dispatch(o *outstanding) {
	o.attempt++
	_, err := o.send(o.attempt)
	if err != nil {
		t.fail(o, err)
		return
	}
	o.timer = time.AfterFunc(o.perAttempt, func() { t.onTimeout(o) })
}

func (t *Tracker) onTimeout(o *outstanding) {
	t.mu.Lock()
	if _, stillActive := t.active[o.requestID]; !stillActive {
		t.mu.Unlock()
		return
	}
	if o.attempt > o.maxRetries {
		t.mu.Unlock()
		t.fail(o, ErrNoResponse)
		return
	}
	t.mu.Unlock()
	t.dispatch(o)
}

func (t *Tracker) fail(o *outstanding, err error) {
	t.finish(o, Result{Err: err})
}

// Complete is called by the message engine when a response matching
// requestID arrives. It cancels the retransmission timer, removes the
// request from the active set, and promotes the next waiter on the
// same session.
func (t *Tracker) Complete(requestID int32, data []byte) bool {
	t.mu.Lock()
	o, ok := t.active[requestID]
	t.mu.Unlock()
	if !ok {
		return false
	}
	t.finish(o, Result{Data: data})
	return true
}

func (t *Tracker) finish(o *outstanding, res Result) {
	t.mu.Lock()
	if _, stillActive := t.active[o.requestID]; !stillActive {
		t.mu.Unlock()
		return
	}
	delete(t.active, o.requestID)
	if o.timer != nil {
		o.timer.Stop()
	}
	t.inFlt[o.sessionKey]--
	if t.inFlt[o.sessionKey] < 0 {
		t.inFlt[o.sessionKey] = 0
	}
	var next *outstanding
	if q := t.waiting[o.sessionKey]; len(q) > 0 {
		next, t.waiting[o.sessionKey] = q[0], q[1:]
		t.inFlt[o.sessionKey]++
	}
	t.mu.Unlock()

	o.future.deliver(res)
	if o.onComplete != nil {
		o.onComplete(res)
	}
	if next != nil {
		t.dispatch(next)
	}
}

// CancelSession completes every outstanding and waiting request for
// sessionKey with a synthetic noResponse/session-closed error and cancels
// their timers, per spec.md §5's destroy-session cancellation semantics.
func (t *Tracker) CancelSession(sessionKey any) {
	t.mu.Lock()
	var toFail []*outstanding
	for _, o := range t.active {
		if o.sessionKey == sessionKey {
			toFail = append(toFail, o)
		}
	}
	delete(t.waiting, sessionKey)
	delete(t.inFlt, sessionKey)
	delete(t.window, sessionKey)
	t.mu.Unlock()

	for _, o := range toFail {
		t.finish(o, Result{Err: ErrSessionClosed})
	}
}

// Outstanding reports the number of requests for sessionKey that have
// not completed: those in flight plus those waiting for window room
// (used by Wait-all semantics in the session package).
func (t *Tracker) Outstanding(sessionKey any) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	n := t.inFlt[sessionKey]
	for _, o := range t.waiting[sessionKey] {
		_ = o
		n++
	}
	return n
}
