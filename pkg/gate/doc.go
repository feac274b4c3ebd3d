// Package gate provides the admission gate that paces outbound GIS MT
// API calls.
//
// # Overview
//
// The gate enforces "at most N calls per window" with blocking semantics:
// a caller that arrives over the limit is suspended until the next window
// opens, never rejected. Every request-issuing operation acquires an
// admission before touching the network:
//
//	g, err := gate.New(time.Minute, 10) // 10 requests per minute
//	if err != nil {
//	    return err
//	}
//	if err := g.Acquire(ctx); err != nil {
//	    return err // cancelled while waiting; do not send the request
//	}
//	// admission granted, perform the call
//
// # Fixed Window
//
// The gate uses a fixed window with lazy realignment: the window is reset
// wholesale once its duration has fully elapsed, rather than sliding
// continuously. A caller admitted just before a window boundary and another
// admitted just after may be less than one period apart. This short burst
// across the boundary is an accepted tradeoff of the fixed-window scheme;
// callers needing strict smoothing should pace themselves above the gate.
//
// # Cancellation
//
// Acquire respects context cancellation at every blocking point. A waiter
// that abandons the wait leaves the window counters untouched, so its slot
// remains claimable by the next caller.
//
// # Thread Safety
//
// Gate is safe for arbitrary concurrent callers. The window counters are
// only ever mutated inside a short critical section; the wait for the next
// window happens outside it, so sleeping callers do not block the counter
// bookkeeping of others.
package gate
