// Package coordinator serializes balance changes per player and applies them through the
// economy service on a bounded worker pool.
//
// Submit never blocks. A request becomes a Ticket that moves from pending to submitted when a
// worker picks it up, and then to committed, failed or cancelled. Transient economy failures
// are retried with exponential backoff; before a mutation is re-sent the balance is read again
// so an attempt that timed out after applying is not applied twice.
package coordinator
