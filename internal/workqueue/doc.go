// Package workqueue provides the bounded cross-task work channel between
// producer goroutines and the reactor.
//
// Queue is a thread-safe FIFO over a buffered channel. Enqueue never blocks
// the producer past a small configured bound: if the queue is full and stays
// full for the enqueue timeout, Enqueue returns ErrFull instead of waiting
// for the reactor to make progress. Drain is non-blocking and is called only
// from the reactor's own loop iteration; the channel doubles as the reactor's
// wake source via C.
//
// This replaces the classic blocking-broadcast design in which the producer
// waits until the consumer has fully processed the item — a design that
// deadlocks the producer whenever the consumer is not yet polling or is
// itself blocked.
package workqueue
