// Package producer runs the periodic broadcast task. On each firing it
// builds one work item carrying a fixed text payload and enqueues it on the
// bounded work queue; a full queue is logged and skipped, so the producer's
// schedule never depends on reactor progress.
package producer
