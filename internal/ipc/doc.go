// Package ipc implements introspection and live monitoring for the binder
// transaction layer: the targeting and paging resolvers, the access-checked
// info aggregator with its cached snapshot, the per-transaction monitor
// with its atomic counter bank, and the report formatters.
//
// All entry points are plain synchronous calls and may be invoked
// concurrently: the snapshot cache is guarded by an exclusive-write /
// shared-read lock, counters are independent atomics, and composite
// counter reads are eventually consistent rather than linearizable.
package ipc
