// Package repool provides bounded, thread-safe pooling for expensive
// reusable resources such as connections and parsed handles.
//
// Unlike sync.Pool, repool gives deterministic control over resource
// lifetime: pooled instances carry creation and release timestamps, and
// acquisition lazily evicts instances that have exceeded a maximum age
// or a maximum idle duration. The package also ships two concrete pools
// built on the generic core:
//   - BufferPool: reusable byte buffers for JSON serialization
//   - BytePool: reusable fixed-size byte slices
//
// Pool activity can be exported via Prometheus for monitoring pool
// effectiveness; see Metrics.
package repool
