// Package events provides event bus implementations.
//
// Implementations:
//   - redis: Redis Streams with consumer groups
//   - memory: In-memory fan-out, used when REDIS_ADDR is empty
package events
