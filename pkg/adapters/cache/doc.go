// Package cache provides ports.Cache implementations.
//
// Implementations:
//   - redis: Redis with JSON serialization and TTL
//   - memory: In-memory map with lazy expiry, used when REDIS_ADDR is empty
package cache
