// Package storage provides ports.Store implementations.
//
// Implementations:
//   - postgres: PostgreSQL through a pgx connection pool
//   - memory: In-memory, for STORAGE_BACKEND=memory and tests
package storage
