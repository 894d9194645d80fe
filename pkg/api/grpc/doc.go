// Package grpc serves the standard grpc.health.v1 Health service, reporting
// NOT_SERVING while the backing store is unreachable.
package grpc
