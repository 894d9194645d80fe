// Package websocket provides real-time alert streaming via WebSocket.
//
// Clients connect to /api/alerts/ws, optionally with ?severity=high, and
// receive every alert.raised event published on the event bus.
package websocket
