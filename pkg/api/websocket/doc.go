// Package websocket provides real-time event streaming via WebSocket.
//
// Clients can connect to /api/v1/session/ws to receive every event
// raised on the engine bus, in raise order, as JSON.
package websocket
