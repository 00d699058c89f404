// Package api serves the diagnostics endpoints of tickcast-server.
//
//	GET /api/v1/health — liveness plus reactor state
//	GET /api/v1/status — uptime, connection count, broadcast counters
//
// Both read from the status store; nothing here touches reactor-owned
// state. Mounted on the same listener as the WebSocket endpoint.
package api
