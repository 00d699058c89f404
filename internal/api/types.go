package api

// HealthResponse is the payload for GET /api/v1/health.
type HealthResponse struct {
	State       string `json:"state"`
	Connections int    `json:"connections"`
}

// StatusResponse is the payload for GET /api/v1/status.
type StatusResponse struct {
	State         string  `json:"state"`
	Connections   int     `json:"connections"`
	Broadcasts    uint64  `json:"broadcasts"`
	FramesSent    uint64  `json:"frames_sent"`
	UptimeSeconds float64 `json:"uptime_seconds"`
}

type errorResponse struct {
	Error string `json:"error"`
}
