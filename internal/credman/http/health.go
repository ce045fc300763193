package http

// HealthResponse is the body returned by the livez and readyz probes.
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks reports the state of downstream dependencies.
type HealthChecks struct {
	Database string `json:"database"`
}
