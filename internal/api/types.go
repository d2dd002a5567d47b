package api

// CommandRequest is the body of POST /command
type CommandRequest struct {
	Command string `json:"command"`
}

// CommandResponse carries the raw RCON response, or an error rendered as
// text when the upstream is unavailable
type CommandResponse struct {
	Success bool   `json:"success"`
	Result  string `json:"result"`
}

// LogsResponse carries the requested tail of the log file
type LogsResponse struct {
	Success bool   `json:"success"`
	Logs    string `json:"logs"`
}

// StatusResponse wraps the on-demand status snapshot
type StatusResponse struct {
	Success bool           `json:"success"`
	Status  StatusSnapshot `json:"status"`
}

// StatusSnapshot is computed fresh for every status request, never stored
type StatusSnapshot struct {
	RconConnected    bool        `json:"rconConnected"`
	LogWatcherActive bool        `json:"logWatcherActive"`
	Bridge           BridgeStats `json:"bridge"`
}

// BridgeStats describes the bridge process itself
type BridgeStats struct {
	PID         int     `json:"pid"`
	Uptime      string  `json:"uptime"`
	MemoryBytes uint64  `json:"memoryBytes,omitempty"`
	CPUPercent  float64 `json:"cpuPercent,omitempty"`
}

// HealthResponse is the unauthenticated liveness payload
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// ErrorResponse is the uniform failure payload
type ErrorResponse struct {
	Error string `json:"error"`
}
