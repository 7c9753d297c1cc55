package config

import "time"

// Application constants
const (
	// Application Info
	AppName    = "Supply Chain Dashboard"
	AppVersion = "1.0.0"

	// Source workbook
	DefaultWorkbookPath  = "supplaychain.xlsx"
	DefaultWatchDebounce = 500 * time.Millisecond

	// Rate Limiting
	DefaultRateLimit = 100 // requests per second
	DefaultBurstSize = 50

	// WebSocket
	WebSocketPingPeriod      = 30 * time.Second
	WebSocketPongWait        = 60 * time.Second
	WebSocketReadBufferSize  = 1024
	WebSocketWriteBufferSize = 1024

	// Log Settings
	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"

	// Endpoints
	HealthEndpoint    = "/api/health"
	MetricsEndpoint   = "/metrics"
	WebSocketEndpoint = "/ws"
)
