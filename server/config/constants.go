package config

// Fixed server settings. Ports are not configurable; deployments that need a
// different port front the server with a proxy.
const (
	DEFAULT_SERVER_ADDRESS = "0.0.0.0"
	HTTP_SERVER_PORT       = 2850
	HTTP_SERVER_ENABLED    = true
)
