// Package config loads the frozen AppConfig snapshot the launch pipeline
// evaluates against. The snapshot is produced once, before the coordinator
// starts, and is never mutated afterwards, so readers take no locks.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// DefaultPath is the config file read when the driver gets no argument.
const DefaultPath = "/etc/hydrogen/hydrogen.json"

// AppConfig is the root of the frozen configuration tree.
type AppConfig struct {
	ServerName string `json:"server_name"`

	Payload    PayloadConfig    `json:"payload"`
	Network    NetworkConfig    `json:"network"`
	Logging    LoggingConfig    `json:"logging"`
	Database   DatabaseConfig   `json:"database"`
	WebServer  WebServerConfig  `json:"web_server"`
	API        APIConfig        `json:"api"`
	Swagger    SwaggerConfig    `json:"swagger"`
	WebSocket  WebSocketConfig  `json:"websocket"`
	Terminal   ToggleConfig     `json:"terminal"`
	MDNSServer MDNSServerConfig `json:"mdns_server"`
	MDNSClient ToggleConfig     `json:"mdns_client"`
	MailRelay  SMTPConfig       `json:"mail_relay"`
	PrintQueue PrintQueueConfig `json:"print_queue"`
	Notify     SMTPConfig       `json:"notify"`
	Resources  ToggleConfig     `json:"resources"`
	OIDC       ToggleConfig     `json:"oidc"`

	// envSources maps dotted config paths to the environment variable each
	// value was interpolated from, e.g. "payload.key" -> "PAYLOAD_KEY".
	envSources map[string]string
	// envValues holds the resolved string values by dotted path. Values
	// must pass through MaskIfSensitive before reaching any log message.
	envValues map[string]string
}

// PayloadConfig configures the appended-payload checks.
type PayloadConfig struct {
	Key string `json:"key"`
}

// NetworkConfig lists the interfaces the server intends to use.
type NetworkConfig struct {
	Interfaces []InterfaceConfig `json:"interfaces"`
}

// InterfaceConfig names an interface and whether the operator considers it
// available. Available=false administratively disables the interface.
type InterfaceConfig struct {
	Name      string `json:"name"`
	Available bool   `json:"available"`
}

// LoggingConfig configures the output sinks of the logging subsystem.
type LoggingConfig struct {
	Console  SinkConfig     `json:"console"`
	File     FileSinkConfig `json:"file"`
	Database SinkConfig     `json:"database"`
	Notify   SinkConfig     `json:"notify"`
}

// SinkConfig is a single logging output with a numeric severity floor.
type SinkConfig struct {
	Enabled bool `json:"enabled"`
	Level   int  `json:"level"`
}

// FileSinkConfig is the file-backed logging output.
type FileSinkConfig struct {
	Enabled bool   `json:"enabled"`
	Level   int    `json:"level"`
	Path    string `json:"path"`
}

// DatabaseConfig lists the configured database connections.
type DatabaseConfig struct {
	Connections []DatabaseConnection `json:"connections"`
}

// DatabaseConnection describes one database engine endpoint.
type DatabaseConnection struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Host     string `json:"host"`
	Port     int    `json:"port"`
	User     string `json:"user"`
	Pass     string `json:"pass"`
	Database string `json:"database"`
	Path     string `json:"path"`
}

// WebServerConfig configures the HTTP server subsystem.
type WebServerConfig struct {
	Enabled       bool   `json:"enabled"`
	Port          int    `json:"port"`
	WebRoot       string `json:"web_root"`
	UploadPath    string `json:"upload_path"`
	UploadDir     string `json:"upload_dir"`
	MaxUploadSize int64  `json:"max_upload_size"`
}

// APIConfig configures the REST API subsystem.
type APIConfig struct {
	Prefix    string `json:"prefix"`
	JWTSecret string `json:"jwt_secret"`
}

// SwaggerConfig configures the API documentation subsystem.
type SwaggerConfig struct {
	Enabled                  bool   `json:"enabled"`
	Prefix                   string `json:"prefix"`
	Title                    string `json:"title"`
	Version                  string `json:"version"`
	Description              string `json:"description"`
	DefaultModelsExpandDepth int    `json:"default_models_expand_depth"`
	DefaultModelExpandDepth  int    `json:"default_model_expand_depth"`
	DocExpansion             string `json:"doc_expansion"`
}

// WebSocketConfig configures the WebSocket subsystem.
type WebSocketConfig struct {
	Enabled  bool   `json:"enabled"`
	Port     int    `json:"port"`
	Protocol string `json:"protocol"`
	Key      string `json:"key"`
}

// MDNSServerConfig configures mDNS advertisement.
type MDNSServerConfig struct {
	Enabled  bool   `json:"enabled"`
	DeviceID string `json:"device_id"`
}

// SMTPConfig is shared by the mail relay and notify subsystems.
type SMTPConfig struct {
	Enabled  bool   `json:"enabled"`
	SMTPHost string `json:"smtp_host"`
	SMTPPort int    `json:"smtp_port"`
	From     string `json:"from"`
}

// PrintQueueConfig configures the print queue subsystem.
type PrintQueueConfig struct {
	Enabled           bool    `json:"enabled"`
	CommandBufferSize int     `json:"command_buffer_size"`
	Priorities        []int   `json:"priorities"`
	ShutdownWaitMS    int     `json:"shutdown_wait_ms"`
	JobTimeoutMS      int     `json:"job_timeout_ms"`
	MinMessageSize    int     `json:"min_message_size"`
	MaxMessageSize    int     `json:"max_message_size"`
	MaxSpeed          float64 `json:"max_speed"`
	MaxAcceleration   float64 `json:"max_acceleration"`
	MaxJerk           float64 `json:"max_jerk"`
}

// ToggleConfig is the minimal config shape shared by subsystems whose only
// launch gate is presence.
type ToggleConfig struct {
	Enabled bool `json:"enabled"`
}

// Load reads, interpolates, and decodes the config file at path.
func Load(path string) (*AppConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFailedToLoadConfig, err)
	}
	return Parse(raw)
}

// Parse decodes a raw JSON document, applying ${env.NAME} interpolation
// before the structural decode.
func Parse(raw []byte) (*AppConfig, error) {
	var tree map[string]any
	if err := json.Unmarshal(raw, &tree); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidJSON, err)
	}

	sources := map[string]string{}
	values := map[string]string{}
	interpolateTree(tree, "", sources, values)

	flat, err := json.Marshal(tree)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidJSON, err)
	}

	cfg := &AppConfig{}
	if err := json.Unmarshal(flat, cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidJSON, err)
	}
	cfg.envSources = sources
	cfg.envValues = values
	return cfg, nil
}

// EnvSource reports the environment variable a dotted config path was
// interpolated from, if any.
func (c *AppConfig) EnvSource(path string) (string, bool) {
	name, ok := c.envSources[path]
	return name, ok
}

// EnvSources returns every interpolated path and its environment variable.
func (c *AppConfig) EnvSources() map[string]string {
	out := make(map[string]string, len(c.envSources))
	for path, name := range c.envSources {
		out[path] = name
	}
	return out
}

// EnvValueMasked returns the resolved value for a dotted path, masked when
// the environment variable name marks it sensitive. Non-string and unset
// values report as empty.
func (c *AppConfig) EnvValueMasked(path string) string {
	value, ok := c.envValues[path]
	if !ok {
		return ""
	}
	return MaskIfSensitive(c.envSources[path], value)
}

// Validate rejects structurally impossible values. Launch readiness applies
// the full precondition tables; this only guards the obvious.
func (c *AppConfig) Validate() error {
	var errs []error
	if c.WebServer.Port < 0 {
		errs = append(errs, fmt.Errorf("%w: web_server.port %d", ErrInvalidValue, c.WebServer.Port))
	}
	if c.WebSocket.Port < 0 {
		errs = append(errs, fmt.Errorf("%w: websocket.port %d", ErrInvalidValue, c.WebSocket.Port))
	}
	if c.WebServer.MaxUploadSize < 0 {
		errs = append(errs, fmt.Errorf("%w: web_server.max_upload_size %d", ErrInvalidValue, c.WebServer.MaxUploadSize))
	}
	for _, conn := range c.Database.Connections {
		if conn.Port < 0 {
			errs = append(errs, fmt.Errorf("%w: database connection %q port %d", ErrInvalidValue, conn.Name, conn.Port))
		}
	}
	return errors.Join(errs...)
}
