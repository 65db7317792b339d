package mcp

// GetStatusInput is the input for the get_status tool.
type GetStatusInput struct{}

// GetStatusOutput is the output for the get_status tool.
type GetStatusOutput struct {
	ActiveConfiguration string `json:"active_configuration"`
	WindowCount         int    `json:"window_count"`
	UptimeSeconds       int64  `json:"uptime_seconds"`
	DaemonRunning       bool   `json:"daemon_running"`
}

// ListWindowsInput is the input for the list_windows tool.
type ListWindowsInput struct{}

// WindowInfo describes one managed poker table window.
type WindowInfo struct {
	ID          uint32  `json:"id"`
	Title       string  `json:"title"`
	WindowClass string  `json:"window_class"`
	TypeID      string  `json:"type_id"`
	TypeName    string  `json:"type_name"`
	DisplayID   int     `json:"display_id"`
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	Width       float64 `json:"width"`
	Height      float64 `json:"height"`
}

// ListWindowsOutput is the output for the list_windows tool.
type ListWindowsOutput struct {
	Windows []WindowInfo `json:"windows"`
}

// ListConfigurationsInput is the input for the list_configurations tool.
type ListConfigurationsInput struct{}

// ConfigurationInfo summarizes one stored configuration.
type ConfigurationInfo struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	SlotCount      int    `json:"slot_count"`
	Active         bool   `json:"active"`
	AutoActivation bool   `json:"auto_activation"`
}

// ListConfigurationsOutput is the output for the list_configurations tool.
type ListConfigurationsOutput struct {
	Configurations []ConfigurationInfo `json:"configurations"`
}

// ApplyConfigurationInput is the input for the apply_configuration tool.
type ApplyConfigurationInput struct {
	ConfigurationID string `json:"configuration_id" jsonschema:"required,ID of the stored configuration to apply"`
}

// ApplyConfigurationOutput is the output for the apply_configuration tool.
type ApplyConfigurationOutput struct {
	Moved  int      `json:"moved"`
	Failed []string `json:"failed,omitempty"`
}

// CaptureLayoutInput is the input for the capture_layout tool.
type CaptureLayoutInput struct {
	Name     string `json:"name" jsonschema:"required,Name for the captured configuration"`
	Optimize bool   `json:"optimize,omitempty" jsonschema:"When true, snap the captured positions to a clean grid"`
}

// CaptureLayoutOutput is the output for the capture_layout tool.
type CaptureLayoutOutput struct {
	ConfigurationID string `json:"configuration_id"`
	SlotCount       int    `json:"slot_count"`
}
