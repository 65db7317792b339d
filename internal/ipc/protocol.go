// Package ipc implements the unix-socket protocol between the daemon and
// the CLI/MCP front ends. Requests and responses are single-line JSON.
package ipc

import (
	"encoding/json"
	"fmt"
)

// CommandType represents different IPC command types
type CommandType string

const (
	CommandGetStatus     CommandType = "GET_STATUS"
	CommandGetDisplays   CommandType = "GET_DISPLAYS"
	CommandListWindows   CommandType = "LIST_WINDOWS"
	CommandListConfigs   CommandType = "LIST_CONFIGS"
	CommandApplyConfig   CommandType = "APPLY_CONFIG"
	CommandCaptureLayout CommandType = "CAPTURE_LAYOUT"
	CommandReload        CommandType = "RELOAD"
)

// Request represents an IPC request from client to server
type Request struct {
	Command CommandType     `json:"command"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Response represents an IPC response from server to client
type Response struct {
	Status string          `json:"status"` // "OK" or "ERROR"
	Data   json.RawMessage `json:"data,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// StatusData represents the data returned by GET_STATUS
type StatusData struct {
	ActiveConfiguration string `json:"active_configuration"`
	WindowCount         int    `json:"window_count"`
	UptimeSeconds       int64  `json:"uptime_seconds"`
	DaemonRunning       bool   `json:"daemon_running"`
}

// DisplayInfo represents information about a single display
type DisplayInfo struct {
	ID     int     `json:"id"`
	Name   string  `json:"name"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// DisplaysData represents the data returned by GET_DISPLAYS
type DisplaysData struct {
	Displays []DisplayInfo `json:"displays"`
}

// WindowInfo represents a managed window as seen by the daemon
type WindowInfo struct {
	ID          uint32  `json:"id"`
	PID         int     `json:"pid"`
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

// WindowsData represents the data returned by LIST_WINDOWS
type WindowsData struct {
	Windows []WindowInfo `json:"windows"`
}

// ConfigInfo summarizes a stored configuration
type ConfigInfo struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	SlotCount      int    `json:"slot_count"`
	Active         bool   `json:"active"`
	AutoActivation bool   `json:"auto_activation"`
}

// ConfigsData represents the data returned by LIST_CONFIGS
type ConfigsData struct {
	Configurations []ConfigInfo `json:"configurations"`
}

// ApplyConfigPayload represents the payload for APPLY_CONFIG
type ApplyConfigPayload struct {
	ConfigurationID string `json:"configuration_id"`
}

// ApplyResultData reports the outcome of APPLY_CONFIG
type ApplyResultData struct {
	Moved  int      `json:"moved"`
	Failed []string `json:"failed,omitempty"`
}

// CaptureLayoutPayload represents the payload for CAPTURE_LAYOUT
type CaptureLayoutPayload struct {
	Name string `json:"name"`
	// Optimize snaps the captured positions to a clean grid.
	Optimize bool `json:"optimize,omitempty"`
}

// CaptureResultData reports the outcome of CAPTURE_LAYOUT
type CaptureResultData struct {
	ConfigurationID string `json:"configuration_id"`
	SlotCount       int    `json:"slot_count"`
}

// NewOKResponse creates a successful response with optional data
func NewOKResponse(data interface{}) (*Response, error) {
	var dataBytes json.RawMessage
	if data != nil {
		bytes, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response data: %w", err)
		}
		dataBytes = bytes
	}

	return &Response{
		Status: "OK",
		Data:   dataBytes,
	}, nil
}

// NewErrorResponse creates an error response with a message
func NewErrorResponse(errMsg string) *Response {
	return &Response{
		Status: "ERROR",
		Error:  errMsg,
	}
}

// ParseRequest parses a request from JSON bytes
func ParseRequest(data []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse request: %w", err)
	}
	return &req, nil
}

// Marshal converts a response to JSON bytes
func (r *Response) Marshal() ([]byte, error) {
	return json.Marshal(r)
}
