package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/1broseidon/pokertile/internal/runtimepath"
)

// Client handles IPC communication with the daemon
type Client struct {
	socketPath string
	timeout    time.Duration
}

// NewClient creates a new IPC client
func NewClient() *Client {
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		// Keep constructor non-failing; sendRequest surfaces connection errors.
		socketPath = ""
	}

	return &Client{
		socketPath: socketPath,
		timeout:    5 * time.Second,
	}
}

// sendRequest sends a request and waits for a response
func (c *Client) sendRequest(req *Request) (*Response, error) {
	conn, err := net.DialTimeout("unix", c.socketPath, c.timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to daemon: %w (is the daemon running?)", err)
	}
	defer conn.Close()

	conn.SetDeadline(time.Now().Add(c.timeout))

	reqData, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	reqData = append(reqData, '\n')
	if _, err := conn.Write(reqData); err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	reader := bufio.NewReader(conn)
	respData, err := reader.ReadBytes('\n')
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var resp Response
	if err := json.Unmarshal(respData, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if resp.Status == "ERROR" {
		return nil, fmt.Errorf("daemon error: %s", resp.Error)
	}

	return &resp, nil
}

// GetStatus retrieves daemon status
func (c *Client) GetStatus() (*StatusData, error) {
	resp, err := c.sendRequest(&Request{Command: CommandGetStatus})
	if err != nil {
		return nil, err
	}

	var status StatusData
	if err := json.Unmarshal(resp.Data, &status); err != nil {
		return nil, fmt.Errorf("failed to parse status data: %w", err)
	}
	return &status, nil
}

// GetDisplays retrieves display information
func (c *Client) GetDisplays() (*DisplaysData, error) {
	resp, err := c.sendRequest(&Request{Command: CommandGetDisplays})
	if err != nil {
		return nil, err
	}

	var displays DisplaysData
	if err := json.Unmarshal(resp.Data, &displays); err != nil {
		return nil, fmt.Errorf("failed to parse displays data: %w", err)
	}
	return &displays, nil
}

// ListWindows retrieves the managed window list
func (c *Client) ListWindows() (*WindowsData, error) {
	resp, err := c.sendRequest(&Request{Command: CommandListWindows})
	if err != nil {
		return nil, err
	}

	var windows WindowsData
	if err := json.Unmarshal(resp.Data, &windows); err != nil {
		return nil, fmt.Errorf("failed to parse windows data: %w", err)
	}
	return &windows, nil
}

// ListConfigurations retrieves stored configurations
func (c *Client) ListConfigurations() (*ConfigsData, error) {
	resp, err := c.sendRequest(&Request{Command: CommandListConfigs})
	if err != nil {
		return nil, err
	}

	var configs ConfigsData
	if err := json.Unmarshal(resp.Data, &configs); err != nil {
		return nil, fmt.Errorf("failed to parse configurations data: %w", err)
	}
	return &configs, nil
}

// ApplyConfiguration applies a stored configuration by ID
func (c *Client) ApplyConfiguration(id string) (*ApplyResultData, error) {
	payload, err := json.Marshal(ApplyConfigPayload{ConfigurationID: id})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal apply payload: %w", err)
	}

	resp, err := c.sendRequest(&Request{Command: CommandApplyConfig, Payload: payload})
	if err != nil {
		return nil, err
	}

	var result ApplyResultData
	if err := json.Unmarshal(resp.Data, &result); err != nil {
		return nil, fmt.Errorf("failed to parse apply result: %w", err)
	}
	return &result, nil
}

// CaptureLayout snapshots the current arrangement into a new configuration
func (c *Client) CaptureLayout(name string, optimize bool) (*CaptureResultData, error) {
	payload, err := json.Marshal(CaptureLayoutPayload{Name: name, Optimize: optimize})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal capture payload: %w", err)
	}

	resp, err := c.sendRequest(&Request{Command: CommandCaptureLayout, Payload: payload})
	if err != nil {
		return nil, err
	}

	var result CaptureResultData
	if err := json.Unmarshal(resp.Data, &result); err != nil {
		return nil, fmt.Errorf("failed to parse capture result: %w", err)
	}
	return &result, nil
}

// Reload asks the daemon to reload configuration and window types
func (c *Client) Reload() error {
	_, err := c.sendRequest(&Request{Command: CommandReload})
	return err
}

// Ping checks if the daemon is responding
func (c *Client) Ping() error {
	_, err := c.GetStatus()
	return err
}
