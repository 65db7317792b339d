// Package mcp exposes the daemon over the Model Context Protocol so
// assistants can inspect tables and drive arrangements. Every tool delegates
// to the running daemon via IPC.
package mcp

import (
	"context"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/pokertile/internal/ipc"
)

const (
	ServerName    = "pokertile"
	ServerVersion = "0.1.0"
)

// Server is the MCP server for table arrangement.
type Server struct {
	mcpServer *mcpsdk.Server
	client    *ipc.Client
}

// NewServer creates a new MCP server backed by the daemon's IPC socket.
func NewServer() *Server {
	s := &Server{
		client: ipc.NewClient(),
	}

	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		},
		nil,
	)

	s.registerTools()
	return s
}

// Run starts the MCP server on stdio transport, blocking until done.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "get_status",
		Description: "Get daemon status: the active configuration, how many poker tables are currently managed, and uptime.",
	}, s.handleGetStatus)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_windows",
		Description: "List the poker table windows currently detected, with their classified type, display, and frame.",
	}, s.handleListWindows)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_configurations",
		Description: "List stored table arrangements. The active one is marked; configurations with auto-activation criteria apply themselves when the table set matches.",
	}, s.handleListConfigurations)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "apply_configuration",
		Description: "Apply a stored configuration by ID, moving every detected table into its assigned slot. Returns how many tables moved and which failed.",
	}, s.handleApplyConfiguration)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "capture_layout",
		Description: "Save the current table positions as a new configuration. With optimize set, positions are snapped to a clean grid first.",
	}, s.handleCaptureLayout)
}

func (s *Server) handleGetStatus(_ context.Context, _ *mcpsdk.CallToolRequest, _ GetStatusInput) (*mcpsdk.CallToolResult, GetStatusOutput, error) {
	status, err := s.client.GetStatus()
	if err != nil {
		return nil, GetStatusOutput{}, err
	}
	return nil, GetStatusOutput{
		ActiveConfiguration: status.ActiveConfiguration,
		WindowCount:         status.WindowCount,
		UptimeSeconds:       status.UptimeSeconds,
		DaemonRunning:       status.DaemonRunning,
	}, nil
}

func (s *Server) handleListWindows(_ context.Context, _ *mcpsdk.CallToolRequest, _ ListWindowsInput) (*mcpsdk.CallToolResult, ListWindowsOutput, error) {
	data, err := s.client.ListWindows()
	if err != nil {
		return nil, ListWindowsOutput{}, err
	}

	out := ListWindowsOutput{Windows: make([]WindowInfo, len(data.Windows))}
	for i, w := range data.Windows {
		out.Windows[i] = WindowInfo{
			ID:          w.ID,
			Title:       w.Title,
			WindowClass: w.WindowClass,
			TypeID:      w.TypeID,
			TypeName:    w.TypeName,
			DisplayID:   w.DisplayID,
			X:           w.X,
			Y:           w.Y,
			Width:       w.Width,
			Height:      w.Height,
		}
	}
	return nil, out, nil
}

func (s *Server) handleListConfigurations(_ context.Context, _ *mcpsdk.CallToolRequest, _ ListConfigurationsInput) (*mcpsdk.CallToolResult, ListConfigurationsOutput, error) {
	data, err := s.client.ListConfigurations()
	if err != nil {
		return nil, ListConfigurationsOutput{}, err
	}

	out := ListConfigurationsOutput{Configurations: make([]ConfigurationInfo, len(data.Configurations))}
	for i, c := range data.Configurations {
		out.Configurations[i] = ConfigurationInfo{
			ID:             c.ID,
			Name:           c.Name,
			SlotCount:      c.SlotCount,
			Active:         c.Active,
			AutoActivation: c.AutoActivation,
		}
	}
	return nil, out, nil
}

func (s *Server) handleApplyConfiguration(_ context.Context, _ *mcpsdk.CallToolRequest, args ApplyConfigurationInput) (*mcpsdk.CallToolResult, ApplyConfigurationOutput, error) {
	result, err := s.client.ApplyConfiguration(args.ConfigurationID)
	if err != nil {
		return nil, ApplyConfigurationOutput{}, err
	}
	return nil, ApplyConfigurationOutput{
		Moved:  result.Moved,
		Failed: result.Failed,
	}, nil
}

func (s *Server) handleCaptureLayout(_ context.Context, _ *mcpsdk.CallToolRequest, args CaptureLayoutInput) (*mcpsdk.CallToolResult, CaptureLayoutOutput, error) {
	result, err := s.client.CaptureLayout(args.Name, args.Optimize)
	if err != nil {
		return nil, CaptureLayoutOutput{}, err
	}
	return nil, CaptureLayoutOutput{
		ConfigurationID: result.ConfigurationID,
		SlotCount:       result.SlotCount,
	}, nil
}
