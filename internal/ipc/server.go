package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"sync"

	"github.com/1broseidon/pokertile/internal/runtimepath"
)

// Controller is the daemon surface the IPC server exposes to clients.
type Controller interface {
	Status() StatusData
	Displays() (*DisplaysData, error)
	Windows() (*WindowsData, error)
	Configurations() (*ConfigsData, error)
	ApplyConfiguration(id string) (*ApplyResultData, error)
	CaptureLayout(name string, optimize bool) (*CaptureResultData, error)
	Reload() error
}

// Server handles IPC requests from clients
type Server struct {
	socketPath   string
	listener     net.Listener
	controller   Controller
	logger       *slog.Logger
	shuttingDown bool
	shutdownMu   sync.Mutex
}

// NewServer creates a new IPC server
func NewServer(controller Controller, logger *slog.Logger) (*Server, error) {
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve IPC socket path: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}

	// Remove existing socket if present
	os.Remove(socketPath)

	return &Server{
		socketPath: socketPath,
		controller: controller,
		logger:     logger,
	}, nil
}

// Start begins listening for IPC connections
func (s *Server) Start() error {
	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("failed to create IPC socket: %w", err)
	}
	s.listener = listener

	if err := os.Chmod(s.socketPath, 0600); err != nil {
		return fmt.Errorf("failed to set socket permissions: %w", err)
	}

	s.logger.Info("IPC server listening", "socket", s.socketPath)

	go s.acceptLoop()

	return nil
}

func (s *Server) acceptLoop() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			s.shutdownMu.Lock()
			if s.shuttingDown {
				s.shutdownMu.Unlock()
				return
			}
			s.shutdownMu.Unlock()
			s.logger.Error("IPC accept error", "error", err)
			continue
		}

		go s.handleConnection(conn)
	}
}

// handleConnection reads one JSON request line and writes one response line.
func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()

	reader := bufio.NewReader(conn)
	data, err := reader.ReadBytes('\n')
	if err != nil && err != io.EOF {
		s.logger.Error("IPC read error", "error", err)
		return
	}

	req, err := ParseRequest(data)
	if err != nil {
		s.sendError(conn, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	resp := s.handleCommand(req)

	respData, err := resp.Marshal()
	if err != nil {
		s.logger.Error("failed to marshal response", "error", err)
		return
	}

	respData = append(respData, '\n')
	if _, err := conn.Write(respData); err != nil {
		s.logger.Error("failed to send response", "error", err)
	}
}

func (s *Server) handleCommand(req *Request) *Response {
	switch req.Command {
	case CommandGetStatus:
		return s.handleGetStatus()
	case CommandGetDisplays:
		return s.handleGetDisplays()
	case CommandListWindows:
		return s.handleListWindows()
	case CommandListConfigs:
		return s.handleListConfigs()
	case CommandApplyConfig:
		return s.handleApplyConfig(req.Payload)
	case CommandCaptureLayout:
		return s.handleCaptureLayout(req.Payload)
	case CommandReload:
		return s.handleReload()
	default:
		return NewErrorResponse(fmt.Sprintf("Unknown command: %s", req.Command))
	}
}

func (s *Server) handleGetStatus() *Response {
	resp, _ := NewOKResponse(s.controller.Status())
	return resp
}

func (s *Server) handleGetDisplays() *Response {
	data, err := s.controller.Displays()
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to get displays: %v", err))
	}
	resp, _ := NewOKResponse(data)
	return resp
}

func (s *Server) handleListWindows() *Response {
	data, err := s.controller.Windows()
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to list windows: %v", err))
	}
	resp, _ := NewOKResponse(data)
	return resp
}

func (s *Server) handleListConfigs() *Response {
	data, err := s.controller.Configurations()
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to list configurations: %v", err))
	}
	resp, _ := NewOKResponse(data)
	return resp
}

func (s *Server) handleApplyConfig(payload json.RawMessage) *Response {
	var applyReq ApplyConfigPayload
	if err := json.Unmarshal(payload, &applyReq); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid apply payload: %v", err))
	}
	if applyReq.ConfigurationID == "" {
		return NewErrorResponse("configuration_id is required")
	}

	s.logger.Info("IPC: apply configuration", "id", applyReq.ConfigurationID)

	data, err := s.controller.ApplyConfiguration(applyReq.ConfigurationID)
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to apply configuration: %v", err))
	}
	resp, _ := NewOKResponse(data)
	return resp
}

func (s *Server) handleCaptureLayout(payload json.RawMessage) *Response {
	var captureReq CaptureLayoutPayload
	if err := json.Unmarshal(payload, &captureReq); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid capture payload: %v", err))
	}
	if captureReq.Name == "" {
		return NewErrorResponse("name is required")
	}

	s.logger.Info("IPC: capture layout", "name", captureReq.Name, "optimize", captureReq.Optimize)

	data, err := s.controller.CaptureLayout(captureReq.Name, captureReq.Optimize)
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to capture layout: %v", err))
	}
	resp, _ := NewOKResponse(data)
	return resp
}

func (s *Server) handleReload() *Response {
	s.logger.Info("IPC: reload requested")

	if err := s.controller.Reload(); err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to reload: %v", err))
	}
	resp, _ := NewOKResponse(nil)
	return resp
}

func (s *Server) sendError(conn net.Conn, errMsg string) {
	resp := NewErrorResponse(errMsg)
	data, _ := resp.Marshal()
	data = append(data, '\n')
	conn.Write(data)
}

// Stop gracefully shuts down the IPC server
func (s *Server) Stop() {
	s.shutdownMu.Lock()
	s.shuttingDown = true
	s.shutdownMu.Unlock()

	if s.listener != nil {
		s.listener.Close()
	}
	os.Remove(s.socketPath)
}
