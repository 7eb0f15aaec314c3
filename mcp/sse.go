package mcp

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/foomo/buildin-mcp/service"
	"github.com/foomo/buildin-mcp/service/vo"
	"go.uber.org/zap"
)

// SSEEvent represents an SSE event structure
type SSEEvent struct {
	ID        string    `json:"id"`
	Event     string    `json:"event"`
	Data      any       `json:"data"`
	Timestamp time.Time `json:"timestamp"`
}

func newEvent(event string, data any) SSEEvent {
	now := time.Now()
	return SSEEvent{
		ID:        fmt.Sprintf("%s_%d", event, now.UnixNano()),
		Event:     event,
		Data:      data,
		Timestamp: now,
	}
}

var errStreamClosed = errors.New("event stream closed")

// eventStream writes SSE frames to a single response. Once closed it never
// touches the response again, the handler owning it may have returned.
type eventStream struct {
	mu      sync.Mutex
	writer  http.ResponseWriter
	flusher http.Flusher
	closed  bool
}

func (s *eventStream) send(event SSEEvent) error {
	eventJSON, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return errStreamClosed
	}
	if _, err := fmt.Fprintf(s.writer, "id: %s\nevent: %s\ndata: %s\n\n", event.ID, event.Event, eventJSON); err != nil {
		return fmt.Errorf("failed to write event: %w", err)
	}
	s.flusher.Flush()
	return nil
}

// close waits for a running send and blocks all further ones
func (s *eventStream) close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
}

// SSEClient represents a connected SSE client
type SSEClient struct {
	ID       string
	Done     chan struct{}
	stream   *eventStream
	lastSeen time.Time
}

func (c *SSEClient) send(event SSEEvent) error {
	if err := c.stream.send(event); err != nil {
		return err
	}
	c.stream.mu.Lock()
	c.lastSeen = time.Now()
	c.stream.mu.Unlock()
	return nil
}

func (c *SSEClient) LastSeen() time.Time {
	c.stream.mu.Lock()
	defer c.stream.mu.Unlock()
	return c.lastSeen
}

// SSEServerConfig holds configuration for the SSE server
type SSEServerConfig struct {
	KeepaliveInterval time.Duration
	BufferSize        int
	ClientTimeout     time.Duration
}

// DefaultSSEServerConfig returns the default configuration for SSE server
func DefaultSSEServerConfig() *SSEServerConfig {
	return &SSEServerConfig{
		KeepaliveInterval: 30 * time.Second,
		BufferSize:        100,
		ClientTimeout:     60 * time.Second,
	}
}

// MCPSSEServer streams page and search results as server sent events and
// notifies connected clients about rendered pages
type MCPSSEServer struct {
	logger       *zap.Logger
	service      service.Service
	config       *SSEServerConfig
	clients      map[string]*SSEClient
	clientsMutex sync.RWMutex
	broadcast    chan SSEEvent
	done         chan struct{}
	closeOnce    sync.Once
	nextClientID int
}

// NewMCPSSEServer creates a new MCP SSE server
func NewMCPSSEServer(logger *zap.Logger, serviceInstance service.Service, config *SSEServerConfig) *MCPSSEServer {
	if config == nil {
		config = DefaultSSEServerConfig()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	sseServer := &MCPSSEServer{
		logger:    logger,
		service:   serviceInstance,
		config:    config,
		clients:   make(map[string]*SSEClient),
		broadcast: make(chan SSEEvent, config.BufferSize),
		done:      make(chan struct{}),
	}

	go sseServer.broadcastLoop()

	return sseServer
}

// Close stops the broadcast loop and disconnects all clients
func (s *MCPSSEServer) Close() {
	s.closeOnce.Do(func() {
		close(s.done)
		s.clientsMutex.Lock()
		defer s.clientsMutex.Unlock()
		for id, client := range s.clients {
			close(client.Done)
			delete(s.clients, id)
		}
	})
}

func (s *MCPSSEServer) broadcastLoop() {
	for {
		select {
		case <-s.done:
			return
		case event := <-s.broadcast:
			for _, client := range s.snapshotClients() {
				select {
				case <-client.Done:
					continue
				default:
				}
				if err := client.send(event); err != nil {
					if errors.Is(err, errStreamClosed) {
						continue
					}
					s.logger.Error("failed to send event to client", zap.String("clientID", client.ID), zap.Error(err))
					s.removeClient(client.ID)
				}
			}
		}
	}
}

func (s *MCPSSEServer) snapshotClients() []*SSEClient {
	s.clientsMutex.RLock()
	defer s.clientsMutex.RUnlock()
	clients := make([]*SSEClient, 0, len(s.clients))
	for _, client := range s.clients {
		clients = append(clients, client)
	}
	return clients
}

// addClient registers a new SSE client and confirms the connection
func (s *MCPSSEServer) addClient(w http.ResponseWriter) *SSEClient {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return nil
	}

	s.clientsMutex.Lock()
	s.nextClientID++
	clientID := fmt.Sprintf("client_%d_%d", time.Now().Unix(), s.nextClientID)
	client := &SSEClient{
		ID:       clientID,
		Done:     make(chan struct{}),
		stream:   &eventStream{writer: w, flusher: flusher},
		lastSeen: time.Now(),
	}
	s.clients[clientID] = client
	s.clientsMutex.Unlock()

	if err := client.send(newEvent("connected", map[string]string{"clientID": clientID, "message": "Connected to Buildin MCP SSE server"})); err != nil {
		s.logger.Error("failed to send connection event", zap.String("clientID", clientID), zap.Error(err))
		s.removeClient(clientID)
		client.stream.close()
		return nil
	}

	s.logger.Info("SSE client connected", zap.String("clientID", clientID))
	return client
}

// removeClient removes a client from the server
func (s *MCPSSEServer) removeClient(clientID string) {
	s.clientsMutex.Lock()
	defer s.clientsMutex.Unlock()

	if client, exists := s.clients[clientID]; exists {
		close(client.Done)
		delete(s.clients, clientID)
		s.logger.Info("SSE client disconnected", zap.String("clientID", clientID))
	}
}

// broadcastEvent sends an event to all connected clients
func (s *MCPSSEServer) broadcastEvent(event SSEEvent) {
	select {
	case s.broadcast <- event:
	default:
		s.logger.Warn("broadcast channel full, dropping event", zap.String("eventID", event.ID))
	}
}

func setSSEHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")
}

// HandleSSE keeps a client connected to receive broadcast events
func (s *MCPSSEServer) HandleSSE(w http.ResponseWriter, r *http.Request) {
	setSSEHeaders(w)
	w.Header().Set("Access-Control-Allow-Headers", "Cache-Control")

	client := s.addClient(w)
	if client == nil {
		return
	}
	defer client.stream.close()

	ticker := time.NewTicker(s.config.KeepaliveInterval)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			s.removeClient(client.ID)
			return
		case <-client.Done:
			return
		case <-ticker.C:
			if err := client.send(newEvent("keepalive", map[string]any{"timestamp": time.Now()})); err != nil {
				s.removeClient(client.ID)
				return
			}
		}
	}
}

// startStream validates the streaming support and writes the SSE headers
func startStream(w http.ResponseWriter) (*eventStream, bool) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return nil, false
	}
	setSSEHeaders(w)
	return &eventStream{writer: w, flusher: flusher}, true
}

// run sends start, result or error and complete events for a single request
func (s *MCPSSEServer) run(stream *eventStream, prefix string, startData any, fn func() (any, error)) bool {
	send := func(event SSEEvent) {
		if err := stream.send(event); err != nil {
			s.logger.Warn("failed to send event", zap.String("event", event.Event), zap.Error(err))
		}
	}

	send(newEvent(prefix+"_start", startData))

	result, err := fn()
	if err != nil {
		send(newEvent(prefix+"_error", map[string]string{"error": err.Error()}))
		return false
	}

	send(newEvent(prefix+"_result", result))
	send(newEvent(prefix+"_complete", map[string]string{"status": "completed"}))
	return true
}

// HandlePageSSE renders a page and streams the markdown
func (s *MCPSSEServer) HandlePageSSE(w http.ResponseWriter, r *http.Request) {
	if s.service == nil {
		http.Error(w, "Page service not available", http.StatusServiceUnavailable)
		return
	}

	var request struct {
		PageID string `json:"pageId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}
	if request.PageID == "" {
		http.Error(w, "pageId is required", http.StatusBadRequest)
		return
	}

	stream, ok := startStream(w)
	if !ok {
		return
	}

	ok = s.run(stream, "page", map[string]string{"pageId": request.PageID}, func() (any, error) {
		markdown, err := s.service.GetPageMarkdown(r.Context(), request.PageID)
		if err != nil {
			return nil, err
		}
		return map[string]any{
			"pageId":   request.PageID,
			"uri":      service.PageURI(request.PageID),
			"markdown": string(markdown),
		}, nil
	})
	if ok {
		s.broadcastEvent(newEvent("page_rendered", map[string]string{"pageId": request.PageID}))
	}
}

// HandleSearchSSE runs a search and streams the resource links
func (s *MCPSSEServer) HandleSearchSSE(w http.ResponseWriter, r *http.Request) {
	if s.service == nil {
		http.Error(w, "Search service not available", http.StatusServiceUnavailable)
		return
	}

	var request vo.SearchOptions
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}
	if request.Query == "" {
		http.Error(w, "query is required", http.StatusBadRequest)
		return
	}

	stream, ok := startStream(w)
	if !ok {
		return
	}

	s.run(stream, "search", map[string]string{"query": request.Query}, func() (any, error) {
		return s.service.Search(r.Context(), request)
	})
}

// GetConnectedClients returns information about connected clients
func (s *MCPSSEServer) GetConnectedClients() []map[string]any {
	clients := s.snapshotClients()
	out := make([]map[string]any, 0, len(clients))
	for _, client := range clients {
		lastSeen := client.LastSeen()
		out = append(out, map[string]any{
			"id":        client.ID,
			"lastSeen":  lastSeen,
			"connected": time.Since(lastSeen) < s.config.ClientTimeout,
		})
	}
	return out
}

// GetStats returns server statistics
func (s *MCPSSEServer) GetStats() map[string]any {
	s.clientsMutex.RLock()
	defer s.clientsMutex.RUnlock()

	return map[string]any{
		"connectedClients": len(s.clients),
		"bufferSize":       len(s.broadcast),
		"serverVersion":    Version,
	}
}
