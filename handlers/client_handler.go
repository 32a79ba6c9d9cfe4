package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"village-raiders/server/mapgen"
	"village-raiders/server/messages"
	"village-raiders/server/models"
	"village-raiders/server/network"
	"village-raiders/server/services"
)

// ClientHandler manages a single client connection
type ClientHandler struct {
	conn          *network.Connection
	playerService *services.PlayerService
	worldService  *services.WorldService
	clientManager *ClientManager

	mutex   sync.Mutex
	player  *models.Player
	session *services.Session
}

// HandleClientConnection serves one client until its connection closes
func HandleClientConnection(wsConn *websocket.Conn, playerService *services.PlayerService, worldService *services.WorldService, clientManager *ClientManager) {
	conn := network.NewConnection(wsConn)
	log.Printf("New connection from %s", conn.RemoteAddr())

	handler := &ClientHandler{
		conn:          conn,
		playerService: playerService,
		worldService:  worldService,
		clientManager: clientManager,
	}

	go conn.WritePump()
	conn.ReadPump(handler)

	handler.mutex.Lock()
	player, session := handler.player, handler.session
	handler.mutex.Unlock()

	if session != nil {
		worldService.EndSession(session.ID)
	}
	if player != nil {
		clientManager.RemoveClient(player.ID, handler)
		log.Printf("Player %s disconnected", player.Username)
	}
}

// HandleMessage handles incoming messages from the client
func (h *ClientHandler) HandleMessage(conn *network.Connection, message []byte) {
	var msg messages.IncomingMessage
	if err := json.Unmarshal(message, &msg); err != nil {
		log.Printf("Error unmarshaling message: %v", err)
		h.sendError(messages.ErrorCodeBadMessage, "Malformed message")
		return
	}

	h.mutex.Lock()
	defer h.mutex.Unlock()

	if msg.Type != messages.MessageTypeLogin && h.player == nil {
		h.sendError(messages.ErrorCodeNotAuthenticated, "Log in first")
		return
	}

	switch msg.Type {
	case messages.MessageTypeLogin:
		h.handleLogin(msg.Payload)
	case messages.MessageTypeMove:
		h.handleMove(msg.Payload)
	case messages.MessageTypeSearch:
		h.handleSearch()
	case messages.MessageTypeEscape:
		h.handleEscape()
	case messages.MessageTypeRegenerate:
		h.startSession()
	case messages.MessageTypeMapRequest:
		h.handleMapRequest(msg.Payload)
	case messages.MessageTypeHistory:
		h.handleHistory(msg.Payload)
	default:
		log.Printf("Unknown message type: %s", msg.Type)
		h.sendError(messages.ErrorCodeUnknownType, "Unknown message type received")
	}
}

func decodePayload(payload json.RawMessage, v any) error {
	if len(payload) == 0 {
		return errors.New("missing payload")
	}
	return json.Unmarshal(payload, v)
}

func (h *ClientHandler) handleLogin(payload json.RawMessage) {
	var loginMsg messages.LoginMessage
	if err := decodePayload(payload, &loginMsg); err != nil {
		h.sendError(messages.ErrorCodeBadMessage, "Invalid login payload")
		return
	}
	if h.player != nil {
		h.sendError(messages.ErrorCodeLoginFailed, "Already logged in")
		return
	}

	player, err := h.playerService.GetOrCreatePlayer(loginMsg.Username)
	if err != nil {
		log.Printf("Error getting/creating player: %v", err)
		if errors.Is(err, services.ErrInvalidUsername) {
			h.sendError(messages.ErrorCodeLoginFailed, "Invalid username")
		} else {
			h.sendError(messages.ErrorCodeLoginFailed, "Failed to log in")
		}
		return
	}

	h.player = player
	h.clientManager.AddClient(player.ID, h)

	h.send(messages.BaseMessage{
		Type: messages.MessageTypeLoginSuccess,
		Payload: messages.LoginSuccessMessage{
			PlayerID: player.ID,
			Username: player.Username,
			Runs:     player.Runs,
			Escapes:  player.Escapes,
			Message:  "Login successful",
		},
	})

	h.startSession()
}

// startSession generates a new village for the player and sends it
func (h *ClientHandler) startSession() {
	if h.session != nil {
		h.worldService.EndSession(h.session.ID)
		h.session = nil
	}

	session, err := h.worldService.StartSession(h.player)
	if err != nil {
		log.Printf("Error starting session for %s: %v", h.player.Username, err)
		h.sendError(messages.ErrorCodeGenerationFailed, "Failed to generate a village")
		return
	}
	h.session = session

	if player, err := h.playerService.RecordRun(h.player.ID); err != nil {
		log.Printf("Error recording run for %s: %v", h.player.Username, err)
	} else {
		h.player = player
	}

	m := session.Map
	h.send(messages.BaseMessage{
		Type: messages.MessageTypeSessionStart,
		Payload: messages.SessionStartMessage{
			SessionID:       session.ID,
			Seed:            session.Seed,
			LootTable:       session.LootTable,
			Width:           m.Width,
			Height:          m.Height,
			TileSize:        mapgen.TileSize,
			ChunkSize:       session.Chunks.ChunkSize(),
			PlayerSpawn:     m.PlayerSpawn,
			JailDoor:        m.JailDoor,
			KeysNeeded:      session.KeysNeeded,
			CollidableTiles: models.CollidableTiles(),
		},
	})
	h.sendChunksAround(m.PlayerSpawn.X, m.PlayerSpawn.Y)
	h.sendUpdate()
}

func (h *ClientHandler) handleMove(payload json.RawMessage) {
	if !h.requireSession() {
		return
	}
	var moveMsg messages.MoveMessage
	if err := decodePayload(payload, &moveMsg); err != nil {
		h.sendError(messages.ErrorCodeBadMessage, "Invalid move payload")
		return
	}

	before := h.position()
	pos, err := h.worldService.MovePlayer(h.session.ID, moveMsg.Direction)
	if err != nil {
		h.sendError(messages.ErrorCodeMoveFailed, err.Error())
		return
	}

	fx, fy := h.session.Chunks.ChunkCoordinates(before.X, before.Y)
	tx, ty := h.session.Chunks.ChunkCoordinates(pos.X, pos.Y)
	if fx != tx || fy != ty {
		h.sendChunksAround(pos.X, pos.Y)
	}
	h.sendUpdate()
}

func (h *ClientHandler) handleSearch() {
	if !h.requireSession() {
		return
	}
	result, err := h.worldService.SearchObject(h.session.ID)
	if err != nil {
		h.sendError(messages.ErrorCodeSearchFailed, err.Error())
		return
	}

	h.send(messages.BaseMessage{
		Type: messages.MessageTypeSearchResult,
		Payload: messages.SearchResultMessage{
			X:        result.Object.X,
			Y:        result.Object.Y,
			Type:     result.Object.Type,
			Contents: result.Object.Contents,
			State:    result.State,
		},
	})
}

func (h *ClientHandler) handleEscape() {
	if !h.requireSession() {
		return
	}
	if _, err := h.worldService.TryEscape(h.session.ID); err != nil {
		h.sendError(messages.ErrorCodeEscapeFailed, err.Error())
		return
	}

	player, err := h.playerService.RecordEscape(h.player.ID)
	if err != nil {
		log.Printf("Error recording escape for %s: %v", h.player.Username, err)
	} else {
		h.player = player
	}

	h.send(messages.BaseMessage{
		Type: messages.MessageTypeEscaped,
		Payload: messages.EscapedMessage{
			SessionID: h.session.ID,
			Escapes:   h.player.Escapes,
			Seconds:   int(time.Since(h.session.StartedAt).Seconds()),
		},
	})

	h.clientManager.BroadcastToOthers(h.player.ID, Announcement(
		fmt.Sprintf("%s escaped from village %d", h.player.Username, h.session.Seed)))
}

func (h *ClientHandler) handleMapRequest(payload json.RawMessage) {
	if !h.requireSession() {
		return
	}
	var req messages.MapRequestMessage
	if err := decodePayload(payload, &req); err != nil {
		h.sendError(messages.ErrorCodeBadMessage, "Invalid map request payload")
		return
	}
	h.sendChunksAround(req.X, req.Y)
}

func (h *ClientHandler) handleHistory(payload json.RawMessage) {
	var req messages.HistoryMessage
	if len(payload) > 0 && string(payload) != "null" {
		if err := json.Unmarshal(payload, &req); err != nil {
			h.sendError(messages.ErrorCodeBadMessage, "Invalid history payload")
			return
		}
	}
	reports, err := h.playerService.History(h.player.ID, req.Limit)
	if err != nil {
		log.Printf("Error loading history for %s: %v", h.player.Username, err)
		h.sendError(messages.ErrorCodeHistoryFailed, "Failed to load history")
		return
	}
	if reports == nil {
		reports = []*models.GenerationReport{}
	}
	h.send(messages.BaseMessage{
		Type:    messages.MessageTypeHistoryList,
		Payload: messages.HistoryListMessage{Reports: reports},
	})
}

func (h *ClientHandler) requireSession() bool {
	if h.session == nil {
		h.sendError(messages.ErrorCodeNoSession, "No active session")
		return false
	}
	return true
}

func (h *ClientHandler) position() models.Point {
	state, err := h.worldService.State(h.session.ID)
	if err != nil {
		return h.session.Map.PlayerSpawn
	}
	return state.Position
}

func (h *ClientHandler) sendChunksAround(x, y int) {
	for _, chunk := range h.session.Chunks.LoadChunksAround(x, y) {
		h.send(messages.BaseMessage{
			Type:    messages.MessageTypeMapChunk,
			Payload: messages.MapChunkMessage{SessionID: h.session.ID, Chunk: chunk},
		})
	}
}

func (h *ClientHandler) sendUpdate() {
	state, err := h.worldService.State(h.session.ID)
	if err != nil {
		h.sendError(messages.ErrorCodeNoSession, err.Error())
		return
	}
	h.send(messages.BaseMessage{
		Type:    messages.MessageTypeUpdate,
		Payload: messages.UpdateMessage{SessionID: h.session.ID, State: state},
	})
}

func (h *ClientHandler) send(msg messages.BaseMessage) {
	if err := h.conn.SendMessage(msg); err != nil {
		log.Printf("Error sending %s: %v", msg.Type, err)
	}
}

func (h *ClientHandler) sendError(code, message string) {
	h.send(messages.NewError(code, message))
}

// Announcement builds a server-wide notice
func Announcement(text string) messages.BaseMessage {
	return messages.BaseMessage{
		Type: messages.MessageTypeAnnouncement,
		Payload: messages.AnnouncementMessage{
			Message:   text,
			Timestamp: time.Now().Unix(),
		},
	}
}
