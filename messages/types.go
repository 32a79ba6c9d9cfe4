package messages

import (
	"encoding/json"

	"village-raiders/server/models"
)

// MessageType defines the type of message being sent
type MessageType string

// Client to server
const (
	MessageTypeLogin      MessageType = "login"
	MessageTypeMove       MessageType = "move"
	MessageTypeSearch     MessageType = "search"
	MessageTypeEscape     MessageType = "escape"
	MessageTypeRegenerate MessageType = "regenerate"
	MessageTypeMapRequest MessageType = "map_request"
	MessageTypeHistory    MessageType = "history"
)

// Server to client
const (
	MessageTypeLoginSuccess MessageType = "login_success"
	MessageTypeSessionStart MessageType = "session_start"
	MessageTypeMapChunk     MessageType = "map_chunk"
	MessageTypeUpdate       MessageType = "update"
	MessageTypeSearchResult MessageType = "search_result"
	MessageTypeEscaped      MessageType = "escaped"
	MessageTypeAnnouncement MessageType = "announcement"
	MessageTypeHistoryList  MessageType = "history_list"
	MessageTypeError        MessageType = "error"
)

// Error codes sent in ErrorMessage
const (
	ErrorCodeBadMessage       = "BAD_MESSAGE"
	ErrorCodeUnknownType      = "UNKNOWN_MESSAGE_TYPE"
	ErrorCodeNotAuthenticated = "NOT_AUTHENTICATED"
	ErrorCodeLoginFailed      = "LOGIN_FAILED"
	ErrorCodeNoSession        = "NO_SESSION"
	ErrorCodeMoveFailed       = "MOVE_FAILED"
	ErrorCodeSearchFailed     = "SEARCH_FAILED"
	ErrorCodeEscapeFailed     = "ESCAPE_FAILED"
	ErrorCodeGenerationFailed = "GENERATION_FAILED"
	ErrorCodeHistoryFailed    = "HISTORY_FAILED"
)

// BaseMessage is the envelope of every outgoing message
type BaseMessage struct {
	Type    MessageType `json:"type"`
	Payload any         `json:"payload"`
}

// IncomingMessage is the envelope of a client message; the payload is
// decoded once the type is known
type IncomingMessage struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// LoginMessage represents a login request
type LoginMessage struct {
	Username string `json:"username"`
}

// LoginSuccessMessage represents a successful login response
type LoginSuccessMessage struct {
	PlayerID string `json:"player_id"`
	Username string `json:"username"`
	Runs     int    `json:"runs"`
	Escapes  int    `json:"escapes"`
	Message  string `json:"message"`
}

// MoveMessage represents a player movement request
type MoveMessage struct {
	Direction string `json:"direction"` // north, south, east, west, northeast, northwest, southeast, southwest
}

// MapRequestMessage asks for the chunks around a cell
type MapRequestMessage struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// HistoryMessage asks for the player's most recent villages
type HistoryMessage struct {
	Limit int `json:"limit"`
}

// SessionStartMessage describes a freshly generated village. Tiles follow
// in map_chunk messages.
type SessionStartMessage struct {
	SessionID       string        `json:"session_id"`
	Seed            int64         `json:"seed"`
	LootTable       string        `json:"loot_table"`
	Width           int           `json:"width"`
	Height          int           `json:"height"`
	TileSize        int           `json:"tile_size"`
	ChunkSize       int           `json:"chunk_size"`
	PlayerSpawn     models.Point  `json:"player_spawn"`
	JailDoor        models.Point  `json:"jail_door"`
	KeysNeeded      int           `json:"keys_needed"`
	CollidableTiles []models.Tile `json:"collidable_tiles"`
}

// MapChunkMessage carries one chunk of the village
type MapChunkMessage struct {
	SessionID string `json:"session_id"`
	Chunk     any    `json:"chunk"`
}

// UpdateMessage carries the player's progress
type UpdateMessage struct {
	SessionID string `json:"session_id"`
	State     any    `json:"state"`
}

// SearchResultMessage reveals a searched prop
type SearchResultMessage struct {
	X        int               `json:"x"`
	Y        int               `json:"y"`
	Type     models.ObjectType `json:"type"`
	Contents models.LootType   `json:"contents"`
	State    any               `json:"state"`
}

// EscapedMessage ends a session in victory
type EscapedMessage struct {
	SessionID string `json:"session_id"`
	Escapes   int    `json:"escapes"`
	Seconds   int    `json:"seconds"`
}

// HistoryListMessage lists generation reports, newest first
type HistoryListMessage struct {
	Reports []*models.GenerationReport `json:"reports"`
}

// AnnouncementMessage is a server-wide notice
type AnnouncementMessage struct {
	Message   string `json:"message"`
	Timestamp int64  `json:"timestamp"`
}

// ErrorMessage represents an error response
type ErrorMessage struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// NewError builds an error envelope
func NewError(code, message string) BaseMessage {
	return BaseMessage{
		Type:    MessageTypeError,
		Payload: ErrorMessage{Code: code, Message: message},
	}
}
