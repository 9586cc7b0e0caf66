package realtime

import (
	"encoding/json"
)

// Client to server events.
const (
	EventJoinRoom          = "joinRoom"
	EventOpenConversation  = "openConversation"
	EventCloseConversation = "closeConversation"
	EventPing              = "ping"
)

// Server to client events.
const (
	EventReceiveMessage  = "receiveMessage"
	EventUnreadCount     = "unreadCount"
	EventNewNotification = "new-notification"
	EventNewPost         = "new-post"
	EventPong            = "pong"
	EventError           = "error"
)

// Envelope is the wire frame for every websocket message in both directions.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// Encode marshals an event and its payload into a wire frame.
func Encode(event string, payload interface{}) ([]byte, error) {
	var data json.RawMessage
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		data = b
	}
	return json.Marshal(Envelope{Event: event, Data: data})
}

// JoinRoomData is the payload of a joinRoom event.
type JoinRoomData struct {
	UserID string `json:"userId"`
}

// OpenConversationData is the payload of an openConversation event.
type OpenConversationData struct {
	PartnerID string `json:"partnerId"`
}

// UnreadCountData is the payload of an unreadCount push.
type UnreadCountData struct {
	Count int64 `json:"count"`
}

// ErrorData is the payload of an error push.
type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
