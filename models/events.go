package models

import "encoding/json"

// Realtime event names
const (
	EventJoinChats      = "chats:join"
	EventSendMessage    = "message:send"
	EventNewMessage     = "message:new"
	EventNewChat        = "chat:new"
	EventFriendRequest  = "friend:request"
	EventFriendAccepted = "friend:accepted"
	EventFriendRejected = "friend:rejected"
)

// Envelope is the format of every realtime frame in both directions
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// JoinChatsPayload subscribes the connection to the given chats
type JoinChatsPayload struct {
	ChatIDs []string `json:"chatIds"`
}

// SendMessagePayload sends a message over the realtime channel
type SendMessagePayload struct {
	ChatID  string      `json:"chatId"`
	Content string      `json:"content"`
	Type    ContentType `json:"type,omitempty"`
}

// FriendAcceptedEvent is pushed when a request we sent was accepted
type FriendAcceptedEvent struct {
	RequestID string `json:"requestId"`
	Friend    User   `json:"friend"`
}

// FriendRejectedEvent is pushed when a request we sent was rejected
type FriendRejectedEvent struct {
	RequestID string `json:"requestId"`
}
