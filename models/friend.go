package models

import "time"

// FriendStatus represents the status of a friend request
type FriendStatus string

const (
	FriendStatusPending  FriendStatus = "pending"
	FriendStatusAccepted FriendStatus = "accepted"
	FriendStatusRejected FriendStatus = "rejected"
)

// FriendRequest represents a pending incoming or outgoing friend request
type FriendRequest struct {
	ID        string       `json:"_id"`
	From      User         `json:"from"`
	To        User         `json:"to"`
	Status    FriendStatus `json:"status"`
	CreatedAt time.Time    `json:"createdAt"`
}

// CreateFriendRequestParams is the body of POST /friends/requests
type CreateFriendRequestParams struct {
	ToUserID string `json:"toUserId"`
}
