// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package messaging carries direct messages between breeders.

Messages are addressed by username. A conversation is every message exchanged
with one counterpart; opening it marks the incoming side as read.
*/
package messaging

import (
	"context"
	"time"
)

// Message is one direct message.
type Message struct {
	ID          string    `json:"id"`
	SenderID    string    `json:"sender_id"`
	Sender      string    `json:"sender"`
	RecipientID string    `json:"recipient_id"`
	Recipient   string    `json:"recipient"`
	Content     string    `json:"content"`
	IsRead      bool      `json:"is_read"`
	CreatedAt   time.Time `json:"created_at"`
}

// Conversation summarises the exchange with one counterpart.
type Conversation struct {
	CounterpartID string  `json:"counterpart_id"`
	Counterpart   string  `json:"counterpart"`
	LastMessage   Message `json:"last_message"`
	Unread        int     `json:"unread"`
}

// MaxContentLength bounds a single message.
const MaxContentLength = 2000

const (
	FieldTo      = "to"
	FieldContent = "content"
)

// Repository defines persistence for messages.
type Repository interface {
	// Create stores a message and fills in usernames and the timestamp.
	Create(context context.Context, message *Message) error

	// Conversations returns the latest message per counterpart, newest first.
	Conversations(context context.Context, userID string) ([]Conversation, error)

	// Thread returns the messages between two users, oldest first.
	Thread(context context.Context, userID, counterpartID string) ([]Message, error)

	// MarkRead flags every message from counterpartID to userID as read.
	MarkRead(context context.Context, userID, counterpartID string) (int64, error)

	// UnreadCount counts unread messages addressed to userID.
	UnreadCount(context context.Context, userID string) (int, error)
}
