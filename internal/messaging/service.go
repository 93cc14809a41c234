// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package messaging

import (
	"context"
	"log/slog"
	"strings"

	"github.com/taibuivan/beetlekeeper/internal/platform/apperr"
	"github.com/taibuivan/beetlekeeper/internal/platform/validate"
	"github.com/taibuivan/beetlekeeper/internal/users/auth"
	"github.com/taibuivan/beetlekeeper/pkg/uuid"
)

// Directory resolves usernames. Satisfied by [*auth.Directory].
type Directory interface {
	ByUsername(context context.Context, username string) (*auth.Member, error)
}

// Service implements direct messaging.
type Service struct {
	repository Repository
	directory  Directory
	logger     *slog.Logger
}

// NewService constructs a messaging [Service].
func NewService(repository Repository, directory Directory, logger *slog.Logger) *Service {
	return &Service{repository: repository, directory: directory, logger: logger}
}

// counterpart resolves a username, turning an unknown name into a field error.
func (service *Service) counterpart(context context.Context, username string) (*auth.Member, error) {
	member, err := service.directory.ByUsername(context, username)
	if err != nil {
		if apperr.HasCode(err, "NOT_FOUND") {
			return nil, validate.RequiredError(FieldTo, "No member with this username")
		}
		return nil, err
	}
	return member, nil
}

/*
Send delivers a message from senderID to the member named to.

Parameters:
  - context: context.Context
  - senderID: string
  - to: string (recipient username)
  - content: string

Returns:
  - *Message: The stored message
  - error: ValidationError (blank content, unknown or self recipient) or storage failures
*/
func (service *Service) Send(context context.Context, senderID, to, content string) (*Message, error) {
	content = strings.TrimSpace(content)
	validator := &validate.Validator{}
	validator.Required(FieldTo, to).
		Required(FieldContent, content).
		MaxLen(FieldContent, content, MaxContentLength)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	recipient, err := service.counterpart(context, to)
	if err != nil {
		return nil, err
	}
	if recipient.ID == senderID {
		return nil, validate.RequiredError(FieldTo, "You cannot message yourself")
	}

	message := &Message{
		ID:          uuid.New(),
		SenderID:    senderID,
		RecipientID: recipient.ID,
		Content:     content,
	}
	if err := service.repository.Create(context, message); err != nil {
		return nil, err
	}

	service.logger.Info("message_sent",
		slog.String("message_id", message.ID),
		slog.String("sender_id", senderID),
		slog.String("recipient_id", recipient.ID),
	)
	return message, nil
}

// Conversations lists the user's conversations, newest activity first.
func (service *Service) Conversations(context context.Context, userID string) ([]Conversation, error) {
	return service.repository.Conversations(context, userID)
}

/*
Thread opens the conversation with the member named counterpart. Incoming
messages are marked read before the thread is returned.

Returns:
  - []Message: Oldest first
  - error: ValidationError for an unknown username, or storage failures
*/
func (service *Service) Thread(context context.Context, userID, counterpart string) ([]Message, error) {
	member, err := service.counterpart(context, counterpart)
	if err != nil {
		return nil, err
	}

	marked, err := service.repository.MarkRead(context, userID, member.ID)
	if err != nil {
		return nil, err
	}
	if marked > 0 {
		service.logger.Debug("messages_marked_read", slog.String("user_id", userID), slog.Int64("count", marked))
	}

	return service.repository.Thread(context, userID, member.ID)
}

// UnreadCount counts unread incoming messages.
func (service *Service) UnreadCount(context context.Context, userID string) (int, error) {
	return service.repository.UnreadCount(context, userID)
}
