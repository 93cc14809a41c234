// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package messaging

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/beetlekeeper/internal/platform/dberr"
)

// PostgresRepository implements [Repository] over social.message.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository constructs a PostgreSQL backed message store.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a message and resolves both usernames.
func (repository *PostgresRepository) Create(context context.Context, message *Message) error {
	const query = `
		WITH inserted AS (
			INSERT INTO social.message (id, senderid, recipientid, content, isread, createdat)
			VALUES ($1, $2, $3, $4, FALSE, NOW())
			RETURNING senderid, recipientid, createdat
		)
		SELECT s.username, r.username, i.createdat
		FROM inserted i
		JOIN users.account s ON s.id = i.senderid
		JOIN users.account r ON r.id = i.recipientid`

	err := repository.db.QueryRow(context, query,
		message.ID, message.SenderID, message.RecipientID, message.Content,
	).Scan(&message.Sender, &message.Recipient, &message.CreatedAt)

	return dberr.Wrap(err, "create_message")
}

/*
Conversations lists one row per counterpart.

Description: DISTINCT ON picks the newest message of each pair; the unread
count only considers messages addressed to userID.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - []Conversation: Newest conversation first (never nil)
  - error: Database retrieval failures
*/
func (repository *PostgresRepository) Conversations(context context.Context, userID string) ([]Conversation, error) {
	const query = `
		WITH mine AS (
			SELECT m.*,
				CASE WHEN m.senderid = $1 THEN m.recipientid ELSE m.senderid END AS counterpartid
			FROM social.message m
			WHERE m.senderid = $1 OR m.recipientid = $1
		), latest AS (
			SELECT DISTINCT ON (counterpartid) *
			FROM mine
			ORDER BY counterpartid, createdat DESC, id DESC
		)
		SELECT
			l.id::text, l.senderid::text, s.username, l.recipientid::text, r.username,
			l.content, l.isread, l.createdat,
			l.counterpartid::text, c.username,
			(SELECT COUNT(*) FROM social.message u
			 WHERE u.senderid = l.counterpartid AND u.recipientid = $1 AND u.isread = FALSE)
		FROM latest l
		JOIN users.account s ON s.id = l.senderid
		JOIN users.account r ON r.id = l.recipientid
		JOIN users.account c ON c.id = l.counterpartid
		ORDER BY l.createdat DESC, l.id DESC`

	rows, err := repository.db.Query(context, query, userID)
	if err != nil {
		return nil, dberr.Wrap(err, "list_conversations")
	}

	conversations, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Conversation, error) {
		var conversation Conversation
		last := &conversation.LastMessage
		err := row.Scan(
			&last.ID, &last.SenderID, &last.Sender, &last.RecipientID, &last.Recipient,
			&last.Content, &last.IsRead, &last.CreatedAt,
			&conversation.CounterpartID, &conversation.Counterpart, &conversation.Unread,
		)
		return conversation, err
	})
	if err != nil {
		return nil, dberr.Wrap(err, "scan_conversation")
	}
	if conversations == nil {
		conversations = []Conversation{}
	}
	return conversations, nil
}

// Thread returns the whole exchange between two users, oldest first.
func (repository *PostgresRepository) Thread(context context.Context, userID, counterpartID string) ([]Message, error) {
	const query = `
		SELECT m.id::text, m.senderid::text, s.username, m.recipientid::text, r.username,
			m.content, m.isread, m.createdat
		FROM social.message m
		JOIN users.account s ON s.id = m.senderid
		JOIN users.account r ON r.id = m.recipientid
		WHERE (m.senderid = $1 AND m.recipientid = $2) OR (m.senderid = $2 AND m.recipientid = $1)
		ORDER BY m.createdat, m.id`

	rows, err := repository.db.Query(context, query, userID, counterpartID)
	if err != nil {
		return nil, dberr.Wrap(err, "list_thread")
	}

	messages, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Message, error) {
		var message Message
		err := row.Scan(
			&message.ID, &message.SenderID, &message.Sender, &message.RecipientID, &message.Recipient,
			&message.Content, &message.IsRead, &message.CreatedAt,
		)
		return message, err
	})
	if err != nil {
		return nil, dberr.Wrap(err, "scan_message")
	}
	if messages == nil {
		messages = []Message{}
	}
	return messages, nil
}

// MarkRead flags the incoming side of a conversation as read.
func (repository *PostgresRepository) MarkRead(context context.Context, userID, counterpartID string) (int64, error) {
	const query = `
		UPDATE social.message SET isread = TRUE
		WHERE recipientid = $1 AND senderid = $2 AND isread = FALSE`

	tag, err := repository.db.Exec(context, query, userID, counterpartID)
	if err != nil {
		return 0, dberr.Wrap(err, "mark_messages_read")
	}
	return tag.RowsAffected(), nil
}

// UnreadCount counts unread incoming messages.
func (repository *PostgresRepository) UnreadCount(context context.Context, userID string) (int, error) {
	const query = `SELECT COUNT(*) FROM social.message WHERE recipientid = $1 AND isread = FALSE`

	var count int
	if err := repository.db.QueryRow(context, query, userID).Scan(&count); err != nil {
		return 0, dberr.Wrap(err, "count_unread_messages")
	}
	return count, nil
}
