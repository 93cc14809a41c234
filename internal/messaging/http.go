// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package messaging

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/taibuivan/beetlekeeper/internal/platform/request"
	"github.com/taibuivan/beetlekeeper/internal/platform/respond"
)

// Handler exposes direct messages. Every route needs a session.
type Handler struct {
	service *Service
}

// NewHandler constructs a messaging [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the messaging router.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Get("/", handler.conversations)
	router.Post("/", handler.send)
	router.Get("/unread", handler.unread)
	router.Get("/with/{username}", handler.thread)
	return router
}

type sendRequest struct {
	To      string `json:"to"      validate:"required"`
	Content string `json:"content" validate:"required"`
}

/*
POST /api/v1/messages.

Request:
  - Body: sendRequest (To, Content)

Response:
  - 201: Message
  - 400: ErrValidation: Blank content, unknown recipient or yourself
*/
func (handler *Handler) send(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input sendRequest
	if err := requestutil.DecodeValid(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	message, err := handler.service.Send(request.Context(), userID, input.To, input.Content)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, message)
}

// GET /api/v1/messages.
func (handler *Handler) conversations(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	conversations, err := handler.service.Conversations(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, conversations)
}

// GET /api/v1/messages/with/{username}. Marks incoming messages as read.
func (handler *Handler) thread(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	messages, err := handler.service.Thread(request.Context(), userID, requestutil.Param(request, "username"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, messages)
}

// GET /api/v1/messages/unread.
func (handler *Handler) unread(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	count, err := handler.service.UnreadCount(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]int{"unread": count})
}
