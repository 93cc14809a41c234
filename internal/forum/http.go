// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package forum

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/beetlekeeper/internal/platform/apperr"
	"github.com/taibuivan/beetlekeeper/internal/platform/constants"
	"github.com/taibuivan/beetlekeeper/internal/platform/middleware"
	requestutil "github.com/taibuivan/beetlekeeper/internal/platform/request"
	"github.com/taibuivan/beetlekeeper/internal/platform/respond"
	"github.com/taibuivan/beetlekeeper/internal/platform/validate"
	"github.com/taibuivan/beetlekeeper/pkg/pagination"
)

// # Handler Implementation

// Handler exposes the board over REST.
type Handler struct {
	service *Service
}

// NewHandler constructs a forum [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the forum router. Reading is public; writing needs a session.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/posts", handler.listPosts)
	router.Get("/posts/{id}", handler.getPost)

	router.Group(func(protected chi.Router) {
		protected.Use(middleware.RequireAuth)
		protected.Post("/posts", handler.createPost)
		protected.Put("/posts/{id}", handler.updatePost)
		protected.Delete("/posts/{id}", handler.deletePost)
		protected.Post("/posts/{id}/comments", handler.addComment)
		protected.Delete("/posts/{id}/comments/{commentID}", handler.deleteComment)
		protected.Post("/images", handler.uploadImage)
	})

	return router
}

// # Request Payloads

type postRequest struct {
	Category string `json:"category"  validate:"required"`
	Title    string `json:"title"     validate:"required,max=200"`
	Content  string `json:"content"   validate:"required"`
	ImageURL string `json:"image_url" validate:"omitempty,max=2048"`
}

func (input postRequest) toInput() PostInput {
	return PostInput{
		Category: Category(input.Category),
		Title:    input.Title,
		Content:  input.Content,
		ImageURL: input.ImageURL,
	}
}

type commentRequest struct {
	Content string `json:"content" validate:"required"`
}

// actor resolves the signed-in user.
func actor(request *http.Request) (Actor, error) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		return Actor{}, err
	}
	return ActorFrom(claims), nil
}

// # Posts

/*
GET /api/v1/forum/posts?category=&page=&limit=.

Description: Lists posts. "all" (the default) pins notices above the rest.

Response:
  - 200: []Post: Paginated list
  - 400: ErrValidation: Unknown category
*/
func (handler *Handler) listPosts(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)
	category := request.URL.Query().Get("category")

	posts, total, err := handler.service.List(request.Context(), category, params.Limit, params.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, posts, pagination.NewMeta(params.Page, params.Limit, total))
}

// GET /api/v1/forum/posts/{id}.
func (handler *Handler) getPost(writer http.ResponseWriter, request *http.Request) {
	post, err := handler.service.Get(request.Context(), requestutil.Param(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, post)
}

/*
POST /api/v1/forum/posts.

Request:
  - Body: postRequest (Category, Title, Content, ImageURL)

Response:
  - 201: Post
  - 400: ErrValidation
  - 403: ErrForbidden: Notice by a member
*/
func (handler *Handler) createPost(writer http.ResponseWriter, request *http.Request) {
	current, err := actor(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input postRequest
	if err := requestutil.DecodeValid(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	post, err := handler.service.Create(request.Context(), current, input.toInput())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, post)
}

// PUT /api/v1/forum/posts/{id}.
func (handler *Handler) updatePost(writer http.ResponseWriter, request *http.Request) {
	current, err := actor(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input postRequest
	if err := requestutil.DecodeValid(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	post, err := handler.service.Update(request.Context(), current, requestutil.Param(request, "id"), input.toInput())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, post)
}

// DELETE /api/v1/forum/posts/{id}.
func (handler *Handler) deletePost(writer http.ResponseWriter, request *http.Request) {
	current, err := actor(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.Delete(request.Context(), current, requestutil.Param(request, "id")); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

// # Comments

// POST /api/v1/forum/posts/{id}/comments.
func (handler *Handler) addComment(writer http.ResponseWriter, request *http.Request) {
	current, err := actor(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input commentRequest
	if err := requestutil.DecodeValid(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	comment, err := handler.service.AddComment(request.Context(), current, requestutil.Param(request, "id"), input.Content)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, comment)
}

// DELETE /api/v1/forum/posts/{id}/comments/{commentID}.
func (handler *Handler) deleteComment(writer http.ResponseWriter, request *http.Request) {
	current, err := actor(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	err = handler.service.DeleteComment(request.Context(), current, requestutil.Param(request, "id"), requestutil.Param(request, "commentID"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

// # Images

/*
POST /api/v1/forum/images.

Description: Uploads a picture (multipart field "image", at most 10 MiB) and
returns the URL to attach to a post.

Response:
  - 201: {url}
*/
func (handler *Handler) uploadImage(writer http.ResponseWriter, request *http.Request) {
	current, err := actor(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	request.Body = http.MaxBytesReader(writer, request.Body, constants.MaxUploadBytes)
	if err := request.ParseMultipartForm(constants.MaxUploadBytes); err != nil {
		respond.Error(writer, request, apperr.ValidationError("Image must be a multipart upload of at most 10 MiB"))
		return
	}

	file, header, err := request.FormFile("image")
	if err != nil {
		respond.Error(writer, request, validate.RequiredError("image", "This field is required"))
		return
	}
	defer file.Close()

	url, err := handler.service.UploadImage(request.Context(), current, header.Filename, header.Header.Get("Content-Type"), file)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, map[string]string{"url": url})
}
