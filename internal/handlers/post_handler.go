package handlers

import (
	"socialapi/internal/middleware"
	"socialapi/internal/services"
	"socialapi/pkg/storage"

	"github.com/gofiber/fiber/v2"
)

// PostHandler handles HTTP requests for posts, likes and comments.
type PostHandler struct {
	service  *services.PostService
	store    storage.Store
	maxBytes int64
	errs     *ErrorWriter
}

// NewPostHandler creates a new PostHandler.
func NewPostHandler(service *services.PostService, store storage.Store, maxBytes int64, errs *ErrorWriter) *PostHandler {
	return &PostHandler{
		service:  service,
		store:    store,
		maxBytes: maxBytes,
		errs:     errs,
	}
}

// RegisterRoutes registers the post routes. auth guards the private ones.
func (h *PostHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	posts := router.Group("/posts")
	posts.Post("/", auth, h.HandleCreatePost)
	posts.Get("/", h.HandleGetPosts)
	posts.Get("/user/:userId", h.HandleGetUserPosts)
	posts.Get("/:id", h.HandleGetPostByID)
	posts.Delete("/:id", auth, h.HandleDeletePost)
	posts.Put("/like/:id", auth, h.HandleLikePost)
	posts.Put("/unlike/:id", auth, h.HandleUnlikePost)
	posts.Post("/comment/:id", auth, h.HandleAddComment)
	posts.Delete("/comment/:id/:comment_id", auth, h.HandleDeleteComment)
}

// CreatePostRequest represents the fields of a new post.
type CreatePostRequest struct {
	Content *string `json:"content" form:"content"`
}

// HandleCreatePost creates a post from "content" and an optional "image" file.
func (h *PostHandler) HandleCreatePost(c *fiber.Ctx) error {
	var req CreatePostRequest
	if err := parseOptionalBody(c, &req); err != nil {
		return h.errs.BadBody(c, err)
	}
	content := req.Content
	if content == nil || *content == "" {
		return h.errs.Write(c, &services.Error{Kind: services.KindValidationFailed, Message: services.MsgContentRequired})
	}

	imagePath := ""
	if fh := formFile(c, "image"); fh != nil {
		saved, err := storage.SaveImage(c.UserContext(), h.store, storage.FolderPosts, fh, h.maxBytes)
		if err != nil {
			return h.errs.WriteUpload(c, err)
		}
		imagePath = saved.Path
	}

	post, err := h.service.CreatePost(middleware.UserID(c), *content, imagePath)
	if err != nil {
		return h.errs.Write(c, err)
	}
	return c.JSON(post)
}

// HandleGetPosts lists every post, newest first.
func (h *PostHandler) HandleGetPosts(c *fiber.Ctx) error {
	posts, err := h.service.GetAllPosts()
	if err != nil {
		return h.errs.Write(c, err)
	}
	return c.JSON(posts)
}

// HandleGetUserPosts lists the posts of :userId.
func (h *PostHandler) HandleGetUserPosts(c *fiber.Ctx) error {
	posts, err := h.service.GetPostsByUser(c.Params("userId"))
	if err != nil {
		return h.errs.Write(c, err)
	}
	return c.JSON(posts)
}

// HandleGetPostByID returns one post.
func (h *PostHandler) HandleGetPostByID(c *fiber.Ctx) error {
	post, err := h.service.GetPostByID(c.Params("id"))
	if err != nil {
		return h.errs.Write(c, err)
	}
	return c.JSON(post)
}

// HandleDeletePost deletes a post owned by the caller.
func (h *PostHandler) HandleDeletePost(c *fiber.Ctx) error {
	if err := h.service.DeletePost(middleware.UserID(c), c.Params("id")); err != nil {
		return h.errs.Write(c, err)
	}
	return c.JSON(fiber.Map{"msg": "post deleted"})
}

// HandleLikePost adds the caller to the post's likes.
func (h *PostHandler) HandleLikePost(c *fiber.Ctx) error {
	likes, err := h.service.LikePost(middleware.UserID(c), c.Params("id"))
	if err != nil {
		return h.errs.Write(c, err)
	}
	return c.JSON(likes)
}

// HandleUnlikePost removes the caller from the post's likes.
func (h *PostHandler) HandleUnlikePost(c *fiber.Ctx) error {
	likes, err := h.service.UnlikePost(middleware.UserID(c), c.Params("id"))
	if err != nil {
		return h.errs.Write(c, err)
	}
	return c.JSON(likes)
}

// CommentRequest represents the request body for a new comment.
type CommentRequest struct {
	Text string `json:"text" form:"text"`
}

// HandleAddComment adds a comment by the caller.
func (h *PostHandler) HandleAddComment(c *fiber.Ctx) error {
	var req CommentRequest
	if err := c.BodyParser(&req); err != nil {
		return h.errs.BadBody(c, err)
	}
	comments, err := h.service.AddComment(middleware.UserID(c), c.Params("id"), req.Text)
	if err != nil {
		return h.errs.Write(c, err)
	}
	return c.JSON(comments)
}

// HandleDeleteComment deletes a comment written by the caller.
func (h *PostHandler) HandleDeleteComment(c *fiber.Ctx) error {
	comments, err := h.service.DeleteComment(middleware.UserID(c), c.Params("id"), c.Params("comment_id"))
	if err != nil {
		return h.errs.Write(c, err)
	}
	return c.JSON(comments)
}
