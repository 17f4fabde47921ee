package handlers

import (
	"strings"

	"socialapi/internal/middleware"
	"socialapi/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// UserHandler handles registration, login and identity lookups.
type UserHandler struct {
	authService *services.AuthService
	userService *services.UserService
	validate    *validator.Validate
	errs        *ErrorWriter
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(authService *services.AuthService, userService *services.UserService, errs *ErrorWriter) *UserHandler {
	return &UserHandler{
		authService: authService,
		userService: userService,
		validate:    newValidator(),
		errs:        errs,
	}
}

// RegisterRoutes registers the user routes. auth guards the private ones.
func (h *UserHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	users := router.Group("/users")
	users.Get("/", h.HandleGetUsers)
	users.Post("/register", h.HandleRegister)
	users.Post("/login", h.HandleLogin)
	users.Get("/me", auth, h.HandleMe)
	users.Get("/email/:email", h.HandleGetUserByEmail)
	users.Get("/search/:query", h.HandleSearchUsers)
	users.Post("/multiple", h.HandleGetMultipleUsers)
	users.Get("/:id", h.HandleGetUserByID)
}

// RegisterRequest represents the request body for registration.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// HandleRegister creates an identity and answers with its token.
func (h *UserHandler) HandleRegister(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return h.errs.BadBody(c, err)
	}
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	if err := h.validate.Struct(req); err != nil {
		return validationFailed(c, err)
	}

	token, _, err := h.authService.Register(services.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return h.errs.Write(c, err)
	}
	return c.JSON(fiber.Map{"token": token})
}

// LoginRequest represents the request body for login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// HandleLogin issues a token for valid credentials.
func (h *UserHandler) HandleLogin(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return h.errs.BadBody(c, err)
	}
	if err := h.validate.Struct(req); err != nil {
		return validationFailed(c, err)
	}

	token, err := h.authService.Login(req.Email, req.Password)
	if err != nil {
		return h.errs.Write(c, err)
	}
	return c.JSON(fiber.Map{"token": token})
}

// HandleMe returns the caller's identity.
func (h *UserHandler) HandleMe(c *fiber.Ctx) error {
	user, err := h.authService.Me(middleware.UserID(c))
	if err != nil {
		return h.errs.Write(c, err)
	}
	return c.JSON(user)
}

// HandleGetUsers lists every identity.
func (h *UserHandler) HandleGetUsers(c *fiber.Ctx) error {
	users, err := h.userService.GetAllUsers()
	if err != nil {
		return h.errs.Write(c, err)
	}
	return c.JSON(users)
}

// HandleGetUserByID returns one identity.
func (h *UserHandler) HandleGetUserByID(c *fiber.Ctx) error {
	user, err := h.userService.GetUserByID(c.Params("id"))
	if err != nil {
		return h.errs.Write(c, err)
	}
	return c.JSON(user)
}

// HandleGetUserByEmail returns the identity registered with an email.
func (h *UserHandler) HandleGetUserByEmail(c *fiber.Ctx) error {
	user, err := h.userService.GetUserByEmail(c.Params("email"))
	if err != nil {
		return h.errs.Write(c, err)
	}
	return c.JSON(user)
}

// HandleSearchUsers searches usernames and emails.
func (h *UserHandler) HandleSearchUsers(c *fiber.Ctx) error {
	users, err := h.userService.SearchUsers(c.Params("query"))
	if err != nil {
		return h.errs.Write(c, err)
	}
	return c.JSON(users)
}

// MultipleUsersRequest represents the request body of a bulk lookup.
type MultipleUsersRequest struct {
	UserIDs []string `json:"userIds"`
}

// HandleGetMultipleUsers returns several identities at once.
func (h *UserHandler) HandleGetMultipleUsers(c *fiber.Ctx) error {
	var req MultipleUsersRequest
	if err := c.BodyParser(&req); err != nil {
		return h.errs.BadBody(c, err)
	}
	users, err := h.userService.GetUsersByIDs(req.UserIDs)
	if err != nil {
		return h.errs.Write(c, err)
	}
	return c.JSON(users)
}
