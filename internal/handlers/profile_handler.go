package handlers

import (
	"socialapi/internal/middleware"
	"socialapi/internal/services"
	"socialapi/pkg/storage"

	"github.com/gofiber/fiber/v2"
)

// ProfileHandler handles profile edits and the follow graph.
type ProfileHandler struct {
	service  *services.ProfileService
	store    storage.Store
	maxBytes int64
	errs     *ErrorWriter
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(service *services.ProfileService, store storage.Store, maxBytes int64, errs *ErrorWriter) *ProfileHandler {
	return &ProfileHandler{
		service:  service,
		store:    store,
		maxBytes: maxBytes,
		errs:     errs,
	}
}

// RegisterRoutes registers the profile routes. auth guards the private ones.
func (h *ProfileHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	profiles := router.Group("/profiles")
	profiles.Put("/", auth, h.HandleUpdateProfile)
	profiles.Get("/me", auth, h.HandleGetMyProfile)
	profiles.Put("/follow/:id", auth, h.HandleFollow)
	profiles.Put("/unfollow/:id", auth, h.HandleUnfollow)
	profiles.Get("/:id", h.HandleGetProfile)
}

// UpdateProfileRequest represents the optional fields of a profile edit.
// A missing bio leaves the bio unchanged.
type UpdateProfileRequest struct {
	Bio *string `json:"bio" form:"bio"`
}

// HandleUpdateProfile edits the caller's bio and picture. The picture is
// the multipart file "profilePicture".
func (h *ProfileHandler) HandleUpdateProfile(c *fiber.Ctx) error {
	var req UpdateProfileRequest
	if err := parseOptionalBody(c, &req); err != nil {
		return h.errs.BadBody(c, err)
	}

	upd := services.ProfileUpdate{Bio: req.Bio}
	if fh := formFile(c, "profilePicture"); fh != nil {
		saved, err := storage.SaveImage(c.UserContext(), h.store, storage.FolderProfiles, fh, h.maxBytes)
		if err != nil {
			return h.errs.WriteUpload(c, err)
		}
		upd.PicturePath = saved.Path
	}

	user, err := h.service.UpdateProfile(middleware.UserID(c), upd)
	if err != nil {
		return h.errs.Write(c, err)
	}
	return c.JSON(user)
}

// HandleGetMyProfile returns the caller's profile.
func (h *ProfileHandler) HandleGetMyProfile(c *fiber.Ctx) error {
	user, err := h.service.GetProfile(middleware.UserID(c))
	if err != nil {
		return h.errs.Write(c, err)
	}
	return c.JSON(user)
}

// HandleGetProfile returns any profile.
func (h *ProfileHandler) HandleGetProfile(c *fiber.Ctx) error {
	user, err := h.service.GetProfile(c.Params("id"))
	if err != nil {
		return h.errs.Write(c, err)
	}
	return c.JSON(user)
}

// HandleFollow makes the caller follow :id.
func (h *ProfileHandler) HandleFollow(c *fiber.Ctx) error {
	res, err := h.service.Follow(middleware.UserID(c), c.Params("id"))
	if err != nil {
		return h.errs.Write(c, err)
	}
	return c.JSON(fiber.Map{
		"msg":       "user followed",
		"followers": res.Followers,
		"following": res.Following,
	})
}

// HandleUnfollow makes the caller stop following :id.
func (h *ProfileHandler) HandleUnfollow(c *fiber.Ctx) error {
	res, err := h.service.Unfollow(middleware.UserID(c), c.Params("id"))
	if err != nil {
		return h.errs.Write(c, err)
	}
	return c.JSON(fiber.Map{
		"msg":       "user unfollowed",
		"followers": res.Followers,
		"following": res.Following,
	})
}
