package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/task-manager-api/internal/constants"
	"github.com/yukikurage/task-manager-api/internal/dto"
	apierrors "github.com/yukikurage/task-manager-api/internal/errors"
	"github.com/yukikurage/task-manager-api/internal/middleware"
	"github.com/yukikurage/task-manager-api/internal/models"
	"github.com/yukikurage/task-manager-api/internal/services"
)

// UserHandler coordinates account and session HTTP handlers.
type UserHandler struct {
	userService *services.UserService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// Register creates a user and returns it with its first token.
func (h *UserHandler) Register(c *gin.Context) {
	type RegisterRequest struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
		Age      int    `json:"age"`
	}

	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, token, err := h.userService.Register(c.Request.Context(), services.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Age:      req.Age,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToAuthResponse(*user, token))
}

// Login authenticates by email and password and issues a new token.
func (h *UserHandler) Login(c *gin.Context) {
	type LoginRequest struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, token, err := h.userService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToAuthResponse(*user, token))
}

// Logout revokes the token used for this request.
func (h *UserHandler) Logout(c *gin.Context) {
	user, token, ok := currentSession(c)
	if !ok {
		return
	}

	if err := h.userService.Logout(c.Request.Context(), user, token); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

// LogoutAll revokes every token of the current user.
func (h *UserHandler) LogoutAll(c *gin.Context) {
	user, _, ok := currentSession(c)
	if !ok {
		return
	}

	if err := h.userService.LogoutAll(c.Request.Context(), user); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Logged out from all sessions"})
}

// GetProfile returns the authenticated user.
func (h *UserHandler) GetProfile(c *gin.Context) {
	user, _, ok := currentSession(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

// UpdateProfile applies a partial update to the authenticated user.
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	user, _, ok := currentSession(c)
	if !ok {
		return
	}

	var raw map[string]json.RawMessage
	if !bindUpdates(c, &raw) {
		return
	}

	updated, err := h.userService.UpdateProfile(c.Request.Context(), user, raw)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*updated))
}

// DeleteAccount removes the authenticated user and its tasks.
func (h *UserHandler) DeleteAccount(c *gin.Context) {
	user, _, ok := currentSession(c)
	if !ok {
		return
	}

	if err := h.userService.DeleteUser(c.Request.Context(), user); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

// UploadAvatar stores the multipart "avatar" file.
func (h *UserHandler) UploadAvatar(c *gin.Context) {
	user, _, ok := currentSession(c)
	if !ok {
		return
	}

	file, err := c.FormFile(constants.AvatarFormField)
	if err != nil {
		apierrors.BadRequest(c, "Please upload an image")
		return
	}
	if file.Size > h.userService.MaxAvatarBytes() {
		apierrors.BadRequest(c, "File too large")
		return
	}

	f, err := file.Open()
	if err != nil {
		respondError(c, err)
		return
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, h.userService.MaxAvatarBytes()+1))
	if err != nil {
		respondError(c, err)
		return
	}

	if err := h.userService.SetAvatar(c.Request.Context(), user, data); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusOK)
}

// DeleteAvatar clears the authenticated user's avatar.
func (h *UserHandler) DeleteAvatar(c *gin.Context) {
	user, _, ok := currentSession(c)
	if !ok {
		return
	}

	if err := h.userService.ClearAvatar(c.Request.Context(), user); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusOK)
}

// GetAvatar serves any user's avatar without authentication.
func (h *UserHandler) GetAvatar(c *gin.Context) {
	data, contentType, err := h.userService.GetAvatar(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.Data(http.StatusOK, contentType, data)
}

func currentSession(c *gin.Context) (user *models.User, token string, ok bool) {
	user, ok = middleware.GetUser(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return nil, "", false
	}
	token, _ = middleware.GetToken(c)
	return user, token, true
}

// bindUpdates reads a partial update body. An empty body is an empty update.
func bindUpdates(c *gin.Context, raw *map[string]json.RawMessage) bool {
	err := c.ShouldBindJSON(raw)
	switch {
	case err == nil:
		return true
	case errors.Is(err, io.EOF):
		*raw = map[string]json.RawMessage{}
		return true
	default:
		apierrors.BadRequest(c, "Invalid request body")
		return false
	}
}
