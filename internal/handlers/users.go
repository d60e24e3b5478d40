package handlers

import (
	"errors"
	"net/http"
	"strings"

	"accessibledn/internal/auth"
	"accessibledn/internal/repository"
	"accessibledn/internal/service"

	"github.com/gin-gonic/gin"
)

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type deleteRequest struct {
	Username string `json:"username"`
}

func (h *Handler) register(c *gin.Context) {
	var input registerRequest
	if ok := h.bindJSONOrBadRequest(c, &input); !ok {
		return
	}

	_, token, err := h.services.Register(c.Request.Context(), input.Username, input.Email, input.Password)
	if err != nil {
		var vErr *auth.ValidationError
		var dupErr *repository.DuplicateError
		switch {
		case errors.As(err, &vErr):
			c.JSON(http.StatusBadRequest, gin.H{"error": vErr.Error()})
		case errors.As(err, &dupErr):
			c.JSON(http.StatusConflict, gin.H{"error": dupErr.Error()})
		default:
			h.serverError(c, "userbase_register_failed", err)
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "user created successfully",
		"token":   token,
	})
}

func (h *Handler) login(c *gin.Context) {
	// A valid session token alongside a login attempt means the client is
	// already logged in; an invalid one is ignored and login proceeds.
	if header := c.GetHeader("Authorization"); header != "" {
		if token, err := auth.ExtractBearerToken(header); err == nil {
			if _, err := h.services.Session(c.Request.Context(), token); err == nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "already logged in"})
				return
			}
		}
	}

	var input loginRequest
	if ok := h.bindJSONOrBadRequest(c, &input); !ok {
		return
	}
	if strings.TrimSpace(input.Username) == "" || strings.TrimSpace(input.Password) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing username or password"})
		return
	}

	user, token, err := h.services.Login(c.Request.Context(), input.Username, input.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": service.ErrInvalidCredentials.Error()})
			return
		}
		h.serverError(c, "userbase_login_failed", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user":  user,
	})
}

func (h *Handler) session(c *gin.Context) {
	user, err := h.services.Session(c.Request.Context(), c.GetString(sessionTokenKey))
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrInvalidToken):
			c.JSON(http.StatusUnauthorized, gin.H{"error": auth.ErrInvalidToken.Error()})
		case errors.Is(err, service.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": service.ErrUserNotFound.Error()})
		default:
			h.serverError(c, "userbase_session_failed", err)
		}
		return
	}

	c.JSON(http.StatusOK, user)
}

func (h *Handler) deleteUser(c *gin.Context) {
	var input deleteRequest
	if ok := h.bindJSONOrBadRequest(c, &input); !ok {
		return
	}
	if strings.TrimSpace(input.Username) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username is required"})
		return
	}

	if err := h.services.Delete(c.Request.Context(), c.GetString(sessionTokenKey), input.Username); err != nil {
		switch {
		case errors.Is(err, auth.ErrInvalidToken):
			c.JSON(http.StatusUnauthorized, gin.H{"error": auth.ErrInvalidToken.Error()})
		case errors.Is(err, service.ErrNotAuthorized):
			c.JSON(http.StatusForbidden, gin.H{"error": "unauthorized to delete this user"})
		case errors.Is(err, service.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": service.ErrUserNotFound.Error()})
		default:
			h.serverError(c, "userbase_delete_failed", err)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "user deleted successfully"})
}

// serverError logs the underlying failure and returns an opaque 500 body.
func (h *Handler) serverError(c *gin.Context, event string, err error) {
	if h.log != nil {
		h.log.Errorw(event, "err", err, "request_id", c.GetString("requestID"))
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
}
