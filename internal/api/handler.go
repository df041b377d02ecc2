package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/authrelay/authrelay/internal/oauth"
	"github.com/authrelay/authrelay/internal/session"
)

// Handler drives the popup login flow: start creates a pending session and
// hands the consent URL to the embedding page, the provider redirect lands
// in Callback, and the embedding page collects the outcome through Status.
type Handler struct {
	provider oauth.Provider
	sessions *session.Store
}

// NewHandler wires the HTTP handlers to their collaborators. provider may be
// nil when the Google client is not configured; start and exchange then
// report a configuration error instead of failing at boot.
func NewHandler(provider oauth.Provider, sessions *session.Store) *Handler {
	return &Handler{
		provider: provider,
		sessions: sessions,
	}
}

// Start opens a new login attempt and returns the state token plus the
// provider consent URL the popup should navigate to.
func (h *Handler) Start(c *gin.Context) {
	if h.provider == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "google oauth client is not configured"})
		return
	}

	state, err := oauth.NewState()
	if err != nil {
		log.Error().Err(err).Msg("generating state token")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate state"})
		return
	}

	if err := h.sessions.Create(state); err != nil {
		// Duplicate random state means the RNG is broken, not a bad request.
		log.Error().Err(err).Msg("creating login session")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create session"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"state":    state,
		"popupUrl": h.provider.AuthURL(state),
	})
}

// Callback handles the provider redirect inside the popup. Whatever the
// outcome, the response is a small page that closes the popup; the embedding
// page learns the result through Status, never through this body.
func (h *Handler) Callback(c *gin.Context) {
	code := c.Query("code")
	state := c.Query("state")
	providerErr := c.Query("error")

	if providerErr != "" {
		if state != "" {
			h.sessions.Fail(state, providerErr)
		}
		h.renderPopup(c, http.StatusOK, "Sign-in failed",
			"The sign-in was cancelled or rejected. You can close this window and try again.")
		return
	}

	if state == "" {
		h.renderPopup(c, http.StatusBadRequest, "Sign-in failed",
			"This sign-in link is invalid. Close this window and try again.")
		return
	}
	if _, ok := h.sessions.Get(state); !ok {
		h.renderPopup(c, http.StatusBadRequest, "Sign-in expired",
			"This sign-in attempt is unknown or has expired. Close this window and try again.")
		return
	}

	if code == "" {
		h.sessions.Fail(state, "no authorization code")
		h.renderPopup(c, http.StatusOK, "Sign-in failed",
			"The provider did not return an authorization code. Close this window and try again.")
		return
	}

	token, user, err := h.exchangeCode(c.Request.Context(), code)
	if err != nil {
		log.Warn().Err(err).Msg("token exchange failed")
		h.sessions.Fail(state, err.Error())
		h.renderPopup(c, http.StatusOK, "Sign-in failed",
			"Signing you in did not work. Close this window and try again.")
		return
	}

	h.sessions.Complete(state, *token, user)
	h.renderPopup(c, http.StatusOK, "Signed in",
		"You are signed in. This window should close itself.")
}

// Status reports the state of a login attempt. The first poll that sees a
// terminal record also deletes it, so a repeat poll gets not_found.
func (h *Handler) Status(c *gin.Context) {
	state := c.Param("state")

	rec, ok := h.sessions.Consume(state)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{
			"status": "not_found",
			"error":  "unknown or expired state",
		})
		return
	}

	switch rec.Status {
	case session.StatusPending:
		c.JSON(http.StatusOK, gin.H{"status": "pending"})
	case session.StatusError:
		c.JSON(http.StatusOK, gin.H{"status": "error", "error": rec.Error})
	case session.StatusComplete:
		resp := gin.H{
			"status":       "complete",
			"access_token": rec.Token.AccessToken,
			"expires_in":   rec.Token.ExpiresIn,
			"user":         rec.User,
		}
		if rec.Token.RefreshToken != "" {
			resp["refresh_token"] = rec.Token.RefreshToken
		}
		if rec.Token.IDToken != "" {
			resp["id_token"] = rec.Token.IDToken
		}
		c.JSON(http.StatusOK, resp)
	}
}

// Exchange is the legacy one-shot variant: trade a code for tokens directly,
// with no session involved. Kept for callers that can receive the provider
// redirect themselves.
func (h *Handler) Exchange(c *gin.Context) {
	if h.provider == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "google oauth client is not configured"})
		return
	}

	var body struct {
		Code string `json:"code" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "code is required"})
		return
	}

	token, user, err := h.exchangeCode(c.Request.Context(), body.Code)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	resp := gin.H{
		"access_token": token.AccessToken,
		"expires_in":   token.ExpiresIn,
		"user":         user,
	}
	if token.RefreshToken != "" {
		resp["refresh_token"] = token.RefreshToken
	}
	if token.IDToken != "" {
		resp["id_token"] = token.IDToken
	}
	c.JSON(http.StatusOK, resp)
}

// Health reports server liveness.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// exchangeCode performs the code exchange and, when the provider returned an
// identity token, resolves and verifies it. Codes are single-use, so there
// is exactly one attempt; any failure surfaces as one exchange-failed error.
func (h *Handler) exchangeCode(ctx context.Context, code string) (*oauth.Token, *oauth.Identity, error) {
	token, err := h.provider.Exchange(ctx, code)
	if err != nil {
		return nil, nil, err
	}

	var user *oauth.Identity
	if token.IDToken != "" {
		user, err = h.provider.VerifyIDToken(ctx, token.IDToken)
		if err != nil {
			return nil, nil, err
		}
	}
	return token, user, nil
}
