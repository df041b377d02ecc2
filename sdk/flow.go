package authrelay

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// Flow statuses reported by the server.
const (
	StatusPending  = "pending"
	StatusComplete = "complete"
	StatusError    = "error"
	StatusNotFound = "not_found"
)

// StartResponse identifies a new login attempt.
type StartResponse struct {
	State    string `json:"state"`
	PopupURL string `json:"popupUrl"`
}

// User holds the identity claims of a signed-in user.
type User struct {
	Sub           string `json:"sub"`
	Email         string `json:"email"`
	EmailVerified string `json:"email_verified"`
	Name          string `json:"name"`
	GivenName     string `json:"given_name"`
	FamilyName    string `json:"family_name"`
	Picture       string `json:"picture"`
}

// Result is the terminal outcome of a login attempt. Status is one of
// StatusComplete, StatusError or StatusNotFound; the token fields and User
// are set only on StatusComplete, Error only on StatusError.
type Result struct {
	Status       string `json:"status"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	IDToken      string `json:"id_token"`
	ExpiresIn    int64  `json:"expires_in"`
	User         *User  `json:"user"`
	Error        string `json:"error"`

	// PopupClosed reports whether the observer saw the popup close before
	// the flow resolved. Informational only.
	PopupClosed bool `json:"-"`
}

// PopupOpener navigates a popup window to the consent URL. A non-nil error
// means the popup could not be opened (typically blocked by the browser).
type PopupOpener func(popupURL string) error

// Start begins a new login attempt and returns its state token together
// with the provider consent URL for the popup.
func (c *Client) Start(ctx context.Context) (*StartResponse, error) {
	var out StartResponse
	if err := c.getJSON(ctx, "/auth/google/start", &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// Login runs the whole flow: start a login attempt, open the popup, and
// poll until a terminal result. If open reports failure the flow is
// abandoned with ErrPopupBlocked before any polling.
func (c *Client) Login(ctx context.Context, open PopupOpener) (*Result, error) {
	start, err := c.Start(ctx)
	if err != nil {
		return nil, err
	}
	if open != nil {
		if err := open(start.PopupURL); err != nil {
			return nil, fmt.Errorf("%w: %s", ErrPopupBlocked, err)
		}
	}
	return c.Await(ctx, start.State)
}

// Await polls the status endpoint at a fixed interval until the attempt
// resolves. Pending keeps polling; complete, error and not_found are
// terminal and returned exactly once. Transport errors on a poll tick are
// transient and do not stop polling. When the attempt budget runs out the
// flow is abandoned with ErrTimeout.
func (c *Client) Await(ctx context.Context, state string) (*Result, error) {
	popupClosed := false

	for attempt := 0; attempt < c.maxAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(c.pollInterval):
			}
		}

		res, err := c.checkStatus(ctx, state)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			// Transient; the next tick may succeed.
			continue
		}

		// Closure of the popup is observed but never cancels the poll: a
		// result may still arrive from an in-flight provider callback.
		if c.popupClosed != nil && c.popupClosed() {
			popupClosed = true
		}

		if res.Status != StatusPending {
			res.PopupClosed = popupClosed
			return res, nil
		}
	}
	return nil, ErrTimeout
}

// checkStatus performs one status poll. The server answers 200 for pending
// and terminal records and 404 with a JSON body for unknown states; both
// carry a status field.
func (c *Client) checkStatus(ctx context.Context, state string) (*Result, error) {
	var out Result
	path := "/auth/google/status/" + url.PathEscape(state)
	if err := c.getJSON(ctx, path, &out, http.StatusOK, http.StatusNotFound); err != nil {
		return nil, err
	}
	return &out, nil
}
