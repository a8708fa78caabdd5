package auth

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"sync"
	"time"

	"golang.org/x/oauth2"

	"github.com/opengrove/sheetset/internal/shared"
)

// Result carries the outcome of an authorization-code flow.
type Result struct {
	Token *oauth2.Token
	Err   error
}

// CallbackHandler serves the OAuth redirect endpoint for the sign-in flow.
// It validates the state token, exchanges the authorization code, and
// delivers exactly one Result on its channel.
type CallbackHandler struct {
	config  *oauth2.Config
	state   string
	results chan Result
	once    sync.Once
	mu      sync.Mutex
	handled bool
}

// NewCallbackHandler creates a handler expecting the given anti-forgery state.
func NewCallbackHandler(config *oauth2.Config, state string) *CallbackHandler {
	return &CallbackHandler{
		config:  config,
		state:   state,
		results: make(chan Result, 1),
	}
}

// Result returns the channel carrying the single flow outcome.
func (h *CallbackHandler) Result() <-chan Result {
	return h.results
}

func (h *CallbackHandler) send(result Result) {
	h.once.Do(func() {
		h.results <- result
		close(h.results)
	})
}

// ServeHTTP handles the redirect from the authorization server.
func (h *CallbackHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	if h.handled {
		h.mu.Unlock()
		http.Error(w, "callback already processed", http.StatusBadRequest)
		return
	}
	h.handled = true
	h.mu.Unlock()

	if got := r.URL.Query().Get("state"); got != h.state {
		h.send(Result{Err: fmt.Errorf("%w: state mismatch", shared.ErrAuthFailed)})
		http.Error(w, "invalid state parameter", http.StatusBadRequest)
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		reason := r.URL.Query().Get("error")
		h.send(Result{Err: fmt.Errorf("%w: authorization denied: %s", shared.ErrAuthFailed, reason)})
		http.Error(w, "authorization failed", http.StatusBadRequest)
		return
	}

	token, err := h.config.Exchange(r.Context(), code)
	if err != nil {
		h.send(Result{Err: fmt.Errorf("%w: token exchange: %v", shared.ErrAuthFailed, err)})
		http.Error(w, "token exchange failed", http.StatusInternalServerError)
		return
	}

	h.send(Result{Token: token})

	w.Header().Set("Content-Type", "text/html")
	fmt.Fprint(w, "<html><body><h1>Signed in</h1><p>You can close this window and return to the terminal.</p></body></html>")
}

// Login runs the full authorization-code flow: it serves the redirect
// endpoint, opens the browser to the consent page, and waits for the callback
// or ctx expiry. The caller owns persisting the returned token.
func Login(ctx context.Context, config *oauth2.Config) (*oauth2.Token, error) {
	redirect, err := url.Parse(config.RedirectURL)
	if err != nil {
		return nil, fmt.Errorf("%w: redirect uri: %v", shared.ErrInvalidConfig, err)
	}

	state := shared.GenerateState()
	handler := NewCallbackHandler(config, state)

	mux := http.NewServeMux()
	mux.Handle(redirect.Path, handler)

	srv := &http.Server{Addr: redirect.Host, Handler: mux}
	listener, err := net.Listen("tcp", redirect.Host)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", redirect.Host, err)
	}

	serveErr := make(chan error, 1)
	go func() {
		if err := srv.Serve(listener); err != nil && err != http.ErrServerClosed {
			serveErr <- err
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	authURL := config.AuthCodeURL(state, oauth2.AccessTypeOffline)
	if err := shared.OpenBrowser(authURL); err != nil {
		// Non-fatal: the user can follow the URL manually.
		fmt.Printf("Open this URL to sign in:\n%s\n", authURL)
	}

	select {
	case result := <-handler.Result():
		if result.Err != nil {
			return nil, result.Err
		}
		return result.Token, nil
	case err := <-serveErr:
		return nil, fmt.Errorf("callback server failed: %w", err)
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: sign-in timed out", shared.ErrAuthFailed)
	}
}
