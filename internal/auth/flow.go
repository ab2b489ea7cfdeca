package auth

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// Flow implements the Cognito hosted-UI authorization-code flow. The
// token exchange happens entirely here; the rest of the service only
// ever sees the resulting session cookie.
type Flow struct {
	// Domain is the Cognito hosted-UI domain, e.g.
	// https://myapp.auth.eu-west-1.amazoncognito.com
	Domain string

	ClientID string

	// ClientSecret is empty for public app clients.
	ClientSecret string

	// BaseURL is the externally visible base URL of this service; the
	// registered redirect URI is BaseURL + "/auth/callback".
	BaseURL string

	CookieName   string
	CookieMaxAge time.Duration

	// Client is the HTTP client for the token exchange. Defaults to
	// http.DefaultClient when nil.
	Client *http.Client
}

func (f *Flow) redirectURI() string {
	return strings.TrimSuffix(f.BaseURL, "/") + "/auth/callback"
}

func (f *Flow) httpClient() *http.Client {
	if f.Client != nil {
		return f.Client
	}
	return http.DefaultClient
}

// Login redirects the browser to the hosted-UI authorize endpoint.
func (f *Flow) Login(w http.ResponseWriter, r *http.Request) {
	q := url.Values{}
	q.Set("client_id", f.ClientID)
	q.Set("response_type", "code")
	q.Set("scope", "openid email profile")
	q.Set("redirect_uri", f.redirectURI())

	w.Header().Set("Cache-Control", "no-store")
	http.Redirect(w, r, f.Domain+"/oauth2/authorize?"+q.Encode(), http.StatusFound)
}

// Callback exchanges the authorization code for tokens and issues the
// session cookie. Every failure path redirects back to the login page;
// a stale or denied callback never surfaces an error page.
func (f *Flow) Callback(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("error") != "" || r.URL.Query().Get("code") == "" {
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}

	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("client_id", f.ClientID)
	form.Set("code", r.URL.Query().Get("code"))
	form.Set("redirect_uri", f.redirectURI())

	req, err := http.NewRequestWithContext(r.Context(), http.MethodPost, f.Domain+"/oauth2/token", strings.NewReader(form.Encode()))
	if err != nil {
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if f.ClientSecret != "" {
		req.SetBasicAuth(f.ClientID, f.ClientSecret)
	}

	resp, err := f.httpClient().Do(req)
	if err != nil {
		log.Error().Err(err).Msg("Token exchange failed")
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}
	defer resp.Body.Close()

	var tokens struct {
		IDToken string `json:"id_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&tokens); err != nil || resp.StatusCode != http.StatusOK || tokens.IDToken == "" {
		log.Error().Int("status", resp.StatusCode).Msg("Token exchange returned no id_token")
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     f.CookieName,
		Value:    tokens.IDToken,
		Path:     "/",
		HttpOnly: true,
		Secure:   strings.HasPrefix(f.BaseURL, "https://"),
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(f.CookieMaxAge.Seconds()),
	})
	http.Redirect(w, r, "/", http.StatusFound)
}

// Logout clears the session cookie and hands the client the hosted-UI
// logout URL to complete sign-out upstream.
func (f *Flow) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:   f.CookieName,
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})

	logoutRedirect := strings.TrimSuffix(f.BaseURL, "/") + "/login?loggedOut=true"
	q := url.Values{}
	q.Set("client_id", f.ClientID)
	q.Set("logout_uri", logoutRedirect)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"ok":        true,
		"logoutUrl": f.Domain + "/logout?" + q.Encode(),
	})
}

// Session reports whether a session cookie is present. Used by the
// lightweight me/ping endpoints, which deliberately skip full token
// verification; every data endpoint verifies.
func (f *Flow) Session(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	cookie, err := r.Cookie(f.CookieName)
	if err != nil || cookie.Value == "" {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]any{"ok": false})
		return
	}
	json.NewEncoder(w).Encode(map[string]any{"ok": true})
}
