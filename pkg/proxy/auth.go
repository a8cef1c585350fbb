package proxy

import (
	"crypto/subtle"
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"
)

// DefaultRealm is used when BasicAuth is given an empty realm.
const DefaultRealm = "Restricted Area"

const authRequiredPage = `<!DOCTYPE html>
<html lang="en">
<head><meta charset="UTF-8"><title>Authentication Required</title></head>
<body><h1>🔒 Authentication Required</h1><p>You need valid credentials to access this content.</p></body>
</html>
`

// BasicAuth guards next with HTTP basic authentication against users
// (username to password). With no users configured every request passes.
func BasicAuth(realm string, users map[string]string, next http.Handler) http.Handler {
	if len(users) == 0 {
		return next
	}
	if realm == "" {
		realm = DefaultRealm
	}
	challenge := fmt.Sprintf("Basic realm=%q", realm)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		username, password, ok := r.BasicAuth()
		if ok && validCredentials(users, username, password) {
			RecordAuthAttempt(true)
			next.ServeHTTP(w, r)
			return
		}
		if ok {
			RecordAuthAttempt(false)
			log.Warn().Str("username", username).Str("remote", r.RemoteAddr).Msg("authentication failed")
		}
		w.Header().Set("WWW-Authenticate", challenge)
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(authRequiredPage))
	})
}

func validCredentials(users map[string]string, username, password string) bool {
	want, ok := users[username]
	if !ok {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(want), []byte(password)) == 1
}
