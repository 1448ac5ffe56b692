package handler

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"net/http"

	"github.com/tiffinlabs/tiffin-pos/internal/domain/auth"
)

// APIKeyHeader carries the admin key on dashboard requests.
const APIKeyHeader = "X-Api-Key"

// APIKeyAuth authenticates admin requests by computing the HMAC-SHA256
// of the presented key, looking the hash up, and comparing in constant
// time to prevent timing side-channels.
func APIKeyAuth(apikeys auth.Repository, pepper []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := r.Header.Get(APIKeyHeader)
			if key == "" {
				// Browsers cannot set headers on websocket dials, so the
				// feed passes the key as a query parameter instead.
				key = r.URL.Query().Get("api_key")
			}
			if key == "" {
				writeError(w, http.StatusUnauthorized, "unauthorized")
				return
			}

			mac := hmac.New(sha256.New, pepper)
			mac.Write([]byte(key))
			hash := mac.Sum(nil)

			info, err := apikeys.FindByHash(r.Context(), hex.EncodeToString(hash))
			if err != nil {
				writeError(w, http.StatusUnauthorized, "unauthorized")
				return
			}

			// The stored hash could differ from what we computed if the
			// repository returns a stale or wrong row.
			stored, err := hex.DecodeString(info.KeyHash)
			if err != nil || subtle.ConstantTimeCompare(hash, stored) != 1 {
				writeError(w, http.StatusUnauthorized, "unauthorized")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
