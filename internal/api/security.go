package api

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"net/http"

	"github.com/sadiqstore/storefront/internal/domain/auth"
)

// apiKeyHeader is the header admin clients present their key in.
const apiKeyHeader = "api_key"

// HashAPIKey computes the HMAC-SHA256 of a raw API key under the given
// pepper. Both the server and the key provisioning tool must use the same
// pepper for lookups to match.
func HashAPIKey(key string, pepper []byte) string {
	mac := hmac.New(sha256.New, pepper)
	mac.Write([]byte(key))
	return hex.EncodeToString(mac.Sum(nil))
}

// requireAdmin authenticates the request by hashing the presented API key,
// looking it up, and performing a constant-time comparison against the stored
// hash. Keys without the admin scope are rejected with 403.
func (h *Handler) requireAdmin(next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Header.Get(apiKeyHeader)
		if key == "" {
			writeError(w, http.StatusUnauthorized, "api key required")
			return
		}

		hash := HashAPIKey(key, h.pepper)
		info, err := h.apikeys.FindByHash(r.Context(), hash)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		// The lookup already matched, but compare in constant time anyway in
		// case the repository returns a stale or wrong row.
		if subtle.ConstantTimeCompare([]byte(hash), []byte(info.KeyHash)) != 1 {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		if !info.HasScope(auth.ScopeAdmin) {
			writeError(w, http.StatusForbidden, "admin scope required")
			return
		}

		next(w, r)
	})
}
