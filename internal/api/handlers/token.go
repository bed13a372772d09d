package handlers

import (
	"errors"
	"net/http"
	"trip-planner-service/internal/api/auth"
	"trip-planner-service/internal/api/dto"
	"trip-planner-service/internal/platform/obs"
)

type TokenIssuer interface {
	Issue(clientID, secret string) (string, error)
}

// TokenHandler exchanges client credentials for a bearer token.
type TokenHandler struct {
	Issuer TokenIssuer
}

func (h *TokenHandler) Token(w http.ResponseWriter, r *http.Request) {
	var req dto.TokenRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}

	token, err := h.Issuer.Issue(req.ClientID, req.ClientSecret)
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		writeError(w, r, http.StatusUnauthorized, "invalid client id or secret")
		return
	case errors.Is(err, auth.ErrDisabled):
		writeError(w, r, http.StatusNotFound, "token issuing is not enabled")
		return
	case err != nil:
		obs.Logf(r.Context(), "op=token err=%q", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusOK, dto.TokenResponse{
		Token:     token,
		TokenType: "Bearer",
		ExpiresIn: 3600,
	})
}
