package handler

import (
	"context"
	"fmt"
	"time"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/yi-nology/asset_tracker/biz/model/api"
	"github.com/yi-nology/asset_tracker/pkg/auth"
)

// TokenIssuer signs session tokens for verified operators.
type TokenIssuer interface {
	Issue(username string) (string, time.Time, error)
}

// AuthHandler serves the login gate.
type AuthHandler struct {
	verifier auth.Verifier
	tokens   TokenIssuer
}

func NewAuthHandler(verifier auth.Verifier, tokens TokenIssuer) *AuthHandler {
	return &AuthHandler{verifier: verifier, tokens: tokens}
}

func (h *AuthHandler) Login(ctx context.Context, c *app.RequestContext) {
	var req api.LoginRequest
	if err := c.BindJSON(&req); err != nil {
		WriteBadRequest(c, fmt.Errorf("decode body: %w", err))
		return
	}
	identity, err := h.verifier.Verify(ctx, auth.Credentials{Username: req.Username, Password: req.Password})
	if err != nil {
		hlog.CtxInfof(ctx, "login rejected for %q: %v", req.Username, err)
		WriteError(ctx, c, err)
		return
	}
	token, expires, err := h.tokens.Issue(identity.Username)
	if err != nil {
		WriteInternalError(ctx, c, err)
		return
	}
	RespondData(c, &api.LoginResponse{
		Username:  identity.Username,
		Token:     token,
		ExpiresAt: expires,
	})
}
