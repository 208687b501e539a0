package handler

import (
	"context"
	"errors"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"github.com/yi-nology/asset_tracker/biz/model/api"
	"github.com/yi-nology/asset_tracker/biz/service"
	"github.com/yi-nology/asset_tracker/pkg/auth"
	pkgcommon "github.com/yi-nology/asset_tracker/pkg/common"
)

// Ping is the liveness probe.
func Ping(ctx context.Context, c *app.RequestContext) {
	c.JSON(consts.StatusOK, pkgcommon.CommonResponse{Code: consts.StatusOK, Msg: "pong"})
}

func RespondData(c *app.RequestContext, data interface{}) {
	c.JSON(consts.StatusOK, pkgcommon.CommonResponse{
		Code: consts.StatusOK,
		Data: data,
	})
}

func RespondMessage(c *app.RequestContext, msg string) {
	c.JSON(consts.StatusOK, pkgcommon.CommonResponse{
		Code: consts.StatusOK,
		Msg:  msg,
	})
}

func WriteBadRequest(c *app.RequestContext, err error) {
	writeStatus(c, consts.StatusBadRequest, err.Error(), err)
}

func WriteNotFound(c *app.RequestContext, err error) {
	writeStatus(c, consts.StatusNotFound, err.Error(), err)
}

func WriteUnauthorized(c *app.RequestContext, err error) {
	writeStatus(c, consts.StatusUnauthorized, err.Error(), err)
}

func WriteInternalError(ctx context.Context, c *app.RequestContext, err error) {
	hlog.CtxErrorf(ctx, "%s %s failed: %v", c.Request.Method(), c.Request.URI().Path(), err)
	writeStatus(c, consts.StatusInternalServerError, "internal error", err)
}

// WriteError maps domain errors onto HTTP statuses.
func WriteError(ctx context.Context, c *app.RequestContext, err error) {
	switch {
	case errors.Is(err, service.ErrAssetNotFound):
		WriteNotFound(c, err)
	case errors.Is(err, service.ErrInvalidAsset),
		errors.Is(err, service.ErrEmptyUpdate),
		errors.Is(err, service.ErrInvalidTransition),
		errors.Is(err, service.ErrEmptyImport),
		errors.Is(err, api.ErrInvalidAssetID),
		errors.Is(err, api.ErrAmbiguousUpdate):
		WriteBadRequest(c, err)
	case errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrNotConfigured),
		errors.Is(err, auth.ErrInvalidToken):
		WriteUnauthorized(c, err)
	default:
		WriteInternalError(ctx, c, err)
	}
}

func writeStatus(c *app.RequestContext, status int, msg string, err error) {
	c.JSON(status, pkgcommon.CommonResponse{
		Code:  status,
		Msg:   msg,
		Error: err.Error(),
	})
}
