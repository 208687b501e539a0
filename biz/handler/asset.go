package handler

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"github.com/yi-nology/asset_tracker/biz/model/api"
	"github.com/yi-nology/asset_tracker/biz/service"
	"github.com/yi-nology/asset_tracker/pkg/validator"
)

// AssetHandler exposes the asset store over HTTP.
type AssetHandler struct {
	service    *service.Service
	importFile *validator.ImportFile
}

// NewAssetHandler builds the handler; maxImportSize <= 0 selects the
// default upload limit.
func NewAssetHandler(svc *service.Service, maxImportSize int64) *AssetHandler {
	return &AssetHandler{service: svc, importFile: validator.NewImportFile(maxImportSize)}
}

// ListAssets returns every asset newest first, or 304 when If-None-Match
// still names the current revision.
func (h *AssetHandler) ListAssets(ctx context.Context, c *app.RequestContext) {
	listing, err := h.service.ListAssets(ctx, string(c.GetHeader("If-None-Match")))
	if err != nil {
		WriteError(ctx, c, err)
		return
	}
	c.Response.Header.Set("ETag", listing.ETag())
	c.Response.Header.Set("Cache-Control", "no-cache")
	if listing.NotModified {
		c.SetStatusCode(consts.StatusNotModified)
		return
	}
	RespondData(c, listing.Assets)
}

func (h *AssetHandler) GetAsset(ctx context.Context, c *app.RequestContext) {
	id, err := api.ParseAssetID(c.Param("id"))
	if err != nil {
		WriteBadRequest(c, err)
		return
	}
	asset, err := h.service.GetAsset(ctx, uint(id))
	if err != nil {
		WriteError(ctx, c, err)
		return
	}
	RespondData(c, asset)
}

func (h *AssetHandler) CreateAsset(ctx context.Context, c *app.RequestContext) {
	var req api.CreateAssetRequest
	if err := c.BindJSON(&req); err != nil {
		WriteBadRequest(c, fmt.Errorf("decode body: %w", err))
		return
	}
	asset, err := h.service.CreateAsset(ctx, &req)
	if err != nil {
		WriteError(ctx, c, err)
		return
	}
	RespondData(c, asset)
}

// UpdateAsset accepts the id in the path or in the body; when both are
// present they must agree.
func (h *AssetHandler) UpdateAsset(ctx context.Context, c *app.RequestContext) {
	var req api.UpdateAssetRequest
	if err := c.BindJSON(&req); err != nil {
		WriteBadRequest(c, fmt.Errorf("decode body: %w", err))
		return
	}
	id, err := resolveID(c, req.ID)
	if err != nil {
		WriteBadRequest(c, err)
		return
	}
	change, err := req.Change()
	if err != nil {
		WriteBadRequest(c, err)
		return
	}
	asset, err := h.service.UpdateAsset(ctx, uint(id), change)
	if err != nil {
		WriteError(ctx, c, err)
		return
	}
	RespondData(c, asset)
}

// DeleteAsset takes the id from the path, the query string or a JSON body.
func (h *AssetHandler) DeleteAsset(ctx context.Context, c *app.RequestContext) {
	var req api.DeleteAssetRequest
	if len(c.Request.Body()) > 0 {
		if err := c.BindJSON(&req); err != nil {
			WriteBadRequest(c, fmt.Errorf("decode body: %w", err))
			return
		}
	}
	if req.ID == 0 {
		if raw := c.Query("id"); raw != "" {
			parsed, err := api.ParseAssetID(raw)
			if err != nil {
				WriteBadRequest(c, err)
				return
			}
			req.ID = parsed
		}
	}
	id, err := resolveID(c, req.ID)
	if err != nil {
		WriteBadRequest(c, err)
		return
	}
	if err := h.service.DeleteAsset(ctx, uint(id)); err != nil {
		WriteError(ctx, c, err)
		return
	}
	RespondMessage(c, "Deleted")
}

// ImportAssets accepts a multipart "file" field or a raw CSV body.
func (h *AssetHandler) ImportAssets(ctx context.Context, c *app.RequestContext) {
	input, err := h.readImport(c)
	if err != nil {
		WriteBadRequest(c, err)
		return
	}
	summary, err := h.service.ImportAssets(ctx, input)
	if err != nil {
		WriteError(ctx, c, err)
		return
	}
	RespondData(c, summary)
}

func (h *AssetHandler) readImport(c *app.RequestContext) (*service.ImportInput, error) {
	contentType := string(c.ContentType())
	if strings.HasPrefix(contentType, "multipart/form-data") {
		fileHeader, err := c.FormFile("file")
		if err != nil {
			return nil, err
		}
		if err := h.importFile.ValidateFileSize(fileHeader.Size); err != nil {
			return nil, err
		}
		file, err := fileHeader.Open()
		if err != nil {
			return nil, err
		}
		defer file.Close()
		data, err := io.ReadAll(io.LimitReader(file, h.importFile.MaxFileSize+1))
		if err != nil {
			return nil, err
		}
		if err := h.importFile.Validate(data); err != nil {
			return nil, err
		}
		return &service.ImportInput{
			FileName:    fileHeader.Filename,
			ContentType: fileHeader.Header.Get("Content-Type"),
			Data:        data,
		}, nil
	}

	body := c.Request.Body()
	if err := h.importFile.Validate(body); err != nil {
		return nil, err
	}
	name := c.Query("filename")
	if name == "" {
		name = "upload.csv"
	}
	return &service.ImportInput{
		FileName:    name,
		ContentType: contentType,
		Data:        append([]byte(nil), body...),
	}, nil
}

func resolveID(c *app.RequestContext, bodyID api.AssetID) (api.AssetID, error) {
	raw := c.Param("id")
	if raw == "" {
		if bodyID == 0 {
			return 0, fmt.Errorf("%w: id is required", api.ErrInvalidAssetID)
		}
		return bodyID, nil
	}
	pathID, err := api.ParseAssetID(raw)
	if err != nil {
		return 0, err
	}
	if bodyID != 0 && bodyID != pathID {
		return 0, fmt.Errorf("%w: path id %d does not match body id %d", api.ErrInvalidAssetID, pathID, bodyID)
	}
	return pathID, nil
}
