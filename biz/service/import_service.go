package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/google/uuid"
	"github.com/yi-nology/asset_tracker/biz/model/api"
	"github.com/yi-nology/asset_tracker/biz/service/importer"
	"github.com/yi-nology/asset_tracker/pkg/storage"
)

var ErrEmptyImport = errors.New("import file is empty")

// ImportInput captures an uploaded import file.
type ImportInput struct {
	FileName    string
	ContentType string
	Data        []byte
}

// ImportAssets archives the source file, parses it and replays every row
// through CreateAsset. Row failures are reported in the summary. The archive
// is dropped again when no asset was created from it.
func (s *Service) ImportAssets(ctx context.Context, input *ImportInput) (*api.ImportSummary, error) {
	if input == nil || len(bytes.TrimSpace(input.Data)) == 0 {
		return nil, ErrEmptyImport
	}

	parser := &importer.Parser{Now: s.now}
	batch, err := parser.Parse(input.Data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidAsset, err)
	}

	sourceKey, err := s.archiveImport(ctx, input)
	if err != nil {
		return nil, err
	}

	summary, err := importer.Run(ctx, s, batch, 0)
	if summary == nil || summary.Imported == 0 {
		s.discardImport(ctx, sourceKey)
		sourceKey = ""
	}
	if summary != nil {
		summary.SourceKey = sourceKey
	}
	return summary, err
}

func (s *Service) discardImport(ctx context.Context, key string) {
	if s.storage == nil || key == "" {
		return
	}
	if err := s.storage.DeleteObject(context.WithoutCancel(ctx), key); err != nil {
		hlog.CtxWarnf(ctx, "discard import source %s: %v", key, err)
		return
	}
	hlog.CtxInfof(ctx, "discarded import source %s, nothing was imported", key)
}

func (s *Service) archiveImport(ctx context.Context, input *ImportInput) (string, error) {
	if s.storage == nil {
		return "", nil
	}
	contentType := input.ContentType
	if contentType == "" {
		contentType = "text/csv"
	}
	key := storage.ImportKey(uuid.NewString(), input.FileName)
	if err := s.storage.PutObject(ctx, key, bytes.NewReader(input.Data), contentType, int64(len(input.Data))); err != nil {
		return "", fmt.Errorf("archive import: %w", err)
	}
	hlog.CtxInfof(ctx, "archived import source to %s (%s)", key, s.storage.Type())
	return key, nil
}
