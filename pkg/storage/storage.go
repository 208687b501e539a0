// Package storage archives uploaded import files. Both the local filesystem
// and S3-compatible object stores (AWS S3, MinIO, OSS) are supported.
package storage

import (
	"context"
	"io"
	"path"
	"strings"
)

// ImportPrefix is the key prefix under which CSV uploads are archived.
const ImportPrefix = "imports"

// Storage is the object store used for import archives.
type Storage interface {
	// PutObject stores data under key. size may be -1 when unknown.
	PutObject(ctx context.Context, key string, data io.Reader, contentType string, size int64) error

	// DeleteObject removes key; deleting a missing key is not an error.
	DeleteObject(ctx context.Context, key string) error

	// Type returns "local" or "s3".
	Type() string
}

// ImportKey builds the archive key imports/<id>/<fileName>.
// Directory components in fileName are stripped.
func ImportKey(id, fileName string) string {
	name := path.Base(strings.ReplaceAll(strings.TrimSpace(fileName), "\\", "/"))
	if name == "" || name == "." || name == "/" || name == ".." {
		name = "upload.csv"
	}
	return path.Join(ImportPrefix, id, name)
}
