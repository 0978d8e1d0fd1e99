package storage

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/google/uuid"
)

// Storage is the Blob Store holding idea attachments. Only the returned paths
// are persisted, never the bytes.
type Storage interface {
	PutFile(ctx context.Context, path string, data []byte, contentType string) (string, error)
	PublicURL(path string) string
}

// ObjectPath builds a collision free object path under prefix, keeping the
// base name of the uploaded file for readability.
func ObjectPath(prefix, fileName string) string {
	name := path.Base(strings.ReplaceAll(fileName, "\\", "/"))
	if name == "." || name == "/" {
		name = "file"
	}

	return fmt.Sprintf("%s/%s-%s", strings.Trim(prefix, "/"), uuid.NewString(), name)
}
