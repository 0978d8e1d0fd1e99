package common

import (
	"context"
	"io"
	"net/http"

	"github.com/sparkloop/backend/pkg/errorx"
	"github.com/sparkloop/backend/pkg/xcontext"
)

const megabyte = 1 << 20

type Attachment struct {
	FileName    string
	ContentType string
	Data        []byte
}

// ReadAttachment reads the file of the multipart field key from the current
// http request.
func ReadAttachment(ctx context.Context, key string) (*Attachment, error) {
	req := xcontext.HTTPRequest(ctx)
	if req == nil {
		return nil, errorx.New(errorx.BadRequest, "Request must be multipart form")
	}

	maxSize := int64(xcontext.Configs(ctx).File.MaxSize) * megabyte
	if err := req.ParseMultipartForm(maxSize); err != nil {
		return nil, errorx.New(errorx.BadRequest, "Request must be multipart form")
	}

	file, header, err := req.FormFile(key)
	if err != nil {
		return nil, errorx.New(errorx.BadRequest, "Error retrieving the file")
	}
	defer file.Close()

	if header.Size > maxSize {
		return nil, errorx.New(errorx.BadRequest, "File too large (at most %d MB)", maxSize/megabyte)
	}

	data, err := io.ReadAll(io.LimitReader(file, maxSize+1))
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot read uploaded file: %v", err)
		return nil, errorx.Unknown
	}

	if int64(len(data)) > maxSize {
		return nil, errorx.New(errorx.BadRequest, "File too large (at most %d MB)", maxSize/megabyte)
	}

	if len(data) == 0 {
		return nil, errorx.New(errorx.BadRequest, "File is empty")
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(data)
	}

	return &Attachment{FileName: header.Filename, ContentType: contentType, Data: data}, nil
}
