package domain

import (
	"context"

	"github.com/sparkloop/backend/internal/common"
	"github.com/sparkloop/backend/internal/model"
	"github.com/sparkloop/backend/pkg/errorx"
	"github.com/sparkloop/backend/pkg/storage"
	"github.com/sparkloop/backend/pkg/xcontext"
)

const (
	attachmentFormKey = "file"
	attachmentPrefix  = "ideas"
	previewPrefix     = "ideas/previews"
)

type FileDomain interface {
	UploadAttachment(context.Context, *model.UploadAttachmentRequest) (*model.UploadAttachmentResponse, error)
}

type fileDomain struct {
	storage storage.Storage
}

func NewFileDomain(fileStorage storage.Storage) *fileDomain {
	return &fileDomain{storage: fileStorage}
}

// UploadAttachment stores the file, the returned path is what an idea keeps
// in its attachment references.
func (d *fileDomain) UploadAttachment(
	ctx context.Context, req *model.UploadAttachmentRequest,
) (*model.UploadAttachmentResponse, error) {
	attachment, err := common.ReadAttachment(ctx, attachmentFormKey)
	if err != nil {
		return nil, err
	}

	path, err := d.storage.PutFile(ctx,
		storage.ObjectPath(attachmentPrefix, attachment.FileName),
		attachment.Data,
		attachment.ContentType,
	)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot upload attachment: %v", err)
		return nil, errorx.New(errorx.Unavailable, "Blob store is unavailable")
	}

	resp := &model.UploadAttachmentResponse{Path: path, URL: d.storage.PublicURL(path)}
	if common.IsImage(attachment.ContentType) {
		resp.PreviewURL = d.uploadPreview(ctx, attachment, resp.URL)
	}

	return resp, nil
}

// uploadPreview never fails the upload, the attachment is usable without a
// preview.
func (d *fileDomain) uploadPreview(ctx context.Context, attachment *common.Attachment, originalURL string) string {
	preview, err := common.Preview(attachment)
	if err != nil {
		xcontext.Logger(ctx).Warnf("Cannot generate preview of %s: %v", attachment.FileName, err)
		return ""
	}

	if preview == attachment {
		return originalURL
	}

	path, err := d.storage.PutFile(ctx,
		storage.ObjectPath(previewPrefix, preview.FileName),
		preview.Data,
		preview.ContentType,
	)
	if err != nil {
		xcontext.Logger(ctx).Warnf("Cannot upload preview of %s: %v", attachment.FileName, err)
		return ""
	}

	return d.storage.PublicURL(path)
}
