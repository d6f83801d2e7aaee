package receipt

import (
	"bytes"
	"context"
	"fmt"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// Archiver keeps a copy of issued receipts outside the database.
type Archiver interface {
	Archive(ctx context.Context, doc *Document) (string, error)
}

type CloudinaryArchiver struct {
	cld    *cloudinary.Cloudinary
	folder string
}

func NewCloudinaryArchiver(cld *cloudinary.Cloudinary, folder string) *CloudinaryArchiver {
	return &CloudinaryArchiver{cld: cld, folder: folder}
}

// Archive uploads the PDF as a raw asset named after the receipt number and
// returns its URL. Re-archiving a receipt overwrites the earlier copy.
func (a *CloudinaryArchiver) Archive(ctx context.Context, doc *Document) (string, error) {
	resp, err := a.cld.Upload.Upload(
		ctx,
		bytes.NewReader(doc.PDF),
		uploader.UploadParams{
			Folder:       a.folder,
			PublicID:     doc.ReceiptNumber,
			Overwrite:    api.Bool(true),
			ResourceType: "raw",
		},
	)
	if err != nil {
		return "", fmt.Errorf("cloudinary upload: %w", err)
	}
	return resp.SecureURL, nil
}
