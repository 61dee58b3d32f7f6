package assets

import (
	"context"
	"fmt"
	"io"
	"log"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// CloudinaryStore hosts product images and category icons on Cloudinary.
type CloudinaryStore struct {
	cld *cloudinary.Cloudinary
}

// NewCloudinaryStore initializes the client from a CLOUDINARY_URL-style
// connection string.
func NewCloudinaryStore(cloudURL string) (*CloudinaryStore, error) {
	cld, err := cloudinary.NewFromURL(cloudURL)
	if err != nil {
		return nil, fmt.Errorf("failed to init cloudinary: %w", err)
	}
	return &CloudinaryStore{cld: cld}, nil
}

func (s *CloudinaryStore) Upload(ctx context.Context, file io.Reader, folder, publicID string) (*UploadResult, error) {
	params := uploader.UploadParams{Folder: folder}
	if publicID != "" {
		params.PublicID = publicID
	}

	result, err := s.cld.Upload.Upload(ctx, file, params)
	if err != nil {
		return nil, fmt.Errorf("failed to upload asset: %w", err)
	}

	log.Printf("Uploaded asset %s to folder %s", result.PublicID, folder)
	return &UploadResult{PublicID: result.PublicID, SecureURL: result.SecureURL}, nil
}

func (s *CloudinaryStore) Delete(ctx context.Context, publicID string) (bool, error) {
	result, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID})
	if err != nil {
		return false, fmt.Errorf("failed to delete asset %s: %w", publicID, err)
	}
	if result.Result != "ok" {
		log.Printf("Cloudinary destroy for %s returned %q", publicID, result.Result)
		return false, nil
	}
	log.Printf("Deleted asset %s", publicID)
	return true, nil
}
