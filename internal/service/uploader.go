package service

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
)

// FileUploader abstracts uploading binary data and returning a URL.
type FileUploader interface {
	Upload(ctx context.Context, name string, reader io.Reader) (string, error)
}

// uploadFormFile streams a multipart file through the uploader.
func uploadFormFile(ctx context.Context, uploader FileUploader, file *multipart.FileHeader) (string, error) {
	if uploader == nil {
		return "", fmt.Errorf("file uploads are not configured")
	}

	source, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer source.Close()

	url, err := uploader.Upload(ctx, file.Filename, source)
	if err != nil {
		return "", err
	}

	return url, nil
}
