package application

import (
	"context"
	"fmt"
	"io"
	"path"

	"github.com/google/uuid"

	"github.com/oksasatya/go-event-sharing/internal/domain/entity"
	"github.com/oksasatya/go-event-sharing/pkg/helpers"
)

// SearchIndex is the optional full-text index for users and events.
type SearchIndex interface {
	IndexUser(ctx context.Context, u *entity.User) error
	IndexEvent(ctx context.Context, e *entity.Event) error
	DeleteEvent(ctx context.Context, title string) error
	SearchUsers(ctx context.Context, q string, size int) ([]entity.User, error)
	SearchEvents(ctx context.Context, q string, size int) ([]entity.Event, error)
}

// ObjectUploader stores a file and returns its public URL.
type ObjectUploader interface {
	Upload(ctx context.Context, objectPath, contentType string, r io.Reader) (string, error)
}

// EmailPublisher enqueues email jobs for the email worker.
type EmailPublisher interface {
	PublishJSON(ctx context.Context, body any) error
}

// Upload is an image submitted with a form.
type Upload struct {
	Filename string
	Reader   io.Reader
}

// storeImage normalizes the upload and stores it under dir. It returns
// "" when no uploader is configured.
func storeImage(ctx context.Context, up ObjectUploader, dir, field string, u *Upload) (string, error) {
	if up == nil || u == nil || u.Reader == nil {
		return "", nil
	}
	buf, err := helpers.NormalizeImage(u.Reader)
	if err != nil {
		return "", fieldError(field, "image", u.Filename, "must be a valid image")
	}
	objectPath := path.Join(dir, uuid.NewString()+".jpg")
	url, err := up.Upload(ctx, objectPath, "image/jpeg", buf)
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", objectPath, err)
	}
	return url, nil
}
