// Package storage uploads media objects to the Firebase default bucket and
// returns their public URLs.
package storage

import (
	"context"
	"fmt"
	"io"
	"path"

	gcs "cloud.google.com/go/storage"
	"github.com/google/uuid"
)

// Uploader stores media under random object names in a bucket
type Uploader struct {
	bucket     *gcs.BucketHandle
	bucketName string
}

// NewUploader creates an Uploader over the given bucket
func NewUploader(bucket *gcs.BucketHandle, bucketName string) *Uploader {
	return &Uploader{bucket: bucket, bucketName: bucketName}
}

// Upload writes the content to a uuid-named object under the given folder
// and returns the object's public URL.
func (u *Uploader) Upload(ctx context.Context, folder, filename, contentType string, content io.Reader) (string, error) {
	objectName := path.Join(folder, uuid.NewString()+path.Ext(filename))

	w := u.bucket.Object(objectName).NewWriter(ctx)
	w.ContentType = contentType
	if _, err := io.Copy(w, content); err != nil {
		w.Close()
		return "", fmt.Errorf("failed to write object %s: %w", objectName, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize object %s: %w", objectName, err)
	}

	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", u.bucketName, objectName), nil
}
