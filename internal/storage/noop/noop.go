// Package noop provides an ObjectStorage that discards everything. It is used when
// invoice archiving is disabled.
package noop

import (
	"context"
	"io"

	"docextract/internal/port"
)

// Storage discards uploads and reports them as stored.
type Storage struct{}

// New returns a discarding ObjectStorage.
func New() port.ObjectStorage {
	return Storage{}
}

func (Storage) Upload(_ context.Context, input port.UploadInput) (*port.UploadOutput, error) {
	if input.Body != nil {
		if _, err := io.Copy(io.Discard, input.Body); err != nil {
			return nil, err
		}
	}
	return &port.UploadOutput{Location: "noop://" + input.Bucket + "/" + input.Key}, nil
}
