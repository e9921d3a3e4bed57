package filestorage

import "io"

// FileStorage is the boundary between avatar ingestion and whatever
// holds the original bytes. The local filesystem implementation can be
// swapped for object storage without touching the directory logic.
type FileStorage interface {
	// Save streams src into storage under the given name and returns
	// the stored path and the number of bytes written. The write is
	// atomic: readers never observe a partially written file.
	Save(filename string, src io.Reader) (string, int64, error)

	// Open returns a reader over a previously stored file.
	Open(path string) (io.ReadSeekCloser, error)

	// Delete removes a stored file. Deleting a missing file is not an
	// error.
	Delete(path string) error
}
