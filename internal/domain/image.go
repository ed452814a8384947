package domain

import "io"

// ImageStore persists uploaded event images and resolves their public URLs.
type ImageStore interface {
	// Save writes the file under a unique name derived from the upload time
	// and returns the stored filename.
	Save(file io.Reader, originalName string) (storedName string, err error)
	// URL returns the public URL for a stored filename. requestScheme and
	// requestHost describe the request being served; implementations backed
	// by a configured base URL ignore them.
	URL(requestScheme, requestHost, storedName string) string
	// Remove deletes a stored file, so a failed event creation does not leave
	// its uploaded image behind.
	Remove(storedName string) error
}
