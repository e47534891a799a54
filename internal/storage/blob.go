package storage

import "io"

// BlobStore holds exam media: part 1 photographs, listening audio clips,
// reading passages attachments. Keys are slash-separated paths under the
// exam, e.g. "exams/toeic-2024-1/audio/q32.mp3".
type BlobStore interface {
	Put(key string, r io.Reader) (string, error) // returns canonical key
	Get(key string) (io.ReadCloser, error)
	SignedURL(key string) (string, error) // fs returns "file://..." for dev
}
