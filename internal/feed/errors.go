package feed

import "fmt"

// ListFetchError reports a failed fetch or parse of the remote list.
type ListFetchError struct {
	URL string
	Err error
}

func (e *ListFetchError) Error() string {
	return fmt.Sprintf("fetch list %s: %v", e.URL, e.Err)
}

func (e *ListFetchError) Unwrap() error { return e.Err }

// ImageFetchError reports a failed download of one image.
type ImageFetchError struct {
	URL string
	Err error
}

func (e *ImageFetchError) Error() string {
	return fmt.Sprintf("fetch image %s: %v", e.URL, e.Err)
}

func (e *ImageFetchError) Unwrap() error { return e.Err }
