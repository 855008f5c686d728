package sync

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when the remote repository has no
	// database under the requested name.
	ErrNotFound = errors.New("sync: remote database not found")

	// ErrUploadRejected is returned when the remote repository responds
	// to an upload with a body that does not begin with "OK".
	ErrUploadRejected = errors.New("sync: upload rejected by remote repository")

	// ErrUnexpectedStatus is returned for any non-2xx HTTP response the
	// client doesn't otherwise recognize.
	ErrUnexpectedStatus = errors.New("sync: unexpected HTTP status")

	// ErrCrossOriginRedirect is returned when the remote repository
	// issues a redirect to a different scheme or host than the one the
	// client was configured with.
	ErrCrossOriginRedirect = errors.New("sync: refusing to follow cross-origin redirect")
)

// RemoteNewerError is returned by Upload when the remote repository's
// revision is already ahead of the revision being uploaded, so no
// upload was attempted.
type RemoteNewerError struct {
	Local  uint32
	Remote uint32
}

func (e *RemoteNewerError) Error() string {
	return fmt.Sprintf("sync: remote revision %d is newer than local revision %d", e.Remote, e.Local)
}
