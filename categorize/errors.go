package categorize

import "errors"

// ErrNoSource is returned for operations on a categorizer without a source.
var ErrNoSource = errors.New("categorizer has no source")

// ErrInvalidIndex is returned for stale or out-of-range indexes.
var ErrInvalidIndex = errors.New("invalid index")

// ErrUnsupportedEdit is returned for structural edits the view does not accept:
// the grouping is derived from the source, not authored.
var ErrUnsupportedEdit = errors.New("structural edit not supported by categorized view")

// ErrReadOnly is returned when writing to a bucket.
var ErrReadOnly = errors.New("bucket fields are read-only")

// ErrInconsistent is wrapped by every error returned from Verify.
var ErrInconsistent = errors.New("categorizer is inconsistent")
