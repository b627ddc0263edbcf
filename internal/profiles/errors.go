package profiles

import "errors"

// ErrFetchFailed indicates a profiling request failed. Previously cached
// entries are preserved; the fetch must be re-invoked explicitly.
var ErrFetchFailed = errors.New("profile fetch failed")
