package apperrors

import "github.com/hashicorp/go-multierror"

// Batch runs fn, which is expected to call record for every error it
// encounters instead of stopping at the first one, and returns every
// recorded error aggregated into a single *multierror.Error. Returns
// nil if record was never called.
func Batch(fn func(record func(error))) error {
	var merr *multierror.Error
	fn(func(err error) {
		merr = multierror.Append(merr, err)
	})
	return merr.ErrorOrNil()
}
