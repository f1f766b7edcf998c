package helper

// IgnoreError calls fn and discards the returned error. It is used with defer
// on Close functions where there is no meaningful way to handle a failure.
func IgnoreError(fn func() error) { _ = fn() }
