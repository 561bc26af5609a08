package analysis

import "errors"

// ErrTradeNotFound is returned when the trade does not exist or belongs
// to a different user. The two cases are deliberately indistinguishable
// so ownership is never leaked through error messages.
var ErrTradeNotFound = errors.New("trade not found")
