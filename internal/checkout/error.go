package checkout

import "errors"

var ErrOrderNotPending = errors.New("order is not awaiting payment")
