package affine

import "errors"

// Sentinel errors of the configuration and tool layers. The numeric kernel
// itself never returns errors; irregular results are form kinds.
var (
	ErrUnknownPolicy = errors.New("affine: unknown policy")
	ErrUnknownMode   = errors.New("affine: unknown linearization mode")
	ErrInvalidConfig = errors.New("affine: invalid configuration")
	ErrUnknownOp     = errors.New("affine: unknown operation")
	ErrBadParam      = errors.New("affine: bad parameter")
)
