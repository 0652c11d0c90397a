package constants

const (
	ErrCodeValidationFailed    = "VALIDATION_FAILED"
	ErrCodeUserNotFound        = "USER_NOT_FOUND"
	ErrCodeInsufficientBalance = "INSUFFICIENT_BALANCE"
	ErrCodeItemNotFound        = "ITEM_NOT_FOUND"
	ErrCodeItemAlreadySold     = "ITEM_ALREADY_SOLD"
	ErrCodeOrderNotFound       = "ORDER_NOT_FOUND"
	ErrCodeAlreadyClaimed      = "ALREADY_CLAIMED"
	ErrCodeNotYourOrder        = "NOT_YOUR_ORDER"
	ErrCodeInvalidState        = "INVALID_STATE"
	ErrCodeKeyNotFound         = "KEY_NOT_FOUND"
	ErrCodeKeyAlreadyUsed      = "KEY_ALREADY_USED"
	ErrCodeCodeNotFound        = "CODE_NOT_FOUND"
	ErrCodeCodeExpired         = "CODE_EXPIRED"
	ErrCodeCodeMismatch        = "CODE_MISMATCH"
	ErrCodeNotAuthorized       = "NOT_AUTHORIZED"
	ErrCodeFulfillerExists     = "FULFILLER_EXISTS"
	ErrCodeFulfillerNotFound   = "FULFILLER_NOT_FOUND"
	ErrCodeStoreUnavailable    = "STORE_UNAVAILABLE"
	ErrCodeInternalError       = "INTERNAL_ERROR"
	ErrCodeInvalidRequestBody  = "INVALID_REQUEST_BODY"
	ErrCodeUnauthorized        = "UNAUTHORIZED"
)

var errorMessages = map[string]string{
	ErrCodeValidationFailed:    "request validation failed",
	ErrCodeUserNotFound:        "user not found",
	ErrCodeInsufficientBalance: "insufficient balance",
	ErrCodeItemNotFound:        "item not found or removed",
	ErrCodeItemAlreadySold:     "item is no longer available",
	ErrCodeOrderNotFound:       "order not found",
	ErrCodeAlreadyClaimed:      "order already claimed by someone else",
	ErrCodeNotYourOrder:        "this order is not yours",
	ErrCodeInvalidState:        "order is not in a valid state for this action",
	ErrCodeKeyNotFound:         "invalid charge key",
	ErrCodeKeyAlreadyUsed:      "charge key already used",
	ErrCodeCodeNotFound:        "no verification code issued",
	ErrCodeCodeExpired:         "verification code expired",
	ErrCodeCodeMismatch:        "verification code does not match",
	ErrCodeNotAuthorized:       "not authorized",
	ErrCodeFulfillerExists:     "fulfiller already on the roster",
	ErrCodeFulfillerNotFound:   "fulfiller not on the roster",
	ErrCodeStoreUnavailable:    "storage temporarily unavailable",
	ErrCodeInternalError:       "internal error",
	ErrCodeInvalidRequestBody:  "invalid request body",
	ErrCodeUnauthorized:        "unauthorized",
}

func GetErrorMessage(code string) string {
	msg, exists := errorMessages[code]
	if !exists {
		return ""
	}
	return msg
}

var httpStatuses = map[string]int{
	ErrCodeValidationFailed:    400,
	ErrCodeInvalidRequestBody:  400,
	ErrCodeUnauthorized:        401,
	ErrCodeNotAuthorized:       403,
	ErrCodeNotYourOrder:        403,
	ErrCodeUserNotFound:        404,
	ErrCodeItemNotFound:        404,
	ErrCodeOrderNotFound:       404,
	ErrCodeKeyNotFound:         404,
	ErrCodeCodeNotFound:        404,
	ErrCodeInsufficientBalance: 409,
	ErrCodeItemAlreadySold:     409,
	ErrCodeAlreadyClaimed:      409,
	ErrCodeInvalidState:        409,
	ErrCodeKeyAlreadyUsed:      409,
	ErrCodeCodeExpired:         410,
	ErrCodeCodeMismatch:        401,
	ErrCodeFulfillerExists:     409,
	ErrCodeFulfillerNotFound:   404,
	ErrCodeStoreUnavailable:    503,
}

func GetHTTPStatus(code string) int {
	status, exists := httpStatuses[code]
	if !exists {
		return 500
	}
	return status
}
