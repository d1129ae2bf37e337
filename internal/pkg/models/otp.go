package models

// OTPRequest represents a request to send a one-time code
type OTPRequest struct {
	MobileNumber string `json:"mobile_number" validate:"required"`
}

// OTPVerifyRequest represents a request to verify a one-time code
type OTPVerifyRequest struct {
	MobileNumber string `json:"mobile_number" validate:"required"`
	OTP          string `json:"otp" validate:"required"`
}

// OTPResult is the outcome of requesting or resending a code.
// DebugCode is populated only when the delivery-failure diagnostic policy is
// enabled outside production; it is never set otherwise.
type OTPResult struct {
	Delivered bool   `json:"delivered"`
	DebugCode string `json:"debug_code,omitempty"`
}

// AuthResponse represents the response after successful verification
type AuthResponse struct {
	Token     string        `json:"token"`
	ExpiresAt int64         `json:"expires_at"`
	Principal PrincipalView `json:"principal"`
}
