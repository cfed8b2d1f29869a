package inbound

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/shandysiswandi/otpgate/internal/pkg/jwt"
)

type IndexResponse struct {
	Challenge   string `json:"challenge"`
	Instruction string `json:"instruction"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Message        string `json:"message"`
	LoginSessionID string `json:"loginSessionId"`
}

type VerifyOTPRequest struct {
	LoginSessionID string `json:"loginSessionId"`
	// OTP is accepted as a JSON number or string.
	OTP json.RawMessage `json:"otp"`
}

type VerifyOTPResponse struct {
	Message   string `json:"message"`
	SessionID string `json:"sessionId"`

	cookie *http.Cookie
}

func (v VerifyOTPResponse) Cookies() []*http.Cookie {
	if v.cookie == nil {
		return nil
	}
	return []*http.Cookie{v.cookie}
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
}

type ProtectedResponse struct {
	Message     string     `json:"message"`
	User        jwt.Claims `json:"user"`
	SuccessFlag string     `json:"success_flag"`
}

// otpText converts the raw otp value to text. Falsy values (absent, null,
// false, 0, "") become "" and count as missing. Objects and arrays keep a
// text form that never parses as a code.
func otpText(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return ""
	}

	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return ""
	}

	switch val := v.(type) {
	case nil:
		return ""
	case bool:
		if !val {
			return ""
		}
		return "true"
	case float64:
		if val == 0 {
			return ""
		}
		return strconv.FormatFloat(val, 'f', -1, 64)
	case string:
		return val
	case map[string]any:
		return "[object Object]"
	default:
		return string(raw)
	}
}
