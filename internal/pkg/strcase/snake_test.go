package strcase

import "testing"

func TestToLowerSnake(t *testing.T) {
	tests := map[string]string{
		"":               "",
		"Email":          "email",
		"SessionID":      "session_id",
		"LoginSessionID": "login_session_id",
		"HTTPServer":     "http_server",
		"otp2Code":       "otp2_code",
	}

	for in, want := range tests {
		if got := ToLowerSnake(in); got != want {
			t.Fatalf("ToLowerSnake(%q) = %q, want %q", in, got, want)
		}
	}
}
