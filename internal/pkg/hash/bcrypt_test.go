package hash

import (
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestBcrypt(t *testing.T) {
	h := NewBcrypt(bcrypt.MinCost)

	hashed, err := h.Hash("hunter2")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if string(hashed) == "hunter2" {
		t.Fatalf("expected digest, got plaintext")
	}

	if !h.Verify(string(hashed), "hunter2") {
		t.Fatalf("expected verify to succeed")
	}
	if h.Verify(string(hashed), "hunter3") {
		t.Fatalf("expected verify to fail for wrong plaintext")
	}
}

func TestNewBcrypt_CostFallback(t *testing.T) {
	if got := NewBcrypt(0).cost; got != bcrypt.DefaultCost {
		t.Fatalf("expected default cost, got %d", got)
	}
	if got := NewBcrypt(99).cost; got != bcrypt.DefaultCost {
		t.Fatalf("expected default cost, got %d", got)
	}
}
