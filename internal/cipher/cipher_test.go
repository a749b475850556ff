package cipher

import (
	"strings"
	"testing"
)

func TestEncryptDecryptRoundTrip(t *testing.T) {
	for shift := 0; shift < 26; shift++ {
		if got := Decrypt(Encrypt("abcde", shift), shift); got != "abcde" {
			t.Fatalf("shift %d: round trip produced %q", shift, got)
		}
		if got := Decrypt(Encrypt("zzzzz", shift), shift); got != "zzzzz" {
			t.Fatalf("shift %d: round trip produced %q", shift, got)
		}
	}
}

func TestEncryptKnownShift(t *testing.T) {
	if got := Encrypt("abcde", 1); got != "bcdef" {
		t.Fatalf("expected bcdef, got %q", got)
	}
	if got := Encrypt("xyz", 3); got != "abc" {
		t.Fatalf("expected wrap-around abc, got %q", got)
	}
}

func TestNewGeneratorRejectsNoOpShift(t *testing.T) {
	if _, err := NewGenerator(0); err == nil {
		t.Fatal("expected error for shift 0")
	}
	if _, err := NewGenerator(52); err == nil {
		t.Fatal("expected error for shift 52")
	}
	g, err := NewGenerator(-3)
	if err != nil {
		t.Fatalf("negative shift should normalize: %v", err)
	}
	if g.Shift() != 23 {
		t.Fatalf("expected normalized shift 23, got %d", g.Shift())
	}
}

func TestNewPuzzle(t *testing.T) {
	g, err := NewGenerator(3)
	if err != nil {
		t.Fatalf("new generator: %v", err)
	}

	seen := make(map[string]bool)
	for i := 0; i < 20; i++ {
		p, err := g.NewPuzzle()
		if err != nil {
			t.Fatalf("new puzzle: %v", err)
		}
		if len(p.Plain) != 5 {
			t.Fatalf("expected 5-char plaintext, got %q", p.Plain)
		}
		if p.Plain != strings.ToLower(p.Plain) {
			t.Fatalf("plaintext not lowercase: %q", p.Plain)
		}
		for _, c := range p.Plain {
			if c < 'a' || c > 'z' {
				t.Fatalf("plaintext contains non-letter %q", p.Plain)
			}
		}
		if Decrypt(p.Cipher, p.Shift) != p.Plain {
			t.Fatalf("ciphertext %q does not decrypt to %q", p.Cipher, p.Plain)
		}
		seen[p.Plain] = true
	}
	if len(seen) < 2 {
		t.Fatal("expected distinct plaintexts across issuances")
	}
}
