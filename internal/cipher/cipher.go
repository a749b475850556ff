package cipher

import (
	"crypto/rand"
	"fmt"
)

const (
	alphabet    = "abcdefghijklmnopqrstuvwxyz"
	puzzleLen   = 5
	alphabetLen = 26
)

// Puzzle is a freshly generated Caesar challenge. Plain is the expected
// answer and must never leave the server; Cipher is shown to the client.
type Puzzle struct {
	Plain  string
	Cipher string
	Shift  int
}

// Generator produces Caesar cipher puzzles with a fixed configured shift.
type Generator struct {
	shift int
}

// NewGenerator builds a puzzle generator. The shift is normalized into
// [1,25]; a zero effective shift would make the puzzle answer visible.
func NewGenerator(shift int) (*Generator, error) {
	n := ((shift % alphabetLen) + alphabetLen) % alphabetLen
	if n == 0 {
		return nil, fmt.Errorf("cipher shift %d is a no-op", shift)
	}
	return &Generator{shift: n}, nil
}

// Shift reports the normalized shift in use.
func (g *Generator) Shift() int {
	return g.shift
}

// NewPuzzle generates a random 5-letter lowercase plaintext and its
// shifted ciphertext.
func (g *Generator) NewPuzzle() (Puzzle, error) {
	buf := make([]byte, puzzleLen)
	if _, err := rand.Read(buf); err != nil {
		return Puzzle{}, fmt.Errorf("generate plaintext: %w", err)
	}
	plain := make([]byte, puzzleLen)
	for i, b := range buf {
		plain[i] = alphabet[int(b)%alphabetLen]
	}
	p := string(plain)
	return Puzzle{Plain: p, Cipher: Encrypt(p, g.shift), Shift: g.shift}, nil
}

// Encrypt shifts each lowercase letter forward by shift positions, wrapping
// around the alphabet. Non-lowercase bytes pass through untouched.
func Encrypt(s string, shift int) string {
	return rotate(s, shift)
}

// Decrypt reverses Encrypt.
func Decrypt(s string, shift int) string {
	return rotate(s, -shift)
}

func rotate(s string, shift int) string {
	n := ((shift % alphabetLen) + alphabetLen) % alphabetLen
	out := []byte(s)
	for i, c := range out {
		if c >= 'a' && c <= 'z' {
			out[i] = 'a' + byte((int(c-'a')+n)%alphabetLen)
		}
	}
	return string(out)
}
