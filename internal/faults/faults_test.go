package faults

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"
)

func TestErrorIs(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"empty input", EmptyInput(), ErrEmptyInput},
		{"invalid options", InvalidOptions("margin %d", 40), ErrInvalidOptions},
		{"decode", Decode("cat.png", io.ErrUnexpectedEOF), ErrDecode},
		{"encoding", Encoding(io.ErrShortWrite), ErrEncoding},
		{"save", Save(io.ErrClosedPipe), ErrSave},
	}

	all := []error{ErrEmptyInput, ErrInvalidOptions, ErrDecode, ErrEncoding, ErrSave}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, s := range all {
				if got := errors.Is(tt.err, s); got != (s == tt.want) {
					t.Errorf("errors.Is(%v, %v) = %v", tt.err, s, got)
				}
			}
		})
	}
}

func TestErrorUnwrap(t *testing.T) {
	err := fmt.Errorf("generate: %w", Decode("cat.png", io.ErrUnexpectedEOF))
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Error("cause should be reachable through the chain")
	}

	var fe *Error
	if !errors.As(err, &fe) {
		t.Fatal("errors.As should find *Error")
	}
	if fe.Name != "cat.png" {
		t.Errorf("Name = %q, want cat.png", fe.Name)
	}
}

func TestErrorMessage(t *testing.T) {
	msg := Decode("cat.png", io.ErrUnexpectedEOF).Error()
	for _, want := range []string{"cannot be decoded", "cat.png", "unexpected EOF"} {
		if !strings.Contains(msg, want) {
			t.Errorf("message %q missing %q", msg, want)
		}
	}
	if got := EmptyInput().Error(); got != "no images supplied" {
		t.Errorf("EmptyInput().Error() = %q", got)
	}
}

func TestKindOf(t *testing.T) {
	if k, ok := KindOf(fmt.Errorf("wrapped: %w", Save(nil))); !ok || k != KindSaveFailure {
		t.Errorf("KindOf() = %q, %v", k, ok)
	}
	if _, ok := KindOf(io.EOF); ok {
		t.Error("KindOf(io.EOF) should not match")
	}
}
