package validation

import (
	"errors"
	"regexp"
	"testing"
)

func TestSubmissionNumber(t *testing.T) {
	t.Run("valid word token", func(t *testing.T) {
		got, err := SubmissionNumber("CC-MAPLE-042", "CC")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != "CC-MAPLE-042" {
			t.Fatalf("unexpected token %q", got)
		}
	})

	t.Run("normalizes case and whitespace", func(t *testing.T) {
		got, err := SubmissionNumber("  cc-maple-042  ", "CC")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != "CC-MAPLE-042" {
			t.Fatalf("unexpected token %q", got)
		}
	})

	t.Run("legacy timestamp token", func(t *testing.T) {
		got, err := SubmissionNumber("CC-20240115-00042", "CC")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != "CC-20240115-00042" {
			t.Fatalf("unexpected token %q", got)
		}
	})

	t.Run("empty", func(t *testing.T) {
		_, err := SubmissionNumber("   ", "CC")
		if !errors.Is(err, ErrRequiredField) {
			t.Fatalf("expected ErrRequiredField, got %v", err)
		}
	})

	t.Run("wrong prefix", func(t *testing.T) {
		_, err := SubmissionNumber("J-MAPLE-042", "CC")
		if !errors.Is(err, ErrFormat) {
			t.Fatalf("expected ErrFormat, got %v", err)
		}
	})

	t.Run("unknown word", func(t *testing.T) {
		_, err := SubmissionNumber("CC-ZZZZZ-042", "CC")
		if !errors.Is(err, ErrFormat) {
			t.Fatalf("expected ErrFormat, got %v", err)
		}
	})

	t.Run("malformed", func(t *testing.T) {
		for _, token := range []string{"CC-MAPLE", "CC-MAPLE-42", "CC-MAPLE-0421", "MAPLE-042", "CC_MAPLE_042"} {
			if _, err := SubmissionNumber(token, "CC"); !errors.Is(err, ErrFormat) {
				t.Fatalf("expected ErrFormat for %q, got %v", token, err)
			}
		}
	})
}

func TestNewSubmissionNumber(t *testing.T) {
	pattern := regexp.MustCompile(`^CC-[A-Z]{3,6}-\d{3}$`)
	for i := 0; i < 50; i++ {
		token := NewSubmissionNumber("CC")
		if !pattern.MatchString(token) {
			t.Fatalf("generated token %q does not match the record-number form", token)
		}
		if _, err := SubmissionNumber(token, "CC"); err != nil {
			t.Fatalf("generated token %q did not validate: %v", token, err)
		}
	}
}

func TestDerivedNumber(t *testing.T) {
	t.Run("rebases prefix", func(t *testing.T) {
		if got := DerivedNumber("CC-MAPLE-042", "J", 1); got != "J-MAPLE-042" {
			t.Fatalf("expected J-MAPLE-042, got %q", got)
		}
	})

	t.Run("chains across prefixes", func(t *testing.T) {
		job := DerivedNumber("CC-MAPLE-042", "J", 1)
		if got := DerivedNumber(job, "INV", 1); got != "INV-MAPLE-042" {
			t.Fatalf("expected INV-MAPLE-042, got %q", got)
		}
	})

	t.Run("sequence suffix for repeats", func(t *testing.T) {
		if got := DerivedNumber("CC-MAPLE-042", "INV", 2); got != "INV-MAPLE-042-2" {
			t.Fatalf("expected INV-MAPLE-042-2, got %q", got)
		}
	})
}

func TestTokenWordsFitPattern(t *testing.T) {
	word := regexp.MustCompile(`^[A-Z]{3,6}$`)
	for _, w := range tokenWords {
		if !word.MatchString(w) {
			t.Fatalf("vocabulary word %q does not fit the token pattern", w)
		}
	}
}
