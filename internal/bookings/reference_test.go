package bookings

import (
	"regexp"
	"strings"
	"testing"
)

var referencePattern = regexp.MustCompile(`^DLX-[A-Z0-9]+-[A-Z0-9]{5}$`)

func TestGenerateReferenceFormat(t *testing.T) {
	for i := 0; i < 100; i++ {
		ref := GenerateReference()
		if !referencePattern.MatchString(ref) {
			t.Fatalf("GenerateReference() = %q, does not match %s", ref, referencePattern)
		}
		if ref != strings.ToUpper(ref) {
			t.Fatalf("GenerateReference() = %q, not uppercase", ref)
		}
	}
}

func TestGenerateReferenceUniqueness(t *testing.T) {
	seen := make(map[string]struct{}, 1000)
	for i := 0; i < 1000; i++ {
		ref := GenerateReference()
		if _, ok := seen[ref]; ok {
			t.Fatalf("duplicate reference generated: %s", ref)
		}
		seen[ref] = struct{}{}
	}
}
