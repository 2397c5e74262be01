package pipeline

import (
	"context"
	"strings"
)

// Transform is the pure function applied by a stage to its input text.
type Transform func(ctx context.Context, in string) (string, error)

// CaseFold lower-cases its input.
func CaseFold(_ context.Context, in string) (string, error) {
	return strings.ToLower(in), nil
}

// ROT13 rotates ASCII letters by 13 places. Applying it twice returns the input.
func ROT13(_ context.Context, in string) (string, error) {
	return strings.Map(rot13, in), nil
}

func rot13(r rune) rune {
	switch {
	case r >= 'a' && r <= 'z':
		return 'a' + (r-'a'+13)%26
	case r >= 'A' && r <= 'Z':
		return 'A' + (r-'A'+13)%26
	default:
		return r
	}
}
