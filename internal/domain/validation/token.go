package validation

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"regexp"
	"strings"
)

// tokenWords is the fixed vocabulary used in human-readable record numbers
// (CC-MAPLE-042, J-MAPLE-042, INV-MAPLE-042). Words are 3 to 6 letters so the
// full token stays short enough to read over the phone.
var tokenWords = []string{
	"ACORN", "AMBER", "ASPEN", "BADGE", "BANJO", "BASIL", "BEACH", "BIRCH",
	"BLOOM", "BREEZE", "BROOK", "CEDAR", "CHALK", "CHARM", "CIDER", "CLIFF",
	"CLOUD", "CLOVER", "COAST", "COPPER", "CORAL", "CREEK", "CRISP", "DAISY",
	"DELTA", "DRIFT", "DUSK", "EMBER", "FABLE", "FERN", "FIELD", "FJORD",
	"FLARE", "FLINT", "FOREST", "FROST", "GLADE", "GLOW", "GRAIN", "GROVE",
	"HARBOR", "HAZEL", "HEATH", "HOLLY", "IVORY", "IVY", "JASPER", "JUNCO",
	"KELP", "LAGOON", "LARCH", "LILAC", "LINEN", "LOTUS", "LUMEN", "MAPLE",
	"MARSH", "MEADOW", "MINT", "MOSS", "NECTAR", "NORTH", "OAK", "OASIS",
	"OCHRE", "OLIVE", "ONYX", "OPAL", "ORCHID", "OTTER", "PEBBLE", "PINE",
	"PLUM", "POND", "POPPY", "PRISM", "QUARTZ", "QUILL", "RAVEN", "REED",
	"RIDGE", "RIVER", "ROWAN", "SAGE", "SHELL", "SLATE", "SORREL", "SPRUCE",
	"STONE", "STORM", "SWIFT", "THYME", "TIDE", "TRAIL", "TULIP", "VALE",
	"WILLOW", "WREN", "YARROW", "ZEPHYR",
}

var tokenWordSet = func() map[string]struct{} {
	set := make(map[string]struct{}, len(tokenWords))
	for _, w := range tokenWords {
		set[w] = struct{}{}
	}
	return set
}()

var (
	tokenPattern       = regexp.MustCompile(`^([A-Z]+)-([A-Z]{3,6})-(\d{3})$`)
	legacyTokenPattern = regexp.MustCompile(`^([A-Z]+)-(\d{8})-(\d{5})$`)
)

// SubmissionNumber validates a record number against the expected prefix.
// It accepts the word form (PREFIX-WORD-NNN, word drawn from the fixed
// vocabulary) and the legacy timestamp form (PREFIX-DDDDDDDD-DDDDD) still
// present on old records. The returned value is trimmed and upper-cased.
func SubmissionNumber(token, prefix string) (string, error) {
	token = strings.ToUpper(strings.TrimSpace(token))
	if token == "" {
		return "", newFieldError(ErrRequiredField, "submission_number", "submission number is required")
	}

	if m := tokenPattern.FindStringSubmatch(token); m != nil {
		if m[1] != prefix {
			return "", newFieldError(ErrFormat, "submission_number", "submission number must start with %s-", prefix)
		}
		if _, ok := tokenWordSet[m[2]]; !ok {
			return "", newFieldError(ErrFormat, "submission_number", "submission number word is not recognized")
		}
		return token, nil
	}

	if m := legacyTokenPattern.FindStringSubmatch(token); m != nil {
		if m[1] != prefix {
			return "", newFieldError(ErrFormat, "submission_number", "submission number must start with %s-", prefix)
		}
		return token, nil
	}

	return "", newFieldError(ErrFormat, "submission_number", "submission number %q is not a valid record number", token)
}

// NewSubmissionNumber generates a fresh PREFIX-WORD-NNN token with a
// uniform-random word and 3-digit number.
func NewSubmissionNumber(prefix string) string {
	word := tokenWords[randomInt(len(tokenWords))]
	return fmt.Sprintf("%s-%s-%03d", prefix, word, randomInt(1000))
}

// DerivedNumber rebases a validated record number onto another prefix, e.g.
// CC-MAPLE-042 -> J-MAPLE-042 -> INV-MAPLE-042. seq > 1 appends a numeric
// suffix for repeat records (J-MAPLE-042-2).
func DerivedNumber(token, prefix string, seq int) string {
	parts := strings.SplitN(token, "-", 2)
	base := token
	if len(parts) == 2 {
		base = parts[1]
	}
	if seq > 1 {
		return fmt.Sprintf("%s-%s-%d", prefix, base, seq)
	}
	return fmt.Sprintf("%s-%s", prefix, base)
}

func randomInt(n int) int {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		// crypto/rand only fails when the platform entropy source is broken.
		panic(err)
	}
	return int(v.Int64())
}
