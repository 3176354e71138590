package room

import (
	"fmt"
	"math/rand/v2"
	"strings"

	rerrors "github.com/zhubert/rooms/internal/errors"
)

const (
	// MaxNameLength is the longest accepted room name.
	MaxNameLength = 40
	// MaxNameAttempts bounds the collision retries of GenerateUnique.
	MaxNameAttempts = 100
)

// Adjectives and Nouns are the word lists for generated room names.
var (
	Adjectives = []string{
		"quick", "lazy", "happy", "calm", "bold", "bright", "cool", "warm", "swift", "keen", "fresh",
		"crisp", "gentle", "vivid", "steady", "clever", "witty", "merry", "lively", "peaceful",
		"cosmic", "lunar", "solar", "stellar", "amber", "azure", "coral", "golden", "silver",
		"emerald", "rustic", "modern", "classic", "noble", "humble",
	}
	Nouns = []string{
		"fox", "owl", "bear", "wolf", "hawk", "deer", "hare", "seal", "crow", "swan", "oak", "pine",
		"elm", "maple", "cedar", "river", "stream", "lake", "pond", "brook", "peak", "ridge", "vale",
		"grove", "meadow", "stone", "crystal", "ember", "frost", "breeze", "dawn", "dusk", "noon",
		"tide", "wave",
	}
)

// Rand is the random source used for name generation.
type Rand interface {
	IntN(n int) int
}

type globalRand struct{}

func (globalRand) IntN(n int) int { return rand.IntN(n) }

// GenerateName returns a name of the form adjective-noun-xxxx, where xxxx is
// four lowercase hex digits. A nil r uses the global source.
func GenerateName(r Rand) string {
	if r == nil {
		r = globalRand{}
	}
	adj := Adjectives[r.IntN(len(Adjectives))]
	noun := Nouns[r.IntN(len(Nouns))]
	return fmt.Sprintf("%s-%s-%04x", adj, noun, r.IntN(0x10000))
}

// GenerateUnique generates names until exists reports one as free, giving up
// after MaxNameAttempts with a KindExhausted error.
func GenerateUnique(exists func(name string) bool, r Rand) (string, error) {
	for i := 0; i < MaxNameAttempts; i++ {
		name := GenerateName(r)
		if !exists(name) {
			return name, nil
		}
	}
	return "", rerrors.NameExhausted(MaxNameAttempts)
}

// Validate checks that name is 1-40 characters of [a-z0-9-] and neither
// starts nor ends with a hyphen.
func Validate(name string) error {
	const op = rerrors.Op("room.Validate")
	switch {
	case name == "":
		return rerrors.Validation(op, "name cannot be empty")
	case len(name) > MaxNameLength:
		return rerrors.Validation(op, fmt.Sprintf("name cannot exceed %d characters", MaxNameLength))
	case strings.HasPrefix(name, "-") || strings.HasSuffix(name, "-"):
		return rerrors.Validation(op, "name cannot start or end with a hyphen")
	}
	for _, c := range name {
		if !isNameChar(c) && c != '-' {
			return rerrors.Validation(op, "name can only contain lowercase letters, digits, and hyphens")
		}
	}
	return nil
}

// Sanitize turns arbitrary input into a name that passes Validate, or ""
// when nothing usable remains.
func Sanitize(name string) string {
	var b strings.Builder
	lastHyphen := true // drops leading hyphens
	for _, c := range strings.ToLower(name) {
		if isNameChar(c) {
			b.WriteRune(c)
			lastHyphen = false
			continue
		}
		if !lastHyphen {
			b.WriteByte('-')
			lastHyphen = true
		}
	}

	out := strings.TrimSuffix(b.String(), "-")
	if len(out) > MaxNameLength {
		out = strings.TrimRight(out[:MaxNameLength], "-")
	}
	return out
}

func isNameChar(c rune) bool {
	return (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9')
}
