package room

import (
	"math/rand/v2"
	"regexp"
	"strings"
	"testing"

	rerrors "github.com/zhubert/rooms/internal/errors"
)

var generatedName = regexp.MustCompile(`^[a-z]+-[a-z]+-[0-9a-f]{4}$`)

func TestWordLists(t *testing.T) {
	if len(Adjectives) != 35 {
		t.Errorf("expected 35 adjectives, got %d", len(Adjectives))
	}
	if len(Nouns) != 35 {
		t.Errorf("expected 35 nouns, got %d", len(Nouns))
	}
}

func TestGenerateName_Format(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	for i := 0; i < 500; i++ {
		name := GenerateName(r)
		if !generatedName.MatchString(name) {
			t.Fatalf("generated name %q does not match format", name)
		}
		if err := Validate(name); err != nil {
			t.Fatalf("generated name %q fails validation: %v", name, err)
		}
	}
}

func TestGenerateName_NilUsesGlobalSource(t *testing.T) {
	if name := GenerateName(nil); !generatedName.MatchString(name) {
		t.Errorf("unexpected name %q", name)
	}
}

// Quick-creating many rooms never yields a duplicate name: every accepted
// name is checked against the names taken so far.
func TestGenerateUnique_NoDuplicates(t *testing.T) {
	r := rand.New(rand.NewPCG(42, 42))
	taken := map[string]bool{}
	for i := 0; i < 2000; i++ {
		name, err := GenerateUnique(func(n string) bool { return taken[n] }, r)
		if err != nil {
			t.Fatalf("GenerateUnique() error after %d names: %v", i, err)
		}
		if taken[name] {
			t.Fatalf("duplicate name %q", name)
		}
		taken[name] = true
	}
}

// fixedRand replays a fixed sequence of values.
type fixedRand struct {
	values []int
	i      int
}

func (f *fixedRand) IntN(n int) int {
	v := f.values[f.i%len(f.values)] % n
	f.i++
	return v
}

func TestGenerateUnique_RetriesPastCollisions(t *testing.T) {
	// Three draws per name: adjective, noun, suffix.
	r := &fixedRand{values: []int{0, 0, 1, 0, 0, 1, 0, 0, 2}}
	existing := map[string]bool{"quick-fox-0001": true}

	name, err := GenerateUnique(func(n string) bool { return existing[n] }, r)
	if err != nil {
		t.Fatalf("GenerateUnique() error = %v", err)
	}
	if name != "quick-fox-0002" {
		t.Errorf("GenerateUnique() = %q, want quick-fox-0002", name)
	}
}

func TestGenerateUnique_Exhausted(t *testing.T) {
	calls := 0
	_, err := GenerateUnique(func(string) bool { calls++; return true }, nil)
	if err == nil {
		t.Fatal("expected error when every name collides")
	}
	if !rerrors.Is(err, rerrors.KindExhausted) {
		t.Errorf("expected KindExhausted, got %v", err)
	}
	if calls != MaxNameAttempts {
		t.Errorf("expected %d attempts, got %d", MaxNameAttempts, calls)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		valid bool
	}{
		{"simple", "feature", true},
		{"generated", "calm-bear-1f2c", true},
		{"digits", "123", true},
		{"max length", strings.Repeat("a", 40), true},
		{"empty", "", false},
		{"too long", strings.Repeat("a", 41), false},
		{"leading hyphen", "-abc", false},
		{"trailing hyphen", "abc-", false},
		{"uppercase", "Feature", false},
		{"underscore", "my_room", false},
		{"space", "my room", false},
		{"slash", "feat/x", false},
		{"unicode", "café", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.input)
			if tt.valid && err != nil {
				t.Errorf("Validate(%q) = %v, want nil", tt.input, err)
			}
			if !tt.valid {
				if err == nil {
					t.Errorf("Validate(%q) = nil, want error", tt.input)
				} else if !rerrors.Is(err, rerrors.KindInvalid) {
					t.Errorf("expected KindInvalid, got %v", err)
				}
			}
		})
	}
}

func TestSanitize(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"My Feature", "my-feature"},
		{"feat/login_page", "feat-login-page"},
		{"--weird--name--", "weird-name"},
		{"a   b", "a-b"},
		{"Café Menu", "caf-menu"},
		{"!!!", ""},
		{"", ""},
		{strings.Repeat("ab-", 20), "ab-ab-ab-ab-ab-ab-ab-ab-ab-ab-ab-ab-ab-a"},
		{strings.Repeat("a", 39) + "-b", strings.Repeat("a", 39)},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := Sanitize(tt.input)
			if got != tt.want {
				t.Errorf("Sanitize(%q) = %q, want %q", tt.input, got, tt.want)
			}
			if got != "" {
				if err := Validate(got); err != nil {
					t.Errorf("Sanitize(%q) = %q does not validate: %v", tt.input, got, err)
				}
			}
		})
	}
}
