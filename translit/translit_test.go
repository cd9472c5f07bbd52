package translit

import "testing"

func testMapper() *Mapper {
	return NewMapper(map[string]string{
		"mohamed bin rashed": "محمد بن راشد",
		"bin rashed":         "بن راشد",
		"mohamed":            "محمد",
		"rashed":             "راشد",
		"layl":               "ليل",
		"watan":              "وطن",
	})
}

func TestMapper_ExactPhrasePrecedence(t *testing.T) {
	m := testMapper()

	// The exact phrase entry wins over any token-by-token concatenation.
	if got := m.Map("mohamed bin rashed"); got != "محمد بن راشد" {
		t.Errorf("Map() = %q, want exact phrase mapping", got)
	}

	// Case and surrounding whitespace do not matter.
	if got := m.Map("  Mohamed BIN Rashed "); got != "محمد بن راشد" {
		t.Errorf("Map() = %q, want exact phrase mapping", got)
	}
}

func TestMapper_PhraseSubstring(t *testing.T) {
	m := testMapper()

	// The longest contained phrase is replaced, then remaining fragments
	// convert token by token.
	if got := m.Map("layl mohamed bin rashed"); got != "ليل محمد بن راشد" {
		t.Errorf("Map() = %q", got)
	}

	if got := m.Map("qasidat bin rashed"); got != "qasidat بن راشد" {
		t.Errorf("Map() = %q", got)
	}
}

func TestMapper_TokenFallback(t *testing.T) {
	m := testMapper()

	tests := []struct {
		in   string
		want string
	}{
		{"layl watan", "ليل وطن"},
		{"layl unknown watan", "ليل unknown وطن"},
		{"unknown tokens only", "unknown tokens only"},
	}

	for _, tt := range tests {
		if got := m.Map(tt.in); got != tt.want {
			t.Errorf("Map(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestMapper_ArabicPassthrough(t *testing.T) {
	m := testMapper()

	if got := m.Map("ليل وحنين"); got != "ليل وحنين" {
		t.Errorf("Map() = %q, want Arabic input unchanged", got)
	}
}

func TestMapper_EmptyQuery(t *testing.T) {
	m := testMapper()

	if got := m.Map("   "); got != "" {
		t.Errorf("Map() = %q, want empty", got)
	}
}

func TestMapper_Terminates(t *testing.T) {
	// A mapping whose value still contains a Latin phrase key must not
	// recurse forever; depth is bounded by the phrase-table size.
	m := NewMapper(map[string]string{
		"a b": "a b c",
	})
	if got := m.Map("a b"); got != "a b c" {
		t.Errorf("Map() = %q", got)
	}
	if got := m.Map("x a b"); got == "" {
		t.Error("Map() returned empty for self-referential phrase table")
	}
}

func TestDefaultMapper(t *testing.T) {
	m := DefaultMapper()
	if m.Len() == 0 {
		t.Fatal("embedded table is empty")
	}
	if DefaultMapper() != m {
		t.Error("DefaultMapper() returned a different instance")
	}
	if got := m.Map("mohamed bin rashed"); got != "محمد بن راشد" {
		t.Errorf("Map() = %q", got)
	}
}
