package rank

import (
	"reflect"
	"testing"
)

func TestExtractKeywords_Basic(t *testing.T) {
	got := ExtractKeywords("dark gritty detective novels")
	want := []string{"dark", "gritty", "detective", "novels"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ExtractKeywords() = %v, want %v", got, want)
	}
}

func TestExtractKeywords_DropsStopWordsAndShortTokens(t *testing.T) {
	got := ExtractKeywords("can you recommend me a book about the sea")
	want := []string{"sea"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ExtractKeywords() = %v, want %v", got, want)
	}
}

func TestExtractKeywords_StripsPunctuationAndLowercases(t *testing.T) {
	got := ExtractKeywords("MYSTERY!!! (cozy, British)")
	for _, kw := range got {
		if kw != "mystery" && kw != "cozy" && kw != "british" &&
			kw != "thriller" && kw != "detective" && kw != "crime" {
			t.Errorf("unexpected keyword %q", kw)
		}
	}
	if got[0] != "mystery" {
		t.Errorf("first keyword = %q, want original token order preserved", got[0])
	}
}

func TestExtractKeywords_ExpansionSuperset(t *testing.T) {
	got := ExtractKeywords("mystery")

	want := map[string]bool{"mystery": false, "thriller": false, "detective": false, "crime": false}
	for _, kw := range got {
		if _, ok := want[kw]; ok {
			want[kw] = true
		}
	}
	for term, found := range want {
		if !found {
			t.Errorf("expansion of \"mystery\" missing %q (got %v)", term, got)
		}
	}
}

func TestExtractKeywords_ExpansionOneLevelDeep(t *testing.T) {
	// "scary" expands to "horror", "thriller", ...; "thriller" must not be
	// re-expanded even though "mystery" also maps to it.
	got := ExtractKeywords("scary")
	for _, kw := range got {
		if kw == "detective" || kw == "crime" {
			t.Errorf("expansion was transitive, found %q", kw)
		}
	}
}

func TestExtractKeywords_Deduplicates(t *testing.T) {
	got := ExtractKeywords("funny funny mystery thriller")
	seen := make(map[string]int)
	for _, kw := range got {
		seen[kw]++
	}
	for kw, n := range seen {
		if n > 1 {
			t.Errorf("keyword %q appears %d times", kw, n)
		}
	}
}

func TestExtractKeywords_Empty(t *testing.T) {
	for _, q := range []string{"", "the and of", "?!...", "a an me"} {
		if got := ExtractKeywords(q); len(got) != 0 {
			t.Errorf("ExtractKeywords(%q) = %v, want empty", q, got)
		}
	}
}
