package rank

import (
	"reflect"
	"testing"

	"github.com/calliope-systems/shelfrank/internal/domain/catalog"
	"github.com/calliope-systems/shelfrank/internal/domain/search/field"
	"github.com/calliope-systems/shelfrank/internal/domain/search/params"
	"github.com/calliope-systems/shelfrank/internal/usecase/compact"
)

func rating(v float64) *float64 { return &v }

func available() []catalog.Format {
	return []catalog.Format{{Type: "physical", Status: catalog.StatusAvailable}}
}

func checkedOut() []catalog.Format {
	return []catalog.Format{{Type: "physical", Status: catalog.StatusCheckedOut}}
}

func newService(items []catalog.Item) *Service {
	return New(items, compact.New(items))
}

func TestSearch_ScenarioTitleMatch(t *testing.T) {
	items := []catalog.Item{
		&catalog.BookItem{
			Core: catalog.Core{
				ID: "b1", Title: "Mystery at Midnight",
				Formats: available(), Popular: true,
			},
			Author:   "Vera Holt",
			Subjects: []string{"mystery"},
		},
		&catalog.BookItem{
			Core:     catalog.Core{ID: "b2", Title: "Garden Recipes"},
			Author:   "Pat Greene",
			Subjects: []string{"cooking"},
		},
	}
	svc := newService(items)

	results, _ := svc.Search("funny mystery books", params.Defaults())

	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}
	if got := results[0].Item().Common().ID; got != "b1" {
		t.Errorf("top result = %q, want b1", got)
	}

	foundTitle := false
	for _, f := range results[0].Matched() {
		if f == field.Title {
			foundTitle = true
		}
	}
	if !foundTitle {
		t.Errorf("matchedFields = %v, want to include title", results[0].Matched())
	}
}

func TestSearch_EmptyQueryFallback(t *testing.T) {
	items := []catalog.Item{
		&catalog.BookItem{Core: catalog.Core{ID: "b1", Title: "Quiet", Formats: checkedOut()}},
		&catalog.BookItem{Core: catalog.Core{ID: "b2", Title: "Loud", Formats: checkedOut(), Popular: true}},
		&catalog.BookItem{Core: catalog.Core{ID: "b3", Title: "Mid", Formats: checkedOut()}},
	}
	svc := newService(items)

	results, sum := svc.Search("", params.Defaults())

	if len(results) != 1 {
		t.Fatalf("got %d results, want exactly the one popular item", len(results))
	}
	if results[0].Item().Common().ID != "b2" {
		t.Errorf("fallback picked %q, want b2", results[0].Item().Common().ID)
	}
	if results[0].Score() != fallbackScore {
		t.Errorf("fallback score = %f, want %f", results[0].Score(), fallbackScore)
	}
	if !reflect.DeepEqual(results[0].Matched(), []field.Field{field.Popular}) {
		t.Errorf("matchedFields = %v, want [popular]", results[0].Matched())
	}
	if len(sum.Keywords) != 0 {
		t.Errorf("summary keywords = %v, want empty", sum.Keywords)
	}
}

func TestSearch_StopWordQueryEqualsEmptyQuery(t *testing.T) {
	items := []catalog.Item{
		&catalog.BookItem{Core: catalog.Core{ID: "b1", Title: "One", Formats: available()}},
		&catalog.BookItem{Core: catalog.Core{ID: "b2", Title: "Two", Formats: checkedOut(), Popular: true}},
	}
	svc := newService(items)

	fromStop, _ := svc.Search("the and of", params.Defaults())
	fromEmpty, _ := svc.Search("", params.Defaults())

	if len(fromStop) != len(fromEmpty) {
		t.Fatalf("stop-word query gave %d results, empty gave %d", len(fromStop), len(fromEmpty))
	}
	for i := range fromStop {
		if fromStop[i].Item().Common().ID != fromEmpty[i].Item().Common().ID {
			t.Errorf("result %d differs: %q vs %q", i,
				fromStop[i].Item().Common().ID, fromEmpty[i].Item().Common().ID)
		}
		if fromStop[i].Score() != fromEmpty[i].Score() {
			t.Errorf("result %d score differs", i)
		}
	}
}

func TestSearch_Determinism(t *testing.T) {
	items := []catalog.Item{
		&catalog.BookItem{Core: catalog.Core{ID: "b1", Title: "Mystery Manor", Formats: available()}, Subjects: []string{"mystery"}},
		&catalog.BookItem{Core: catalog.Core{ID: "b2", Title: "Crime and Craft", Formats: available()}, Subjects: []string{"crime"}},
		&catalog.BookItem{Core: catalog.Core{ID: "b3", Title: "Thriller Nights"}, Subjects: []string{"thriller"}},
	}
	svc := newService(items)
	p := params.Defaults()

	first, _ := svc.Search("mystery", p)
	for run := 0; run < 5; run++ {
		again, _ := svc.Search("mystery", p)
		if len(again) != len(first) {
			t.Fatalf("run %d: %d results, want %d", run, len(again), len(first))
		}
		for i := range again {
			if again[i].Item().Common().ID != first[i].Item().Common().ID ||
				again[i].Score() != first[i].Score() {
				t.Errorf("run %d: result %d differs", run, i)
			}
		}
	}
}

func TestSearch_BoundedOutput(t *testing.T) {
	var items []catalog.Item
	for _, title := range []string{"Mystery One", "Mystery Two", "Mystery Three", "Mystery Four"} {
		items = append(items, &catalog.BookItem{
			Core:     catalog.Core{ID: title, Title: title, Formats: available()},
			Subjects: []string{"mystery"},
		})
	}
	svc := newService(items)

	two := 2
	results, _ := svc.Search("mystery", params.Config{MaxResults: &two}.Params())
	if len(results) > 2 {
		t.Errorf("got %d results, want <= 2", len(results))
	}

	empty := newService(nil)
	results, _ = empty.Search("mystery", params.Defaults())
	if len(results) != 0 {
		t.Errorf("empty catalog gave %d results", len(results))
	}
}

func TestSearch_MaxResultsOne_StableChoice(t *testing.T) {
	// Two items matching identically: the first in catalog order wins.
	items := []catalog.Item{
		&catalog.BookItem{Core: catalog.Core{ID: "first", Title: "Mystery"}, Subjects: nil},
		&catalog.BookItem{Core: catalog.Core{ID: "second", Title: "Mystery"}, Subjects: nil},
	}
	svc := newService(items)

	one := 1
	results, _ := svc.Search("mystery", params.Config{MaxResults: &one}.Params())
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}
	if results[0].Item().Common().ID != "first" {
		t.Errorf("tie broke to %q, want first in catalog order", results[0].Item().Common().ID)
	}
}

func TestSearch_ThresholdEnforced(t *testing.T) {
	items := []catalog.Item{
		&catalog.BookItem{Core: catalog.Core{ID: "hit", Title: "Mystery"}},
		&catalog.BookItem{Core: catalog.Core{ID: "miss", Title: "Woodworking"}},
	}
	svc := newService(items)
	p := params.Defaults()

	results, _ := svc.Search("mystery", p)
	for _, r := range results {
		if r.Score() < p.MinScore() {
			t.Errorf("result %q has score %f below floor %f",
				r.Item().Common().ID, r.Score(), p.MinScore())
		}
		if r.Item().Common().ID == "miss" {
			t.Error("non-matching item returned")
		}
	}
}

func TestSearch_ExactBeatsFuzzy(t *testing.T) {
	items := []catalog.Item{
		&catalog.BookItem{Core: catalog.Core{ID: "exact", Title: "mystery"}},
		&catalog.BookItem{Core: catalog.Core{ID: "fuzzy", Title: "mastery"}},
	}
	svc := newService(items)

	// Single keyword so normalization divides both by the same count.
	zero := 0.0
	results, _ := svc.Search("mystery", params.Config{MinScore: &zero}.Params())
	if len(results) < 2 {
		t.Fatalf("got %d results, want both items scored", len(results))
	}
	if results[0].Item().Common().ID != "exact" {
		t.Fatalf("top result = %q, want exact title match", results[0].Item().Common().ID)
	}
	if results[0].Score() <= results[1].Score() {
		t.Errorf("exact score %f not strictly above fuzzy score %f",
			results[0].Score(), results[1].Score())
	}
}

func TestSearch_BoostsApplied(t *testing.T) {
	plain := &catalog.BookItem{Core: catalog.Core{ID: "plain", Title: "mystery"}}
	boosted := &catalog.BookItem{
		Core: catalog.Core{
			ID: "boosted", Title: "mystery",
			Formats: available(), Popular: true, Rating: rating(4.8),
		},
		Year: 2023,
	}
	// Plain item first so a tie would keep it on top: boosts must reorder.
	svc := newService([]catalog.Item{plain, boosted})

	results, _ := svc.Search("mystery", params.Defaults())
	if len(results) != 2 {
		t.Fatalf("got %d results", len(results))
	}
	if results[0].Item().Common().ID != "boosted" {
		t.Errorf("top result = %q, want boosted item", results[0].Item().Common().ID)
	}

	wantRatio := popularBoost * availableBoost * ratingBoost * recencyBoost
	gotRatio := results[0].Score() / results[1].Score()
	if diff := gotRatio - wantRatio; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("boost ratio = %f, want %f", gotRatio, wantRatio)
	}
}

func TestSearch_BoostsDisabled(t *testing.T) {
	items := []catalog.Item{
		&catalog.BookItem{Core: catalog.Core{ID: "plain", Title: "mystery"}},
		&catalog.BookItem{
			Core: catalog.Core{ID: "pop", Title: "mystery", Formats: available(), Popular: true},
		},
	}
	svc := newService(items)

	off := false
	p := params.Config{BoostPopular: &off, BoostAvailable: &off}.Params()
	results, _ := svc.Search("mystery", p)
	if len(results) != 2 {
		t.Fatalf("got %d results", len(results))
	}
	if results[0].Score() != results[1].Score() {
		t.Errorf("with boosts off, scores differ: %f vs %f",
			results[0].Score(), results[1].Score())
	}
	// Tie keeps catalog order.
	if results[0].Item().Common().ID != "plain" {
		t.Errorf("tie order broken, top = %q", results[0].Item().Common().ID)
	}
}

func TestSearch_NormalizationByKeywordCount(t *testing.T) {
	items := []catalog.Item{
		&catalog.BookItem{Core: catalog.Core{ID: "b1", Title: "dragon"}},
	}
	svc := newService(items)
	zero := 0.0
	p := params.Config{MinScore: &zero}.Params()

	one, _ := svc.Search("dragon", p)
	// "dragon zzzqx" has two keywords but only one matches: the per-item
	// sum is the same, so the normalized score halves.
	two, _ := svc.Search("dragon zzzqx", p)

	if len(one) != 1 || len(two) != 1 {
		t.Fatalf("expected single results, got %d and %d", len(one), len(two))
	}
	ratio := one[0].Score() / two[0].Score()
	if diff := ratio - 2.0; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("score ratio = %f, want 2.0", ratio)
	}
}

func TestSearch_SubjectsListedOncePerItem(t *testing.T) {
	items := []catalog.Item{
		&catalog.BookItem{
			Core:     catalog.Core{ID: "b1", Title: "Casebook"},
			Subjects: []string{"mystery", "mystery classics", "cozy mystery"},
		},
	}
	svc := newService(items)

	results, _ := svc.Search("mystery", params.Defaults())
	if len(results) != 1 {
		t.Fatalf("got %d results", len(results))
	}
	count := 0
	for _, f := range results[0].Matched() {
		if f == field.Subjects {
			count++
		}
	}
	if count != 1 {
		t.Errorf("subjects listed %d times in matchedFields, want 1", count)
	}
}

func TestSearch_DescriptionOnlyWhenPresent(t *testing.T) {
	items := []catalog.Item{
		&catalog.BookItem{
			Core: catalog.Core{ID: "with", Title: "Alpha", Description: "a tale of dragons"},
		},
		&catalog.BookItem{
			Core: catalog.Core{ID: "without", Title: "Beta"},
		},
	}
	svc := newService(items)

	zero := 0.0
	results, _ := svc.Search("dragons", params.Config{MinScore: &zero}.Params())
	for _, r := range results {
		if r.Item().Common().ID == "without" && r.Score() > 0 {
			t.Errorf("item without description scored %f from nothing", r.Score())
		}
	}
}

func TestSearch_NegativeMaxResults(t *testing.T) {
	items := []catalog.Item{
		&catalog.BookItem{Core: catalog.Core{ID: "b1", Title: "mystery", Formats: available()}},
	}
	svc := newService(items)

	neg := -3
	results, _ := svc.Search("mystery", params.Config{MaxResults: &neg}.Params())
	if len(results) != 0 {
		t.Errorf("negative maxResults gave %d results, want 0", len(results))
	}
	results, _ = svc.Search("", params.Config{MaxResults: &neg}.Params())
	if len(results) != 0 {
		t.Errorf("negative maxResults on fallback gave %d results, want 0", len(results))
	}
}

func TestSearchForPrompt(t *testing.T) {
	items := []catalog.Item{
		&catalog.BookItem{
			Core: catalog.Core{
				ID: "b1", Title: "Mystery at Midnight", Formats: available(),
				Description: "A locked-room puzzle in a snowed-in manor.",
			},
			Author:   "Vera Holt",
			Subjects: []string{"mystery"},
			Year:     2021,
		},
		&catalog.BookItem{
			Core:   catalog.Core{ID: "b2", Title: "Bread Science"},
			Author: "Jo Marsh",
		},
	}
	svc := newService(items)

	payload, sum := svc.SearchForPrompt("mystery", params.Defaults())

	if payload.TotalResults != 1 {
		t.Fatalf("TotalResults = %d, want 1", payload.TotalResults)
	}
	if len(payload.Items) != 1 || payload.Items[0].Title != "Mystery at Midnight" {
		t.Errorf("Items = %+v", payload.Items)
	}
	if payload.TokenSavings.Percentage <= 0 {
		t.Errorf("TokenSavings.Percentage = %f, want > 0", payload.TokenSavings.Percentage)
	}
	if sum.CatalogSize != 2 {
		t.Errorf("summary catalog size = %d", sum.CatalogSize)
	}
}
