package query

import (
	"reflect"
	"sort"
	"testing"

	"github.com/ramonehamilton/RideCore-Companion/internal/cards"
)

func testCatalog() *cards.Catalog {
	return cards.NewCatalog([]*cards.Card{
		{Number: 1, Name: "Blaster Blade", Grade: 2, Type: "Unit", Clan: "Royal Paladin", Set: "BS1"},
		{Number: 2, Name: "Blaster Dark", Grade: 2, Type: "Unit", Clan: "Shadow Paladin", Set: "BS4"},
		{Number: 3, Name: "Little Sage, Marron", Grade: 1, Type: "Draw", Clan: "Royal Paladin", Set: "BS1"},
		{Number: 4, Name: "Dragonic Overlord", Grade: 3, Type: "Unit", Clan: "Kagero", Set: "BS2"},
		{Number: 5, Name: "Elixir Sommelier", Grade: 0, Type: "Heal", Clan: "Kagero", Set: "BS10"},
	})
}

func names(results []*cards.Card) []string {
	out := make([]string, len(results))
	for i, c := range results {
		out[i] = c.Name
	}
	return out
}

func TestRun(t *testing.T) {
	catalog := testCatalog()

	tests := []struct {
		name     string
		criteria Criteria
		want     []string
	}{
		{
			name:     "unset criteria match everything",
			criteria: NewCriteria(),
			want:     []string{"Blaster Blade", "Blaster Dark", "Little Sage, Marron", "Dragonic Overlord", "Elixir Sommelier"},
		},
		{
			name:     "substring is case-insensitive",
			criteria: Criteria{SearchTerm: "blaster", Grade: AnyGrade},
			want:     []string{"Blaster Blade", "Blaster Dark"},
		},
		{
			name:     "exact grade",
			criteria: Criteria{Grade: 3},
			want:     []string{"Dragonic Overlord"},
		},
		{
			name:     "trigger type",
			criteria: Criteria{Grade: AnyGrade, Trigger: TriggerDraw},
			want:     []string{"Little Sage, Marron"},
		},
		{
			name:     "non-trigger selector",
			criteria: Criteria{Grade: AnyGrade, Trigger: TriggerNonTrigger},
			want:     []string{"Blaster Blade", "Blaster Dark", "Dragonic Overlord"},
		},
		{
			name:     "clan",
			criteria: Criteria{Grade: AnyGrade, Clan: "Kagero"},
			want:     []string{"Dragonic Overlord", "Elixir Sommelier"},
		},
		{
			name:     "set",
			criteria: Criteria{Grade: AnyGrade, Set: "BS1"},
			want:     []string{"Blaster Blade", "Little Sage, Marron"},
		},
		{
			name:     "criteria AND together",
			criteria: Criteria{SearchTerm: "blaster", Grade: 2, Clan: "Royal Paladin"},
			want:     []string{"Blaster Blade"},
		},
		{
			name:     "no matches",
			criteria: Criteria{SearchTerm: "nonexistent", Grade: AnyGrade},
			want:     []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := names(Run(catalog, tt.criteria))
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Run() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRun_Idempotent(t *testing.T) {
	catalog := testCatalog()
	criteria := Criteria{SearchTerm: "a", Grade: AnyGrade}

	first := names(Run(catalog, criteria))
	second := names(Run(catalog, criteria))
	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeated query differs: %v vs %v", first, second)
	}
}

func TestNaturalCompare(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"BS1", "BS2", -1},
		{"BS2", "BS10", -1},
		{"BS10", "BS2", 1},
		{"BS2", "BS2", 0},
		{"BS007", "BS7", -1}, // same value, more leading zeros sorts first
		{"BS7", "BS007", 1},
		{"BS007", "BS007", 0},
		{"BS", "BS1", -1},
		{"", "BS1", -1},
		{"EB1", "BS9", 1},
	}

	for _, tt := range tests {
		t.Run(tt.a+"_"+tt.b, func(t *testing.T) {
			if got := NaturalCompare(tt.a, tt.b); got != tt.want {
				t.Errorf("NaturalCompare(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestNaturalSortOrder(t *testing.T) {
	sets := []string{"BS10", "BS1", "BS2"}
	sort.Slice(sets, func(i, j int) bool {
		return NaturalCompare(sets[i], sets[j]) < 0
	})

	want := []string{"BS1", "BS2", "BS10"}
	if !reflect.DeepEqual(sets, want) {
		t.Errorf("natural sort = %v, want %v", sets, want)
	}
}

func TestSortBySet(t *testing.T) {
	results := Run(testCatalog(), NewCriteria())
	SortBySet(results)

	wantSets := []string{"BS1", "BS1", "BS2", "BS4", "BS10"}
	for i, card := range results {
		if card.Set != wantSets[i] {
			t.Errorf("results[%d].Set = %q, want %q", i, card.Set, wantSets[i])
		}
	}

	// Within BS1, card number breaks the tie.
	if results[0].Number != 1 || results[1].Number != 3 {
		t.Errorf("tie-break by number failed: got #%d, #%d", results[0].Number, results[1].Number)
	}
}
