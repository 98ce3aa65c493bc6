package classify

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestSuggestValues(t *testing.T) {
	provider := &fakeProvider{resp: "Linen, Hemp"}
	c := New(provider, testModel())

	got, err := c.SuggestValues(context.Background(),
		[]string{"linen", "summer"}, "Material", []string{"Cotton", "Wool"}, "Acme")
	if err != nil {
		t.Fatalf("SuggestValues() error: %v", err)
	}
	if !reflect.DeepEqual(got, []string{"Linen", "Hemp"}) {
		t.Errorf("values = %v, want [Linen Hemp]", got)
	}

	// Discovery идёт с повышенной температурой, в отличие от классификации.
	if provider.lastReq.Temperature != 0.2 {
		t.Errorf("Temperature = %v, want 0.2", provider.lastReq.Temperature)
	}

	prompt := provider.lastReq.Messages[0].Content
	if !strings.Contains(prompt, "catalog of Acme") {
		t.Errorf("prompt missing company:\n%s", prompt)
	}
	if !strings.Contains(prompt, "Existing values for facet 'Material': Cotton, Wool.") {
		t.Errorf("prompt missing existing values:\n%s", prompt)
	}
	if !strings.Contains(prompt, "Keywords: linen summer") {
		t.Errorf("prompt missing keywords:\n%s", prompt)
	}
}

func TestSuggestValues_CapAndFence(t *testing.T) {
	provider := &fakeProvider{resp: "```\nA, B, C, D, E, F, G\n```"}
	c := New(provider, testModel())

	got, err := c.SuggestValues(context.Background(), nil, "Material", nil, "")
	if err != nil {
		t.Fatalf("SuggestValues() error: %v", err)
	}
	if !reflect.DeepEqual(got, []string{"A", "B", "C", "D", "E"}) {
		t.Errorf("values = %v, want first 5", got)
	}
}

func TestSuggestValues_None(t *testing.T) {
	provider := &fakeProvider{resp: "None"}
	c := New(provider, testModel())

	got, err := c.SuggestValues(context.Background(), nil, "Material", nil, "")
	if err != nil {
		t.Fatalf("SuggestValues() error: %v", err)
	}
	if got != nil {
		t.Errorf("values = %v, want nil", got)
	}
}

func TestSuggestValues_ProviderError(t *testing.T) {
	provider := &fakeProvider{err: errors.New("timeout")}
	c := New(provider, testModel())

	// У discovery нет тихого восстановления: сбой возвращается вызывающему.
	if _, err := c.SuggestValues(context.Background(), nil, "Material", nil, ""); err == nil {
		t.Fatal("expected error from provider failure")
	}
}

func TestSuggestFacets(t *testing.T) {
	provider := &fakeProvider{resp: "Material: Cotton, Wool\nFit: Slim, Regular"}
	c := New(provider, testModel())

	existing := []ExistingFacet{{Name: "Color", Values: []string{"Red", "Blue"}}}
	got, err := c.SuggestFacets(context.Background(), []string{"cotton"}, existing, "Acme")
	if err != nil {
		t.Fatalf("SuggestFacets() error: %v", err)
	}

	expected := []FacetProposal{
		{Name: "Material", Values: []string{"Cotton", "Wool"}},
		{Name: "Fit", Values: []string{"Slim", "Regular"}},
	}
	if !reflect.DeepEqual(got, expected) {
		t.Errorf("proposals = %v, want %v", got, expected)
	}

	prompt := provider.lastReq.Messages[0].Content
	if !strings.Contains(prompt, "Color: Red, Blue\n") {
		t.Errorf("prompt missing existing facets:\n%s", prompt)
	}
	if provider.lastReq.Temperature != 0.2 {
		t.Errorf("Temperature = %v, want 0.2", provider.lastReq.Temperature)
	}
}

func TestParseFacetProposals(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []FacetProposal
	}{
		{
			name:  "basic lines",
			input: "Material: Cotton, Wool\nFit: Slim",
			expected: []FacetProposal{
				{Name: "Material", Values: []string{"Cotton", "Wool"}},
				{Name: "Fit", Values: []string{"Slim"}},
			},
		},
		{
			name:     "none response",
			input:    "  None  ",
			expected: nil,
		},
		{
			name:  "lines without colon skipped",
			input: "Here are my suggestions\nMaterial: Cotton",
			expected: []FacetProposal{
				{Name: "Material", Values: []string{"Cotton"}},
			},
		},
		{
			name:  "duplicate names kept once",
			input: "Material: Cotton\nMaterial: Wool",
			expected: []FacetProposal{
				{Name: "Material", Values: []string{"Cotton"}},
			},
		},
		{
			name:  "facet with no values",
			input: "Material:",
			expected: []FacetProposal{
				{Name: "Material", Values: nil},
			},
		},
		{
			name:  "values capped at five",
			input: "Material: A, B, C, D, E, F",
			expected: []FacetProposal{
				{Name: "Material", Values: []string{"A", "B", "C", "D", "E"}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseFacetProposals(tt.input); !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("ParseFacetProposals() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestParseFacetProposals_FacetCap(t *testing.T) {
	var lines []string
	for _, r := range "ABCDEFGHIJKL" {
		lines = append(lines, string(r)+": v")
	}
	got := ParseFacetProposals(strings.Join(lines, "\n"))
	if len(got) != 10 {
		t.Errorf("got %d proposals, want cap of 10", len(got))
	}
}
