package classify

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/ilkoid/facet-ai/pkg/config"
	"github.com/ilkoid/facet-ai/pkg/llm"
)

// fakeProvider отдаёт канонический ответ и запоминает последний запрос.
type fakeProvider struct {
	resp    string
	err     error
	lastReq llm.ChatRequest
	calls   int
}

func (f *fakeProvider) Chat(_ context.Context, req llm.ChatRequest) (string, error) {
	f.lastReq = req
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.resp, nil
}

func testModel() config.ModelDef {
	return config.ModelDef{
		Provider:  "openai",
		ModelName: "gpt-4o-mini",
		MaxTokens: 256,
	}
}

func TestParseValueList(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{"single value", "Red", []string{"Red"}},
		{"comma list", "Red, Blue, Green", []string{"Red", "Blue", "Green"}},
		{"none is empty", "None", nil},
		{"none any case", "nOnE", nil},
		{"surrounding whitespace", "  Red  ", []string{"Red"}},
		{"empty string", "", nil},
		{"whitespace only", "   \n  ", nil},
		{"empty tokens dropped", "Red,,Blue,", []string{"Red", "Blue"}},
		{"none token dropped", "Red, None, Blue", []string{"Red", "Blue"}},
		{"value with internal spaces", "Crew Neck, V-Neck", []string{"Crew Neck", "V-Neck"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseValueList(tt.input); !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("ParseValueList(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestClassifyFacetValue_ZeroTemperature(t *testing.T) {
	provider := &fakeProvider{resp: "Red"}
	c := New(provider, testModel())

	got := c.ClassifyFacetValue(context.Background(), ClassifyInput{
		ProductText:     "Title: Shirt",
		FacetName:       "Color",
		CandidateValues: []string{"Red", "Blue"},
	})

	if !reflect.DeepEqual(got, []string{"Red"}) {
		t.Errorf("result = %v, want [Red]", got)
	}
	// Классификация всегда детерминированная.
	if provider.lastReq.Temperature != 0 {
		t.Errorf("Temperature = %v, want 0", provider.lastReq.Temperature)
	}
	if provider.lastReq.Model != "gpt-4o-mini" {
		t.Errorf("Model = %q, want gpt-4o-mini", provider.lastReq.Model)
	}
	if provider.calls != 1 {
		t.Errorf("provider called %d times, want exactly 1", provider.calls)
	}
}

func TestClassifyFacetValue_ProviderErrorIsNotFatal(t *testing.T) {
	provider := &fakeProvider{err: errors.New("connection refused")}
	c := New(provider, testModel())

	got := c.ClassifyFacetValue(context.Background(), ClassifyInput{
		ProductText:     "Title: Shirt",
		FacetName:       "Color",
		CandidateValues: []string{"Red"},
	})

	// Сбой провайдера трактуется как "совпадений нет", без ретраев.
	if got != nil {
		t.Errorf("result = %v, want nil", got)
	}
	if provider.calls != 1 {
		t.Errorf("provider called %d times, want exactly 1", provider.calls)
	}
}

func TestBuildAssignmentPrompt_Templates(t *testing.T) {
	base := ClassifyInput{
		ProductText:     "Title: Shirt",
		FacetName:       "Color",
		CandidateValues: []string{"Red", "Blue"},
		Vendor:          "Acme",
	}

	tests := []struct {
		name          string
		multi         bool
		required      bool
		wantFragments []string
		noneAllowed   bool
	}{
		{
			name:          "single optional",
			wantFragments: []string{"Choose the single best Color value", "Respond only with ONE value or 'None'."},
			noneAllowed:   true,
		},
		{
			name:          "multi optional",
			multi:         true,
			wantFragments: []string{"Choose all Color values", "comma-separated list of the matching values or 'None'."},
			noneAllowed:   true,
		},
		{
			name:          "single required",
			required:      true,
			wantFragments: []string{"Choose the single best Color value", "Respond only with ONE value."},
		},
		{
			name:          "multi required",
			multi:         true,
			required:      true,
			wantFragments: []string{"Choose all Color values", "comma-separated list of the matching values."},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := base
			in.MultiValued = tt.multi
			in.RequiredResponse = tt.required

			prompt := buildAssignmentPrompt(in)

			for _, frag := range tt.wantFragments {
				if !strings.Contains(prompt, frag) {
					t.Errorf("prompt missing %q:\n%s", frag, prompt)
				}
			}
			// 'None' предлагается только когда пустой ответ допустим.
			if got := strings.Contains(prompt, "'None'"); got != tt.noneAllowed {
				t.Errorf("'None' present = %v, want %v", got, tt.noneAllowed)
			}
			if !strings.Contains(prompt, "product from Acme") {
				t.Errorf("prompt missing vendor:\n%s", prompt)
			}
			if !strings.Contains(prompt, "Candidate Color values:\n- Red\n- Blue\n") {
				t.Errorf("prompt missing candidate list:\n%s", prompt)
			}
		})
	}
}

func TestBuildAssignmentPrompt_UnknownVendor(t *testing.T) {
	prompt := buildAssignmentPrompt(ClassifyInput{
		ProductText:     "Title: Shirt",
		FacetName:       "Color",
		CandidateValues: []string{"Red"},
	})
	if !strings.Contains(prompt, "product from Unknown Vendor") {
		t.Errorf("prompt missing vendor placeholder:\n%s", prompt)
	}
}
