package facet

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

const sampleSchemaYAML = `
facets:
  Color:
    allowed_values:
      - Red
      - Blue
      - Green
    multi_valued: true
    required: false
    default_value: null
  Season:
    allowed_values:
      - Summer
      - Winter
    required: true
    default_value: All-Season
  Fit:
    allowed_values:
      - Slim
`

func TestParseSchema(t *testing.T) {
	schema, err := ParseSchema([]byte(sampleSchemaYAML))
	if err != nil {
		t.Fatalf("ParseSchema() error: %v", err)
	}

	// Порядок фасетов повторяет документ.
	if got := schema.Names(); !reflect.DeepEqual(got, []string{"Color", "Season", "Fit"}) {
		t.Fatalf("Names() = %v, want document order", got)
	}

	color, _ := schema.Get("Color")
	if !reflect.DeepEqual(color.AllowedValues, []string{"Red", "Blue", "Green"}) {
		t.Errorf("Color.AllowedValues = %v", color.AllowedValues)
	}
	if !color.MultiValued || color.Required {
		t.Errorf("Color flags = multi:%v required:%v, want multi:true required:false",
			color.MultiValued, color.Required)
	}
	if color.DefaultValue != nil {
		t.Errorf("Color.DefaultValue = %v, want nil (explicit null)", *color.DefaultValue)
	}

	season, _ := schema.Get("Season")
	if season.DefaultValue == nil || *season.DefaultValue != "All-Season" {
		t.Errorf("Season.DefaultValue = %v, want All-Season", season.DefaultValue)
	}
	if !season.Required {
		t.Error("Season.Required = false, want true")
	}
	// required + default означает что модель может ответить 'None'.
	if season.RequiredResponse() {
		t.Error("Season.RequiredResponse() = true, want false (has default)")
	}

	// Пропущенные флаги дают нули.
	fit, _ := schema.Get("Fit")
	if fit.MultiValued || fit.Required || fit.DefaultValue != nil {
		t.Errorf("Fit defaults wrong: %+v", fit)
	}
}

func TestParseSchema_Errors(t *testing.T) {
	tests := []struct {
		name      string
		yaml      string
		wantFacet string
		wantField string
	}{
		{
			name: "missing allowed_values",
			yaml: `
facets:
  Color:
    required: true
`,
			wantFacet: "Color",
			wantField: "allowed_values",
		},
		{
			name: "empty allowed_values",
			yaml: `
facets:
  Color:
    allowed_values: []
`,
			wantFacet: "Color",
			wantField: "allowed_values",
		},
		{
			name: "allowed_values not a list",
			yaml: `
facets:
  Color:
    allowed_values: Red
`,
			wantFacet: "Color",
			wantField: "allowed_values",
		},
		{
			name: "multi_valued not boolean",
			yaml: `
facets:
  Color:
    allowed_values: [Red]
    multi_valued: "yes please"
`,
			wantFacet: "Color",
			wantField: "multi_valued",
		},
		{
			name: "required not boolean",
			yaml: `
facets:
  Color:
    allowed_values: [Red]
    required: 1
`,
			wantFacet: "Color",
			wantField: "required",
		},
		{
			name: "default_value not a string",
			yaml: `
facets:
  Color:
    allowed_values: [Red]
    default_value: [Red]
`,
			wantFacet: "Color",
			wantField: "default_value",
		},
		{
			name: "no facets section",
			yaml: `
other: thing
`,
		},
		{
			name: "duplicate facet",
			yaml: `
facets:
  Color:
    allowed_values: [Red]
  Color:
    allowed_values: [Blue]
`,
			wantFacet: "Color",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseSchema([]byte(tt.yaml))
			if err == nil {
				t.Fatal("expected error")
			}

			var serr *SchemaError
			if !errors.As(err, &serr) {
				t.Fatalf("error type = %T, want *SchemaError", err)
			}
			if serr.Facet != tt.wantFacet {
				t.Errorf("Facet = %q, want %q", serr.Facet, tt.wantFacet)
			}
			if serr.Field != tt.wantField {
				t.Errorf("Field = %q, want %q", serr.Field, tt.wantField)
			}
		})
	}
}

// TestSchemaRoundTrip проверяет что marshal → parse даёт семантически
// идентичную схему с тем же порядком.
func TestSchemaRoundTrip(t *testing.T) {
	original, err := ParseSchema([]byte(sampleSchemaYAML))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	data, err := MarshalSchema(original)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(data), "facets:") {
		t.Fatalf("output missing facets key:\n%s", data)
	}

	back, err := ParseSchema(data)
	if err != nil {
		t.Fatalf("reparse: %v", err)
	}

	if !reflect.DeepEqual(back.Names(), original.Names()) {
		t.Errorf("order lost: %v != %v", back.Names(), original.Names())
	}
	for _, name := range original.Names() {
		want, _ := original.Get(name)
		got, _ := back.Get(name)
		if !reflect.DeepEqual(got, want) {
			t.Errorf("facet %q: %+v != %+v", name, got, want)
		}
	}
}

func TestSchema_AppendValue(t *testing.T) {
	schema := NewSchema()
	schema.Set("Color", Definition{AllowedValues: []string{"Red"}})

	if err := schema.AppendValue("Color", "Blue"); err != nil {
		t.Fatalf("AppendValue() error: %v", err)
	}
	// Дубликат молча игнорируется.
	if err := schema.AppendValue("Color", "Red"); err != nil {
		t.Fatalf("AppendValue() duplicate error: %v", err)
	}
	if err := schema.AppendValue("Nope", "x"); err == nil {
		t.Error("expected error for unknown facet")
	}

	def, _ := schema.Get("Color")
	if !reflect.DeepEqual(def.AllowedValues, []string{"Red", "Blue"}) {
		t.Errorf("AllowedValues = %v, want [Red Blue]", def.AllowedValues)
	}
}

func TestSchema_CloneIsDeep(t *testing.T) {
	schema := NewSchema()
	schema.Set("Color", Definition{AllowedValues: []string{"Red"}})

	clone := schema.Clone()
	if err := clone.AppendValue("Color", "Blue"); err != nil {
		t.Fatalf("AppendValue() error: %v", err)
	}
	clone.Set("Size", Definition{AllowedValues: []string{"M"}})

	def, _ := schema.Get("Color")
	if len(def.AllowedValues) != 1 {
		t.Errorf("clone leaked into original: %v", def.AllowedValues)
	}
	if schema.Has("Size") {
		t.Error("clone leaked new facet into original")
	}
}
