package classify

import (
	"fmt"
	"strings"
)

// buildAssignmentPrompt строит текст запроса классификации.
//
// Четыре фиксированных шаблона инструкции, выбор по (multiValued,
// requiredResponse). В required режиме вариант "None" не предлагается.
func buildAssignmentPrompt(in ClassifyInput) string {
	var candidateList strings.Builder
	for _, value := range in.CandidateValues {
		fmt.Fprintf(&candidateList, "- %s\n", value)
	}

	vendor := vendorOrUnknown(in.Vendor)

	var instruction string
	switch {
	case in.MultiValued && !in.RequiredResponse:
		instruction = fmt.Sprintf(
			"The goal is to classify the above product from %s."+
				" Choose all %s values from the list below that apply to the product."+
				" If none apply, respond with 'None'. Respond only with a comma-separated list of the matching values or 'None'.",
			vendor, in.FacetName)
	case !in.MultiValued && !in.RequiredResponse:
		instruction = fmt.Sprintf(
			"The goal is to classify the above product from %s."+
				" Choose the single best %s value from the list below for the product."+
				" If none apply, respond with 'None'. Respond only with ONE value or 'None'.",
			vendor, in.FacetName)
	case in.MultiValued && in.RequiredResponse:
		instruction = fmt.Sprintf(
			"The goal is to classify the above product from %s."+
				" Choose all %s values from the list below that apply to the product."+
				" Respond only with a comma-separated list of the matching values.",
			vendor, in.FacetName)
	default:
		instruction = fmt.Sprintf(
			"The goal is to classify the above product from %s."+
				" Choose the single best %s value from the list below for the product."+
				" Respond only with ONE value.",
			vendor, in.FacetName)
	}

	return fmt.Sprintf(
		"Product Information:\n%s\n\n%s\nCandidate %s values:\n%s",
		in.ProductText, instruction, in.FacetName, candidateList.String())
}

// buildValueSuggestionPrompt строит запрос новых значений для одного фасета.
func buildValueSuggestionPrompt(keywords string, facetName string, existingValues []string, company string) string {
	existingList := strings.Join(existingValues, ", ")

	return fmt.Sprintf(
		"The goal is to suggest new facet values to categorize the product catalog of %s. "+
			"Based on the following keywords that appear in product descriptions most often, "+
			"suggest up to %d new category values under the facet '%s' that are clearly applicable "+
			"and distinct from the existing allowed values. "+
			"If less than %d new values make sense, respond with only those that do. "+
			"Respond with a comma-separated list. If no new values make sense, respond with 'None'.\n"+
			"Existing values for facet '%s': %s.\n"+
			"Keywords: %s",
		companyOrUnknown(company), maxSuggestedValues, facetName,
		maxSuggestedValues, facetName, existingList, keywords)
}

// buildNewFacetsPrompt строит запрос целиком новых фасетов со значениями.
//
// existing передаётся срезом, а не map: порядок фасетов в промпте
// повторяет порядок итерации схемы.
func buildNewFacetsPrompt(keywords string, existing []ExistingFacet, company string) string {
	var existingList strings.Builder
	for _, f := range existing {
		fmt.Fprintf(&existingList, "%s: %s\n", f.Name, strings.Join(f.Values, ", "))
	}

	return fmt.Sprintf(
		"The goal is to suggest entirely new facets to categorize the product catalog of %s. "+
			"For each new facet you recommend, provide a name and a list of allowed values. "+
			"Here is an example of an existing facet and its allowed values:\n"+
			"Color: Red, Blue, Green\n\n"+
			"Here are the existing facets and their allowed values:\n%s\n"+
			"Based on the following keywords that appear in product descriptions most often, "+
			"suggest up to %d new facets, with up to %d allowed values each, "+
			"that are clearly applicable and distinct from the existing facets. "+
			"For each facet, provide a name and a list of allowed values. "+
			"Only suggest new facets that are clearly applicable and distinct from the existing facets. "+
			"Respond in the format 'Facet Name: Value1, Value2, etc' on separate lines without numbering. "+
			"If no new facets make sense, respond with 'None'.\n\n"+
			"If less than %d new facets or less than %d values per facet make sense, respond with only those that do. "+
			"Keywords: %s",
		companyOrUnknown(company), existingList.String(),
		maxSuggestedFacets, maxSuggestedValues,
		maxSuggestedFacets, maxSuggestedValues, keywords)
}
