package catalog

import "strings"

// DefaultCategoryCode is Hood's "Sonstiges" category.
const DefaultCategoryCode = "1000"

// CategoryGroup maps a set of keywords to one Hood category.
type CategoryGroup struct {
	Code     string
	Name     string
	Keywords []string
}

// Groups are checked in order; the first keyword hit wins. School bags come
// first since "schulrucksack" also contains "rucksack".
var categoryGroups = []CategoryGroup{
	{Code: "5370", Name: "Schulranzen", Keywords: []string{"schulranzen", "ranzen", "schulrucksack", "school"}},
	{Code: "5345", Name: "Rucksäcke", Keywords: []string{"rucksack", "rucksäcke", "backpack", "daypack"}},
	{Code: "5350", Name: "Sporttaschen", Keywords: []string{"sport", "fitness", "gym"}},
	{Code: "5360", Name: "Reisegepäck", Keywords: []string{"koffer", "trolley", "reise", "travel", "luggage", "weekender"}},
	{Code: "5340", Name: "Laptoptaschen", Keywords: []string{"laptop", "notebook", "aktentasche", "business"}},
	{Code: "5330", Name: "Geldbörsen", Keywords: []string{"geldbörse", "geldboerse", "portemonnaie", "brieftasche", "wallet"}},
	{Code: "5320", Name: "Umhängetaschen", Keywords: []string{"umhänge", "schultertasche", "crossbody", "messenger"}},
	{Code: "5310", Name: "Handtaschen", Keywords: []string{"handtasche", "handbag", "shopper", "clutch"}},
	{Code: "5380", Name: "Kosmetiktaschen", Keywords: []string{"kosmetik", "kulturbeutel", "beauty"}},
}

// MapCategory maps a free text shop category to a Hood category code.
func MapCategory(shopCategory string) string {
	text := strings.ToLower(strings.TrimSpace(shopCategory))
	if text == "" {
		return DefaultCategoryCode
	}
	for _, g := range categoryGroups {
		for _, kw := range g.Keywords {
			if strings.Contains(text, kw) {
				return g.Code
			}
		}
	}
	return DefaultCategoryCode
}
