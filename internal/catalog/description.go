package catalog

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

const (
	descriptionSuffix = "%s jetzt bei uns bestellen. Wir liefern schnell und zuverlässig, alle Artikel sind originalverpackte Neuware. " +
		"Bei Fragen zu %s hilft Ihnen unser Kundenservice gerne weiter."
	descriptionFiller = "Überzeugen Sie sich von Qualität und Verarbeitung."
)

// ExpandDescription pads a description below MinDescriptionLength visible
// characters with a sales text naming the product. The original text always
// stays at the start. An empty description starts from the product name.
func ExpandDescription(desc, name, brand string) string {
	if desc == "" {
		desc = name
	}
	if TextLength(desc) >= MinDescriptionLength {
		return desc
	}

	subject := name
	if brand != "" && !strings.Contains(strings.ToLower(name), strings.ToLower(brand)) {
		subject = brand + " " + name
	}

	var b strings.Builder
	b.WriteString(desc)
	if desc != "" {
		b.WriteString("\n\n")
	}
	b.WriteString(fmt.Sprintf(descriptionSuffix, subject, subject))
	for TextLength(b.String()) < MinDescriptionLength {
		b.WriteString(" ")
		b.WriteString(descriptionFiller)
	}
	return b.String()
}

// TextLength counts the visible characters of a description. Markup is
// parsed as HTML so tags and entities do not count towards the minimum.
func TextLength(s string) int {
	if !strings.ContainsAny(s, "<&") {
		return utf8.RuneCountInString(strings.TrimSpace(s))
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return utf8.RuneCountInString(strings.TrimSpace(s))
	}
	return utf8.RuneCountInString(strings.TrimSpace(doc.Text()))
}
