// Package extract derives a catalog search term from a free-form Spanish
// question. The heuristic keeps the last content-bearing word because the
// salient noun tends to close the sentence ("¿Tienes monitores de 27
// pulgadas?"), after verbs and fillers front-load it.
package extract

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

const tokenPunct = ".,;:¡!¿?"

// stopwords are the verb forms, connectors, and filler words that carry no
// search intent in the questions this assistant receives.
var stopwords = map[string]struct{}{
	// verbs and auxiliaries
	"tengo": {}, "tienes": {}, "tienen": {}, "tenemos": {},
	"quiero": {}, "quisiera": {}, "busco": {}, "buscando": {},
	"estoy": {}, "estamos": {}, "necesito": {}, "necesitamos": {},
	"compara": {}, "comparar": {}, "comparacion": {}, "comparación": {},
	"tiene": {},
	// connectors, articles, pronouns
	"en": {}, "la": {}, "el": {}, "los": {}, "las": {},
	"un": {}, "una": {}, "unos": {}, "unas": {},
	"de": {}, "del": {}, "al": {}, "para": {}, "por": {}, "con": {}, "sobre": {},
	"que": {}, "su": {}, "sus": {}, "o": {}, "y": {},
	// domain-generic fillers
	"galeria": {}, "galería": {}, "busquedad": {}, "busqueda": {},
}

// unitSuffixes are measurement tokens that whitespace splits away from their
// number; they must be glued back on ("128 gb" -> "128gb") to match catalog
// text.
var unitSuffixes = map[string]struct{}{
	"gb": {}, "tb": {}, "mb": {}, "hz": {}, "mhz": {}, "ghz": {},
}

// Keyword reduces a raw question to a single search term. It returns the
// empty string when the question talks about products generically (meaning
// no filter), and the whole normalized question when stopword removal leaves
// nothing salvageable. Pure and deterministic: any input, including the
// empty string, maps to exactly one output.
func Keyword(question string) string {
	q := strings.ToLower(strings.TrimSpace(question))

	// Generic product questions get no filter at all.
	if strings.Contains(q, "producto") {
		return ""
	}

	var kept []string
	for _, tok := range strings.Fields(q) {
		tok = strings.Trim(tok, tokenPunct)
		if tok == "" {
			continue
		}
		if _, stop := stopwords[tok]; stop {
			continue
		}
		kept = append(kept, tok)
	}

	// Nothing salvageable: fall back to the full normalized question so the
	// catalog still has something to match against.
	if len(kept) == 0 {
		return q
	}

	if len(kept) >= 2 {
		num, unit := kept[len(kept)-2], kept[len(kept)-1]
		if _, ok := unitSuffixes[unit]; ok && allDigits(num) {
			return num + unit
		}
	}

	return singularize(kept[len(kept)-1])
}

// singularize strips a naive Spanish plural suffix from the candidate
// keyword so "laptops" matches a catalog row named "Laptop".
func singularize(word string) string {
	n := utf8.RuneCountInString(word)
	switch {
	case n > 4 && strings.HasSuffix(word, "es"):
		return strings.TrimSuffix(word, "es")
	case n > 3 && strings.HasSuffix(word, "s"):
		return strings.TrimSuffix(word, "s")
	}
	return word
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
