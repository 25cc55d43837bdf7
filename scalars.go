package rdf2cypher

import "strconv"

// Lexical-form conversions for the XSD datatypes stored as native scalars
// (§3.3). strconv is the standard library's own lexical <-> numeric bridge;
// none of the corpus's third-party dependencies offer a narrower-scoped
// replacement for this, so it is used directly.

func parseBool(s string) (bool, error) {
	return strconv.ParseBool(s)
}

func formatBool(b bool) string {
	return strconv.FormatBool(b)
}

func parseInt64(s string) (int64, error) {
	return strconv.ParseInt(s, 10, 64)
}

func formatInt64(v int64) string {
	return strconv.FormatInt(v, 10)
}

func parseFloat64(s string) (float64, error) {
	return strconv.ParseFloat(s, 64)
}

func formatFloat64(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
