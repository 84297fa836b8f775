package textutil

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var upper = cases.Upper(language.Und)

// Upper returns value upper-cased.
func Upper(value string) string {
	return upper.String(value)
}

// EDIText upper-cases value, replaces "/" with a space, and replaces each
// double space with a single one in one pass.
//
//	EDIText("Henry Schein//Grapevine,TX") == "HENRY SCHEIN GRAPEVINE,TX"
func EDIText(value string) string {
	value = strings.ReplaceAll(Upper(value), "/", " ")
	return strings.ReplaceAll(value, "  ", " ")
}

// Ternary picks a when cond holds and b otherwise. The encoder uses it to
// choose between paired qualifiers.
func Ternary[T any](cond bool, a, b T) T {
	if cond {
		return a
	}
	return b
}
