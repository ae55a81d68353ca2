// Package textutil normalización de texto para búsquedas.
package textutil

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var foldTransformer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Fold pasa a minúsculas y elimina marcas diacríticas, para que la
// búsqueda de "Almacén" encuentre "almacen" y viceversa. Equivale al
// unaccent + ILIKE que aplica la capa PostgreSQL.
func Fold(s string) string {
	out, _, err := transform.String(foldTransformer, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(out)
}
