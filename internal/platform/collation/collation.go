// Package collation ordena listados alfabéticamente con reglas del español
// (acentos y mayúsculas no alteran el orden: "Ávila" va junto a "avena").
package collation

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// SortBy ordena items in-place por la clave devuelta por key.
// Un *collate.Collator no es seguro para uso concurrente: se crea uno por llamada.
func SortBy[T any](items []T, key func(T) string) {
	c := collate.New(language.Spanish, collate.IgnoreCase, collate.IgnoreDiacritics)
	sort.SliceStable(items, func(i, j int) bool {
		return c.CompareString(key(items[i]), key(items[j])) < 0
	})
}
