package entity

import (
	"strings"
	"time"

	"golang.org/x/text/cases"
)

// Límites del título de producto (tras recortar espacios).
const (
	TitleMinLen = 1
	TitleMaxLen = 100
)

// Product representa un producto del catálogo del almacén.
// El stock actual NO se persiste: siempre se deriva como
// suma de entradas menos suma de salidas (ver internal/domain/stock).
type Product struct {
	ID        string
	Title     string // único entre todos los productos, sin distinguir mayúsculas ni espacios laterales
	CreatedAt time.Time
}

// NormalizeTitle recorta espacios laterales y aplica case folding Unicode.
// Es la forma canónica usada para el chequeo de unicidad del título.
func NormalizeTitle(title string) string {
	return cases.Fold().String(strings.TrimSpace(title))
}

// ValidTitle indica si el título recortado cumple el largo permitido.
func ValidTitle(title string) bool {
	n := len([]rune(strings.TrimSpace(title)))
	return n >= TitleMinLen && n <= TitleMaxLen
}
