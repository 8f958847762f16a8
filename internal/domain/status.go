package domain

import "strings"

// Status is the availability of a perfume.
type Status string

const (
	StatusDisponible   Status = "disponible"
	StatusAgotado      Status = "agotado"
	StatusProximamente Status = "proximamente"
)

// Statuses lists every known status in display order for forms.
var Statuses = []Status{StatusDisponible, StatusAgotado, StatusProximamente}

// ParseStatus matches s against the known statuses, ignoring case and
// surrounding spaces.
func ParseStatus(s string) (Status, bool) {
	switch Status(strings.ToLower(strings.TrimSpace(s))) {
	case StatusDisponible:
		return StatusDisponible, true
	case StatusAgotado:
		return StatusAgotado, true
	case StatusProximamente:
		return StatusProximamente, true
	}
	return "", false
}

// Normalize maps anything unknown to StatusDisponible.
func (s Status) Normalize() Status {
	if st, ok := ParseStatus(string(s)); ok {
		return st
	}
	return StatusDisponible
}

// Priority is the listing rank: available first, then coming soon, then sold out.
func (s Status) Priority() int {
	switch s.Normalize() {
	case StatusProximamente:
		return 2
	case StatusAgotado:
		return 3
	default:
		return 1
	}
}

// Classify resolves the availability of a stored row. It never fails:
// a known estado wins, an unknown one means disponible, and rows without
// estado fall back to the legacy stock flag (absent flag means disponible).
func Classify(r ProductRecord) Status {
	if r.Estado.Valid && strings.TrimSpace(r.Estado.String) != "" {
		if st, ok := ParseStatus(r.Estado.String); ok {
			return st
		}
		return StatusDisponible
	}
	if r.Stock.Valid {
		if r.Stock.Bool {
			return StatusDisponible
		}
		return StatusAgotado
	}
	return StatusDisponible
}
