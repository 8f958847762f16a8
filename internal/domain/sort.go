package domain

import "slices"

// SortCatalog returns a copy of ps ordered by status priority, then price
// ascending. Equal keys keep their input order. A missing or non-numeric
// price ranks after every numeric price of the same priority.
func SortCatalog(ps []Product) []Product {
	out := slices.Clone(ps)
	slices.SortStableFunc(out, compareListing)
	return out
}

func compareListing(a, b Product) int {
	if pa, pb := a.Estado.Priority(), b.Estado.Priority(); pa != pb {
		return pa - pb
	}
	switch {
	case a.Precio.Valid && b.Precio.Valid:
		return a.Precio.Decimal.Cmp(b.Precio.Decimal)
	case a.Precio.Valid:
		return -1
	case b.Precio.Valid:
		return 1
	}
	return 0
}
