package models

// PhoneFilter narrows person listings by phone presence. The zero value
// matches everyone.
type PhoneFilter string

const (
	PhoneFilterAny  PhoneFilter = ""
	PhoneFilterHas  PhoneFilter = "HAS"
	PhoneFilterNone PhoneFilter = "NONE"
)

// IsValid reports whether the filter is one of the known values.
func (f PhoneFilter) IsValid() bool {
	switch f {
	case PhoneFilterAny, PhoneFilterHas, PhoneFilterNone:
		return true
	}
	return false
}

// Matches reports whether the person passes the filter.
func (f PhoneFilter) Matches(p *Person) bool {
	switch f {
	case PhoneFilterHas:
		return p.HasPhone()
	case PhoneFilterNone:
		return !p.HasPhone()
	default:
		return true
	}
}
