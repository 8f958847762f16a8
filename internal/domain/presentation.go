package domain

// Presentation is how a status is shown on every page that lists perfumes.
type Presentation struct {
	Emoji        string `json:"emoji"`
	Label        string `json:"label"`
	StyleClass   string `json:"style_class"`
	IsAvailable  bool   `json:"is_available"`
	Description  string `json:"description"`
	CallToAction string `json:"call_to_action"`
}

var presentations = map[Status]Presentation{
	StatusDisponible: {
		Emoji:        "✅",
		Label:        "Disponible",
		StyleClass:   "badge badge-disponible",
		IsAvailable:  true,
		Description:  "Los clientes pueden comprar este perfume inmediatamente",
		CallToAction: "Pedir por WhatsApp ✨",
	},
	StatusAgotado: {
		Emoji:        "❌",
		Label:        "Agotado",
		StyleClass:   "badge badge-agotado",
		IsAvailable:  false,
		Description:  "El perfume no está disponible para compra",
		CallToAction: "Temporalmente agotado",
	},
	StatusProximamente: {
		Emoji:        "⏳",
		Label:        "Próximamente",
		StyleClass:   "badge badge-proximamente",
		IsAvailable:  false,
		Description:  "El perfume se mostrará con un mensaje especial de próximo lanzamiento",
		CallToAction: "Llegará pronto",
	},
}

// PresentationFor returns the display metadata for s. Unknown values get the
// disponible row.
func PresentationFor(s Status) Presentation {
	return presentations[s.Normalize()]
}
