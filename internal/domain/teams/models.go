package teams

// NotAvailable fills team fields the upstream scoreboard omitted.
const NotAvailable = "N/A"

// Team is the normalized team shape embedded in games.
// Logo holds an opaque image reference (usually a data URI) and may be empty.
type Team struct {
	ID           string `json:"id"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	FullName     string `json:"fullName"`
	Abbreviation string `json:"abbreviation"`
	Conference   string `json:"conference"`
	Division     string `json:"division"`
	Record       string `json:"record"`
	Logo         string `json:"logo"`
}

// Placeholder returns a team for an ID the payload referenced but never described.
func Placeholder(id string) Team {
	return Team{
		ID:           id,
		FirstName:    NotAvailable,
		LastName:     NotAvailable,
		FullName:     NotAvailable,
		Abbreviation: NotAvailable,
		Conference:   NotAvailable,
		Division:     NotAvailable,
		Record:       NotAvailable,
	}
}

// OrNotAvailable returns v, or NotAvailable when v is blank.
func OrNotAvailable(v string) string {
	if v == "" {
		return NotAvailable
	}
	return v
}
