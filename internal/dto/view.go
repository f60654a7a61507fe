package dto

// SessionView is what the page shell knows about the caller
type SessionView struct {
	Authenticated bool
	Username      string
	DisplayName   string
	Role          string
	DashboardPath string
}

// NavCounts are the aggregate badges shown in the navbar
type NavCounts struct {
	AvailablePets int64
	Shelters      int64
}

// PetView is the read-only pet card rendered on the home page
type PetView struct {
	ID        uint
	Name      string
	Species   string
	Breed     string
	AgeMonths int
	Shelter   string
}

// PageData is the payload every template render receives
type PageData struct {
	Title   string
	Session SessionView
	Counts  NavCounts
	Flash   map[string]string

	// Form state for re-renders
	Errors []string
	Form   map[string]string

	// Page-specific content
	Pets []PetView
}
