package models

// Vaccine is an immunization calendar catalog entry. The catalog is static
// reference data loaded at startup, never written at runtime.
type Vaccine struct {
	ID                    string `json:"id"`
	Name                  string `json:"name"`
	ShortName             string `json:"shortName"`
	Description           string `json:"description"`
	VaccineType           string `json:"vaccineType"` // live, inactivated
	RouteOfAdministration string `json:"routeOfAdministration"`
	ImportanceInfo        string `json:"importanceInfo"`
	IsMandatory           bool   `json:"isMandatory"`
	IsActive              bool   `json:"isActive"`
}

// VaccineScheduleEntry is one required dose of one vaccine in the calendar.
// Dose numbers are 1-based and contiguous per vaccine; the recommended age
// always lies inside [AgeRangeStartDays, AgeRangeEndDays].
type VaccineScheduleEntry struct {
	ID                 string `json:"id"`
	VaccineID          string `json:"vaccineId"`
	DoseNumber         int    `json:"doseNumber"`
	RecommendedAgeDays int    `json:"recommendedAgeDays"`
	AgeRangeStartDays  int    `json:"ageRangeStartDays"`
	AgeRangeEndDays    int    `json:"ageRangeEndDays"`
	DoseDescription    string `json:"doseDescription"`
	IsBooster          bool   `json:"isBooster"`
}
