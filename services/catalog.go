// services/catalog.go
package services

import (
	"errors"
	"fmt"
	"sort"
	"vaxtracker-backend/models"
)

// ErrInvalidCatalogEntry marks a broken immunization calendar. The catalog is
// reference data shipped with the application, so this is a fatal
// configuration error, checked once at startup rather than per request.
var ErrInvalidCatalogEntry = errors.New("invalid catalog entry")

// Catalog is the static immunization calendar: the vaccines and the dose
// schedule entries that make up the national recommended timeline.
type Catalog struct {
	Vaccines []models.Vaccine
	Entries  []models.VaccineScheduleEntry
}

// VaccineByID returns the catalog vaccine with the given id, or nil.
func (c *Catalog) VaccineByID(id string) *models.Vaccine {
	for i := range c.Vaccines {
		if c.Vaccines[i].ID == id {
			return &c.Vaccines[i]
		}
	}
	return nil
}

// Validate enforces the catalog invariants: every entry references a known
// vaccine, dose numbers per vaccine are contiguous starting at 1, the age
// window is well-formed, and the recommended age lies inside it.
func (c *Catalog) Validate() error {
	dosesByVaccine := make(map[string][]int)

	for _, entry := range c.Entries {
		if c.VaccineByID(entry.VaccineID) == nil {
			return fmt.Errorf("%w: entry %s references unknown vaccine %q", ErrInvalidCatalogEntry, entry.ID, entry.VaccineID)
		}
		if entry.AgeRangeStartDays > entry.AgeRangeEndDays {
			return fmt.Errorf("%w: entry %s has age window [%d,%d]", ErrInvalidCatalogEntry, entry.ID, entry.AgeRangeStartDays, entry.AgeRangeEndDays)
		}
		if entry.RecommendedAgeDays < entry.AgeRangeStartDays || entry.RecommendedAgeDays > entry.AgeRangeEndDays {
			return fmt.Errorf("%w: entry %s recommended age %d outside window [%d,%d]",
				ErrInvalidCatalogEntry, entry.ID, entry.RecommendedAgeDays, entry.AgeRangeStartDays, entry.AgeRangeEndDays)
		}
		dosesByVaccine[entry.VaccineID] = append(dosesByVaccine[entry.VaccineID], entry.DoseNumber)
	}

	for vaccineID, doses := range dosesByVaccine {
		sort.Ints(doses)
		for i, dose := range doses {
			if dose != i+1 {
				return fmt.Errorf("%w: vaccine %s has non-contiguous dose numbers %v", ErrInvalidCatalogEntry, vaccineID, doses)
			}
		}
	}

	return nil
}

// DefaultCatalog returns the built-in immunization calendar (Indian UIP
// timeline: BCG, Hepatitis B, OPV, DPT, MMR).
func DefaultCatalog() *Catalog {
	return &Catalog{
		Vaccines: []models.Vaccine{
			{
				ID:                    "bcg",
				Name:                  "Bacillus Calmette-Guérin",
				ShortName:             "BCG",
				Description:           "Protects against tuberculosis",
				VaccineType:           "live",
				RouteOfAdministration: "intradermal",
				ImportanceInfo:        "Essential for protection against TB, especially important in high TB burden countries like India",
				IsMandatory:           true,
				IsActive:              true,
			},
			{
				ID:                    "hepb",
				Name:                  "Hepatitis B",
				ShortName:             "Hep B",
				Description:           "Protects against Hepatitis B virus infection",
				VaccineType:           "inactivated",
				RouteOfAdministration: "intramuscular",
				ImportanceInfo:        "Prevents chronic liver disease and liver cancer caused by Hepatitis B virus",
				IsMandatory:           true,
				IsActive:              true,
			},
			{
				ID:                    "opv",
				Name:                  "Oral Polio Vaccine",
				ShortName:             "OPV",
				Description:           "Protects against poliomyelitis",
				VaccineType:           "live",
				RouteOfAdministration: "oral",
				ImportanceInfo:        "Critical for polio eradication. India has been polio-free since 2014",
				IsMandatory:           true,
				IsActive:              true,
			},
			{
				ID:                    "dpt",
				Name:                  "Diphtheria, Pertussis, Tetanus",
				ShortName:             "DPT",
				Description:           "Protects against diphtheria, whooping cough, and tetanus",
				VaccineType:           "inactivated",
				RouteOfAdministration: "intramuscular",
				ImportanceInfo:        "Prevents three serious bacterial infections that can be life-threatening in children",
				IsMandatory:           true,
				IsActive:              true,
			},
			{
				ID:                    "mmr",
				Name:                  "Measles, Mumps, Rubella",
				ShortName:             "MMR",
				Description:           "Protects against measles, mumps, and rubella",
				VaccineType:           "live",
				RouteOfAdministration: "intramuscular",
				ImportanceInfo:        "Prevents three viral infections that can cause serious complications including brain damage",
				IsMandatory:           true,
				IsActive:              true,
			},
		},
		Entries: []models.VaccineScheduleEntry{
			// BCG (at birth)
			{ID: "bcg-1", VaccineID: "bcg", DoseNumber: 1, RecommendedAgeDays: 0, AgeRangeStartDays: 0, AgeRangeEndDays: 365, DoseDescription: "Birth dose"},

			// Hepatitis B (birth, 6 weeks, 14 weeks)
			{ID: "hepb-1", VaccineID: "hepb", DoseNumber: 1, RecommendedAgeDays: 0, AgeRangeStartDays: 0, AgeRangeEndDays: 7, DoseDescription: "Birth dose"},
			{ID: "hepb-2", VaccineID: "hepb", DoseNumber: 2, RecommendedAgeDays: 42, AgeRangeStartDays: 35, AgeRangeEndDays: 70, DoseDescription: "Second dose"},
			{ID: "hepb-3", VaccineID: "hepb", DoseNumber: 3, RecommendedAgeDays: 98, AgeRangeStartDays: 91, AgeRangeEndDays: 126, DoseDescription: "Third dose"},

			// OPV (birth, 6 weeks, 10 weeks, 14 weeks, 16-24 months)
			{ID: "opv-1", VaccineID: "opv", DoseNumber: 1, RecommendedAgeDays: 0, AgeRangeStartDays: 0, AgeRangeEndDays: 14, DoseDescription: "Birth dose"},
			{ID: "opv-2", VaccineID: "opv", DoseNumber: 2, RecommendedAgeDays: 42, AgeRangeStartDays: 35, AgeRangeEndDays: 56, DoseDescription: "First dose"},
			{ID: "opv-3", VaccineID: "opv", DoseNumber: 3, RecommendedAgeDays: 70, AgeRangeStartDays: 63, AgeRangeEndDays: 84, DoseDescription: "Second dose"},
			{ID: "opv-4", VaccineID: "opv", DoseNumber: 4, RecommendedAgeDays: 98, AgeRangeStartDays: 91, AgeRangeEndDays: 112, DoseDescription: "Third dose"},
			{ID: "opv-5", VaccineID: "opv", DoseNumber: 5, RecommendedAgeDays: 547, AgeRangeStartDays: 487, AgeRangeEndDays: 730, DoseDescription: "Booster", IsBooster: true},

			// DPT (6 weeks, 10 weeks, 14 weeks, 16-24 months, 5-6 years)
			{ID: "dpt-1", VaccineID: "dpt", DoseNumber: 1, RecommendedAgeDays: 42, AgeRangeStartDays: 35, AgeRangeEndDays: 56, DoseDescription: "First dose"},
			{ID: "dpt-2", VaccineID: "dpt", DoseNumber: 2, RecommendedAgeDays: 70, AgeRangeStartDays: 63, AgeRangeEndDays: 84, DoseDescription: "Second dose"},
			{ID: "dpt-3", VaccineID: "dpt", DoseNumber: 3, RecommendedAgeDays: 98, AgeRangeStartDays: 91, AgeRangeEndDays: 112, DoseDescription: "Third dose"},
			{ID: "dpt-4", VaccineID: "dpt", DoseNumber: 4, RecommendedAgeDays: 547, AgeRangeStartDays: 487, AgeRangeEndDays: 730, DoseDescription: "First booster", IsBooster: true},
			{ID: "dpt-5", VaccineID: "dpt", DoseNumber: 5, RecommendedAgeDays: 1825, AgeRangeStartDays: 1642, AgeRangeEndDays: 2190, DoseDescription: "Second booster", IsBooster: true},

			// MMR (9-12 months, 16-24 months)
			{ID: "mmr-1", VaccineID: "mmr", DoseNumber: 1, RecommendedAgeDays: 274, AgeRangeStartDays: 243, AgeRangeEndDays: 365, DoseDescription: "First dose"},
			{ID: "mmr-2", VaccineID: "mmr", DoseNumber: 2, RecommendedAgeDays: 547, AgeRangeStartDays: 487, AgeRangeEndDays: 730, DoseDescription: "Second dose"},
		},
	}
}
