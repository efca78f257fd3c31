package query

import "estate_browser/models"

// Project joins saved references against the listing store in saved order.
// References whose property is missing are dropped.
func Project(saved []models.SavedProperty, all []models.Property) []models.SavedListing {
	byID := make(map[string]*models.Property, len(all))
	for i := range all {
		byID[all[i].ID] = &all[i]
	}

	out := make([]models.SavedListing, 0, len(saved))
	for _, sp := range saved {
		p, ok := byID[sp.PropertyID]
		if !ok {
			continue
		}
		out = append(out, models.SavedListing{
			Property:  *p,
			SavedID:   sp.ID,
			SavedDate: sp.SavedDate,
			Notes:     sp.Notes,
		})
	}
	return out
}
