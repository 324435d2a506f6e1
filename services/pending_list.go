package services

import (
	"sort"

	"safety-inspection-api/models"
)

// FilterByType keeps only inspections of the given type. An empty or
// invalid filter returns the input unchanged ("all").
func FilterByType(inspections []models.Inspection, filter models.InspectionType) []models.Inspection {
	if !filter.IsValid() {
		return inspections
	}
	out := make([]models.Inspection, 0, len(inspections))
	for _, insp := range inspections {
		if insp.Type == filter {
			out = append(out, insp)
		}
	}
	return out
}

// SortBySubmittedAtDesc orders most recently submitted first. The sort
// is stable so records sharing a timestamp (and records without one,
// which sort last) keep their fetch order.
func SortBySubmittedAtDesc(inspections []models.Inspection) {
	sort.SliceStable(inspections, func(i, j int) bool {
		a, b := inspections[i].SubmittedAt, inspections[j].SubmittedAt
		if a == nil {
			return false
		}
		if b == nil {
			return true
		}
		return a.After(*b)
	})
}

// ToPendingEntries projects full records into the review-queue view.
func ToPendingEntries(inspections []models.Inspection) []models.PendingReviewEntry {
	entries := make([]models.PendingReviewEntry, 0, len(inspections))
	for i := range inspections {
		insp := &inspections[i]
		entries = append(entries, models.PendingReviewEntry{
			ID:             insp.ID,
			Type:           insp.Type,
			TypeLabel:      insp.Type.Label(),
			Title:          insp.DisplayTitle(),
			Inspector:      insp.InspectedBy,
			Location:       insp.Location,
			Company:        insp.Company,
			InspectionDate: insp.InspectionDate,
			SubmittedAt:    insp.SubmittedAt,
			Status:         insp.Status,
		})
	}
	return entries
}
