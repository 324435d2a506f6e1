package utils

import (
	"strings"

	"safety-inspection-api/models"
)

// Legacy client cache keys, one per inspection type. Offline-era clients
// keyed their local snapshots with these and some still request them, so
// the mapping is frozen.
const (
	StorageKeyInspections       = "inspections"
	StorageKeyFireExtinguishers = "fire_extinguisher_inspections"
	StorageKeyFirstAid          = "first_aid_inspections"
	StorageKeyObservations      = "hse_observations"
	StorageKeyManhours          = "manhours_reports"
)

var (
	typeSynonyms = map[models.InspectionType][]string{
		models.TypeHSE: {
			"hse",
			"hse_inspection",
			"hse-inspection",
			"general",
		},
		models.TypeFireExtinguisher: {
			"fire_extinguisher",
			"fire-extinguisher",
			"fireextinguisher",
			"extinguisher",
			"fire_ext",
		},
		models.TypeFirstAid: {
			"first_aid",
			"first-aid",
			"firstaid",
			"first_aid_kit",
		},
		models.TypeHSEObservation: {
			"hse_observation",
			"hse-observation",
			"observation",
			"observations",
		},
		models.TypeManhours: {
			"manhours",
			"man_hours",
			"man-hours",
			"manhours_report",
		},
	}

	statusSynonyms = map[models.InspectionStatus][]string{
		models.StatusDraft: {
			"draft",
		},
		models.StatusPendingReview: {
			"pending_review",
			"pending-review",
			"pending",
			"submitted",
		},
		models.StatusApproved: {
			"approved",
			"approve",
		},
		models.StatusRejected: {
			"rejected",
			"reject",
		},
		models.StatusCompleted: {
			"completed",
			"complete",
			"closed",
		},
	}

	storageKeys = map[models.InspectionType]string{
		models.TypeHSE:              StorageKeyInspections,
		models.TypeFireExtinguisher: StorageKeyFireExtinguishers,
		models.TypeFirstAid:         StorageKeyFirstAid,
		models.TypeHSEObservation:   StorageKeyObservations,
		models.TypeManhours:         StorageKeyManhours,
	}

	typeAliasToCanonical   = buildTypeAliasMap()
	statusAliasToCanonical = buildStatusAliasMap()
)

func buildTypeAliasMap() map[string]models.InspectionType {
	aliasMap := make(map[string]models.InspectionType)
	for canonical, synonyms := range typeSynonyms {
		if key := normalizeToken(string(canonical)); key != "" {
			aliasMap[key] = canonical
		}
		for _, alias := range synonyms {
			if key := normalizeToken(alias); key != "" {
				aliasMap[key] = canonical
			}
		}
	}
	return aliasMap
}

func buildStatusAliasMap() map[string]models.InspectionStatus {
	aliasMap := make(map[string]models.InspectionStatus)
	for canonical, synonyms := range statusSynonyms {
		if key := normalizeToken(string(canonical)); key != "" {
			aliasMap[key] = canonical
		}
		for _, alias := range synonyms {
			if key := normalizeToken(alias); key != "" {
				aliasMap[key] = canonical
			}
		}
	}
	return aliasMap
}

func normalizeToken(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

// ParseInspectionType resolves a client-provided type spelling to the
// canonical enumeration value.
func ParseInspectionType(value string) (models.InspectionType, bool) {
	t, ok := typeAliasToCanonical[normalizeToken(value)]
	return t, ok
}

// ParseInspectionStatus resolves a client-provided status spelling.
func ParseInspectionStatus(value string) (models.InspectionStatus, bool) {
	s, ok := statusAliasToCanonical[normalizeToken(value)]
	return s, ok
}

// ParseTemplateSlug resolves an export endpoint segment such as
// "fire-extinguisher-template" to its inspection type.
func ParseTemplateSlug(slug string) (models.InspectionType, bool) {
	trimmed := normalizeToken(slug)
	trimmed = strings.TrimSuffix(trimmed, "-template")
	trimmed = strings.TrimSuffix(trimmed, "_template")
	return ParseInspectionType(trimmed)
}

// StorageKeyFor maps an inspection type to its legacy client cache key.
// Total over the enumeration; unknown types fall back to the general key.
func StorageKeyFor(t models.InspectionType) string {
	if key, ok := storageKeys[t]; ok {
		return key
	}
	return StorageKeyInspections
}

// AllInspectionTypes returns the enumeration in its fixed display order.
func AllInspectionTypes() []models.InspectionType {
	return []models.InspectionType{
		models.TypeHSE,
		models.TypeFireExtinguisher,
		models.TypeFirstAid,
		models.TypeHSEObservation,
		models.TypeManhours,
	}
}
