package utils

import (
	"testing"

	"safety-inspection-api/models"
)

func TestParseInspectionType(t *testing.T) {
	cases := []struct {
		in   string
		want models.InspectionType
		ok   bool
	}{
		{"hse", models.TypeHSE, true},
		{"  HSE-Inspection  ", models.TypeHSE, true},
		{"general", models.TypeHSE, true},
		{"fire-extinguisher", models.TypeFireExtinguisher, true},
		{"FIRE_EXT", models.TypeFireExtinguisher, true},
		{"firstaid", models.TypeFirstAid, true},
		{"observations", models.TypeHSEObservation, true},
		{"man-hours", models.TypeManhours, true},
		{"boiler", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, ok := ParseInspectionType(tc.in)
		if ok != tc.ok || got != tc.want {
			t.Errorf("ParseInspectionType(%q) = %q,%v want %q,%v", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

func TestParseInspectionStatus(t *testing.T) {
	cases := []struct {
		in   string
		want models.InspectionStatus
		ok   bool
	}{
		{"pending", models.StatusPendingReview, true},
		{"Submitted", models.StatusPendingReview, true},
		{"approve", models.StatusApproved, true},
		{"REJECTED", models.StatusRejected, true},
		{"closed", models.StatusCompleted, true},
		{"draft", models.StatusDraft, true},
		{"unknown", "", false},
	}
	for _, tc := range cases {
		got, ok := ParseInspectionStatus(tc.in)
		if ok != tc.ok || got != tc.want {
			t.Errorf("ParseInspectionStatus(%q) = %q,%v want %q,%v", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

func TestParseTemplateSlug(t *testing.T) {
	if got, ok := ParseTemplateSlug("fire-extinguisher-template"); !ok || got != models.TypeFireExtinguisher {
		t.Fatalf("slug lookup = %q,%v", got, ok)
	}
	if got, ok := ParseTemplateSlug("manhours_template"); !ok || got != models.TypeManhours {
		t.Fatalf("slug lookup = %q,%v", got, ok)
	}
	if got, ok := ParseTemplateSlug("hse"); !ok || got != models.TypeHSE {
		t.Fatalf("bare slug lookup = %q,%v", got, ok)
	}
	if _, ok := ParseTemplateSlug("unknown-template"); ok {
		t.Fatalf("unknown slug must not resolve")
	}
}

func TestStorageKeyFor(t *testing.T) {
	cases := map[models.InspectionType]string{
		models.TypeHSE:              StorageKeyInspections,
		models.TypeFireExtinguisher: StorageKeyFireExtinguishers,
		models.TypeFirstAid:         StorageKeyFirstAid,
		models.TypeHSEObservation:   StorageKeyObservations,
		models.TypeManhours:         StorageKeyManhours,
	}
	for inspType, want := range cases {
		if got := StorageKeyFor(inspType); got != want {
			t.Errorf("StorageKeyFor(%s) = %q, want %q", inspType, got, want)
		}
	}
	if got := StorageKeyFor("mystery"); got != StorageKeyInspections {
		t.Errorf("unknown type must fall back to the general key, got %q", got)
	}
}
