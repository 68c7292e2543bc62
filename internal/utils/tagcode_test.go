package utils

import (
	"testing"
	"time"
)

func TestEquipmentTagRoundTrip(t *testing.T) {
	code := GenerateEquipmentTag("DB1-014", "DB")
	t.Logf("Generated equipment tag: %s", code)

	decoded, err := DecodeEquipmentTag(code)
	if err != nil {
		t.Fatalf("Failed to decode: %v", err)
	}

	if decoded.EquipmentID != "DB1-014" {
		t.Errorf("Expected equipment ID DB1-014, got %s", decoded.EquipmentID)
	}
	if decoded.TypeCode != "DB" {
		t.Errorf("Expected type code DB, got %s", decoded.TypeCode)
	}
}

func TestEquipmentTagPreservesIDCase(t *testing.T) {
	// Server-minted entity IDs are lowercase uuids; a decoded tag must match
	// them byte for byte or the scan lookup finds nothing.
	id := "0b9fd0a2-6c1e-4f7a-9f32-8f1e2a7c4d55"
	decoded, err := DecodeEquipmentTag(GenerateEquipmentTag(id, "SO"))
	if err != nil {
		t.Fatalf("Failed to decode: %v", err)
	}
	if decoded.EquipmentID != id {
		t.Errorf("Equipment ID must round-trip verbatim, got %s", decoded.EquipmentID)
	}
}

func TestEquipmentTagRejectsGarbage(t *testing.T) {
	if _, err := DecodeEquipmentTag("x123"); err == nil {
		t.Error("Wrong prefix should be rejected")
	}
	if _, err := DecodeEquipmentTag("e"); err == nil {
		t.Error("Too-short code should be rejected")
	}
	// Split length claims a longer suffix than the data carries.
	if _, err := DecodeEquipmentTag("eZAB"); err == nil {
		t.Error("Inconsistent split length should be rejected")
	}
}

func TestInspectionLabelRoundTrip(t *testing.T) {
	date := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	code, err := GenerateInspectionLabel(InspectionLabel{
		Date:    date,
		Result:  "P",
		Payload: "CIRC14",
	})
	if err != nil {
		t.Fatalf("Failed to generate: %v", err)
	}
	if len(code) != 19 {
		t.Fatalf("Expected 19-char code, got %d (%s)", len(code), code)
	}

	decoded, err := DecodeInspectionLabel(code)
	if err != nil {
		t.Fatalf("Failed to decode: %v", err)
	}
	if !decoded.Date.Equal(date) {
		t.Errorf("Expected date %v, got %v", date, decoded.Date)
	}
	if decoded.Result != "P" {
		t.Errorf("Expected result P, got %s", decoded.Result)
	}
	if decoded.Payload[:6] != "CIRC14" {
		t.Errorf("Expected payload prefix CIRC14, got %s", decoded.Payload)
	}
}

func TestInspectionLabelDateBounds(t *testing.T) {
	_, err := GenerateInspectionLabel(InspectionLabel{
		Date:   time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC),
		Result: "P",
	})
	if err == nil {
		t.Error("Dates before the epoch should be rejected")
	}
}
