// Package registry holds static lookup data loaded at startup.
package registry

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// QuarantineRegistry defines the interface for vehicle quarantine lookups.
// Quarantined vehicles are under investigation and their readings are
// dropped at ingest.
//
//go:generate mockgen -source=quarantine.go -destination=../mocks/quarantine_registry.go -package=mocks -mock_names=QuarantineRegistry=MockQuarantineRegistry
type QuarantineRegistry interface {
	// IsQuarantined checks if a vehicle ID is quarantined
	IsQuarantined(vehicleID string) bool
}

// QuarantineData represents the structure of the quarantine.json file:
// a list of vehicle IDs
type QuarantineData struct {
	Vehicles []string `json:"vehicles"`
}

// quarantineRegistry is the internal implementation of QuarantineRegistry
type quarantineRegistry struct {
	// Fast lookup map: normalized vehicle ID -> true
	vehicles map[string]bool
}

// LoadQuarantine loads the quarantine registry from a JSON file
func LoadQuarantine(filePath string) (QuarantineRegistry, error) {
	// Read the file using the absolute path
	data, err := os.ReadFile(filePath) //nolint:gosec,G304 // This should be a trusted file
	if err != nil {
		return nil, fmt.Errorf("failed to read quarantine file: %w", err)
	}

	// Parse JSON
	var quarantineData QuarantineData
	if err := json.Unmarshal(data, &quarantineData); err != nil {
		return nil, fmt.Errorf("failed to parse quarantine JSON: %w", err)
	}

	// Build lookup map
	q := &quarantineRegistry{
		vehicles: make(map[string]bool),
	}
	for _, id := range quarantineData.Vehicles {
		q.vehicles[strings.ToUpper(strings.TrimSpace(id))] = true
	}

	return q, nil
}

// IsQuarantined checks if a vehicle ID is quarantined
func (q *quarantineRegistry) IsQuarantined(vehicleID string) bool {
	if q == nil {
		return false
	}
	return q.vehicles[strings.ToUpper(strings.TrimSpace(vehicleID))]
}
