package models_test

import (
	"strings"
	"testing"

	"github.com/alt1hub/pluginhub/internal/models"
)

// TestCategoriesJSONAmpersand verifies ampersand tags are stored verbatim,
// not HTML-escaped, since the catalog filter compares the raw column text.
func TestCategoriesJSONAmpersand(t *testing.T) {
	data, err := models.CategoriesJSON([]string{
		"Quests & Achievements",
		"D&D (Distractions & Diversions)",
	})
	if err != nil {
		t.Fatalf("CategoriesJSON failed: %v", err)
	}
	if strings.Contains(string(data), "\\u0026") {
		t.Errorf("Expected unescaped ampersands, got %s", data)
	}
	if !strings.Contains(string(data), `"Quests & Achievements"`) {
		t.Errorf("Expected raw quoted tag in %s", data)
	}

	categories := models.CategoriesFromJSON(data)
	if len(categories) != 2 || categories[0] != "Quests & Achievements" ||
		categories[1] != "D&D (Distractions & Diversions)" {
		t.Errorf("Unexpected round-trip result: %v", categories)
	}
}

// TestCategoriesJSONEmpty verifies a nil list encodes as an empty array.
func TestCategoriesJSONEmpty(t *testing.T) {
	data, err := models.CategoriesJSON(nil)
	if err != nil {
		t.Fatalf("CategoriesJSON failed: %v", err)
	}
	if string(data) != "[]" {
		t.Errorf("Expected [], got %s", data)
	}
}
