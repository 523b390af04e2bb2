package types

import (
	"strings"
	"testing"
	"time"
)

func validItem() FoodItem {
	return FoodItem{
		ID:                 "custom-1",
		Name:               "Oatmeal",
		CaloriesPerServing: 150,
		ServingSize:        "1 cup",
		Category:           CategoryFood,
		Source:             SourceCustom,
		CreatedAt:          time.Now(),
	}
}

func TestFoodItemValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(f *FoodItem)
		wantErr string
	}{
		{name: "valid", mutate: func(f *FoodItem) {}},
		{name: "empty source accepted", mutate: func(f *FoodItem) { f.Source = "" }},
		{name: "blank name", mutate: func(f *FoodItem) { f.Name = "   " }, wantErr: "name is required"},
		{name: "long name", mutate: func(f *FoodItem) { f.Name = strings.Repeat("a", 201) }, wantErr: "200 characters"},
		{name: "negative calories", mutate: func(f *FoodItem) { f.CaloriesPerServing = -1 }, wantErr: "cannot be negative"},
		{name: "bad category", mutate: func(f *FoodItem) { f.Category = "dessert" }, wantErr: "invalid category"},
		{name: "bad source", mutate: func(f *FoodItem) { f.Source = "usda" }, wantErr: "invalid source"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := validItem()
			tt.mutate(&item)
			err := item.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestFoodEntryValidate(t *testing.T) {
	entry := FoodEntry{
		ID:            "entry-1",
		FoodItem:      validItem(),
		Quantity:      1.5,
		TotalCalories: 225,
		Timestamp:     time.Now(),
	}
	if err := entry.Validate(); err != nil {
		t.Fatalf("valid entry rejected: %v", err)
	}

	entry.TotalCalories = 300
	if err := entry.Validate(); err == nil {
		t.Error("expected mismatch between total and item calories to be rejected")
	}

	entry.TotalCalories = 0
	entry.Quantity = 0
	if err := entry.Validate(); err == nil {
		t.Error("expected zero quantity to be rejected")
	}
}

func TestTotalCaloriesRounds(t *testing.T) {
	if got := TotalCalories(95, 1.5); got != 143 {
		t.Errorf("TotalCalories(95, 1.5) = %d, want 143", got)
	}
	if got := TotalCalories(100, 3); got != 300 {
		t.Errorf("TotalCalories(100, 3) = %d, want 300", got)
	}
}

func TestUserSettingsValidate(t *testing.T) {
	s := DefaultUserSettings()
	if err := s.Validate(); err != nil {
		t.Fatalf("default settings invalid: %v", err)
	}
	if s.DailyCalorieGoal != 2000 || s.Theme != ThemeSystem || !s.Notifications {
		t.Errorf("unexpected defaults: %+v", s)
	}

	s.DailyCalorieGoal = 0
	if err := s.Validate(); err == nil {
		t.Error("expected zero goal to be rejected")
	}

	s = DefaultUserSettings()
	s.Theme = "neon"
	if err := s.Validate(); err == nil {
		t.Error("expected invalid theme to be rejected")
	}
}

func TestDayKeyRoundTrip(t *testing.T) {
	ts := time.Date(2025, 3, 9, 23, 30, 0, 0, time.Local)
	key := DayKey(ts)
	if key != "2025-03-09" {
		t.Fatalf("DayKey = %s, want 2025-03-09", key)
	}
	parsed, err := ParseDayKey(key)
	if err != nil {
		t.Fatalf("ParseDayKey failed: %v", err)
	}
	if DayKey(parsed) != key {
		t.Errorf("round trip mismatch: %s", DayKey(parsed))
	}
	if _, err := ParseDayKey("03/09/2025"); err == nil {
		t.Error("expected malformed day key to fail")
	}
}

func TestNormalizeName(t *testing.T) {
	if got := NormalizeName("  Greek Yogurt "); got != "greek yogurt" {
		t.Errorf("NormalizeName = %q", got)
	}
}
