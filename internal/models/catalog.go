package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Equipment is a bookable item with setup overhead and a staffing
// requirement. Name is the natural key used by assignments.
type Equipment struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	PreparationTime int    `json:"preparation_time"` // minutes
	CleanupTime     int    `json:"cleanup_time"`     // minutes
	MinStaff        int    `json:"min_staff"`
	Active          bool   `json:"active"`
}

// SkillRating is a professional's rating for a skill, with an optional
// cost-per-hour override replacing the skill's default.
type SkillRating struct {
	SkillID     string   `json:"skill_id"`
	Rating      int      `json:"rating"`
	CostPerHour *float64 `json:"cost_per_hour,omitempty"`
}

// Professional is a bookable staff member.
type Professional struct {
	ID       string        `json:"id"`
	Name     string        `json:"name"`
	Priority int           `json:"priority"`
	Active   bool          `json:"active"`
	Skills   []SkillRating `json:"skills,omitempty"`
}

// Skill describes a competence with a default hourly cost.
type Skill struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	CostPerHour float64 `json:"cost_per_hour"`
}

// Dock is a boarding or disembarking point. TravelTime is the overhead
// in minutes to reach it.
type Dock struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	TravelTime int    `json:"travel_time"` // minutes
}

// Frequency of a recurrence rule.
type Frequency string

const (
	FreqDaily   Frequency = "daily"
	FreqWeekly  Frequency = "weekly"
	FreqMonthly Frequency = "monthly"
)

// EndCondition terminates a recurrence expansion.
type EndCondition string

const (
	EndNever            EndCondition = "never"
	EndOnDate           EndCondition = "on_date"
	EndAfterOccurrences EndCondition = "after_occurrences"
)

// RecurrenceRule is a product's schedule template.
type RecurrenceRule struct {
	Frequency    Frequency      `json:"frequency"`
	Interval     int            `json:"interval"`
	DaysOfWeek   []time.Weekday `json:"days_of_week,omitempty"` // weekly only
	EndCondition EndCondition   `json:"end_condition"`
	EndDate      time.Time      `json:"end_date,omitempty"`
	Occurrences  int            `json:"occurrences,omitempty"`
}

// Product is a booking template that can be expanded into a series.
type Product struct {
	ID               string         `json:"id"`
	Name             string         `json:"name"`
	Department       string         `json:"department"`
	DefaultEquipment []string       `json:"default_equipment,omitempty"`
	DefaultStaff     []string       `json:"default_staff,omitempty"`
	DefaultStartTime string         `json:"default_start_time"` // "HH:MM"
	DefaultEndTime   string         `json:"default_end_time"`   // "HH:MM"
	Recurrence       RecurrenceRule `json:"recurrence"`
}

// ParseTimeOfDay parses an "HH:MM" string into hour and minute.
func ParseTimeOfDay(s string) (hour, minute int, err error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid time of day %q", s)
	}
	hour, err = strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("invalid hour in %q", s)
	}
	minute, err = strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("invalid minute in %q", s)
	}
	return hour, minute, nil
}
