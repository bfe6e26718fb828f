package schedule

import (
	"fmt"
	"sort"
	"strings"

	"velamar/internal/models"
)

// StaffCandidate is one ranked suggestion: a professional matched
// either by name or by one of their skills.
type StaffCandidate struct {
	Professional models.Professional `json:"professional"`
	SkillID      string              `json:"skill_id,omitempty"`
	SkillRating  int                 `json:"skill_rating"`
	Label        string              `json:"label"`
	Score        int                 `json:"score"`
	MatchType    string              `json:"match_type"` // "name" or "skill"
	Availability Availability        `json:"availability"`
}

// AvailabilityFunc annotates a candidate with live availability for
// the interval under consideration. A nil func means every candidate
// is reported available.
type AvailabilityFunc func(name string, kind models.ResourceKind) Availability

// RankStaff scores active professionals against a free-text query. A
// name match scores the professional's priority; each skill-name match
// scores priority + rating*2. Rows are deduplicated by display label
// keeping the highest score, then ordered by score descending, skill
// rating descending, label ascending. Availability is annotated but
// never affects the order.
func RankStaff(query string, roster []models.Professional, skills []models.Skill, checkAvail AvailabilityFunc) []StaffCandidate {
	q := strings.ToLower(strings.TrimSpace(query))
	if len(q) < 2 {
		return nil
	}

	skillNames := make(map[string]string, len(skills))
	for _, s := range skills {
		skillNames[s.ID] = s.Name
	}

	byLabel := make(map[string]StaffCandidate)
	keep := func(c StaffCandidate) {
		if existing, ok := byLabel[c.Label]; !ok || c.Score > existing.Score {
			byLabel[c.Label] = c
		}
	}

	for _, p := range roster {
		if !p.Active {
			continue
		}
		avail := Availability{Status: Available}
		matched := false

		if strings.Contains(strings.ToLower(p.Name), q) {
			if checkAvail != nil {
				avail = checkAvail(p.Name, models.ResourceProfessional)
			}
			matched = true
			c := StaffCandidate{
				Professional: p,
				Label:        p.Name,
				Score:        p.Priority,
				MatchType:    "name",
				Availability: avail,
			}
			// A representative skill, when one exists, makes the
			// suggestion selectable as-is.
			if len(p.Skills) > 0 {
				rep := p.Skills[0]
				if name, ok := skillNames[rep.SkillID]; ok {
					c.SkillID = rep.SkillID
					c.SkillRating = rep.Rating
					c.Label = fmt.Sprintf("%s (%s)", p.Name, name)
				}
			}
			keep(c)
		}

		for _, sk := range p.Skills {
			name, ok := skillNames[sk.SkillID]
			if !ok || !strings.Contains(strings.ToLower(name), q) {
				continue
			}
			if !matched && checkAvail != nil {
				avail = checkAvail(p.Name, models.ResourceProfessional)
			}
			matched = true
			keep(StaffCandidate{
				Professional: p,
				SkillID:      sk.SkillID,
				SkillRating:  sk.Rating,
				Label:        fmt.Sprintf("%s (%s)", p.Name, name),
				Score:        p.Priority + sk.Rating*2,
				MatchType:    "skill",
				Availability: avail,
			})
		}
	}

	out := make([]StaffCandidate, 0, len(byLabel))
	for _, c := range byLabel {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		if out[i].SkillRating != out[j].SkillRating {
			return out[i].SkillRating > out[j].SkillRating
		}
		return strings.ToLower(out[i].Label) < strings.ToLower(out[j].Label)
	})
	return out
}
