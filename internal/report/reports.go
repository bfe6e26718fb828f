package report

import (
	"fmt"
	"io"
	"sort"
	"time"

	"velamar/internal/models"
)

const timeFormat = "2006-01-02 15:04"

// WriteUnavailability writes a workbook listing unavailability records
// that touch the [from, to) window, one row per record.
func WriteUnavailability(w io.Writer, bookings []models.Booking, from, to time.Time) error {
	records := make([]models.Booking, 0)
	for _, b := range bookings {
		if b.Kind != models.KindUnavailability || b.Status == models.StatusCancelled {
			continue
		}
		if b.Start.Before(to) && from.Before(b.End) {
			records = append(records, b)
		}
	}
	sort.Slice(records, func(i, j int) bool {
		if !records[i].Start.Equal(records[j].Start) {
			return records[i].Start.Before(records[j].Start)
		}
		return records[i].ResourceName < records[j].ResourceName
	})

	sw := newSheetWriter()
	defer sw.close()

	if err := sw.addSheet("Unavailability"); err != nil {
		return err
	}
	if err := sw.writeHeader([]string{"Resource", "Kind", "From", "To", "Hours", "Reason"}); err != nil {
		return err
	}
	for _, r := range records {
		row := []interface{}{
			r.ResourceName,
			string(r.ResourceKind),
			r.Start.Format(timeFormat),
			r.End.Format(timeFormat),
			roundHours(r.End.Sub(r.Start)),
			r.Reason,
		}
		if err := sw.writeRow(row); err != nil {
			return err
		}
	}
	return sw.save(w)
}

type paymentLine struct {
	professional string
	skill        string
	hours        float64
	rate         float64
}

// WritePayments writes a staff payment workbook for confirmed bookings
// in the [from, to) window. Each confirmed staff assignment earns the
// booking's duration at the professional's per-skill rate; a rate set
// on the professional overrides the skill's base rate.
func WritePayments(w io.Writer, bookings []models.Booking, roster []models.Professional, skills []models.Skill, from, to time.Time) error {
	skillByID := make(map[string]models.Skill, len(skills))
	for _, s := range skills {
		skillByID[s.ID] = s
	}
	profByName := make(map[string]models.Professional, len(roster))
	for _, p := range roster {
		profByName[p.Name] = p
	}

	lines := make(map[string]*paymentLine)
	for _, b := range bookings {
		if b.Status != models.StatusConfirmed || !b.HasResources() {
			continue
		}
		if !b.Start.Before(to) || !from.Before(b.End) {
			continue
		}
		hours := b.End.Sub(b.Start).Hours()
		for _, sa := range b.Staff {
			if !sa.Confirmed {
				continue
			}
			rate, skillName := resolveRate(profByName[sa.Name], sa.SkillID, skillByID)
			key := sa.Name + "\x00" + sa.SkillID
			line, ok := lines[key]
			if !ok {
				line = &paymentLine{professional: sa.Name, skill: skillName, rate: rate}
				lines[key] = line
			}
			line.hours += hours
		}
	}

	ordered := make([]*paymentLine, 0, len(lines))
	for _, l := range lines {
		ordered = append(ordered, l)
	}
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].professional != ordered[j].professional {
			return ordered[i].professional < ordered[j].professional
		}
		return ordered[i].skill < ordered[j].skill
	})

	sw := newSheetWriter()
	defer sw.close()

	if err := sw.addSheet(fmt.Sprintf("Payments %s", from.Format("2006-01-02"))); err != nil {
		return err
	}
	if err := sw.writeHeader([]string{"Professional", "Skill", "Hours", "Rate", "Amount"}); err != nil {
		return err
	}
	for _, l := range ordered {
		row := []interface{}{
			l.professional,
			l.skill,
			round2(l.hours),
			l.rate,
			round2(l.hours * l.rate),
		}
		if err := sw.writeRow(row); err != nil {
			return err
		}
	}
	return sw.save(w)
}

// resolveRate picks the hourly rate for a professional working a
// skill. Precedence: the professional's own rate for that skill, then
// the skill's base rate, then zero.
func resolveRate(p models.Professional, skillID string, skillByID map[string]models.Skill) (rate float64, skillName string) {
	skill, ok := skillByID[skillID]
	if ok {
		skillName = skill.Name
		rate = skill.CostPerHour
	}
	for _, sr := range p.Skills {
		if sr.SkillID == skillID && sr.CostPerHour != nil {
			rate = *sr.CostPerHour
			break
		}
	}
	return rate, skillName
}

func roundHours(d time.Duration) float64 {
	return round2(d.Hours())
}

func round2(v float64) float64 {
	return float64(int(v*100+0.5)) / 100
}
