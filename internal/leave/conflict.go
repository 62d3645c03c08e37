package leave

import (
	"time"

	"go-workforce/internal/schedule"
)

type ConflictSeverity string

const (
	SeverityHigh   ConflictSeverity = "HIGH"
	SeverityMedium ConflictSeverity = "MEDIUM"
	SeverityLow    ConflictSeverity = "LOW"
)

type Conflict struct {
	Kind        string           `json:"kind"` // "project_deadline" or "shift_overlap"
	Severity    ConflictSeverity `json:"severity"`
	Description string           `json:"description"`
	RelatedID   string           `json:"related_id"`
}

// projectConflicts flags department project deadlines that fall inside or
// shortly after the requested range. Severity follows how close the
// deadline is and how important the project is: a deadline inside the
// range on a priority 1 or 2 project is High, inside the range otherwise
// Medium, and within seven days after the range Low.
func projectConflicts(projects []DepartmentProject, start, end time.Time) []Conflict {
	var out []Conflict
	graceEnd := end.AddDate(0, 0, 7)
	for _, p := range projects {
		deadline := dateOnly(p.Deadline)
		switch {
		case !deadline.Before(start) && !deadline.After(end):
			severity := SeverityMedium
			if p.Priority <= 2 {
				severity = SeverityHigh
			}
			out = append(out, Conflict{
				Kind:        "project_deadline",
				Severity:    severity,
				Description: "Project \"" + p.Name + "\" deadline falls within the requested leave",
				RelatedID:   p.ID.String(),
			})
		case deadline.After(end) && !deadline.After(graceEnd):
			out = append(out, Conflict{
				Kind:        "project_deadline",
				Severity:    SeverityLow,
				Description: "Project \"" + p.Name + "\" deadline follows shortly after the requested leave",
				RelatedID:   p.ID.String(),
			})
		}
	}
	return out
}

// shiftConflicts flags already scheduled instances the leave would
// collide with. These are Medium: approval will cancel them, so the
// manager should know before deciding.
func shiftConflicts(instances []schedule.ScheduleInstance) []Conflict {
	var out []Conflict
	for _, inst := range instances {
		if inst.Status == schedule.StatusCompleted || inst.Status == schedule.StatusRejected {
			continue
		}
		out = append(out, Conflict{
			Kind:        "shift_overlap",
			Severity:    SeverityMedium,
			Description: "Scheduled shift \"" + inst.Title + "\" on " + inst.StartTime.Format("2006-01-02") + " overlaps the requested leave",
			RelatedID:   inst.ID.String(),
		})
	}
	return out
}
