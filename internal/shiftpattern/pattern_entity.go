package shiftpattern

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const DefaultOvertimeThresholdMinutes = 480

// ShiftPattern is a weekly recurrence template: a time window plus the set
// of weekdays it applies to. Concrete shifts are generated from it.
type ShiftPattern struct {
	ID           uuid.UUID `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	Name         string    `gorm:"column:name;type:varchar(100);not null"`
	StartTime    string    `gorm:"column:start_time;type:varchar(5);not null"` // "15:04"
	EndTime      string    `gorm:"column:end_time;type:varchar(5);not null"`
	BreakMinutes int       `gorm:"column:break_minutes;not null;default:0"`
	GraceMinutes int       `gorm:"column:grace_minutes;not null;default:0"`
	// OvertimeThresholdMinutes caps a shift's regular time; zero means the
	// 480-minute default applies.
	OvertimeThresholdMinutes int            `gorm:"column:overtime_threshold_minutes;not null;default:0"`
	DaysOfWeekCSV            string         `gorm:"column:days_of_week;type:varchar(20);not null"` // "1,2,3,4,5", Sunday=0
	CreatedAt                time.Time      `gorm:"column:created_at"`
	UpdatedAt                time.Time      `gorm:"column:updated_at"`
	DeletedAt                gorm.DeletedAt `gorm:"column:deleted_at;index"`
}

func (ShiftPattern) TableName() string {
	return "shift_patterns"
}

// DaysOfWeek decodes the stored weekday set; malformed entries are dropped.
func (p ShiftPattern) DaysOfWeek() []int {
	parts := strings.Split(p.DaysOfWeekCSV, ",")
	days := make([]int, 0, len(parts))
	for _, part := range parts {
		d, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || d < 0 || d > 6 {
			continue
		}
		days = append(days, d)
	}
	return days
}

func (p ShiftPattern) OvertimeThreshold() int {
	if p.OvertimeThresholdMinutes > 0 {
		return p.OvertimeThresholdMinutes
	}
	return DefaultOvertimeThresholdMinutes
}

// PatternAssignment links a pattern to an employee (many-to-many).
type PatternAssignment struct {
	PatternID  uuid.UUID `gorm:"column:pattern_id;type:uuid;primaryKey"`
	EmployeeID uuid.UUID `gorm:"column:employee_id;type:uuid;primaryKey"`
	CreatedAt  time.Time `gorm:"column:created_at"`
}

func (PatternAssignment) TableName() string {
	return "pattern_assignments"
}
