package domain

import "time"

// InterviewStatus enumerates interview lifecycle states.
type InterviewStatus string

const (
	InterviewPending   InterviewStatus = "pending"
	InterviewCompleted InterviewStatus = "completed"
)

// Interview is one AI-interview session linked to an applicant.
type Interview struct {
	ID          string
	ApplicantID string
	UserID      string
	ScheduledAt *time.Time
	Status      InterviewStatus
	Transcript  string
	AIAnalysis  string
	Score       int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Employee is an onboarded employee with performance tracking fields.
type Employee struct {
	ID                   string
	UserID               string
	Name                 string
	Role                 string
	Department           string
	ExperienceYears      int
	TasksAssigned        int
	TasksCompleted       int
	OnTimeSubmissions    int
	AvgTaskTime          float64
	AttendancePercentage float64
	CommunicationScore   int
	TeamworkScore        int
	ProblemSolvingScore  int
	LearningSpeed        int
	InitiativeScore      int
	PerformanceScore     int
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// AttendanceStatus enumerates daily attendance outcomes.
type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "present"
	AttendanceAbsent  AttendanceStatus = "absent"
	AttendanceLate    AttendanceStatus = "late"
	AttendanceHalfDay AttendanceStatus = "half_day"
)

// Attendance is one employee-day attendance row. Country is resolved from the
// check-in client address for the remote-workforce view.
type Attendance struct {
	ID         string
	EmployeeID string
	UserID     string
	Date       string
	CheckIn    *time.Time
	CheckOut   *time.Time
	Status     AttendanceStatus
	Country    string
	Notes      string
}

// PayrollStatus enumerates payroll row states.
type PayrollStatus string

const (
	PayrollPending PayrollStatus = "pending"
	PayrollPaid    PayrollStatus = "paid"
)

// Payroll is one employee-month payroll row.
type Payroll struct {
	ID          string
	EmployeeID  string
	UserID      string
	Month       int
	Year        int
	BaseSalary  int64
	Bonuses     int64
	Deductions  int64
	NetSalary   int64
	Status      PayrollStatus
	PaymentDate *time.Time
}
