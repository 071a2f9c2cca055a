package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/supabase-community/postgrest-go"

	"hrserver/internal/domain"
)

type employeeRow struct {
	ID                   string    `json:"id"`
	UserID               string    `json:"user_id"`
	Name                 string    `json:"name"`
	Role                 string    `json:"role"`
	Department           string    `json:"department"`
	ExperienceYears      int       `json:"experience_years"`
	TasksAssigned        int       `json:"tasks_assigned"`
	TasksCompleted       int       `json:"tasks_completed"`
	OnTimeSubmissions    int       `json:"on_time_submissions"`
	AvgTaskTime          float64   `json:"avg_task_time"`
	AttendancePercentage float64   `json:"attendance_percentage"`
	CommunicationScore   int       `json:"communication_score"`
	TeamworkScore        int       `json:"teamwork_score"`
	ProblemSolvingScore  int       `json:"problem_solving_score"`
	LearningSpeed        int       `json:"learning_speed"`
	InitiativeScore      int       `json:"initiative_score"`
	PerformanceScore     int       `json:"performance_score"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

// EmployeeStore reads and writes the employees table.
type EmployeeStore struct {
	c *Client
}

func NewEmployeeStore(c *Client) *EmployeeStore {
	return &EmployeeStore{c: c}
}

// ListByUser returns the user's employees, newest first.
func (s *EmployeeStore) ListByUser(ctx context.Context, userID string) ([]domain.Employee, error) {
	data, _, err := s.c.sb.From("employees").
		Select("*", "exact", false).
		Eq("user_id", userID).
		Order("created_at", &postgrest.OrderOpts{Ascending: false}).
		Execute()
	if err != nil {
		return nil, remoteErr("list employees", err)
	}
	var rows []employeeRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, remoteErr("decode employees", err)
	}
	out := make([]domain.Employee, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toDomain())
	}
	return out, nil
}

// Insert persists one onboarded employee.
func (s *EmployeeStore) Insert(ctx context.Context, e domain.Employee) error {
	row := employeeRow{
		ID:                   e.ID,
		UserID:               e.UserID,
		Name:                 e.Name,
		Role:                 e.Role,
		Department:           e.Department,
		ExperienceYears:      e.ExperienceYears,
		TasksAssigned:        e.TasksAssigned,
		TasksCompleted:       e.TasksCompleted,
		OnTimeSubmissions:    e.OnTimeSubmissions,
		AvgTaskTime:          e.AvgTaskTime,
		AttendancePercentage: e.AttendancePercentage,
		CommunicationScore:   e.CommunicationScore,
		TeamworkScore:        e.TeamworkScore,
		ProblemSolvingScore:  e.ProblemSolvingScore,
		LearningSpeed:        e.LearningSpeed,
		InitiativeScore:      e.InitiativeScore,
		PerformanceScore:     e.PerformanceScore,
		CreatedAt:            e.CreatedAt,
		UpdatedAt:            e.UpdatedAt,
	}
	if _, _, err := s.c.sb.From("employees").Insert(row, false, "", "minimal", "").Execute(); err != nil {
		return remoteErr("insert employee", err)
	}
	return nil
}

func (r employeeRow) toDomain() domain.Employee {
	return domain.Employee{
		ID:                   r.ID,
		UserID:               r.UserID,
		Name:                 r.Name,
		Role:                 r.Role,
		Department:           r.Department,
		ExperienceYears:      r.ExperienceYears,
		TasksAssigned:        r.TasksAssigned,
		TasksCompleted:       r.TasksCompleted,
		OnTimeSubmissions:    r.OnTimeSubmissions,
		AvgTaskTime:          r.AvgTaskTime,
		AttendancePercentage: r.AttendancePercentage,
		CommunicationScore:   r.CommunicationScore,
		TeamworkScore:        r.TeamworkScore,
		ProblemSolvingScore:  r.ProblemSolvingScore,
		LearningSpeed:        r.LearningSpeed,
		InitiativeScore:      r.InitiativeScore,
		PerformanceScore:     r.PerformanceScore,
		CreatedAt:            r.CreatedAt,
		UpdatedAt:            r.UpdatedAt,
	}
}

type attendanceRow struct {
	ID         string     `json:"id"`
	EmployeeID string     `json:"employee_id"`
	UserID     string     `json:"user_id"`
	Date       string     `json:"date"`
	CheckIn    *time.Time `json:"check_in"`
	CheckOut   *time.Time `json:"check_out"`
	Status     string     `json:"status"`
	Country    string     `json:"country"`
	Notes      string     `json:"notes"`
}

// AttendanceStore reads and writes the attendance table.
type AttendanceStore struct {
	c *Client
}

func NewAttendanceStore(c *Client) *AttendanceStore {
	return &AttendanceStore{c: c}
}

// ListByUser returns the user's attendance rows, most recent date first.
func (s *AttendanceStore) ListByUser(ctx context.Context, userID string) ([]domain.Attendance, error) {
	data, _, err := s.c.sb.From("attendance").
		Select("*", "exact", false).
		Eq("user_id", userID).
		Order("date", &postgrest.OrderOpts{Ascending: false}).
		Execute()
	if err != nil {
		return nil, remoteErr("list attendance", err)
	}
	var rows []attendanceRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, remoteErr("decode attendance", err)
	}
	out := make([]domain.Attendance, 0, len(rows))
	for _, r := range rows {
		out = append(out, domain.Attendance{
			ID:         r.ID,
			EmployeeID: r.EmployeeID,
			UserID:     r.UserID,
			Date:       r.Date,
			CheckIn:    r.CheckIn,
			CheckOut:   r.CheckOut,
			Status:     domain.AttendanceStatus(r.Status),
			Country:    r.Country,
			Notes:      r.Notes,
		})
	}
	return out, nil
}

// Insert persists one check-in row.
func (s *AttendanceStore) Insert(ctx context.Context, a domain.Attendance) error {
	row := attendanceRow{
		ID:         a.ID,
		EmployeeID: a.EmployeeID,
		UserID:     a.UserID,
		Date:       a.Date,
		CheckIn:    a.CheckIn,
		CheckOut:   a.CheckOut,
		Status:     string(a.Status),
		Country:    a.Country,
		Notes:      a.Notes,
	}
	if _, _, err := s.c.sb.From("attendance").Insert(row, false, "", "minimal", "").Execute(); err != nil {
		return remoteErr("insert attendance", err)
	}
	return nil
}

// SetCheckOut stamps the check-out time on an existing row.
func (s *AttendanceStore) SetCheckOut(ctx context.Context, id string, at time.Time) error {
	patch := map[string]any{"check_out": at}
	if _, _, err := s.c.sb.From("attendance").Update(patch, "minimal", "").Eq("id", id).Execute(); err != nil {
		return remoteErr("update attendance", err)
	}
	return nil
}

type payrollRow struct {
	ID          string     `json:"id"`
	EmployeeID  string     `json:"employee_id"`
	UserID      string     `json:"user_id"`
	Month       int        `json:"month"`
	Year        int        `json:"year"`
	BaseSalary  int64      `json:"base_salary"`
	Bonuses     int64      `json:"bonuses"`
	Deductions  int64      `json:"deductions"`
	NetSalary   int64      `json:"net_salary"`
	Status      string     `json:"status"`
	PaymentDate *time.Time `json:"payment_date"`
}

// PayrollStore reads and writes the payroll table.
type PayrollStore struct {
	c *Client
}

func NewPayrollStore(c *Client) *PayrollStore {
	return &PayrollStore{c: c}
}

// ListByPeriod returns the user's payroll rows for one month.
func (s *PayrollStore) ListByPeriod(ctx context.Context, userID string, month, year int) ([]domain.Payroll, error) {
	data, _, err := s.c.sb.From("payroll").
		Select("*", "exact", false).
		Eq("user_id", userID).
		Eq("month", fmt.Sprintf("%d", month)).
		Eq("year", fmt.Sprintf("%d", year)).
		Execute()
	if err != nil {
		return nil, remoteErr("list payroll", err)
	}
	var rows []payrollRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, remoteErr("decode payroll", err)
	}
	out := make([]domain.Payroll, 0, len(rows))
	for _, r := range rows {
		out = append(out, domain.Payroll{
			ID:          r.ID,
			EmployeeID:  r.EmployeeID,
			UserID:      r.UserID,
			Month:       r.Month,
			Year:        r.Year,
			BaseSalary:  r.BaseSalary,
			Bonuses:     r.Bonuses,
			Deductions:  r.Deductions,
			NetSalary:   r.NetSalary,
			Status:      domain.PayrollStatus(r.Status),
			PaymentDate: r.PaymentDate,
		})
	}
	return out, nil
}

// MarkPaid flips one payroll row to paid and stamps the payment date.
func (s *PayrollStore) MarkPaid(ctx context.Context, id string, at time.Time) error {
	patch := map[string]any{"status": string(domain.PayrollPaid), "payment_date": at}
	if _, _, err := s.c.sb.From("payroll").Update(patch, "minimal", "").Eq("id", id).Execute(); err != nil {
		return remoteErr("update payroll", err)
	}
	return nil
}

type interviewRow struct {
	ID          string     `json:"id"`
	ApplicantID string     `json:"applicant_id"`
	UserID      string     `json:"user_id"`
	ScheduledAt *time.Time `json:"scheduled_at"`
	Status      string     `json:"status"`
	Transcript  *string    `json:"transcript"`
	AIAnalysis  *string    `json:"ai_analysis"`
	Score       int        `json:"score"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// InterviewStore reads and writes the interviews table.
type InterviewStore struct {
	c *Client
}

func NewInterviewStore(c *Client) *InterviewStore {
	return &InterviewStore{c: c}
}

// ListByUser returns the user's interviews, newest first.
func (s *InterviewStore) ListByUser(ctx context.Context, userID string) ([]domain.Interview, error) {
	data, _, err := s.c.sb.From("interviews").
		Select("*", "exact", false).
		Eq("user_id", userID).
		Order("created_at", &postgrest.OrderOpts{Ascending: false}).
		Execute()
	if err != nil {
		return nil, remoteErr("list interviews", err)
	}
	var rows []interviewRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, remoteErr("decode interviews", err)
	}
	out := make([]domain.Interview, 0, len(rows))
	for _, r := range rows {
		out = append(out, domain.Interview{
			ID:          r.ID,
			ApplicantID: r.ApplicantID,
			UserID:      r.UserID,
			ScheduledAt: r.ScheduledAt,
			Status:      domain.InterviewStatus(r.Status),
			Transcript:  deref(r.Transcript),
			AIAnalysis:  deref(r.AIAnalysis),
			Score:       r.Score,
			CreatedAt:   r.CreatedAt,
			UpdatedAt:   r.UpdatedAt,
		})
	}
	return out, nil
}

// SetOutcome records a completed interview's score and analysis.
func (s *InterviewStore) SetOutcome(ctx context.Context, id string, score int, analysis string) error {
	patch := map[string]any{
		"status":      string(domain.InterviewCompleted),
		"score":       score,
		"ai_analysis": analysis,
		"updated_at":  time.Now().UTC(),
	}
	if _, _, err := s.c.sb.From("interviews").Update(patch, "minimal", "").Eq("id", id).Execute(); err != nil {
		return remoteErr("update interview", err)
	}
	return nil
}
