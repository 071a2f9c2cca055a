package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"hrserver/internal/domain"
	"hrserver/internal/middleware"
)

func (a *App) EmployeesList(w http.ResponseWriter, r *http.Request) {
	items, err := a.Employees.ListByUser(r.Context(), a.currentUserID(r))
	if err != nil {
		a.fail(w, err)
		return
	}
	out := make([]map[string]any, 0, len(items))
	for _, e := range items {
		out = append(out, employeeJSON(e))
	}
	a.json(w, http.StatusOK, map[string]any{"items": out})
}

func employeeJSON(e domain.Employee) map[string]any {
	return map[string]any{
		"id":                    e.ID,
		"name":                  e.Name,
		"role":                  e.Role,
		"department":            e.Department,
		"experience_years":      e.ExperienceYears,
		"tasks_assigned":        e.TasksAssigned,
		"tasks_completed":       e.TasksCompleted,
		"on_time_submissions":   e.OnTimeSubmissions,
		"avg_task_time":         e.AvgTaskTime,
		"attendance_percentage": e.AttendancePercentage,
		"communication_score":   e.CommunicationScore,
		"teamwork_score":        e.TeamworkScore,
		"problem_solving_score": e.ProblemSolvingScore,
		"learning_speed":        e.LearningSpeed,
		"initiative_score":      e.InitiativeScore,
		"performance_score":     e.PerformanceScore,
		"created_at":            e.CreatedAt,
	}
}

func (a *App) EmployeesCreate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name            string `json:"name"`
		Role            string `json:"role"`
		Department      string `json:"department"`
		ExperienceYears int    `json:"experience_years"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		a.error(w, http.StatusBadRequest, "validation", "employee name is required")
		return
	}
	now := time.Now().UTC()
	emp := domain.Employee{
		ID:              uuid.NewString(),
		UserID:          a.currentUserID(r),
		Name:            strings.TrimSpace(req.Name),
		Role:            strings.TrimSpace(req.Role),
		Department:      strings.TrimSpace(req.Department),
		ExperienceYears: req.ExperienceYears,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := a.Employees.Insert(r.Context(), emp); err != nil {
		a.fail(w, err)
		return
	}
	a.json(w, http.StatusCreated, employeeJSON(emp))
}

func (a *App) AttendanceList(w http.ResponseWriter, r *http.Request) {
	items, err := a.Attendance.ListByUser(r.Context(), a.currentUserID(r))
	if err != nil {
		a.fail(w, err)
		return
	}
	out := make([]map[string]any, 0, len(items))
	for _, rec := range items {
		out = append(out, map[string]any{
			"id":          rec.ID,
			"employee_id": rec.EmployeeID,
			"date":        rec.Date,
			"check_in":    rec.CheckIn,
			"check_out":   rec.CheckOut,
			"status":      string(rec.Status),
			"country":     rec.Country,
			"notes":       rec.Notes,
		})
	}
	a.json(w, http.StatusOK, map[string]any{"items": out})
}

// AttendanceCheckIn records today's check-in for an employee. The origin
// country comes from the geo middleware when available.
func (a *App) AttendanceCheckIn(w http.ResponseWriter, r *http.Request) {
	var req struct {
		EmployeeID string `json:"employee_id"`
		Status     string `json:"status"`
		Notes      string `json:"notes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if req.EmployeeID == "" {
		a.error(w, http.StatusBadRequest, "validation", "employee_id is required")
		return
	}
	status := domain.AttendanceStatus(req.Status)
	if status == "" {
		status = domain.AttendancePresent
	}
	now := time.Now().UTC()
	rec := domain.Attendance{
		ID:         uuid.NewString(),
		EmployeeID: req.EmployeeID,
		UserID:     a.currentUserID(r),
		Date:       now.Format("2006-01-02"),
		CheckIn:    &now,
		Status:     status,
		Country:    middleware.CountryFromContext(r.Context()),
		Notes:      req.Notes,
	}
	if err := a.Attendance.Insert(r.Context(), rec); err != nil {
		a.fail(w, err)
		return
	}
	a.json(w, http.StatusCreated, map[string]any{
		"id":       rec.ID,
		"date":     rec.Date,
		"check_in": rec.CheckIn,
		"country":  rec.Country,
		"status":   string(rec.Status),
	})
}

func (a *App) AttendanceCheckOut(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	now := time.Now().UTC()
	if err := a.Attendance.SetCheckOut(r.Context(), id, now); err != nil {
		a.fail(w, err)
		return
	}
	a.json(w, http.StatusOK, map[string]any{"id": id, "check_out": now})
}

func (a *App) PayrollList(w http.ResponseWriter, r *http.Request) {
	now := time.Now().UTC()
	month := queryInt(r, "month", int(now.Month()))
	year := queryInt(r, "year", now.Year())
	items, err := a.Payroll.ListByPeriod(r.Context(), a.currentUserID(r), month, year)
	if err != nil {
		a.fail(w, err)
		return
	}
	out := make([]map[string]any, 0, len(items))
	for _, p := range items {
		out = append(out, map[string]any{
			"id":           p.ID,
			"employee_id":  p.EmployeeID,
			"month":        p.Month,
			"year":         p.Year,
			"base_salary":  p.BaseSalary,
			"bonuses":      p.Bonuses,
			"deductions":   p.Deductions,
			"net_salary":   p.NetSalary,
			"status":       string(p.Status),
			"payment_date": p.PaymentDate,
		})
	}
	a.json(w, http.StatusOK, map[string]any{"items": out, "month": month, "year": year})
}

func (a *App) PayrollMarkPaid(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	now := time.Now().UTC()
	if err := a.Payroll.MarkPaid(r.Context(), id, now); err != nil {
		a.fail(w, err)
		return
	}
	a.json(w, http.StatusOK, map[string]any{"id": id, "status": string(domain.PayrollPaid), "payment_date": now})
}

func (a *App) InterviewsList(w http.ResponseWriter, r *http.Request) {
	items, err := a.Interviews.ListByUser(r.Context(), a.currentUserID(r))
	if err != nil {
		a.fail(w, err)
		return
	}
	out := make([]map[string]any, 0, len(items))
	for _, iv := range items {
		out = append(out, map[string]any{
			"id":           iv.ID,
			"applicant_id": iv.ApplicantID,
			"scheduled_at": iv.ScheduledAt,
			"status":       string(iv.Status),
			"transcript":   iv.Transcript,
			"ai_analysis":  iv.AIAnalysis,
			"score":        iv.Score,
			"created_at":   iv.CreatedAt,
		})
	}
	a.json(w, http.StatusOK, map[string]any{"items": out})
}

func (a *App) InterviewsSetOutcome(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req struct {
		Score    int    `json:"score"`
		Analysis string `json:"analysis"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if req.Score < 0 || req.Score > 100 {
		a.error(w, http.StatusBadRequest, "validation", "score must be between 0 and 100")
		return
	}
	if err := a.Interviews.SetOutcome(r.Context(), id, req.Score, req.Analysis); err != nil {
		a.fail(w, err)
		return
	}
	a.json(w, http.StatusOK, map[string]any{"id": id, "score": req.Score})
}

func queryInt(r *http.Request, key string, fallback int) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
