// Command migrate applies the dashboard database schema. Migrations are
// idempotent and tracked in a schema_migrations table.
package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	_ "github.com/lib/pq"
)

type migration struct {
	name string
	stmt string
}

var migrations = []migration{
	{
		name: "001_profiles",
		stmt: `CREATE TABLE IF NOT EXISTS profiles (
			id UUID PRIMARY KEY,
			email TEXT NOT NULL,
			full_name TEXT NOT NULL DEFAULT '',
			avatar_url TEXT NOT NULL DEFAULT '',
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
	},
	{
		name: "002_jobs",
		stmt: `CREATE TABLE IF NOT EXISTS jobs (
			id UUID PRIMARY KEY,
			user_id UUID NOT NULL,
			title TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			department TEXT,
			location TEXT,
			employment_type TEXT,
			salary_range TEXT,
			banner_image_url TEXT,
			posted_to_linkedin BOOLEAN NOT NULL DEFAULT FALSE,
			posted_to_instagram BOOLEAN NOT NULL DEFAULT FALSE,
			status TEXT NOT NULL DEFAULT 'active',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
	},
	{
		name: "003_jobs_user_idx",
		stmt: `CREATE INDEX IF NOT EXISTS jobs_user_created_idx ON jobs (user_id, created_at DESC)`,
	},
	{
		name: "004_resume_screening_results",
		stmt: `CREATE TABLE IF NOT EXISTS resume_screening_results (
			id UUID PRIMARY KEY,
			full_name TEXT NOT NULL DEFAULT '',
			email TEXT NOT NULL DEFAULT '',
			phone_number TEXT,
			subject TEXT,
			skills_score INT,
			experience_score INT,
			education_score INT,
			overall_score INT,
			applicant_skill TEXT,
			reason_summary TEXT,
			decision TEXT,
			status TEXT,
			resume_drive_url TEXT,
			resume_drive_file_id TEXT,
			resume_filename TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
	},
	{
		name: "005_interviews",
		stmt: `CREATE TABLE IF NOT EXISTS interviews (
			id UUID PRIMARY KEY,
			applicant_id UUID NOT NULL,
			user_id UUID NOT NULL,
			scheduled_at TIMESTAMPTZ,
			status TEXT NOT NULL DEFAULT 'pending',
			transcript TEXT NOT NULL DEFAULT '',
			ai_analysis TEXT NOT NULL DEFAULT '',
			score INT NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
	},
	{
		name: "006_employees",
		stmt: `CREATE TABLE IF NOT EXISTS employees (
			id UUID PRIMARY KEY,
			user_id UUID NOT NULL,
			name TEXT NOT NULL,
			role TEXT NOT NULL DEFAULT '',
			department TEXT NOT NULL DEFAULT '',
			experience_years INT NOT NULL DEFAULT 0,
			tasks_assigned INT NOT NULL DEFAULT 0,
			tasks_completed INT NOT NULL DEFAULT 0,
			on_time_submissions INT NOT NULL DEFAULT 0,
			avg_task_time DOUBLE PRECISION NOT NULL DEFAULT 0,
			attendance_percentage DOUBLE PRECISION NOT NULL DEFAULT 0,
			communication_score INT NOT NULL DEFAULT 0,
			teamwork_score INT NOT NULL DEFAULT 0,
			problem_solving_score INT NOT NULL DEFAULT 0,
			learning_speed INT NOT NULL DEFAULT 0,
			initiative_score INT NOT NULL DEFAULT 0,
			performance_score INT NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
	},
	{
		name: "007_attendance",
		stmt: `CREATE TABLE IF NOT EXISTS attendance (
			id UUID PRIMARY KEY,
			employee_id UUID NOT NULL,
			user_id UUID NOT NULL,
			date DATE NOT NULL,
			check_in TIMESTAMPTZ,
			check_out TIMESTAMPTZ,
			status TEXT NOT NULL DEFAULT 'present',
			country TEXT NOT NULL DEFAULT '',
			notes TEXT NOT NULL DEFAULT '',
			UNIQUE (employee_id, date)
		)`,
	},
	{
		name: "008_payroll",
		stmt: `CREATE TABLE IF NOT EXISTS payroll (
			id UUID PRIMARY KEY,
			employee_id UUID NOT NULL,
			user_id UUID NOT NULL,
			month INT NOT NULL,
			year INT NOT NULL,
			base_salary BIGINT NOT NULL DEFAULT 0,
			bonuses BIGINT NOT NULL DEFAULT 0,
			deductions BIGINT NOT NULL DEFAULT 0,
			net_salary BIGINT NOT NULL DEFAULT 0,
			status TEXT NOT NULL DEFAULT 'pending',
			payment_date TIMESTAMPTZ,
			UNIQUE (employee_id, month, year)
		)`,
	},
	{
		name: "009_company_settings",
		stmt: `CREATE TABLE IF NOT EXISTS company_settings (
			id UUID PRIMARY KEY,
			user_id UUID NOT NULL UNIQUE,
			company_name TEXT NOT NULL DEFAULT '',
			company_logo TEXT NOT NULL DEFAULT '',
			linkedin_integration BOOLEAN NOT NULL DEFAULT FALSE,
			instagram_integration BOOLEAN NOT NULL DEFAULT FALSE,
			theme TEXT NOT NULL DEFAULT 'light'
		)`,
	},
}

func main() {
	var (
		timeoutFlag int
		dryRunFlag  bool
	)
	flag.IntVar(&timeoutFlag, "timeout", 60, "overall timeout in seconds")
	flag.BoolVar(&dryRunFlag, "dry-run", false, "print pending migrations without applying them")
	flag.Parse()

	dbURL := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if dbURL == "" {
		exitWithError(errors.New("DATABASE_URL is required"))
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(timeoutFlag)*time.Second)
	defer cancel()

	db, err := sql.Open("postgres", dbURL)
	if err != nil {
		exitWithError(err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		exitWithError(fmt.Errorf("connect: %w", err))
	}

	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (
		name TEXT PRIMARY KEY,
		applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`); err != nil {
		exitWithError(fmt.Errorf("create schema_migrations: %w", err))
	}

	applied := map[string]bool{}
	rows, err := db.QueryContext(ctx, `SELECT name FROM schema_migrations`)
	if err != nil {
		exitWithError(err)
	}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			rows.Close()
			exitWithError(err)
		}
		applied[name] = true
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		exitWithError(err)
	}

	ran := 0
	for _, m := range migrations {
		if applied[m.name] {
			continue
		}
		if dryRunFlag {
			fmt.Printf("pending: %s\n", m.name)
			continue
		}
		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			exitWithError(err)
		}
		if _, err := tx.ExecContext(ctx, m.stmt); err != nil {
			tx.Rollback()
			exitWithError(fmt.Errorf("apply %s: %w", m.name, err))
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO schema_migrations (name) VALUES ($1)`, m.name); err != nil {
			tx.Rollback()
			exitWithError(fmt.Errorf("record %s: %w", m.name, err))
		}
		if err := tx.Commit(); err != nil {
			exitWithError(fmt.Errorf("commit %s: %w", m.name, err))
		}
		fmt.Printf("applied: %s\n", m.name)
		ran++
	}

	if !dryRunFlag {
		fmt.Printf("done: %d applied, %d already up to date\n", ran, len(migrations)-ran)
	}
}

func exitWithError(err error) {
	fmt.Fprintln(os.Stderr, "migrate:", err)
	os.Exit(1)
}
