package domain

// Decision enumerates the screening verdicts produced by the automation pipeline.
type Decision string

const (
	DecisionShortlisted Decision = "shortlisted"
	DecisionKIV         Decision = "kiv"
	DecisionRejected    Decision = "rejected"
)

// ScreeningResult is one AI-screened applicant row written by the resume
// screening workflow. Scores are percentages.
type ScreeningResult struct {
	ID              string
	FullName        string
	Email           string
	PhoneNumber     string
	Subject         string
	SkillsScore     int
	ExperienceScore int
	EducationScore  int
	OverallScore    int
	ApplicantSkill  string
	ReasonSummary   string
	Decision        Decision
	Status          string
	ResumeURL       string
	ResumeFileID    string
	ResumeFilename  string
}

// ScreeningStats summarizes a screening result set for the dashboard header.
type ScreeningStats struct {
	TotalReviewed int
	AverageScore  int
	Shortlisted   int
	KIV           int
	Rejected      int
	Pending       int
}

// SummarizeScreening derives header stats from a result list.
func SummarizeScreening(results []ScreeningResult) ScreeningStats {
	stats := ScreeningStats{TotalReviewed: len(results)}
	total := 0
	for _, r := range results {
		total += r.OverallScore
		switch r.Decision {
		case DecisionShortlisted:
			stats.Shortlisted++
		case DecisionKIV:
			stats.KIV++
		case DecisionRejected:
			stats.Rejected++
		default:
			stats.Pending++
		}
	}
	if len(results) > 0 {
		stats.AverageScore = (total + len(results)/2) / len(results)
	}
	return stats
}
