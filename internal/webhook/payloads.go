package webhook

// Marker values identify which automation workflow a payload should run.
const (
	MarkerResumeScreening = "resume screening activated"
	MarkerJobPosting      = "job posting"
)

// ResumeScreening builds the JSON payload that activates the resume screening
// workflow.
func ResumeScreening() Fields {
	return Fields{"message": MarkerResumeScreening}
}

// JobPosting builds the multipart payload that shares a job posting, carrying
// the banner image as the single binary attachment.
func JobPosting(title string, banner *Attachment) Form {
	form := Form{
		Fields: map[string]string{
			"message":   MarkerJobPosting,
			"job_title": title,
		},
	}
	if banner != nil {
		att := *banner
		if att.Field == "" {
			att.Field = "image"
		}
		form.Attachment = &att
	}
	return form
}
