package helpers

import (
	"fmt"
	"strings"

	"github.com/oksasatya/fitlife-api/pkg/mailer"
	mailtpl "github.com/oksasatya/fitlife-api/pkg/mailer/templates"
)

// EnsureRecipientAndEmail backfills Data["Email"] from the job recipient so
// templates can always greet the user.
func EnsureRecipientAndEmail(job *mailer.EmailJob) {
	if job.Data == nil {
		job.Data = map[string]any{}
	}
	if v, ok := job.Data["Email"]; !ok || fmt.Sprintf("%v", v) == "" {
		job.Data["Email"] = job.To
	}
}

// ValidateJob reports whether the job can be rendered and sent.
func ValidateJob(job mailer.EmailJob) error {
	if strings.TrimSpace(job.To) == "" {
		return fmt.Errorf("email job without recipient")
	}
	if job.Template != "" {
		switch strings.ToLower(job.Template) {
		case mailtpl.Welcome:
			return nil
		default:
			return fmt.Errorf("unknown email template %q", job.Template)
		}
	}
	if job.Subject == "" || (job.Text == "" && job.HTML == "") {
		return fmt.Errorf("either template or subject with text/html is required")
	}
	return nil
}

// RenderJob returns subject, text and html for the job, rendering its template when set.
func RenderJob(job mailer.EmailJob) (string, string, string, error) {
	if job.Template == "" {
		return job.Subject, job.Text, job.HTML, nil
	}
	return mailtpl.Render(strings.ToLower(job.Template), job.Data)
}
