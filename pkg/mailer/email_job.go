package mailer

// Template names understood by the worker.
const (
	TemplateDonationStatus = "donation_status"
	TemplateAccountBlocked = "account_blocked"
	TemplateWelcome        = "welcome"
)

// EmailJob is the JSON payload put on the RabbitMQ queue for sending email.
// Either Text/HTML are given directly, or Template plus Data and the worker
// renders the body.
type EmailJob struct {
	To       string         `json:"to"`
	Subject  string         `json:"subject,omitempty"`
	Text     string         `json:"text,omitempty"`
	HTML     string         `json:"html,omitempty"`
	Template string         `json:"template,omitempty"`
	Data     map[string]any `json:"data,omitempty"`
}
