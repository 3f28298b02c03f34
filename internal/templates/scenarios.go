package templates

import "github.com/ignite/phishing-trainer/internal/domain"

// scenario holds the default Liquid templates for one pretext type.
// Campaign-level email content overrides these when present.
type scenario struct {
	Subject  string
	BodyHTML string
}

var scenarios = map[string]scenario{
	domain.ScenarioCredentialTheft: {
		Subject: "Action Required: Verify your {{ company_name }} account within 24 hours",
		BodyHTML: `<p>Dear Valued Employee,</p>
<p>Our security system has detected unusual sign-in activity on your
{{ company_name }} account. To prevent suspension, you must verify your
credentials within 24 hours.</p>
<p><a href="{{ track_url }}">Verify My Account Now</a></p>
<p>Failure to act will result in your account being locked.</p>
<p>IT Security Team<br>{{ company_name | titlecase }}</p>`,
	},
	domain.ScenarioInvoice: {
		Subject: "Invoice #INV-20417 overdue - immediate payment required",
		BodyHTML: `<p>Hello,</p>
<p>Our records show invoice <strong>#INV-20417</strong> issued to
{{ company_name }} remains unpaid. A late fee will be applied unless
payment is confirmed today.</p>
<p><a href="{{ track_url }}">Review Invoice</a></p>
<p>Accounts Receivable</p>`,
	},
	domain.ScenarioShipping: {
		Subject: "Delivery attempt failed - confirm your address",
		BodyHTML: `<p>Dear Customer,</p>
<p>We attempted to deliver a package addressed to you at
{{ company_name }} but could not complete the delivery. Please confirm
your address within 48 hours or the package will be returned.</p>
<p><a href="{{ track_url }}">Confirm Delivery Address</a></p>
<p>Customer Service</p>`,
	},
	domain.ScenarioOAuthConsent: {
		Subject: "{{ company_name }} is migrating to a new document platform",
		BodyHTML: `<p>Hi {{ recipient | mask_email }},</p>
<p>{{ company_name }} is rolling out a new document collaboration
platform. To keep access to your shared files, grant the migration tool
access to your workspace account.</p>
<p><a href="{{ track_url }}">Authorize Migration</a></p>
<p>Workplace Services</p>`,
	},
}

// ScenarioTypes lists the known pretext keys, for input validation and
// the scenarios listing endpoint.
func ScenarioTypes() []string {
	return []string{
		domain.ScenarioCredentialTheft,
		domain.ScenarioInvoice,
		domain.ScenarioShipping,
		domain.ScenarioOAuthConsent,
	}
}

// lessonTemplate is the page shown right after a tracked click. It
// reveals the simulation and leads into the quiz.
const lessonTemplate = `<!DOCTYPE html>
<html>
<head><title>Security Awareness Training</title></head>
<body style="font-family: sans-serif; max-width: 640px; margin: 40px auto;">
  <h1>This was a phishing simulation</h1>
  <p>The email you just clicked was part of a security awareness exercise
  run by {{ company_name | default: "your organization" }}. No harm was
  done and nothing was installed.</p>
  <p>Real attackers use emails exactly like that one. Take the short quiz
  below to learn what to watch for.</p>
  <p><a href="{{ quiz_url }}">Start the quiz</a></p>
</body>
</html>`

// RenderLesson renders the post-click lesson page.
func (e *Engine) RenderLesson(companyName, quizURL string) (string, error) {
	return e.Render("lesson", lessonTemplate, map[string]interface{}{
		"company_name": companyName,
		"quiz_url":     quizURL,
	})
}
