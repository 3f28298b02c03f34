package quiz

// DefaultBank returns the built-in question bank used when no YAML file
// is configured. Categories mirror the two halves of the lesson page:
// spotting the indicators in the email just clicked, and what to do
// about the next one.
func DefaultBank() *Bank {
	return &Bank{categories: map[string][]Question{
		"phishing_indicators": {
			{
				ID:       "sender_mismatch",
				Question: "The display name said your IT department but the address ended in an unfamiliar domain. What does that suggest?",
				Options: []string{
					"The sender is impersonating someone you trust",
					"The IT department changed email providers",
					"Nothing, display names are unreliable anyway",
					"The message was forwarded",
				},
				CorrectAnswer: 0,
				Explanation:   "A display name that doesn't match the sending domain is the most common impersonation tell. Always check the actual address.",
			},
			{
				ID:       "urgency",
				Question: "The email demanded action within 24 hours or your account would be locked. Why do attackers use deadlines like this?",
				Options: []string{
					"Deadlines are required by security policy",
					"To pressure you into acting before you can think or verify",
					"To help IT schedule account maintenance",
					"Because locked accounts are expensive to restore",
				},
				CorrectAnswer: 1,
				Explanation:   "Artificial urgency short-circuits careful reading. Legitimate notices rarely threaten immediate lockout.",
			},
			{
				ID:       "generic_greeting",
				Question: "The message opened with \"Dear Valued Employee\" instead of your name. What does that indicate?",
				Options: []string{
					"The sender respects your privacy",
					"It was probably sent in bulk to many recipients",
					"Your name is missing from the directory",
					"It came from an external partner",
				},
				CorrectAnswer: 1,
				Explanation:   "Generic greetings are a hallmark of mass phishing. Internal systems normally address you by name.",
			},
			{
				ID:       "suspicious_link",
				Question: "Before clicking a link in an email, what is the safest first check?",
				Options: []string{
					"Click it and see if the page looks official",
					"Reply and ask the sender if the link is safe",
					"Hover over the link and inspect the real destination",
					"Open it in a private browser window",
				},
				CorrectAnswer: 2,
				Explanation:   "Hovering reveals the true destination without visiting it. Link text and destination frequently differ in phishing mail.",
			},
			{
				ID:       "poor_formatting",
				Question: "Spelling mistakes and inconsistent branding in an email most likely mean:",
				Options: []string{
					"The sender was in a hurry",
					"The email may not come from the organization it claims",
					"Your mail client rendered it wrong",
					"It is an internal draft",
				},
				CorrectAnswer: 1,
				Explanation:   "Real corporate mail goes through templates and review. Sloppy formatting is a cheap but reliable warning sign.",
			},
		},
		"best_practices": {
			{
				ID:       "next_steps",
				Question: "You receive a suspicious email at work. What should you do?",
				Options: []string{
					"Delete it and move on",
					"Forward it to colleagues to warn them",
					"Report it to your security team using the official channel",
					"Reply asking the sender to stop",
				},
				CorrectAnswer: 2,
				Explanation:   "Reporting lets the security team block the sender for everyone. Deleting only protects you, and forwarding spreads the lure.",
			},
			{
				ID:       "clicked_link",
				Question: "You realize you clicked a link in a phishing email. What matters most now?",
				Options: []string{
					"Nothing, if you didn't enter a password",
					"Report it immediately, even if nothing seemed to happen",
					"Run a virus scan and keep it to yourself",
					"Change your desktop wallpaper back",
				},
				CorrectAnswer: 1,
				Explanation:   "Fast reporting limits damage. Drive-by payloads and token theft can happen without any visible sign.",
			},
			{
				ID:       "verify_requests",
				Question: "An email asks you to urgently buy gift cards for your manager. How do you verify it?",
				Options: []string{
					"Reply to the email and ask for confirmation",
					"Contact your manager through a separate, known channel",
					"Check whether the email signature looks right",
					"Buy one card first to test",
				},
				CorrectAnswer: 1,
				Explanation:   "Always verify unusual requests out of band. Replying to the mail just talks to the attacker.",
			},
		},
	}}
}
