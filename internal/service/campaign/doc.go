// Package campaign implements simulation-campaign lifecycle management.
//
// The service owns creation (including target-list construction and
// tracking-link issuance), cloning, deletion, the send-step bookkeeping
// reported by the email-sending collaborator, and on-demand statistics.
// It never performs email delivery itself; the Sender contract only
// requires that a target marked sent was sent the exact track_url this
// service issued.
package campaign
