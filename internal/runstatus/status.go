// Package runstatus names the states a long-running watch moves through.
package runstatus

import "strings"

const (
	Watching      = "Watching"
	Publishing    = "Publishing"
	Published     = "Published"
	PublishFailed = "Publish failed"
	Stopped       = "Stopped"
)

// Key normalizes a status for comparisons and log fields.
func Key(status string) string {
	return strings.ToLower(strings.TrimSpace(status))
}
