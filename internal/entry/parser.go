package entry

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// durationPattern matches Xh, Ym and XhYm (e.g., "2h", "45m", "1h30m")
var durationPattern = regexp.MustCompile(`^(?:(\d+)h)?(?:(\d+)m)?$`)

// MaxDurationMinutes is the maximum legacy duration per entry (24 hours)
const MaxDurationMinutes = 24 * 60

// ParseDuration parses a duration in Xh, Ym or XhYm format and returns minutes.
// It feeds the legacy Minutes field of entries that have no start time.
func ParseDuration(input string) (int, error) {
	m := durationPattern.FindStringSubmatch(strings.TrimSpace(input))
	if m == nil || (m[1] == "" && m[2] == "") {
		return 0, fmt.Errorf("invalid time format: expected Xh, Xm, or XhYm, got %s", input)
	}

	hours, err := durationPart(m[1])
	if err != nil {
		return 0, fmt.Errorf("invalid time format: expected Xh, Xm, or XhYm, got %s", input)
	}
	mins, err := durationPart(m[2])
	if err != nil {
		return 0, fmt.Errorf("invalid time format: expected Xh, Xm, or XhYm, got %s", input)
	}
	// bound each part first so hours*60 cannot wrap
	if hours > MaxDurationMinutes/60 || mins > MaxDurationMinutes {
		return 0, fmt.Errorf("invalid duration: exceeds maximum of 24 hours (%d minutes)", MaxDurationMinutes)
	}

	minutes := hours*60 + mins
	if minutes <= 0 {
		return 0, fmt.Errorf("invalid duration: duration cannot be zero")
	}
	if minutes > MaxDurationMinutes {
		return 0, fmt.Errorf("invalid duration: exceeds maximum of 24 hours (%d minutes)", MaxDurationMinutes)
	}
	return minutes, nil
}

func durationPart(digits string) (int, error) {
	if digits == "" {
		return 0, nil
	}
	return strconv.Atoi(digits)
}

// projectPattern matches @project tokens (e.g., "@acme", "@my-project")
var projectPattern = regexp.MustCompile(`@([\p{L}\p{N}_.-]+)`)

var spaceRun = regexp.MustCompile(`\s+`)

// ParseQuickInput splits free text such as "@acme fix login" into a project
// and a comment. When several @project tokens appear the last one wins.
// Without a token the first word is the project and the rest the comment.
func ParseQuickInput(input string) (project, comment string) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", ""
	}

	if matches := projectPattern.FindAllStringSubmatch(input, -1); len(matches) > 0 {
		project = matches[len(matches)-1][1]
		comment = projectPattern.ReplaceAllString(input, "")
		comment = spaceRun.ReplaceAllString(strings.TrimSpace(comment), " ")
		return project, comment
	}

	parts := strings.SplitN(input, " ", 2)
	project = parts[0]
	if len(parts) == 2 {
		comment = spaceRun.ReplaceAllString(strings.TrimSpace(parts[1]), " ")
	}
	return project, comment
}
