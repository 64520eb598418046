package survey

import "fmt"

// LogStatus is the tri-state outcome of one audit line.
type LogStatus string

const (
	StatusPass LogStatus = "pass"
	StatusFail LogStatus = "fail"
	StatusInfo LogStatus = "info"
)

// LogEntry is one line of a survey audit report.
type LogEntry struct {
	Status  LogStatus `json:"status"`
	Message string    `json:"message"`
}

// Audit walks the survey tree and reports, in traversal order, whether the
// structure is complete: at least one participant, at least one category,
// a question in every category and a subquestion in every question.
// participantCount is the number of health funds linked to the survey.
func Audit(tree *Tree, participantCount int) []LogEntry {
	var log []LogEntry
	info := func(format string, args ...interface{}) {
		log = append(log, LogEntry{StatusInfo, fmt.Sprintf(format, args...)})
	}
	pass := func(format string, args ...interface{}) {
		log = append(log, LogEntry{StatusPass, fmt.Sprintf(format, args...)})
	}
	fail := func(format string, args ...interface{}) {
		log = append(log, LogEntry{StatusFail, fmt.Sprintf(format, args...)})
	}

	title := tree.Survey.Title
	info("Audit %s survey", title)

	if participantCount == 0 {
		fail("Entities in survey is required")
	} else {
		pass("%d entities exists", participantCount)
	}

	if len(tree.Categories) == 0 {
		fail("Category in %s survey is missing", title)
	} else {
		pass("%d category in %s exists", len(tree.Categories), title)
	}

	for _, category := range tree.Categories {
		info("Audit %s category", category.Name)
		if len(category.Questions) == 0 {
			fail("Question in %s category is missing", category.Name)
		} else {
			pass("%d question in %s category exists", len(category.Questions), category.Name)
		}

		for _, question := range category.Questions {
			info("Audit %s question", question.Name)
			if len(question.Subquestions) == 0 {
				fail("Subquestion in %s question is missing", question.Name)
			} else {
				pass("%d subquestion in %s question exists", len(question.Subquestions), question.Name)
			}
		}
	}
	return log
}

// Valid reports whether an audit log carries no failure.
func Valid(entries []LogEntry) bool {
	for _, e := range entries {
		if e.Status == StatusFail {
			return false
		}
	}
	return true
}
