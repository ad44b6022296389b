package catalog

import (
	"regexp"
	"strings"
)

var (
	optionPrefix  = regexp.MustCompile(`^-\s*`)
	optionWithTag = regexp.MustCompile(`^(.*)\(\+3\s*([^)]+)\)\s*$`)
)

// ParseSelfAssessment reads a questionnaire written as a question line followed by
// option lines starting with an ASCII hyphen. En and em dashes do not start an
// option. An option ending in "(+3 属性)" is tagged with that attribute. Lines
// that are not followed by options are treated as prose and skipped.
// Returned questions carry no ids.
func ParseSelfAssessment(text string) []Question {
	var lines []string
	for _, l := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		if l = strings.TrimSpace(l); l != "" {
			lines = append(lines, l)
		}
	}

	var questions []Question
	for i := 0; i < len(lines); {
		line := lines[i]
		if isOption(line) {
			i++
			continue
		}

		var opts []Option
		j := i + 1
		for ; j < len(lines) && isOption(lines[j]); j++ {
			opts = append(opts, parseOption(lines[j]))
		}

		if len(opts) == 0 {
			i++
			continue
		}
		questions = append(questions, Question{Question: line, Options: opts})
		i = j
	}
	return questions
}

func isOption(line string) bool {
	return strings.HasPrefix(line, "-")
}

func parseOption(line string) Option {
	opt := strings.TrimSpace(optionPrefix.ReplaceAllString(line, ""))
	if m := optionWithTag.FindStringSubmatch(opt); m != nil {
		return Option{Text: strings.TrimSpace(m[1]), Attribute: strings.TrimSpace(m[2])}
	}
	return Option{Text: opt}
}
