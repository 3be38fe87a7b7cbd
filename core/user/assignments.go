package user

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/bytedance/sonic"

	"github.com/trezcool/huda/core/task"
)

var classGroupRegex = regexp.MustCompile(`(?i)class\s*(\d+)\s*\(([^)]*)\)`)

// TeachingAssignments are the subjects an admin teaches: Any applies to every class,
// ByClass to the given class only.
type TeachingAssignments struct {
	Any     []string            `json:"any,omitempty"`
	ByClass map[string][]string `json:"by_class,omitempty"`
}

// ParseTeachingAssignments reads the subjects cell of an admin. Accepted encodings:
//
//	Math, Science                 (every class)
//	3:Math|Science;4:English      (per class)
//	Class 3 (Math, Science)       (per class)
//	["Math"] or {"3": ["Math"]}   (JSON)
func ParseTeachingAssignments(raw string) TeachingAssignments {
	raw = strings.TrimSpace(raw)
	var ta TeachingAssignments
	switch {
	case raw == "":
	case strings.HasPrefix(raw, "[") || strings.HasPrefix(raw, "{"):
		ta.parseJSON(raw)
	case classGroupRegex.MatchString(raw):
		for _, m := range classGroupRegex.FindAllStringSubmatch(raw, -1) {
			ta.add(m[1], splitList(m[2], ",")...)
		}
	case strings.Contains(raw, ":"):
		for _, part := range strings.Split(raw, ";") {
			kv := strings.SplitN(part, ":", 2)
			if len(kv) != 2 {
				ta.Any = append(ta.Any, splitList(part, ",")...)
				continue
			}
			ta.add(kv[0], splitList(strings.ReplaceAll(kv[1], "|", ","), ",")...)
		}
	default:
		ta.Any = splitList(raw, ",")
	}
	return ta
}

func (ta *TeachingAssignments) parseJSON(raw string) {
	var list []string
	if err := sonic.UnmarshalString(raw, &list); err == nil {
		ta.Any = cleanList(list)
		return
	}
	var byClass map[string][]string
	if err := sonic.UnmarshalString(raw, &byClass); err == nil {
		for class, subjects := range byClass {
			ta.add(class, cleanList(subjects)...)
		}
		return
	}
	var flat map[string]string
	if err := sonic.UnmarshalString(raw, &flat); err == nil {
		for class, subjects := range flat {
			ta.add(class, splitList(subjects, ",")...)
		}
		return
	}
	// not JSON after all
	ta.Any = splitList(raw, ",")
}

func (ta *TeachingAssignments) add(class string, subjects ...string) {
	class = normalizeClass(class)
	if class == "" || len(subjects) == 0 {
		return
	}
	if ta.ByClass == nil {
		ta.ByClass = make(map[string][]string)
	}
	ta.ByClass[class] = append(ta.ByClass[class], subjects...)
}

func (ta TeachingAssignments) IsEmpty() bool {
	return len(ta.Any) == 0 && len(ta.ByClass) == 0
}

// For lists the subjects taught in class.
func (ta TeachingAssignments) For(class string) []string {
	subjects := append([]string{}, ta.ByClass[normalizeClass(class)]...)
	return append(subjects, ta.Any...)
}

// Teaches reports whether subject is taught in class. A task subject matches when it
// contains a taught subject, ignoring case ("Advanced Math" matches "math").
func (ta TeachingAssignments) Teaches(class, subject string) bool {
	subject = strings.ToLower(strings.TrimSpace(subject))
	if subject == "" {
		return false
	}
	for _, s := range ta.For(class) {
		if strings.Contains(subject, strings.ToLower(s)) {
			return true
		}
	}
	return false
}

// SubjectsForClass returns the distinct subjects of tasks that ta covers in class, in first-seen order.
func SubjectsForClass(tasks []task.Task, ta TeachingAssignments, class string) []string {
	seen := make(map[string]bool)
	subjects := make([]string, 0)
	for _, t := range tasks {
		s := strings.TrimSpace(t.Subject)
		if seen[s] || !ta.Teaches(class, s) {
			continue
		}
		seen[s] = true
		subjects = append(subjects, s)
	}
	return subjects
}

func normalizeClass(class string) string {
	class = strings.TrimSpace(class)
	if n, err := strconv.Atoi(class); err == nil {
		return strconv.Itoa(n)
	}
	return class
}

func splitList(s, sep string) []string {
	return cleanList(strings.Split(s, sep))
}

func cleanList(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
