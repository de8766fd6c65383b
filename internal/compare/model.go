package compare

// Finding is one inequality recorded during a walk.
type Finding struct {
	Path     string
	Category Category
	Message  string
}

// Report is the outcome of one comparison. It is read-only: accessors hand
// out copies.
type Report struct {
	successes []string
	findings  []Finding
}

// recorder accumulates messages for exactly one comparison run.
type recorder struct {
	successes []string
	findings  []Finding
}

func (r *recorder) success(msg string) {
	r.successes = append(r.successes, msg)
}

func (r *recorder) inequality(path string, category Category, msg string) {
	r.findings = append(r.findings, Finding{Path: path, Category: category, Message: msg})
}

func (r *recorder) report() Report {
	return Report{successes: r.successes, findings: r.findings}
}

// IsEqual is true when no inequality was recorded.
func (r Report) IsEqual() bool { return len(r.findings) == 0 }

// SuccessCount is the number of agreeing leaves.
func (r Report) SuccessCount() int { return len(r.successes) }

// InequalityCount is the number of recorded inequalities.
func (r Report) InequalityCount() int { return len(r.findings) }

// TotalCount is SuccessCount plus InequalityCount.
func (r Report) TotalCount() int { return len(r.successes) + len(r.findings) }

// Successes returns the success messages in the order they were recorded.
func (r Report) Successes() []string {
	return append([]string(nil), r.successes...)
}

// Inequalities returns the inequality messages in the order they were recorded.
func (r Report) Inequalities() []string {
	out := make([]string, len(r.findings))
	for i, f := range r.findings {
		out[i] = f.Message
	}
	return out
}

// Findings returns the structured inequalities in recording order.
func (r Report) Findings() []Finding {
	return append([]Finding(nil), r.findings...)
}
