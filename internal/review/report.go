package review

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"exomatch/internal/catalog"
	"exomatch/internal/matcher"
)

// Decision is the operator's verdict on one entry.
type Decision string

const (
	DecisionPending Decision = ""
	DecisionApprove Decision = "OUI"
	DecisionReject  Decision = "NON"
)

// ParseDecision accepts OUI/NON and the yes/no spellings.
func ParseDecision(value string) (Decision, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "oui", "o", "yes", "y", "true":
		return DecisionApprove, nil
	case "non", "n", "no", "false":
		return DecisionReject, nil
	case "", "pending":
		return DecisionPending, nil
	}
	return DecisionPending, fmt.Errorf("unknown decision %q (want OUI or NON)", value)
}

// UnmarshalJSON normalizes hand-edited decisions.
func (d *Decision) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := ParseDecision(raw)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Entry is one catalog row and its proposed update.
type Entry struct {
	VideoID        string             `json:"videoId"`
	Query          string             `json:"query"`
	Region         string             `json:"region,omitempty"`
	Matched        string             `json:"matched,omitempty"`
	Source         string             `json:"source,omitempty"`
	Score          float64            `json:"score"`
	Method         matcher.Method     `json:"method"`
	Confidence     matcher.Confidence `json:"confidence"`
	RegionFallback bool               `json:"regionFallback,omitempty"`
	Fields         catalog.Patch      `json:"fields,omitempty"`
	Decision       Decision           `json:"decision"`
}

// IsMatch reports whether a candidate was found for the entry.
func (e Entry) IsMatch() bool {
	return e.Method != matcher.MethodNone && e.Method != "" && e.Matched != ""
}

// Problem is a per-file or per-record failure kept in the report.
type Problem struct {
	Stage   string `json:"stage"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// Report is the result of a match run.
type Report struct {
	RunID        string    `json:"runId"`
	CreatedAt    time.Time `json:"createdAt"`
	VideoType    string    `json:"videoType"`
	Threshold    float64   `json:"threshold"`
	RegionPolicy string    `json:"regionPolicy"`
	Documents    []string  `json:"documents"`
	Records      int       `json:"records"`
	Entries      []Entry   `json:"entries"`
	Errors       []Problem `json:"errors,omitempty"`
}

// AddError records a failure without aborting the run.
func (r *Report) AddError(stage, subject string, err error) {
	if err == nil {
		return
	}
	r.Errors = append(r.Errors, Problem{Stage: stage, Subject: subject, Message: err.Error()})
}

// Sort orders entries for review: matches first by descending score, then
// unmatched titles alphabetically.
func (r *Report) Sort() {
	sort.SliceStable(r.Entries, func(i, j int) bool {
		a, b := r.Entries[i], r.Entries[j]
		if a.IsMatch() != b.IsMatch() {
			return a.IsMatch()
		}
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		return a.Query < b.Query
	})
}

// AutoApprove marks pending matched entries whose confidence is at least min
// and that carry fields. Entries already decided are left alone. It returns
// the number of entries approved.
func (r *Report) AutoApprove(min matcher.Confidence) int {
	if min == matcher.ConfidenceNone || min == "" {
		return 0
	}
	n := 0
	for i := range r.Entries {
		e := &r.Entries[i]
		if e.Decision != DecisionPending || !e.IsMatch() || len(e.Fields) == 0 {
			continue
		}
		if e.Confidence.AtLeast(min) {
			e.Decision = DecisionApprove
			n++
		}
	}
	return n
}

// ErrUnknownEntry is returned by SetDecision for an id not in the report.
var ErrUnknownEntry = errors.New("no report entry for video")

// SetDecision records a decision for one video.
func (r *Report) SetDecision(videoID string, d Decision) error {
	for i := range r.Entries {
		if r.Entries[i].VideoID == videoID {
			r.Entries[i].Decision = d
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrUnknownEntry, videoID)
}

// Approved returns the entries an apply run should write.
func (r *Report) Approved() []Entry {
	var out []Entry
	for _, e := range r.Entries {
		if e.Decision == DecisionApprove && e.IsMatch() && len(e.Fields) > 0 {
			out = append(out, e)
		}
	}
	return out
}

// Summary is the count line shown after every run.
type Summary struct {
	Total        int                        `json:"total"`
	Matched      int                        `json:"matched"`
	NotMatched   int                        `json:"notMatched"`
	Errors       int                        `json:"errors"`
	ByConfidence map[matcher.Confidence]int `json:"byConfidence"`
	ByMethod     map[matcher.Method]int     `json:"byMethod"`
	Approved     int                        `json:"approved"`
	Rejected     int                        `json:"rejected"`
	Pending      int                        `json:"pending"`
}

// Summary counts the report.
func (r *Report) Summary() Summary {
	s := Summary{
		Total:        len(r.Entries),
		Errors:       len(r.Errors),
		ByConfidence: map[matcher.Confidence]int{},
		ByMethod:     map[matcher.Method]int{},
	}
	for _, e := range r.Entries {
		if !e.IsMatch() {
			s.NotMatched++
			continue
		}
		s.Matched++
		s.ByConfidence[e.Confidence]++
		s.ByMethod[e.Method]++
		switch e.Decision {
		case DecisionApprove:
			s.Approved++
		case DecisionReject:
			s.Rejected++
		default:
			s.Pending++
		}
	}
	return s
}

// FileName names a report file after its run.
func FileName(r *Report) string {
	return fmt.Sprintf("report-%s-%s.json", r.CreatedAt.UTC().Format("20060102-150405"), shortID(r.RunID))
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// Write saves r as indented JSON, creating parent directories.
func Write(path string, r *Report) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create report directory: %w", err)
	}
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replace report: %w", err)
	}
	return nil
}

// Read loads a report written by Write, possibly hand-edited.
func Read(path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read report: %w", err)
	}
	var r Report
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("decode report %s: %w", path, err)
	}
	for _, e := range r.Entries {
		if err := e.Fields.Validate(); err != nil {
			return nil, fmt.Errorf("report %s entry %s: %w", path, e.VideoID, err)
		}
	}
	return &r, nil
}

// Latest returns the newest report file in dir. Reports are ordered by the
// createdAt they carry, falling back to the file's modification time when it
// cannot be read; equal times are ordered by name.
func Latest(dir string) (string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "report-*.json"))
	if err != nil {
		return "", err
	}
	if len(matches) == 0 {
		return "", fmt.Errorf("no report found in %s", dir)
	}
	created := make(map[string]time.Time, len(matches))
	for _, path := range matches {
		created[path] = createdAt(path)
	}
	sort.Slice(matches, func(i, j int) bool {
		a, b := created[matches[i]], created[matches[j]]
		if !a.Equal(b) {
			return a.Before(b)
		}
		return matches[i] < matches[j]
	})
	return matches[len(matches)-1], nil
}

func createdAt(path string) time.Time {
	var head struct {
		CreatedAt time.Time `json:"createdAt"`
	}
	if data, err := os.ReadFile(path); err == nil {
		if json.Unmarshal(data, &head) == nil && !head.CreatedAt.IsZero() {
			return head.CreatedAt
		}
	}
	if info, err := os.Stat(path); err == nil {
		return info.ModTime()
	}
	return time.Time{}
}
