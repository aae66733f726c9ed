package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"exomatch/internal/catalog"
	"exomatch/internal/config"
	"exomatch/internal/exercise"
	"exomatch/internal/extract"
	"exomatch/internal/fieldmap"
	"exomatch/internal/logging"
	"exomatch/internal/matcher"
	"exomatch/internal/review"
)

// Options configures a Runner.
type Options struct {
	// RunID identifies the run in logs and the report. Empty generates one.
	RunID  string
	Logger *slog.Logger
	// Now overrides the clock in tests.
	Now func() time.Time
}

// Runner executes match and apply runs against one catalog.
type Runner struct {
	cfg        *config.Config
	store      *catalog.Store
	components Components
	extractor  *extract.Extractor
	logger     *slog.Logger
	runID      string
	now        func() time.Time
}

// New builds a Runner. store may be nil for runs that only read documents.
func New(cfg *config.Config, store *catalog.Store, opts Options) (*Runner, error) {
	if cfg == nil {
		return nil, errors.New("pipeline: nil config")
	}
	components, err := BuildComponents(cfg)
	if err != nil {
		return nil, err
	}
	runID := strings.TrimSpace(opts.RunID)
	if runID == "" {
		runID = uuid.NewString()
	}
	logger := logging.NewComponentLogger(opts.Logger, "pipeline")
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Runner{
		cfg:        cfg,
		store:      store,
		components: components,
		extractor:  extract.New(extract.Options{MaxFileSize: cfg.MaxFileSizeBytes(), Logger: logger}),
		logger:     logger,
		runID:      runID,
		now:        now,
	}, nil
}

// RunID returns the identifier stamped on this runner's logs and reports.
func (r *Runner) RunID() string {
	return r.runID
}

// Components exposes the configured building blocks.
func (r *Runner) Components() Components {
	return r.components
}

// Documents is the outcome of LoadDocuments.
type Documents struct {
	Paths    []string
	Records  []exercise.Record
	Failures []extract.FileError
}

// LoadDocuments extracts and parses every document under paths. Directories
// are walked; unreadable files are reported in Failures and skipped.
func (r *Runner) LoadDocuments(ctx context.Context, paths []string) (Documents, error) {
	ctx = logging.WithRunID(ctx, r.runID)
	var out Documents
	for _, root := range paths {
		found, err := extract.Discover(root)
		if err != nil {
			out.Failures = append(out.Failures, extract.FileError{Path: root, Err: err})
			continue
		}
		out.Paths = append(out.Paths, found...)
	}
	if len(out.Paths) == 0 && len(out.Failures) > 0 {
		return out, fmt.Errorf("no readable documents: %w", out.Failures[0])
	}

	docs, failures := r.extractor.ExtractAll(ctx, out.Paths)
	out.Failures = append(out.Failures, failures...)
	if err := ctx.Err(); err != nil {
		return out, err
	}

	for _, doc := range docs {
		records := r.components.Parser.Parse(doc.Text, r.sourceID(doc.Path))
		if len(records) == 0 {
			logging.WarnWithContext(r.logger, "document has no exercises", "document_empty",
				logging.String(logging.FieldSource, doc.Path),
				logging.String(logging.FieldErrorHint, "check the exercise titles are followed by a muscle cible line"),
				logging.String(logging.FieldImpact, "nothing from this document can be matched"),
			)
			continue
		}
		r.logger.DebugContext(ctx, "document parsed",
			logging.String(logging.FieldSource, doc.Path),
			logging.Int("records", len(records)),
		)
		out.Records = append(out.Records, records...)
	}
	r.logger.InfoContext(ctx, "documents loaded",
		logging.Int("documents", len(docs)),
		logging.Int("records", len(out.Records)),
		logging.Int("failures", len(out.Failures)),
	)
	return out, nil
}

// sourceID is the document path relative to the documents directory when
// possible, so region folders stay visible to the parser.
func (r *Runner) sourceID(path string) string {
	if base := r.cfg.Paths.DocumentsDir; base != "" {
		if rel, err := filepath.Rel(base, path); err == nil && !strings.HasPrefix(rel, "..") {
			return filepath.ToSlash(rel)
		}
	}
	return filepath.ToSlash(path)
}

// MatchOptions narrows one match run. Zero values come from the config.
type MatchOptions struct {
	Paths      []string
	VideoType  string
	Region     string
	CrossTypes []string
	// Fields restricts the proposed updates; empty proposes every field.
	Fields    []string
	Overwrite bool
}

// Match builds the review report for the catalog rows of one video type.
func (r *Runner) Match(ctx context.Context, opts MatchOptions) (*review.Report, error) {
	if r.store == nil {
		return nil, errors.New("pipeline: match needs a catalog")
	}
	ctx = logging.WithRunID(ctx, r.runID)
	opts = r.withDefaults(opts)
	for _, field := range opts.Fields {
		if !catalog.ValidField(field) {
			return nil, fmt.Errorf("unknown field %q", field)
		}
	}

	report := &review.Report{
		RunID:        r.runID,
		CreatedAt:    r.now().UTC(),
		VideoType:    opts.VideoType,
		Threshold:    r.components.Matcher.Policy().Threshold,
		RegionPolicy: string(r.components.Matcher.Policy().Region),
	}

	docs, err := r.LoadDocuments(ctx, opts.Paths)
	if err != nil {
		return nil, err
	}
	report.Documents = docs.Paths
	report.Records = len(docs.Records)
	for _, failure := range docs.Failures {
		report.AddError("extract", failure.Path, failure.Err)
	}

	filter := catalog.Filter{VideoType: opts.VideoType, Region: opts.Region}
	if !opts.Overwrite {
		filter.MissingFields = opts.Fields
	}
	targets, err := r.store.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("load catalog targets: %w", err)
	}

	primary := r.components.Matcher.Index(docs.Records)
	var cross *matcher.Index
	if len(opts.CrossTypes) > 0 {
		rows, err := r.store.List(ctx, catalog.Filter{VideoTypes: opts.CrossTypes})
		if err != nil {
			return nil, fmt.Errorf("load cross-catalog candidates: %w", err)
		}
		candidates := make([]exercise.Record, 0, len(rows))
		for _, row := range rows {
			candidates = append(candidates, row.Record())
		}
		cross = r.components.Matcher.Index(candidates)
		r.logger.DebugContext(ctx, "cross-catalog candidates loaded",
			logging.Int("candidates", len(candidates)),
			logging.String("types", strings.Join(opts.CrossTypes, ",")),
		)
	}

	for _, target := range targets {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		report.Entries = append(report.Entries, r.matchOne(ctx, target, primary, cross, opts))
	}
	report.Sort()

	if level := r.cfg.Matching.AutoApprove; level != "" && level != "none" {
		min, err := matcher.ParseConfidence(level)
		if err != nil {
			return nil, err
		}
		report.AutoApprove(min)
	}

	summary := report.Summary()
	r.logger.InfoContext(ctx, "match run complete",
		logging.String(logging.FieldEventType, "match_complete"),
		logging.Int("targets", summary.Total),
		logging.Int("matched", summary.Matched),
		logging.Int("not_matched", summary.NotMatched),
		logging.Int("errors", summary.Errors),
	)
	return report, nil
}

func (r *Runner) withDefaults(opts MatchOptions) MatchOptions {
	if len(opts.Paths) == 0 {
		opts.Paths = []string{r.cfg.Paths.DocumentsDir}
	}
	if opts.VideoType == "" {
		opts.VideoType = r.cfg.Catalog.VideoType
	}
	if opts.CrossTypes == nil {
		opts.CrossTypes = r.cfg.Catalog.CrossTypes
	}
	if !opts.Overwrite {
		opts.Overwrite = r.cfg.Matching.Overwrite
	}
	if len(opts.Fields) == 0 {
		opts.Fields = catalog.Fields()
	}
	return opts
}

func (r *Runner) matchOne(ctx context.Context, target catalog.Video, primary, cross *matcher.Index, opts MatchOptions) review.Entry {
	query := matcher.Query{Title: target.Title, Ordinal: target.VideoNumber, Region: target.Region}
	entry := review.Entry{
		VideoID:    target.ID,
		Query:      target.Title,
		Region:     target.Region,
		Method:     matcher.MethodNone,
		Confidence: matcher.ConfidenceNone,
	}

	res := primary.Find(query)
	if !res.Matched() && cross != nil {
		res = cross.Find(query)
	}
	if !res.Matched() {
		attrs := logging.DecisionAttrs("match", "none", "no candidate cleared the threshold")
		attrs = append(attrs, logging.VideoAttrs(target.ID, target.Title)...)
		r.logger.DebugContext(ctx, "no match", logging.Args(attrs...)...)
		return entry
	}

	rec := res.Candidate
	entry.Matched = rec.Title
	entry.Source = rec.Source
	entry.Score = res.Score
	entry.Method = res.Method
	entry.Confidence = res.Confidence()
	entry.RegionFallback = res.RegionFallback
	entry.Fields = r.proposeFields(target, *rec, opts)

	attrs := logging.DecisionAttrs("match", string(res.Method), string(entry.Confidence))
	attrs = append(attrs, logging.VideoAttrs(target.ID, target.Title)...)
	attrs = append(attrs, logging.String("matched", rec.Title), logging.Float64("score", res.Score))
	r.logger.DebugContext(ctx, "match found", logging.Args(attrs...)...)
	return entry
}

// proposeFields maps a matched record onto the target's writable fields.
// A field is proposed when the record has a value and the target lacks one,
// or overwrite is set and the value differs.
func (r *Runner) proposeFields(target catalog.Video, rec exercise.Record, opts MatchOptions) catalog.Patch {
	values := map[string]any{
		catalog.FieldIntensity:        strings.TrimSpace(rec.Intensity),
		catalog.FieldStartingPosition: strings.TrimSpace(rec.StartingPosition),
		catalog.FieldMovement:         strings.TrimSpace(rec.Movement),
		catalog.FieldSeries:           strings.TrimSpace(rec.Series),
		catalog.FieldTheme:            strings.TrimSpace(rec.Theme),
	}
	if strings.TrimSpace(rec.Intensity) != "" {
		_, label := r.components.Mapper.Difficulty(rec.Intensity)
		values[catalog.FieldDifficulty] = label
	}
	if len(rec.TargetedMuscles) > 0 {
		values[catalog.FieldTargetedMuscles] = slices.Clone(rec.TargetedMuscles)
	}
	if rec.HasConstraints() {
		values[catalog.FieldConstraints] = strings.TrimSpace(rec.Constraints)
	}
	if strings.TrimSpace(target.Region) == "" && rec.HasRegion() {
		values[catalog.FieldRegion] = rec.Region
	}
	if groups := muscleGroups(target, rec); len(groups) > 0 {
		values[catalog.FieldMuscleGroups] = groups
	}

	patch := catalog.Patch{}
	for _, field := range opts.Fields {
		value, ok := values[field]
		if !ok || isEmpty(value) {
			continue
		}
		if !target.Missing(field) && (!opts.Overwrite || sameValue(target.Value(field), value)) {
			continue
		}
		patch[field] = value
	}
	if len(patch) == 0 {
		return nil
	}
	return patch
}

// muscleGroups tags a video with its body region: the target's own region,
// then the matched record's, then keywords of the target title and of the
// record's targeted muscles.
func muscleGroups(target catalog.Video, rec exercise.Record) []string {
	for _, region := range []string{target.Region, rec.Region} {
		if region = strings.ToLower(strings.TrimSpace(region)); region != "" {
			return []string{region}
		}
	}
	if groups := fieldmap.MuscleGroupsFromTitle(target.Title); len(groups) > 0 {
		return groups
	}
	return fieldmap.MuscleGroupsFromTitle(strings.Join(rec.TargetedMuscles, " "))
}

func isEmpty(value any) bool {
	switch v := value.(type) {
	case string:
		return v == ""
	case []string:
		return len(v) == 0
	}
	return value == nil
}

func sameValue(a, b any) bool {
	as, aok := a.([]string)
	bs, bok := b.([]string)
	if aok && bok {
		return slices.Equal(as, bs)
	}
	return a == b
}
