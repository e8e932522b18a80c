package audit

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-rod/rod"
	"github.com/google/uuid"

	"github.com/chandrakanthm/skyvern/internal/application/port/input"
	"github.com/chandrakanthm/skyvern/internal/application/port/output"
	auditengine "github.com/chandrakanthm/skyvern/internal/audit"
	"github.com/chandrakanthm/skyvern/internal/domain/entity"
	"github.com/chandrakanthm/skyvern/internal/infrastructure/browser/rodsession"
)

var _ input.AuditRunner = (*UseCase)(nil)

// Browser is the slice of the rod session the audit flow drives.
type Browser interface {
	Navigate(url string) error
	Page() *rod.Page
	Screenshot() (*rodsession.Screenshot, error)
	ScreenshotForLLM() (*rodsession.Screenshot, error)
}

// Scraper builds the element index of the current page.
type Scraper interface {
	Scrape(page *rod.Page) (*entity.ScrapedPage, error)
}

// Analyzer captures and aggregates computed styles for scraped elements.
type Analyzer interface {
	Analyze(page *rod.Page, scrape *entity.ScrapedPage) []entity.VisualSegment
	DetectAnomalies(segments []entity.VisualSegment) []entity.Violation
	Stats(segments []entity.VisualSegment) entity.PageStats
}

// Annotator draws violation markers and renders the HTML report.
type Annotator interface {
	AnnotateScreenshot(screenshot []byte, violations []entity.Violation) ([]byte, error)
	RenderReport(result *entity.AuditResult, screenshotRef string) ([]byte, error)
}

// Summarizer produces the natural-language views of audit results.
type Summarizer interface {
	Summarize(ctx context.Context, result *entity.AuditResult, query string, screenshot []byte) string
	ExecutiveSummary(ctx context.Context, results []*entity.AuditResult) string
}

type Config struct {
	// ArtifactsDir receives annotated screenshots and HTML reports. Empty
	// disables artifact writing even when a request asks for it.
	ArtifactsDir string
}

// UseCase runs brand-compliance audits end to end: navigate, scrape,
// analyze, evaluate, annotate, summarize, persist.
type UseCase struct {
	browser    Browser
	scraper    Scraper
	analyzer   Analyzer
	annotator  Annotator
	summarizer Summarizer
	store      *ResultStore
	log        output.LoggerPort
	cfg        Config
}

func New(
	browser Browser,
	scraper Scraper,
	analyzer Analyzer,
	annotator Annotator,
	summarizer Summarizer,
	store *ResultStore,
	log output.LoggerPort,
	cfg Config,
) *UseCase {
	return &UseCase{
		browser:    browser,
		scraper:    scraper,
		analyzer:   analyzer,
		annotator:  annotator,
		summarizer: summarizer,
		store:      store,
		log:        log,
		cfg:        cfg,
	}
}

// RunSingle audits one page and stores the result. The browser session is
// shared, so concurrent calls are serialized by the caller.
func (uc *UseCase) RunSingle(ctx context.Context, req input.AuditRequest) (*entity.AuditResult, error) {
	if req.URL == "" {
		return nil, fmt.Errorf("audit request has no url")
	}
	guidelines, err := uc.resolveGuidelines(req.Guidelines, req.GuidelinesPath)
	if err != nil {
		return nil, err
	}

	startedAt := time.Now()
	uc.log.Info("Audit started", "url", req.URL, "guidelines", guidelines.Name)

	if err := uc.browser.Navigate(req.URL); err != nil {
		return nil, fmt.Errorf("navigate to %s: %w", req.URL, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	scrape, err := uc.scraper.Scrape(uc.browser.Page())
	if err != nil {
		return nil, fmt.Errorf("scrape %s: %w", req.URL, err)
	}

	segments := uc.analyzer.Analyze(uc.browser.Page(), scrape)

	engine := auditengine.NewEngine(guidelines)
	result := engine.Audit(segments, req.URL)
	result.Violations = append(result.Violations, uc.analyzer.DetectAnomalies(segments)...)
	result.Score = auditengine.Score(result.Violations, result.TotalChecked)
	result.Stats = uc.analyzer.Stats(segments)
	result.AuditID = uuid.NewString()
	result.StartedAt = startedAt

	var annotated []byte
	if req.IncludeScreenshot || req.GenerateReport {
		annotated = uc.annotate(result)
	}
	result.CompletedAt = time.Now()

	if req.GenerateReport {
		uc.writeReport(result, annotated)
	}
	if !req.SkipSummary {
		var llmShot []byte
		if shot, err := uc.browser.ScreenshotForLLM(); err == nil {
			llmShot = shot.Data
		}
		result.Summary = uc.summarizer.Summarize(ctx, result, "", llmShot)
	}

	uc.store.Put(result)
	uc.log.Info("Audit completed",
		"auditId", result.AuditID,
		"url", result.URL,
		"score", result.Score,
		"violations", len(result.Violations),
		"duration", result.CompletedAt.Sub(result.StartedAt).String(),
	)
	return result, nil
}

// RunMultiple audits pages sequentially. A page that fails is recorded under
// Failed and the run moves on.
func (uc *UseCase) RunMultiple(ctx context.Context, req input.MultiAuditRequest) (*entity.MultiAuditResult, error) {
	if len(req.URLs) == 0 {
		return nil, fmt.Errorf("multi audit request has no urls")
	}

	multi := &entity.MultiAuditResult{
		AuditID:   uuid.NewString(),
		Failed:    make(map[string]string),
		StartedAt: time.Now(),
	}

	for _, url := range req.URLs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		result, err := uc.RunSingle(ctx, input.AuditRequest{
			URL:               url,
			Guidelines:        req.Guidelines,
			GuidelinesPath:    req.GuidelinesPath,
			IncludeScreenshot: req.IncludeScreenshot,
			GenerateReport:    req.GenerateReport,
			SkipSummary:       true,
		})
		if err != nil {
			uc.log.Error("Audit of page failed, continuing run", "url", url, "error", err)
			multi.Failed[url] = err.Error()
			continue
		}
		multi.Results = append(multi.Results, result)
	}

	var scoreSum float64
	for _, r := range multi.Results {
		scoreSum += r.Score
		multi.TotalChecked += r.TotalChecked
		multi.TotalViolations += len(r.Violations)
	}
	if n := len(multi.Results); n > 0 {
		multi.AverageScore = scoreSum / float64(n)
	}
	if !req.SkipSummary {
		multi.ExecutiveSummary = uc.summarizer.ExecutiveSummary(ctx, multi.Results)
	}
	multi.CompletedAt = time.Now()
	return multi, nil
}

// Get returns a stored audit result.
func (uc *UseCase) Get(auditID string) (*entity.AuditResult, bool) {
	return uc.store.Get(auditID)
}

// Query answers a free-form question about a stored audit. The annotated
// screenshot, when present on disk, is attached so the model can point at
// what it sees.
func (uc *UseCase) Query(ctx context.Context, auditID string, query string) (string, error) {
	result, ok := uc.store.Get(auditID)
	if !ok {
		return "", fmt.Errorf("audit %s not found", auditID)
	}

	var screenshot []byte
	if result.ScreenshotPath != "" {
		if data, err := os.ReadFile(result.ScreenshotPath); err == nil {
			screenshot = data
		}
	}
	return uc.summarizer.Summarize(ctx, result, query, screenshot), nil
}

func (uc *UseCase) resolveGuidelines(inline *entity.BrandGuidelines, path string) (*entity.BrandGuidelines, error) {
	if inline != nil {
		return inline, nil
	}
	if path != "" {
		g, err := auditengine.LoadGuidelines(path)
		if err != nil {
			return nil, fmt.Errorf("load guidelines %s: %w", path, err)
		}
		return g, nil
	}
	return auditengine.DefaultGuidelines(), nil
}

// annotate captures and annotates the page screenshot, storing it under the
// artifacts dir. Failures are logged and leave the result without a
// screenshot; the audit itself already succeeded.
func (uc *UseCase) annotate(result *entity.AuditResult) []byte {
	shot, err := uc.browser.Screenshot()
	if err != nil {
		uc.log.Warn("Screenshot failed, skipping annotation", "auditId", result.AuditID, "error", err)
		return nil
	}
	annotated, err := uc.annotator.AnnotateScreenshot(shot.Data, result.Violations)
	if err != nil {
		uc.log.Warn("Annotation failed, keeping raw screenshot", "auditId", result.AuditID, "error", err)
		annotated = shot.Data
	}
	if path, err := uc.writeArtifact(result.AuditID+"_annotated.png", annotated); err != nil {
		uc.log.Warn("Writing annotated screenshot failed", "auditId", result.AuditID, "error", err)
	} else {
		result.ScreenshotPath = path
	}
	return annotated
}

func (uc *UseCase) writeReport(result *entity.AuditResult, annotated []byte) {
	screenshotRef := ""
	if annotated != nil && result.ScreenshotPath != "" {
		screenshotRef = filepath.Base(result.ScreenshotPath)
	}
	report, err := uc.annotator.RenderReport(result, screenshotRef)
	if err != nil {
		uc.log.Warn("Rendering report failed", "auditId", result.AuditID, "error", err)
		return
	}
	if path, err := uc.writeArtifact(result.AuditID+"_report.html", report); err != nil {
		uc.log.Warn("Writing report failed", "auditId", result.AuditID, "error", err)
	} else {
		result.ReportPath = path
	}
}

func (uc *UseCase) writeArtifact(name string, data []byte) (string, error) {
	if uc.cfg.ArtifactsDir == "" {
		return "", fmt.Errorf("no artifacts dir configured")
	}
	if err := os.MkdirAll(uc.cfg.ArtifactsDir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(uc.cfg.ArtifactsDir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", err
	}
	return path, nil
}
