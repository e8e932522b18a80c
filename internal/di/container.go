package di

import (
	"fmt"

	"github.com/chandrakanthm/skyvern/internal/api"
	"github.com/chandrakanthm/skyvern/internal/application/port/input"
	"github.com/chandrakanthm/skyvern/internal/application/port/output"
	auditengine "github.com/chandrakanthm/skyvern/internal/audit"
	"github.com/chandrakanthm/skyvern/internal/infrastructure/browser/rodsession"
	"github.com/chandrakanthm/skyvern/internal/infrastructure/llm/openai"
	"github.com/chandrakanthm/skyvern/internal/infrastructure/logger"
	"github.com/chandrakanthm/skyvern/internal/scraper"
	auditusecase "github.com/chandrakanthm/skyvern/internal/usecase/audit"
)

type Config struct {
	Headless      bool
	ArtifactsDir  string
	GuidelinesDir string
	APIAddr       string

	// LLM settings; an empty APIKey leaves the summarizer on its
	// deterministic fallback.
	LLMAPIKey  string
	LLMModel   string
	LLMBaseURL string
}

// Container wires the application graph. Constructed once per process;
// Close releases resources in reverse construction order.
type Container struct {
	Logger      output.LoggerPort
	Session     *rodsession.Session
	Scraper     *scraper.Service
	AuditRunner input.AuditRunner
	APIServer   *api.Server
}

func NewContainer(cfg Config) (*Container, error) {
	log, err := logger.NewLoggerAdapter()
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	sessionCfg := rodsession.DefaultConfig()
	sessionCfg.Headless = cfg.Headless
	session, err := rodsession.NewSession(sessionCfg)
	if err != nil {
		log.Close()
		return nil, fmt.Errorf("failed to start browser session: %w", err)
	}

	var llm output.LLMPort
	if cfg.LLMAPIKey != "" {
		llmCfg := openai.DefaultConfig(cfg.LLMAPIKey, cfg.LLMModel)
		if cfg.LLMBaseURL != "" {
			llmCfg.BaseURL = cfg.LLMBaseURL
		}
		llmCfg.Logger = log
		llm = openai.NewAdapter(llmCfg)
	} else {
		log.Warn("No LLM API key configured, summaries use the deterministic fallback")
	}

	scrape := scraper.NewService(scraper.DefaultConfig(), log)

	runner := auditusecase.New(
		session,
		scrape,
		auditengine.NewAnalyzer(log),
		auditengine.NewAnnotator(),
		auditengine.NewSummarizer(llm, log),
		auditusecase.NewResultStore(),
		log,
		auditusecase.Config{ArtifactsDir: cfg.ArtifactsDir},
	)

	server := api.NewServer(api.Config{
		Addr:          cfg.APIAddr,
		GuidelinesDir: cfg.GuidelinesDir,
	}, runner, log)

	return &Container{
		Logger:      log,
		Session:     session,
		Scraper:     scrape,
		AuditRunner: runner,
		APIServer:   server,
	}, nil
}

func (c *Container) Close() {
	if c.Session != nil {
		c.Session.Close()
	}
	if c.Logger != nil {
		c.Logger.Close()
	}
}
