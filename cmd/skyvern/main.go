package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/chandrakanthm/skyvern/internal/application/port/input"
	"github.com/chandrakanthm/skyvern/internal/di"
	"github.com/chandrakanthm/skyvern/internal/infrastructure/env"
)

var (
	flagHeadless   bool
	flagArtifacts  string
	flagGuidelines string
	flagAddr       string
	flagNoSummary  bool
)

func main() {
	envService := env.NewEnvService()

	root := &cobra.Command{
		Use:           "skyvern",
		Short:         "Automated brand compliance auditing for web pages",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().BoolVar(&flagHeadless, "headless", envService.GetBool("BROWSER_HEADLESS", true), "run the browser headless")
	root.PersistentFlags().StringVar(&flagArtifacts, "artifacts", envService.Get("ARTIFACTS_DIR", "artifacts"), "directory for screenshots and reports")

	root.AddCommand(serveCmd(envService))
	root.AddCommand(auditCmd())
	root.AddCommand(scrapeCmd())

	if err := root.Execute(); err != nil {
		log.Fatalf("skyvern: %v", err)
	}
}

func containerConfig(envService *env.EnvService) di.Config {
	return di.Config{
		Headless:      flagHeadless,
		ArtifactsDir:  flagArtifacts,
		GuidelinesDir: flagArtifacts,
		APIAddr:       flagAddr,
		LLMAPIKey:     envService.Get("OPENAI_API_KEY", ""),
		LLMModel:      envService.Get("OPENAI_MODEL", "gpt-4o-mini"),
		LLMBaseURL:    envService.Get("OPENAI_BASE_URL", ""),
	}
}

func serveCmd(envService *env.EnvService) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the audit REST API",
		RunE: func(cmd *cobra.Command, args []string) error {
			container, err := di.NewContainer(containerConfig(envService))
			if err != nil {
				return err
			}
			defer container.Close()

			errCh := make(chan error, 1)
			go func() { errCh <- container.APIServer.Start() }()

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

			select {
			case err := <-errCh:
				return err
			case sig := <-sigCh:
				container.Logger.Info("Shutting down", "signal", sig.String())
				ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
				defer cancel()
				return container.APIServer.Shutdown(ctx)
			}
		},
	}
	cmd.Flags().StringVar(&flagAddr, "addr", envService.Get("API_ADDR", ":8080"), "listen address")
	return cmd
}

func auditCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "audit <url>",
		Short: "Audit one page and print the result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			envService := env.NewEnvService()
			container, err := di.NewContainer(containerConfig(envService))
			if err != nil {
				return err
			}
			defer container.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Minute)
			defer cancel()

			result, err := container.AuditRunner.RunSingle(ctx, input.AuditRequest{
				URL:               args[0],
				GuidelinesPath:    flagGuidelines,
				IncludeScreenshot: true,
				GenerateReport:    true,
				SkipSummary:       flagNoSummary,
			})
			if err != nil {
				return err
			}

			fmt.Printf("Audit %s\n", result.AuditID)
			fmt.Printf("URL:        %s\n", result.URL)
			fmt.Printf("Score:      %.1f%%\n", result.Score*100)
			fmt.Printf("Elements:   %d\n", result.TotalChecked)
			fmt.Printf("Violations: %d\n", len(result.Violations))
			for i, v := range result.Violations {
				fmt.Printf("  %d. [%s] %s (%s)\n", i+1, v.Severity, v.Description, v.ElementID)
			}
			if result.ScreenshotPath != "" {
				fmt.Printf("Screenshot: %s\n", result.ScreenshotPath)
			}
			if result.ReportPath != "" {
				fmt.Printf("Report:     %s\n", result.ReportPath)
			}
			if result.Summary != "" {
				fmt.Printf("\n%s\n", result.Summary)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&flagGuidelines, "guidelines", "", "brand guidelines file (yaml or json)")
	cmd.Flags().BoolVar(&flagNoSummary, "no-summary", false, "skip the natural-language summary")
	return cmd
}

func scrapeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scrape <url>",
		Short: "Scrape a page and print its element index",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			envService := env.NewEnvService()
			container, err := di.NewContainer(containerConfig(envService))
			if err != nil {
				return err
			}
			defer container.Close()

			if err := container.Session.Navigate(args[0]); err != nil {
				return err
			}
			scrape, err := container.Scraper.Scrape(container.Session.Page())
			if err != nil {
				return err
			}

			tree, err := json.MarshalIndent(scrape.Elements, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(tree))
			fmt.Printf("\nelements: %d, selectors: %d, frames: %d\n",
				len(scrape.IDToElement), len(scrape.IDToCSS), len(scrape.IDToFrame))
			return nil
		},
	}
}
