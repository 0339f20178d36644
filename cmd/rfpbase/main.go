// Copyright 2025 Proposive Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/proposive/rfpbase"
	"github.com/proposive/rfpbase/ai"
	"github.com/proposive/rfpbase/core"
	"github.com/proposive/rfpbase/extract"
)

func main() {
	app := &cli.App{
		Name:  "rfpbase",
		Usage: "RFP knowledge base: document storage, ranked search, and proposal analysis",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to YAML config file (environment is used otherwise)",
			},
			&cli.StringFlag{
				Name:  "data-dir",
				Usage: "Override the configured data directory",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:      "add",
				Usage:     "Add a document to the knowledge base",
				ArgsUsage: "FILE",
				Action:    addCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "category",
						Usage:    "Document category (제안서, 기술문서, 계약서, 사업분석, 경쟁사분석, 법규제, 모범사례)",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "description",
						Usage: "Short description of the document",
					},
				},
			},
			{
				Name:      "search",
				Usage:     "Search the knowledge base",
				ArgsUsage: "QUERY",
				Action:    searchCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "category",
						Usage: "Restrict the search to one category",
						Value: string(core.CategoryAll),
					},
				},
			},
			{
				Name:      "get",
				Usage:     "Show a stored document and its extracted content",
				ArgsUsage: "DOCUMENT_ID",
				Action:    getCommand,
			},
			{
				Name:      "delete",
				Usage:     "Delete a document from the knowledge base",
				ArgsUsage: "DOCUMENT_ID",
				Action:    deleteCommand,
			},
			{
				Name:   "stats",
				Usage:  "Show knowledge base statistics",
				Action: statsCommand,
			},
			{
				Name:      "analyze",
				Usage:     "Analyze an RFP document",
				ArgsUsage: "FILE",
				Action:    analyzeCommand,
			},
			{
				Name:      "quality",
				Usage:     "Evaluate a proposal draft",
				ArgsUsage: "FILE",
				Action:    qualityCommand,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// openKnowledgeBase builds a KnowledgeBase from the loaded config.
func openKnowledgeBase(c *cli.Context) (*rfpbase.KnowledgeBase, error) {
	cfg, err := rfpbase.LoadConfig(c.String("config"))
	if err != nil {
		return nil, err
	}
	if dir := c.String("data-dir"); dir != "" {
		cfg.DataDir = dir
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	aiConfig := ai.NewConfig(
		ai.WithHost(cfg.AIHost),
		ai.WithModel(cfg.AIModel),
		ai.WithToken(cfg.AIToken),
		ai.WithTemperature(cfg.Temperature),
	)
	if err := aiConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid AI configuration: %w", err)
	}

	return rfpbase.New(cfg.DataDir,
		rfpbase.WithAIConfig(aiConfig),
		rfpbase.WithBlobBackend(cfg.BlobBackend),
		rfpbase.WithCacheSize(cfg.CacheSize),
	)
}

func addCommand(c *cli.Context) error {
	ctx := context.Background()

	path := c.Args().First()
	if path == "" {
		return fmt.Errorf("file argument is required")
	}
	if err := checkExtractionTools(path); err != nil {
		return err
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	kb, err := openKnowledgeBase(c)
	if err != nil {
		return err
	}
	defer kb.Close()

	doc, err := kb.AddDocument(ctx, content, baseName(path), core.Category(c.String("category")), c.String("description"))
	if err != nil {
		return fmt.Errorf("adding document: %w", err)
	}

	fmt.Printf("Added %s\n", doc.ID)
	fmt.Printf("  filename: %s\n", doc.Filename)
	fmt.Printf("  category: %s\n", doc.Category)
	fmt.Printf("  size:     %d bytes\n", doc.FileSize)
	return nil
}

func searchCommand(c *cli.Context) error {
	ctx := context.Background()

	query := strings.Join(c.Args().Slice(), " ")
	if query == "" {
		return fmt.Errorf("query argument is required")
	}

	kb, err := openKnowledgeBase(c)
	if err != nil {
		return err
	}
	defer kb.Close()

	response, err := kb.Search(ctx, query, core.Category(c.String("category")))
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	fmt.Printf("%d results in %.3fs\n\n", response.TotalCount, response.SearchTime)
	for i, result := range response.Results {
		fmt.Printf("%d. %s (%.1f)\n", i+1, result.Filename, result.RelevanceScore)
		fmt.Printf("   id: %s  category: %s\n", result.DocumentID, result.Category)
		if result.Description != "" {
			fmt.Printf("   %s\n", result.Description)
		}
	}
	if len(response.Suggestions) > 0 {
		fmt.Println("\nSuggestions:")
		for _, suggestion := range response.Suggestions {
			fmt.Printf("  - %s\n", suggestion)
		}
	}
	return nil
}

func getCommand(c *cli.Context) error {
	ctx := context.Background()

	id := c.Args().First()
	if id == "" {
		return fmt.Errorf("document ID argument is required")
	}

	kb, err := openKnowledgeBase(c)
	if err != nil {
		return err
	}
	defer kb.Close()

	doc, content, err := kb.GetDocument(ctx, id)
	if err != nil {
		return fmt.Errorf("retrieving document: %w", err)
	}

	fmt.Printf("%s\n", doc.ID)
	fmt.Printf("  filename:    %s\n", doc.Filename)
	fmt.Printf("  category:    %s\n", doc.Category)
	fmt.Printf("  description: %s\n", doc.Description)
	fmt.Printf("  uploaded:    %s\n", doc.UploadDate.Format("2006-01-02 15:04:05"))
	fmt.Printf("  keywords:    %s\n", strings.Join(content.Keywords, ", "))
	fmt.Printf("\n%s\n", content.Content)
	return nil
}

func deleteCommand(c *cli.Context) error {
	ctx := context.Background()

	id := c.Args().First()
	if id == "" {
		return fmt.Errorf("document ID argument is required")
	}

	kb, err := openKnowledgeBase(c)
	if err != nil {
		return err
	}
	defer kb.Close()

	if err := kb.DeleteDocument(ctx, id); err != nil {
		return fmt.Errorf("deleting document: %w", err)
	}

	fmt.Printf("Deleted %s\n", id)
	return nil
}

func statsCommand(c *cli.Context) error {
	ctx := context.Background()

	kb, err := openKnowledgeBase(c)
	if err != nil {
		return err
	}
	defer kb.Close()

	stats, err := kb.Statistics(ctx)
	if err != nil {
		return fmt.Errorf("retrieving statistics: %w", err)
	}

	fmt.Printf("Documents: %d\n", stats.TotalDocuments)
	for category, count := range stats.CategoryCounts {
		fmt.Printf("  %s: %d\n", category, count)
	}
	if len(stats.RecentDocuments) > 0 {
		fmt.Println("\nRecent uploads:")
		for _, doc := range stats.RecentDocuments {
			fmt.Printf("  %s (%s) %s\n", doc.Filename, doc.Category, doc.UploadDate.Format("2006-01-02"))
		}
	}
	if len(stats.PopularQueries) > 0 {
		fmt.Println("\nPopular queries:")
		for _, query := range stats.PopularQueries {
			fmt.Printf("  %q: %d\n", query.Query, query.Count)
		}
	}
	return nil
}

func analyzeCommand(c *cli.Context) error {
	ctx := context.Background()

	path := c.Args().First()
	if path == "" {
		return fmt.Errorf("file argument is required")
	}
	if err := checkExtractionTools(path); err != nil {
		return err
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	kb, err := openKnowledgeBase(c)
	if err != nil {
		return err
	}
	defer kb.Close()

	analyzer, err := kb.NewAnalyzer()
	if err != nil {
		return err
	}

	report, err := analyzer.AnalyzeDocument(ctx, content, baseName(path))
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	fmt.Printf("Analysis %s (confidence %.0f)\n\n", report.RunID, report.ConfidenceScore)
	printList("Requirements", report.Requirements)
	printList("Technical specs", report.TechnicalSpecs)
	fmt.Printf("Timeline: %s\n", report.Timeline)
	fmt.Printf("Budget:   %s\n\n", report.BudgetInfo)
	fmt.Println("Risks:")
	for risk, level := range report.RiskAssessment {
		fmt.Printf("  %s: %s\n", risk, level)
	}
	printList("Compliance", report.ComplianceRequirements)
	printList("Evaluation criteria", report.EvaluationCriteria)
	return nil
}

func qualityCommand(c *cli.Context) error {
	ctx := context.Background()

	path := c.Args().First()
	if path == "" {
		return fmt.Errorf("file argument is required")
	}
	if err := checkExtractionTools(path); err != nil {
		return err
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	kb, err := openKnowledgeBase(c)
	if err != nil {
		return err
	}
	defer kb.Close()

	evaluator, err := kb.NewEvaluator()
	if err != nil {
		return err
	}

	report, err := evaluator.EvaluateProposal(ctx, content, baseName(path))
	if err != nil {
		return fmt.Errorf("evaluation failed: %w", err)
	}

	fmt.Printf("Overall score: %.1f (readability %.1f)\n\n", report.OverallScore, report.ReadabilityScore)
	fmt.Println("Sections:")
	for section, score := range report.SectionScores {
		fmt.Printf("  %s: %.1f\n", section, score)
	}
	printList("Strengths", report.Strengths)
	printList("Weaknesses", report.Weaknesses)
	printList("Suggestions", report.ImprovementSuggestions)
	printList("Missing sections", report.MissingSections)
	return nil
}

func printList(title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Printf("%s:\n", title)
	for _, item := range items {
		fmt.Printf("  - %s\n", item)
	}
	fmt.Println()
}

func baseName(path string) string {
	return filepath.Base(path)
}

// checkExtractionTools fails early when the file needs an external
// extraction tool that is not installed.
func checkExtractionTools(path string) error {
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		return extract.CheckPDFToolAvailable()
	}
	return nil
}

func setupLogger(c *cli.Context) error {
	// Get log level from flag and normalize to lowercase
	levelStr := strings.ToLower(c.String("log-level"))

	// Map string to slog.Level
	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	// Configure slog with the specified level
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
