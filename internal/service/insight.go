package service

import (
	"context"
	"fmt"
	"strings"

	"dlc-report/internal/logger"
	"dlc-report/internal/model"
)

const (
	DefaultInsightModel = "gemini-3-flash-preview"
	InsightFallback     = "Unable to generate AI insights at this time."
	InsightEmpty        = "No data available for analysis."
)

// Generator is the external text-generation collaborator.
type Generator interface {
	Generate(ctx context.Context, model, prompt string) (string, error)
}

// StreamGenerator is implemented by generators that can emit partial text.
type StreamGenerator interface {
	GenerateStream(ctx context.Context, model, prompt string, flush func(string)) (string, error)
}

type InsightStatus string

const (
	InsightPending InsightStatus = "pending"
	InsightSuccess InsightStatus = "success"
	InsightFailure InsightStatus = "failure"
)

type InsightResult struct {
	Status InsightStatus
	Text   string
}

// InsightService turns a filtered report set into a prose summary. It keeps
// no per-caller state; callers must not issue a second request while one is
// pending.
type InsightService struct {
	gen   Generator
	model string
}

// NewInsightService accepts a nil generator; every request then fails over to
// the fallback text.
func NewInsightService(gen Generator, model string) *InsightService {
	if model == "" {
		model = DefaultInsightModel
	}
	return &InsightService{gen: gen, model: model}
}

func (s *InsightService) Model() string { return s.model }

func BuildInsightPrompt(reports []model.WeeklyReport, lgas []model.LGA) string {
	names := make([]string, len(lgas))
	for i, l := range lgas {
		names[i] = l.Name
	}
	total := 0
	for _, r := range reports {
		total += r.TraineesTrained
	}

	var sb strings.Builder
	sb.WriteString("Analyze the following weekly reporting data for Katsina State Digital Learning Centres (DLC).\n")
	sb.WriteString("Data Summary:\n")
	fmt.Fprintf(&sb, "- Total Reports: %d\n", len(reports))
	fmt.Fprintf(&sb, "- LGAs Covered: %s\n", strings.Join(names, ", "))
	fmt.Fprintf(&sb, "- Total Trainees (all time): %d\n\n", total)
	sb.WriteString("Status definitions:\n")
	for _, st := range model.StatusOptions {
		fmt.Fprintf(&sb, "- %s: %s\n", st, model.StatusLegend[st])
	}
	sb.WriteString("\nPlease provide a short, professional executive summary (max 150 words) including:\n")
	sb.WriteString("1. Overall performance trend.\n")
	sb.WriteString("2. A brief recommendation for underperforming areas.\n")
	sb.WriteString("3. An observation on attendance patterns (ABS vs P).\n")
	return sb.String()
}

// Request runs one generation. Collaborator errors are logged and replaced by
// InsightFallback; they never reach the caller.
func (s *InsightService) Request(ctx context.Context, reports []model.WeeklyReport, lgas []model.LGA) InsightResult {
	if s.gen == nil {
		logger.Warn("insight.failed", "reason", "no generator configured")
		return InsightResult{Status: InsightFailure, Text: InsightFallback}
	}

	text, err := s.gen.Generate(ctx, s.model, BuildInsightPrompt(reports, lgas))
	if err != nil {
		logger.Error("insight.failed", "model", s.model, "reports", len(reports), "err", err)
		return InsightResult{Status: InsightFailure, Text: InsightFallback}
	}
	if strings.TrimSpace(text) == "" {
		text = InsightEmpty
	}
	logger.Info("insight.ok", "model", s.model, "reports", len(reports), "len", len(text))
	return InsightResult{Status: InsightSuccess, Text: text}
}

// Stream is Request with incremental output. If the generator cannot stream,
// the whole text is flushed once. On failure the fallback text is flushed.
func (s *InsightService) Stream(ctx context.Context, reports []model.WeeklyReport, lgas []model.LGA, flush func(string)) InsightResult {
	sg, ok := s.gen.(StreamGenerator)
	if !ok {
		res := s.Request(ctx, reports, lgas)
		flush(res.Text)
		return res
	}

	var emitted bool
	text, err := sg.GenerateStream(ctx, s.model, BuildInsightPrompt(reports, lgas), func(t string) {
		emitted = true
		flush(t)
	})
	if err != nil {
		logger.Error("insight.failed", "model", s.model, "reports", len(reports), "stream", true, "err", err)
		if emitted {
			flush("\n\n")
		}
		flush(InsightFallback)
		return InsightResult{Status: InsightFailure, Text: InsightFallback}
	}
	if strings.TrimSpace(text) == "" {
		flush(InsightEmpty)
		text = InsightEmpty
	}
	return InsightResult{Status: InsightSuccess, Text: text}
}
