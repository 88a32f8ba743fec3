package main

import (
	"context"
	"flag"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/onbo-ai/onbo/internal/ai"
	"github.com/onbo-ai/onbo/internal/config"
	"github.com/onbo-ai/onbo/internal/configdoc"
	"github.com/onbo-ai/onbo/internal/enrich"
	"github.com/onbo-ai/onbo/internal/session"
	"github.com/onbo-ai/onbo/internal/shell"
	"github.com/onbo-ai/onbo/internal/store"
)

func main() {
	resume := flag.Bool("resume", false, "continue the previously persisted conversation instead of starting fresh")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx := context.Background()

	docs := configdoc.NewClient(cfg.ConfigBaseURL)
	agentCfg := docs.AgentConfig(ctx)
	schema := docs.OnboardingSchema(ctx)
	systemPrompt := ai.BuildSystemPrompt(agentCfg, schema)

	client := ai.NewClient(ai.ClientConfig{APIKey: cfg.OpenAIAPIKey})
	enricher := enrich.NewClient(cfg.EnrichBaseURL, cfg.EnrichAPIKey)
	registry := ai.BuildRegistry(enricher)

	orch := ai.NewOrchestrator(client, registry, ai.OrchestratorConfig{
		Model:           cfg.Model,
		ReasoningEffort: cfg.ReasoningEffort,
		EnableWebSearch: true,
	})

	sessions := session.NewStore(cfg.DataDir, client, systemPrompt)

	// Transcript archive is best effort; the shell runs without it.
	var archive store.Store
	if db, err := store.NewBoltStore(filepath.Join(cfg.DataDir, "onbo.db")); err != nil {
		log.Printf("store: transcript archive unavailable: %v", err)
	} else {
		archive = db
		defer db.Close()
	}

	sh := shell.New(shell.Config{
		Orchestrator: orch,
		Sessions:     sessions,
		Enricher:     enricher,
		Archive:      archive,
		Instructions: systemPrompt,
		Override:     cfg.ConversationID,
		Resume:       *resume,
		AutoEnrich:   cfg.AutoEnrich,
		In:           os.Stdin,
		Out:          os.Stdout,
	})

	// An optional startup argument becomes the first turn payload, e.g. a
	// bootstrap email.
	initial := strings.Join(flag.Args(), " ")

	if err := sh.Run(ctx, initial); err != nil {
		log.Fatalf("onbo: %v", err)
	}
}
