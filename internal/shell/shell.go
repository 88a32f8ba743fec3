package shell

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"
	"regexp"
	"strings"
	"time"

	"github.com/onbo-ai/onbo/internal/ai"
	"github.com/onbo-ai/onbo/internal/enrich"
	"github.com/onbo-ai/onbo/internal/session"
	"github.com/onbo-ai/onbo/internal/store"
)

var emailRe = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`)

// Shell is the interactive loop: it reads lines from the input, interprets
// control commands, and runs one orchestrator turn at a time, blocking on
// each turn's completion before accepting the next.
type Shell struct {
	orch     *ai.Orchestrator
	sessions *session.Store
	enricher *enrich.Client
	archive  store.Store

	instructions string
	override     string
	resume       bool
	autoEnrich   bool

	in  io.Reader
	out io.Writer

	handle string
}

type Config struct {
	Orchestrator *ai.Orchestrator
	Sessions     *session.Store
	Enricher     *enrich.Client
	// Archive receives a local transcript of each turn; nil disables
	// archiving.
	Archive store.Store

	// Instructions back the degraded no-conversation mode; with a handle
	// present the seeded conversation already carries them.
	Instructions string
	// Override is an externally supplied conversation handle; when set,
	// the session file is neither consulted nor cleared.
	Override string
	// Resume keeps the previously persisted handle instead of starting a
	// clean dialogue.
	Resume bool
	// AutoEnrich turns on local enrichment of emails spotted in free-form
	// input.
	AutoEnrich bool

	In  io.Reader
	Out io.Writer
}

func New(cfg Config) *Shell {
	return &Shell{
		orch:         cfg.Orchestrator,
		sessions:     cfg.Sessions,
		enricher:     cfg.Enricher,
		archive:      cfg.Archive,
		instructions: cfg.Instructions,
		override:     cfg.Override,
		resume:       cfg.Resume,
		autoEnrich:   cfg.AutoEnrich,
		in:           cfg.In,
		out:          cfg.Out,
	}
}

// Run drives the loop until the user exits or input ends. initialInput, if
// non-empty, is treated as the first conversational turn.
func (s *Shell) Run(ctx context.Context, initialInput string) error {
	// Each invocation starts a clean dialogue unless the caller opted into
	// continuity via an override handle or explicit resume.
	if s.override == "" && !s.resume {
		if err := s.sessions.Forget(); err != nil {
			log.Printf("shell: could not clear stale handle: %v", err)
		}
	}

	handle, err := s.sessions.Resolve(ctx, s.override)
	if err != nil {
		return err
	}
	s.handle = handle

	if initialInput != "" {
		s.runTurn(ctx, initialInput)
	}

	scanner := bufio.NewScanner(s.in)
	for {
		fmt.Fprint(s.out, "you> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())

		switch line {
		case "", "exit":
			return scanner.Err()
		case "/reset", "reset":
			if err := s.reset(ctx); err != nil {
				fmt.Fprintf(s.out, "error: %v\n", err)
			} else {
				fmt.Fprintln(s.out, "conversation reset")
			}
			continue
		case "/id":
			fmt.Fprintln(s.out, s.handle)
			continue
		}

		s.runTurn(ctx, line)
	}
	return scanner.Err()
}

func (s *Shell) reset(ctx context.Context) error {
	if err := s.sessions.Forget(); err != nil {
		return err
	}
	handle, err := s.sessions.Resolve(ctx, "")
	if err != nil {
		return err
	}
	s.handle = handle
	return nil
}

// runTurn executes one conversational turn. Turn errors print and the loop
// continues; nothing here terminates the process.
func (s *Shell) runTurn(ctx context.Context, text string) {
	outgoing := text
	if s.autoEnrich {
		outgoing = s.withEnrichment(ctx, text)
	}

	fmt.Fprint(s.out, "onbo> ")

	var streamed strings.Builder
	result, err := s.orch.RunTurn(ctx, ai.TurnInput{
		Text:         outgoing,
		Conversation: s.handle,
		Instructions: s.instructions,
	}, func(delta string) {
		streamed.WriteString(delta)
		fmt.Fprint(s.out, delta)
	})
	if err != nil {
		fmt.Fprintf(s.out, "\nerror: %v\n", err)
		return
	}

	if result.FollowUpText != "" {
		fmt.Fprint(s.out, result.FollowUpText)
	}
	fmt.Fprintln(s.out)

	s.archiveTurn(text, streamed.String()+result.FollowUpText)
}

// withEnrichment spots an email in free-form input and, when the lookup
// succeeds, prepends the normalized profile as bracketed context for the
// model.
func (s *Shell) withEnrichment(ctx context.Context, text string) string {
	email := emailRe.FindString(text)
	if email == "" || s.enricher == nil {
		return text
	}

	result := s.enricher.Enrich(ctx, email, enrich.Options{})
	if result.Status != 200 || result.Enriched == nil {
		return text
	}

	p := result.Enriched
	var facts []string
	for _, f := range []struct{ label, val string }{
		{"name", p.Name},
		{"title", p.Title},
		{"company", p.Company},
		{"location", p.Location},
	} {
		if f.val != "" {
			facts = append(facts, f.label+": "+f.val)
		}
	}
	if len(facts) == 0 {
		return text
	}
	return fmt.Sprintf("[enrichment context for %s: %s] %s", email, strings.Join(facts, ", "), text)
}

func (s *Shell) archiveTurn(userText, assistantText string) {
	if s.archive == nil {
		return
	}
	now := time.Now().UTC()
	err := s.archive.AppendTranscript(s.handle, []store.TranscriptTurn{
		{Role: "user", Text: userText, Timestamp: now},
		{Role: "assistant", Text: assistantText, Timestamp: now},
	})
	if err != nil {
		log.Printf("shell: could not archive turn: %v", err)
	}
}
