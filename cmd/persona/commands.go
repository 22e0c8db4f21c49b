package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/pkg/errors"

	"github.com/petasbytes/persona-engine/internal/extractor"
	"github.com/petasbytes/persona-engine/internal/logging"
	"github.com/petasbytes/persona-engine/internal/persona"
	"github.com/petasbytes/persona-engine/internal/rewriter"
	"github.com/petasbytes/persona-engine/internal/server"
	"github.com/petasbytes/persona-engine/memory"
)

// signalContext is canceled on Ctrl-C (SIGINT) or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

type extractCommand struct {
	File string `short:"f" long:"file" required:"true" description:"Transcript file (.json conversation or plain text)"`
}

func (c *extractCommand) Execute(_ []string) error {
	e, err := loadEnv()
	if err != nil {
		return err
	}
	transcript, err := memory.LoadTranscript(c.File)
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()

	p, err := extractor.Extract(ctx, transcript, e.credential, e.conf.RunnerOptions()...)
	if err != nil {
		return err
	}
	e.logger.Debug("profile extracted", "facts", len(p.Facts), "preferences", len(p.Preferences), "emotional_patterns", len(p.EmotionalPatterns))
	return printJSON(p)
}

type rewriteCommand struct {
	Profile    string `short:"p" long:"profile" description:"Profile JSON file"`
	Transcript string `short:"t" long:"transcript" description:"Extract the profile from this transcript first"`
	Persona    string `long:"persona" description:"Preset number, preset name or free-form persona"`
	Text       string `long:"text" required:"true" description:"Reply to rewrite"`
}

func (c *rewriteCommand) Execute(_ []string) error {
	e, err := loadEnv()
	if err != nil {
		return err
	}
	label := persona.Default
	if strings.TrimSpace(c.Persona) != "" {
		if label, err = persona.Resolve(c.Persona); err != nil {
			return err
		}
	}
	ctx, cancel := signalContext()
	defer cancel()

	var p memory.UserProfile
	switch {
	case c.Profile != "":
		b, err := os.ReadFile(c.Profile)
		if err != nil {
			return errors.Wrap(err, "read profile")
		}
		if p, err = memory.DecodeProfile(b); err != nil {
			return err
		}
	case c.Transcript != "":
		transcript, err := memory.LoadTranscript(c.Transcript)
		if err != nil {
			return err
		}
		if p, err = extractor.Extract(ctx, transcript, e.credential, e.conf.RunnerOptions()...); err != nil {
			return err
		}
	default:
		return errors.New("one of --profile or --transcript is required")
	}

	rw, err := rewriter.New(p, e.credential, e.conf.RunnerOptions()...)
	if err != nil {
		return err
	}
	out, err := rw.Rewrite(ctx, c.Text, label)
	if err != nil {
		return err
	}
	fmt.Println(out)
	return nil
}

type personasCommand struct{}

func (c *personasCommand) Execute(_ []string) error {
	for i, p := range persona.Presets() {
		fmt.Printf("%d. %s\n", i+1, p)
	}
	return nil
}

type serveCommand struct {
	Addr string `long:"addr" description:"Listen address (defaults to PERSONA_ADDR or :1323)"`
}

func (c *serveCommand) Execute(_ []string) error {
	e, err := loadEnv()
	if err != nil {
		return err
	}
	addr := c.Addr
	if addr == "" {
		addr = e.conf.Addr
	}
	if e.credential == "" {
		e.logger.Warn("no default API key; requests must send " + server.APIKeyHeader)
	}
	s := server.NewServer(e.credential, logging.ForComponent(e.logger, "http"), e.conf.RunnerOptions()...)
	return s.Start(addr)
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
