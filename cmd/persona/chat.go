package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/petasbytes/persona-engine/internal/logging"
	"github.com/petasbytes/persona-engine/internal/persona"
	"github.com/petasbytes/persona-engine/internal/session"
	"github.com/petasbytes/persona-engine/memory"
)

const chatHelp = `Commands:
  /analyze <path>   extract a profile from a transcript file
  /profile          show the current profile
  /persona <n|name> switch persona
  /personas         list presets
  /quit             exit
Any other line is rewritten in the current persona.`

type chatCommand struct {
	File    string `short:"f" long:"file" description:"Transcript to analyze on start"`
	Persona string `long:"persona" description:"Initial persona"`
}

func (c *chatCommand) Execute(_ []string) error {
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

	sess := session.New(logging.ForComponent(e.logger, "session"), e.conf.RunnerOptions()...)
	analyze := func(path string) {
		transcript, err := memory.LoadTranscript(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			return
		}
		p, err := sess.Analyze(ctx, e.credential, transcript)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			return
		}
		fmt.Printf("Profile: %d facts, %d preferences, %d emotional patterns\n",
			len(p.Facts), len(p.Preferences), len(p.EmotionalPatterns))
	}
	if c.File != "" {
		analyze(c.File)
	}

	scanner := bufio.NewScanner(os.Stdin)
	fmt.Printf("Persona chat as %q (Ctrl-C to quit, /help for commands)\n", label)

	inputCh := make(chan string)
	go func() {
		for scanner.Scan() {
			inputCh <- scanner.Text()
		}
		close(inputCh)
	}()

outer:
	for {
		fmt.Print("\u001b[94mReply\u001b[0m: ")
		var (
			line string
			ok   bool
		)
		select {
		case <-ctx.Done():
			fmt.Println("\nExiting...")
			break outer
		case line, ok = <-inputCh:
			if !ok {
				break outer
			}
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		cmd, arg, _ := strings.Cut(line, " ")
		arg = strings.TrimSpace(arg)
		switch cmd {
		case "/quit", "/exit":
			break outer
		case "/help":
			fmt.Println(chatHelp)
		case "/analyze":
			if arg == "" {
				fmt.Fprintln(os.Stderr, "usage: /analyze <path>")
				continue
			}
			analyze(arg)
		case "/profile":
			p, ok := sess.Profile()
			if !ok {
				fmt.Println("No profile yet.")
				continue
			}
			b, _ := json.MarshalIndent(p, "", "  ")
			fmt.Println(string(b))
		case "/personas":
			for i, p := range persona.Presets() {
				fmt.Printf("%d. %s\n", i+1, p)
			}
		case "/persona":
			next, err := persona.Resolve(arg)
			if err != nil {
				fmt.Fprintf(os.Stderr, "error: %v\n", err)
				continue
			}
			label = next
			fmt.Printf("Persona: %s\n", label)
		default:
			out, err := sess.Transform(ctx, e.credential, line, label)
			if err != nil {
				fmt.Fprintf(os.Stderr, "error: %v\n", err)
				continue
			}
			fmt.Printf("\u001b[93m%s\u001b[0m: %s\n", label, out)
		}
	}
	if err := scanner.Err(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: stdin read error: %v\n", err)
	}
	return nil
}
