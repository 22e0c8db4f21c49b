package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/jessevdk/go-flags"

	"github.com/petasbytes/persona-engine/internal/config"
	"github.com/petasbytes/persona-engine/internal/logging"
)

type globalOptions struct {
	APIKey  string `long:"api-key" description:"Anthropic API key (defaults to ANTHROPIC_API_KEY)"`
	Verbose bool   `short:"v" long:"verbose" description:"Enable debug logging"`
	EnvFile string `long:"env-file" description:"Load settings from this .env file"`
}

var globals globalOptions

// env is the resolved runtime shared by every command.
type env struct {
	conf       *config.Config
	logger     *log.Logger
	credential string
}

func loadEnv() (*env, error) {
	var files []string
	if globals.EnvFile != "" {
		files = append(files, globals.EnvFile)
	}
	conf, err := config.Load(files...)
	if err != nil {
		return nil, err
	}
	level := conf.LogLevel
	if globals.Verbose {
		level = "debug"
	}
	return &env{
		conf:       conf,
		logger:     logging.New(os.Stderr, level),
		credential: conf.ResolveCredential(globals.APIKey),
	}, nil
}

func main() {
	parser := flags.NewParser(&globals, flags.HelpFlag|flags.PassDoubleDash)
	parser.ShortDescription = "persona"
	parser.LongDescription = "Extract user profiles from conversations and rewrite replies in a chosen persona."

	commands := []struct {
		name, short, long string
		data              any
	}{
		{"extract", "Extract a profile from a transcript", "Reads a transcript (.json conversation or plain text) and prints the extracted profile as JSON.", &extractCommand{}},
		{"rewrite", "Rewrite a reply in a persona", "Rewrites --text for --persona using a saved profile or one extracted from --transcript.", &rewriteCommand{}},
		{"personas", "List persona presets", "Prints the numbered persona presets accepted by --persona.", &personasCommand{}},
		{"chat", "Interactive rewrite session", "Analyzes a transcript and rewrites each line typed on stdin.", &chatCommand{}},
		{"serve", "Run the HTTP API", "Serves the extract and rewrite API over HTTP.", &serveCommand{}},
	}
	for _, c := range commands {
		if _, err := parser.AddCommand(c.name, c.short, c.long, c.data); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(2)
		}
	}

	if _, err := parser.Parse(); err != nil {
		os.Exit(report(err))
	}
}

// report prints err and returns the exit code. --verbose adds the stack
// trace of engine errors.
func report(err error) int {
	var fe *flags.Error
	if errors.As(err, &fe) {
		if fe.Type == flags.ErrHelp {
			fmt.Fprintln(os.Stdout, fe.Message)
			return 0
		}
		fmt.Fprintln(os.Stderr, fe.Message)
		return 2
	}
	if globals.Verbose {
		fmt.Fprintf(os.Stderr, "error: %+v\n", err)
	} else {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
	}
	return 1
}
