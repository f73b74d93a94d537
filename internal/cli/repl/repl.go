package repl

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Executor runs one console line and returns its output.
type Executor func(line string) (string, error)

// Config configures a REPL.
type Config struct {
	Input  io.Reader
	Output io.Writer
	Prompt string

	Exec Executor

	// Commands seeds completion; the console's help listing works well.
	Commands []string

	// HistoryFile persists history between sessions. Empty keeps it in
	// memory only.
	HistoryFile string
}

// REPL is an interactive console session.
type REPL struct {
	input     io.Reader
	output    io.Writer
	prompt    string
	exec      Executor
	completer *Completer
	history   *History
}

// New creates a new REPL instance.
func New(cfg Config) *REPL {
	prompt := cfg.Prompt
	if prompt == "" {
		prompt = "craftgate> "
	}
	return &REPL{
		input:     cfg.Input,
		output:    cfg.Output,
		prompt:    prompt,
		exec:      cfg.Exec,
		completer: NewCompleter(cfg.Commands),
		history:   NewHistory(cfg.HistoryFile),
	}
}

// Run reads lines until exit, quit or EOF. Built-in lines: "history"
// prints recent input and "complete <prefix>" lists matching commands.
func (r *REPL) Run() error {
	if err := r.history.Load(); err != nil {
		fmt.Fprintf(r.output, "warning: history not loaded: %v\n", err)
	}
	defer r.history.Save()

	reader := bufio.NewReader(r.input)
	for {
		fmt.Fprint(r.output, r.prompt)

		line, err := reader.ReadString('\n')
		if err == io.EOF && line == "" {
			fmt.Fprintln(r.output)
			return nil
		}
		if err != nil && err != io.EOF {
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if line == "exit" || line == "quit" {
			return nil
		}

		r.history.Add(line)
		r.dispatch(line)
	}
}

func (r *REPL) dispatch(line string) {
	switch {
	case line == "history":
		for i := r.history.Len() - 1; i >= 0; i-- {
			fmt.Fprintf(r.output, "%4d  %s\n", r.history.Len()-i, r.history.Get(i))
		}
	case strings.HasPrefix(line, "complete "):
		for _, s := range r.completer.Complete(strings.TrimPrefix(line, "complete ")) {
			fmt.Fprintln(r.output, s)
		}
	default:
		out, err := r.exec(line)
		if err != nil {
			fmt.Fprintf(r.output, "Error: %v\n", err)
			return
		}
		if out != "" {
			fmt.Fprintln(r.output, out)
		}
	}
}
