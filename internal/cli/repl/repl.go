package repl

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/oklog/ulid/v2"

	"github.com/yndnr/smsauth/internal/infra/confloader"
	"github.com/yndnr/smsauth/internal/telemetry/logger"
)

// Executor runs one line of input split into arguments.
type Executor func(ctx context.Context, args []string) error

// REPL represents the Read-Eval-Print Loop.
type REPL struct {
	input     *bufio.Reader
	output    io.Writer
	exec      Executor
	prompt    func() string
	completer *Completer
	history   *History
	logger    logger.Logger

	configPath string
	onConfig   func(path string)
}

// Option configures a REPL.
type Option func(*REPL)

// WithIO sets the input and output streams. Default: stdin and stdout.
func WithIO(in io.Reader, out io.Writer) Option {
	return func(r *REPL) {
		r.input = bufio.NewReader(in)
		r.output = out
	}
}

// WithPrompt sets a function computing the prompt before every line.
func WithPrompt(prompt func() string) Option {
	return func(r *REPL) {
		r.prompt = prompt
	}
}

// WithHistory sets the command history.
func WithHistory(h *History) Option {
	return func(r *REPL) {
		r.history = h
	}
}

// WithCompleter sets the completer used by the complete builtin.
func WithCompleter(c *Completer) Option {
	return func(r *REPL) {
		r.completer = c
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(r *REPL) {
		r.logger = l
	}
}

// WithConfigWatch calls reload whenever the file at path changes while the
// shell runs.
func WithConfigWatch(path string, reload func(path string)) Option {
	return func(r *REPL) {
		r.configPath = path
		r.onConfig = reload
	}
}

// New creates a new REPL running lines through exec.
func New(exec Executor, opts ...Option) *REPL {
	r := &REPL{
		input:     bufio.NewReader(os.Stdin),
		output:    os.Stdout,
		exec:      exec,
		prompt:    func() string { return "smsauth> " },
		completer: NewCompleter(nil),
		history:   NewHistory("", DefaultHistorySize),
		logger:    logger.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Reader returns the buffered input. Commands that prompt for input must
// read from it so that no typed-ahead line is lost.
func (r *REPL) Reader() io.Reader {
	return r.input
}

// Run starts the REPL loop. It returns nil on exit, quit or end of input,
// and ctx.Err() when ctx is cancelled between lines.
func (r *REPL) Run(ctx context.Context) error {
	if err := r.history.Load(); err != nil {
		r.logger.Warn("cannot load history", "error", err)
	}
	defer func() {
		if err := r.history.Save(); err != nil {
			r.logger.Warn("cannot save history", "error", err)
		}
	}()

	if stop := r.watchConfig(); stop != nil {
		defer stop()
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		fmt.Fprint(r.output, r.prompt())

		line, err := r.input.ReadString('\n')
		if errors.Is(err, io.EOF) && line == "" {
			fmt.Fprintln(r.output)
			return nil
		}
		if err != nil && !errors.Is(err, io.EOF) {
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		r.history.Add(line)

		if done := r.execute(ctx, line); done {
			return nil
		}
	}
}

// execute runs one line and reports whether the shell should end. Backend
// requests made for the line share one request ID.
func (r *REPL) execute(ctx context.Context, line string) bool {
	args, err := SplitArgs(line)
	if err != nil {
		fmt.Fprintf(r.output, "Error: %v\n", err)
		return false
	}

	switch args[0] {
	case "exit", "quit":
		return true
	case "history":
		for i, entry := range r.history.Entries() {
			fmt.Fprintf(r.output, "%4d  %s\n", i+1, entry)
		}
		return false
	case "complete":
		prefix := strings.TrimSpace(strings.TrimPrefix(line, "complete"))
		for _, s := range r.completer.Complete(prefix) {
			fmt.Fprintln(r.output, s)
		}
		return false
	}

	ctx = logger.WithRequestID(ctx, ulid.Make().String())
	logger.L(ctx).Debug("running shell line", "command", args[0])

	if err := r.exec(ctx, args); err != nil {
		fmt.Fprintf(r.output, "Error: %v\n", err)
	}
	return false
}

func (r *REPL) watchConfig() (stop func()) {
	if r.configPath == "" || r.onConfig == nil {
		return nil
	}

	w, err := confloader.NewWatcher(confloader.WithWatcherLogger(r.logger))
	if err != nil {
		r.logger.Warn("cannot watch configuration", "error", err)
		return nil
	}
	if err := w.Watch(r.configPath); err != nil {
		r.logger.Debug("configuration file not watched", "file", r.configPath, "error", err)
		w.Stop()
		return nil
	}
	w.OnChange(r.onConfig)
	w.StartAsync()

	return func() { w.Stop() }
}

// SplitArgs splits line into arguments. Single and double quotes group
// words; a backslash escapes the next character outside single quotes.
func SplitArgs(line string) ([]string, error) {
	var (
		args    []string
		cur     strings.Builder
		inArg   bool
		quote   rune
		escaped bool
	)

	for _, ch := range line {
		switch {
		case escaped:
			cur.WriteRune(ch)
			escaped = false
		case ch == '\\' && quote != '\'':
			escaped = true
			inArg = true
		case quote != 0:
			if ch == quote {
				quote = 0
			} else {
				cur.WriteRune(ch)
			}
		case ch == '\'' || ch == '"':
			quote = ch
			inArg = true
		case ch == ' ' || ch == '\t':
			if inArg {
				args = append(args, cur.String())
				cur.Reset()
				inArg = false
			}
		default:
			cur.WriteRune(ch)
			inArg = true
		}
	}

	if quote != 0 {
		return nil, fmt.Errorf("unterminated %c quote", quote)
	}
	if escaped {
		return nil, errors.New("trailing backslash")
	}
	if inArg {
		args = append(args, cur.String())
	}
	if len(args) == 0 {
		return nil, errors.New("empty command")
	}
	return args, nil
}
