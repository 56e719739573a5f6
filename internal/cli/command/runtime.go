package command

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/yndnr/smsauth/internal/cli/config"
	"github.com/yndnr/smsauth/internal/cli/connection"
	"github.com/yndnr/smsauth/internal/cli/output"
	"github.com/yndnr/smsauth/internal/core/domain"
	"github.com/yndnr/smsauth/internal/core/service"
	"github.com/yndnr/smsauth/internal/infra/buildinfo"
	"github.com/yndnr/smsauth/internal/infra/shutdown"
	"github.com/yndnr/smsauth/internal/infra/tlsroots"
	"github.com/yndnr/smsauth/internal/notify"
	"github.com/yndnr/smsauth/internal/storage"
	"github.com/yndnr/smsauth/internal/telemetry/logger"
	"github.com/yndnr/smsauth/internal/telemetry/metric"
)

const closeTimeout = 5 * time.Second

// Runtime holds everything a command needs to work with the session.
type Runtime struct {
	Config     *config.CLIConfig
	ConfigPath string
	Format     output.Format
	Formatter  output.Formatter
	Logger     logger.Logger
	Metrics    *metric.Registry
	Store      *service.Store
	Out        io.Writer
	Err        io.Writer

	shutdown *shutdown.Handler
	initOnce sync.Once
}

// NewRuntime wires a session Store from cfg. Close releases the token store
// and writes the metrics textfile when one is configured.
func NewRuntime(cfg *config.CLIConfig, configPath string, wide bool, out, errOut io.Writer) (*Runtime, error) {
	format, err := output.ParseFormat(cfg.Output)
	if err != nil {
		return nil, err
	}
	timeout, err := cfg.TimeoutDuration()
	if err != nil {
		return nil, domain.ErrInvalidConfig.WithDetails(fmt.Sprintf("timeout: %v", err))
	}

	logCfg := cfg.LoggerConfig()
	logCfg.Output = errOut
	log := logger.New(logCfg)

	tlsCfg, err := tlsroots.ClientConfig(cfg.TLS.CAFile)
	if err != nil {
		return nil, fmt.Errorf("load tls.ca_file: %w", err)
	}

	tokens, err := storage.Open(cfg.StorageConfig(), log)
	if err != nil {
		return nil, fmt.Errorf("open token store: %w", err)
	}

	cred := connection.NewCredential()
	client := connection.NewHTTPClient(cfg.Server, cred,
		connection.WithTimeout(timeout),
		connection.WithTLSConfig(tlsCfg),
		connection.WithUserAgent(buildinfo.UserAgent()),
		connection.WithLogger(log.With("component", "http")),
	)

	// Structured output keeps stdout parseable: success messages go to the
	// log and the outcome is printed as a ResultView instead.
	console := notify.NewConsole(out, errOut)
	var notifier notify.Notifier = console
	if format != output.FormatTable {
		console.SetQuiet(true)
		notifier = notify.Multi{console, notify.NewLog(log.With("component", "notify"))}
	}

	metrics := metric.NewRegistry()
	store := service.NewStore(connection.NewAuthAPI(client), cred, tokens,
		service.WithNotifier(notifier),
		service.WithLogger(log),
		service.WithMetrics(metrics),
		service.WithDevMode(cfg.DevMode),
	)

	rt := &Runtime{
		Config:     cfg,
		ConfigPath: configPath,
		Format:     format,
		Formatter:  output.NewFormatter(format, wide),
		Logger:     log,
		Metrics:    metrics,
		Store:      store,
		Out:        out,
		Err:        errOut,
		shutdown:   shutdown.NewHandler(closeTimeout),
	}

	rt.shutdown.OnShutdown(func(context.Context) error {
		return tokens.Close()
	})
	if path := cfg.Metrics.Textfile; path != "" {
		rt.shutdown.OnShutdown(func(context.Context) error {
			if err := metrics.WriteTextfile(path); err != nil {
				return fmt.Errorf("write metrics textfile: %w", err)
			}
			return nil
		})
	}

	return rt, nil
}

// Session initializes the store on first use and returns the current state.
func (rt *Runtime) Session(ctx context.Context) domain.State {
	rt.initOnce.Do(func() {
		rt.Store.Initialize(ctx)
	})
	return rt.Store.State()
}

// Print writes data in the configured output format.
func (rt *Runtime) Print(data any) error {
	return rt.Formatter.Format(rt.Out, data)
}

// Report prints the outcome of op for structured output and turns a failed
// Result into an *OperationError.
func (rt *Runtime) Report(op string, res domain.Result) error {
	if rt.Format != output.FormatTable {
		if err := rt.Print(output.NewResultView(op, res)); err != nil {
			return err
		}
	}
	if !res.Success {
		return &OperationError{Op: op, Message: res.Message}
	}
	return nil
}

// Close runs the shutdown hooks. It is safe to call more than once.
func (rt *Runtime) Close() error {
	return rt.shutdown.Shutdown()
}

// OperationError is returned by a command whose session operation failed.
// The user has already been notified of Message.
type OperationError struct {
	Op      string
	Message string
}

func (e *OperationError) Error() string {
	return e.Op + ": " + e.Message
}
