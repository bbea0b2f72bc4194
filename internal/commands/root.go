// Package commands provides CLI commands for fitbot.
package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/diogo/fitbot/internal/config"
)

var (
	// Global flags
	baseURLFlag string
	timeoutFlag time.Duration
	verboseFlag bool

	// Root command flags
	outputFlag string
	fileFlag   string
	rawFlag    bool

	// Version info (set at build time)
	Version   = "0.1.0"
	BuildTime = "unknown"
)

// rootCmd represents the base command
var rootCmd = NewRootCmd(NewDependencies())

// NewRootCmd builds the command tree around deps
func NewRootCmd(deps *Dependencies) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fitbot [question]",
		Short: "Chat with the FitBot fitness assistant",
		Long: `fitbot is a terminal client for the FitBot answer service. Ask about
workouts, nutrition, or fitness tips and get the answer rendered as markdown.

Examples:
  fitbot chat                                 Start interactive chat
  fitbot "Buatkan program workout untuk pemula" Ask a single question
  fitbot -f question.md                       Read the question from a file
  cat question.md | fitbot                    Read the question from stdin
  fitbot "Tips cardio?" -o answer.md          Save the answer to a file
  fitbot health                               Check the answer service
  fitbot serve --addr :3000                   Run the chat proxy`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return config.LoadDotEnv()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if v, _ := cmd.Flags().GetBool("version"); v {
				fmt.Fprintf(cmd.OutOrStdout(), "fitbot %s (built %s)\n", Version, BuildTime)
				return nil
			}

			question, ok, err := readQuestion(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}
			if !ok {
				return cmd.Help()
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return runAsk(cmd.Context(), deps, cfg, question, askOptions{
				Raw:    rawFlag || !isStdoutTTY(),
				Output: outputFlag,
				Stdout: cmd.OutOrStdout(),
				Stderr: cmd.ErrOrStderr(),
			})
		},
	}

	cmd.PersistentFlags().StringVar(&baseURLFlag, "base-url", "", "Answer service base URL (default from config)")
	cmd.PersistentFlags().DurationVar(&timeoutFlag, "timeout", 0, "Request timeout, e.g. 30s (default from config)")
	cmd.PersistentFlags().BoolVar(&verboseFlag, "verbose", false, "Log request details to stderr")
	cmd.Flags().StringVarP(&outputFlag, "output", "o", "", "Save answer to file")
	cmd.Flags().StringVarP(&fileFlag, "file", "f", "", "Read question from file")
	cmd.Flags().BoolVar(&rawFlag, "raw", false, "Print the raw answer without decoration")
	cmd.Flags().BoolP("version", "v", false, "Show version and exit")

	cmd.AddCommand(NewChatCmd(deps))
	cmd.AddCommand(NewConfigCmd(deps))
	cmd.AddCommand(NewHealthCmd(deps))
	cmd.AddCommand(NewPromptsCmd())
	cmd.AddCommand(NewServeCmd(deps))

	return cmd
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		reportError(os.Stderr, err)
		os.Exit(1)
	}
}

// reportedError marks a failure whose details were already printed
type reportedError struct {
	err error
}

func (e *reportedError) Error() string { return e.err.Error() }
func (e *reportedError) Unwrap() error { return e.err }

// reportError prints err unless a command already did
func reportError(w io.Writer, err error) {
	var reported *reportedError
	if err == nil || errors.As(err, &reported) {
		return
	}
	fmt.Fprintln(w, formatErrorMessage(err, "Error"))
}

// readQuestion picks the question from -f, piped stdin, or the argument, in
// that order. ok is false when none was given.
func readQuestion(stdin io.Reader, args []string) (string, bool, error) {
	if fileFlag != "" {
		data, err := os.ReadFile(fileFlag)
		if err != nil {
			return "", false, fmt.Errorf("failed to read file: %w", err)
		}
		return string(data), true, nil
	}

	if hasPipedInput(stdin) {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", false, fmt.Errorf("failed to read stdin: %w", err)
		}
		if strings.TrimSpace(string(data)) != "" {
			return string(data), true, nil
		}
	}

	if len(args) > 0 {
		return args[0], true, nil
	}

	return "", false, nil
}

// hasPipedInput reports whether r is a pipe or file rather than a terminal
func hasPipedInput(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok {
		// injected readers (tests) count as piped
		return r != nil
	}
	stat, err := f.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) == 0
}

// loadConfig loads the stored config and applies the global flag overrides
func loadConfig() (config.Config, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return cfg, fmt.Errorf("failed to load config: %w", err)
	}

	if baseURLFlag != "" {
		cfg.BaseURL = strings.TrimRight(baseURLFlag, "/")
	}
	if timeoutFlag > 0 {
		cfg.TimeoutSeconds = int((timeoutFlag + time.Second - 1) / time.Second)
	}
	if verboseFlag {
		cfg.Verbose = true
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}
