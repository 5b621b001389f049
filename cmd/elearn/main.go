package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/invopop/jsonschema"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"elearn/internal/bootstrap"
	sessiondto "elearn/internal/modules/session/dto"
	"elearn/internal/platform/config"
	apperrors "elearn/internal/platform/errors"
	"elearn/internal/platform/logging"
	"elearn/internal/ui/render"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type options struct {
	home     string
	logLevel string
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "elearn",
		Short:         "Deadlines, grades and calendar events from D2L Brightspace",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runTUI(opts)
		},
	}
	root.PersistentFlags().StringVar(&opts.home, "home", defaultHome(), "directory holding elearn.yaml and the saved session")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "log level: trace|debug|info|warn|error")

	root.AddCommand(newTUICmd(opts))
	root.AddCommand(newLoginCmd(opts))
	root.AddCommand(newLogoutCmd(opts))
	root.AddCommand(newStatusCmd(opts))
	root.AddCommand(newCoursesCmd(opts))
	root.AddCommand(newDeadlinesCmd(opts))
	root.AddCommand(newGradesCmd(opts))
	root.AddCommand(newCalendarCmd(opts))
	root.AddCommand(newConfigCmd(opts))
	return root
}

func defaultHome() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".elearn"
	}
	return filepath.Join(dir, "elearn")
}

func loadApp(opts *options) (*bootstrap.App, error) {
	if err := os.MkdirAll(opts.home, 0o700); err != nil {
		return nil, fmt.Errorf("create home: %w", err)
	}
	cfg, err := config.New(opts.home)
	if err != nil {
		return nil, err
	}
	return bootstrap.New(cfg, logging.New(opts.logLevel, os.Stderr))
}

func runTUI(opts *options) error {
	app, err := loadApp(opts)
	if err != nil {
		return err
	}
	defer app.Close()
	return bootstrap.RunTUI(app)
}

func newTUICmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Run the terminal UI",
		RunE: func(_ *cobra.Command, _ []string) error {
			return runTUI(opts)
		},
	}
}

func newLoginCmd(opts *options) *cobra.Command {
	var username string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and save the session cookie",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(opts)
			if err != nil {
				return err
			}
			defer app.Close()

			in := bufio.NewReader(cmd.InOrStdin())
			if strings.TrimSpace(username) == "" {
				username, err = prompt(cmd.ErrOrStderr(), in, "Username: ")
				if err != nil {
					return err
				}
			}
			password, err := readPassword(cmd.ErrOrStderr(), in)
			if err != nil {
				return err
			}
			out, err := app.SessionCLI.Login(context.Background(), username, password)
			if errors.Is(err, apperrors.ErrBadCredentials) {
				return fmt.Errorf("incorrect login")
			}
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "signed in "+describeStatus(out))
			return nil
		},
	}
	cmd.Flags().StringVar(&username, "username", "", "username or e-mail (prompted when empty)")
	return cmd
}

func prompt(w io.Writer, in *bufio.Reader, label string) (string, error) {
	_, _ = fmt.Fprint(w, label)
	line, err := in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read %s: %w", strings.TrimSuffix(strings.ToLower(label), ": "), err)
	}
	return strings.TrimSpace(line), nil
}

// readPassword disables echo when stdin is a terminal and falls back to a
// plain line read for piped input.
func readPassword(w io.Writer, in *bufio.Reader) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		line, err := in.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return "", fmt.Errorf("read password: %w", err)
		}
		return strings.TrimRight(line, "\r\n"), nil
	}
	_, _ = fmt.Fprint(w, "Password: ")
	raw, err := term.ReadPassword(fd)
	_, _ = fmt.Fprintln(w)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return string(raw), nil
}

func newLogoutCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the saved session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(opts)
			if err != nil {
				return err
			}
			defer app.Close()
			if err := app.SessionCLI.Logout(context.Background()); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "logged out")
			return nil
		},
	}
}

func newStatusCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Resume the saved session and report its state",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(opts)
			if err != nil {
				return err
			}
			defer app.Close()
			out, err := app.SessionCLI.Resume(context.Background())
			if err != nil && !errors.Is(err, apperrors.ErrNoSession) && !errors.Is(err, apperrors.ErrSessionExpired) {
				return err
			}
			if err != nil {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "not signed in: %v\n", err)
				return nil
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), describeStatus(out))
			return nil
		},
	}
}

// describeStatus reports the user and expiry only once an authorization has
// been fetched; before that they are unknown.
func describeStatus(out sessiondto.StatusOutput) string {
	if !out.Authorized {
		return fmt.Sprintf("state=%s authorized=false", out.State)
	}
	return fmt.Sprintf("state=%s authorized=true user=%s expires=%s",
		out.State, out.UserID, out.ExpiresAt.Format(time.RFC3339))
}

func newCoursesCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "courses",
		Short: "List enrolled courses",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(opts)
			if err != nil {
				return err
			}
			defer app.Close()
			ctx := context.Background()
			if err := resume(ctx, app); err != nil {
				return err
			}
			dir, err := app.CourseCLI.Refresh(ctx)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), render.Courses(dir))
			return nil
		},
	}
}

// resume restores the saved session; every remote command needs it.
func resume(ctx context.Context, app *bootstrap.App) error {
	_, err := app.SessionCLI.Resume(ctx)
	switch {
	case errors.Is(err, apperrors.ErrNoSession):
		return fmt.Errorf("not signed in, run `elearn login` first")
	case errors.Is(err, apperrors.ErrSessionExpired):
		return fmt.Errorf("session expired, run `elearn login` again")
	}
	return err
}

// prepare resumes the session and narrows the schedule to one course; an
// empty id keeps every course selected.
func prepare(ctx context.Context, app *bootstrap.App, courseID string) error {
	if err := resume(ctx, app); err != nil {
		return err
	}
	if strings.TrimSpace(courseID) == "" {
		return nil
	}
	return app.CourseCLI.Select(ctx, courseID)
}

func newDeadlinesCmd(opts *options) *cobra.Command {
	var window, courseID string
	cmd := &cobra.Command{
		Use:   "deadlines",
		Short: "Show upcoming assignment deadlines",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(opts)
			if err != nil {
				return err
			}
			defer app.Close()
			ctx := context.Background()
			if err := prepare(ctx, app, courseID); err != nil {
				return err
			}
			out, err := app.ScheduleCLI.Deadlines(ctx, window)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), render.Schedule(out))
			return nil
		},
	}
	cmd.Flags().StringVar(&window, "window", "week", "time window: today|week|month|all")
	cmd.Flags().StringVar(&courseID, "course", "", "course id (defaults to every course)")
	return cmd
}

func newGradesCmd(opts *options) *cobra.Command {
	var sort, courseID string
	cmd := &cobra.Command{
		Use:   "grades",
		Short: "Show graded items",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(opts)
			if err != nil {
				return err
			}
			defer app.Close()
			ctx := context.Background()
			if err := prepare(ctx, app, courseID); err != nil {
				return err
			}
			out, err := app.ScheduleCLI.Grades(ctx, sort)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), render.Schedule(out))
			return nil
		},
	}
	cmd.Flags().StringVar(&sort, "sort", "grade", "sort order: grade|date")
	cmd.Flags().StringVar(&courseID, "course", "", "course id (defaults to every course)")
	return cmd
}

func newCalendarCmd(opts *options) *cobra.Command {
	var window, courseID string
	cmd := &cobra.Command{
		Use:   "calendar",
		Short: "Show calendar events",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(opts)
			if err != nil {
				return err
			}
			defer app.Close()
			ctx := context.Background()
			if err := prepare(ctx, app, courseID); err != nil {
				return err
			}
			out, err := app.ScheduleCLI.Calendar(ctx, window)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), render.Schedule(out))
			return nil
		},
	}
	cmd.Flags().StringVar(&window, "window", "week", "time window: today|week|month|all")
	cmd.Flags().StringVar(&courseID, "course", "", "course id (defaults to every course)")
	return cmd
}

func newConfigCmd(opts *options) *cobra.Command {
	cfgCmd := &cobra.Command{Use: "config", Short: "Configuration helpers"}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "schema",
		Short: "Print the JSON schema of elearn.yaml",
		RunE: func(cmd *cobra.Command, _ []string) error {
			r := &jsonschema.Reflector{
				AllowAdditionalProperties: true,
				ExpandedStruct:            true,
				FieldNameTag:              "yaml",
			}
			schema := r.Reflect(&config.File{})
			schema.Title = "elearn configuration"
			schema.Description = "Schema for elearn.yaml in the elearn home directory."
			data, err := json.MarshalIndent(schema, "", "  ")
			if err != nil {
				return fmt.Errorf("marshal schema: %w", err)
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the resolved configuration",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.New(opts.home)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(w, "config: %s\nsession: %s\nbase_url: %s\ntenant_id: %s\napi_version: %s\napi_timezone: %s\nhttp_timeout: %s\ncache_ttl: %s\n",
				cfg.ConfigPath, cfg.SessionPath, cfg.BaseURL, cfg.TenantID, cfg.APIVersion, cfg.APILocation, cfg.HTTPTimeout, cfg.CacheTTL)
			return nil
		},
	})
	return cfgCmd
}
