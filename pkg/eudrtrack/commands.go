package eudrtrack

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/forestline/eudrtrack/pkg/archive"
	"github.com/forestline/eudrtrack/pkg/auth"
	"github.com/forestline/eudrtrack/pkg/mode"
	"github.com/forestline/eudrtrack/pkg/models"
	"github.com/forestline/eudrtrack/pkg/schema"
	"github.com/forestline/eudrtrack/pkg/store"
)

type cli struct {
	v       *viper.Viper
	cfgFile string
	out     io.Writer
}

// withApp opens the application for one command and closes it afterwards.
func (c *cli) withApp(fn func(ctx context.Context, app *App, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(c.v, c.cfgFile)
		if err != nil {
			return err
		}
		app, err := New(cmd.Context(), cfg, c.out)
		if err != nil {
			return fmt.Errorf("failed to create application: %w", err)
		}
		defer func() { _ = app.Close() }()
		return fn(cmd.Context(), app, args)
	}
}

func newRootCommand(out io.Writer) *cobra.Command {
	c := &cli{v: newViper(), out: out}

	root := &cobra.Command{
		Use:   "eudrtrack",
		Short: "Manage EUDR compliance records locally or through the remote CMS",
		Long: `eudrtrack keeps organizations, customers, products, suppliers, raw
materials, origins, risk assessments and due diligence statements.

In offline mode records live in local storage, seeded with sample data on
first use. In online mode every operation is sent to the CMS at remote.url.

Examples:
  eudrtrack list suppliers --search cocoa
  eudrtrack list origins --filter deforestation_risk=high --limit 10
  eudrtrack create origins name="Block 7" country=Ghana region=Ashanti \
      coordinates="6.7,-1.6" area_hectares=40 forest_coverage=12 deforestation_risk=low
  eudrtrack mode online
  eudrtrack export --out s3://eudr-backups/snapshot.json`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(out)

	flags := root.PersistentFlags()
	flags.StringVar(&c.cfgFile, "config", "", "config file (yaml, toml or json)")
	flags.String("storage", "file", "local storage driver: memory, file, sqlite, postgres or redis")
	flags.String("storage-path", ".eudrtrack", "directory or database file of the file and sqlite drivers")
	flags.String("postgres-dsn", "", "postgres connection string")
	flags.String("redis-url", "redis://localhost:6379/0", "redis connection URL")
	flags.String("remote-url", "", "base URL of the remote CMS")
	flags.String("transport", "http", "remote transport: http or ws")
	flags.String("codec", "json", "remote wire format: json or cbor")
	flags.Duration("timeout", 10*time.Second, "remote call timeout")
	flags.Bool("offline", true, "initial mode when no preference is stored")
	flags.String("log-level", "info", "log level")
	flags.String("log-file", "", "write logs to this file instead of stderr")
	flags.Bool("log-console", false, "human readable logs")
	for key, name := range map[string]string{
		"storage.driver":       "storage",
		"storage.path":         "storage-path",
		"storage.postgres_dsn": "postgres-dsn",
		"storage.redis_url":    "redis-url",
		"remote.url":           "remote-url",
		"remote.transport":     "transport",
		"remote.codec":         "codec",
		"remote.timeout":       "timeout",
		"offline":              "offline",
		"log.level":            "log-level",
		"log.file":             "log-file",
		"log.console":          "log-console",
	} {
		_ = c.v.BindPFlag(key, flags.Lookup(name))
	}

	root.AddCommand(
		c.seedCommand(),
		c.resetCommand(),
		c.clearCommand(),
		c.modeCommand(),
		c.listCommand(),
		c.getCommand(),
		c.createCommand(),
		c.updateCommand(),
		c.deleteCommand(),
		c.submitCommand(),
		c.exportCommand(),
		c.importCommand(),
		c.loginCommand(),
		c.logoutCommand(),
		c.whoamiCommand(),
	)
	return root
}

func (c *cli) seedCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Write the sample records unless local storage was already initialized",
		Args:  cobra.NoArgs,
		RunE: c.withApp(func(ctx context.Context, app *App, _ []string) error {
			seeded, err := app.local.EnsureSeeded(ctx)
			if err != nil {
				return err
			}
			return app.print(map[string]any{"seeded": seeded})
		}),
	}
}

func (c *cli) resetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "reset [collection...]",
		Short: "Restore the sample records of the named collections, or of all",
		RunE: c.withApp(func(ctx context.Context, app *App, args []string) error {
			return app.local.Reset(ctx, canonicalAll(args)...)
		}),
	}
}

func (c *cli) clearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear [collection...]",
		Short: "Empty the named local collections, or all of them",
		RunE: c.withApp(func(ctx context.Context, app *App, args []string) error {
			return app.local.Clear(ctx, canonicalAll(args)...)
		}),
	}
}

func (c *cli) modeCommand() *cobra.Command {
	return &cobra.Command{
		Use:       "mode [online|offline]",
		Short:     "Show or change where entity operations are sent",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"online", "offline"},
		RunE: c.withApp(func(ctx context.Context, app *App, args []string) error {
			if len(args) == 1 {
				var offline bool
				switch args[0] {
				case "offline":
					offline = true
				case "online":
					if !app.remote.Configured() {
						app.log.Warn().Msg("switching online without remote.url; calls will fail")
					}
				default:
					return fmt.Errorf("mode must be online or offline, got %q", args[0])
				}
				if err := app.mode.SetOffline(ctx, offline); err != nil {
					return err
				}
			}
			return app.print(map[string]any{"mode": mode.Name(app.mode.Offline(ctx))})
		}),
	}
}

func (c *cli) listCommand() *cobra.Command {
	var (
		params  store.ListParams
		filters []string
	)
	cmd := &cobra.Command{
		Use:   "list <collection>",
		Short: "List records, optionally searched, filtered and paged",
		Args:  cobra.ExactArgs(1),
		RunE: c.withApp(func(ctx context.Context, app *App, args []string) error {
			e, err := app.entity(args[0])
			if err != nil {
				return err
			}
			if len(filters) > 0 {
				params.Filters = map[string]string{}
				for _, f := range filters {
					k, v, ok := strings.Cut(f, "=")
					if !ok {
						return fmt.Errorf("filter %q is not field=value", f)
					}
					params.Filters[k] = v
				}
			}
			items, err := e.List(ctx, params)
			if err != nil {
				return err
			}
			return app.print(items)
		}),
	}
	cmd.Flags().StringVar(&params.Search, "search", "", "case-insensitive text matched against the search fields")
	cmd.Flags().StringArrayVar(&filters, "filter", nil, "field=value exact match, repeatable")
	cmd.Flags().IntVar(&params.Limit, "limit", 0, "maximum number of records")
	cmd.Flags().IntVar(&params.Offset, "offset", 0, "records to skip")
	return cmd
}

func (c *cli) getCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get <collection> <id>",
		Short: "Show one record",
		Args:  cobra.ExactArgs(2),
		RunE: c.withApp(func(ctx context.Context, app *App, args []string) error {
			e, err := app.entity(args[0])
			if err != nil {
				return err
			}
			item, err := e.Get(ctx, args[1])
			if err != nil {
				return err
			}
			return app.print(item)
		}),
	}
}

func (c *cli) createCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "create <collection> field=value...",
		Short: "Create a record from field assignments",
		Args:  cobra.MinimumNArgs(1),
		RunE: c.withApp(func(ctx context.Context, app *App, args []string) error {
			e, err := app.entity(args[0])
			if err != nil {
				return err
			}
			draft, err := parseAssignments(args[1:])
			if err != nil {
				return err
			}
			item, err := e.Create(ctx, draft)
			if err != nil {
				return err
			}
			return app.print(item)
		}),
	}
}

func (c *cli) updateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "update <collection> <id> field=value...",
		Short: "Change some fields of a record",
		Args:  cobra.MinimumNArgs(3),
		RunE: c.withApp(func(ctx context.Context, app *App, args []string) error {
			e, err := app.entity(args[0])
			if err != nil {
				return err
			}
			draft, err := parseAssignments(args[2:])
			if err != nil {
				return err
			}
			item, err := e.Update(ctx, args[1], draft)
			if err != nil {
				return err
			}
			return app.print(item)
		}),
	}
}

func (c *cli) deleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <collection> <id>",
		Short: "Delete a record",
		Args:  cobra.ExactArgs(2),
		RunE: c.withApp(func(ctx context.Context, app *App, args []string) error {
			e, err := app.entity(args[0])
			if err != nil {
				return err
			}
			if err := e.Delete(ctx, args[1]); err != nil {
				return err
			}
			return app.print(map[string]any{"deleted": args[1]})
		}),
	}
}

func (c *cli) submitCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "submit <statement-id>",
		Short: "Submit a due diligence statement",
		Args:  cobra.ExactArgs(1),
		RunE: c.withApp(func(ctx context.Context, app *App, args []string) error {
			dds, err := app.router.Statements().Submit(ctx, args[0])
			if err != nil {
				return err
			}
			if dds == nil {
				return fmt.Errorf("%s %s not found", models.DueDiligenceStatements.Label, args[0])
			}
			return app.print(dds)
		}),
	}
}

func (c *cli) exportCommand() *cobra.Command {
	var location string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a snapshot of local storage to stdout, a file or s3://bucket/key",
		Args:  cobra.NoArgs,
		RunE: c.withApp(func(ctx context.Context, app *App, _ []string) error {
			if location == "" {
				data, err := app.local.Export(ctx)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(app.out, string(data))
				return err
			}
			target, err := app.archiveTarget(ctx, location)
			if err != nil {
				return err
			}
			if err := archive.Backup(ctx, app.local, target); err != nil {
				return fmt.Errorf("export to %s failed: %w", target, err)
			}
			app.log.Info().Str("target", target.String()).Msg("snapshot exported")
			return nil
		}),
	}
	cmd.Flags().StringVar(&location, "out", "", "file path or s3://bucket/key")
	return cmd
}

func (c *cli) importCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file|s3://bucket/key>",
		Short: "Replace local collections with the contents of a snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: c.withApp(func(ctx context.Context, app *App, args []string) error {
			target, err := app.archiveTarget(ctx, args[0])
			if err != nil {
				return err
			}
			if err := archive.Restore(ctx, app.local, target); err != nil {
				return fmt.Errorf("import from %s failed: %w", target, err)
			}
			app.log.Info().Str("source", target.String()).Msg("snapshot imported")
			return nil
		}),
	}
}

func (c *cli) loginCommand() *cobra.Command {
	var token string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Store the bearer token sent to the CMS",
		Args:  cobra.NoArgs,
		RunE: c.withApp(func(ctx context.Context, app *App, _ []string) error {
			if token == "" {
				return errors.New("--token is required")
			}
			if err := app.creds.Set(ctx, token); err != nil {
				return err
			}
			if !app.creds.Valid() {
				app.log.Warn().Msg("stored token is already expired")
			}
			return nil
		}),
	}
	cmd.Flags().StringVar(&token, "token", "", "bearer token issued by the CMS")
	return cmd
}

func (c *cli) logoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored token",
		Args:  cobra.NoArgs,
		RunE: c.withApp(func(_ context.Context, app *App, _ []string) error {
			app.creds.Clear()
			return nil
		}),
	}
}

func (c *cli) whoamiCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the mode, the remote endpoint and the state of the stored token",
		Args:  cobra.NoArgs,
		RunE: c.withApp(func(ctx context.Context, app *App, _ []string) error {
			status := map[string]any{
				"mode":          mode.Name(app.mode.Offline(ctx)),
				"remote":        app.config.Remote.URL,
				"authenticated": app.creds.Token() != "",
				"token_valid":   app.creds.Valid(),
			}
			if exp, ok := auth.Expiry(app.creds.Token()); ok {
				status["expires_at"] = exp.UTC().Format(time.RFC3339)
			}
			return app.print(status)
		}),
	}
}

// parseAssignments turns field=value arguments into a draft. Values stay
// strings; the schema coerces them to the field types.
func parseAssignments(args []string) (schema.Draft, error) {
	draft := schema.Draft{}
	for _, arg := range args {
		k, v, ok := strings.Cut(arg, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("argument %q is not field=value", arg)
		}
		if unquoted, err := strconv.Unquote(v); err == nil {
			v = unquoted
		}
		draft[k] = v
	}
	return draft, nil
}

func canonicalAll(names []string) []string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = canonical(n)
	}
	return out
}
