// Command client is the EduPath terminal client.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"edupath/internal/app"
	"edupath/internal/config"
	"edupath/internal/i18n"
	"edupath/internal/utils"
	"edupath/internal/views"
)

func main() {
	c := &cli{cfg: config.Load()}
	if err := c.root().Execute(); err != nil {
		os.Exit(1)
	}
}

// cli carries the application across commands. In the shell the same app
// serves every line.
type cli struct {
	cfg    config.Config
	app    *app.App
	logger *zap.Logger

	server string
	lang   string
	// shell is set while the interactive shell owns the app.
	shell bool
}

func (c *cli) root() *cobra.Command {
	root := &cobra.Command{
		Use:           "edupath",
		Short:         "EduPath career guidance client",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.open(cmd.Context())
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			if c.shell {
				return nil
			}
			return c.close()
		},
	}
	root.PersistentFlags().StringVar(&c.server, "server", "", "API base URL (overrides EDUPATH_API_URL)")
	root.PersistentFlags().StringVar(&c.lang, "lang", "", "display language: en, hi or ks")

	root.AddCommand(
		c.loginCmd(),
		c.registerCmd(),
		c.whoamiCmd(),
		c.logoutCmd(),
		c.langCmd(),
		c.dashboardCmd(),
		c.recommendCmd(),
		c.historyCmd(),
		c.scholarshipsCmd(),
		c.opportunitiesCmd(),
		c.profileCmd(),
		c.healthCmd(),
		c.shellCmd(),
	)
	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return fmt.Errorf("%w\n%s", err, cmd.UsageString())
	})
	c.wrapErrors(root)
	return root
}

// wrapErrors prints command errors in the display language.
func (c *cli) wrapErrors(cmd *cobra.Command) {
	for _, sub := range cmd.Commands() {
		c.wrapErrors(sub)
	}
	if cmd.RunE == nil {
		return
	}
	run := cmd.RunE
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		err := run(cmd, args)
		if err != nil {
			c.printError(cmd.ErrOrStderr(), err)
		}
		return err
	}
}

func (c *cli) printError(out io.Writer, err error) {
	if c.app == nil {
		fmt.Fprintln(out, "Error:", utils.UserMessage(err))
		return
	}
	ctx := c.app.Context()
	switch {
	case errors.Is(err, utils.ErrNotSignedIn):
		fmt.Fprintln(out, ctx.T("auth.not_signed_in"))
	case errors.Is(err, utils.ErrForbidden):
		fmt.Fprintln(out, ctx.T("error.forbidden"))
	default:
		views.RenderValidation(out, ctx, err)
	}
}

// open builds the app once and restores the stored session.
func (c *cli) open(ctx context.Context) error {
	if c.app != nil {
		return nil
	}
	cfg := c.cfg
	if c.server != "" {
		cfg.APIURL = strings.TrimRight(c.server, "/")
	}
	if c.lang != "" {
		if _, err := i18n.Parse(c.lang); err != nil {
			return fmt.Errorf("--lang %q: %w", c.lang, err)
		}
		cfg.Language = c.lang
	}
	logger := c.logger
	if logger == nil {
		var err error
		if logger, err = utils.NewLogger(cfg.LogLevel, cfg.LogFile); err != nil {
			return err
		}
	}
	a, err := app.New(cfg, logger)
	if err != nil {
		return err
	}
	c.app = a

	_, _, err = a.Start(ctx)
	switch {
	case errors.Is(err, utils.ErrUnauthorized):
		fmt.Fprintln(os.Stderr, a.Context().T("auth.session_expired"))
	case err != nil:
		logger.Warn("stored session not verified", zap.Error(err))
	}
	if c.lang != "" {
		lang, _ := i18n.Parse(c.lang)
		_ = a.Context().SetLanguage(lang)
	}
	return nil
}

func (c *cli) close() error {
	if c.app == nil {
		return nil
	}
	err := c.app.Close()
	c.app = nil
	return err
}
