/*
Copyright © 2025 Valentyn Solomko <valentyn.solomko@gmail.com>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/valpere/libretran/internal/config"
	"github.com/valpere/libretran/internal/logging"
	"github.com/valpere/libretran/internal/translator"
)

var version = "0.1.0"

const flagListLanguages = "list-languages"

// app carries what PreRunE resolved for the running command.
type app struct {
	v      *viper.Viper
	cfg    *config.Config
	logger *zap.Logger
}

func newApp() *app {
	return &app{v: config.NewViper()}
}

// newRootCmd builds the single command. It has no subcommands, so the first
// positional argument is always text to translate, even "help".
func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "libretran <text>",
		Short: "Translate text with a local LibreTranslate endpoint",
		Long: `Send one piece of text to a LibreTranslate-compatible endpoint and print
the translation to stdout.

The source language is detected by the endpoint unless --source is given.
When the endpoint answers with a non-200 status, "Error: <code>" is printed
to stdout and the exit status is 1.

Use --list-languages to print the languages the endpoint supports.

Every flag can also be set through the environment, e.g.
  LIBRETRAN_URL=http://translate.lan:5000 libretran --target uk "Good morning"`,
		Version:           version,
		Args:              requireText,
		SilenceErrors:     true,
		SilenceUsage:      true,
		CompletionOptions: cobra.CompletionOptions{DisableDefaultCmd: true},
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if list, _ := cmd.Flags().GetBool(flagListLanguages); list {
				return a.listLanguages(cmd.Context(), cmd.OutOrStdout())
			}
			return a.translate(cmd.Context(), cmd.OutOrStdout(), args)
		},
	}

	rootCmd.Flags().String(config.KeyURL, translator.DefaultBaseURL, "Base URL of the translation endpoint")
	rootCmd.Flags().Duration(config.KeyTimeout, config.DefaultTimeout, "Request timeout (0 waits indefinitely)")
	rootCmd.Flags().BoolP(config.KeyVerbose, "v", false, "Log request details to stderr")

	rootCmd.Flags().StringP(config.KeySource, "s", translator.AutoDetect, "Source language code")
	rootCmd.Flags().StringP(config.KeyTarget, "t", translator.DefaultTarget, "Target language code")
	rootCmd.Flags().String(config.KeyFormat, translator.FormatText, `Input format: "text" or "html"`)
	rootCmd.Flags().Bool(config.KeyValidate, false, "Warn when the translation is not in the target language")
	rootCmd.Flags().Bool(flagListLanguages, false, "List the languages supported by the endpoint and exit")

	return rootCmd
}

func requireText(cmd *cobra.Command, args []string) error {
	if list, _ := cmd.Flags().GetBool(flagListLanguages); list {
		return nil
	}
	if len(args) == 0 {
		return translator.ErrMissingText
	}
	return nil
}

// setup binds the command's flags, loads the configuration and builds the
// logger on the command's stderr.
func (a *app) setup(cmd *cobra.Command) error {
	if err := a.v.BindPFlags(cmd.Flags()); err != nil {
		return fmt.Errorf("failed to bind flags: %w", err)
	}

	cfg, err := config.Load(a.v)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = logging.New(cfg.Verbose, cmd.ErrOrStderr())
	return nil
}

func (a *app) sync() {
	if a.logger != nil {
		_ = a.logger.Sync()
	}
}

func (a *app) client() *translator.LibreClient {
	return translator.NewLibreClient(a.cfg.BaseURL, a.cfg.Timeout, a.logger)
}

func (a *app) translate(ctx context.Context, out io.Writer, args []string) error {
	if len(args) > 1 {
		a.logger.Warn("ignoring extra arguments", zap.Strings("args", args[1:]))
	}

	req := a.cfg.Request(args[0])
	resp, err := a.client().Translate(ctx, req)
	if err != nil {
		var httpErr *translator.HTTPError
		if errors.As(err, &httpErr) {
			a.logger.Debug("translation rejected", zap.Int("status", httpErr.StatusCode), zap.String("message", httpErr.Message))
			fmt.Fprintf(out, "Error: %d\n", httpErr.StatusCode)
		}
		return err
	}

	if a.cfg.Validate {
		a.checkLanguage(resp.TranslatedText)
	}

	_, err = fmt.Fprintln(out, resp.TranslatedText)
	return err
}

// execute runs the CLI with args and returns the process exit status.
// A rejected translation was already reported on stdout as "Error: <code>";
// every other failure is reported on stderr.
func execute(args []string, stdout, stderr io.Writer) int {
	a := newApp()
	defer a.sync()

	rootCmd := newRootCmd(a)
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		var httpErr *translator.HTTPError
		if !errors.As(err, &httpErr) {
			fmt.Fprintf(rootCmd.ErrOrStderr(), "Error: %v\n", err)
		}
		return 1
	}
	return 0
}

func Execute() {
	os.Exit(execute(os.Args[1:], os.Stdout, os.Stderr))
}
