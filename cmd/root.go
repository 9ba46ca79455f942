/*
Copyright © 2025 Dmitry Mozzherin <dmozzherin@gmail.com>

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/gnames/cfgrepair/internal/iofs"
	"github.com/gnames/cfgrepair/internal/iologger"
	"github.com/gnames/cfgrepair/internal/iorepair"
	"github.com/gnames/cfgrepair/internal/ioreport"
	app "github.com/gnames/cfgrepair/pkg"
	"github.com/gnames/cfgrepair/pkg/config"
	"github.com/gnames/cfgrepair/pkg/repair"
	"github.com/gnames/gn"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	homeDir string
	cfgFile string
	opts    []config.Option
	cfg     *config.Config
)

// getRootCmd returns the root command. It is the only command of
// cfgrepair, running it runs the repair pass.
func getRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Version: fmt.Sprintf("version: %s\nbuild:   %s", app.Version, app.Build),
		Use:     "cfgrepair [flags] [file...]",
		Short:   "cfgrepair removes defaults from required columns of Appwrite configs",
		Long: `cfgrepair repairs Appwrite configuration documents.

A column marked "required": true cannot have a "default" value. cfgrepair
walks tables[*].columns[*] of the document, removes such defaults and
rewrites the document with 4-space indentation only if something was
removed. Everything else in the document stays as it was.

Without arguments ./appwrite.config.json is repaired. Several files can be
given, they are repaired concurrently.

Configuration precedence (highest to lowest):
  1. CLI flags
  2. Environment variables (CFGREPAIR_*)
  3. Config file (~/.config/cfgrepair/config.yaml), read if it exists
  4. Built-in defaults

cfgrepair writes nothing but the repaired documents. Logs go to stderr,
a log file is kept only if log destination is set to "file". Use
--init-config to create a documented config file.

Examples:
  cfgrepair
  cfgrepair --dry-run
  cfgrepair -f json project1/appwrite.config.json project2/appwrite.config.json`,
		Args:              cobra.ArbitraryArgs,
		PersistentPreRunE: bootstrap,
		RunE:              runRoot,
		SilenceErrors:     true,
		SilenceUsage:      true,
	}

	// Remove the automatic "cfgrepair version" prefix
	rootCmd.SetVersionTemplate("{{.Version}}\n")

	// Override version flag to use -V (consistent with other gn projects)
	rootCmd.Flags().BoolP("version", "V", false, "version for cfgrepair")
	rootCmd.Flags().BoolP("dry-run", "n", false,
		"report removals without writing files")
	rootCmd.Flags().StringP("format", "f", "",
		"report format: text, json or yaml (default text)")
	rootCmd.Flags().IntP("jobs", "j", 0,
		"number of files repaired concurrently (default number of CPUs)")
	rootCmd.Flags().Bool("init-config", false,
		"create ~/.config/cfgrepair/config.yaml and exit")

	return rootCmd
}

func bootstrap(cmd *cobra.Command, args []string) error {
	var err error
	opts = nil
	cfg = config.New()

	// Logs go to stderr until the user's settings are known
	if err = iologger.Init("", cfg.Log, false); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	homeDir, err = os.UserHomeDir()
	if err != nil {
		gn.Warn("Cannot find home directory, using default settings: %s",
			err.Error())
		homeDir = ""
	}

	var cfgViper *config.Config
	if cfgViper, err = initConfig(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		gn.Warn("Using default settings")
	} else {
		opts = cfgViper.ToOptions()
	}

	flags := []funcFlag{dryRunFlag, formatFlag, jobsFlag}
	for _, v := range flags {
		v(cmd)
	}
	if homeDir != "" {
		opts = append(opts, config.OptHomeDir(homeDir))
	}
	cfg.Update(opts)

	initLog()

	slog.Info("Configuration loaded", "config_file", cfgFile)

	return nil
}

// initLog switches logging to the user's settings. If the log file
// cannot be used, logs stay on stderr and the repair goes on.
func initLog() {
	toStderr := []config.Option{config.OptLogDestination("stderr")}

	if cfg.Log.Destination == "file" {
		var err error
		if cfg.HomeDir == "" {
			err = errors.New("home directory is unknown")
		} else {
			err = iofs.EnsureLogDir(cfg.HomeDir)
		}
		if err != nil {
			gn.Warn("Cannot keep a log file, logging to stderr: %s", err.Error())
			cfg.Update(toStderr)
		}
	}

	err := iologger.Init(config.LogDir(cfg.HomeDir), cfg.Log, true)
	if err != nil {
		gn.Warn("Cannot keep a log file, logging to stderr: %s", err.Error())
		cfg.Update(toStderr)
		_ = iologger.Init("", cfg.Log, true)
	}
}

func runRoot(cmd *cobra.Command, args []string) error {
	if b, _ := cmd.Flags().GetBool("init-config"); b {
		return writeConfigFile()
	}

	paths := args
	if len(paths) == 0 {
		paths = []string{cfg.Repair.File}
	}

	r := iorepair.New(cfg)
	results, err := r.RepairFiles(cmd.Context(), paths)
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	for _, v := range results {
		if v.Err != nil {
			gn.PrintErrorMessage(v.Err)
		}
	}

	err = ioreport.Write(cmd.OutOrStdout(), results, cfg.Repair.ReportFormat)
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	return failures(results)
}

// writeConfigFile creates a documented config.yaml in the config
// directory unless it is already there.
func writeConfigFile() error {
	if homeDir == "" {
		err := iofs.CopyFileError("config.yaml",
			errors.New("home directory is unknown"))
		gn.PrintErrorMessage(err)
		return err
	}
	if err := iofs.EnsureConfigFile(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}
	gn.Info("Config file is at <em>%s</em>", config.ConfigFilePath(homeDir))
	return nil
}

// failures joins errors of failed documents, so the process exits with
// non-zero status if any document could not be repaired.
func failures(results []repair.Result) error {
	var errs []error
	for _, v := range results {
		if v.Err != nil {
			errs = append(errs, v.Err)
		}
	}
	return errors.Join(errs...)
}

// Execute runs the root command. This is called by main.main().
// It only needs to happen once.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := getRootCmd().ExecuteContext(ctx)
	stop()
	iologger.Close()
	if err != nil {
		os.Exit(1)
	}
}

// initConfig reads settings from environment variables and from
// config.yaml if the file exists. A missing file is not an error.
func initConfig(home string) (*config.Config, error) {
	var err error
	cfgFile = ""
	v := viper.New()
	initEnvVars(v)

	if home != "" {
		cfgPath := config.ConfigFilePath(home)
		if _, err = os.Stat(cfgPath); err == nil {
			cfgFile = cfgPath
			v.SetConfigFile(cfgPath)
			if err = v.ReadInConfig(); err != nil {
				return nil, iofs.ReadFileError(cfgPath, err)
			}
		}
	}

	var res config.Config
	if err = v.Unmarshal(&res); err != nil {
		return nil, iofs.ReadFileError(config.ConfigFilePath(home), err)
	}

	return &res, nil
}

func initEnvVars(v *viper.Viper) {
	// Set environment variables we want.
	// We set them manually so we can see clearly which env variables are allowed.
	// These match the fields included in config.ToOptions() - i.e., persistent
	// configuration that can be stored in config.yaml.
	v.SetEnvPrefix("CFGREPAIR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Repair configuration
	v.BindEnv("repair.file", "CFGREPAIR_REPAIR_FILE")
	v.BindEnv("repair.report_format", "CFGREPAIR_REPAIR_REPORT_FORMAT")

	// Log configuration
	v.BindEnv("log.level", "CFGREPAIR_LOG_LEVEL")
	v.BindEnv("log.format", "CFGREPAIR_LOG_FORMAT")
	v.BindEnv("log.destination", "CFGREPAIR_LOG_DESTINATION")

	// General configuration
	v.BindEnv("jobs_number", "CFGREPAIR_JOBS_NUMBER")

	v.AutomaticEnv()
}
