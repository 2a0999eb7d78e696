// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package main

import (
	"cmp"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/creachadair/jbind"
	"github.com/creachadair/jbind/codec"
	"github.com/creachadair/jbind/codec/json"
	"github.com/creachadair/jbind/codec/toml"
	"github.com/creachadair/jbind/codec/yaml"
	"github.com/creachadair/jbind/tree"
	homedir "github.com/mitchellh/go-homedir"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/natefinch/lumberjack.v2"
)

// An app carries the state shared by the subcommands of one invocation.
type app struct {
	fs      afero.Fs
	v       *viper.Viper
	log     zerolog.Logger
	cfgFile string
	closer  io.Closer // log file, if any
}

func newRootCmd(fs afero.Fs) *cobra.Command {
	a := &app{fs: fs, v: viper.New(), log: zerolog.Nop()}
	a.v.SetFs(fs)

	root := &cobra.Command{
		Use:   "jbind",
		Short: "Convert and query structured documents",
		Long: `Convert and query JSON, YAML, TOML, properties, and CSV documents.

Formats are inferred from file extensions where possible. Run "jbind formats"
to list the format names accepted by --from and --to.

If --config is not set, settings are read from a file named .jbind.yaml (or
another extension understood by viper) in the current directory or $HOME.
Environment variables prefixed by JBIND_ override the config file, and flags
override both. For example, JBIND_PRETTY=1 has the same effect as --pretty.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := a.initConfig(cmd.Flags()); err != nil {
				return err
			}
			return a.setupLog(cmd)
		},
	}
	pf := root.PersistentFlags()
	pf.StringVarP(&a.cfgFile, "config", "c", "", "config file path")
	pf.String("log", "stderr", `log output: "stderr", "none", or a file path`)
	pf.BoolP("verbose", "v", false, "enable debug logging")
	pf.Bool("pretty", false, "indent JSON output")
	pf.Int("indent", 0, "indentation width for JSON, YAML, and TOML output")
	pf.Bool("ascii", false, "escape non-ASCII characters in JSON output")

	root.AddCommand(a.convertCmd(), a.getCmd(), a.formatsCmd())
	return root
}

// run wraps the body of a command so the log output is closed when it ends.
func (a *app) run(f func(*cobra.Command, []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		defer a.close()
		return f(cmd, args)
	}
}

func (a *app) close() error {
	if a.closer == nil {
		return nil
	}
	err := a.closer.Close()
	a.closer = nil
	return err
}

func (a *app) initConfig(flags *pflag.FlagSet) error {
	if a.cfgFile != "" {
		a.v.SetConfigFile(a.cfgFile)
	} else {
		a.v.AddConfigPath(".")
		if home, err := homedir.Dir(); err == nil {
			a.v.AddConfigPath(home)
		}
		a.v.SetConfigName(".jbind")
	}

	a.v.SetEnvPrefix("JBIND")
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()
	if err := a.v.BindPFlags(flags); err != nil {
		return err
	}

	if err := a.v.ReadInConfig(); err != nil {
		var nf viper.ConfigFileNotFoundError
		if !errors.As(err, &nf) {
			return fmt.Errorf("read config: %w", err)
		}
	}
	return nil
}

func (a *app) setupLog(cmd *cobra.Command) error {
	switch dest := a.v.GetString("log"); dest {
	case "", "none":
		a.log = zerolog.Nop()
		return nil
	case "stderr":
		a.log = zerolog.New(zerolog.ConsoleWriter{Out: cmd.ErrOrStderr(), NoColor: true})
	default:
		lj := &lumberjack.Logger{
			Filename:   dest,
			MaxSize:    10,
			MaxAge:     28,
			MaxBackups: 3,
		}
		a.closer = lj
		a.log = zerolog.New(lj)
	}

	level := zerolog.InfoLevel
	if a.v.GetBool("verbose") {
		level = zerolog.DebugLevel
	}
	a.log = a.log.Level(level).With().Timestamp().Logger()

	ev := a.log.Debug().Str("command", cmd.CommandPath())
	if f := a.v.ConfigFileUsed(); f != "" {
		ev = ev.Str("config", f)
	}
	ev.Msg("start")
	return nil
}

// format reports the format selected by the flag named key, or else the one
// implied by the extension of path, or else fallback.
func (a *app) format(key, path, fallback string) (string, error) {
	if f := a.v.GetString(key); f != "" {
		return f, nil
	}
	if f, ok := jbind.FormatOf(path); ok {
		return f, nil
	}
	if fallback == "" {
		return "", fmt.Errorf("cannot determine the format of %q, use --%s", cmp.Or(path, "-"), key)
	}
	return fallback, nil
}

// codec returns the codec for the named format, with the output settings
// applied.
func (a *app) codec(format string) (codec.Codec, error) {
	c, err := jbind.Lookup(format)
	if err != nil {
		return nil, err
	}
	indent := a.v.GetInt("indent")
	switch t := c.(type) {
	case json.Codec:
		t.Pretty = a.v.GetBool("pretty") || indent != 0
		t.Indent = indent
		t.ASCII = a.v.GetBool("ascii")
		return t, nil
	case yaml.Codec:
		t.Indent = max(indent, 0)
		return t, nil
	case toml.Codec:
		t.Indent = indent
		return t, nil
	}
	return c, nil
}

// parse reads and parses the document at path, or stdin if path is "" or "-".
func (a *app) parse(cmd *cobra.Command, path string) (tree.Node, error) {
	format, err := a.format("from", path, "")
	if err != nil {
		return nil, err
	}
	c, err := a.codec(format)
	if err != nil {
		return nil, err
	}

	var data []byte
	if path == "" || path == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = afero.ReadFile(a.fs, path)
	}
	if err != nil {
		return nil, err
	}
	n, err := c.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", cmp.Or(path, "stdin"), err)
	}
	a.log.Debug().Str("input", cmp.Or(path, "-")).Str("format", format).Int("bytes", len(data)).Msg("parsed")
	return n, nil
}

// emit renders n and writes it to path, or stdout if path is "" or "-".
func (a *app) emit(cmd *cobra.Command, n tree.Node, path string) error {
	format, err := a.format("to", path, "json")
	if err != nil {
		return err
	}
	c, err := a.codec(format)
	if err != nil {
		return err
	}
	data, err := c.Serialize(n)
	if err != nil {
		return fmt.Errorf("render %s: %w", format, err)
	}
	return a.write(cmd, path, data)
}

func (a *app) write(cmd *cobra.Command, path string, data []byte) error {
	if len(data) != 0 && data[len(data)-1] != '\n' {
		data = append(data, '\n')
	}
	if path == "" || path == "-" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if err := afero.WriteFile(a.fs, path, data, 0644); err != nil {
		return err
	}
	a.log.Info().Str("output", path).Int("bytes", len(data)).Msg("wrote")
	return nil
}
