package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kingpin/v2"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/eugenenazirov/vsphere-config/internal/application"
	"github.com/eugenenazirov/vsphere-config/internal/config"
	"github.com/eugenenazirov/vsphere-config/internal/logging"
)

var lookupEnv config.Environment = config.OSEnvironment{}

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	kingpinApp := kingpin.New("vsphere-config", "Resolve vCenter connection settings from the environment or a config file")
	kingpinApp.UsageWriter(stdout).ErrorWriter(stderr)
	configFile := kingpinApp.Flag("config", "Path to the vCenter config file").Envar("VSPHERE_CONFIG").String()
	confDir := kingpinApp.Flag("confdir", "Directory holding the default config file").String()
	envFile := kingpinApp.Flag("env-file", "Dotenv file layered under the process environment").String()
	logLevel := kingpinApp.Flag("log-level", "Log level (debug, info, warn, error)").Default("warn").String()
	logFile := kingpinApp.Flag("log-file", "Write logs to a rotated file instead of stderr").String()

	showCmd := kingpinApp.Command("show", "Print the resolved settings with the password redacted").Default()
	format := showCmd.Flag("format", "Output format").Default("yaml").Enum("yaml", "json")
	pathCmd := kingpinApp.Command("path", "Print the default config file path")
	checkCmd := kingpinApp.Command("check", "Exit non-zero unless settings resolve")

	command, err := kingpinApp.Parse(args)
	if err != nil {
		return err
	}

	dir := *confDir
	if dir == "" {
		dir = config.ConfDir()
	}

	if command == pathCmd.FullCommand() {
		_, err := fmt.Fprintln(stdout, config.DefaultConfigFile(dir))
		return err
	}

	logger, err := logging.New(logging.Options{Level: *logLevel, File: *logFile})
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	env := lookupEnv
	if *envFile != "" {
		env, err = config.LoadDotEnv(*envFile, env)
		if err != nil {
			return err
		}
	}

	cfg, err := config.New(
		config.WithFile(*configFile),
		config.WithConfDir(dir),
		config.WithEnvironment(env),
		config.WithLogger(logger),
	)
	if err != nil {
		logger.Debug("failed to resolve vcenter settings", zap.Error(err))
		return err
	}

	app, err := application.New(cfg, logger)
	if err != nil {
		return err
	}

	switch command {
	case checkCmd.FullCommand():
		_, err = fmt.Fprintf(stdout, "ok: %s from %s\n", app.Endpoint().URL(), cfg.Source())
		return err
	case showCmd.FullCommand():
		return writeSummary(stdout, app.Summary(), *format)
	}
	return nil
}

func writeSummary(w io.Writer, summary application.Summary, format string) error {
	var (
		out []byte
		err error
	)
	switch format {
	case "json":
		out, err = json.MarshalIndent(summary, "", "  ")
		out = append(out, '\n')
	default:
		out, err = yaml.Marshal(summary)
	}
	if err != nil {
		return fmt.Errorf("encode summary: %w", err)
	}
	_, err = w.Write(out)
	return err
}
