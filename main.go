package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"strings"

	"github.com/Dgut/crdt/config"
	"github.com/Dgut/crdt/replica"
	"github.com/Dgut/crdt/sim"
	"github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"
	"github.com/pkg/errors"
)

// Functions

// initLogger initializes a JSON gokit-logger set
// to the according log level supplied via cli flag.
func initLogger(loglevel string) log.Logger {

	logger := log.NewJSONLogger(log.NewSyncWriter(os.Stdout))
	logger = log.With(logger,
		"ts", log.DefaultTimestampUTC,
		"caller", log.DefaultCaller,
	)

	switch strings.ToLower(loglevel) {
	case "info":
		logger = level.NewFilter(logger, level.AllowInfo())
	case "warn":
		logger = level.NewFilter(logger, level.AllowWarn())
	case "error":
		logger = level.NewFilter(logger, level.AllowError())
	default:
		logger = level.NewFilter(logger, level.AllowDebug())
	}

	return logger
}

// newBuilder wraps every replica the simulator creates
// with logging and metrics middlewares.
func newBuilder(logger log.Logger, m *GraphMetrics) sim.Builder {

	return func(name string) replica.Service {

		var s replica.Service = replica.New(name)
		s = replica.NewLoggingService(s, logger)
		s = replica.NewMetricsService(s, m.Replica)

		return s
	}
}

// exitCode maps a failed scenario run to the exit
// code of the process. Failed checks on the replicas
// are told apart from failures to run at all.
func exitCode(err error) int {

	switch errors.Cause(err).(type) {
	case *sim.DivergenceError, *sim.CheckError:
		return 3
	default:
		return 2
	}
}

func main() {

	// Parse command-line flags.
	configFlag := flag.String("config", "config.toml", "Provide path to configuration file in TOML syntax.")
	envFlag := flag.String("env", ".env", "Provide path to an optional .env file overriding log level and prometheus address.")
	scenarioFlag := flag.String("scenario", "", "Run this scenario instead of the one named in the config file. One of: "+strings.Join(sim.Scenarios(), ", ")+".")
	loglevelFlag := flag.String("loglevel", "", "This flag sets the logging level, overriding config and .env file.")
	flag.Parse()

	// Until the config is read, log at debug level.
	logger := initLogger(*loglevelFlag)

	// Read configuration from file.
	conf, err := config.LoadConfig(*configFlag)
	if err != nil {
		level.Error(logger).Log(
			"msg", "failed to load the config", "err", err,
		)
		os.Exit(1)
	}

	env, err := config.LoadEnv(*envFlag)
	if err != nil {
		level.Debug(logger).Log("msg", "no .env file loaded", "err", err)
	}
	err = conf.ApplyEnv(env)
	if err != nil {
		level.Error(logger).Log(
			"msg", "failed to apply the environment", "err", err,
		)
		os.Exit(1)
	}

	if *loglevelFlag == "" {
		logger = initLogger(conf.LogLevel)
	}

	if *scenarioFlag != "" {
		conf.Simulation.Scenario = *scenarioFlag
	}

	known := false
	for _, name := range sim.Scenarios() {
		known = known || name == conf.Simulation.Scenario
	}

	if !known {
		level.Error(logger).Log(
			"msg", "unknown scenario",
			"scenario", conf.Simulation.Scenario,
		)
		flag.Usage()
		os.Exit(4)
	}

	m := NewGraphMetrics(conf.PrometheusAddr)
	go runPromHTTP(logger, conf.PrometheusAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	runner := sim.New(logger, conf.Simulation, newBuilder(logger, m))

	report, err := runner.Run(ctx)
	if err != nil {

		code := exitCode(err)
		if code == 3 {
			level.Error(logger).Log(
				"msg", "replicas did not converge",
				"err", err,
			)
		} else {
			level.Error(logger).Log(
				"msg", "failed to run scenario",
				"err", err,
			)
		}

		os.Exit(code)
	}

	level.Info(logger).Log(
		"msg", "all replicas converged",
		"scenario", report.Scenario,
		"replicas", report.Replicas,
		"duration", report.Duration,
	)
}
