package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"ecomdw/internal/config"
	"ecomdw/internal/metrics"
	"ecomdw/internal/metrics/datadog"
	"ecomdw/internal/metrics/prompush"

	// register all sink backends with the storage factory.
	// config selects which one to use but support for all is built in.
	_ "ecomdw/internal/storage/all"
)

// main is the entry point for the warehouse binary. It loads the run config,
// optionally initializes a metrics backend, and executes the requested
// stages.
func main() {
	var (
		cfgPath           string
		stage             string
		metricsBackendFlg string
		pushGatewayURLFlg string
		datadogAddrFlg    string
		validate          bool
	)

	flag.StringVar(&cfgPath, "config", "configs/olist.json", "run config JSON path")
	flag.StringVar(&stage, "stage", "all", "stage to run: clean, load, report, or all")
	flag.StringVar(&metricsBackendFlg, "metrics-backend", "none", "metrics backend to use (pushgateway, datadog, none)")
	flag.StringVar(&pushGatewayURLFlg, "pushgateway-url", "", "Pushgateway base URL (overrides env PUSHGATEWAY_URL)")
	flag.StringVar(&datadogAddrFlg, "datadog-addr", "", "DogStatsD address (overrides env DD_AGENT_ADDR)")
	flag.BoolVar(&validate, "validate", false, "validate the configuration and exit")
	verbose := flag.Bool("v", false, "enable verbose logs")

	flag.Parse()

	switch stage {
	case "clean", "load", "report", "all":
	default:
		fatalf("unknown stage %q: want clean, load, report, or all", stage)
	}

	run, err := config.Load(cfgPath)
	if err != nil {
		fatalf("%v", err)
	}

	issues := config.ValidateRun(run)
	hasError := false
	for _, iss := range issues {
		fmt.Fprintf(os.Stderr, "%s: %s: %s\n", iss.Severity, iss.Path, iss.Message)
		if iss.Severity == config.SeverityError {
			hasError = true
		}
	}
	if hasError {
		log.Printf("configuration is invalid: %v", cfgPath)
		os.Exit(1)
	}
	if validate {
		log.Printf("configuration is valid: %v", cfgPath)
		os.Exit(0)
	}

	initMetrics(run, metricsBackendFlg, pushGatewayURLFlg, datadogAddrFlg, *verbose)
	defer func() {
		if err := metrics.Flush(); err != nil {
			log.Printf("metrics: flush error: %v", err)
		}
	}()

	ctx := context.Background()
	start := time.Now()

	if *verbose {
		log.Printf("run: job=%s raw_dir=%s clean_dir=%s storage=%s stage=%s",
			run.Job, run.Source.RawDir, run.Source.CleanDir, run.Storage.Kind, stage)
	}

	if err := execute(ctx, run, stage); err != nil {
		log.Fatalf("%v", err)
	}

	if *verbose {
		log.Printf("completed in %s", time.Since(start).Truncate(time.Millisecond))
	}
}

// initMetrics installs the selected metrics backend, resolved flag → env →
// default. Failures never abort the run; the nop backend stays in place.
func initMetrics(run config.Run, backendName, gatewayURL, datadogAddr string, verbose bool) {
	if backendName == "" {
		backendName = os.Getenv("METRICS_BACKEND")
	}
	jobName := run.Job
	if jobName == "" {
		jobName = "ecomdw"
	}

	switch backendName {
	case "pushgateway":
		if gatewayURL == "" {
			gatewayURL = os.Getenv("PUSHGATEWAY_URL")
		}
		if gatewayURL == "" {
			gatewayURL = "http://localhost:9091"
		}
		b, err := prompush.NewBackend(jobName, gatewayURL)
		if err != nil {
			log.Printf("metrics: failed to init pushgateway backend: %v; using nop", err)
			return
		}
		log.Printf("metrics: backend=pushgateway url=%v job=%v", gatewayURL, jobName)
		metrics.SetBackend(b)

	case "datadog":
		if datadogAddr == "" {
			datadogAddr = os.Getenv("DD_AGENT_ADDR")
		}
		if datadogAddr == "" {
			datadogAddr = "127.0.0.1:8125"
		}
		b, err := datadog.NewBackend(datadog.Config{
			Addr:       datadogAddr,
			Namespace:  "dw.",
			GlobalTags: []string{"job:" + jobName},
		})
		if err != nil {
			log.Printf("metrics: failed to init datadog backend: %v; using nop", err)
			return
		}
		log.Printf("metrics: backend=datadog addr=%v job=%v", datadogAddr, jobName)
		metrics.SetBackend(b)

	case "", "none":
		if verbose {
			log.Printf("metrics: disabled (backend=%q)", backendName)
		}

	default:
		log.Printf("metrics: unknown backend %q; metrics disabled", backendName)
	}
}

func fatalf(format string, a ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", a...)
	os.Exit(1)
}
