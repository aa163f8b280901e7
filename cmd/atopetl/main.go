// Command atopetl replays atop logs and exports the records into a relational
// store (one table per record type) or into per-type CSV frames.
//
//	atopetl -config pipeline.json
//	atopetl -dump 20 /var/log/atop/atop_20240101
//	atopetl -describe PRG
//
// Positional arguments, when given, replace the pipeline's log selection.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"atopetl/internal/config"
	"atopetl/internal/metrics"
	"atopetl/internal/metrics/datadog"
	"atopetl/internal/metrics/prompush"

	// register all backends with the storage factory.
	// config specifies which to use but we need to build in support for all of them.
	_ "atopetl/internal/storage/all"
)

func main() {
	var (
		cfgPath           string
		metricsBackendFlg string
		pushGatewayURLFlg string
		validate          bool
		dumpN             int
		describeTag       string
	)

	flag.StringVar(&cfgPath, "config", "", "pipeline config JSON path (defaults apply when empty)")
	flag.StringVar(&metricsBackendFlg, "metrics-backend", "", "metrics backend to use (pushgateway, datadog, none); env METRICS_BACKEND")
	flag.StringVar(&pushGatewayURLFlg, "pushgateway-url", "", "Pushgateway base URL (overrides env ATOPETL_PUSHGATEWAY_URL)")
	flag.BoolVar(&validate, "validate", false, "validate the configuration and exit")
	flag.IntVar(&dumpN, "dump", 0, "print the first N records and exit")
	flag.StringVar(&describeTag, "describe", "", "print the schema of a record type and exit")
	verbose := flag.Bool("v", false, "enable verbose logs")

	flag.Parse()

	var p config.Pipeline
	if cfgPath != "" {
		var err error
		if p, err = config.Load(cfgPath); err != nil {
			fatalf("%v", err)
		}
	}
	p.Normalize()

	env, err := config.LoadEnv()
	if err != nil {
		fatalf("%v", err)
	}
	env.Apply(&p)
	if args := flag.Args(); len(args) > 0 {
		p.Source.Files = args
	}

	// Validate pipeline config.
	issues := config.ValidatePipeline(p)
	for _, iss := range issues {
		fmt.Fprintf(os.Stderr, "%s: %s: %s\n", iss.Severity, iss.Path, iss.Message)
	}
	if config.HasErrors(issues) {
		log.Printf("Configuration is invalid: %v", cfgPath)
		os.Exit(1)
	}

	// If validate flag is set, only validate the configuration and exit
	if validate {
		log.Printf("Configuration is valid: %v", cfgPath)
		os.Exit(0)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if describeTag != "" {
		reg, err := loadSchema(ctx, p.Schema)
		if err != nil {
			fatalf("%v", err)
		}
		if err := describe(os.Stdout, reg, describeTag); err != nil {
			fatalf("%v", err)
		}
		return
	}

	if dumpN > 0 {
		if err := dump(ctx, p, os.Stdout, dumpN); err != nil {
			fatalf("%v", err)
		}
		return
	}

	setupMetrics(metricsBackendFlg, pushGatewayURLFlg, env, p.Job, *verbose)

	start := time.Now()
	if *verbose {
		log.Printf("pipeline: job=%s sink=%s storage=%s schema=%s infer=%v",
			p.Job, p.Sink.Kind, p.Sink.Storage.Kind, p.Schema.Mode, p.Source.Infer())
	}

	err = run(ctx, p, os.Stdout)
	if ferr := metrics.Flush(); ferr != nil {
		log.Printf("metrics: flush error: %v", ferr)
	}
	if err != nil {
		stop()
		log.Fatalf("%v", err)
	}

	if *verbose {
		log.Printf("completed in %s", time.Since(start).Truncate(time.Millisecond))
	}
}

// setupMetrics installs the selected backend. Decision order for every
// setting is flag → env → default.
func setupMetrics(backendFlg, gwFlg string, env config.Env, job string, verbose bool) {
	backendName := backendFlg
	if backendName == "" {
		backendName = os.Getenv("METRICS_BACKEND")
	}

	switch backendName {
	case "pushgateway":
		gwURL := gwFlg
		if gwURL == "" {
			gwURL = env.PushgatewayURL
		}
		if gwURL == "" {
			gwURL = "http://localhost:9091"
		}
		b, err := prompush.NewBackend(job, gwURL)
		if err != nil {
			log.Printf("metrics: failed to init prom push backend: %v; using nop", err)
			return
		}
		log.Printf("metrics: url=%v, backend=%v, job_name=%v", gwURL, backendName, job)
		metrics.SetBackend(b)

	case "datadog":
		addr := env.DatadogAddr
		if addr == "" {
			addr = "127.0.0.1:8125"
		}
		b, err := datadog.NewBackend(datadog.Config{
			Addr:       addr,
			Namespace:  "atopetl.",
			GlobalTags: append([]string{"job:" + job}, env.DatadogTags...),
		})
		if err != nil {
			log.Printf("metrics: failed to init datadog backend: %v; using nop", err)
			return
		}
		log.Printf("metrics: addr=%v, backend=%v, job_name=%v", addr, backendName, job)
		metrics.SetBackend(b)

	case "", "none":
		// metrics disabled; nop backend remains
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
