package main

import (
	"bufio"
	"cmp"
	"math/rand/v2"
	"net/http"
	"os"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/dustin/go-humanize"
	"github.com/go-faker/faker/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"btreeindex/btree"
	"btreeindex/cli"
	"btreeindex/metrics"
)

var log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
	With().Timestamp().Str("module", "btreeindex").Logger()

func main() {
	if err := newRootCmd().Execute(); err != nil {
		log.Error().Err(err).Msg("exiting")
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cfg := defaultConfig()
	cmd := &cobra.Command{
		Use:           "btreeindex",
		Short:         "Interactive shell over an in-memory B-tree index.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.Flags().IntVar(&cfg.order, "order", cfg.order, "Branching parameter t: nodes hold at most 2t keys.")
	cmd.Flags().StringVar(&cfg.keys, "keys", cfg.keys, `Key type, "int" or "string".`)
	cmd.Flags().BoolVar(&cfg.seed, "seed", cfg.seed, "Seed the tree with random keys before the prompt opens.")
	cmd.Flags().IntVar(&cfg.records, "records", cfg.records, "Amount of keys to seed the tree with.")
	cmd.Flags().StringVar(&cfg.metricsAddr, "metrics-addr", cfg.metricsAddr, "Serve Prometheus metrics on this address, e.g. :2112.")
	cmd.Flags().StringVar(&cfg.logLevel, "log-level", cfg.logLevel, "Log level: debug, info, warn or error.")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		if err := cfg.validate(); err != nil {
			return err
		}
		level, err := zerolog.ParseLevel(cfg.logLevel)
		if err != nil {
			return errors.Wrap(err, "parsing log level")
		}
		log = log.Level(level)

		switch cfg.keys {
		case keysString:
			return run(cmd, cfg, cli.ParseString, seedWords)
		default:
			return run(cmd, cfg, cli.ParseInt, seedInts)
		}
	}
	return cmd
}

func run[K cmp.Ordered](cmd *cobra.Command, cfg config, parse cli.ParseFunc[K], seed func(n int) []K) error {
	var opts []btree.Option
	var collector *metrics.Collector
	if cfg.metricsAddr != "" {
		reg := prometheus.NewRegistry()
		collector = metrics.NewCollector(reg, prometheus.Labels{"keys": cfg.keys})
		opts = append(opts, btree.WithObserver(collector))
		serveMetrics(cfg.metricsAddr, reg)
	}

	tree, err := btree.New[K](cfg.order, opts...)
	if err != nil {
		return errors.Wrap(err, "creating tree")
	}

	if cfg.seed {
		since := time.Now()
		for _, k := range seed(cfg.records) {
			tree.Insert(k)
		}
		log.Info().
			Str("keys", humanize.Comma(int64(tree.Len()))).
			Int("height", tree.Height()).
			Dur("took", time.Since(since)).
			Msg("seeded tree")
	}

	scanner := bufio.NewScanner(cmd.InOrStdin())
	demo := cli.NewCli(scanner, cmd.OutOrStdout(), tree, parse,
		log.With().Str("module", "cli").Logger()).WithMetrics(collector)
	return demo.Start()
}

func serveMetrics(addr string, reg *prometheus.Registry) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	go func() {
		log.Info().Str("addr", addr).Msg("serving metrics")
		if err := http.ListenAndServe(addr, mux); err != nil {
			log.Error().Err(err).Msg("metrics server stopped")
		}
	}()
}

func seedWords(n int) []string {
	keys := make([]string, n)
	for i := range keys {
		keys[i] = faker.Word() + faker.Word()
	}
	return keys
}

func seedInts(n int) []int {
	return rand.Perm(n)
}
