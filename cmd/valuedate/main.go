package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"cloud.google.com/go/civil"
	"github.com/fatih/color"

	"github.com/omerorhan/settlement-service/internal/config"
	"github.com/omerorhan/settlement-service/internal/service"
)

func main() {
	configPath := flag.String("config", "", "path to the calendar YAML file")
	envPath := flag.String("env", "", "path to a .env file (default ./.env if present)")
	trade := flag.String("trade", "", "trade date YYYY-MM-DD (default today)")
	redisURL := flag.String("redis", "", "Redis URL for the holiday registry, e.g. tcp://localhost:6379/0 (default SETTLEMENT_REDIS_URL)")
	logLevel := flag.String("log-level", "", "log level (default LOG_LEVEL, the config file, then info)")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: valuedate [flags] PAIR [PAIR...]\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	if err := run(*configPath, *envPath, *trade, *redisURL, *logLevel, flag.Args()); err != nil {
		color.New(color.FgRed).Fprintf(os.Stderr, "valuedate: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath, envPath, trade, redisURL, logLevel string, pairs []string) error {
	var err error
	if envPath != "" {
		err = config.LoadEnv(envPath)
	} else {
		err = config.LoadEnv()
	}
	if err != nil {
		return fmt.Errorf("load env: %w", err)
	}

	tradeDate := civil.DateOf(time.Now())
	if trade != "" {
		tradeDate, err = civil.ParseDate(trade)
		if err != nil {
			return fmt.Errorf("invalid trade date %q: %w", trade, err)
		}
	}

	options := []service.ServiceOption{
		service.WithLogOutput(os.Stderr),
	}
	if logLevel != "" {
		options = append(options, service.WithLogLevel(logLevel))
	}
	if configPath != "" {
		options = append(options, service.WithConfigFile(configPath))
	}
	if redisURL != "" {
		options = append(options, service.WithRedisConfig(redisURL))
	}

	svc, err := service.NewSettlementService(options...)
	if err != nil {
		return err
	}
	defer svc.Stop()

	if err := svc.Initialize(); err != nil {
		return err
	}

	pairColor := color.New(color.FgCyan, color.Bold)
	valueColor := color.New(color.FgGreen)
	failed := false
	for _, pair := range pairs {
		valueDate, err := svc.SpotFor(pair, tradeDate)
		if err != nil {
			color.New(color.FgRed).Fprintf(os.Stderr, "%s %s: %v\n", pair, tradeDate, err)
			failed = true
			continue
		}
		fmt.Printf("%s %s -> %s\n", pairColor.Sprint(pair), tradeDate, valueColor.Sprint(valueDate))
	}

	if failed {
		return fmt.Errorf("one or more pairs failed")
	}
	return nil
}
