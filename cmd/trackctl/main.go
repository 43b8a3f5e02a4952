package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/makbarsyahwana/logistic-gateway/internal/backend"
	"github.com/makbarsyahwana/logistic-gateway/pkg/logger"
	"github.com/makbarsyahwana/logistic-gateway/pkg/validate"
)

// CLI-приложение для пакетной проверки трек-номеров.
// Читает по номеру на строку (пустые строки и строки с # пропускаются)
// и печатает текущий статус каждой посылки.
func main() {
	inputPath := flag.String("in", "", "path to a file with tracking numbers, one per line. If empty, reads from stdin.")
	baseURL := flag.String("backend", "http://localhost:3000/api", "backend base URL")
	timeout := flag.Duration("timeout", 10*time.Second, "per-request timeout")
	flag.Parse()

	ctx := context.Background()

	logg, cleanup, err := logger.NewZapLogger(false)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = cleanup() }()

	var in io.Reader = os.Stdin
	if *inputPath != "" {
		f, err := os.Open(*inputPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "open input: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		in = f
	}

	list, err := validate.ReadTrackingList(in)
	if err != nil {
		fmt.Fprintf(os.Stderr, "read tracking list: %v\n", err)
		os.Exit(1)
	}
	if list.SkippedCount > 0 {
		fmt.Fprintf(os.Stderr, "skipped %d invalid line(s)\n", list.SkippedCount)
	}
	if len(list.Numbers) == 0 {
		fmt.Fprintln(os.Stderr, "no tracking numbers to check")
		os.Exit(1)
	}

	// Публичный эндпоинт: токен не нужен.
	client := backend.NewClient(*baseURL, *timeout, nil, logg)

	failed := 0
	for _, number := range list.Numbers {
		order, err := client.TrackOrder(ctx, number)
		switch {
		case backend.IsNotFound(err):
			fmt.Printf("%s\tNOT_FOUND\n", number)
		case err != nil:
			failed++
			fmt.Fprintf(os.Stderr, "%s: %v\n", number, err)
		default:
			fmt.Printf("%s\t%s\t%s -> %s\n", number, order.Status, order.Origin, order.Destination)
		}
	}

	if failed > 0 {
		fmt.Fprintf(os.Stderr, "finished with %d error(s)\n", failed)
		os.Exit(1)
	}
}
