package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"recallbot/internal/app"
)

func main() {
	var (
		cfgPath  string
		once     bool
		statsNow bool
	)
	flag.StringVar(&cfgPath, "config", "./config.json", "path to config json")
	flag.BoolVar(&once, "once", false, "run a single recall check and exit")
	flag.BoolVar(&statsNow, "stats-now", false, "post a statistics summary and exit")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	a, err := app.New(cfgPath)
	if err != nil {
		fmt.Println("fatal:", err)
		os.Exit(1)
	}

	if once || statsNow {
		if once {
			a.RunCheck(ctx)
		}
		if statsNow {
			a.RunStats(ctx, nil)
		}
		stopCtx, stopCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer stopCancel()
		_ = a.Stop(stopCtx)
		return
	}

	if err := a.Start(ctx); err != nil {
		fmt.Println("fatal start:", err)
		_ = a.Stop(context.Background())
		os.Exit(1)
	}

	<-ctx.Done()

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer stopCancel()
	_ = a.Stop(stopCtx)
}
