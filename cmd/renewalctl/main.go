package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	_ "time/tzdata"

	environment "subtracker/internal/env"
)

func main() {
	runOnce := flag.Bool("run-once", false, "run the reminder pass and then the rollover pass")
	testMessage := flag.String("test", "", "send a test notification with this text")
	sendTest := flag.Bool("send-test", false, "send the default test notification")
	migrate := flag.Bool("migrate", false, "create the database schema and exit")
	flag.Parse()

	if !*runOnce && *testMessage == "" && !*sendTest && !*migrate {
		flag.Usage()
		os.Exit(2)
	}

	ctx := context.Background()

	// Setup applies the schema, so -migrate has nothing else to do.
	env, err := environment.Setup(ctx)
	if err != nil {
		log.Fatalf("failed to setup environment: %v", err)
	}
	defer func() {
		for _, closer := range env.Closers {
			closer()
		}
	}()

	if *migrate {
		fmt.Println("schema is up to date")
	}

	exitCode := 0

	if *testMessage != "" || *sendTest {
		if env.Services.Renewal.SendTestNotification(ctx, *testMessage) {
			fmt.Println("test notification delivered")
		} else {
			fmt.Println("test notification was not delivered by any provider")
			exitCode = 1
		}
	}

	if *runOnce {
		report, err := env.Services.Renewal.RunOnce(ctx)
		fmt.Printf("reminders: candidates=%d due=%d sent=%d failed=%d\n",
			report.Reminder.Candidates, report.Reminder.Due, report.Reminder.Sent, report.Reminder.Failed)
		fmt.Printf("rollover:  overdue=%d advanced=%d skipped=%d\n",
			report.Rollover.Overdue, report.Rollover.Advanced, report.Rollover.Skipped)
		if err != nil {
			fmt.Printf("ERROR: %v\n", err)
			exitCode = 1
		}
	}

	if exitCode != 0 {
		for _, closer := range env.Closers {
			closer()
		}
		os.Exit(exitCode)
	}
}
