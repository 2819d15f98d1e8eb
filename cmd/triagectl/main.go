package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/crimson-sun/triage/internal/client"
	"github.com/crimson-sun/triage/internal/config"
)

const usage = `usage: triagectl [-addr URL] <command> [args]

commands:
  classify TEXT   print the top label and score for TEXT
  health          print the service liveness message
  status          print the model loader state
`

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "triagectl: %v\n", err)
		os.Exit(1)
	}

	addr := flag.String("addr", cfg.Client.BaseURL, "service base URL")
	timeout := flag.Duration("timeout", cfg.Client.Timeout, "per-request timeout")
	asJSON := flag.Bool("json", false, "print raw JSON")
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	c := client.New(*addr, client.WithTimeout(*timeout))
	if err := run(context.Background(), c, flag.Args(), *asJSON); err != nil {
		fmt.Fprintf(os.Stderr, "triagectl: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, c *client.Client, args []string, asJSON bool) error {
	switch args[0] {
	case "classify":
		text := strings.Join(args[1:], " ")
		pred, err := c.Classify(ctx, text)
		if err != nil {
			return err
		}
		if asJSON {
			return json.NewEncoder(os.Stdout).Encode(pred)
		}
		fmt.Printf("%s\t%.4f\n", pred.Label, pred.Score)
	case "health":
		msg, err := c.Health(ctx)
		if err != nil {
			return err
		}
		fmt.Println(msg)
	case "status":
		s, err := c.Status(ctx)
		if err != nil {
			return err
		}
		if asJSON {
			return json.NewEncoder(os.Stdout).Encode(s)
		}
		if s.Device != "" {
			fmt.Printf("%s (%s)\n", s.State, s.Device)
		} else {
			fmt.Println(s.State)
		}
	default:
		return fmt.Errorf("unknown command %q", args[0])
	}
	return nil
}
