package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli/v2"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	grpcadapter "github.com/simaogato/wealthflow-portfolio/internal/adapter/grpc"
)

var (
	host    string
	token   string
	owner   string
	timeout time.Duration
)

const defaultTimeout = time.Second * 30

func jsonOutput(out *structpb.Struct) {
	fmt.Println(protojson.MarshalOptions{Multiline: true, Indent: "  "}.Format(out))
}

// call invokes method on the server and prints the response
func call(c *cli.Context, method string, fields map[string]interface{}) error {
	client, err := grpcadapter.Dial(host, token, owner)
	if err != nil {
		return err
	}
	defer client.Close()

	ctx, cancel := context.WithTimeout(c.Context, timeout)
	defer cancel()

	out, err := client.Call(ctx, method, fields)
	if err != nil {
		return err
	}
	jsonOutput(out)
	return nil
}

func main() {
	app := cli.NewApp()
	app.Name = "wealthctl"
	app.EnableBashCompletion = true
	app.Usage = "command line interface for the wealthflow portfolio service"
	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:        "host",
			Value:       "localhost:8080",
			Usage:       "the gRPC host to connect to",
			EnvVars:     []string{"WEALTHFLOW_HOST"},
			Destination: &host,
		},
		&cli.StringFlag{
			Name:        "token",
			Value:       "dev-token",
			Usage:       "the API token",
			EnvVars:     []string{"API_TOKEN"},
			Destination: &token,
		},
		&cli.StringFlag{
			Name:        "owner",
			Usage:       "the portfolio owner requests act on",
			EnvVars:     []string{"WEALTHFLOW_OWNER"},
			Destination: &owner,
		},
		&cli.DurationFlag{
			Name:        "timeout",
			Value:       defaultTimeout,
			Usage:       "the default context timeout value for requests",
			Destination: &timeout,
		},
	}
	app.Commands = []*cli.Command{
		holdingCommand,
		transactionCommand,
		recomputeCommand,
		simulateCommand,
		rebuildCommand,
		historyCommand,
		netWorthCommand,
		liabilityCommand,
		refreshCommand,
		projectCommand,
		rateCommand,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
