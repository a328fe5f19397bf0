package main

import (
	"errors"

	"github.com/urfave/cli/v2"
)

var errMissingHoldingID = errors.New("holding id is required")

// holdingIDFlag is shared by every command acting on one holding
var holdingIDFlag = &cli.StringFlag{
	Name:     "holding",
	Aliases:  []string{"id"},
	Usage:    "the holding id",
	Required: true,
}

var holdingCommand = &cli.Command{
	Name:  "holding",
	Usage: "manage holdings",
	Subcommands: []*cli.Command{
		{
			Name:  "create",
			Usage: "creates a holding, optionally with an opening contribution",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "name", Usage: "display name", Required: true},
				&cli.StringFlag{Name: "category", Usage: "free-form grouping used by the dashboard"},
				&cli.StringFlag{Name: "mode", Usage: "index mode: CDI, PRE, IPCA, MANUAL, B3, CRYPTO or USA", Required: true},
				&cli.StringFlag{Name: "rate", Usage: "annual rate in percent, or percent of CDI"},
				&cli.StringFlag{Name: "ticker", Usage: "ticker for price-quoted modes"},
				&cli.BoolFlag{Name: "exempt", Usage: "income tax exempt; derived from the name when omitted"},
				&cli.StringFlag{Name: "amount", Usage: "opening contribution"},
				&cli.StringFlag{Name: "quantity", Usage: "units bought with the opening contribution"},
				&cli.StringFlag{Name: "start", Usage: "opening date (YYYY-MM-DD)"},
			},
			Action: createHolding,
		},
		{
			Name:   "list",
			Usage:  "lists the owner's holdings",
			Action: listHoldings,
		},
		{
			Name:   "delete",
			Usage:  "deletes a holding and its transactions",
			Flags:  []cli.Flag{holdingIDFlag},
			Action: deleteHolding,
		},
	},
}

func createHolding(c *cli.Context) error {
	fields := map[string]interface{}{
		"owner":            owner,
		"name":             c.String("name"),
		"category":         c.String("category"),
		"index_mode":       c.String("mode"),
		"rate":             c.String("rate"),
		"ticker":           c.String("ticker"),
		"initial_amount":   c.String("amount"),
		"initial_quantity": c.String("quantity"),
		"started_at":       c.String("start"),
	}
	if c.IsSet("exempt") {
		fields["exempt"] = c.Bool("exempt")
	}
	return call(c, "CreateHolding", fields)
}

func listHoldings(c *cli.Context) error {
	return call(c, "ListHoldings", map[string]interface{}{"owner": owner})
}

func deleteHolding(c *cli.Context) error {
	return call(c, "DeleteHolding", map[string]interface{}{"holding_id": c.String("holding")})
}

var transactionCommand = &cli.Command{
	Name:    "transaction",
	Aliases: []string{"tx"},
	Usage:   "record or delete contributions and withdrawals",
	Subcommands: []*cli.Command{
		{
			Name:      "contribute",
			Usage:     "records a contribution",
			ArgsUsage: "<amount>",
			Flags:     transactionFlags(),
			Action:    recordTransaction("CONTRIBUTION"),
		},
		{
			Name:      "withdraw",
			Usage:     "records a withdrawal",
			ArgsUsage: "<amount>",
			Flags:     transactionFlags(),
			Action:    recordTransaction("WITHDRAWAL"),
		},
		{
			Name:  "delete",
			Usage: "deletes a transaction and recomputes its holding",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "transaction", Aliases: []string{"id"}, Usage: "the transaction id", Required: true},
			},
			Action: func(c *cli.Context) error {
				return call(c, "DeleteTransaction", map[string]interface{}{"transaction_id": c.String("transaction")})
			},
		},
	},
}

func transactionFlags() []cli.Flag {
	return []cli.Flag{
		holdingIDFlag,
		&cli.StringFlag{Name: "quantity", Usage: "units, for price-quoted holdings"},
		&cli.StringFlag{Name: "date", Usage: "transaction date (YYYY-MM-DD or RFC3339), defaults to now"},
	}
}

func recordTransaction(kind string) cli.ActionFunc {
	return func(c *cli.Context) error {
		if c.NArg() != 1 {
			return cli.ShowSubcommandHelp(c)
		}
		return call(c, "RecordTransaction", map[string]interface{}{
			"holding_id": c.String("holding"),
			"kind":       kind,
			"amount":     c.Args().First(),
			"quantity":   c.String("quantity"),
			"timestamp":  c.String("date"),
		})
	}
}

var recomputeCommand = &cli.Command{
	Name:      "recompute",
	Usage:     "recomputes a rate-indexed holding's gross, tax and net from its history",
	ArgsUsage: "<holding id>",
	Action: func(c *cli.Context) error {
		if c.NArg() != 1 {
			return errMissingHoldingID
		}
		return call(c, "RecomputeHolding", map[string]interface{}{"holding_id": c.Args().First()})
	},
}

var simulateCommand = &cli.Command{
	Name:      "simulate",
	Usage:     "simulates withdrawing an amount from a holding now, lot by lot",
	ArgsUsage: "<amount>",
	Flags:     []cli.Flag{holdingIDFlag},
	Action: func(c *cli.Context) error {
		if c.NArg() != 1 {
			return cli.ShowSubcommandHelp(c)
		}
		return call(c, "SimulateWithdrawal", map[string]interface{}{
			"holding_id": c.String("holding"),
			"amount":     c.Args().First(),
		})
	},
}

var rebuildCommand = &cli.Command{
	Name:  "rebuild",
	Usage: "regenerates the owner's daily portfolio history",
	Action: func(c *cli.Context) error {
		return call(c, "RebuildHistory", map[string]interface{}{"owner": owner})
	},
}

var historyCommand = &cli.Command{
	Name:  "history",
	Usage: "prints the owner's portfolio history, rebuilding it when stale",
	Action: func(c *cli.Context) error {
		return call(c, "GetHistory", map[string]interface{}{"owner": owner})
	},
}

var netWorthCommand = &cli.Command{
	Name:    "networth",
	Aliases: []string{"nw"},
	Usage:   "prints gross, tax, net and liabilities for the owner",
	Action: func(c *cli.Context) error {
		return call(c, "GetNetWorth", map[string]interface{}{"owner": owner})
	},
}

var liabilityCommand = &cli.Command{
	Name:  "liability",
	Usage: "manage liabilities",
	Subcommands: []*cli.Command{
		{
			Name:  "add",
			Usage: "adds a liability",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "name", Required: true},
				&cli.StringFlag{Name: "kind", Usage: "loan, financing, card"},
				&cli.StringFlag{Name: "original", Usage: "original amount", Required: true},
				&cli.StringFlag{Name: "outstanding", Usage: "outstanding balance, defaults to the original amount"},
				&cli.StringFlag{Name: "rate", Usage: "annual rate in percent"},
				&cli.IntFlag{Name: "term", Usage: "term in months"},
				&cli.StringFlag{Name: "installment", Usage: "monthly installment"},
				&cli.StringFlag{Name: "start", Usage: "start date (YYYY-MM-DD)"},
			},
			Action: func(c *cli.Context) error {
				return call(c, "AddLiability", map[string]interface{}{
					"owner":       owner,
					"name":        c.String("name"),
					"kind":        c.String("kind"),
					"original":    c.String("original"),
					"outstanding": c.String("outstanding"),
					"annual_rate": c.String("rate"),
					"term_months": c.Int("term"),
					"installment": c.String("installment"),
					"start":       c.String("start"),
				})
			},
		},
		{
			Name:  "remove",
			Usage: "removes a liability",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "liability", Aliases: []string{"id"}, Required: true},
			},
			Action: func(c *cli.Context) error {
				return call(c, "RemoveLiability", map[string]interface{}{"liability_id": c.String("liability")})
			},
		},
	},
}

var refreshCommand = &cli.Command{
	Name:  "refresh",
	Usage: "refreshes market prices and recomputes every holding",
	Action: func(c *cli.Context) error {
		return call(c, "RefreshPrices", nil)
	},
}

var projectCommand = &cli.Command{
	Name:  "project",
	Usage: "savings projections",
	Subcommands: []*cli.Command{
		{
			Name:  "fixed",
			Usage: "projects a fixed-income plan month by month",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "initial", Value: "0"},
				&cli.StringFlag{Name: "monthly", Value: "0"},
				&cli.IntFlag{Name: "years", Value: 1},
				&cli.StringFlag{Name: "rate", Usage: "annual rate in percent"},
				&cli.StringFlag{Name: "cdi", Usage: "percent of the current CDI rate, instead of --rate"},
				&cli.BoolFlag{Name: "exempt"},
				&cli.BoolFlag{Name: "months", Usage: "include the monthly series"},
			},
			Action: func(c *cli.Context) error {
				fields := map[string]interface{}{
					"initial":     c.String("initial"),
					"monthly":     c.String("monthly"),
					"years":       c.Int("years"),
					"annual_rate": c.String("rate"),
					"exempt":      c.Bool("exempt"),
					"with_months": c.Bool("months"),
				}
				if c.IsSet("cdi") {
					fields["percent_of_cdi"] = c.String("cdi")
				}
				return call(c, "ProjectFixedIncome", fields)
			},
		},
		{
			Name:  "holding",
			Usage: "projects a stored holding forward at its effective rate",
			Flags: []cli.Flag{
				holdingIDFlag,
				&cli.StringFlag{Name: "monthly", Value: "0"},
				&cli.IntFlag{Name: "years", Value: 1},
			},
			Action: func(c *cli.Context) error {
				return call(c, "ProjectHolding", map[string]interface{}{
					"holding_id": c.String("holding"),
					"monthly":    c.String("monthly"),
					"years":      c.Int("years"),
				})
			},
		},
		{
			Name:  "compare",
			Usage: "compares a taxable CDB against an exempt LCI at the current CDI",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "initial", Required: true},
				&cli.IntFlag{Name: "years", Value: 1},
				&cli.StringFlag{Name: "cdb", Value: "100", Usage: "CDB percent of CDI"},
				&cli.StringFlag{Name: "lci", Value: "90", Usage: "LCI percent of CDI"},
			},
			Action: func(c *cli.Context) error {
				return call(c, "CompareFixedIncome", map[string]interface{}{
					"initial":     c.String("initial"),
					"years":       c.Int("years"),
					"cdb_percent": c.String("cdb"),
					"lci_percent": c.String("lci"),
				})
			},
		},
		{
			Name:  "million",
			Usage: "monthly contribution needed to reach one million",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "initial", Value: "0"},
				&cli.StringFlag{Name: "rate", Required: true},
				&cli.IntFlag{Name: "years", Value: 10},
			},
			Action: func(c *cli.Context) error {
				return call(c, "PlanFirstMillion", map[string]interface{}{
					"initial":     c.String("initial"),
					"annual_rate": c.String("rate"),
					"years":       c.Int("years"),
				})
			},
		},
		{
			Name:      "reserve",
			Usage:     "emergency reserve for a monthly expense",
			ArgsUsage: "<monthly expense>",
			Flags: []cli.Flag{
				&cli.IntFlag{Name: "months", Value: 6},
			},
			Action: func(c *cli.Context) error {
				if c.NArg() != 1 {
					return cli.ShowSubcommandHelp(c)
				}
				return call(c, "PlanEmergencyReserve", map[string]interface{}{
					"monthly_expense": c.Args().First(),
					"months":          c.Int("months"),
				})
			},
		},
	},
}

var rateCommand = &cli.Command{
	Name:  "rate",
	Usage: "read or record the CDI reference rate",
	Subcommands: []*cli.Command{
		{
			Name:  "get",
			Usage: "prints the current CDI rate",
			Action: func(c *cli.Context) error {
				return call(c, "GetReferenceRate", nil)
			},
		},
		{
			Name:      "set",
			Usage:     "records a new CDI rate effective today",
			ArgsUsage: "<annual percent>",
			Action: func(c *cli.Context) error {
				if c.NArg() != 1 {
					return cli.ShowSubcommandHelp(c)
				}
				return call(c, "SetReferenceRate", map[string]interface{}{"rate": c.Args().First()})
			},
		},
	},
}
