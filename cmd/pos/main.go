// cmd/pos/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/NavodaLakshika/erp-frontend/internal/adapters/export"
	"github.com/NavodaLakshika/erp-frontend/internal/app"
	"github.com/NavodaLakshika/erp-frontend/internal/core/domain"
	"github.com/NavodaLakshika/erp-frontend/internal/core/ports"
	"github.com/NavodaLakshika/erp-frontend/internal/pkg/config"
	"github.com/NavodaLakshika/erp-frontend/internal/pkg/logger"
	"github.com/NavodaLakshika/erp-frontend/internal/terminal"
)

// Build information injected at compile time
var (
	Version   = "dev"
	BuildTime = "unknown"
)

// env is what Before prepares for every command.
type env struct {
	log   *logger.Logger
	cfg   *config.Config
	state *config.ClientState
	deps  *app.Dependencies
}

func (e *env) outletID() int64 { return config.ResolveOutletID(e.cfg, e.state) }

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	e := &env{}
	cliApp := &cli.App{
		Name:    "erp-pos",
		Usage:   "point of sale terminal",
		Version: fmt.Sprintf("%s (built %s)", Version, BuildTime),
		Flags: []cli.Flag{
			&cli.Int64Flag{Name: "outlet", Usage: "outlet id for this session, overrides config and state"},
		},
		Before: e.setup,
		After:  e.teardown,
		Action: e.shell,
		Commands: []*cli.Command{
			{
				Name:   "shell",
				Usage:  "interactive customer, product, recall and stock searches",
				Action: e.shell,
			},
			{
				Name:      "customers",
				Usage:     "list customers matching a search",
				ArgsUsage: "[query]",
				Flags:     []cli.Flag{&cli.IntFlag{Name: "page", Value: 1}},
				Action:    e.customers,
			},
			{
				Name:  "customer",
				Usage: "create or edit a customer",
				Subcommands: []*cli.Command{
					{
						Name:   "add",
						Flags:  customerFlags(),
						Action: e.customerAdd,
					},
					{
						Name:   "edit",
						Flags:  append(customerFlags(), &cli.Int64Flag{Name: "id", Required: true}),
						Action: e.customerEdit,
					},
				},
			},
			{
				Name:      "stock",
				Usage:     "list stock, optionally saving the page as xlsx",
				ArgsUsage: "[name]",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "page", Value: 1},
					&cli.StringFlag{Name: "export", Usage: "write the page to this xlsx file"},
				},
				Action: e.stock,
			},
			{
				Name:  "outlet",
				Usage: "show the session outlet",
				Subcommands: []*cli.Command{
					{
						Name:      "set",
						ArgsUsage: "<id>",
						Action:    e.outletSet,
					},
				},
				Action: func(c *cli.Context) error {
					fmt.Fprintln(c.App.Writer, e.outletID())
					return nil
				},
			},
			{
				Name:   "refresh",
				Usage:  "queue a reload of the outlet stock cache",
				Action: e.refresh,
			},
		},
	}

	if err := cliApp.RunContext(ctx, os.Args); err != nil {
		slog.Error("command failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func (e *env) setup(c *cli.Context) error {
	boot := logger.SetupLogger(&logger.LogConfig{Level: "warn", Format: "text", Output: "stderr"})

	cfg, err := config.Load(boot.Logger)
	if err != nil {
		return err
	}
	if id := c.Int64("outlet"); id > 0 {
		cfg.POS.OutletID = id
	}
	e.cfg = cfg
	e.log = logger.SetupLogger(app.LogConfig(cfg))

	state, err := config.LoadState(cfg.POS.StateFile)
	if err != nil {
		e.log.Warn("ignoring unreadable state file", slog.String("error", err.Error()))
		state = &config.ClientState{}
	}
	e.state = state

	deps, err := app.New(c.Context, cfg, e.log.Logger)
	if err != nil {
		return fmt.Errorf("failed to initialize dependencies: %w", err)
	}
	e.deps = deps

	e.log.Debug("session ready",
		slog.String("api", cfg.API.BaseURL),
		slog.Int64("outlet_id", e.outletID()),
		slog.Bool("stock_cache", deps.StockCache != nil))
	return nil
}

func (e *env) teardown(*cli.Context) error {
	if e.deps != nil {
		e.deps.Close()
	}
	if e.log != nil {
		return e.log.Close()
	}
	return nil
}

func (e *env) shell(c *cli.Context) error {
	outletID := e.outletID()
	ctx := logger.WithOperator(c.Context, config.ResolveUserID(e.state), outletID)
	ctx = logger.WithLogger(ctx, e.log)

	session := terminal.NewSession(terminal.Repositories{
		Customers: e.deps.Customers,
		Items:     e.deps.Catalog,
		Stocks:    e.deps.Stocks,
		Invoices:  e.deps.Catalog,
	}, c.App.Writer, terminal.Options{
		OutletID:  outletID,
		ExportDir: e.cfg.POS.ExportDir,
		Exporter:  export.NewXLSXExporter(),
	}, logger.FromContext(ctx))

	err := session.Run(ctx, os.Stdin)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func (e *env) customers(c *cli.Context) error {
	page, err := e.deps.Customers.ListCustomers(c.Context, ports.ListParams{
		Query:    c.Args().First(),
		Page:     c.Int("page"),
		PageSize: 10,
	})
	if err != nil {
		return err
	}
	terminal.WriteCustomers(c.App.Writer, page.Items, nil)
	fmt.Fprintf(c.App.Writer, "%d of %d customers\n", len(page.Items), page.Total)
	return nil
}

func customerFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "first", Usage: "first name"},
		&cli.StringFlag{Name: "last", Usage: "last name"},
		&cli.StringFlag{Name: "phone", Usage: "telephone"},
		&cli.StringFlag{Name: "address"},
		&cli.StringFlag{Name: "description"},
	}
}

func customerInput(c *cli.Context) domain.CustomerInput {
	return domain.CustomerInput{
		FirstName:   c.String("first"),
		LastName:    c.String("last"),
		Address:     c.String("address"),
		Telephone:   c.String("phone"),
		Description: c.String("description"),
	}
}

func (e *env) customerAdd(c *cli.Context) error {
	created, err := e.deps.Customers.CreateCustomer(c.Context, customerInput(c))
	if err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "created customer %d: %s\n", created.ID, created.FullName())
	return nil
}

func (e *env) customerEdit(c *cli.Context) error {
	in := customerInput(c)
	if userID := config.ResolveUserID(e.state); userID > 0 {
		in.UpdatedBy = &userID
	}
	updated, err := e.deps.Customers.UpdateCustomer(c.Context, c.Int64("id"), in)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "updated customer %d: %s\n", updated.ID, updated.FullName())
	return nil
}

func (e *env) stock(c *cli.Context) error {
	page, err := e.deps.Stocks.ListStocks(c.Context, ports.ListParams{
		Query:    c.Args().First(),
		Page:     c.Int("page"),
		PageSize: 20,
	})
	if err != nil {
		return err
	}
	terminal.WriteStocks(c.App.Writer, page.Items)
	fmt.Fprintf(c.App.Writer, "%d of %d stock rows\n", len(page.Items), page.Total)

	path := c.String("export")
	if path == "" {
		return nil
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}
	defer f.Close()
	if err := export.NewXLSXExporter().WriteStocks(f, page.Items); err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "exported %d rows to %s\n", len(page.Items), path)
	return nil
}

func (e *env) outletSet(c *cli.Context) error {
	id, err := strconv.ParseInt(c.Args().First(), 10, 64)
	if err != nil || id <= 0 {
		return fmt.Errorf("%w: outlet id must be a positive number", domain.ErrInvalidInput)
	}
	e.state.OutletID = strconv.FormatInt(id, 10)
	if err := config.SaveState(e.cfg.POS.StateFile, e.state); err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "outlet set to %d\n", id)
	return nil
}

func (e *env) refresh(c *cli.Context) error {
	if e.deps.Refresher == nil {
		return errors.New("stock cache is not enabled, set REDIS_ENABLED=true")
	}
	outletID := e.outletID()
	if err := e.deps.Refresher.EnqueueRefresh(c.Context, outletID); err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "stock refresh queued for outlet %d\n", outletID)
	return nil
}
