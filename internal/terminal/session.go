// internal/terminal/session.go
package terminal

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/NavodaLakshika/erp-frontend/internal/core/domain"
	"github.com/NavodaLakshika/erp-frontend/internal/core/ports"
	"github.com/NavodaLakshika/erp-frontend/internal/core/services"
)

// Repositories are the backend ports a session searches.
type Repositories struct {
	Customers ports.CustomerRepository
	Items     ports.ItemRepository
	Stocks    ports.StockRepository
	Invoices  ports.InvoiceRepository
}

// Options configures a Session.
type Options struct {
	OutletID  int64
	ExportDir string
	Exporter  services.StockExporter
	Clock     services.Clock
	// SettleTimeout bounds how long a command waits for a load before it
	// renders whatever is on screen.
	SettleTimeout time.Duration
	Now           func() time.Time
}

type mode int

const (
	modeIdle mode = iota
	modeCustomer
	modeProduct
	modeRecall
	modeStock
)

// Session is a line-oriented POS terminal. It drives the pickers and the
// stock browser and collects confirmed selections into a draft invoice.
// A Session is used from one goroutine.
type Session struct {
	out    io.Writer
	opts   Options
	logger *slog.Logger

	draft     *services.DraftInvoice
	customers *services.CustomerPicker
	products  *services.ProductPicker
	recall    *services.InvoiceRecallPicker
	stock     *services.StockBrowser

	ctx  context.Context
	mode mode
	wake chan struct{}
}

// NewSession wires the pickers for one outlet.
func NewSession(repos Repositories, out io.Writer, opts Options, logger *slog.Logger) *Session {
	if opts.SettleTimeout <= 0 {
		opts.SettleTimeout = 10 * time.Second
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.ExportDir == "" {
		opts.ExportDir = "."
	}

	s := &Session{
		out:    out,
		opts:   opts,
		logger: logger.With(slog.String("component", "terminal")),
		draft:  services.NewDraftInvoice(),
		ctx:    context.Background(),
		wake:   make(chan struct{}, 1),
	}

	notifier := services.Notifier{
		OnChange: s.poke,
		OnError:  func(error) { s.poke() },
	}

	s.customers = services.NewCustomerPicker(repos.Customers, services.PickerOptions[domain.Customer]{
		Clock:    opts.Clock,
		Notifier: notifier,
		OnSelect: func(c domain.Customer) {
			s.draft.SetCustomer(c)
			fmt.Fprintf(s.out, "customer: %s\n", c.FullName())
		},
		OnClose: s.closed,
	}, logger)

	prices := services.NewPriceResolver(repos.Stocks, logger)
	s.products = services.NewProductPicker(repos.Items, prices, opts.OutletID, services.PickerOptions[domain.ProductLine]{
		Clock:    opts.Clock,
		Notifier: notifier,
		OnSelect: func(line domain.ProductLine) {
			s.draft.AddLine(line)
			fmt.Fprintf(s.out, "added %d x %s @ %s\n", line.Qty, line.Name, line.UnitPrice.StringFixed(2))
		},
		OnClose: s.closed,
	}, logger)

	s.recall = services.NewInvoiceRecallPicker(repos.Invoices, services.PickerOptions[domain.InvoiceRecall]{
		Notifier: notifier,
		OnSelect: func(inv domain.InvoiceRecall) {
			s.draft.Recall(inv)
			fmt.Fprintf(s.out, "recalled %s (%s)\n", inv.Number, inv.CustomerName)
		},
		OnClose: s.closed,
	}, logger)

	s.stock = services.NewStockBrowser(repos.Stocks, opts.Exporter, services.PagerOptions{
		Clock:    opts.Clock,
		Notifier: notifier,
	}, logger)

	return s
}

// Draft returns the invoice being composed.
func (s *Session) Draft() *services.DraftInvoice { return s.draft }

// Run reads commands from in until EOF, "quit" or ctx is done.
func (s *Session) Run(ctx context.Context, in io.Reader) error {
	s.ctx = ctx
	defer s.closeAll()

	lines := make(chan string)
	readErr := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		readErr <- scanner.Err()
	}()

	fmt.Fprintf(s.out, "outlet %d. type help for commands\n", s.opts.OutletID)
	s.prompt()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				select {
				case err := <-readErr:
					return err
				default:
					return nil
				}
			}
			if quit := s.Exec(line); quit {
				return nil
			}
			s.prompt()
		}
	}
}

// Exec runs one command line and reports whether the session should end.
func (s *Session) Exec(line string) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}
	if strings.HasPrefix(line, "/") {
		s.find(line[1:])
		return false
	}

	cmd, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)

	switch strings.ToLower(cmd) {
	case "help", "?":
		s.help()
	case "customer", "c":
		s.open(modeCustomer)
	case "product", "p":
		s.open(modeProduct)
	case "recall", "r":
		s.open(modeRecall)
	case "stock", "s":
		s.open(modeStock)
	case "find", "f":
		s.find(arg)
	case "next", "n":
		s.navigate(func(n navigator) { n.NextPage() })
	case "prev", "b":
		s.navigate(func(n navigator) { n.PrevPage() })
	case "page":
		page, err := strconv.Atoi(arg)
		if err != nil {
			fmt.Fprintln(s.out, "usage: page <number>")
			return false
		}
		s.navigate(func(n navigator) { n.SetPage(page) })
	case "pick":
		s.pick(arg)
	case "qty":
		s.input(arg, s.products.SetQuantity)
	case "wholesale":
		s.input(arg, s.products.SetWholesale)
	case "selling":
		s.input(arg, s.products.SetSelling)
	case "ok":
		s.confirm()
	case "close", "x":
		s.close()
	case "export":
		s.export()
	case "draft", "d":
		renderDraft(s.out, s.draft)
	case "quit", "exit", "q":
		return true
	default:
		fmt.Fprintf(s.out, "unknown command %q, type help\n", cmd)
	}
	return false
}

type navigator interface {
	SetQuery(q string)
	SetPage(page int)
	NextPage()
	PrevPage()
}

func (s *Session) active() navigator {
	switch s.mode {
	case modeCustomer:
		return s.customers
	case modeProduct:
		return s.products
	case modeRecall:
		return s.recall
	case modeStock:
		return s.stock
	}
	return nil
}

func (s *Session) open(m mode) {
	s.close()

	s.mode = m
	switch m {
	case modeCustomer:
		s.customers.Open(s.ctx)
	case modeProduct:
		s.products.Open(s.ctx)
	case modeRecall:
		s.recall.Open(s.ctx)
	case modeStock:
		s.stock.Open(s.ctx)
	}
	s.settle()
	s.render()
}

func (s *Session) find(q string) {
	s.navigate(func(n navigator) { n.SetQuery(strings.TrimSpace(q)) })
}

func (s *Session) navigate(fn func(navigator)) {
	n := s.active()
	if n == nil {
		fmt.Fprintln(s.out, "nothing open")
		return
	}
	fn(n)
	s.settle()
	s.render()
}

func (s *Session) pick(arg string) {
	row, err := strconv.Atoi(arg)
	if err != nil || row < 1 {
		fmt.Fprintln(s.out, "usage: pick <row>")
		return
	}

	switch s.mode {
	case modeCustomer:
		_, err = s.customers.SelectIndex(row - 1)
	case modeProduct:
		_, err = s.products.SelectIndex(row - 1)
	case modeRecall:
		_, err = s.recall.SelectIndex(row - 1)
	case modeStock:
		fmt.Fprintln(s.out, "stock view is read-only")
		return
	default:
		fmt.Fprintln(s.out, "nothing open")
		return
	}
	if err != nil {
		fmt.Fprintf(s.out, "cannot pick row %d: %v\n", row, err)
		return
	}
	s.settle()
	s.render()
}

func (s *Session) input(text string, set func(string)) {
	if s.mode != modeProduct {
		fmt.Fprintln(s.out, "open the product search first")
		return
	}
	set(text)
	s.render()
}

func (s *Session) confirm() {
	var err error
	switch s.mode {
	case modeCustomer:
		err = s.customers.Confirm()
	case modeProduct:
		err = s.products.Confirm()
	case modeRecall:
		err = s.recall.Confirm()
	default:
		fmt.Fprintln(s.out, "nothing to confirm")
		return
	}
	if errors.Is(err, domain.ErrNoSelection) {
		fmt.Fprintln(s.out, "pick a row first")
	} else if err != nil {
		fmt.Fprintf(s.out, "confirm failed: %v\n", err)
	}
}

// close cancels whatever is open. The modals report back through closed.
func (s *Session) close() {
	switch s.mode {
	case modeCustomer:
		s.customers.Cancel()
	case modeProduct:
		s.products.Cancel()
	case modeRecall:
		s.recall.Cancel()
	case modeStock:
		s.stock.Close()
	}
	s.mode = modeIdle
}

func (s *Session) closed() { s.mode = modeIdle }

func (s *Session) closeAll() {
	s.close()
	s.stock.Close()
}

func (s *Session) export() {
	if s.mode != modeStock {
		fmt.Fprintln(s.out, "open the stock view first")
		return
	}

	name := fmt.Sprintf("stock-%s.xlsx", s.opts.Now().Format("20060102-150405"))
	path := filepath.Join(s.opts.ExportDir, name)

	f, err := os.Create(path)
	if err != nil {
		fmt.Fprintf(s.out, "export failed: %v\n", err)
		return
	}
	n, err := s.stock.Export(s.ctx, f)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(path)
		s.logger.Error("stock export failed", slog.String("path", path), slog.String("error", err.Error()))
		fmt.Fprintf(s.out, "export failed: %v\n", err)
		return
	}
	fmt.Fprintf(s.out, "exported %d rows to %s\n", n, path)
}

// settle waits until the open view has nothing loading.
func (s *Session) settle() {
	deadline := time.NewTimer(s.opts.SettleTimeout)
	defer deadline.Stop()
	tick := time.NewTicker(50 * time.Millisecond)
	defer tick.Stop()

	for s.busy() {
		select {
		case <-s.wake:
		case <-tick.C:
		case <-deadline.C:
			return
		case <-s.ctx.Done():
			return
		}
	}
}

func (s *Session) busy() bool {
	switch s.mode {
	case modeCustomer:
		return s.customers.View().Loading
	case modeProduct:
		v := s.products.View()
		return v.Loading || v.PricePending
	case modeRecall:
		return s.recall.View().Loading
	case modeStock:
		return s.stock.View().Loading
	}
	return false
}

func (s *Session) poke() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

func (s *Session) render() {
	switch s.mode {
	case modeCustomer:
		renderCustomers(s.out, s.customers.View(), s.customers.IsSelected)
	case modeProduct:
		renderProducts(s.out, s.products.View())
	case modeRecall:
		renderInvoices(s.out, s.recall.View(), s.recall.IsSelected)
	case modeStock:
		renderStock(s.out, s.stock.View())
	}
}

func (s *Session) prompt() {
	label := map[mode]string{
		modeIdle:     "pos",
		modeCustomer: "customer",
		modeProduct:  "product",
		modeRecall:   "recall",
		modeStock:    "stock",
	}[s.mode]
	fmt.Fprintf(s.out, "%s> ", label)
}

func (s *Session) help() {
	fmt.Fprint(s.out, `commands:
  customer | product | recall | stock   open a search
  /text, find text                      search (find alone clears)
  next, prev, page N                    paging
  pick N                                select row N of the page
  qty X, wholesale X, selling X         product line inputs
  ok                                    confirm the selection
  close                                 close the search
  export                                save the stock page as xlsx
  draft                                 show the invoice draft
  quit
`)
}
