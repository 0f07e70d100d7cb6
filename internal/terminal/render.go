// internal/terminal/render.go
package terminal

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/shopspring/decimal"

	"github.com/NavodaLakshika/erp-frontend/internal/core/domain"
	"github.com/NavodaLakshika/erp-frontend/internal/core/services"
)

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func marker(selected bool) string {
	if selected {
		return "*"
	}
	return " "
}

// WriteCustomers prints customer rows as a table.
func WriteCustomers(w io.Writer, rows []domain.Customer, selected func(domain.Customer) bool) {
	tw := newTable(w)
	fmt.Fprintln(tw, " \t#\tID\tNAME\tPHONE\tADDRESS")
	for i, c := range rows {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%s\t%s\t%s\n",
			marker(selected != nil && selected(c)), i+1, c.ID, c.FullName(), c.Telephone, c.Address)
	}
	tw.Flush()
}

// WriteItems prints item rows as a table.
func WriteItems(w io.Writer, rows []domain.Item, selectedID int64) {
	tw := newTable(w)
	fmt.Fprintln(tw, " \t#\tID\tSKU\tNAME")
	for i, it := range rows {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%s\t%s\n", marker(it.ID == selectedID), i+1, it.ID, it.SKU, it.Name)
	}
	tw.Flush()
}

// WriteInvoices prints invoice rows as a table.
func WriteInvoices(w io.Writer, rows []domain.Invoice, selected func(domain.Invoice) bool) {
	tw := newTable(w)
	fmt.Fprintln(tw, " \t#\tNUMBER\tCUSTOMER\tSTATUS\tTOTAL\tCREATED")
	for i, inv := range rows {
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\t%s\t%s\n",
			marker(selected != nil && selected(inv)), i+1, inv.Number(), inv.CustomerName(),
			inv.Status, inv.TotalAmount.StringFixed(2), inv.CreatedAt.Date())
	}
	tw.Flush()
}

// WriteStocks prints stock rows with the price a sale would use.
func WriteStocks(w io.Writer, rows []domain.Stock) {
	tw := newTable(w)
	fmt.Fprintln(tw, "#\tNAME\tSKU\tOUTLET\tQTY\tPRICE")
	for i, s := range rows {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n",
			i+1, s.Name, s.SKU, s.OutletName, s.Quantity.String(), services.PricingFor(s).Selling.StringFixed(2))
	}
	tw.Flush()
}

func footer[T any](w io.Writer, v services.PageView[T]) {
	switch {
	case v.Err != nil:
		fmt.Fprintf(w, "error: %s\n", describe(v.Err))
	case v.Loading && !v.Loaded:
		fmt.Fprintln(w, "loading...")
	case v.Empty():
		fmt.Fprintln(w, "no results")
	}

	status := fmt.Sprintf("page %d/%d, %d rows", v.Page, v.TotalPages, v.TotalCount)
	if v.Query != "" {
		status += ", search " + strconv.Quote(v.Query)
	}
	if v.Loading && v.Loaded {
		status += " (refreshing)"
	}
	fmt.Fprintln(w, status)
}

func describe(err error) string {
	switch {
	case errors.Is(err, domain.ErrUnauthorized):
		return "session rejected by the server, check the api token"
	case errors.Is(err, domain.ErrNetworkFailure):
		return "could not reach the server: " + err.Error()
	}
	return err.Error()
}

func renderCustomers(w io.Writer, v services.PageView[domain.Customer], selected func(domain.Customer) bool) {
	WriteCustomers(w, v.Items, selected)
	footer(w, v)
}

func renderInvoices(w io.Writer, v services.PageView[domain.Invoice], selected func(domain.Invoice) bool) {
	WriteInvoices(w, v.Items, selected)
	footer(w, v)
}

func renderStock(w io.Writer, v services.PageView[domain.Stock]) {
	WriteStocks(w, v.Items)
	footer(w, v)
}

func renderProducts(w io.Writer, v services.ProductView) {
	var selectedID int64
	if v.Selected != nil {
		selectedID = v.Selected.ID
	}
	WriteItems(w, v.Items, selectedID)
	footer(w, v.PageView)

	if v.Selected == nil {
		return
	}
	fmt.Fprintf(w, "selected: %s  qty %s  wholesale %s  selling %s\n",
		v.Selected.Name, v.Quantity, blank(v.Wholesale), blank(v.Selling))
	if v.PricePending {
		fmt.Fprintln(w, "resolving price...")
	}
	if v.Notice != "" {
		fmt.Fprintln(w, v.Notice)
	}
}

func blank(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func renderDraft(w io.Writer, d *services.DraftInvoice) {
	if r, ok := d.Recalled(); ok {
		fmt.Fprintf(w, "recalled %s  %s  %s  total %s\n", r.Number, r.CustomerName, r.Status, r.TotalAmount.StringFixed(2))
	}
	if c, ok := d.Customer(); ok {
		fmt.Fprintf(w, "customer %s\n", c.FullName())
	}

	lines := d.Lines()
	if len(lines) == 0 {
		fmt.Fprintln(w, "no lines")
		return
	}

	tw := newTable(w)
	fmt.Fprintln(tw, "#\tSKU\tNAME\tQTY\tUNIT\tAMOUNT")
	for i, l := range lines {
		amount := l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Qty)))
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%s\t%s\n", i+1, l.SKU, l.Name, l.Qty, l.UnitPrice.StringFixed(2), amount.StringFixed(2))
	}
	tw.Flush()
	fmt.Fprintf(w, "subtotal %s\n", d.Subtotal().StringFixed(2))
}
