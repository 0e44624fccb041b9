package cli

import (
	"fmt"
	"strconv"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/dmitrijs2005/gophstore/internal/client/models"
)

var (
	successColor = color.New(color.FgGreen)
	errorColor   = color.New(color.FgRed)
	warningColor = color.New(color.FgYellow)
)

func (a *App) printSuccess(format string, args ...any) {
	successColor.Fprintf(a.out, format+"\n", args...)
}

func (a *App) printError(format string, args ...any) {
	errorColor.Fprintf(a.out, format+"\n", args...)
}

func (a *App) printWarning(format string, args ...any) {
	warningColor.Fprintf(a.out, format+"\n", args...)
}

// renderTable prints a borderless left-aligned table to the app output.
func (a *App) renderTable(headers []string, rows [][]string) {
	t := tablewriter.NewTable(a.out,
		tablewriter.WithConfig(tablewriter.Config{
			Row: tw.CellConfig{
				Formatting: tw.CellFormatting{AutoWrap: tw.WrapNone},
				Alignment:  tw.CellAlignment{Global: tw.AlignLeft},
			},
			Header: tw.CellConfig{
				Formatting: tw.CellFormatting{AutoFormat: tw.On},
				Alignment:  tw.CellAlignment{Global: tw.AlignLeft},
			},
		}),
		tablewriter.WithRendition(tw.Rendition{
			Borders: tw.BorderNone,
			Settings: tw.Settings{
				Separators: tw.Separators{ShowHeader: tw.Off},
			},
		}),
	)
	t.Header(headers)
	t.Bulk(rows)
	t.Render()
}

func formatPrice(p float64) string {
	return fmt.Sprintf("%.2f", p)
}

func (a *App) renderCategories(categories []models.Category) {
	if len(categories) == 0 {
		fmt.Fprintln(a.out, "No categories found.")
		return
	}
	rows := make([][]string, 0, len(categories))
	for _, c := range categories {
		rows = append(rows, []string{strconv.FormatInt(c.IDCategory, 10), c.Name})
	}
	a.renderTable([]string{"ID", "Name"}, rows)
}

func (a *App) renderProducts(products []models.Product) {
	if len(products) == 0 {
		fmt.Fprintln(a.out, "No products found.")
		return
	}
	rows := make([][]string, 0, len(products))
	for _, p := range products {
		rows = append(rows, []string{
			strconv.FormatInt(p.IDProduct, 10),
			p.Name,
			formatPrice(p.PricePerUnit),
			p.UnitType,
		})
	}
	a.renderTable([]string{"ID", "Name", "Price", "Unit"}, rows)
}

func (a *App) renderCart(items []models.CartItem, totalItems int, totalPrice float64) {
	if len(items) == 0 {
		fmt.Fprintln(a.out, "Your cart is empty.")
		return
	}
	rows := make([][]string, 0, len(items))
	for _, it := range items {
		rows = append(rows, []string{
			strconv.FormatInt(it.Product.IDProduct, 10),
			it.Product.Name,
			formatPrice(it.Product.PricePerUnit),
			strconv.Itoa(it.Quantity),
			formatPrice(float64(it.Quantity) * it.Product.PricePerUnit),
		})
	}
	a.renderTable([]string{"ID", "Name", "Price", "Qty", "Subtotal"}, rows)
	fmt.Fprintf(a.out, "Items: %d  Total: %s\n", totalItems, formatPrice(totalPrice))
}
