package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/shopspring/decimal"
	"github.com/yi-nology/asset_tracker/biz/model/api"
	"github.com/yi-nology/asset_tracker/pkg/assetcache"
)

func (c *console) list(args []string) error {
	tab, term := "all", ""
	if len(args) > 0 {
		tab = args[0]
	}
	if len(args) > 1 {
		term = strings.Join(args[1:], " ")
	}

	status := assetcache.TabStatus(tab)
	var rows []*api.Asset
	for _, a := range c.ctrl.Cache().Search(term) {
		if status == "" || a.Status == status {
			rows = append(rows, a)
		}
	}
	printAssets(c.out, rows)
	return nil
}

func printAssets(out io.Writer, assets []*api.Asset) {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tCATEGORY\tSERIAL\tSTATUS\tHOLDER\tLOCATION\tQTY\tPRICE")
	for _, a := range assets {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\t%d\t%s\n",
			a.ID, a.Name, a.Category, a.SerialNumber, a.Status, a.AssignedTo, a.Location, a.Quantity, a.Price.StringFixed(2))
	}
	_ = w.Flush()
}

func printSummary(out io.Writer, s *api.ImportSummary) {
	fmt.Fprintf(out, "%s rows: %d read, %d imported, %d skipped, %d failed\n", s.Shape, s.Rows, s.Imported, s.Skipped, s.Failed)
	for _, f := range s.Failures {
		fmt.Fprintf(out, "  line %d (%s): %s\n", f.Row, f.Name, f.Error)
	}
}

// decimalFlag is a flag.Value for prices; set reports whether it was given.
type decimalFlag struct {
	value decimal.Decimal
	set   bool
}

func (d *decimalFlag) String() string { return d.value.String() }

func (d *decimalFlag) Set(s string) error {
	v, err := decimal.NewFromString(s)
	if err != nil {
		return err
	}
	d.value, d.set = v, true
	return nil
}

func (c *console) add(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("add", flag.ContinueOnError)
	req := &api.CreateAssetRequest{}
	fs.StringVar(&req.Name, "name", "", "asset name")
	fs.StringVar(&req.Category, "category", "", "category")
	fs.StringVar(&req.SerialNumber, "serial", "", "serial number")
	fs.StringVar(&req.PurchaseDate, "date", "", "purchase date, YYYY-MM-DD")
	fs.StringVar(&req.Location, "location", "", "location")
	fs.StringVar(&req.Kind, "kind", "", "asset or stock")
	qty := fs.Int("qty", 1, "quantity")
	var price decimalFlag
	fs.Var(&price, "price", "unit price")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if req.Name == "" {
		return errors.New("-name is required")
	}
	req.Quantity = qty
	if price.set {
		req.Price = &price.value
	}

	asset, err := c.ctrl.Create(ctx, req)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "created %d %s\n", asset.ID, asset.Name)
	return nil
}

func (c *console) edit(ctx context.Context, args []string) error {
	id, err := parseID(args)
	if err != nil {
		return err
	}
	fs := flag.NewFlagSet("edit", flag.ContinueOnError)
	name := fs.String("name", "", "new name")
	location := fs.String("location", "", "new location")
	qty := fs.Int("qty", 0, "new quantity")
	var price decimalFlag
	fs.Var(&price, "price", "new unit price")
	if err := fs.Parse(args[1:]); err != nil {
		return err
	}

	var edit api.DetailEdit
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "name":
			edit.Name = name
		case "location":
			edit.Location = location
		case "qty":
			edit.Quantity = qty
		case "price":
			edit.Price = &price.value
		}
	})
	if edit.Empty() {
		return errors.New("nothing to change: pass -name, -price, -location or -qty")
	}

	asset, err := c.ctrl.EditDetails(ctx, id, edit)
	if err != nil {
		return err
	}
	printAssets(c.out, []*api.Asset{asset})
	return nil
}
