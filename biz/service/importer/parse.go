// Package importer turns delimited text exports into create requests and
// replays them one row at a time.
package importer

import (
	"errors"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/yi-nology/asset_tracker/biz/model/api"
	"github.com/yi-nology/asset_tracker/pkg/constants"
)

// Shape identifies the column layout of an import file.
type Shape string

const (
	ShapeGroup Shape = "group"
	ShapeItem  Shape = "item"
)

const (
	groupNameHeader     = "group name"
	groupQuantityHeader = "asset stock quantity"
	// groupQuantityColumn is used when the quantity header is missing.
	groupQuantityColumn = 4
	serialPrefix        = "STOCK-"
	serialRange         = 10000
	utf8BOM             = "\ufeff"
)

var (
	itemNameHeaders     = []string{"name", "item name", "item"}
	itemCostHeaders     = []string{"cost", "unit cost", "price"}
	itemQuantityHeaders = []string{"quantity", "qty", "stock quantity"}
)

var ErrNoHeader = errors.New("import file has no header row")

// Row is one importable record with its 1-based line number.
type Row struct {
	Line    int
	Request *api.CreateAssetRequest
}

// Batch is the parsed content of an import file.
type Batch struct {
	Shape   Shape
	Rows    int
	Skipped int
	Items   []Row
}

// Parser converts text into a Batch. The zero value uses the wall clock and
// a random serial suffix.
type Parser struct {
	Now    func() time.Time
	Serial func() int
}

// Parse uses a default Parser.
func Parse(data []byte) (*Batch, error) {
	return (&Parser{}).Parse(data)
}

// Parse splits data into lines and comma separated cells. Quoted commas and
// quoted newlines are not supported; double quotes are stripped from cells.
// A leading UTF-8 byte-order mark is ignored. Rows without a name or with
// quantity <= 0 are counted as skipped.
func (p *Parser) Parse(data []byte) (*Batch, error) {
	text := strings.TrimPrefix(string(data), utf8BOM)
	var lines [][]string
	var lineNumbers []int
	for i, raw := range strings.Split(text, "\n") {
		line := strings.TrimRight(raw, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, splitCells(line))
		lineNumbers = append(lineNumbers, i+1)
	}
	if len(lines) == 0 {
		return nil, ErrNoHeader
	}

	header := newHeader(lines[0])
	batch := &Batch{Shape: ShapeItem, Rows: len(lines) - 1}
	if _, ok := header.index(groupNameHeader); ok {
		batch.Shape = ShapeGroup
	}

	for i, cells := range lines[1:] {
		var req *api.CreateAssetRequest
		if batch.Shape == ShapeGroup {
			req = p.groupRow(header, cells)
		} else {
			req = p.itemRow(header, cells)
		}
		if req == nil {
			batch.Skipped++
			continue
		}
		batch.Items = append(batch.Items, Row{Line: lineNumbers[i+1], Request: req})
	}
	return batch, nil
}

func (p *Parser) groupRow(h header, cells []string) *api.CreateAssetRequest {
	nameIdx, _ := h.index(groupNameHeader)
	name := cell(cells, nameIdx)
	qtyIdx, ok := h.index(groupQuantityHeader)
	if !ok {
		qtyIdx = groupQuantityColumn
	}
	qty := leadingInt(cell(cells, qtyIdx))
	if name == "" || qty <= 0 {
		return nil
	}
	zero := decimal.Zero
	return &api.CreateAssetRequest{
		Name:         name,
		Category:     name,
		SerialNumber: serialPrefix + strconv.Itoa(p.serial()),
		Price:        &zero,
		PurchaseDate: p.now().Format(api.DateLayout),
		Location:     constants.DefaultLocation,
		Quantity:     &qty,
		Kind:         constants.KindStock,
	}
}

func (p *Parser) itemRow(h header, cells []string) *api.CreateAssetRequest {
	name := cell(cells, h.first(itemNameHeaders))
	qty := leadingInt(cell(cells, h.first(itemQuantityHeaders)))
	if name == "" || qty <= 0 {
		return nil
	}
	price := parseCost(cell(cells, h.first(itemCostHeaders)))
	return &api.CreateAssetRequest{
		Name:     name,
		Category: constants.DefaultCategory,
		Price:    &price,
		Location: constants.DefaultLocation,
		Quantity: &qty,
		Kind:     constants.KindStock,
	}
}

func (p *Parser) now() time.Time {
	if p.Now != nil {
		return p.Now()
	}
	return time.Now()
}

func (p *Parser) serial() int {
	if p.Serial != nil {
		return p.Serial()
	}
	return rand.Intn(serialRange)
}

type header map[string]int

func newHeader(cells []string) header {
	h := make(header, len(cells))
	for i, c := range cells {
		key := strings.ToLower(c)
		if _, dup := h[key]; !dup {
			h[key] = i
		}
	}
	return h
}

func (h header) index(name string) (int, bool) {
	i, ok := h[name]
	return i, ok
}

// first returns the column of the first matching alias, or -1.
func (h header) first(names []string) int {
	for _, name := range names {
		if i, ok := h[name]; ok {
			return i
		}
	}
	return -1
}

func splitCells(line string) []string {
	cells := strings.Split(line, ",")
	for i, c := range cells {
		cells[i] = strings.TrimSpace(strings.ReplaceAll(c, `"`, ""))
	}
	return cells
}

func cell(cells []string, i int) string {
	if i < 0 || i >= len(cells) {
		return ""
	}
	return cells[i]
}

// leadingInt reads an optional sign and the leading digits of s;
// "12 units" is 12 and anything without digits is 0.
func leadingInt(s string) int {
	s = strings.TrimSpace(s)
	sign := 1
	if s != "" && (s[0] == '-' || s[0] == '+') {
		if s[0] == '-' {
			sign = -1
		}
		s = s[1:]
	}
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0
	}
	return sign * n
}

// parseCost accepts a plain decimal, optionally prefixed by a currency
// symbol. Anything else is 0.
func parseCost(s string) decimal.Decimal {
	s = strings.TrimLeft(strings.TrimSpace(s), "$€£ ")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}
