// Package report renders self-contained printable stock reports.
package report

import (
	"html/template"
	"io"
	"time"

	"github.com/campusops/stocktrack/internal/domain/stock"
)

type CampusSection struct {
	CampusName string
	CampusCode string
	Items      []stock.Stock
}

func (c CampusSection) GrandTotal() float64 {
	var total float64
	for _, it := range c.Items {
		total += float64(it.Quantity) * it.UnitPrice
	}
	return total
}

type Data struct {
	Title       string
	GeneratedAt time.Time
	Campuses    []CampusSection
}

var tmpl = template.Must(template.New("report").Funcs(template.FuncMap{
	"addOne": func(i int) int { return i + 1 },
}).Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: Arial, sans-serif; margin: 24px; color: #222; }
h1 { font-size: 20px; color: #1F4E79; }
h2 { font-size: 16px; margin-top: 32px; }
table { border-collapse: collapse; width: 100%; margin-top: 8px; }
th, td { border: 1px solid #999; padding: 4px 8px; font-size: 12px; }
th { background: #4472C4; color: #fff; }
td.num { text-align: right; }
tr.low-stock td { background: #FDEBD0; }
tfoot td { font-weight: bold; }
.meta { color: #666; font-size: 11px; }
@media print { h2 { page-break-before: always; } h2:first-of-type { page-break-before: avoid; } }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
<p class="meta">Generated {{.GeneratedAt.Format "02 Jan 2006 15:04"}}</p>
{{range .Campuses}}
<h2>{{.CampusName}} ({{.CampusCode}})</h2>
<table>
<thead>
<tr><th>#</th><th>Item</th><th>Category</th><th>Qty</th><th>Unit</th><th>Unit Price</th><th>Total Value</th><th>Condition</th><th>Status</th></tr>
</thead>
<tbody>
{{range $i, $s := .Items}}
<tr{{if $s.IsLowStock}} class="low-stock"{{end}}>
<td>{{addOne $i}}</td>
<td>{{$s.ItemName}}</td>
<td>{{$s.Category}}</td>
<td class="num">{{$s.Quantity}}</td>
<td>{{$s.Unit}}</td>
<td class="num">{{printf "%.2f" $s.UnitPrice}}</td>
<td class="num">{{printf "%.2f" $s.TotalValue}}</td>
<td>{{$s.Condition}}</td>
<td>{{$s.Status}}</td>
</tr>
{{end}}
</tbody>
<tfoot>
<tr><td colspan="6">Grand Total</td><td class="num">{{printf "%.2f" .GrandTotal}}</td><td colspan="2"></td></tr>
</tfoot>
</table>
{{end}}
</body>
</html>
`))

// Render writes the printable report document.
func Render(w io.Writer, data Data) error {
	if data.GeneratedAt.IsZero() {
		data.GeneratedAt = time.Now()
	}
	return tmpl.Execute(w, data)
}
