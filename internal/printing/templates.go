package printing

import "html/template"

// The documents are self-contained HTML pages sized for 80mm thermal
// paper; the front-of-house client opens them in a window and hands
// them to the OS print dialog.

var kotTemplate = template.Must(template.New("kot").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>KOT #{{.OTP}}</title>
<style>
body { font-family: monospace; width: 72mm; margin: 0; padding: 4mm; }
h1 { font-size: 14px; text-align: center; margin: 0 0 4px; }
.meta { font-size: 11px; border-bottom: 1px dashed #000; padding-bottom: 4px; }
table { width: 100%; font-size: 12px; border-collapse: collapse; margin-top: 4px; }
td.qty { text-align: right; white-space: nowrap; }
.pkg { font-size: 10px; }
</style>
</head>
<body>
<h1>KITCHEN ORDER TICKET</h1>
<div class="meta">
Order: <b>#{{.OTP}}</b><br>
Time: {{.PrintedAt}}<br>
Pickup: {{.PickupTime}}<br>
{{if .CustomerName}}Name: {{.CustomerName}}<br>{{end}}
</div>
<table>
{{range .Items}}<tr>
  <td>{{.Name}}{{if .Packaging}} <span class="pkg">[PACK]</span>{{end}}</td>
  <td class="qty">x {{.Quantity}}</td>
</tr>
{{end}}</table>
</body>
</html>
`))

var billTemplate = template.Must(template.New("bill").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Bill #{{.OTP}}</title>
<style>
body { font-family: monospace; width: 72mm; margin: 0; padding: 4mm; }
h1 { font-size: 14px; text-align: center; margin: 0; }
.addr { font-size: 10px; text-align: center; margin-bottom: 4px; }
.meta { font-size: 11px; border-bottom: 1px dashed #000; padding-bottom: 4px; }
table { width: 100%; font-size: 12px; border-collapse: collapse; margin-top: 4px; }
td.amt { text-align: right; white-space: nowrap; }
tr.total td { border-top: 1px dashed #000; font-weight: bold; }
.foot { font-size: 10px; text-align: center; margin-top: 6px; }
</style>
</head>
<body>
<h1>{{.RestaurantName}}</h1>
{{if .RestaurantAddress}}<div class="addr">{{.RestaurantAddress}}</div>{{end}}
<div class="meta">
Order: <b>#{{.OTP}}</b><br>
Date: {{.PrintedAt}}<br>
Payment: {{.PaymentMethod}}<br>
</div>
<table>
{{range .Items}}<tr>
  <td>{{.Name}} x {{.Quantity}}</td>
  <td class="amt">{{.LineTotal}}</td>
</tr>
{{end}}<tr><td>Item Total</td><td class="amt">{{.ItemTotal}}</td></tr>
<tr><td>GST</td><td class="amt">{{.GST}}</td></tr>
{{if .PlatformFee}}<tr><td>Platform Fee</td><td class="amt">{{.PlatformFee}}</td></tr>{{end}}
{{if .PackagingFee}}<tr><td>Packaging</td><td class="amt">{{.PackagingFee}}</td></tr>{{end}}
{{if .Discount}}<tr><td>Discount{{if .CouponCode}} ({{.CouponCode}}){{end}}</td><td class="amt">-{{.Discount}}</td></tr>{{end}}
<tr class="total"><td>TOTAL</td><td class="amt">{{.FinalTotal}}</td></tr>
</table>
<div class="foot">Thank you! Quote #{{.OTP}} at pickup.</div>
</body>
</html>
`))
