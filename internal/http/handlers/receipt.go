package handlers

import (
	"bytes"
	"fmt"
	"html/template"
	"net/http"
	"regexp"
	"strings"
	"time"

	"camellia-order-gateway/internal/backend"
	"camellia-order-gateway/pkg/response"

	"github.com/phpdave11/gofpdf"
)

type receiptLine struct {
	Name         string
	Quantity     int
	UnitPrice    string
	Subtotal     string
	CustomerName string
	Option       string
	Note         string
}

type receiptData struct {
	OrderID  int64
	TableNo  string
	Status   string
	PlacedAt string
	Note     string
	Lines    []receiptLine
	Total    string
}

const receiptHTMLTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8" />
  <title>Receipt #{{.OrderID}}</title>
  <style>
    * { box-sizing: border-box; }
    body { font-family: 'Courier New', monospace; font-size: 12px; padding: 12px; color: #000; }
    .header { text-align: center; border-bottom: 1px dashed #000; padding-bottom: 8px; margin-bottom: 8px; }
    .title { font-size: 16px; font-weight: bold; }
    .meta { text-align: center; margin-bottom: 8px; }
    .section { border-top: 1px dashed #999; padding-top: 6px; margin-top: 6px; }
    .row { display: flex; justify-content: space-between; margin: 2px 0; }
    .items { margin-top: 8px; }
    .item-name { font-weight: 600; }
    .detail { margin-left: 12px; font-size: 11px; color: #333; }
    .notes { margin-left: 12px; font-size: 10px; font-style: italic; color: #555; }
    .total { font-weight: bold; font-size: 14px; }
  </style>
</head>
<body>
  <div class="header">
    <div class="title">Order #{{.OrderID}}</div>
    {{if .TableNo}}<div>Table {{.TableNo}}</div>{{end}}
  </div>
  <div class="meta">
    {{if .PlacedAt}}<div>Placed: {{.PlacedAt}}</div>{{end}}
    <div>Status: {{.Status}}</div>
  </div>
  <div class="items">
    {{range .Lines}}
      <div class="row">
        <div class="item-name">{{.Quantity}} x {{.Name}}</div>
        <div>{{.Subtotal}}</div>
      </div>
      {{if .CustomerName}}<div class="detail">For: {{.CustomerName}}</div>{{end}}
      {{if .Option}}<div class="detail">Option: {{.Option}}</div>{{end}}
      {{if .Note}}<div class="notes">{{.Note}}</div>{{end}}
      <div class="detail">{{.UnitPrice}} each</div>
    {{end}}
  </div>
  {{if .Note}}
  <div class="section">
    <div>Note: {{.Note}}</div>
  </div>
  {{end}}
  <div class="section">
    <div class="row total"><div>Total</div><div>{{.Total}}</div></div>
  </div>
</body>
</html>`

// ReceiptHTML renders an order receipt as a print-ready HTML page.
func (h *Handler) ReceiptHTML(w http.ResponseWriter, r *http.Request) {
	data, ok := h.receiptData(w, r)
	if !ok {
		return
	}

	tmpl, err := template.New("receipt").Parse(receiptHTMLTemplate)
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to render receipt")
		return
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to render receipt")
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// ReceiptPDF renders the same receipt as a PDF for the print view.
func (h *Handler) ReceiptPDF(w http.ResponseWriter, r *http.Request) {
	data, ok := h.receiptData(w, r)
	if !ok {
		return
	}

	buf, err := renderReceiptPDF(data)
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to generate receipt")
		return
	}

	filename := fmt.Sprintf("receipt_%d_%s.pdf", data.OrderID, sanitizeFilename(data.TableNo))
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=\"%s\"", filename))
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func (h *Handler) receiptData(w http.ResponseWriter, r *http.Request) (receiptData, bool) {
	orderID, err := readPathInt64(r, "orderId")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Order ID is required")
		return receiptData{}, false
	}

	orders, err := h.Backend.ListOrders(r.Context(), "")
	if err != nil {
		response.Error(w, http.StatusBadGateway, "UPSTREAM_ERROR", "Failed to load order")
		return receiptData{}, false
	}

	for _, o := range orders {
		if o.OrderID == orderID {
			return buildReceiptData(o), true
		}
	}

	response.Error(w, http.StatusNotFound, "NOT_FOUND", "Order not found")
	return receiptData{}, false
}

func buildReceiptData(o backend.Order) receiptData {
	lines := make([]receiptLine, 0, len(o.Items))
	for _, item := range o.Items {
		lines = append(lines, receiptLine{
			Name:         item.ItemName,
			Quantity:     item.Qty,
			UnitPrice:    formatAmount(item.UnitPrice),
			Subtotal:     formatAmount(item.UnitPrice * float64(item.Qty)),
			CustomerName: item.CustomerName,
			Option:       item.ChosenOption,
			Note:         item.ChosenNote,
		})
	}

	return receiptData{
		OrderID:  o.OrderID,
		TableNo:  o.TableNo,
		Status:   o.Status,
		PlacedAt: formatPlacedAt(o.CreatedAt),
		Note:     o.Note,
		Lines:    lines,
		Total:    formatAmount(o.Total),
	}
}

func renderReceiptPDF(data receiptData) (*bytes.Buffer, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(12, 12, 12)
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(0, 8, fmt.Sprintf("Order #%d", data.OrderID), "", 1, "C", false, 0, "")

	pdf.SetFont("Arial", "", 10)
	if data.TableNo != "" {
		pdf.CellFormat(0, 5, fmt.Sprintf("Table %s", data.TableNo), "", 1, "C", false, 0, "")
	}
	if data.PlacedAt != "" {
		pdf.CellFormat(0, 5, fmt.Sprintf("Placed: %s", data.PlacedAt), "", 1, "C", false, 0, "")
	}
	pdf.CellFormat(0, 5, fmt.Sprintf("Status: %s", data.Status), "", 1, "C", false, 0, "")

	pdf.Ln(3)
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(0, 6, "Items", "B", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 9)
	for _, line := range data.Lines {
		pdf.CellFormat(0, 5, fmt.Sprintf("%dx %s", line.Quantity, line.Name), "", 1, "L", false, 0, "")
		if line.CustomerName != "" {
			pdf.CellFormat(0, 4, fmt.Sprintf("  For: %s", line.CustomerName), "", 1, "L", false, 0, "")
		}
		if line.Option != "" {
			pdf.CellFormat(0, 4, fmt.Sprintf("  Option: %s", line.Option), "", 1, "L", false, 0, "")
		}
		if line.Note != "" {
			pdf.MultiCell(0, 4, fmt.Sprintf("  Notes: %s", line.Note), "", "L", false)
		}
		pdf.CellFormat(0, 4, fmt.Sprintf("  %s each, subtotal %s", line.UnitPrice, line.Subtotal), "", 1, "L", false, 0, "")
		pdf.Ln(1)
	}

	if data.Note != "" {
		pdf.Ln(2)
		pdf.SetFont("Arial", "", 9)
		pdf.MultiCell(0, 4, fmt.Sprintf("Order note: %s", data.Note), "", "L", false)
	}

	pdf.Ln(2)
	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(0, 6, fmt.Sprintf("Total: %s", data.Total), "", 1, "L", false, 0, "")

	var out bytes.Buffer
	if err := pdf.Output(&out); err != nil {
		return nil, err
	}
	return &out, nil
}

func formatAmount(amount float64) string {
	return fmt.Sprintf("$%.2f", amount)
}

func formatPlacedAt(raw string) string {
	if raw == "" {
		return ""
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format("2006-01-02 15:04")
		}
	}
	return raw
}

func sanitizeFilename(value string) string {
	re := regexp.MustCompile(`[^a-zA-Z0-9_-]+`)
	clean := re.ReplaceAllString(value, "_")
	return strings.Trim(clean, "_")
}
