package pdf

import (
	"bytes"
	"fmt"

	"github.com/commercialspace/backend/internal/domain/entity"
	"github.com/jung-kurt/gofpdf"
)

// LeaseRenderer produces the lease agreement document attached to
// booking acceptance emails.
type LeaseRenderer interface {
	RenderLease(booking *entity.Booking) (data []byte, filename string, err error)
}

type leaseRenderer struct{}

func NewLeaseRenderer() LeaseRenderer {
	return &leaseRenderer{}
}

func (r *leaseRenderer) RenderLease(booking *entity.Booking) ([]byte, string, error) {
	doc := gofpdf.New("P", "mm", "A4", "")
	doc.SetMargins(15, 15, 15)
	doc.AddPage()

	doc.SetFont("Helvetica", "B", 26)
	doc.SetTextColor(37, 99, 235)
	doc.CellFormat(0, 14, "Commercial Space Lease Agreement", "", 1, "C", false, 0, "")
	doc.Ln(4)

	doc.SetFont("Helvetica", "B", 18)
	doc.SetTextColor(14, 165, 233)
	doc.MultiCell(0, 9, "This is a legal agreement form for your booking on Commercial Space.", "", "C", false)
	doc.SetFont("Helvetica", "", 12)
	doc.SetTextColor(51, 65, 85)
	doc.MultiCell(0, 6, "You can meet and discuss further details. For legal advice, contact our legal team.", "", "L", false)
	doc.Ln(6)

	r.section(doc, "Property Details")
	r.line(doc, "Title", booking.Property.Title)
	r.line(doc, "Address", booking.Property.Address)
	r.line(doc, "Price", fmt.Sprintf("%.2f", booking.Property.Price))
	r.line(doc, "Type", string(booking.Property.Type))
	r.line(doc, "Area", fmt.Sprintf("%d sq.ft.", booking.Property.Area))
	doc.Ln(6)

	r.section(doc, "Booking Details")
	r.line(doc, "Start Date", booking.StartDate.Format("02 Jan 2006"))
	r.line(doc, "End Date", booking.EndDate.Format("02 Jan 2006"))
	r.line(doc, "Total Price", fmt.Sprintf("%.2f", booking.TotalPrice()))
	doc.Ln(6)

	r.section(doc, "Customer Details")
	r.line(doc, "Name", booking.Customer.Name)
	r.line(doc, "Email", booking.Customer.Email)
	doc.Ln(6)

	r.section(doc, "Owner Details")
	r.line(doc, "Name", booking.Owner.Name)
	r.line(doc, "Email", booking.Owner.Email)
	doc.Ln(10)

	doc.SetFont("Helvetica", "B", 18)
	doc.SetTextColor(14, 165, 233)
	doc.CellFormat(0, 10, "Thank you for using Commercial Space!", "", 1, "C", false, 0, "")

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, "", fmt.Errorf("failed to render lease agreement: %w", err)
	}
	return buf.Bytes(), fmt.Sprintf("lease_agreement_%s.pdf", booking.ID), nil
}

func (r *leaseRenderer) section(doc *gofpdf.Fpdf, heading string) {
	doc.SetFont("Helvetica", "B", 15)
	doc.SetTextColor(99, 102, 241)
	doc.CellFormat(0, 8, heading, "", 1, "L", false, 0, "")
}

func (r *leaseRenderer) line(doc *gofpdf.Fpdf, label, value string) {
	doc.SetFont("Helvetica", "B", 12)
	doc.SetTextColor(71, 85, 105)
	doc.CellFormat(30, 6, label+":", "", 0, "L", false, 0, "")
	doc.SetFont("Helvetica", "", 12)
	doc.SetTextColor(51, 65, 85)
	doc.CellFormat(0, 6, value, "", 1, "L", false, 0, "")
}
