package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/northpeak-digital/agency-api/internal/entity"
)

const (
	SheetName   = "Leads"
	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var leadHeaders = []string{
	"Created", "Name", "Email", "Phone", "Company", "Industry",
	"Lead Type", "Tier", "Status", "Source", "UTM Campaign",
}

// WriteLeadsXLSX writes one row per lead under a styled header row.
func WriteLeadsXLSX(w io.Writer, leads []*entity.Lead) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(SheetName)
	if err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("remove default sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("create style: %w", err)
	}
	dateStyle, err := f.NewStyle(&excelize.Style{NumFmt: 22})
	if err != nil {
		return fmt.Errorf("create style: %w", err)
	}

	if err := f.SetSheetRow(SheetName, "A1", &leadHeaders); err != nil {
		return err
	}
	last, _ := excelize.CoordinatesToCellName(len(leadHeaders), 1)
	if err := f.SetCellStyle(SheetName, "A1", last, headerStyle); err != nil {
		return err
	}

	for i, lead := range leads {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(SheetName, cell, &[]any{
			lead.CreatedAt,
			lead.Name,
			lead.Email,
			lead.Phone,
			lead.Company,
			string(lead.Industry),
			string(lead.LeadType),
			tierOf(lead),
			string(lead.Status),
			firstNonEmpty(lead.Attribution.UTMSource, lead.Attribution.Source),
			lead.Attribution.UTMCampaign,
		}); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}
	if len(leads) > 0 {
		end, _ := excelize.CoordinatesToCellName(1, len(leads)+1)
		if err := f.SetCellStyle(SheetName, "A2", end, dateStyle); err != nil {
			return err
		}
	}

	if err := f.SetColWidth(SheetName, "A", "A", 20); err != nil {
		return err
	}
	if err := f.SetColWidth(SheetName, "B", "K", 18); err != nil {
		return err
	}
	if err := f.SetPanes(SheetName, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"}); err != nil {
		return err
	}

	_, err = f.WriteTo(w)
	return err
}

func tierOf(l *entity.Lead) string {
	if l.SelectedTier == nil {
		return ""
	}
	return string(*l.SelectedTier)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
