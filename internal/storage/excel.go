package storage

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// ExportOrdersToExcel writes the given orders into an xlsx file at path.
// Used by the admin /export command; the file is sent back as a document.
func ExportOrdersToExcel(orders []Order, path string) error {
	f := excelize.NewFile()
	defer func() {
		_ = f.Close()
	}()

	const sheet = "Заявки"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("failed to drop default sheet: %w", err)
	}

	headers := []string{"ID", "Номер", "Telegram ID", "Username", "Заявка", "Дата"}
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return fmt.Errorf("failed to build header cell: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return fmt.Errorf("failed to set header: %w", err)
		}
	}

	for row, o := range orders {
		values := []any{
			o.ID,
			o.OrderRef,
			o.UserID,
			o.Username,
			o.OrderText,
			o.CreatedAt.Format("02.01.2006 15:04"),
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row+2)
			if err != nil {
				return fmt.Errorf("failed to build cell: %w", err)
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return fmt.Errorf("failed to set cell: %w", err)
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save file: %w", err)
	}
	return nil
}
