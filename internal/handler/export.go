package handler

import (
	"encoding/csv"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/nyomangedewisaya/expense-tracker/internal/models"
	"github.com/nyomangedewisaya/expense-tracker/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// ExportHandler downloads the user's live transactions as CSV or XLSX.
type ExportHandler struct {
	DB *gorm.DB
}

func NewExportHandler(db *gorm.DB) *ExportHandler {
	return &ExportHandler{DB: db}
}

var exportHeaders = []string{"Date", "Type", "Category", "Wallet", "Amount", "Description"}

func (h *ExportHandler) loadTransactions(userID uint) ([]models.Transaction, error) {
	var transactions []models.Transaction
	err := h.DB.
		Preload("Wallet", func(db *gorm.DB) *gorm.DB { return db.Unscoped() }).
		Preload("Category", func(db *gorm.DB) *gorm.DB { return db.Unscoped() }).
		Where("user_id = ?", userID).
		Order("transaction_date DESC, id DESC").
		Find(&transactions).Error
	return transactions, err
}

func exportRow(trx *models.Transaction) []string {
	categoryName, categoryType := "", ""
	if trx.Category != nil {
		categoryName = trx.Category.Name
		categoryType = trx.Category.Type
	}
	return []string{
		trx.TransactionDate.Format("2006-01-02"),
		categoryType,
		categoryName,
		trx.Wallet.Name,
		strconv.FormatInt(trx.Amount, 10),
		trx.Description,
	}
}

// ExportCSV streams transactions as a CSV attachment.
func (h *ExportHandler) ExportCSV(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	transactions, err := h.loadTransactions(user.ID)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to load transactions")
		return
	}

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"transactions_%s.csv\"",
		time.Now().Format("20060102")))

	// UTF-8 BOM so spreadsheet apps detect the encoding
	if _, err := c.Writer.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
		log.Printf("export csv: %v", err)
		return
	}

	writer := csv.NewWriter(c.Writer)
	writer.Write(exportHeaders)
	for i := range transactions {
		writer.Write(exportRow(&transactions[i]))
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		// headers are already on the wire at this point
		log.Printf("export csv: %v", err)
	}
}

// ExportXLSX streams transactions as an Excel workbook.
func (h *ExportHandler) ExportXLSX(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	transactions, err := h.loadTransactions(user.ID)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to load transactions")
		return
	}

	f := excelize.NewFile()
	sheetName := "Transactions"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to create sheet")
		return
	}
	f.SetActiveSheet(index)

	// drop the workbook's default sheet
	if err := f.DeleteSheet("Sheet1"); err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to create sheet")
		return
	}

	for i, header := range exportHeaders {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheetName, cell, header)
	}

	for idx := range transactions {
		row := idx + 2
		for col, value := range exportRow(&transactions[idx]) {
			cell := fmt.Sprintf("%c%d", 'A'+col, row)
			f.SetCellValue(sheetName, cell, value)
		}
	}

	f.SetColWidth(sheetName, "A", "A", 12)
	f.SetColWidth(sheetName, "B", "C", 15)
	f.SetColWidth(sheetName, "D", "D", 15)
	f.SetColWidth(sheetName, "E", "E", 14)
	f.SetColWidth(sheetName, "F", "F", 30)

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"transactions_%s.xlsx\"",
		time.Now().Format("20060102")))

	if err := f.Write(c.Writer); err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to export")
	}
}
