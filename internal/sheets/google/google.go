// Package google mirrors budget snapshots to a Google Spreadsheet using
// a service account. Every export rewrites the Summary, Budget and
// Transactions sheets from scratch.
package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"

	"bilancio/internal/core"
	ports "bilancio/internal/sheets"
	"bilancio/internal/store"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

type Client struct {
	svc               *gsheet.Service
	spreadsheetID     string
	summarySheet      string
	budgetSheet       string
	transactionsSheet string
}

var _ ports.SnapshotExporter = (*Client)(nil)

// NewFromEnv creates a Sheets client using environment variables.
// Required: GOOGLE_SPREADSHEET_ID plus service account credentials
// (GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or
// GOOGLE_APPLICATION_CREDENTIALS).
// Optional sheet names: GOOGLE_SUMMARY_SHEET_NAME (default "Summary"),
// GOOGLE_BUDGET_SHEET_NAME (default "Budget"),
// GOOGLE_TRANSACTIONS_SHEET_NAME (default "Transactions").
func NewFromEnv(ctx context.Context) (*Client, error) {
	spreadsheetID := strings.TrimSpace(os.Getenv("GOOGLE_SPREADSHEET_ID"))
	if spreadsheetID == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}

	summary := sheetNameFromEnv("GOOGLE_SUMMARY_SHEET_NAME", "Summary")
	budget := sheetNameFromEnv("GOOGLE_BUDGET_SHEET_NAME", "Budget")
	transactions := sheetNameFromEnv("GOOGLE_TRANSACTIONS_SHEET_NAME", "Transactions")

	svc, err := newSheetsService(ctx)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	return &Client{
		svc:               svc,
		spreadsheetID:     spreadsheetID,
		summarySheet:      summary,
		budgetSheet:       budget,
		transactionsSheet: transactions,
	}, nil
}

func sheetNameFromEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

// newSheetsService initializes a Sheets Service using Service Account
// credentials from GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE,
// or GOOGLE_APPLICATION_CREDENTIALS.
func newSheetsService(ctx context.Context) (*gsheet.Service, error) {
	serviceAccountJSON := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"))
	serviceAccountFile := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"))
	if serviceAccountJSON == "" && serviceAccountFile == "" {
		serviceAccountFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	var credentialsJSON []byte
	var err error

	switch {
	case serviceAccountJSON != "":
		credentialsJSON = []byte(serviceAccountJSON)
	case serviceAccountFile != "":
		credentialsJSON, err = os.ReadFile(serviceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}

	service, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	return service, nil
}

// ExportSnapshot rewrites the three mirror sheets with the snapshot's
// derived views.
func (c *Client) ExportSnapshot(ctx context.Context, snap store.Snapshot) error {
	if c.svc == nil {
		return errors.New("sheets service not initialized")
	}

	if err := c.writeSheet(ctx, c.summarySheet, summaryRows(snap)); err != nil {
		return fmt.Errorf("export summary: %w", err)
	}
	if err := c.writeSheet(ctx, c.budgetSheet, budgetRows(snap.Document)); err != nil {
		return fmt.Errorf("export budget: %w", err)
	}
	if err := c.writeSheet(ctx, c.transactionsSheet, transactionRows(snap.Document)); err != nil {
		return fmt.Errorf("export transactions: %w", err)
	}

	slog.InfoContext(ctx, "Exported snapshot to spreadsheet",
		"spreadsheet_id", c.spreadsheetID,
		"revision", snap.Revision,
		"transactions", len(snap.Document.Incomes)+len(snap.Document.Expenses))

	return nil
}

func (c *Client) writeSheet(ctx context.Context, sheetName string, rows [][]any) error {
	clearRange := fmt.Sprintf("%s!A:Z", sheetName)
	_, err := c.svc.Spreadsheets.Values.Clear(c.spreadsheetID, clearRange, &gsheet.ClearValuesRequest{}).
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("clear %s: %w", clearRange, err)
	}

	writeRange := fmt.Sprintf("%s!A1", sheetName)
	vr := &gsheet.ValueRange{Values: rows}
	_, err = c.svc.Spreadsheets.Values.Update(c.spreadsheetID, writeRange, vr).
		ValueInputOption("USER_ENTERED").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("write %s: %w", writeRange, err)
	}

	return nil
}

// summaryRows renders the top-line figures and savings goals.
func summaryRows(snap store.Snapshot) [][]any {
	rows := [][]any{
		{"Metric", "Value"},
		{"Total Income", snap.Summary.TotalIncome.Units()},
		{"Total Expenses", snap.Summary.TotalExpenses.Units()},
		{"Balance", snap.Summary.Balance.Units()},
		{"Savings Rate (%)", snap.Summary.SavingsRate},
		{"Revision", snap.Revision},
	}

	if len(snap.Document.SavingsGoals) > 0 {
		rows = append(rows, []any{}, []any{"Goal", "Target", "Current", "Deadline"})
		for _, g := range snap.Document.SavingsGoals {
			deadline := ""
			if g.Deadline != nil {
				deadline = g.Deadline.String()
			}
			rows = append(rows, []any{g.Name, g.TargetAmount.Units(), g.CurrentAmount.Units(), deadline})
		}
	}

	return rows
}

// budgetRows renders the per-category spend position, sorted by category
// name so consecutive exports diff cleanly.
func budgetRows(doc core.Document) [][]any {
	status := core.RemainingBudget(doc)
	names := make([]string, 0, len(status))
	for name := range status {
		names = append(names, name)
	}
	sort.Strings(names)

	rows := [][]any{{"Category", "Spent", "Limit", "Remaining"}}
	for _, name := range names {
		s := status[name]
		rows = append(rows, []any{name, s.Spent.Units(), s.Limit.Units(), s.Remaining.Units()})
	}
	return rows
}

// transactionRows renders the unified history, most recent first.
func transactionRows(doc core.Document) [][]any {
	rows := [][]any{{"Date", "Type", "Category", "Description", "Amount"}}
	for _, tx := range core.TransactionHistory(doc) {
		rows = append(rows, []any{
			tx.Date.String(),
			string(tx.Type),
			tx.Category,
			tx.Description,
			tx.Amount.Units(),
		})
	}
	return rows
}
