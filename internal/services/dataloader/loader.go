// Package dataloader reads the dashboard dataset from a data directory:
// an optional dashboard.yaml/json document plus CSV and XLSX exports.
package dataloader

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/cases"
	"gopkg.in/yaml.v3"

	"walletdash/internal/log"
	"walletdash/internal/models"
	"walletdash/internal/money"
	"walletdash/internal/services/aggregator"
	"walletdash/internal/services/classifier"
	"walletdash/internal/services/provider"
	"walletdash/internal/services/recurring"
	"walletdash/internal/services/storage"
)

// Dataset file names, checked in this order
var datasetFiles = []string{"dashboard.yaml", "dashboard.yml", "dashboard.json"}

// maxDerivedUpcoming caps upcoming payments projected from history
const maxDerivedUpcoming = 5

// ErrNotLoaded is returned by Dataset before a successful Load
var ErrNotLoaded = errors.New("dataset not loaded")

// DataLoader loads the dataset once and serves it as a provider.DataProvider
type DataLoader struct {
	store  *storage.Storage
	logger *log.Logger
	agg    *aggregator.Service
	cls    *classifier.Classifier

	mu    sync.RWMutex
	data  *Dataset
	stats Stats
}

// Dataset is the loaded host data. Nil fields are absent.
type Dataset struct {
	Balance      *string
	Transactions []models.Transaction
	Categories   *models.CategoryTotals
	Upcoming     []models.Transaction
}

// Stats describes the last load
type Stats struct {
	Files        []string  `json:"files"`
	Transactions int       `json:"transactions"`
	Duplicates   int       `json:"duplicates"`
	Transfers    int       `json:"transfers"`
	LoadedAt     time.Time `json:"loaded_at"`
}

// columnMappings maps common export column names to our standard names
var columnMappings = map[string][]string{
	"Date": {
		"date", "transaction date", "posted date", "post date",
		"trans date", "posting date",
	},
	"Description": {
		"description", "title", "memo", "details", "payee", "name",
		"transaction description", "merchant", "narrative",
	},
	"Subtitle": {
		"subtitle", "note", "notes", "reference",
	},
	"Amount": {
		"amount", "value", "transaction amount", "sum",
	},
	"Category": {
		"category", "type", "category name",
	},
	"Icon": {
		"icon", "emoji",
	},
	"ID": {
		"id", "transaction id", "reference id",
	},
	"Debit": {
		"debit", "withdrawal", "withdrawals", "money out", "expense",
	},
	"Credit": {
		"credit", "deposit", "deposits", "money in", "income",
	},
}

// New creates a new DataLoader over store
func New(store *storage.Storage, logger *log.Logger) *DataLoader {
	if logger == nil {
		logger = log.Discard()
	}
	return &DataLoader{
		store:  store,
		logger: logger.WithComponent("dataloader"),
		agg:    aggregator.New(),
		cls:    classifier.New(classifier.DefaultRules, provider.Icons()),
	}
}

// normalizeColumnName maps an export column name to our standard name
func normalizeColumnName(col string) string {
	col = strings.TrimSpace(col)
	folded := cases.Fold().String(col)
	for standard, variants := range columnMappings {
		for _, variant := range variants {
			if folded == variant {
				return standard
			}
		}
	}
	return col
}

// buildColumnIndex creates a normalized column index from headers
func buildColumnIndex(header []string) map[string]int {
	colIndex := make(map[string]int)
	for i, col := range header {
		normalized := normalizeColumnName(col)
		// first match wins
		if _, exists := colIndex[normalized]; !exists {
			colIndex[normalized] = i
		}
	}
	return colIndex
}

// Load reads the data directory. On error the previous dataset is dropped
// so every source reports absent.
func (dl *DataLoader) Load() error {
	data, stats, err := dl.load()

	dl.mu.Lock()
	defer dl.mu.Unlock()
	if err != nil {
		dl.data = nil
		dl.stats = Stats{}
		return err
	}
	dl.data = data
	dl.stats = stats
	return nil
}

func (dl *DataLoader) load() (*Dataset, Stats, error) {
	var stats Stats
	if dl.store == nil {
		return nil, stats, fmt.Errorf("no data directory configured")
	}
	if !dl.store.IsUnlocked() {
		return nil, stats, storage.ErrLocked
	}

	data := &Dataset{}
	var palette map[string]string

	for _, name := range datasetFiles {
		if !dl.store.Exists(name) {
			continue
		}
		doc, err := dl.loadDocument(name)
		if err != nil {
			return nil, stats, fmt.Errorf("failed to load %s: %w", name, err)
		}
		stats.Files = append(stats.Files, name)
		data.Balance = doc.Balance
		data.Categories = doc.Categories
		palette = doc.Palette
		if doc.Transactions != nil {
			data.Transactions = make([]models.Transaction, 0, len(doc.Transactions))
			for i, rec := range doc.Transactions {
				t, err := rec.transaction()
				if err != nil {
					return nil, stats, fmt.Errorf("%s: transaction %d: %w", name, i+1, err)
				}
				data.Transactions = append(data.Transactions, t)
			}
		}
		if doc.Upcoming != nil {
			data.Upcoming = make([]models.Transaction, 0, len(doc.Upcoming))
			for i, rec := range doc.Upcoming {
				t, err := rec.transaction()
				if err != nil {
					return nil, stats, fmt.Errorf("%s: upcoming %d: %w", name, i+1, err)
				}
				data.Upcoming = append(data.Upcoming, t)
			}
		}
		break
	}

	exported, files, dups, err := dl.loadExports()
	if err != nil {
		return nil, stats, err
	}
	stats.Files = append(stats.Files, files...)
	stats.Duplicates = dups
	exported, stats.Transfers = classifier.FilterInternalTransfers(exported)
	dl.cls.Classify(exported)
	for i := range exported {
		if exported[i].Subtitle == "" {
			exported[i].Subtitle = defaultSubtitle(exported[i])
		}
	}
	if len(files) > 0 {
		data.Transactions = append(data.Transactions, exported...)
		if data.Transactions == nil {
			data.Transactions = []models.Transaction{}
		}
	}

	sortNewestFirst(data.Transactions)

	if data.Balance == nil && len(data.Transactions) > 0 {
		balance := money.Format(models.NewTransactionSet(data.Transactions).SumAmount())
		data.Balance = &balance
	}

	if data.Upcoming == nil {
		data.Upcoming = deriveUpcoming(data.Transactions)
	}

	for i := range data.Transactions {
		if data.Transactions[i].ID == "" {
			data.Transactions[i].ID = uuid.New().String()
		}
	}
	for i := range data.Upcoming {
		if data.Upcoming[i].ID == "" {
			data.Upcoming[i].ID = uuid.New().String()
		}
	}

	if data.Categories == nil && len(data.Transactions) > 0 {
		colors := provider.Palette()
		for name, color := range palette {
			colors[name] = color
		}
		data.Categories = dl.agg.CategoryTotalsFromExpenses(data.Transactions, colors)
	}

	stats.Transactions = len(data.Transactions)
	stats.LoadedAt = time.Now()

	dl.logger.Info("Dataset loaded",
		"dir", dl.store.BaseDir(),
		"files", len(stats.Files),
		"transactions", stats.Transactions,
		"duplicates", stats.Duplicates,
		"transfers", stats.Transfers,
	)
	return data, stats, nil
}

// loadExports reads every CSV and XLSX export in lexical order. Files
// that cannot be parsed are skipped with a warning.
func (dl *DataLoader) loadExports() ([]models.Transaction, []string, int, error) {
	var names []string
	for _, pattern := range []string{"*.csv", "*.xlsx"} {
		matches, err := dl.store.Glob(pattern)
		if err != nil {
			return nil, nil, 0, fmt.Errorf("error finding exports: %w", err)
		}
		names = append(names, matches...)
	}

	var all []models.Transaction
	var loaded []string
	for _, name := range names {
		var (
			txs []models.Transaction
			err error
		)
		switch strings.ToLower(filepath.Ext(name)) {
		case ".xlsx":
			txs, err = dl.loadXLSXFile(name)
		default:
			txs, err = dl.loadCSVFile(name)
		}
		if err != nil {
			dl.logger.Warn("Skipping export", "file", name, "error", err)
			continue
		}
		dl.logger.Debug("Loaded export", "file", name, "transactions", len(txs))
		loaded = append(loaded, name)
		all = append(all, txs...)
	}

	unique := deduplicateTransactions(all)
	return unique, loaded, len(all) - len(unique), nil
}

// loadCSVFile loads transactions from a single CSV file
func (dl *DataLoader) loadCSVFile(name string) ([]models.Transaction, error) {
	data, err := dl.store.ReadFile(name)
	if err != nil {
		return nil, err
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("error reading header: %w", err)
	}

	var rows [][]string
	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			dl.logger.Warn("Skipping malformed line", "file", name, "line", line, "error", err)
			continue
		}
		rows = append(rows, record)
	}
	return dl.parseRows(name, header, rows)
}

// loadXLSXFile loads transactions from the first sheet of a workbook
func (dl *DataLoader) loadXLSXFile(name string) ([]models.Transaction, error) {
	data, err := dl.store.ReadFile(name)
	if err != nil {
		return nil, err
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("error opening workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("error reading sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %q is empty", sheets[0])
	}
	return dl.parseRows(name, rows[0], rows[1:])
}

// parseRows maps export rows to transactions using the header
func (dl *DataLoader) parseRows(name string, header []string, rows [][]string) ([]models.Transaction, error) {
	colIndex := buildColumnIndex(header)

	_, hasAmount := colIndex["Amount"]
	_, hasDebit := colIndex["Debit"]
	_, hasCredit := colIndex["Credit"]
	useDebitCredit := !hasAmount && (hasDebit || hasCredit)

	if _, ok := colIndex["Date"]; !ok {
		return nil, fmt.Errorf("missing required column: Date (tried: %v)", columnMappings["Date"])
	}
	if _, ok := colIndex["Description"]; !ok {
		return nil, fmt.Errorf("missing required column: Description (tried: %v)", columnMappings["Description"])
	}
	if !hasAmount && !useDebitCredit {
		return nil, fmt.Errorf("missing required column: Amount or Debit/Credit (tried: %v)", columnMappings["Amount"])
	}

	field := func(record []string, col string) string {
		if idx, ok := colIndex[col]; ok && idx < len(record) {
			return strings.TrimSpace(record[idx])
		}
		return ""
	}

	var transactions []models.Transaction
	for i, record := range rows {
		if isBlank(record) {
			continue
		}

		t := models.Transaction{
			ID:       field(record, "ID"),
			Title:    field(record, "Description"),
			Subtitle: field(record, "Subtitle"),
			Category: field(record, "Category"),
			Icon:     field(record, "Icon"),
		}

		dateStr := field(record, "Date")
		t.Date = parseDate(dateStr)
		if t.Date.IsZero() {
			dl.logger.Warn("Skipping row with bad date", "file", name, "row", i+2, "date", dateStr)
			continue
		}

		if useDebitCredit {
			t.Amount = parseDebitCredit(field(record, "Debit"), field(record, "Credit"))
		} else {
			t.Amount = parseAmount(field(record, "Amount"))
		}

		transactions = append(transactions, t)
	}
	return transactions, nil
}

func isBlank(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// sortNewestFirst orders transactions by date, latest first. Undated rows
// keep their relative order at the end.
func sortNewestFirst(transactions []models.Transaction) {
	sort.SliceStable(transactions, func(i, j int) bool {
		a, b := transactions[i].Date, transactions[j].Date
		if a.IsZero() || b.IsZero() {
			return !a.IsZero() && b.IsZero()
		}
		return a.After(b)
	})
}

// deriveUpcoming projects recurring expenses past the newest transaction.
// It returns nil when nothing recurs so the upcoming source stays absent.
func deriveUpcoming(transactions []models.Transaction) []models.Transaction {
	var latest time.Time
	for _, t := range transactions {
		if t.Date.After(latest) {
			latest = t.Date
		}
	}
	if latest.IsZero() {
		return nil
	}
	upcoming := recurring.Upcoming(recurring.Detect(transactions), latest, maxDerivedUpcoming)
	if len(upcoming) == 0 {
		return nil
	}
	return upcoming
}

// defaultSubtitle renders "Category · Jan 2" like the built-in rows
func defaultSubtitle(t models.Transaction) string {
	date := t.Date.Format("Jan 2")
	if t.Category == "" {
		return date
	}
	return t.Category + " · " + date
}

// parseDebitCredit combines Debit and Credit columns into one amount.
// Credits are positive, debits negative.
func parseDebitCredit(debitStr, creditStr string) decimal.Decimal {
	amount := decimal.Zero
	if creditStr != "" {
		if credit := parseAmount(creditStr); !credit.IsZero() {
			amount = credit.Abs()
		}
	}
	if debitStr != "" {
		if debit := parseAmount(debitStr); !debit.IsZero() {
			amount = debit.Abs().Neg()
		}
	}
	return amount
}

// parseDate tries multiple date formats
func parseDate(s string) time.Time {
	formats := []string{
		"2006-01-02",
		time.RFC3339,
		"01/02/2006",
		"1/2/2006",
		"01-02-2006",
		"2006/01/02",
		"01-02-06",
		"Jan 2, 2006",
		"January 2, 2006",
		"2 Jan 2006",
	}

	for _, format := range formats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// parseAmount parses an amount string, handling currency symbols and
// parentheses. Unparseable input is zero.
func parseAmount(s string) decimal.Decimal {
	d, err := parseAmountStrict(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

func parseAmountStrict(s string) (decimal.Decimal, error) {
	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)

	// (100.00) -> -100.00
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		s = "-" + s[1:len(s)-1]
	}
	return decimal.NewFromString(s)
}

// deduplicateTransactions drops rows repeated across overlapping exports
func deduplicateTransactions(transactions []models.Transaction) []models.Transaction {
	seen := make(map[string]bool)
	var unique []models.Transaction

	for _, t := range transactions {
		key := t.ID
		if key == "" {
			key = strings.Join([]string{t.Date.Format("2006-01-02"), t.Amount.String(), t.Title}, "|")
		}
		if !seen[key] {
			seen[key] = true
			unique = append(unique, t)
		}
	}
	return unique
}

// Dataset returns the loaded data
func (dl *DataLoader) Dataset() (*Dataset, error) {
	dl.mu.RLock()
	defer dl.mu.RUnlock()
	if dl.data == nil {
		return nil, ErrNotLoaded
	}
	return dl.data, nil
}

// Stats returns information about the last successful load
func (dl *DataLoader) Stats() Stats {
	dl.mu.RLock()
	defer dl.mu.RUnlock()
	return dl.stats
}

// Balance implements provider.DataProvider
func (dl *DataLoader) Balance() (string, bool) {
	d, err := dl.Dataset()
	if err != nil || d.Balance == nil {
		return "", false
	}
	return *d.Balance, true
}

// Transactions implements provider.DataProvider
func (dl *DataLoader) Transactions() ([]models.Transaction, bool) {
	d, err := dl.Dataset()
	if err != nil || d.Transactions == nil {
		return nil, false
	}
	return d.Transactions, true
}

// CategoryTotals implements provider.DataProvider
func (dl *DataLoader) CategoryTotals() (*models.CategoryTotals, bool) {
	d, err := dl.Dataset()
	if err != nil || d.Categories == nil {
		return nil, false
	}
	return d.Categories, true
}

// UpcomingPayments implements provider.DataProvider
func (dl *DataLoader) UpcomingPayments() ([]models.Transaction, bool) {
	d, err := dl.Dataset()
	if err != nil || d.Upcoming == nil {
		return nil, false
	}
	return d.Upcoming, true
}

var _ provider.DataProvider = (*DataLoader)(nil)

// document is the dashboard.yaml / dashboard.json layout
type document struct {
	Balance      *string                `json:"balance" yaml:"balance"`
	Transactions []record               `json:"transactions" yaml:"transactions"`
	Categories   *models.CategoryTotals `json:"categories" yaml:"categories"`
	Upcoming     []record               `json:"upcoming" yaml:"upcoming"`
	Palette      map[string]string      `json:"palette" yaml:"palette"`
}

// record is one transaction as written by hand: dates and amounts are
// free-form strings
type record struct {
	ID       string      `json:"id" yaml:"id"`
	Date     string      `json:"date" yaml:"date"`
	Amount   amountField `json:"amount" yaml:"amount"`
	Title    string      `json:"title" yaml:"title"`
	Subtitle string      `json:"subtitle" yaml:"subtitle"`
	Icon     string      `json:"icon" yaml:"icon"`
	Category string      `json:"category" yaml:"category"`
}

// amountField accepts a JSON number or string
type amountField string

func (a *amountField) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*a = amountField(s)
		return nil
	}
	if string(data) == "null" {
		*a = ""
		return nil
	}
	*a = amountField(data)
	return nil
}

func (r record) transaction() (models.Transaction, error) {
	t := models.Transaction{
		ID:       r.ID,
		Title:    r.Title,
		Subtitle: r.Subtitle,
		Icon:     r.Icon,
		Category: r.Category,
	}
	if r.Date != "" {
		t.Date = parseDate(strings.TrimSpace(r.Date))
		if t.Date.IsZero() {
			return t, fmt.Errorf("invalid date %q", r.Date)
		}
	}
	if r.Amount != "" {
		amount, err := parseAmountStrict(string(r.Amount))
		if err != nil {
			return t, fmt.Errorf("invalid amount %q", string(r.Amount))
		}
		t.Amount = amount
	}
	return t, nil
}

func (dl *DataLoader) loadDocument(name string) (*document, error) {
	data, err := dl.store.ReadFile(name)
	if err != nil {
		return nil, err
	}

	var doc document
	if strings.HasSuffix(name, ".json") {
		err = json.Unmarshal(data, &doc)
	} else {
		err = yaml.Unmarshal(data, &doc)
	}
	if err != nil {
		return nil, err
	}
	return &doc, nil
}
