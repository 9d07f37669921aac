// Package ofx parses OFX/QFX bank statement files into import candidates.
package ofx

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"

	"github.com/aclindsa/ofxgo"

	"github.com/pennyflow/pennyflow/internal/model"
)

// Parser implements OFX/QFX file parsing.
type Parser struct{}

// NewParser creates a new OFX parser.
func NewParser() *Parser {
	return &Parser{}
}

// preprocess fixes common formatting issues in bank-exported OFX files.
func (p *Parser) preprocess(content string) string {
	// Trim any leading whitespace or blank lines before the header
	content = strings.TrimLeft(content, " \t\r\n")

	// Fix mixed-case SEVERITY values (should be INFO, WARN, or ERROR)
	severityRegex := regexp.MustCompile(`(?i)<SEVERITY>(Info|Warn|Error)</SEVERITY>`)
	content = severityRegex.ReplaceAllStringFunc(content, strings.ToUpper)

	// Fix missing closing angle brackets in SGML-style OFX files:
	// an opening tag alone on its line with no closing bracket
	tagFixRegex := regexp.MustCompile(`(?m)^(\s*<[A-Z][A-Z0-9._]*[A-Z0-9])$`)
	content = tagFixRegex.ReplaceAllString(content, "$1>")

	return content
}

// ParseFile parses an OFX/QFX file into import candidates. Row-level
// conversion failures are collected and returned alongside the rows that did
// parse; only a file-level failure returns an error.
func (p *Parser) ParseFile(ctx context.Context, reader io.Reader) ([]model.ImportCandidate, []string, error) {
	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read OFX file: %w", err)
	}

	resp, err := ofxgo.ParseResponse(strings.NewReader(p.preprocess(string(content))))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse OFX file: %w", err)
	}

	var candidates []model.ImportCandidate
	var rowErrors []string
	var bankStmts, ccStmts int

	for _, msg := range resp.Bank {
		if stmt, ok := msg.(*ofxgo.StatementResponse); ok {
			bankStmts++
			if stmt.BankTranList == nil {
				continue
			}
			accountID := string(stmt.BankAcctFrom.AcctID)
			for i, ofxTx := range stmt.BankTranList.Transactions {
				c, convErr := p.convert(ofxTx, accountID)
				if convErr != nil {
					rowErrors = append(rowErrors, fmt.Sprintf("row %d malformed: %v", i+1, convErr))
					continue
				}
				candidates = append(candidates, c)
			}
		}
	}

	for _, msg := range resp.CreditCard {
		if stmt, ok := msg.(*ofxgo.CCStatementResponse); ok {
			ccStmts++
			if stmt.BankTranList == nil {
				continue
			}
			accountID := string(stmt.CCAcctFrom.AcctID)
			for i, ofxTx := range stmt.BankTranList.Transactions {
				c, convErr := p.convert(ofxTx, accountID)
				if convErr != nil {
					rowErrors = append(rowErrors, fmt.Sprintf("row %d malformed: %v", i+1, convErr))
					continue
				}
				candidates = append(candidates, c)
			}
		}
	}

	slog.Info("Parsed OFX file",
		"candidates", len(candidates),
		"row_errors", len(rowErrors),
		"bank_statements", bankStmts,
		"cc_statements", ccStmts)

	return candidates, rowErrors, nil
}

// convert maps an OFX transaction to an import candidate.
func (p *Parser) convert(ofxTx ofxgo.Transaction, accountID string) (model.ImportCandidate, error) {
	if ofxTx.DtPosted.IsZero() {
		return model.ImportCandidate{}, fmt.Errorf("missing posting date")
	}

	// OFX uses negative amounts for debits; the ledger stores magnitudes
	amount, _ := ofxTx.TrnAmt.Float64()
	if amount < 0 {
		amount = -amount
	}

	c := model.ImportCandidate{
		Date:      ofxTx.DtPosted.Time,
		Payee:     p.extractPayee(ofxTx),
		AccountID: accountID,
		Amount:    amount,
	}

	// OFX carries no categories, but a few transaction types imply one
	switch fmt.Sprintf("%v", ofxTx.TrnType) {
	case "INT":
		c.Category = "Interest"
	case "FEE":
		c.Category = "Bank Fees"
	case "ATM":
		c.Category = "Cash & ATM"
	}

	c.Hash = model.CandidateHash(&c)

	return c, nil
}

// extractPayee tries to get a clean payee name from OFX data.
func (p *Parser) extractPayee(tx ofxgo.Transaction) string {
	// Prefer PAYEE if available (cleaner merchant name)
	if tx.Payee != nil && tx.Payee.Name != "" {
		return string(tx.Payee.Name)
	}

	name := string(tx.Name)

	// Sometimes MEMO has better merchant info than a generic NAME
	if tx.Memo != "" && isGenericDescription(name) {
		name = string(tx.Memo)
	}

	name = strings.TrimSpace(name)

	prefixes := []string{
		"POS PURCHASE ",
		"PURCHASE AUTHORIZED ON ",
		"DEBIT CARD PURCHASE ",
		"ACH DEBIT ",
		"CHECK CARD ",
		"VISA PURCHASE ",
		"MC PURCHASE ",
		"DEBIT PURCHASE ",
	}
	for _, prefix := range prefixes {
		if strings.HasPrefix(strings.ToUpper(name), prefix) {
			name = name[len(prefix):]
			break
		}
	}

	// Strip leading "MM/DD " date fragments some banks prepend
	if len(name) > 5 && name[2] == '/' && name[5] == ' ' {
		name = strings.TrimSpace(name[6:])
	}

	return name
}

// isGenericDescription checks if a transaction name is too generic.
func isGenericDescription(name string) bool {
	generic := []string{
		"DEBIT",
		"CREDIT",
		"PURCHASE",
		"PAYMENT",
		"POS TRANSACTION",
		"CARD PURCHASE",
	}

	upperName := strings.ToUpper(name)
	for _, g := range generic {
		if upperName == g {
			return true
		}
	}
	return false
}
