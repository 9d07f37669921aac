package ofx

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/aclindsa/ofxgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Sample OFX data for testing.
const sampleBankOFX = `OFXHEADER:100
DATA:OFXSGML
VERSION:102
SECURITY:NONE
ENCODING:USASCII
CHARSET:1252
COMPRESSION:NONE
OLDFILEUID:NONE
NEWFILEUID:NONE

<OFX>
<SIGNONMSGSRSV1>
<SONRS>
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<DTSERVER>20240315120000[0:GMT]
<LANGUAGE>ENG
</SONRS>
</SIGNONMSGSRSV1>
<BANKMSGSRSV1>
<STMTTRNRS>
<TRNUID>1
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<STMTRS>
<CURDEF>USD
<BANKACCTFROM>
<BANKID>123456789
<ACCTID>1234567890
<ACCTTYPE>CHECKING
</BANKACCTFROM>
<BANKTRANLIST>
<DTSTART>20240101120000[0:GMT]
<DTEND>20240131120000[0:GMT]
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20240115120000[0:GMT]
<TRNAMT>-25.50
<FITID>2024011501
<NAME>STARBUCKS STORE #1234
</STMTTRN>
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20240120120000[0:GMT]
<TRNAMT>-125.00
<FITID>2024012001
<NAME>Whole Foods Market
</STMTTRN>
<STMTTRN>
<TRNTYPE>FEE
<DTPOSTED>20240125120000[0:GMT]
<TRNAMT>-12.00
<FITID>2024012501
<NAME>MONTHLY SERVICE FEE
</STMTTRN>
</BANKTRANLIST>
<LEDGERBAL>
<BALAMT>1000.00
<DTASOF>20240131120000[0:GMT]
</LEDGERBAL>
</STMTRS>
</STMTTRNRS>
</BANKMSGSRSV1>
</OFX>`

func TestParser_ParseFile(t *testing.T) {
	parser := NewParser()

	candidates, rowErrors, err := parser.ParseFile(context.Background(), strings.NewReader(sampleBankOFX))
	require.NoError(t, err)
	assert.Empty(t, rowErrors)
	require.Len(t, candidates, 3)

	first := candidates[0]
	assert.Equal(t, "STARBUCKS STORE #1234", first.Payee)
	assert.Equal(t, "1234567890", first.AccountID)
	assert.InDelta(t, 25.50, first.Amount, 0.001)
	assert.Equal(t, time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC), first.Date.UTC())
	assert.NotEmpty(t, first.Hash)
	assert.False(t, first.Selected)

	// Amounts are stored as magnitudes even though OFX debits are negative
	for _, c := range candidates {
		assert.Greater(t, c.Amount, 0.0)
	}

	// FEE transactions get a category hint
	assert.Equal(t, "Bank Fees", candidates[2].Category)
}

func TestParser_ParseFile_InvalidContent(t *testing.T) {
	parser := NewParser()

	_, _, err := parser.ParseFile(context.Background(), strings.NewReader("this is not an OFX file"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse OFX file")
}

func TestParser_Preprocess(t *testing.T) {
	parser := NewParser()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "mixed case severity is uppercased",
			input: "<SEVERITY>Info</SEVERITY>",
			want:  "<SEVERITY>INFO</SEVERITY>",
		},
		{
			name:  "dangling tag gets closing bracket",
			input: "<STMTTRN",
			want:  "<STMTTRN>",
		},
		{
			name:  "leading blank lines trimmed",
			input: "\n\n\nOFXHEADER:100",
			want:  "OFXHEADER:100",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parser.preprocess(tt.input))
		})
	}
}

func TestParser_ExtractPayee(t *testing.T) {
	parser := NewParser()

	tests := []struct {
		name string
		raw  string
		memo string
		want string
	}{
		{
			name: "plain name passes through",
			raw:  "Whole Foods Market",
			want: "Whole Foods Market",
		},
		{
			name: "POS prefix stripped",
			raw:  "POS PURCHASE TRADER JOES",
			want: "TRADER JOES",
		},
		{
			name: "generic name falls back to memo",
			raw:  "DEBIT",
			memo: "LOCAL COFFEE ROASTERS",
			want: "LOCAL COFFEE ROASTERS",
		},
		{
			name: "leading date fragment stripped",
			raw:  "01/15 STARBUCKS",
			want: "STARBUCKS",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx := ofxgo.Transaction{
				Name: ofxgo.String(tt.raw),
				Memo: ofxgo.String(tt.memo),
			}
			assert.Equal(t, tt.want, parser.extractPayee(tx))
		})
	}
}
