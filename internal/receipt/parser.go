// Package receipt turns an OCR'd receipt into (label, price) candidates.
//
// The OCR step itself stays external behind the Extractor interface;
// this package only parses the extracted text. Parsed candidates carry
// fresh temporary ids so the review flow can address them.
package receipt

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ihanakangas/jako/internal/models"
)

// itemLine matches an itemized receipt line: a product name that contains
// at least one letter, followed by whitespace and a final price. Receipts
// use a comma as the decimal separator.
var itemLine = regexp.MustCompile(`^(.*[a-zA-Z]+.*?)\s([\d,]+)$`)

// boilerplate matches receipt lines that are not purchases: totals, bonus
// program rows, contact info, phone and transaction numbers.
var boilerplate = regexp.MustCompile(
	`YHTEENSA|PLUSSA|Viite|KERRYTTAVAT|Ruokaostokset|Kayttotavaraostokset|Asiakaspalvelu|P\. \d{3} \d{3} \d{4}|Bonustapahtuma`,
)

// ParseItems extracts the itemized part of a receipt's OCR text,
// keeping only lines with a final price. Lines whose price does not
// parse after comma normalization are skipped.
func ParseItems(text string) []models.ReceiptCandidate {
	var items []models.ReceiptCandidate
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || boilerplate.MatchString(line) {
			continue
		}
		m := itemLine.FindStringSubmatch(line)
		if m == nil {
			continue
		}

		price, err := decimal.NewFromString(strings.ReplaceAll(m[2], ",", "."))
		if err != nil {
			continue
		}
		items = append(items, models.ReceiptCandidate{
			ID:    uuid.New().String(),
			Label: strings.TrimSpace(m[1]),
			Price: price,
		})
	}
	return items
}
