// Package pix builds static PIX "copia e cola" payloads (BR Code, the
// EMV QR format used by the Brazilian instant payment system).
package pix

import (
	"fmt"

	"github.com/shopspring/decimal"
)

const (
	tagPayloadFormat       = "00"
	tagMerchantAccountInfo = "26"
	tagMerchantCategory    = "52"
	tagCurrency            = "53"
	tagAmount              = "54"
	tagCountryCode         = "58"
	tagCRC                 = "63"

	subTagGUI = "00"
	subTagKey = "01"

	pixGUI      = "br.gov.bcb.pix"
	currencyBRL = "986"
)

// Payload builds the copy-and-paste BR Code for a charge of the given
// amount against the restaurant's PIX key.
func Payload(pixKey string, amount decimal.Decimal) string {
	account := emv(subTagGUI, pixGUI) + emv(subTagKey, pixKey)

	payload := emv(tagPayloadFormat, "01") +
		emv(tagMerchantAccountInfo, account) +
		emv(tagMerchantCategory, "0000") +
		emv(tagCurrency, currencyBRL) +
		emv(tagAmount, amount.StringFixed(2)) +
		emv(tagCountryCode, "BR")

	// The CRC field covers everything up to and including its own tag
	// and length.
	payload += tagCRC + "04"
	return payload + fmt.Sprintf("%04X", crc16(payload))
}

// emv encodes one tag-length-value field. Lengths are two decimal
// digits per the EMV QR spec.
func emv(tag, value string) string {
	return fmt.Sprintf("%s%02d%s", tag, len(value), value)
}

// crc16 is CRC-16/CCITT-FALSE (poly 0x1021, init 0xFFFF), as required
// by the BR Code spec for field 63.
func crc16(s string) uint16 {
	crc := uint16(0xFFFF)
	for i := 0; i < len(s); i++ {
		crc ^= uint16(s[i]) << 8
		for bit := 0; bit < 8; bit++ {
			if crc&0x8000 != 0 {
				crc = crc<<1 ^ 0x1021
			} else {
				crc <<= 1
			}
		}
	}
	return crc
}
