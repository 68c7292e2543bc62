package utils

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Alphanumeric alphabet for compact tag codes, densest set that survives
// laser-etched labels and cheap scanners.
const tagAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// Epoch for inspection labels (Jan 1, 2025)
var inspectionEpoch = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

// ==========================================
// EQUIPMENT TAG ('e')
// Format: e [SplitChar] [EquipmentID...] [TypeCode...]
// SplitChar: base36 digit giving the length of the TypeCode suffix.
// ==========================================

// EquipmentTag is the decoded form of an equipment label code.
type EquipmentTag struct {
	EquipmentID string // the markup document's entity ID
	TypeCode    string // short equipment type code (DB, SO, LUM, ...)
}

// GenerateEquipmentTag builds the compact code printed under the QR on an
// equipment label. The ID and type code pass through verbatim: entity IDs
// are lowercase uuids and the decoded tag must match them exactly. QR codes
// carry mixed case fine.
func GenerateEquipmentTag(equipmentID, typeCode string) string {
	suffixLen := len(typeCode)
	if suffixLen > 35 {
		suffixLen = 35
		typeCode = typeCode[:35]
	}
	return fmt.Sprintf("e%s%s%s", encodeBase36(suffixLen, 1), equipmentID, typeCode)
}

// DecodeEquipmentTag parses a scanned equipment label code.
func DecodeEquipmentTag(code string) (*EquipmentTag, error) {
	if len(code) < 3 || !strings.HasPrefix(code, "e") {
		return nil, errors.New("invalid equipment tag")
	}
	code = code[1:]

	// Only the split char is case-folded; scanners sometimes lowercase it.
	suffixLen := decodeBase36(strings.ToUpper(code[:1]))
	data := code[1:]
	if len(data) < suffixLen {
		return nil, errors.New("tag too short for specified split length")
	}

	splitIdx := len(data) - suffixLen
	return &EquipmentTag{
		EquipmentID: data[:splitIdx],
		TypeCode:    data[splitIdx:],
	}, nil
}

// ==========================================
// INSPECTION LABEL ('n')
// Format: n DDD R PPPPPPPPPPPPPP
// DDD: days since 2025-01-01, R: result char, P: payload (14 chars)
// ==========================================

// InspectionLabel is a dated test/inspection sticker code.
type InspectionLabel struct {
	Date    time.Time
	Result  string // P=pass, F=fail, R=retest
	Payload string
}

// GenerateInspectionLabel builds a dated inspection sticker code.
func GenerateInspectionLabel(data InspectionLabel) (string, error) {
	if data.Date.Before(inspectionEpoch) {
		return "", errors.New("date before label epoch")
	}
	days := int(data.Date.Sub(inspectionEpoch).Hours() / 24)
	if days > 46655 { // 36^3 - 1
		return "", errors.New("date too far in the future")
	}
	if data.Result == "" {
		return "", errors.New("result char required")
	}

	return fmt.Sprintf("n%s%s%s",
		encodeBase36(days, 3),
		strings.ToUpper(data.Result[:1]),
		padRight(strings.ToUpper(data.Payload), 14, "0"),
	), nil
}

// DecodeInspectionLabel parses a scanned inspection sticker code.
func DecodeInspectionLabel(code string) (*InspectionLabel, error) {
	if len(code) != 19 || !strings.HasPrefix(code, "n") {
		return nil, errors.New("invalid inspection label")
	}
	code = strings.ToUpper(code)

	days := decodeBase36(code[1:4])
	return &InspectionLabel{
		Date:    inspectionEpoch.AddDate(0, 0, days),
		Result:  string(code[4]),
		Payload: code[5:],
	}, nil
}

// ==========================================
// HELPERS
// ==========================================

func decodeBase36(chunk string) int {
	val := 0
	for _, char := range chunk {
		idx := strings.IndexRune(tagAlphabet, char)
		if idx == -1 {
			return 0
		}
		val = val*len(tagAlphabet) + idx
	}
	return val
}

func encodeBase36(num, width int) string {
	base := len(tagAlphabet)
	res := ""
	for i := 0; i < width; i++ {
		rem := num % base
		res = string(tagAlphabet[rem]) + res
		num = num / base
	}
	return res
}

func padRight(s string, l int, pad string) string {
	if len(s) >= l {
		return s[:l]
	}
	return s + strings.Repeat(pad, l-len(s))
}
