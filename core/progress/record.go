// Package progress reconciles master lists of tasks and courses with the append-only
// progress log of a user.
package progress

import (
	"strconv"
	"strings"
	"time"

	"github.com/trezcool/huda/core"
	"github.com/trezcool/huda/core/sheet"
)

// StatusComplete is the only status ever written to a progress log.
const StatusComplete = "complete"

// Record is one completion event of a progress log.
type Record struct {
	ItemID         string `json:"item_id"`
	ItemType       string `json:"item_type"`
	Status         string `json:"status"`
	CompletionDate string `json:"completion_date"`
	Grade          string `json:"grade"`
}

func (r Record) IsComplete() bool {
	return r.Status == StatusComplete
}

// Points parses the leading integer of the grade, 0 when there is none.
func (r Record) Points() int {
	return leadingInt(r.Grade)
}

func RecordFromRow(r sheet.Row) Record {
	return Record{
		ItemID:         r.Get("item_id"),
		ItemType:       r.Get("item_type"),
		Status:         r.Get("status"),
		CompletionDate: r.Get("completion_date"),
		Grade:          r.Get("grade"),
	}
}

func RecordsFromRows(rows []sheet.Row) []Record {
	records := make([]Record, 0, len(rows))
	for _, r := range rows {
		records = append(records, RecordFromRow(r))
	}
	return records
}

// CompletionRow lays out a completion event in progress log column order.
func CompletionRow(itemID, itemType string, on time.Time, grade int) []string {
	return []string{itemID, itemType, StatusComplete, core.FormatDate(on), strconv.Itoa(grade)}
}

// leadingInt reads an optionally signed run of leading digits ("40pts" -> 40, "7.5" -> 7, "abc" -> 0).
func leadingInt(s string) int {
	s = strings.TrimSpace(s)
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	start := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == start {
		return 0
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil { // overflow
		return 0
	}
	return n
}
