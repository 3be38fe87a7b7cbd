package sheetsim

import (
	"sort"
	"sync"
)

type (
	// MemoryBackend keeps sheets in memory.
	MemoryBackend struct {
		sheets *sheetTable
	}

	sheetData struct {
		header []string
		rows   [][]string
	}

	sheetTable struct {
		sync.RWMutex
		table map[string]*sheetData
	}
)

var _ Backend = (*MemoryBackend)(nil)

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{
		sheets: &sheetTable{table: make(map[string]*sheetData)},
	}
}

func (b *MemoryBackend) Rows(name string) ([]string, [][]string, error) {
	b.sheets.RLock()
	defer b.sheets.RUnlock()

	data, ok := b.sheets.table[name]
	if !ok {
		return nil, nil, ErrSheetNotFound
	}
	rows := make([][]string, len(data.rows))
	for i, row := range data.rows {
		rows[i] = append([]string(nil), row...)
	}
	return append([]string(nil), data.header...), rows, nil
}

func (b *MemoryBackend) Append(name string, row []string) error {
	b.sheets.Lock()
	defer b.sheets.Unlock()

	data, ok := b.sheets.table[name]
	if !ok {
		header, err := headerFor(name)
		if err != nil {
			return err
		}
		data = &sheetData{header: header}
		b.sheets.table[name] = data
	}
	data.rows = append(data.rows, append([]string(nil), row...))
	return nil
}

func (b *MemoryBackend) Create(name string, header []string) error {
	b.sheets.Lock()
	defer b.sheets.Unlock()

	if _, ok := b.sheets.table[name]; ok {
		return ErrSheetExists
	}
	b.sheets.table[name] = &sheetData{header: append([]string(nil), header...)}
	return nil
}

func (b *MemoryBackend) Sheets() ([]string, error) {
	b.sheets.RLock()
	defer b.sheets.RUnlock()

	names := make([]string, 0, len(b.sheets.table))
	for name := range b.sheets.table {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (b *MemoryBackend) Close() error { return nil }
