package exporter

import (
	"fmt"
	"io"
	"strings"

	"chatter-io/internal/domain"
	"chatter-io/internal/ports"

	"github.com/xuri/excelize/v2"
)

const (
	summarySheet = "Чаты"
	// maxSheetName - ограничение Excel на длину имени листа.
	maxSheetName = 31
)

var summaryHeaders = []interface{}{"Чат", "ID", "Сообщений", "Участников", "Начало", "Конец", "Медиафайлов"}

var messageHeaders = []interface{}{"Время", "Отправитель", "Тип", "Текст", "Длительность звонка", "Файл"}

// ExcelExporter реализует интерфейс Exporter, записывая книгу xlsx:
// лист-сводку и по листу сообщений на каждый чат.
type ExcelExporter struct {
	out io.Writer
}

// NewExcelExporter создает новый экземпляр ExcelExporter.
func NewExcelExporter(out io.Writer) ports.Exporter {
	return &ExcelExporter{out: out}
}

// Export реализует ports.Exporter.
func (e *ExcelExporter) Export(chats []domain.Chat) (err error) {
	f, err := BuildWorkbook(chats)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close workbook: %w", cerr)
		}
	}()

	if err := f.Write(e.out); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// BuildWorkbook формирует книгу в памяти. Вызывающий закрывает файл.
func BuildWorkbook(chats []domain.Chat) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to rename sheet: %w", err)
	}

	if err := f.SetSheetRow(summarySheet, "A1", &summaryHeaders); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to write header: %w", err)
	}

	used := map[string]bool{strings.ToLower(summarySheet): true}
	for i, chat := range chats {
		row := []interface{}{
			chat.Name, chat.ID, chat.MessageCount, len(chat.Participants),
			formatTime(chat.DateRange.Start), formatTime(chat.DateRange.End), chat.MediaFiles.Count(),
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(summarySheet, cell, &row); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to write summary row: %w", err)
		}

		sheet := uniqueSheetName(chat.Name, used)
		if err := writeMessagesSheet(f, sheet, chat.Messages); err != nil {
			f.Close()
			return nil, err
		}
	}

	f.SetActiveSheet(0)
	return f, nil
}

func writeMessagesSheet(f *excelize.File, sheet string, messages []domain.Message) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("failed to create sheet %q: %w", sheet, err)
	}
	if err := f.SetSheetRow(sheet, "A1", &messageHeaders); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i, m := range messages {
		fileName := ""
		if m.MediaFile != nil {
			fileName = m.MediaFile.Name
		}
		row := []interface{}{formatTime(m.Timestamp), m.Sender, string(m.Kind), m.Content, m.CallDuration, fileName}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}
	return nil
}

// uniqueSheetName приводит имя чата к допустимому имени листа
// и добавляет номер при совпадении.
func uniqueSheetName(name string, used map[string]bool) string {
	clean := strings.Map(func(r rune) rune {
		switch r {
		case ':', '\\', '/', '?', '*', '[', ']':
			return '_'
		}
		return r
	}, name)
	clean = strings.Trim(clean, "' ")
	if clean == "" {
		clean = "chat"
	}

	candidate := truncateRunes(clean, maxSheetName)
	for n := 2; used[strings.ToLower(candidate)]; n++ {
		suffix := fmt.Sprintf(" (%d)", n)
		candidate = truncateRunes(clean, maxSheetName-len(suffix)) + suffix
	}
	used[strings.ToLower(candidate)] = true
	return candidate
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
