package files

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/gratefultolord/mc_forms_bot/internal/db"
)

const DefaultExportName = "forms_export.csv"

var ErrNoForms = errors.New("no forms to export")

// utf8BOM makes Excel detect the encoding.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

var exportHeader = []string{
	"ID", "User ID", "Имя", "TG Username", "MC Ник",
	"Как обращаться", "Возраст", "Дополнительно",
}

type FormLister interface {
	GetAll(ctx context.Context) ([]db.Form, error)
}

type ExportService struct {
	forms     FormLister
	exportDir string
}

func NewExportService(forms FormLister, exportDir string) (*ExportService, error) {
	if err := os.MkdirAll(exportDir, 0755); err != nil {
		return nil, fmt.Errorf("ExportService: cannot create dir %s: %w", exportDir, err)
	}

	return &ExportService{
		forms:     forms,
		exportDir: exportDir,
	}, nil
}

// Export writes every form into exportDir/name and returns the file path.
// No file is created when there are no forms.
func (s *ExportService) Export(ctx context.Context, name string) (string, error) {
	forms, err := s.forms.GetAll(ctx)
	if err != nil {
		return "", fmt.Errorf("ExportService.Export: %w", err)
	}

	if len(forms) == 0 {
		return "", ErrNoForms
	}

	if name == "" {
		name = DefaultExportName
	}

	filePath := filepath.Join(s.exportDir, filepath.Base(name))

	out, err := os.Create(filePath)
	if err != nil {
		return "", fmt.Errorf("ExportService.Export: cannot create file: %w", err)
	}

	defer out.Close()

	if err := WriteCSV(out, forms); err != nil {
		return "", fmt.Errorf("ExportService.Export: %w", err)
	}

	return filePath, nil
}

// WriteCSV writes forms as semicolon separated UTF-8 with BOM.
func WriteCSV(w io.Writer, forms []db.Form) error {
	if _, err := w.Write(utf8BOM); err != nil {
		return err
	}

	writer := csv.NewWriter(w)
	writer.Comma = ';'

	if err := writer.Write(exportHeader); err != nil {
		return err
	}

	for _, f := range forms {
		record := []string{
			strconv.FormatInt(f.ID, 10),
			strconv.FormatInt(f.UserID, 10),
			f.Name,
			f.TGUsername,
			f.MCNick,
			f.CallAs,
			f.Age,
			f.Extra,
		}

		if err := writer.Write(record); err != nil {
			return err
		}
	}

	writer.Flush()

	return writer.Error()
}
