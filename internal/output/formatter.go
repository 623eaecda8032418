package output

import (
	"fmt"
	"os"
	"sort"
	"time"
)

// Formatter renders a report into bytes.
type Formatter interface {
	Name() string
	Format(r *Report) ([]byte, error)
}

// FormatterFunc adapts a function to the Formatter interface.
type FormatterFunc struct {
	ID string
	F  func(r *Report) ([]byte, error)
}

func (f FormatterFunc) Name() string                     { return f.ID }
func (f FormatterFunc) Format(r *Report) ([]byte, error) { return f.F(r) }

var formatters = map[string]func() Formatter{
	"console": func() Formatter { return ConsoleFormatter{} },
	"plain":   func() Formatter { return ConsoleFormatter{Plain: true} },
	"csv":     func() Formatter { return CSVFormatter{} },
	"json":    func() Formatter { return JSONFormatter{Pretty: true} },
	"html":    func() Formatter { return HTMLFormatter{} },
}

// GetFormatterByName returns the formatter registered under name.
func GetFormatterByName(name string) (Formatter, bool) {
	mk, ok := formatters[name]
	if !ok {
		return nil, false
	}
	return mk(), true
}

// FormatterNames lists the registered formatter names.
func FormatterNames() []string {
	names := make([]string, 0, len(formatters))
	for n := range formatters {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// WriteFormatted renders r and writes it to premium_report_<timestamp>.<ext>
// in the working directory. It returns the file name.
func WriteFormatted(f Formatter, r *Report, ext string) (string, error) {
	data, err := f.Format(r)
	if err != nil {
		return "", err
	}
	filename := fmt.Sprintf("premium_report_%s.%s", time.Now().Format("20060102_150405"), ext)
	if err := os.WriteFile(filename, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write report: %w", err)
	}
	return filename, nil
}
