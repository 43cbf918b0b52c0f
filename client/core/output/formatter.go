// Package output 提供命令行输出格式化
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"github.com/pterm/pterm"
)

// Format 输出格式
type Format string

const (
	FormatJSON   Format = "json"   // JSON（默认）
	FormatPretty Format = "pretty" // 缩进 JSON
	FormatTable  Format = "table"  // 表格
	FormatText   Format = "text"   // 纯文本
)

// ParseFormat 解析格式名，未知名称返回错误
func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case FormatJSON, FormatPretty, FormatTable, FormatText:
		return f, nil
	case "":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unknown output format %q (json|pretty|table|text)", s)
	}
}

// Tabular 可以自行渲染为表格的数据，首行为表头
type Tabular interface {
	TableData() [][]string
}

// Formatter 输出格式化器
// 数据写入 writer，提示信息写入 logWriter（默认 stderr），避免污染 JSON 输出
type Formatter struct {
	format    Format
	writer    io.Writer
	logWriter io.Writer
	silent    bool
}

// NewFormatter 创建格式化器
func NewFormatter(format Format, writer io.Writer) *Formatter {
	if writer == nil {
		writer = os.Stdout
	}
	return &Formatter{format: format, writer: writer, logWriter: os.Stderr}
}

// SetLogWriter 设置提示信息输出目标
func (f *Formatter) SetLogWriter(writer io.Writer) {
	if writer == nil {
		writer = os.Stderr
	}
	f.logWriter = writer
}

// SetSilent 静默模式下只输出数据
func (f *Formatter) SetSilent(silent bool) {
	f.silent = silent
}

// Format 当前格式
func (f *Formatter) Format() Format {
	return f.format
}

// Print 按当前格式输出数据
func (f *Formatter) Print(data interface{}) error {
	switch f.format {
	case FormatPretty:
		return f.printJSON(data, true)
	case FormatTable:
		return f.printTable(data)
	case FormatText:
		return f.printText(data)
	default:
		return f.printJSON(data, false)
	}
}

func (f *Formatter) printJSON(data interface{}, pretty bool) error {
	var out []byte
	var err error
	if pretty {
		out, err = json.MarshalIndent(data, "", "  ")
	} else {
		out, err = json.Marshal(data)
	}
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}
	if _, err := fmt.Fprintln(f.writer, string(out)); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}

func (f *Formatter) printTable(data interface{}) error {
	var rows [][]string
	switch v := data.(type) {
	case Tabular:
		rows = v.TableData()
	case map[string]interface{}:
		rows = mapRows(v)
	case map[string]string:
		m := make(map[string]interface{}, len(v))
		for k, val := range v {
			m[k] = val
		}
		rows = mapRows(m)
	default:
		// 无法表格化的数据降级为缩进 JSON
		return f.printJSON(data, true)
	}
	if len(rows) == 0 {
		return nil
	}
	return pterm.DefaultTable.
		WithHasHeader().
		WithHeaderRowSeparator("-").
		WithWriter(f.writer).
		WithData(rows).
		Render()
}

// printText Tabular 数据按制表符分隔输出，便于 shell 管道处理
func (f *Formatter) printText(data interface{}) error {
	if t, ok := data.(Tabular); ok {
		rows := t.TableData()
		for i, row := range rows {
			if i == 0 {
				continue
			}
			line := ""
			for j, cell := range row {
				if j > 0 {
					line += "\t"
				}
				line += cell
			}
			if _, err := fmt.Fprintln(f.writer, line); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
		}
		return nil
	}
	if s, ok := data.(fmt.Stringer); ok {
		_, err := fmt.Fprintln(f.writer, s.String())
		return err
	}
	if _, err := fmt.Fprintf(f.writer, "%v\n", data); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}

// PrintSuccess 成功提示
func (f *Formatter) PrintSuccess(message string) {
	if f.silent {
		return
	}
	pterm.Success.WithWriter(f.logWriter).Println(message)
}

// PrintError 错误提示，静默模式下也输出
func (f *Formatter) PrintError(err error) {
	pterm.Error.WithWriter(f.logWriter).Println(err.Error())
}

// PrintWarning 警告提示
func (f *Formatter) PrintWarning(message string) {
	if f.silent {
		return
	}
	pterm.Warning.WithWriter(f.logWriter).Println(message)
}

// PrintInfo 信息提示
func (f *Formatter) PrintInfo(message string) {
	if f.silent {
		return
	}
	pterm.Info.WithWriter(f.logWriter).Println(message)
}

// mapRows 键排序后的两列表格
func mapRows(data map[string]interface{}) [][]string {
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	rows := [][]string{{"Key", "Value"}}
	for _, k := range keys {
		rows = append(rows, []string{k, FormatValue(data[k])})
	}
	return rows
}

// FormatValue 单元格文本
func FormatValue(value interface{}) string {
	switch v := value.(type) {
	case string:
		return v
	case int, int64, uint, uint64:
		return fmt.Sprintf("%d", v)
	case float32, float64:
		return fmt.Sprintf("%.2f", v)
	case bool:
		if v {
			return "true"
		}
		return "false"
	case time.Time:
		return v.Format(time.RFC3339)
	case nil:
		return "-"
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(data)
	}
}
