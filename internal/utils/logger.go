package utils

import (
	"io"
	"log"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
	log1 "github.com/charmbracelet/log"
)

var (
	Info  = log.New(os.Stdout, "[INFO] ", log.LstdFlags|log.Lshortfile)
	Error = log.New(os.Stderr, "[ERROR] ", log.LstdFlags|log.Lshortfile)
)

// Print 带样式的日志；Init 之前也可用
var Print = log1.New(os.Stderr)

// Init 按配置的级别（debug/info/warn/error）初始化 Print
func Init(level string) {
	InitWriter(os.Stderr, level)
}

func InitWriter(w io.Writer, level string) {
	lvl, err := log1.ParseLevel(level)
	if err != nil {
		lvl = log1.InfoLevel
	}
	Print = log1.NewWithOptions(w, log1.Options{
		ReportTimestamp: true,
		TimeFormat:      time.DateTime,
		Level:           lvl,
		Prefix:          "🀄",
	})
	styles := log1.DefaultStyles()
	styles.Levels[log1.DebugLevel] = lipgloss.NewStyle().
		SetString("DEBUG🔍").
		Padding(0, 1, 0, 1).
		Foreground(lipgloss.Color("#808080FF"))

	styles.Levels[log1.InfoLevel] = lipgloss.NewStyle().
		SetString("INFOF🌟").
		Padding(0, 1, 0, 1).
		Background(lipgloss.Color("#90EE9080")).
		Foreground(lipgloss.Color("#006400FF")).Bold(true)

	styles.Levels[log1.WarnLevel] = lipgloss.NewStyle().
		SetString("WARN🃏").
		Padding(0, 1, 0, 1).
		Background(lipgloss.Color("#FFD700FF")).
		Foreground(lipgloss.Color("#000000FF")).Bold(true)

	styles.Levels[log1.ErrorLevel] = lipgloss.NewStyle().
		SetString("ERROR🔥").
		Padding(0, 1, 0, 1).
		Background(lipgloss.Color("#FF0000FF")).
		Foreground(lipgloss.Color("#00FFFF00")).Bold(true)

	styles.Levels[log1.FatalLevel] = lipgloss.NewStyle().
		SetString("FATAL⚡️").
		Padding(0, 1, 0, 1).
		Background(lipgloss.Color("#000000FF")).
		Foreground(lipgloss.Color("#00FFFF00")).Bold(true)
	Print.SetStyles(styles)
}
