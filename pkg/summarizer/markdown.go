package summarizer

import (
	"fmt"
	"strings"
)

// Translator translates a message key.
type Translator func(key string) string

// MarkdownFormatter renders a Summary as a Markdown document.
type MarkdownFormatter struct {
	translate Translator
	version   string
}

// MarkdownOption configures a MarkdownFormatter.
type MarkdownOption func(*MarkdownFormatter)

// WithTranslator sets the function used to translate headings and labels.
func WithTranslator(t Translator) MarkdownOption {
	return func(f *MarkdownFormatter) {
		f.translate = t
	}
}

// WithVersion sets the version shown in the footer.
func WithVersion(v string) MarkdownOption {
	return func(f *MarkdownFormatter) {
		f.version = v
	}
}

// NewMarkdownFormatter creates a MarkdownFormatter. Without a translator,
// keys are printed as they are.
func NewMarkdownFormatter(opts ...MarkdownOption) *MarkdownFormatter {
	f := &MarkdownFormatter{
		translate: func(key string) string { return key },
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Format implements Formatter.
func (f *MarkdownFormatter) Format(s *Summary) string {
	t := f.translate
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", t("Encoding Summary"))
	fmt.Fprintf(&b, "%s: %s\n\n", t("Generated"), s.GeneratedAt.Format("2006-01-02 15:04:05 MST"))

	// Source
	fmt.Fprintf(&b, "## %s\n\n", t("Source"))
	f.tableHeader(&b)
	if s.Source.Kind != "" {
		f.row(&b, "Source Type", t(s.Source.Kind))
	}
	if s.Source.Path != "" {
		f.row(&b, "Source Path", s.Source.Path)
	}
	f.row(&b, "Source Frames", fmt.Sprintf("%d", s.Source.Frames))
	f.row(&b, "Source Span", fmt.Sprintf("%d ms", s.Source.SpanMs))
	b.WriteString("\n")

	// Settings
	fmt.Fprintf(&b, "## %s\n\n", t("Settings"))
	f.tableHeader(&b)
	if s.Settings.Quality != "" {
		f.row(&b, "Quality", s.Settings.Quality)
	}
	f.row(&b, "Frame Rate", fmt.Sprintf("%d fps", s.Settings.FPS))
	f.row(&b, "Keep Aspect", f.yesNo(s.Settings.KeepAspect))
	f.row(&b, "Outro Duration", fmt.Sprintf("%d ms", s.Settings.OutroMs))
	if s.Settings.Workers > 0 {
		f.row(&b, "Workers", fmt.Sprintf("%d", s.Settings.Workers))
	}
	b.WriteString("\n")

	// Video
	fmt.Fprintf(&b, "## %s\n\n", t("Video Details"))
	f.tableHeader(&b)
	if s.Video.Path != "" {
		f.row(&b, "Output", s.Video.Path)
	}
	f.row(&b, "Frame Size", fmt.Sprintf("%dx%d", s.Video.Width, s.Video.Height))
	f.row(&b, "Frame Count", fmt.Sprintf("%d", s.Video.FrameCount))
	f.row(&b, "Unique Frames", fmt.Sprintf("%d", s.Video.UniqueFrames))
	f.row(&b, "Video Duration", fmt.Sprintf("%d ms", s.Video.DurationMs))
	f.row(&b, "Video File Size", formatBytes(s.Video.FileSize))
	f.row(&b, "Frame Data", formatBytes(s.Video.MoviBytes))
	f.row(&b, "Largest Frame", formatBytes(int64(s.Video.LargestFrame)))
	if s.Video.FrameCount > 0 {
		f.row(&b, "Average Frame", formatBytes(s.Video.MoviBytes/int64(s.Video.FrameCount)))
	}
	f.row(&b, "Verified", f.yesNo(s.Video.Verified))
	b.WriteString("\n")

	b.WriteString("---\n\n")
	if f.version != "" {
		fmt.Fprintf(&b, "%s mjpegw %s\n", t("Generated by"), f.version)
	} else {
		fmt.Fprintf(&b, "%s mjpegw\n", t("Generated by"))
	}

	return b.String()
}

func (f *MarkdownFormatter) tableHeader(b *strings.Builder) {
	fmt.Fprintf(b, "| %s | %s |\n", f.translate("Item"), f.translate("Value"))
	b.WriteString("|---|---|\n")
}

func (f *MarkdownFormatter) row(b *strings.Builder, label, value string) {
	fmt.Fprintf(b, "| %s | %s |\n", f.translate(label), value)
}

func (f *MarkdownFormatter) yesNo(v bool) string {
	if v {
		return f.translate("Yes")
	}
	return f.translate("No")
}

// formatBytes formats a byte count with binary units.
func formatBytes(n int64) string {
	const unit = 1024
	switch {
	case n < unit:
		return fmt.Sprintf("%d B", n)
	case n < unit*unit:
		return fmt.Sprintf("%.2f KB", float64(n)/unit)
	case n < unit*unit*unit:
		return fmt.Sprintf("%.2f MB", float64(n)/(unit*unit))
	default:
		return fmt.Sprintf("%.2f GB", float64(n)/(unit*unit*unit))
	}
}
