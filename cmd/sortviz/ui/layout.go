package ui

// Layout constants for the bar view
const (
	// Viewport padding
	ViewportHorizontalPadding = 4

	// Panel borders and spacing
	PanelBorderWidth = 1
	PanelPaddingH    = 1
	PanelPaddingV    = 0

	// Fixed rows around the chart
	HeaderHeight   = 2
	FooterHeight   = 2
	StatusHeight   = 1
	LabelRowHeight = 1
	AxisRowHeight  = 1
	MetadataHeight = 6 // 4 lines + border

	// Bars
	BarGap         = 1
	MaxBarWidth    = 4
	MinChartHeight = 4

	// Responsive breakpoints
	MinimumTerminalWidth  = 40
	MinimumTerminalHeight = 16
	CompactModeWidth      = 80
)

// LayoutConfig provides computed layout dimensions based on terminal size
type LayoutConfig struct {
	TerminalWidth  int
	TerminalHeight int
	IsCompact      bool
	ShowMetadata   bool
}

// NewLayoutConfig creates a layout configuration for the given terminal size
func NewLayoutConfig(width, height int, showMetadata bool) LayoutConfig {
	if width < MinimumTerminalWidth {
		width = MinimumTerminalWidth
	}
	if height < MinimumTerminalHeight {
		height = MinimumTerminalHeight
	}
	return LayoutConfig{
		TerminalWidth:  width,
		TerminalHeight: height,
		IsCompact:      width < CompactModeWidth,
		ShowMetadata:   showMetadata,
	}
}

// ContentWidth returns the usable width for the chart
func (l LayoutConfig) ContentWidth() int {
	return l.TerminalWidth - ViewportHorizontalPadding
}

// ChartHeight returns the number of rows the tallest bar may use
func (l LayoutConfig) ChartHeight() int {
	h := l.TerminalHeight - HeaderHeight - FooterHeight - StatusHeight - LabelRowHeight - AxisRowHeight
	if l.ShowMetadata {
		h -= MetadataHeight
	}
	if h < MinChartHeight {
		return MinChartHeight
	}
	return h
}

// BarGeometry returns the column width of each bar and the gap between bars
// so that n bars fit the content width.
func (l LayoutConfig) BarGeometry(n int) (width, gap int) {
	if n <= 0 {
		return 0, 0
	}
	gap = BarGap
	width = (l.ContentWidth()+gap)/n - gap
	if width < 1 {
		return 1, 0
	}
	if width > MaxBarWidth {
		width = MaxBarWidth
	}
	return width, gap
}
