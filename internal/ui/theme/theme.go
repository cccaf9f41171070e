package theme

import (
	"charm.land/lipgloss/v2"
)

// Palette borrowed from traditional Japanese dye colors.
var (
	Primary   = lipgloss.Color("#7B90D2") // 紅碧 benimidori
	Secondary = lipgloss.Color("#5DAC81") // 若竹 wakatake
	Accent    = lipgloss.Color("#F596AA") // 桃 momo
	Success   = lipgloss.Color("#86C166") // 苗 nae
	Warning   = lipgloss.Color("#E9A368") // 洗柿 araigaki
	Error     = lipgloss.Color("#D0104C") // 韓紅花 karakurenai
	Text      = lipgloss.Color("#FCFAF2") // 白練 shironeri
	TextDim   = lipgloss.Color("#91989F") // 銀鼠 ginnezumi
	BgDark    = lipgloss.Color("#0B1013") // 濡羽 nureba
	BgCard    = lipgloss.Color("#1C1C1C") // 墨 sumi
	Border    = lipgloss.Color("#434343") // 鈍 nibi
)

// Typography
var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary).
		Align(lipgloss.Center)

	Subtitle = lipgloss.NewStyle().
			Foreground(TextDim).
			Align(lipgloss.Center)

	Body = lipgloss.NewStyle().
		Foreground(Text)

	Hint = lipgloss.NewStyle().
		Foreground(TextDim).
		Italic(true)

	Label = lipgloss.NewStyle().
		Foreground(Secondary).
		Bold(true)
)

// Layout
var (
	Card = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Border).
		Padding(1, 2)

	Dialog = lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(Accent).
		Padding(1, 3)
)

// States
var (
	Selected = lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true)

	Unselected = lipgloss.NewStyle().
			Foreground(Text)

	Correct = lipgloss.NewStyle().
		Foreground(Success).
		Bold(true)

	Partial = lipgloss.NewStyle().
		Foreground(Warning).
		Bold(true)

	Incorrect = lipgloss.NewStyle().
			Foreground(Error).
			Bold(true)
)

// Components
var (
	ProgressFilled = lipgloss.NewStyle().
			Background(Secondary)

	ProgressEmpty = lipgloss.NewStyle().
			Background(Border)

	ButtonActive = lipgloss.NewStyle().
			Background(Primary).
			Foreground(BgDark).
			Bold(true).
			Padding(0, 2)

	ButtonInactive = lipgloss.NewStyle().
			Background(BgCard).
			Foreground(TextDim).
			Padding(0, 2)
)
