package tui

import "github.com/charmbracelet/lipgloss"

// Semantic color palette.
var (
	colorPrimary       = lipgloss.Color("#00BFFF") // Cyan: primary accent
	colorAccent        = lipgloss.Color("#FFD700") // Gold: selection
	colorSuccess       = lipgloss.Color("#00E676") // Green: saved
	colorDanger        = lipgloss.Color("#FF5252") // Red: errors
	colorMuted         = lipgloss.Color("#636363") // Gray: de-emphasized
	colorMutedLight    = lipgloss.Color("#8C8C8C") // Lighter gray: normal text
	colorWhite         = lipgloss.Color("#EEEEEE") // Off-white: primary text
	colorBrightWhite   = lipgloss.Color("#FFFFFF") // Pure white: emphatic text
	colorInk           = lipgloss.Color("#1A1A1A") // Near black: text on notes
	colorSurface       = lipgloss.Color("#1E1E2E") // Dark surface: status bar bg
	colorSurfaceBright = lipgloss.Color("#2A2A3C") // Lighter surface: scene card bg
	colorSurfaceDim    = lipgloss.Color("#181825") // Darkest surface: footer bg
	colorBlue          = lipgloss.Color("#5B8DEF") // Blue: pan mode
)

// Selection indicator prepended to the active row.
const selectionIndicator = "▎"

// Status bar styles: visually dominant with solid background.
var (
	styleStatusBar = lipgloss.NewStyle().
			Background(colorSurface).
			Foreground(colorWhite).
			Bold(true).
			Padding(0, 1)

	styleStatusLabel = lipgloss.NewStyle().
				Background(colorSurface).
				Foreground(colorPrimary).
				Bold(true)

	styleStatusValue = lipgloss.NewStyle().
				Background(colorSurface).
				Foreground(colorWhite)

	styleStatusDirty = lipgloss.NewStyle().
				Background(colorSurface).
				Foreground(colorAccent)

	styleStatusSaved = lipgloss.NewStyle().
				Background(colorSurface).
				Foreground(colorSuccess)

	styleStatusPan = lipgloss.NewStyle().
			Background(colorSurface).
			Foreground(colorBlue).
			Bold(true)
)

// File list row styles.
var (
	styleRowSelected = lipgloss.NewStyle().
				Foreground(colorBrightWhite).
				Bold(true)

	styleRowNormal = lipgloss.NewStyle().
			Foreground(colorMutedLight)

	styleRowDim = lipgloss.NewStyle().
			Foreground(colorMuted)

	// styleSelectionIndicator styles the left-edge indicator for the selected row.
	styleSelectionIndicator = lipgloss.NewStyle().
				Foreground(colorPrimary).
				Bold(true)
)

// Message line styles.
var (
	styleMsgInfo = lipgloss.NewStyle().
			Foreground(colorMutedLight)

	styleMsgError = lipgloss.NewStyle().
			Foreground(colorDanger).
			Bold(true)
)

// Prompt style for the single-line input.
var stylePrompt = lipgloss.NewStyle().
	Foreground(colorAccent).
	Bold(true)

// Footer styles: top border, clear key/desc contrast.
var (
	styleFooter = lipgloss.NewStyle().
			Foreground(colorMuted).
			Background(colorSurfaceDim).
			Border(lipgloss.NormalBorder(), true, false, false, false).
			BorderForeground(colorMuted)

	styleFooterKey = lipgloss.NewStyle().
			Foreground(colorPrimary).
			Bold(true)

	styleFooterSep = lipgloss.NewStyle().
			Foreground(colorMuted)

	styleFooterDesc = lipgloss.NewStyle().
			Foreground(colorMutedLight)
)

// Canvas cell colors. Notes paint with their own color.
var (
	cellFrame    = cellStyle{fg: colorMutedLight}
	cellSelected = cellStyle{fg: colorAccent, bold: true}
	cellText     = cellStyle{fg: colorWhite}
	cellTitle    = cellStyle{fg: colorPrimary, bold: true}
	cellScene    = cellStyle{fg: colorWhite, bg: colorSurfaceBright}
	cellImage    = cellStyle{fg: colorMuted}
)
