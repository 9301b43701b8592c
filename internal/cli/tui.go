package cli

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// ImagePickerModel - Interactive image selection
// =============================================================================

// PickerItem is one candidate image.
type PickerItem struct {
	Path string
	// Size is "WxH", or "?" when the header could not be read.
	Size string
}

// ImagePickerModel is the bubbletea model for choosing which images go
// into a sheet. Every image starts selected.
type ImagePickerModel struct {
	Items     []PickerItem
	Chosen    []bool
	Cursor    int
	Offset    int
	Height    int
	Confirmed bool
}

// NewImagePickerModel creates a picker with all items selected.
func NewImagePickerModel(items []PickerItem) ImagePickerModel {
	chosen := make([]bool, len(items))
	for i := range chosen {
		chosen[i] = true
	}
	return ImagePickerModel{
		Items:  items,
		Chosen: chosen,
		Height: 15,
	}
}

func (m ImagePickerModel) Init() tea.Cmd {
	return nil
}

func (m ImagePickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Items)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case " ", "x":
			if len(m.Items) > 0 {
				m.Chosen = toggled(m.Chosen, m.Cursor)
			}
		case "a":
			all := m.Count() < len(m.Items)
			m.Chosen = make([]bool, len(m.Items))
			for i := range m.Chosen {
				m.Chosen[i] = all
			}
		case "enter":
			m.Confirmed = true
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-8, 5)
	}
	return m, nil
}

// toggled returns a copy of c with index i flipped, so earlier model values
// are not mutated.
func toggled(c []bool, i int) []bool {
	out := make([]bool, len(c))
	copy(out, c)
	out[i] = !out[i]
	return out
}

// Count returns the number of selected items.
func (m ImagePickerModel) Count() int {
	n := 0
	for _, c := range m.Chosen {
		if c {
			n++
		}
	}
	return n
}

// Selected returns the chosen paths in list order, or nil if the picker was
// cancelled.
func (m ImagePickerModel) Selected() []string {
	if !m.Confirmed {
		return nil
	}
	var out []string
	for i, it := range m.Items {
		if m.Chosen[i] {
			out = append(out, it.Path)
		}
	}
	return out
}

func (m ImagePickerModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Images"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  space toggle  a all  ⏎ pack  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Items))

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		mark := " "
		if m.Chosen[i] {
			mark = iconSuccess
		}
		it := m.Items[i]
		rows = append(rows, []string{cursor, mark, filepath.Base(it.Path), it.Size})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "", "Image", "Size").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			idx := m.Offset + row
			if idx >= len(m.Items) {
				return lipgloss.NewStyle()
			}
			switch {
			case idx == m.Cursor:
				return listSelectedStyle
			case m.Chosen[idx]:
				return listNormalStyle
			default:
				return listDimStyle
			}
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  %d of %d selected", m.Count(), len(m.Items))))

	return b.String()
}

// =============================================================================
// Helpers
// =============================================================================

// pickImages lets the user choose among paths. It returns nil if the picker
// was cancelled.
func pickImages(paths []string) ([]string, error) {
	items := make([]PickerItem, len(paths))
	for i, p := range paths {
		items[i] = PickerItem{Path: p, Size: imageSize(p)}
	}
	final, err := tea.NewProgram(NewImagePickerModel(items)).Run()
	if err != nil {
		return nil, fmt.Errorf("picker: %w", err)
	}
	return final.(ImagePickerModel).Selected(), nil
}

// imageSize reads only the image header.
func imageSize(path string) string {
	f, err := os.Open(path)
	if err != nil {
		return "?"
	}
	defer f.Close()
	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return "?"
	}
	return fmt.Sprintf("%dx%d", cfg.Width, cfg.Height)
}
