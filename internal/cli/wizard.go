package cli

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/sitemenu/internal/cli/formatter"
	"github.com/alexanderramin/sitemenu/internal/domain"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// formTheme maps the formatter palette onto huh: the focused field uses the
// header accent, blurred fields and help text are dimmed, validation errors
// are red.
func formTheme() *huh.Theme {
	fg := func(c lipgloss.TerminalColor) lipgloss.Style { return lipgloss.NewStyle().Foreground(c) }

	t := huh.ThemeBase()

	f := &t.Focused
	f.Title = fg(formatter.ColorHeader).Bold(true)
	f.Description = fg(formatter.ColorDim)
	f.ErrorIndicator = fg(formatter.ColorRed)
	f.ErrorMessage = fg(formatter.ColorRed)
	f.SelectSelector = fg(formatter.ColorHeader)
	f.SelectedOption = fg(formatter.ColorGreen)
	f.UnselectedOption = fg(formatter.ColorFg)
	f.FocusedButton = fg(formatter.ColorFg).Background(formatter.ColorHeader).Padding(0, 1)
	f.BlurredButton = fg(formatter.ColorDim).Padding(0, 1)
	f.TextInput.Cursor = fg(formatter.ColorHeader)
	f.TextInput.Prompt = fg(formatter.ColorHeader)
	f.TextInput.Text = fg(formatter.ColorFg)
	f.TextInput.Placeholder = fg(formatter.ColorDim)

	b := &t.Blurred
	for _, s := range []*lipgloss.Style{
		&b.Title, &b.SelectSelector, &b.SelectedOption, &b.UnselectedOption,
		&b.TextInput.Prompt, &b.TextInput.Text,
	} {
		*s = fg(formatter.ColorDim)
	}

	return t
}

// validateRequired rejects blank input.
func validateRequired(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", field)
		}
		return nil
	}
}

// validateHeader bounds the markdown header length.
func validateHeader(s string) error {
	if len(s) > domain.MaxHeaderLen {
		return fmt.Errorf("header exceeds %d characters", domain.MaxHeaderLen)
	}
	return nil
}

// confirmRemoval asks before a menu subtree is deleted.
func confirmRemoval(node *domain.MenuNode, result *bool) *huh.Form {
	desc := "The item has no children."
	if n := node.Width()/2 - 1; n > 0 {
		desc = fmt.Sprintf("%d item(s) below it are removed too.", n)
	}
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Remove %q?", node.Name)).
				Description(desc).
				Affirmative("Remove").
				Negative("Keep").
				Value(result),
		),
	).WithTheme(formTheme()).WithShowHelp(false)
}
