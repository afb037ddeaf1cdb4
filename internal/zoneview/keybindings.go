package zoneview

import (
	tea "github.com/charmbracelet/bubbletea"
)

// KeyBinding defines a key binding for a particular target type.
//
// If Handler is nil, the binding is shown in the help screen but is not
// dispatched through the key map (keys handled by a child component such
// as the edit session or the creation draft).
type KeyBinding[T any] struct {
	Keys        []string
	Description string
	Handler     func(*T, tea.KeyMsg) tea.Cmd
}

// BindingCategory groups related key bindings (primarily for help display).
type BindingCategory[T any] struct {
	Name     string
	Bindings []KeyBinding[T]
}

// TableKeyBindings returns the key bindings of the zones table.
func TableKeyBindings() []BindingCategory[Table] {
	return []BindingCategory[Table]{
		{
			Name: "General",
			Bindings: []KeyBinding[Table]{
				{
					Keys:        []string{"h", "?"},
					Description: "Toggle this help screen",
					Handler:     (*Table).handleToggleHelp,
				},
				{
					Keys:        []string{"q", "ctrl+c"},
					Description: "Quit",
					Handler:     (*Table).handleQuit,
				},
				{
					Keys:        []string{"r"},
					Description: "Reload zones",
					Handler:     (*Table).handleReload,
				},
			},
		},
		{
			Name: "Zones",
			Bindings: []KeyBinding[Table]{
				{
					Keys:        []string{"t"},
					Description: "Create a zone",
					Handler:     (*Table).handleOpenDraft,
				},
				{
					Keys:        []string{"e", "enter"},
					Description: "Edit entry, stoploss or target under the cursor",
					Handler:     (*Table).handleBeginEdit,
				},
				{
					Keys:        []string{"space"},
					Description: "Select/deselect zone (toggles a pill in the filter pane)",
					Handler:     (*Table).handleSpace,
				},
				{
					Keys:        []string{"a"},
					Description: "Select all / none",
					Handler:     (*Table).handleToggleAll,
				},
				{
					Keys:        []string{"D", "delete"},
					Description: "Delete selected zones",
					Handler:     (*Table).handleDeleteSelected,
				},
				{
					Keys:        []string{"y"},
					Description: "Export visible zones to the activity log",
					Handler:     (*Table).handleExport,
				},
			},
		},
		{
			Name: "Sorting",
			Bindings: []KeyBinding[Table]{
				{
					Keys:        []string{"s"},
					Description: "Sort by the column under the cursor (again to reverse)",
					Handler:     (*Table).handleSortCursorColumn,
				},
				{
					Keys:        []string{"1", "2", "3", "4", "5", "6", "7", "8"},
					Description: "Sort by column N",
					Handler:     (*Table).handleSortNumberedColumn,
				},
			},
		},
		{
			Name: "Filters",
			Bindings: []KeyBinding[Table]{
				{
					Keys:        []string{"/", "ctrl+f"},
					Description: "Search symbols",
					Handler:     (*Table).handleEnterSymbolFilter,
				},
				{
					Keys:        []string{"alt+1", "alt+2", "alt+3", "alt+4", "alt+5"},
					Description: "Toggle status filter: active, entry hit, target hit, stoploss hit, failed",
					Handler:     (*Table).handleTogglePillKey,
				},
				{
					Keys:        []string{"alt+6", "alt+7"},
					Description: "Toggle type filter: long, short",
					Handler:     (*Table).handleTogglePillKey,
				},
				{
					Keys:        []string{"ctrl+l"},
					Description: "Clear all filters",
					Handler:     (*Table).handleClearFilters,
				},
			},
		},
		{
			Name: "Panels",
			Bindings: []KeyBinding[Table]{
				{
					Keys:        []string{"f"},
					Description: "Toggle filter pane",
					Handler:     (*Table).handleToggleFilterPane,
				},
				{
					Keys:        []string{"l"},
					Description: "Toggle activity log",
					Handler:     (*Table).handleToggleActivityPane,
				},
				{
					Keys:        []string{"tab", "shift+tab"},
					Description: "Cycle focus between table, filters and activity log",
					Handler:     (*Table).handleFocusCycle,
				},
			},
		},
		{
			Name: "Navigation",
			Bindings: []KeyBinding[Table]{
				{
					Keys:        []string{"up", "down", "k", "j"},
					Description: "Move between rows (or log entries)",
					Handler:     (*Table).handleVerticalNav,
				},
				{
					Keys:        []string{"left", "right"},
					Description: "Move between columns (or filter pills)",
					Handler:     (*Table).handleHorizontalNav,
				},
				{
					Keys:        []string{"pgup", "pgdown"},
					Description: "Page up/down",
					Handler:     (*Table).handlePageNav,
				},
				{
					Keys:        []string{"home", "end"},
					Description: "Jump to first/last row",
					Handler:     (*Table).handleHomeEnd,
				},
			},
		},
		{
			Name: "Editing a cell",
			Bindings: []KeyBinding[Table]{
				{
					Keys:        []string{"enter"},
					Description: "Save the new value",
				},
				{
					Keys:        []string{"tab", "up", "down"},
					Description: "Save and move on",
				},
				{
					Keys:        []string{"esc"},
					Description: "Discard the change",
				},
			},
		},
		{
			Name: "New zone",
			Bindings: []KeyBinding[Table]{
				{
					Keys:        []string{"up", "down"},
					Description: "Move through symbol suggestions",
				},
				{
					Keys:        []string{"enter", "tab"},
					Description: "Pick suggestion / next field",
				},
				{
					Keys:        []string{"ctrl+s", "alt+enter"},
					Description: "Create the zone",
				},
				{
					Keys:        []string{"esc"},
					Description: "Close suggestions, then discard the draft",
				},
			},
		},

		mouseCategory[Table](),
	}
}

// buildKeyMap builds a fast lookup map from key string to handler.
func buildKeyMap[T any](categories []BindingCategory[T]) map[string]func(*T, tea.KeyMsg) tea.Cmd {
	keyMap := make(map[string]func(*T, tea.KeyMsg) tea.Cmd)
	for _, category := range categories {
		for _, binding := range category.Bindings {
			if binding.Handler == nil {
				continue
			}
			for _, key := range binding.Keys {
				keyMap[normalizeKey(key)] = binding.Handler
			}
		}
	}
	return keyMap
}

// normalizeKey normalizes Bubble Tea's KeyMsg.String() into a stable key
// used by our maps.
//
// Bubble Tea has historically reported space as " " in some situations;
// we want a help-friendly, explicit key name.
func normalizeKey(key string) string {
	if key == " " {
		return "space"
	}
	return key
}

func mouseCategory[T any]() BindingCategory[T] {
	return BindingCategory[T]{
		Name: "Mouse",
		Bindings: []KeyBinding[T]{
			{
				Keys:        []string{"click header"},
				Description: "Sort by column (again to reverse)",
			},
			{
				Keys:        []string{"click price"},
				Description: "Edit entry, stoploss or target",
			},
			{
				Keys:        []string{"click checkbox"},
				Description: "Select/deselect zone",
			},
			{
				Keys:        []string{"wheel"},
				Description: "Scroll rows",
			},
		},
	}
}
