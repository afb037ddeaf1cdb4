// Package zoneview is the terminal client for the trading zones API.
//
// Model is the Bubble Tea entry point. It owns a Table, which composes
// the row store, sorting, filtering, selection, cell editing and the
// creation draft into one interactive view.
package zoneview

import (
	"fmt"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tradezones/zonedesk/internal/observability"
	"github.com/tradezones/zonedesk/internal/zoneapi"
)

// ModelParams configures NewModel.
type ModelParams struct {
	Store  zoneapi.Store
	Config *ConfigManager
	Logger *observability.CoreLogger
}

// Model is the top-level tea.Model.
type Model struct {
	table  *Table
	logger *observability.CoreLogger
}

var _ tea.Model = (*Model)(nil)

func NewModel(params ModelParams) *Model {
	logger := params.Logger
	if logger == nil {
		logger = observability.NewNoOpLogger()
	}
	return &Model{
		table:  NewTable(params.Store, params.Config, logger),
		logger: logger,
	}
}

func (m *Model) Init() tea.Cmd {
	return m.table.Init()
}

// Update forwards msg to the table. A panic is reported and the message
// dropped; the program keeps running with the model unchanged.
func (m *Model) Update(msg tea.Msg) (next tea.Model, cmd tea.Cmd) {
	next = m
	defer func() {
		if r := recover(); r != nil {
			m.logger.CaptureError(fmt.Errorf("zoneview: panic in Update: %v\n%s", r, debug.Stack()))
			next, cmd = m, nil
		}
	}()
	cmd = m.table.Update(msg)
	return next, cmd
}

func (m *Model) View() string {
	if m.table.width <= 0 || m.table.height <= 0 {
		return "Loading..."
	}
	return m.table.View()
}

// Table returns the zones table.
func (m *Model) Table() *Table { return m.table }
