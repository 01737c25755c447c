package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"games-launcher/config"
	"games-launcher/fetcher"
	"games-launcher/launcher"
	"games-launcher/library"
	"games-launcher/logger"
	"games-launcher/ui"
)

// guiCmd represents the gui command
var guiCmd = &cobra.Command{
	Use:   "gui",
	Short: "Launch the interactive library view",
	Long: `Launch an interactive TUI to browse the library, read per-game news,
launch games and apply updates.`,
	Run: func(_ *cobra.Command, _ []string) {
		runGUI()
	},
}

func init() {
	rootCmd.AddCommand(guiCmd)
}

// Model represents the state of the TUI. All of it lives on the single
// bubbletea goroutine; background work reports back through typed
// messages, never by touching the model directly.
type Model struct {
	cfg    config.Config
	store  *library.Store
	client *fetcher.Client

	records       []library.GameRecord
	selectedIndex int
	busy          map[string]bool   // per-record operation in flight
	statuses      map[string]string // last outcome label per record

	news        string
	newsID      string // record id the news pane belongs to
	newsLoading bool

	adding   bool
	addInput textinput.Model

	spin    spinner.Model
	message string
	width   int
	height  int
}

// Message types
type newsLoadedMsg struct {
	id   string
	text string
}

type newsUnavailableMsg struct {
	id string
}

type updateDoneMsg struct {
	id    string
	files int
	err   error
}

type launchDoneMsg struct {
	id  string
	pid int
	err error
}

type gameAddedMsg struct {
	records []library.GameRecord
	id      string
	err     error
}

type editorOpenedMsg struct {
	err error
}

type clearMessageMsg struct{}

// Initialize the model
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, m.loadNews())
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	case newsLoadedMsg:
		if msg.id == m.selectedID() {
			m.news = msg.text
			m.newsID = msg.id
			m.newsLoading = false
		}
	case newsUnavailableMsg:
		// Informational only: degrade to an inline notice, no dialog.
		if msg.id == m.selectedID() {
			m.news = "News unavailable."
			m.newsID = msg.id
			m.newsLoading = false
		}
	case updateDoneMsg:
		return m.handleUpdateDone(msg)
	case launchDoneMsg:
		return m.handleLaunchDone(msg)
	case gameAddedMsg:
		return m.handleGameAdded(msg)
	case editorOpenedMsg:
		if msg.err != nil {
			m.message = ui.StatusError.Render(msg.err.Error())
			return m, clearMessageLater()
		}
	case clearMessageMsg:
		m.message = ""
	}
	return m, nil
}

func (m *Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.adding {
		return m.handleAddKeyMsg(msg)
	}

	switch msg.String() {
	case "ctrl+c", "q":
		// In-flight downloads are abandoned; a fresh fetch overwrites
		// any partial file on retry.
		return *m, tea.Quit
	case "up", "k":
		if m.selectedIndex > 0 {
			m.selectedIndex--
			return *m, m.loadNews()
		}
	case "down", "j":
		if m.selectedIndex < len(m.records)-1 {
			m.selectedIndex++
			return *m, m.loadNews()
		}
	case "enter", "p":
		return m.startLaunch()
	case "u":
		return m.startUpdate()
	case "a":
		m.adding = true
		m.addInput = newAddInput()
		return *m, textinput.Blink
	case "e":
		return *m, m.openEditor()
	}
	return *m, nil
}

func (m *Model) handleAddKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.adding = false
		return *m, nil
	case "enter":
		path := strings.TrimSpace(m.addInput.Value())
		m.adding = false
		if path == "" {
			return *m, nil
		}
		return *m, m.commitAdd(path)
	}

	var cmd tea.Cmd
	m.addInput, cmd = m.addInput.Update(msg)
	return *m, cmd
}

func newAddInput() textinput.Model {
	input := textinput.New()
	input.Placeholder = "/path/to/game/executable"
	input.Prompt = "Add game: "
	input.Focus()
	return input
}

func (m Model) selectedID() string {
	if len(m.records) == 0 || m.selectedIndex >= len(m.records) {
		return ""
	}
	return m.records[m.selectedIndex].ID
}

func (m Model) selectedRecord() (library.GameRecord, bool) {
	if len(m.records) == 0 || m.selectedIndex >= len(m.records) {
		return library.GameRecord{}, false
	}
	return m.records[m.selectedIndex], true
}

// startLaunch spawns the selected game on a background command unless an
// operation for that record is already running.
func (m Model) startLaunch() (tea.Model, tea.Cmd) {
	record, ok := m.selectedRecord()
	if !ok || m.busy[record.ID] {
		return m, nil
	}

	m.busy[record.ID] = true
	m.statuses[record.ID] = "launching"

	return m, func() tea.Msg {
		pid, err := runRecordLaunch(record)
		return launchDoneMsg{id: record.ID, pid: pid, err: err}
	}
}

// startUpdate fetches the selected record's update on a background
// command. The per-record busy flag prevents double-invocation; updates
// for different records run independently.
func (m Model) startUpdate() (tea.Model, tea.Cmd) {
	record, ok := m.selectedRecord()
	if !ok || m.busy[record.ID] {
		return m, nil
	}
	if !record.HasUpdate() {
		m.message = fmt.Sprintf("%s has no update configured", record.DisplayName())
		return m, clearMessageLater()
	}

	m.busy[record.ID] = true
	m.statuses[record.ID] = "updating"

	client := m.client
	return m, func() tea.Msg {
		result, err := runRecordUpdate(client, record)
		files := 0
		if result != nil {
			files = len(result.Extracted)
		}
		return updateDoneMsg{id: record.ID, files: files, err: err}
	}
}

func (m *Model) loadNews() tea.Cmd {
	record, ok := m.selectedRecord()
	if !ok {
		return nil
	}
	if record.NewsURL == "" {
		return func() tea.Msg {
			return newsLoadedMsg{id: record.ID, text: "No news configured."}
		}
	}

	m.newsLoading = true
	client := m.client
	return func() tea.Msg {
		text, err := client.FetchNews(record.NewsURL)
		if err != nil {
			logger.Log.Warnw("News fetch failed",
				zap.String("game_id", record.ID),
				zap.Error(err),
			)
			return newsUnavailableMsg{id: record.ID}
		}
		return newsLoadedMsg{id: record.ID, text: text}
	}
}

func (m Model) commitAdd(path string) tea.Cmd {
	store := m.store
	return func() tea.Msg {
		record, err := addGame(store, path)
		if err != nil {
			return gameAddedMsg{err: err}
		}
		records, loadErr := store.Load()
		if loadErr != nil {
			return gameAddedMsg{err: loadErr}
		}
		return gameAddedMsg{records: records, id: record.ID}
	}
}

func (m Model) openEditor() tea.Cmd {
	editor := m.cfg.Editor
	path := m.store.Path()
	return func() tea.Msg {
		return editorOpenedMsg{err: launcher.OpenInEditor(editor, path)}
	}
}

func (m Model) handleUpdateDone(msg updateDoneMsg) (tea.Model, tea.Cmd) {
	m.busy[msg.id] = false
	if msg.err != nil {
		m.statuses[msg.id] = "failed"
		m.message = ui.StatusError.Render(failureMessage(msg.id, msg.err))
	} else {
		m.statuses[msg.id] = "updated"
		m.message = ui.StatusOK.Render(fmt.Sprintf("%s: update applied (%d files)", msg.id, msg.files))
	}
	return m, clearMessageLater()
}

func (m Model) handleLaunchDone(msg launchDoneMsg) (tea.Model, tea.Cmd) {
	m.busy[msg.id] = false
	if msg.err != nil {
		m.statuses[msg.id] = "failed"
		m.message = ui.StatusError.Render(failureMessage(msg.id, msg.err))
	} else {
		m.statuses[msg.id] = "launched"
		m.message = ui.StatusOK.Render(fmt.Sprintf("%s launched", msg.id))
	}
	return m, clearMessageLater()
}

func (m Model) handleGameAdded(msg gameAddedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.message = ui.StatusError.Render(msg.err.Error())
		return m, clearMessageLater()
	}

	m.records = msg.records
	for i, r := range m.records {
		if r.ID == msg.id {
			m.selectedIndex = i
			break
		}
	}
	m.message = ui.StatusOK.Render(fmt.Sprintf("Added %s", msg.id))
	return m, tea.Batch(clearMessageLater(), m.loadNews())
}

func clearMessageLater() tea.Cmd {
	return tea.Tick(3*time.Second, func(time.Time) tea.Msg {
		return clearMessageMsg{}
	})
}

// View renders the UI
func (m Model) View() string {
	var output string

	output += ui.TitleStyle.Render("Games") + "\n"

	if len(m.records) == 0 {
		output += "\nLibrary is empty. Press a to add a game.\n"
	}

	for i, record := range m.records {
		output += m.renderRecordRow(i, record) + "\n"
	}

	if record, ok := m.selectedRecord(); ok {
		output += "\n" + m.renderDetail(record)
	}

	if m.adding {
		output += "\n" + m.addInput.View() + "  (enter to save, esc to cancel)\n"
	}

	if m.message != "" {
		output += "\n" + m.message
	}

	output += "\n" + renderFooter()
	return output
}

func (m Model) renderRecordRow(index int, record library.GameRecord) string {
	marker := "  "
	if index == m.selectedIndex {
		marker = "> "
	}

	status := m.statuses[record.ID]
	if m.busy[record.ID] {
		status = m.spin.View() + " " + status
	} else if status != "" {
		status = ui.Status(status)
	}

	row := fmt.Sprintf("%s%-30s %s", marker, truncate(record.DisplayName(), 28), status)
	if index == m.selectedIndex {
		return ui.SelectedStyle.Render(row)
	}
	return row
}

func (m Model) renderDetail(record library.GameRecord) string {
	var b strings.Builder

	b.WriteString(ui.TitleStyle.Render(record.DisplayName()) + "\n")
	b.WriteString(fmt.Sprintf("  id:        %s\n", record.ID))
	b.WriteString(fmt.Sprintf("  exe:       %s\n", record.GamePath))
	b.WriteString(fmt.Sprintf("  workdir:   %s\n", record.WorkingDir()))
	if record.Cover != "" {
		b.WriteString(fmt.Sprintf("  cover:     %s\n", record.Cover))
	}
	if record.Icon != "" {
		b.WriteString(fmt.Sprintf("  icon:      %s\n", record.Icon))
	}
	if record.HasUpdate() {
		b.WriteString(fmt.Sprintf("  update:    %s -> %s\n", record.Update.URL, record.Update.ExtractTo))
	} else {
		b.WriteString("  update:    none\n")
	}

	b.WriteString("\n")
	if m.newsLoading {
		b.WriteString(m.spin.View() + " Loading news...\n")
	} else if m.news != "" && m.newsID == record.ID {
		b.WriteString(renderNews(m.news, m.newsHeight()))
	}

	return b.String()
}

// newsHeight bounds the news pane so the list stays on screen.
func (m Model) newsHeight() int {
	available := m.height - len(m.records) - 14
	if available < 4 {
		return 4
	}
	return available
}

func renderNews(text string, maxLines int) string {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	if len(lines) > maxLines {
		lines = lines[:maxLines]
	}
	for i, line := range lines {
		lines[i] = "  " + line
	}
	return strings.Join(lines, "\n") + "\n"
}

func renderFooter() string {
	return ui.FooterStyle.Render("↑/k: up  ↓/j: down  enter: play  u: update  a: add  e: edit  q: quit")
}

func runGUI() {
	cfg, store, client := bootstrap(".")
	records := mustLoadLibrary(store)

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	m := Model{
		cfg:         cfg,
		store:       store,
		client:      client,
		records:     records,
		busy:        make(map[string]bool),
		statuses:    make(map[string]string),
		newsLoading: len(records) > 0,
		spin:        s,
		width:       80,
		height:      24,
	}

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		logger.Log.Fatalw("Failed to run GUI", zap.Error(err))
	}
}
