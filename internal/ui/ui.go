package ui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/ghshelf/ghshelf/internal/models"
	"github.com/ghshelf/ghshelf/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	ConfirmView ViewState = iota
	ImportView
	ResultView
	BrowseView
)

// Model represents the TUI application state.
type Model struct {
	ctx          context.Context
	view         ViewState
	engine       *tasks.Engine
	username     string
	width        int
	height       int
	repoList     list.Model
	browsing     models.CollectionType
	progressChan chan tasks.ProgressUpdate
	progress     tasks.ProgressUpdate
	result       *tasks.MergeResult
	err          error
	help         help.Model
	keys         keyMap
}

// repoItem wraps [models.Repo] to implement list.Item.
type repoItem struct {
	repo models.Repo
}

func (i repoItem) FilterValue() string { return i.repo.Name }
func (i repoItem) Title() string {
	if i.repo.Owner != "" {
		return i.repo.Owner + "/" + i.repo.Name
	}
	return i.repo.Name
}
func (i repoItem) Description() string {
	desc := fmt.Sprintf("%s • ★%d", i.repo.Language, i.repo.Stars)
	if i.repo.Description != "" && i.repo.Description != models.NoDescription {
		desc = fmt.Sprintf("%s • %s", desc, i.repo.Description)
	}
	return desc
}

type progressUpdateMsg tasks.ProgressUpdate

type importCompleteMsg struct {
	result *tasks.MergeResult
	err    error
}

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(ctx context.Context, engine *tasks.Engine, username string) *Model {
	return &Model{
		ctx:      ctx,
		view:     ConfirmView,
		engine:   engine,
		username: username,
		browsing: models.Owned,
		help:     help.New(),
		keys:     newKeyMap(),
	}
}

func (m *Model) Init() tea.Cmd {
	return nil
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.repoList.Width() == 0 {
			m.repoList.SetSize(msg.Width-4, msg.Height-8)
		}
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case ConfirmView:
			return m.handleConfirmKeys(msg)
		case ResultView:
			return m.handleResultKeys(msg)
		case BrowseView:
			return m.handleBrowseKeys(msg)
		}
		return m, nil

	case progressUpdateMsg:
		m.progress = tasks.ProgressUpdate(msg)
		return m, m.waitForProgress()

	case importCompleteMsg:
		m.result = msg.result
		m.err = msg.err
		m.view = ResultView
		m.progressChan = nil
		return m, nil
	}

	if m.view == BrowseView {
		var cmd tea.Cmd
		m.repoList, cmd = m.repoList.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.err != nil && m.view != ResultView {
		return styles.error.Render(fmt.Sprintf("Error: %v\n\nPress q to quit", m.err))
	}

	switch m.view {
	case ConfirmView:
		return m.renderConfirm()
	case ImportView:
		return m.renderImport()
	case ResultView:
		return m.renderResult()
	case BrowseView:
		return m.renderBrowse()
	default:
		return ""
	}
}

func (m *Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "n":
		return m, tea.Quit
	case "y", "enter":
		m.view = ImportView
		return m, m.startImport()
	}
	return m, nil
}

func (m *Model) handleResultKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "b", "enter":
		if m.result != nil {
			m.setupBrowseList()
			m.view = BrowseView
		}
		return m, nil
	}
	return m, nil
}

func (m *Model) handleBrowseKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.view = ResultView
		return m, nil
	case "tab":
		if m.browsing == models.Owned {
			m.browsing = models.Starred
		} else {
			m.browsing = models.Owned
		}
		m.setupBrowseList()
		return m, nil
	}

	var cmd tea.Cmd
	m.repoList, cmd = m.repoList.Update(msg)
	return m, cmd
}

func (m *Model) setupBrowseList() {
	repos := m.result.Collection.List(m.browsing)
	items := make([]list.Item, len(repos))
	for i, r := range repos {
		items[i] = repoItem{repo: r}
	}
	m.repoList = list.New(items, list.NewDefaultDelegate(), 0, 0)
	m.repoList.Title = fmt.Sprintf("%s repositories (%d)", capitalize(string(m.browsing)), len(repos))
	m.repoList.SetSize(m.width-4, m.height-8)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return string(s[0]-'a'+'A') + s[1:]
}

func (m *Model) startImport() tea.Cmd {
	m.progressChan = make(chan tasks.ProgressUpdate, 50)
	progressChan := m.progressChan

	go func() {
		result, err := m.engine.Import(m.ctx, progressChan)
		if err != nil {
			m.result = nil
			m.err = err
		} else {
			m.result = &result
			m.err = nil
		}
		close(progressChan)
	}()

	return m.waitForProgress()
}

func (m *Model) waitForProgress() tea.Cmd {
	return func() tea.Msg {
		if m.progressChan == nil {
			return importCompleteMsg{result: m.result, err: m.err}
		}

		update, ok := <-m.progressChan
		if !ok {
			return importCompleteMsg{result: m.result, err: m.err}
		}
		return progressUpdateMsg(update)
	}
}

func (m *Model) renderConfirm() string {
	title := styles.title.Render("Import GitHub repositories?")
	info := "\nFetches your owned and starred repositories and merges them\ninto the local collection. Existing entries are never modified.\n"
	if m.username != "" {
		info = fmt.Sprintf("\nAuthenticated as %s.\n%s", m.username, info)
	}

	helpKeys := []key.Binding{m.keys.yes, m.keys.no, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n%s\n%s", title, info, helpView)
}

func (m *Model) renderImport() string {
	title := styles.title.Render("Importing Repositories")

	var phase string
	switch m.progress.Phase {
	case tasks.PhaseValidating:
		phase = "Validating token..."
	case tasks.PhaseFetching:
		phase = "Fetching repositories..."
	case tasks.PhaseMerging:
		phase = fmt.Sprintf("Merging %d owned and %d starred...", m.progress.OwnedCount, m.progress.StarredCount)
	case tasks.PhaseSaving:
		phase = "Saving collection..."
	default:
		phase = "Working..."
	}

	return fmt.Sprintf("%s\n\n%s\n%s", title, phase, styles.help.Render(m.progress.Message))
}

func (m *Model) renderResult() string {
	if m.err != nil {
		return styles.error.Render(fmt.Sprintf("Import failed: %v\n\nPress q to quit", m.err))
	}

	if m.result == nil {
		return styles.error.Render("No result available\n\nPress q to quit")
	}

	title := styles.success.Render("✓ Import Complete!")
	info := fmt.Sprintf(
		"\nOwned: %d (%d new)\nStarred: %d (%d new)",
		len(m.result.Collection.Owned), m.result.AddedOwned,
		len(m.result.Collection.Starred), m.result.AddedStarred,
	)

	helpKeys := []key.Binding{m.keys.browse, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n%s\n\n%s", title, info, helpView)
}

func (m *Model) renderBrowse() string {
	helpKeys := []key.Binding{m.keys.tab, m.keys.back, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n\n%s", m.repoList.View(), helpView)
}
