package ui

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/pthm/issuesreport/internal/report"
)

// NodeKind is the level of a node in the report tree
type NodeKind int

const (
	NodeResource NodeKind = iota
	NodeRule
	NodeIssue
)

// ReportNode is a displayable node of the report tree
type ReportNode struct {
	Kind     NodeKind
	Depth    int
	Expanded bool
	Children []*ReportNode
	Parent   *ReportNode

	Resource   *report.ResourceReport
	RuleReport *report.RuleReport
	Issue      *report.ReportedIssue
}

// ReportModel is the bubbletea model browsing a built report:
// resources, then their rule reports, then issues
type ReportModel struct {
	report       *report.Report
	nodes        []*ReportNode // visible nodes
	roots        []*ReportNode
	cursor       int
	viewport     viewport.Model
	ready        bool
	width        int
	height       int
	newOnly      bool
	showResolved bool
	keys         browseKeyMap
	styles       browseStyles
	severity     *Styles
}

type browseKeyMap struct {
	Up             key.Binding
	Down           key.Binding
	Left           key.Binding
	Right          key.Binding
	Toggle         key.Binding
	ToggleNew      key.Binding
	ToggleResolved key.Binding
	Quit           key.Binding
}

type browseStyles struct {
	selected  lipgloss.Style
	file      lipgloss.Style
	rule      lipgloss.Style
	tree      lipgloss.Style
	dim       lipgloss.Style
	newTag    lipgloss.Style
	resolved  lipgloss.Style
	statusBar lipgloss.Style
	helpBar   lipgloss.Style
}

func defaultBrowseKeyMap() browseKeyMap {
	return browseKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Left: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "collapse"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "expand"),
		),
		Toggle: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter/space", "toggle"),
		),
		ToggleNew: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "new only"),
		),
		ToggleResolved: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "resolved"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

func defaultBrowseStyles() browseStyles {
	return browseStyles{
		selected:  lipgloss.NewStyle().Background(lipgloss.Color("237")).Bold(true),
		file:      lipgloss.NewStyle().Foreground(lipgloss.Color("15")),
		rule:      lipgloss.NewStyle().Foreground(lipgloss.Color("14")),
		tree:      lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		dim:       lipgloss.NewStyle().Foreground(lipgloss.Color("242")),
		newTag:    lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true),
		resolved:  lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Strikethrough(true),
		statusBar: lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Background(lipgloss.Color("236")).Padding(0, 1),
		helpBar:   lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Background(lipgloss.Color("235")).Padding(0, 0),
	}
}

func plainBrowseStyles() browseStyles {
	plain := lipgloss.NewStyle()
	return browseStyles{
		selected:  plain,
		file:      plain,
		rule:      plain,
		tree:      plain,
		dim:       plain,
		newTag:    plain,
		resolved:  plain,
		statusBar: plain,
		helpBar:   plain,
	}
}

// NewReportModel creates a browser over rep
func NewReportModel(rep *report.Report) ReportModel {
	m := ReportModel{
		report:       rep,
		showResolved: true,
		keys:         defaultBrowseKeyMap(),
		styles:       defaultBrowseStyles(),
		severity:     NewStyles(true),
	}
	m.buildNodes()
	return m
}

// Nodes returns the currently visible nodes
func (m ReportModel) Nodes() []*ReportNode {
	return m.nodes
}

// buildNodes rebuilds the tree from the report with the current filters
func (m *ReportModel) buildNodes() {
	m.roots = buildTree(m.report, m.newOnly, m.showResolved)
	m.updateVisibleNodes()
}

func buildTree(rep *report.Report, newOnly, showResolved bool) []*ReportNode {
	var roots []*ReportNode
	for _, rr := range rep.ResourceReports() {
		if newOnly && rr.Total().New() == 0 {
			continue
		}
		resNode := &ReportNode{Kind: NodeResource, Resource: rr, Expanded: true}

		for _, ruleReport := range rr.RuleReports() {
			if newOnly && ruleReport.Total.New() == 0 {
				continue
			}
			ruleNode := &ReportNode{Kind: NodeRule, Depth: 1, RuleReport: ruleReport, Parent: resNode}

			issues := slices.Clone(rr.Issues())
			if showResolved && !newOnly {
				issues = append(issues, rr.ResolvedIssues()...)
			}
			for _, ri := range issues {
				if ri.Rule != ruleReport.Rule() || ri.Issue.Severity != ruleReport.Severity() {
					continue
				}
				if newOnly && !ri.Issue.New {
					continue
				}
				ruleNode.Children = append(ruleNode.Children, &ReportNode{
					Kind: NodeIssue, Depth: 2, Issue: ri, Parent: ruleNode,
				})
			}
			if len(ruleNode.Children) == 0 {
				continue
			}
			resNode.Children = append(resNode.Children, ruleNode)
		}
		if len(resNode.Children) > 0 {
			roots = append(roots, resNode)
		}
	}
	return roots
}

func (m *ReportModel) updateVisibleNodes() {
	m.nodes = nil
	for _, node := range m.roots {
		m.collectVisible(node)
	}

	if m.cursor >= len(m.nodes) {
		m.cursor = len(m.nodes) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *ReportModel) collectVisible(node *ReportNode) {
	m.nodes = append(m.nodes, node)
	if node.Expanded {
		for _, child := range node.Children {
			m.collectVisible(child)
		}
	}
}

// Init initializes the model
func (m ReportModel) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m ReportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit

		case key.Matches(msg, m.keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}

		case key.Matches(msg, m.keys.Down):
			if m.cursor < len(m.nodes)-1 {
				m.cursor++
			}

		case key.Matches(msg, m.keys.Left):
			if len(m.nodes) > 0 {
				node := m.nodes[m.cursor]
				if !node.Expanded && node.Parent != nil {
					node = node.Parent
					m.cursor = m.indexOf(node)
				}
				node.Expanded = false
				m.updateVisibleNodes()
			}

		case key.Matches(msg, m.keys.Right), key.Matches(msg, m.keys.Toggle):
			if len(m.nodes) > 0 && len(m.nodes[m.cursor].Children) > 0 {
				m.nodes[m.cursor].Expanded = !m.nodes[m.cursor].Expanded
				m.updateVisibleNodes()
			}

		case key.Matches(msg, m.keys.ToggleNew):
			m.newOnly = !m.newOnly
			m.buildNodes()

		case key.Matches(msg, m.keys.ToggleResolved):
			m.showResolved = !m.showResolved
			m.buildNodes()
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if !m.ready {
			m.viewport = viewport.New(msg.Width, msg.Height-4)
			m.viewport.YPosition = 2
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = msg.Height - 4
		}
	}

	return m, nil
}

func (m *ReportModel) indexOf(node *ReportNode) int {
	for i, n := range m.nodes {
		if n == node {
			return i
		}
	}
	return 0
}

// View renders the tree
func (m ReportModel) View() string {
	if !m.ready {
		return "Initializing..."
	}

	footerHeight := 4
	treeHeight := m.height - footerHeight
	if treeHeight < 5 {
		treeHeight = 5
	}

	var sb strings.Builder

	var lines []string
	for i, node := range m.nodes {
		lines = append(lines, m.renderNode(node, i == m.cursor))
	}
	if len(lines) == 0 {
		lines = append(lines, m.styles.dim.Render("  No issues"))
	}

	startIdx := 0
	if m.cursor >= treeHeight {
		startIdx = m.cursor - treeHeight + 1
	}
	endIdx := startIdx + treeHeight
	if endIdx > len(lines) {
		endIdx = len(lines)
	}
	sb.WriteString(strings.Join(lines[startIdx:endIdx], "\n"))

	for i := endIdx - startIdx; i < treeHeight; i++ {
		sb.WriteString("\n")
	}
	sb.WriteString("\n")

	detail := ""
	if len(m.nodes) > 0 && m.cursor < len(m.nodes) {
		detail = m.detailLine(m.nodes[m.cursor])
	}
	sb.WriteString(m.styles.statusBar.Width(m.width).Render(detail))
	sb.WriteString("\n")

	help := fmt.Sprintf(" ↑↓ navigate  ←→ collapse/expand  n new only(%s)  r resolved(%s)  q quit",
		boolToOnOff(m.newOnly),
		boolToOnOff(m.showResolved),
	)
	sb.WriteString(m.styles.helpBar.Width(m.width).Render(help))

	return sb.String()
}

func (m *ReportModel) renderNode(node *ReportNode, selected bool) string {
	var sb strings.Builder

	sb.WriteString(m.styles.tree.Render(strings.Repeat("  ", node.Depth)))

	if len(node.Children) > 0 {
		if node.Expanded {
			sb.WriteString(m.styles.dim.Render("▼ "))
		} else {
			sb.WriteString(m.styles.dim.Render("▶ "))
		}
	} else {
		sb.WriteString("  ")
	}

	content := nodeLabel(node, m.severity, m.styles)
	if selected {
		content = m.styles.selected.Render(content)
	}
	sb.WriteString(content)
	return sb.String()
}

func nodeLabel(node *ReportNode, sev *Styles, st browseStyles) string {
	switch node.Kind {
	case NodeResource:
		t := node.Resource.Total()
		return st.file.Render(node.Resource.Name()) + st.dim.Render(tallySuffix(t))
	case NodeRule:
		rr := node.RuleReport
		return sev.Severity(rr.Severity()).Render(rr.Severity().String()) + " " +
			st.rule.Render(rr.Rule().DisplayName()) + st.dim.Render(tallySuffix(rr.Total))
	case NodeIssue:
		ri := node.Issue
		label := ri.Issue.Message
		if ri.Issue.HasLine() {
			label = fmt.Sprintf("L%d %s", ri.Issue.Line, label)
		}
		switch {
		case ri.Resolved:
			return st.resolved.Render(label)
		case ri.Issue.New:
			return st.newTag.Render("NEW") + " " + label
		default:
			return label
		}
	}
	return ""
}

func tallySuffix(t report.Tally) string {
	s := fmt.Sprintf(" (%d", t.Current())
	if t.New() > 0 {
		s += fmt.Sprintf(", +%d", t.New())
	}
	if t.Resolved() > 0 {
		s += fmt.Sprintf(", -%d", t.Resolved())
	}
	return s + ")"
}

func (m *ReportModel) detailLine(node *ReportNode) string {
	switch node.Kind {
	case NodeResource:
		return fmt.Sprintf(" %s  Rules: %d", node.Resource.Resource().Key, len(node.Children))
	case NodeRule:
		return fmt.Sprintf(" %s  Severity: %s", node.RuleReport.Rule().Key, node.RuleReport.Severity())
	case NodeIssue:
		return fmt.Sprintf(" %s  %s", node.Issue.Rule.Key, node.Issue.Issue.Message)
	}
	return ""
}

// PrintReport writes the report tree without interaction, every node
// expanded
func PrintReport(w io.Writer, rep *report.Report, styles *Styles, newOnly bool) error {
	if styles == nil {
		styles = NewStyles(false)
	}
	st := plainBrowseStyles()
	if styles.Enabled() {
		st = defaultBrowseStyles()
	}

	roots := buildTree(rep, newOnly, !newOnly)
	var sb strings.Builder
	sb.WriteString(styles.Header.Render(rep.Title))
	sb.WriteString("\n")
	if len(roots) == 0 {
		sb.WriteString("  No issues\n")
	}

	var walk func(nodes []*ReportNode, prefix string)
	walk = func(nodes []*ReportNode, prefix string) {
		for i, node := range nodes {
			connector, childPrefix := "├── ", "│   "
			if i == len(nodes)-1 {
				connector, childPrefix = "└── ", "    "
			}
			sb.WriteString(prefix + connector + nodeLabel(node, styles, st) + "\n")
			walk(node.Children, prefix+childPrefix)
		}
	}
	walk(roots, "")

	_, err := io.WriteString(w, sb.String())
	return err
}

func boolToOnOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
