package tui

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/TaniaZeidan/NutriTrackAI/internal/assistant"
	"github.com/TaniaZeidan/NutriTrackAI/internal/domain"
	"github.com/TaniaZeidan/NutriTrackAI/internal/summarizer"
)

// RecipePort is the TUI-facing subset of the retrieval service.
type RecipePort interface {
	Retrieve(ctx context.Context, query string, k int) ([]domain.RecipeResult, error)
}

// CookPort prepares a recipe for step-by-step cooking.
type CookPort interface {
	CookThrough(ctx context.Context, query string, servings int) (*assistant.CookThrough, error)
}

type mode int

const (
	modeSearch mode = iota
	modeCook
)

// A method overview is shown for recipes with more steps than this.
const overviewMinSteps = 4

// Model is the Bubble Tea model for the recipe browser.
type Model struct {
	service   RecipePort
	guide     CookPort
	topK      int
	input     textinput.Model
	viewport  viewport.Model
	results   []domain.RecipeResult
	cook      *assistant.CookThrough
	mode      mode
	sum       *summarizer.Frequency
	summary   string
	status    string
	cursor    int
	ready     bool
	lastQuery string
}

// New creates a new TUI model instance.
func New(service RecipePort, guide CookPort, topK int, summary string) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Describe a meal and press Enter"
	ti.Focus()
	ti.CharLimit = 0
	vp := viewport.New(0, 0)
	if topK < 1 {
		topK = 5
	}
	return Model{service: service, guide: guide, topK: topK, input: ti, viewport: vp,
		sum: summarizer.NewFrequency(), summary: summary, status: "Ready. Type to search recipes."}
}

// Init initializes the model (text input cursor blink).
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key and window events and updates the view state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		// account for frames around result and query boxes
		_, rh := resultBoxStyle.GetFrameSize()
		_, qh := queryBoxStyle.GetFrameSize()
		totalHeaderLines := 2                                    // header + summary
		totalFooterLines := 1                                    // status
		reserved := totalHeaderLines + totalFooterLines + qh + 1 // 1 spacer
		vh := msg.Height - reserved
		if vh < 3 {
			vh = 3
		}
		m.viewport.Width = max(20, msg.Width)
		m.viewport.Height = max(3, vh-rh)
		m.viewport.SetContent(m.renderBody())
		return m, nil
	case tea.KeyMsg:
		// Global quits
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			return m, tea.Quit
		}
		switch msg.String() {
		case "enter":
			q := strings.TrimSpace(m.input.Value())
			if q != "" {
				res, err := m.service.Retrieve(context.Background(), q, m.topK)
				if err != nil {
					m.status = "Error: " + err.Error()
					m.results = nil
				} else if len(res) == 0 {
					m.status = fmt.Sprintf("No recipes match %q", q)
					m.results = nil
				} else {
					m.status = fmt.Sprintf("Recipes for %q (tab to cook)", q)
					m.results = res
					m.cursor = 0
					m.lastQuery = q
				}
				m.mode = modeSearch
				m.viewport.SetContent(m.renderBody())
				return m, nil
			}
		case "tab":
			if m.mode == modeSearch && len(m.results) > 0 {
				recipe := m.results[m.cursor].Recipe
				cook, err := m.guide.CookThrough(context.Background(), recipe.Title, recipe.Servings)
				if err != nil {
					m.status = "Error: " + err.Error()
				} else {
					m.cook = cook
					m.mode = modeCook
					m.status = "Cooking mode (esc to go back)"
				}
				m.viewport.SetContent(m.renderBody())
				m.viewport.GotoTop()
				return m, nil
			}
		case "esc":
			if m.mode == modeCook {
				m.mode = modeSearch
				m.status = fmt.Sprintf("Recipes for %q (tab to cook)", m.lastQuery)
				m.viewport.SetContent(m.renderBody())
				return m, nil
			}
		case "down":
			if m.mode == modeCook {
				m.viewport.LineDown(1)
				return m, nil
			}
			if len(m.results) > 0 {
				m.cursor = (m.cursor + 1) % len(m.results)
				m.viewport.SetContent(m.renderBody())
				return m, nil
			}
		case "up":
			if m.mode == modeCook {
				m.viewport.LineUp(1)
				return m, nil
			}
			if len(m.results) > 0 {
				m.cursor = (m.cursor - 1 + len(m.results)) % len(m.results)
				m.viewport.SetContent(m.renderBody())
				return m, nil
			}
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the TUI layout and current result.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := lipgloss.NewStyle().Bold(true).Render("NutriTrack Recipes")
	summary := lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Render(m.summary)
	input := queryBoxStyle.Render(m.input.View())
	status := lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Render(m.status)
	results := resultBoxStyle.Render(m.viewport.View())
	return header + "\n" + summary + "\n" + results + "\n" + input + "\n" + status
}

func (m Model) renderBody() string {
	if m.mode == modeCook && m.cook != nil {
		return renderCookThrough(m.cook)
	}
	return m.renderCurrentRecipe()
}

func (m Model) renderCurrentRecipe() string {
	if len(m.results) == 0 {
		return "No results yet."
	}
	r := m.results[m.cursor]
	head := fmt.Sprintf("Result %d/%d  score=%.3f", m.cursor+1, len(m.results), r.Score)
	title := lipgloss.NewStyle().Bold(true).Render(r.Recipe.Title)
	macros := fmt.Sprintf("%.0f kcal, %.0fg protein, %.0fg carbs, %.0fg fat per serving (serves %d)",
		r.Recipe.Calories, r.Recipe.ProteinG, r.Recipe.CarbG, r.Recipe.FatG, r.Recipe.BaseServings())

	var b strings.Builder
	b.WriteString(head + "\n\n" + title + "\n" + macros + "\n")
	if len(r.Recipe.Tags) > 0 {
		b.WriteString("Tags: " + strings.Join(r.Recipe.Tags, ", ") + "\n")
	}
	b.WriteString("\nIngredients:\n")
	for _, ingredient := range r.Recipe.Ingredients {
		b.WriteString("  - " + ingredient + "\n")
	}
	method := strings.Join(r.Recipe.Steps, ". ") + "."
	if len(r.Recipe.Steps) > overviewMinSteps {
		b.WriteString("\nOverview: " + m.sum.Summarize(method, 2) + "\n")
	}
	b.WriteString("\n" + highlightBestSentence(method, m.lastQuery))
	return b.String()
}

func renderCookThrough(cook *assistant.CookThrough) string {
	total := 0
	for _, step := range cook.Steps {
		total += step.Minutes
	}
	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Bold(true).Render("Cooking: "+cook.Recipe.Title) + "\n")
	b.WriteString(fmt.Sprintf("Serves %d, about %d minutes\n\n", cook.Recipe.BaseServings(), total))
	for _, step := range cook.Steps {
		b.WriteString(fmt.Sprintf("%d. %s (%d min)\n", step.Index, step.Instruction, step.Minutes))
	}
	if len(cook.Steps) > 0 && len(cook.Steps[0].Tips) > 0 {
		b.WriteString("\nTip: " + cook.Steps[0].Tips[0] + "\n")
	}
	return b.String()
}

var (
	resultBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	queryBoxStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	highlightStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	unicodeWordRe  = regexp.MustCompile(`\p{L}+(?:['’]\p{L}+)*`)
	sentenceRe     = regexp.MustCompile(`(?m)(?U)([^.!?]+[.!?])`)
)

func highlightBestSentence(text, query string) string {
	if strings.TrimSpace(text) == "" {
		return text
	}
	sentences := sentenceRe.FindAllString(text, -1)
	if len(sentences) == 0 {
		sentences = []string{strings.TrimSpace(text)}
	}
	qTokens := toTokenSet(query)
	if len(qTokens) == 0 {
		return strings.Join(sentences, " ")
	}
	bestIdx := 0
	bestScore := -1
	for i, s := range sentences {
		score := tokenOverlapScore(qTokens, s)
		if score > bestScore {
			bestScore = score
			bestIdx = i
		}
	}
	for i := range sentences {
		sent := strings.TrimSpace(sentences[i])
		if i == bestIdx {
			sentences[i] = highlightStyle.Render(sent)
		} else {
			sentences[i] = sent
		}
	}
	return strings.Join(sentences, " ")
}

func toTokenSet(s string) map[string]struct{} {
	tokens := unicodeWordRe.FindAllString(strings.ToLower(s), -1)
	m := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		m[t] = struct{}{}
	}
	return m
}

func tokenOverlapScore(queryTokens map[string]struct{}, sentence string) int {
	score := 0
	tokens := unicodeWordRe.FindAllString(strings.ToLower(sentence), -1)
	seen := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		if _, ok := queryTokens[t]; ok {
			score++
		}
	}
	return score
}
