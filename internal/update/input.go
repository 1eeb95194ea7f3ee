package update

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/eisen/internal/model"
	"github.com/sandeepkv93/eisen/internal/tasks"
)

func (m Model) startInput(q model.Quadrant) (tea.Model, tea.Cmd) {
	if m.Classifying {
		m.notify("still classifying the previous task", false)
		return m, nil
	}
	m.Mode = ModeInput
	m.InputQuadrant = q
	m.syncInputPlaceholder()
	return m, m.input.Focus()
}

func (m Model) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.Mode = ModeBoard
		m.input.Blur()
		m.input.SetValue("")
		m.InputQuadrant = ""
		m.syncInputPlaceholder()
		return m, nil
	case "tab":
		m.InputQuadrant = nextSelector(m.InputQuadrant)
		m.syncInputPlaceholder()
		return m, nil
	case "enter":
		return m.submitInput()
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// nextSelector cycles auto, q1, q2, q3, q4.
func nextSelector(q model.Quadrant) model.Quadrant {
	if q == "" {
		return model.Quadrants[0]
	}
	i := q.Index()
	if i < 0 || i == len(model.Quadrants)-1 {
		return ""
	}
	return model.Quadrants[i+1]
}

func (m Model) submitInput() (tea.Model, tea.Cmd) {
	content := strings.TrimSpace(m.input.Value())
	if content == "" {
		return m, nil
	}
	m.input.SetValue("")
	m.input.Blur()
	m.Mode = ModeBoard
	manual := m.InputQuadrant
	m.InputQuadrant = ""
	m.syncInputPlaceholder()

	if manual != "" {
		m.addTask(content, manual, nil, false)
		return m, nil
	}
	m.Classifying = true
	m.notify("classifying…", false)
	return m, tea.Batch(m.spinner.Tick, classifyCmd(m.ctx, m.deps.Classifier, content, m.deps.Settings.Get()))
}

func classifyCmd(ctx context.Context, c Classifier, content string, settings model.AppSettings) tea.Cmd {
	return func() tea.Msg {
		return ClassifiedMsg{Content: content, Result: c.Classify(ctx, content, settings)}
	}
}

func (m Model) onClassified(msg ClassifiedMsg) (tea.Model, tea.Cmd) {
	m.Classifying = false
	res := msg.Result
	task, ok := m.addTask(msg.Content, res.Quadrant, res.Subtasks, !res.Fallback)
	if !ok {
		return m, nil
	}
	m.Reasoning = res.Reasoning
	if m.Status.IsError {
		return m, nil
	}
	where := model.QuadrantConfig(task.Quadrant).Subtitle
	if res.Fallback {
		m.notify(fmt.Sprintf("added to %s: %s", where, res.Reasoning), false)
	} else {
		m.notify(fmt.Sprintf("AI filed under %s: %s", where, res.Reasoning), false)
	}
	return m, nil
}

func (m *Model) addTask(content string, q model.Quadrant, subtasks []string, ai bool) (model.Task, bool) {
	task, err := m.deps.Tasks.Add(m.ctx, content, q, subtasks, ai)
	if err != nil {
		if errors.Is(err, tasks.ErrEmptyContent) {
			return model.Task{}, false
		}
		m.notify(err.Error(), true)
		if task.ID == "" {
			return model.Task{}, false
		}
	} else {
		m.notify("added to "+model.QuadrantConfig(q).Subtitle, false)
	}
	m.selectTask(task.ID)
	return task, true
}
