package app

import (
	"fmt"
	"io"
	"strings"

	"charm.land/bubbles/v2/list"
	tea "charm.land/bubbletea/v2"

	"agentview/internal/types"
)

type pickerItem struct {
	id     string
	label  string
	detail string
	unread bool
	active bool
	file   *types.FileInfo
}

func (p pickerItem) Title() string       { return p.label }
func (p pickerItem) Description() string { return p.detail }
func (p pickerItem) FilterValue() string { return p.label }

type pickerDelegate struct{}

func (d pickerDelegate) Height() int                               { return 1 }
func (d pickerDelegate) Spacing() int                              { return 0 }
func (d pickerDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }

func (d pickerDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	entry, ok := item.(pickerItem)
	if !ok {
		return
	}
	label := entry.label
	if entry.detail != "" {
		label += "  " + entry.detail
	}
	label = truncateToWidth(label, m.Width())
	style := sessionStyle
	switch {
	case index == m.Index():
		style = selectedStyle
	case entry.unread:
		style = sessionUnreadStyle
	case entry.active:
		style = activeSessionStyle
	}
	io.WriteString(w, style.Render(label))
}

// Picker is the overlay list used for sessions and session files.
type Picker struct {
	list list.Model
}

func NewPicker(title string, width, height int) *Picker {
	mlist := list.New([]list.Item{}, pickerDelegate{}, width, height)
	mlist.Title = title
	mlist.SetShowHelp(false)
	mlist.SetFilteringEnabled(false)
	mlist.SetShowPagination(false)
	mlist.SetShowStatusBar(false)
	mlist.Styles.Title = headerStyle
	return &Picker{list: mlist}
}

func (p *Picker) SetSize(width, height int) {
	p.list.SetSize(width, height)
}

func (p *Picker) SetItems(items []pickerItem, selectedID string) {
	out := make([]list.Item, 0, len(items))
	selected := 0
	for i, item := range items {
		if item.id == selectedID {
			selected = i
		}
		out = append(out, item)
	}
	p.list.SetItems(out)
	p.list.Select(selected)
}

func (p *Picker) Len() int {
	return len(p.list.Items())
}

func (p *Picker) Selected() (pickerItem, bool) {
	item, ok := p.list.SelectedItem().(pickerItem)
	return item, ok
}

func (p *Picker) Move(delta int) {
	for ; delta > 0; delta-- {
		p.list.CursorDown()
	}
	for ; delta < 0; delta++ {
		p.list.CursorUp()
	}
}

func (p *Picker) View() string {
	return p.list.View()
}

func sessionPickerItems(sessions []types.SessionSummary) []pickerItem {
	items := make([]pickerItem, 0, len(sessions))
	for _, session := range sessions {
		title := strings.TrimSpace(session.Title)
		if title == "" {
			title = "(untitled)"
		}
		detail := string(session.Status)
		if session.UnreadMessageCount > 0 {
			detail = fmt.Sprintf("%s  %d unread", detail, session.UnreadMessageCount)
		}
		if latest := strings.Join(strings.Fields(session.LatestMessage), " "); latest != "" {
			detail += "  " + latest
		}
		items = append(items, pickerItem{
			id:     session.ID,
			label:  title,
			detail: detail,
			unread: session.UnreadMessageCount > 0,
			active: session.Status.Active(),
		})
	}
	return items
}

func filePickerItems(files []types.FileInfo) []pickerItem {
	items := make([]pickerItem, 0, len(files))
	for i := range files {
		file := files[i]
		detail := file.FilePath
		if file.Size > 0 {
			detail = strings.TrimSpace(fmt.Sprintf("%s  %s", detail, formatSize(file.Size)))
		}
		items = append(items, pickerItem{id: file.FileID, label: file.DisplayName(), detail: detail, file: &file})
	}
	return items
}

func formatSize(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for v := n / unit; v >= unit; v /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
