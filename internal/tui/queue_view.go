package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"

	"postgrid/internal/model"
)

// postItem adapts a post to the bubbles list for the queue (agenda) view.
type postItem struct {
	post model.Post
}

func (it postItem) Title() string {
	return fmt.Sprintf("%s  %s", it.post.ScheduledAt.Local().Format("Mon Jan 2 15:04"), firstLine(it.post.Caption))
}

func (it postItem) Description() string {
	desc := string(it.post.Status)
	if it.post.Platform != "" {
		desc += " · " + it.post.Platform
	}
	if !it.post.Movable() {
		desc += " · locked"
	}
	return desc
}

func (it postItem) FilterValue() string { return it.post.Caption }

func newQueueList() list.Model {
	l := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Queue"
	l.SetShowStatusBar(true)
	l.SetStatusBarItemName("post", "posts")
	l.SetShowHelp(false)
	return l
}

func (m *appModel) refreshQueue() {
	items := make([]list.Item, 0, m.seq.Len())
	for _, p := range m.seq.Posts() {
		items = append(items, postItem{post: p})
	}
	m.queue.SetItems(items)
}
