package pages

import (
	"html/template"

	"github.com/liliang-cn/alfred/internal/domain"
)

// PDF analysis tabs
const (
	TabEntities  = "entities"
	TabText      = "text"
	TabSearch    = "search"
	TabSentiment = "sentiment"
	TabChat      = "chat"
)

var tabTitles = []struct{ tab, title string }{
	{TabEntities, "Named Entities"},
	{TabText, "Extracted Text"},
	{TabSearch, "Search"},
	{TabSentiment, "Sentiment Analysis"},
	{TabChat, "Chat with PDF"},
}

var headings = map[domain.Page]string{
	domain.PageWelcome:  "Welcome to Alfred AI",
	domain.PageChat:     "General Chat with Alfred AI",
	domain.PagePDF:      "PDF Analysis",
	domain.PageSettings: "Settings",
}

type navItem struct {
	Title  string
	Href   string
	Active bool
}

type chatLine struct {
	Role    string
	Speaker string
	Content string
}

// link is a data: download. Href is trusted so html/template keeps the scheme.
type link struct {
	Filename string
	Href     template.URL
}

type pdfView struct {
	Filename     string
	Tab          string
	Tabs         []navItem
	Entities     []domain.Entity
	EntitiesLink *link
	Text         string
	Query        string
	Hits         []domain.SearchHit
	Sentiment    *domain.Sentiment
	Messages     []chatLine
}

type view struct {
	Title   string
	Heading string
	Nav     []navItem
	Session *domain.Session
	Error   string
	Notice  string

	Messages         []chatLine
	PDF              *pdfView
	Tones            []domain.Tone
	ConversationLink *link
}

func navFor(current domain.Page) []navItem {
	items := make([]navItem, 0, len(domain.Pages))
	for _, p := range domain.Pages {
		items = append(items, navItem{Title: p.Title(), Href: "/" + string(p), Active: p == current})
	}
	return items
}

func validTab(tab string) bool {
	for _, t := range tabTitles {
		if t.tab == tab {
			return true
		}
	}
	return false
}

func tabsFor(current string) []navItem {
	items := make([]navItem, 0, len(tabTitles))
	for _, t := range tabTitles {
		items = append(items, navItem{Title: t.title, Href: "/pdf?tab=" + t.tab, Active: t.tab == current})
	}
	return items
}

func chatLines(messages []domain.Message, userName string) []chatLine {
	if userName == "" {
		userName = "You"
	}

	lines := make([]chatLine, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case domain.RoleUser:
			lines = append(lines, chatLine{Role: m.Role, Speaker: userName, Content: m.Content})
		case domain.RoleAssistant:
			lines = append(lines, chatLine{Role: m.Role, Speaker: domain.AssistantName, Content: m.Content})
		}
	}
	return lines
}

func toLink(l domain.DataLink) *link {
	return &link{Filename: l.Filename, Href: template.URL(l.Href)}
}
