package command

import "strings"

// Field is a titled block within a Reply.
type Field struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline,omitempty"`
}

// Reply is a platform-neutral rich message.
type Reply struct {
	Title       string  `json:"title"`
	Description string  `json:"description,omitempty"`
	ImageURL    string  `json:"image_url,omitempty"`
	Fields      []Field `json:"fields,omitempty"`
}

// Text renders r as plain text for terminals. Inline fields that share a
// line count are printed side by side.
func (r Reply) Text() string {
	var b strings.Builder
	b.WriteString(r.Title)
	b.WriteString("\n")
	if r.Description != "" {
		b.WriteString(r.Description)
		b.WriteString("\n")
	}

	for i := 0; i < len(r.Fields); i++ {
		f := r.Fields[i]
		if f.Inline && i+1 < len(r.Fields) && r.Fields[i+1].Inline {
			writeColumns(&b, f, r.Fields[i+1])
			i++
			continue
		}
		b.WriteString("\n")
		b.WriteString(f.Name)
		b.WriteString("\n")
		b.WriteString(f.Value)
		b.WriteString("\n")
	}

	if r.ImageURL != "" {
		b.WriteString(r.ImageURL)
		b.WriteString("\n")
	}
	return b.String()
}

func writeColumns(b *strings.Builder, left, right Field) {
	l := append([]string{left.Name}, strings.Split(left.Value, "\n")...)
	r := append([]string{right.Name}, strings.Split(right.Value, "\n")...)

	width := 0
	for _, s := range l {
		width = max(width, len(s))
	}
	b.WriteString("\n")
	for i := range max(len(l), len(r)) {
		var ls, rs string
		if i < len(l) {
			ls = l[i]
		}
		if i < len(r) {
			rs = r[i]
		}
		b.WriteString(strings.TrimRight(ls+strings.Repeat(" ", width-len(ls)+2)+rs, " "))
		b.WriteString("\n")
	}
}
