// Package command turns prefixed chat messages such as "~whereis erie hall"
// into replies. Handlers are registered in an explicit map keyed by the
// command word.
package command

import (
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/campusbot/whereis/internal/asset"
	"github.com/campusbot/whereis/internal/normalize"
	"github.com/campusbot/whereis/internal/resolve"
)

// DefaultPrefix marks a message as a command.
const DefaultPrefix = "~"

// ListQuery is the whereis argument that lists every building.
const ListQuery = "list"

// Resolver is the lookup surface the dispatcher needs. Both
// *resolve.Resolver and *reload.Holder satisfy it.
type Resolver interface {
	ResolveOne(query string) resolve.MatchResult
	ListAll() (codes, names []string)
	Suggest(query string, n int) []string
}

// Handler builds the reply for one command given its joined arguments.
type Handler func(args string) Reply

// Config controls prefixes, image links and suggestions.
type Config struct {
	Prefix       string
	ImageBaseURL string
	ImageExt     string
	Suggestions  int
	OnResolve    func(resolve.MatchResult)
}

// Dispatcher routes messages to handlers.
type Dispatcher struct {
	cfg      Config
	res      Resolver
	handlers map[string]Handler
}

// New creates a Dispatcher with the help and whereis commands registered.
func New(res Resolver, cfg Config) *Dispatcher {
	if cfg.Prefix == "" {
		cfg.Prefix = DefaultPrefix
	}
	d := &Dispatcher{cfg: cfg, res: res}
	d.handlers = map[string]Handler{
		"help":    d.help,
		"whereis": d.whereis,
	}
	return d
}

// Commands returns the registered command words in sorted order.
func (d *Dispatcher) Commands() []string {
	out := make([]string, 0, len(d.handlers))
	for name := range d.handlers {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Handle parses message and runs the matching handler. ok is false when the
// message lacks the prefix or names no registered command.
func (d *Dispatcher) Handle(message string) (reply Reply, ok bool) {
	msg := strings.TrimSpace(message)
	if !strings.HasPrefix(msg, d.cfg.Prefix) {
		return Reply{}, false
	}

	words := strings.Fields(strings.TrimPrefix(msg, d.cfg.Prefix))
	if len(words) == 0 {
		return Reply{}, false
	}
	name := strings.ToLower(words[0])
	h, ok := d.handlers[name]
	if !ok {
		zap.L().Debug("command: unknown command", zap.String("command", name))
		return Reply{}, false
	}
	return h(strings.Join(words[1:], " ")), true
}

func (d *Dispatcher) help(string) Reply {
	p := d.cfg.Prefix
	return Reply{
		Title:       "Help Menu",
		Description: "Note: Arguments in <this format> do not require the '<', '>' characters",
		Fields: []Field{
			{
				Name:  "General Commands",
				Value: "**`" + p + "help`** - return the help menu",
			},
			{
				Name: "Building Search Commands",
				Value: "**`" + p + "whereis <buildingName || buildingCode>`** - return building details and location on map\n" +
					"**`" + p + "whereis list`** - return the list of all building codes and their associating names",
			},
		},
	}
}

func (d *Dispatcher) whereis(args string) Reply {
	if normalize.Key(args) == ListQuery {
		return d.list()
	}

	m := d.res.ResolveOne(args)
	if d.cfg.OnResolve != nil {
		d.cfg.OnResolve(m)
	}
	if m.Found {
		return Reply{
			Title:       "Building Search",
			Description: m.Name + " (" + m.Code + ")",
			ImageURL:    asset.ImageURL(d.cfg.ImageBaseURL, m.Code, d.cfg.ImageExt),
		}
	}

	reply := Reply{
		Title: "Invalid Command or Building",
		Description: ":bangbang: Building or command could not be found.\n\n" +
			"Try using **" + d.cfg.Prefix + "whereis list**",
	}
	if lines := d.suggestions(args); len(lines) > 0 {
		reply.Fields = []Field{{Name: "Did you mean", Value: strings.Join(lines, "\n")}}
	}
	return reply
}

func (d *Dispatcher) list() Reply {
	codes, names := d.res.ListAll()
	return Reply{
		Title: "Building List",
		Fields: []Field{
			{Name: "Codes", Value: strings.Join(codes, "\n"), Inline: true},
			{Name: "Full Names", Value: strings.Join(names, "\n"), Inline: true},
		},
	}
}

func (d *Dispatcher) suggestions(args string) []string {
	if d.cfg.Suggestions <= 0 {
		return nil
	}
	codes := d.res.Suggest(args, d.cfg.Suggestions)
	if len(codes) == 0 {
		return nil
	}
	allCodes, allNames := d.res.ListAll()
	nameOf := make(map[string]string, len(allCodes))
	for i, c := range allCodes {
		nameOf[c] = allNames[i]
	}

	lines := make([]string, len(codes))
	for i, c := range codes {
		lines[i] = nameOf[c] + " (" + c + ")"
	}
	return lines
}
