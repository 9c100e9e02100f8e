package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/danmuck/blestack/internal/catalog"
	"github.com/danmuck/blestack/internal/explorer"
	"github.com/danmuck/blestack/internal/navigator"
	"github.com/danmuck/blestack/internal/render"
	"github.com/rs/zerolog/log"
)

const replPrompt = "blestack > "

// repl drives one explorer session from line-oriented input.
type repl struct {
	reader   *bufio.Reader
	out      io.Writer
	session  *explorer.Session
	renderer *render.Renderer
}

func newREPL(in io.Reader, out io.Writer, cat *catalog.Catalog, r *render.Renderer) *repl {
	session := explorer.New(cat)
	_ = session.SelectTab(explorer.TabDrilldown)
	return &repl{
		reader:   bufio.NewReader(in),
		out:      out,
		session:  session,
		renderer: r,
	}
}

// Run reads commands until quit or end of input.
func (r *repl) Run() error {
	r.show()
	fmt.Fprintln(r.out, "type help for commands")
	for {
		fmt.Fprint(r.out, replPrompt)
		line, err := r.reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return err
		}
		if r.handle(strings.TrimSpace(line)) {
			return nil
		}
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(r.out)
			return nil
		}
	}
}

// handle runs one command and reports whether the loop should stop.
func (r *repl) handle(line string) bool {
	switch strings.ToLower(line) {
	case "":
		return false
	case "quit", "q", "exit":
		return true
	case "help", "h", "?":
		r.help()
		return false
	case "show":
		r.show()
		return false
	}

	current := r.session.Navigator().State().Current
	ev, err := explorer.ParseCommand(line, current)
	if err != nil {
		r.fail(err)
		return false
	}
	if err := r.session.Dispatch(ev); err != nil {
		r.fail(err)
		return false
	}
	log.Debug().Str("event", string(ev.Kind)).Str("current", r.session.Navigator().State().Current.String()).Msg("explore")
	r.show()
	return false
}

func (r *repl) show() {
	fmt.Fprintln(r.out)
	r.renderer.View(r.session.Catalog(), r.session.View())
}

func (r *repl) fail(err error) {
	kind := navigator.Kind(err)
	if kind == "" {
		kind = "bad_event"
	}
	fmt.Fprintf(r.out, "! %v (%s)\n", err, kind)
}

func (r *repl) help() {
	fmt.Fprintln(r.out, "Commands")
	fmt.Fprintln(r.out, "  open N | select N   click field N of the current layer")
	fmt.Fprintln(r.out, "  back                return to the previous layer")
	fmt.Fprintln(r.out, "  jump ID             jump to a layer in the breadcrumb trail")
	fmt.Fprintln(r.out, "  tab NAME            overview, layers, packets or drilldown")
	fmt.Fprintln(r.out, "  toggle ID           expand or collapse a layer card")
	fmt.Fprintln(r.out, "  overview ID         select a layer in the overview")
	fmt.Fprintln(r.out, "  show                redraw the current view")
	fmt.Fprintln(r.out, "  quit                leave")
}
