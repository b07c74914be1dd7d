package editor

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strings"

	"storyloom/internal/story"
)

// REPL is the minimal line-oriented front end of the editor process. A
// full GUI would replace this file; everything else (session, bridge,
// poller) is front-end agnostic.
type REPL struct {
	session *Session
	in      io.Reader
	out     io.Writer
}

func NewREPL(session *Session, in io.Reader, out io.Writer) *REPL {
	return &REPL{session: session, in: in, out: out}
}

// Run reads commands until EOF or quit. Remote node opens interleave
// with the prompt via the session's open callback.
func (r *REPL) Run() error {
	r.session.SetOnOpen(func(id story.NodeID) {
		fmt.Fprintf(r.out, "\n[remote] opened node %s for editing\n> ", id)
	})

	fmt.Fprintln(r.out, `storyloom editor — type "help" for commands`)
	scanner := bufio.NewScanner(r.in)
	for {
		fmt.Fprint(r.out, "> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "quit" || line == "exit" {
			return nil
		}
		if err := r.execute(line); err != nil {
			fmt.Fprintf(r.out, "error: %v\n", err)
		}
	}
}

func (r *REPL) execute(line string) error {
	fields := strings.Fields(line)
	cmd, args := fields[0], fields[1:]

	switch cmd {
	case "help":
		r.printHelp()
		return nil
	case "nodes":
		return r.printNodes()
	case "show":
		if len(args) < 1 {
			return fmt.Errorf("usage: show <id>")
		}
		return r.printNode(story.NodeID(args[0]))
	case "add":
		if len(args) < 1 {
			return fmt.Errorf("usage: add <id> [text]")
		}
		return r.session.AddNode(story.NodeID(args[0]), strings.Join(args[1:], " "))
	case "text":
		if len(args) < 2 {
			return fmt.Errorf("usage: text <id> <text>")
		}
		return r.session.SetText(story.NodeID(args[0]), strings.Join(args[1:], " "))
	case "choice":
		if len(args) < 2 {
			return fmt.Errorf("usage: choice <id> <target> [text]")
		}
		return r.session.AddChoice(story.NodeID(args[0]), strings.Join(args[2:], " "), story.NodeID(args[1]), false)
	case "end":
		if len(args) < 1 {
			return fmt.Errorf("usage: end <id> [text]")
		}
		return r.session.AddChoice(story.NodeID(args[0]), strings.Join(args[1:], " "), "", true)
	case "delete":
		if len(args) < 1 {
			return fmt.Errorf("usage: delete <id>")
		}
		return r.session.DeleteNode(story.NodeID(args[0]))
	case "save":
		if err := r.session.Save(); err != nil {
			return err
		}
		fmt.Fprintln(r.out, "saved")
		return nil
	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func (r *REPL) printHelp() {
	fmt.Fprint(r.out, `commands:
  nodes                       list node ids
  show <id>                   print a node
  add <id> [text]             create a node
  text <id> <text>            replace a node's text
  choice <id> <target> [text] add a choice leading to target
  end <id> [text]             add an ending choice
  delete <id>                 remove a node
  save                        write the project archive
  quit                        exit
`)
}

func (r *REPL) printNodes() error {
	graph := r.session.Graph()
	ids := graph.IDs()
	if len(ids) == 0 {
		fmt.Fprintln(r.out, "(no nodes)")
		return nil
	}
	open, _ := r.session.Open()
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		marker := " "
		if id == open {
			marker = "*"
		}
		fmt.Fprintf(r.out, "%s %s (%s)\n", marker, id, graph[id].Kind())
	}
	return nil
}

func (r *REPL) printNode(id story.NodeID) error {
	graph := r.session.Graph()
	node, exists := graph[id]
	if !exists {
		return fmt.Errorf("node %q does not exist", id)
	}
	fmt.Fprintf(r.out, "%s (%s)\n%s\n", id, node.Kind(), node.Text)
	for i, choice := range node.Choices {
		if choice.Ending {
			fmt.Fprintf(r.out, "  %d. %s [ending]\n", i+1, choice.Text)
			continue
		}
		fmt.Fprintf(r.out, "  %d. %s -> %s\n", i+1, choice.Text, choice.Target)
	}
	return nil
}
