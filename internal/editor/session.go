// Package editor is the desktop-side shell: it owns the authoritative
// story graph, exports a snapshot on every content change, and serves
// as the dispatch target for remote commands. The interactive front end
// drives a Session; the bridge poller calls into the same Session from
// its background goroutine.
package editor

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	"storyloom/internal/bridge"
	"storyloom/internal/story"
)

type Session struct {
	mu          sync.Mutex
	project     *story.Project
	archivePath string
	exporter    *bridge.Exporter
	log         *zap.Logger
	openNode    story.NodeID
	onOpen      func(story.NodeID)
}

var _ bridge.Dispatcher = (*Session)(nil)

func NewSession(project *story.Project, archivePath string, exporter *bridge.Exporter, log *zap.Logger) *Session {
	return &Session{
		project:     project,
		archivePath: archivePath,
		exporter:    exporter,
		log:         log,
	}
}

// Export publishes the current state. Mutating methods call it
// implicitly; the shell calls it once at startup so the visualizer sees
// the freshly loaded project before any edit happens.
func (s *Session) Export() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.export()
}

// export publishes under an already-held lock.
func (s *Session) export() error {
	return s.exporter.Export(s.project.Metadata, s.project.Graph)
}

// Graph returns a snapshot copy for the command poller's dangling-target
// check. The poller runs on its own goroutine and must not alias nodes
// the shell is mutating.
func (s *Session) Graph() story.Graph {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.project.Graph.Clone()
}

func (s *Session) Metadata() story.Metadata {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.project.Metadata
}

// OpenNode is the bridge dispatch for edit-node commands: it makes the
// targeted node the active one, exactly as the desktop editor raises
// that node's edit view.
func (s *Session) OpenNode(id story.NodeID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.project.Graph[id]; !exists {
		// The poller checks existence before dispatching, but the node
		// can vanish between its check and this call.
		s.log.Warn("node disappeared before open", zap.String("node", string(id)))
		return
	}
	s.openNode = id
	if s.onOpen != nil {
		s.onOpen(id)
	}
}

// SetOnOpen registers a callback fired whenever a node is opened
// remotely, so the front end can raise its edit view.
func (s *Session) SetOnOpen(fn func(story.NodeID)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onOpen = fn
}

// SaveProject is the bridge dispatch for save commands.
func (s *Session) SaveProject() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := story.SaveArchive(s.archivePath, s.project); err != nil {
		s.log.Error("remote save failed", zap.Error(err))
		return
	}
	s.log.Info("project saved on remote request", zap.String("path", s.archivePath))
}

// Open returns the node currently open for editing, if any.
func (s *Session) Open() (story.NodeID, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.openNode, s.openNode != ""
}

func (s *Session) AddNode(id story.NodeID, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id == "" {
		return fmt.Errorf("node id is required")
	}
	if _, exists := s.project.Graph[id]; exists {
		return fmt.Errorf("node %q already exists", id)
	}
	s.project.Graph[id] = &story.Node{Text: text}
	s.openNode = id
	return s.export()
}

func (s *Session) SetText(id story.NodeID, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	node, exists := s.project.Graph[id]
	if !exists {
		return fmt.Errorf("node %q does not exist", id)
	}
	node.Text = text
	return s.export()
}

func (s *Session) AddChoice(id story.NodeID, text string, target story.NodeID, ending bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	node, exists := s.project.Graph[id]
	if !exists {
		return fmt.Errorf("node %q does not exist", id)
	}
	if !ending && target == "" {
		return fmt.Errorf("choice needs a target or the ending tag")
	}
	node.Choices = append(node.Choices, story.Choice{Text: text, Target: target, Ending: ending})
	return s.export()
}

// DeleteNode removes a node. Choices elsewhere that still target it are
// left alone: the visualizer renders them as placeholders and validate
// reports them, but content is never silently rewritten.
func (s *Session) DeleteNode(id story.NodeID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.project.Graph[id]; !exists {
		return fmt.Errorf("node %q does not exist", id)
	}
	delete(s.project.Graph, id)
	if s.openNode == id {
		s.openNode = ""
	}
	return s.export()
}

// Save persists the archive without going through the bridge.
func (s *Session) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := story.SaveArchive(s.archivePath, s.project); err != nil {
		return fmt.Errorf("saving project: %w", err)
	}
	return nil
}
