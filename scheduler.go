package foundry

import "fmt"

// TaskNode is one node of the Scheduler's task DAG: an optional thunk run
// once per Tick, plus the predecessor/successor edges that fix its position
// in topological order. A thunk returning true removes its own node at the
// end of the current Tick. Created via Scheduler.CreateTask; never
// constructed directly.
type TaskNode struct {
	id    string
	thunk func(world *World, scheduler *Scheduler) bool

	predecessors []*TaskNode
	successors   []*TaskNode
}

// ID returns this node's scheduler-scoped identifier, stable for its
// lifetime.
func (n *TaskNode) ID() string { return n.id }

// Scheduler is a single-threaded, per-world directed acyclic task graph.
// Tick executes every node's thunk once in topological order; the order is
// recomputed lazily whenever the edge set changes and is immutable during
// Tick itself, per spec.md §4.6. Grounded in the task/dependency vocabulary
// spec.md §3 and §4.6 name, since warehouse has no scheduler of its own —
// the topological-sort-with-rollback technique is this module's own, built
// to satisfy spec.md §8's cycle-rejection scenario.
type Scheduler struct {
	nodes  []*TaskNode
	nextID int

	order []*TaskNode
	dirty bool

	registered map[System]*registration
}

// NewScheduler creates an empty Scheduler.
func NewScheduler() *Scheduler {
	return &Scheduler{}
}

func (s *Scheduler) allocID() string {
	s.nextID++
	return fmt.Sprintf("task-%d", s.nextID)
}

func (s *Scheduler) contains(node *TaskNode) bool {
	for _, n := range s.nodes {
		if n == node {
			return true
		}
	}
	return false
}

// CreateTask adds a node with the given thunk (nil for a Passive node with
// no per-tick work) and draws an edge from each predecessor, failing with
// InvalidTaskDependencyError if any predecessor does not already belong to
// this scheduler.
func (s *Scheduler) CreateTask(thunk func(world *World, scheduler *Scheduler) bool, predecessors ...*TaskNode) (*TaskNode, error) {
	for _, p := range predecessors {
		if !s.contains(p) {
			return nil, InvalidTaskDependencyError{Reason: "predecessor task does not belong to this scheduler"}
		}
	}

	node := &TaskNode{id: s.allocID(), thunk: thunk}
	for _, p := range predecessors {
		node.predecessors = append(node.predecessors, p)
		p.successors = append(p.successors, node)
	}
	s.nodes = append(s.nodes, node)
	s.dirty = true
	return node, nil
}

// AddDependency draws an edge from predecessor to node, rejecting it with
// InvalidTaskDependencyError — and leaving the graph exactly as it was —
// if the edge would close a cycle or either node is foreign to this
// scheduler. Implements spec.md §4.6's "adding an edge that would form a
// cycle fails" via trial-sort-then-rollback: the edge is added, a
// topological sort is attempted, and on failure both the edge and any
// slice growth are undone before returning.
func (s *Scheduler) AddDependency(node, predecessor *TaskNode) error {
	if !s.contains(node) || !s.contains(predecessor) {
		return InvalidTaskDependencyError{Reason: "node does not belong to this scheduler"}
	}

	node.predecessors = append(node.predecessors, predecessor)
	predecessor.successors = append(predecessor.successors, node)

	if _, err := topologicalSort(s.nodes); err != nil {
		node.predecessors = node.predecessors[:len(node.predecessors)-1]
		predecessor.successors = predecessor.successors[:len(predecessor.successors)-1]
		return InvalidTaskDependencyError{Reason: "adding this dependency would close a cycle"}
	}

	s.dirty = true
	return nil
}

// RemoveTask detaches node from the graph, failing with TaskDependedError
// if it still has live successors.
func (s *Scheduler) RemoveTask(node *TaskNode) error {
	if len(node.successors) > 0 {
		return TaskDependedError{Node: node}
	}
	s.detach(node)
	return nil
}

func (s *Scheduler) detach(node *TaskNode) {
	for _, p := range node.predecessors {
		p.successors = removeTaskNode(p.successors, node)
	}
	for _, c := range node.successors {
		c.predecessors = removeTaskNode(c.predecessors, node)
	}
	s.nodes = removeTaskNode(s.nodes, node)
	s.dirty = true
}

func removeTaskNode(nodes []*TaskNode, target *TaskNode) []*TaskNode {
	for i, n := range nodes {
		if n == target {
			return append(nodes[:i:i], nodes[i+1:]...)
		}
	}
	return nodes
}

// Tick walks the graph in topological order once, running every node's
// thunk. A thunk returning true marks its node for removal at the end of
// this Tick — the edge set, and therefore the topological order, is
// immutable for the remainder of the walk, per spec.md §4.6. A thunk that
// panics propagates out of Tick; nodes earlier in the order have already
// run, nodes later in the order have not.
func (s *Scheduler) Tick(world *World) error {
	order, err := s.topologicalOrder()
	if err != nil {
		return err
	}

	var selfRemoved []*TaskNode
	for _, node := range order {
		if node.thunk == nil {
			continue
		}
		if node.thunk(world, s) {
			selfRemoved = append(selfRemoved, node)
		}
	}

	for _, node := range selfRemoved {
		s.detach(node)
	}
	return nil
}

func (s *Scheduler) topologicalOrder() ([]*TaskNode, error) {
	if !s.dirty && s.order != nil {
		return s.order, nil
	}
	order, err := topologicalSort(s.nodes)
	if err != nil {
		return nil, err
	}
	s.order = order
	s.dirty = false
	return order, nil
}

// topologicalSort runs Kahn's algorithm over nodes, returning
// InvalidTaskDependencyError if the edge set contains a cycle.
func topologicalSort(nodes []*TaskNode) ([]*TaskNode, error) {
	indegree := make(map[*TaskNode]int, len(nodes))
	for _, n := range nodes {
		indegree[n] = len(n.predecessors)
	}

	queue := make([]*TaskNode, 0, len(nodes))
	for _, n := range nodes {
		if indegree[n] == 0 {
			queue = append(queue, n)
		}
	}

	order := make([]*TaskNode, 0, len(nodes))
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		order = append(order, n)
		for _, succ := range n.successors {
			indegree[succ]--
			if indegree[succ] == 0 {
				queue = append(queue, succ)
			}
		}
	}

	if len(order) != len(nodes) {
		return nil, InvalidTaskDependencyError{Reason: "task graph contains a cycle"}
	}
	return order, nil
}
