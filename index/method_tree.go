package index

import (
	"github.com/swind/go-jdeobf/entry"
)

// MethodTree is a tree of one method signature across a class hierarchy,
// stored as an arena. Node 0 is the root and Parent is -1 for it.
type MethodTree struct {
	Nodes []MethodTreeNode
}

type MethodTreeNode struct {
	Method      entry.MethodEntry
	Implemented bool
	Parent      int
	Children    []int
}

func newMethodTree(root entry.MethodEntry, implemented bool) *MethodTree {
	return &MethodTree{Nodes: []MethodTreeNode{{Method: root, Implemented: implemented, Parent: -1}}}
}

func (t *MethodTree) add(parent int, m entry.MethodEntry, implemented bool) int {
	id := len(t.Nodes)
	t.Nodes = append(t.Nodes, MethodTreeNode{Method: m, Implemented: implemented, Parent: parent})
	return id
}

func (t *MethodTree) Root() MethodTreeNode { return t.Nodes[0] }

// Walk visits every node depth first, parents before children.
func (t *MethodTree) Walk(fn func(node MethodTreeNode, depth int)) {
	var walk func(id, depth int)
	walk = func(id, depth int) {
		fn(t.Nodes[id], depth)
		for _, child := range t.Nodes[id].Children {
			walk(child, depth+1)
		}
	}
	walk(0, 0)
}

// Methods lists the methods of the tree in walk order.
func (t *MethodTree) Methods() []entry.MethodEntry {
	var methods []entry.MethodEntry
	t.Walk(func(node MethodTreeNode, _ int) {
		methods = append(methods, node.Method)
	})
	return methods
}

// BuildMethodInheritance builds the tree of m's signature below its root
// declaration. A subtree is kept only when some method in it is declared.
func (r *EntryResolver) BuildMethodInheritance(m entry.MethodEntry) *MethodTree {
	root, ok := r.ResolveFirstEntry(m, ResolveRoot).(entry.MethodEntry)
	if !ok {
		root = m
	}
	tree := newMethodTree(root, r.index.EntryIndex().HasMethod(root))
	r.loadInheritance(tree, 0, map[entry.ClassEntry]bool{root.Owner(): true})
	return tree
}

func (r *EntryResolver) loadInheritance(tree *MethodTree, id int, visiting map[entry.ClassEntry]bool) bool {
	method := tree.Nodes[id].Method
	for _, child := range r.index.InheritanceIndex().Children(method.Owner()) {
		if visiting[child] {
			continue
		}
		visiting[child] = true
		childMethod := method.WithOwner(child)
		cid := tree.add(id, childMethod, r.index.EntryIndex().HasMethod(childMethod))
		kept := r.loadInheritance(tree, cid, visiting)
		delete(visiting, child)

		if tree.Nodes[cid].Implemented || kept {
			tree.Nodes[id].Children = append(tree.Nodes[id].Children, cid)
		} else {
			// everything appended after cid belongs to its subtree
			tree.Nodes = tree.Nodes[:cid]
		}
	}
	return len(tree.Nodes[id].Children) > 0
}

// BuildMethodImplementations returns one tree per root declaration of m,
// each holding the root and every declared override in the descendants of
// the root's owner.
func (r *EntryResolver) BuildMethodImplementations(m entry.MethodEntry) []*MethodTree {
	var trees []*MethodTree
	for _, resolved := range r.ResolveEntry(m, ResolveRoot) {
		root, ok := resolved.(entry.MethodEntry)
		if !ok {
			continue
		}
		tree := newMethodTree(root, r.index.EntryIndex().HasMethod(root))
		for _, descendant := range r.index.InheritanceIndex().Descendants(root.Owner()) {
			impl := root.WithOwner(descendant)
			if r.index.EntryIndex().HasMethod(impl) {
				id := tree.add(0, impl, true)
				tree.Nodes[0].Children = append(tree.Nodes[0].Children, id)
			}
		}
		trees = append(trees, tree)
	}
	return trees
}
