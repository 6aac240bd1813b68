package git

import (
	"fmt"
	"slices"
	"strings"

	"github.com/go-git/go-git/v6/plumbing"
	"github.com/go-git/go-git/v6/plumbing/filemode"
	"github.com/go-git/go-git/v6/plumbing/format/index"
	"github.com/go-git/go-git/v6/plumbing/object"
	"github.com/go-git/go-git/v6/plumbing/storer"
)

// treeNode is one directory level of the index while building trees.
type treeNode struct {
	files map[string]object.TreeEntry
	dirs  map[string]*treeNode
}

func newTreeNode() *treeNode {
	return &treeNode{
		files: map[string]object.TreeEntry{},
		dirs:  map[string]*treeNode{},
	}
}

// writeTree writes the tree objects for the given index entries and returns
// the hash of the root tree. Equal entries always produce the same hash.
func writeTree(s storer.EncodedObjectStorer, entries []*index.Entry) (plumbing.Hash, error) {
	root := newTreeNode()

	for _, e := range entries {
		// stage 0 holds merged entries, 1-3 the sides of a conflict
		if e.Stage != 0 {
			return plumbing.ZeroHash, fmt.Errorf("unmerged index entry %s", e.Name)
		}

		node := root
		parts := strings.Split(e.Name, "/")
		for _, dir := range parts[:len(parts)-1] {
			child, ok := node.dirs[dir]
			if !ok {
				child = newTreeNode()
				node.dirs[dir] = child
			}
			node = child
		}

		name := parts[len(parts)-1]
		node.files[name] = object.TreeEntry{
			Name: name,
			Mode: e.Mode,
			Hash: e.Hash,
		}
	}

	return writeTreeNode(s, root)
}

func writeTreeNode(s storer.EncodedObjectStorer, node *treeNode) (plumbing.Hash, error) {
	entries := make([]object.TreeEntry, 0, len(node.files)+len(node.dirs))

	for name, child := range node.dirs {
		hash, err := writeTreeNode(s, child)
		if err != nil {
			return plumbing.ZeroHash, err
		}

		entries = append(entries, object.TreeEntry{
			Name: name,
			Mode: filemode.Dir,
			Hash: hash,
		})
	}

	for _, entry := range node.files {
		entries = append(entries, entry)
	}

	// git orders directories as if their names ended with a slash
	slices.SortFunc(entries, func(a, b object.TreeEntry) int {
		return strings.Compare(treeSortKey(a), treeSortKey(b))
	})

	tree := &object.Tree{Entries: entries}

	obj := s.NewEncodedObject()
	if err := tree.Encode(obj); err != nil {
		return plumbing.ZeroHash, fmt.Errorf("failed to encode tree: %w", err)
	}

	hash, err := s.SetEncodedObject(obj)
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("failed to write tree: %w", err)
	}

	return hash, nil
}

func treeSortKey(e object.TreeEntry) string {
	if e.Mode == filemode.Dir {
		return e.Name + "/"
	}

	return e.Name
}
