package combine

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"reposynth/pkg/ignore"

	"go.uber.org/zap"
)

type treeNode struct {
	name     string
	dir      bool
	children map[string]*treeNode
}

func newTreeNode(name string, dir bool) *treeNode {
	return &treeNode{name: name, dir: dir, children: map[string]*treeNode{}}
}

// GenerateTree renders the files a run over root would include as a tree.
// Only files that pass keep and read as text are listed; directories appear
// only when they contain such a file.
func GenerateTree(root string, keep ignore.Filter, logger *zap.Logger) (string, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	top := newTreeNode(filepath.Clean(root), true)
	err := Walk(root, keep, logger, func(e ignore.Entry) error {
		relPath, err := RelativePath(root, e.Path)
		if err != nil {
			return err
		}
		if _, ok := readText(e.Path); !ok {
			return nil
		}
		top.insert(strings.Split(relPath, string(os.PathSeparator)))
		return nil
	})
	if err != nil {
		logger.Error("Failed to walk directory for tree generation", zap.Error(err))
		return "", err
	}

	var tree strings.Builder
	tree.WriteString(top.name + "/\n")
	top.render(&tree, "")
	return tree.String(), nil
}

func (n *treeNode) insert(parts []string) {
	current := n
	for i, part := range parts {
		child, ok := current.children[part]
		if !ok {
			child = newTreeNode(part, i < len(parts)-1)
			current.children[part] = child
		}
		current = child
	}
}

// sorted returns children with directories first, then alphabetically ignoring case.
func (n *treeNode) sorted() []*treeNode {
	children := make([]*treeNode, 0, len(n.children))
	for _, child := range n.children {
		children = append(children, child)
	}
	sort.Slice(children, func(i, j int) bool {
		if children[i].dir != children[j].dir {
			return children[i].dir
		}
		li, lj := strings.ToLower(children[i].name), strings.ToLower(children[j].name)
		if li != lj {
			return li < lj
		}
		return children[i].name < children[j].name
	})
	return children
}

func (n *treeNode) render(b *strings.Builder, prefix string) {
	children := n.sorted()
	for i, child := range children {
		connector := "├── "
		extension := "│   "
		if i == len(children)-1 {
			connector = "└── "
			extension = "    "
		}

		b.WriteString(prefix + connector + child.name)
		if child.dir {
			b.WriteString("/\n")
			child.render(b, prefix+extension)
			continue
		}
		b.WriteString("\n")
	}
}
