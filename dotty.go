package textbuffer

import (
	"fmt"
	"io"
	"strings"
)

type nodeids struct {
	idTable map[any]int
	max     int
}

func newtable() nodeids {
	return nodeids{
		idTable: make(map[any]int),
		max:     1,
	}
}

func (ids nodeids) find(x any) int {
	return ids.idTable[x]
}

func (ids *nodeids) alloc(x any) int {
	if id := ids.find(x); id > 0 {
		return id
	}
	ids.idTable[x] = ids.max
	ids.max++
	return ids.max - 1
}

// WriteDot outputs the internal structure of a buffer's line tree in
// Graphviz DOT format (for debugging purposes).
func (b *Buffer) WriteDot(w io.Writer) error {
	var sb strings.Builder
	sb.WriteString("strict digraph {\n")
	sb.WriteString("\tnode [fontname=Arial,fontsize=12];\n")
	ids := newtable()
	var nodelist, edgelist strings.Builder
	var dump func(n *node)
	dump = func(n *node) {
		ID := ids.alloc(n)
		fmt.Fprintf(&nodelist, "\"%d\" [label=\"%d/%d\" %s];\n", ID, n.numLines, n.numChars,
			nodeDotStyles(false))
		if n.isLeaf() {
			for _, l := range n.lines {
				lid := ids.alloc(l)
				fmt.Fprintf(&nodelist, "\"%d\" [label=\"%s\" %s];\n", lid, lineLabel(l), nodeDotStyles(true))
				fmt.Fprintf(&edgelist, "\"%d\" -> \"%d\";\n", ID, lid)
			}
			return
		}
		for _, c := range n.children {
			dump(c)
			fmt.Fprintf(&edgelist, "\"%d\" -> \"%d\";\n", ID, ids.find(c))
		}
	}
	dump(b.tree.root)
	sb.WriteString(nodelist.String())
	sb.WriteString(edgelist.String())
	sb.WriteString("}\n")
	_, err := io.WriteString(w, sb.String())
	return err
}

func lineLabel(l *Line) string {
	var parts []string
	for s := l.segs; s != nil; s = s.next {
		parts = append(parts, s.String())
	}
	label := strings.Join(parts, "\\n")
	return strings.ReplaceAll(label, "\"", "\\\"")
}

func nodeDotStyles(isleaf bool) string {
	s := ",style=filled"
	if isleaf {
		s += ",shape=box"
	} else {
		s += ",color=black,fillcolor=\"#a3d7e4\""
		s += ",shape=circle"
	}
	return s
}
