package domain

import (
	"fmt"

	"elearn/internal/platform/siren"
)

// DueDate is the broken-down local due time carried by a due item.
type DueDate struct {
	Year   int `json:"Year"`
	Month  int `json:"Month"`
	Day    int `json:"Day"`
	Hour   int `json:"Hour"`
	Minute int `json:"Minute"`
	Second int `json:"Second"`
}

// Timestamp renders the date in the LayoutDue shape.
func (d DueDate) Timestamp() string {
	return fmt.Sprintf("%02d/%02d/%04d %02d:%02d:%02d", d.Month, d.Day, d.Year, d.Hour, d.Minute, d.Second)
}

type DueItem struct {
	Title string
	Date  DueDate
}

type Submission struct {
	Date string
}

// Node is one vertex of a due-tree. Due and Submission are optional payloads;
// Incomplete marks a node that carried a dueDate without a title. Malformed
// counts children dropped at decode time.
type Node struct {
	Due        *DueItem
	Submission *Submission
	Incomplete bool
	Malformed  int
	Children   []Node
}

// NodeFromEntity converts a decoded sequences document into a due-tree.
func NodeFromEntity(e siren.Entity) Node {
	node := Node{Malformed: e.Malformed}
	if e.Properties.Has("dueDate") {
		due := DueDate{}
		title, hasTitle := e.Properties.String("title")
		if e.Properties.Decode("dueDate", &due) && hasTitle {
			node.Due = &DueItem{Title: title, Date: due}
		} else {
			node.Incomplete = true
		}
	}
	if e.HasClass("completion", "date") {
		if date, ok := e.Properties.String("date"); ok {
			node.Submission = &Submission{Date: date}
		}
	}
	if len(e.Entities) > 0 {
		node.Children = make([]Node, 0, len(e.Entities))
		for _, child := range e.Entities {
			node.Children = append(node.Children, NodeFromEntity(child))
		}
	}
	return node
}

// FirstSubmission searches n and its subtree in document order and returns
// the first submission marker.
func (n *Node) FirstSubmission() *Submission {
	stack := []*Node{n}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if top.Submission != nil {
			return top.Submission
		}
		for i := len(top.Children) - 1; i >= 0; i-- {
			stack = append(stack, &top.Children[i])
		}
	}
	return nil
}
